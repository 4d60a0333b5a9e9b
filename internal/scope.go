package internal

// Scope is the mutable evaluation context of a single render call: a stack
// of named bindings plus the implicit current value. Frames are pushed on
// entering For (per iteration) and With, and popped on block exit —
// strictly LIFO, so inner bindings shadow outer ones and the shadowing is
// undone when the block closes.
//
// A Scope is created fresh per render call and is not safe for concurrent
// use; compiled templates carry no reference to it.
type Scope struct {
	frames []frame
}

type frame struct {
	name    string
	value   Value
	current bool // frame holds the implicit current value, not a named binding
}

// NewScope creates a scope whose implicit current value is root.
func NewScope(root Value) *Scope {
	return &Scope{frames: []frame{{value: root, current: true}}}
}

// Push binds name to value in a new innermost frame.
func (s *Scope) Push(name string, value Value) {
	s.frames = append(s.frames, frame{name: name, value: value})
}

// Pop removes the innermost frame.
func (s *Scope) Pop() {
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Lookup finds the innermost binding for name, searching top to bottom so
// the nearest enclosing binding wins.
func (s *Scope) Lookup(name string) (Value, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if !f.current && f.name == name {
			return f.value, true
		}
	}
	return AbsentValue(), false
}

// Current returns the implicit current value: the innermost frame flagged
// as current (the render root, or the positional argument of a call).
func (s *Scope) Current() Value {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].current {
			return s.frames[i].value
		}
	}
	return AbsentValue()
}

// Depth returns the number of frames, the render root included.
func (s *Scope) Depth() int {
	return len(s.frames)
}
