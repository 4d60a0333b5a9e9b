package internal

import (
	"strconv"
	"strings"
)

// Segment is one step of a path: a field name or a sequence index. Name
// always holds the raw segment text; Index/IsIndex are set when the segment
// lexed as a number.
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

// Path is a compiled path expression: an ordered segment list rooted at
// either a named binding or the implicit current value.
type Path struct {
	Segments []Segment
	Pos      Position
}

// String reassembles the dotted source form for diagnostics.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p.Segments {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Name)
	}
	return b.String()
}

// Resolve evaluates the path against the scope. The first segment is
// matched against the binding stack (innermost first); when no binding
// matches, the whole path resolves against the implicit current value.
// Descent is strictly left-to-right and short-circuits on the first
// failure with a path-not-found error naming the failing segment.
func (p Path) Resolve(s *Scope) (Value, error) {
	if len(p.Segments) == 0 {
		return s.Current(), nil
	}

	current := s.Current()
	rest := p.Segments

	first := p.Segments[0]
	if !first.IsIndex {
		if bound, ok := s.Lookup(first.Name); ok {
			current = bound
			rest = p.Segments[1:]
		}
	}

	for _, seg := range rest {
		next, err := descend(current, seg, p)
		if err != nil {
			return AbsentValue(), err
		}
		current = next
	}
	return current, nil
}

// descend applies one segment to a value: field lookup on a structure,
// index lookup on a sequence. Scalars and Absent cannot be descended into.
func descend(v Value, seg Segment, p Path) (Value, error) {
	switch v.Kind() {
	case KindStructure:
		field, ok := v.Field(seg.Name)
		if !ok {
			return AbsentValue(), NewPathNotFoundError(p.String(), seg.Name, p.Pos)
		}
		return field, nil
	case KindSequence:
		idx := seg.Index
		if !seg.IsIndex {
			parsed, err := strconv.Atoi(seg.Name)
			if err != nil || parsed < 0 {
				return AbsentValue(), NewPathNotFoundError(p.String(), seg.Name, p.Pos)
			}
			idx = parsed
		}
		elem, ok := v.At(idx)
		if !ok {
			return AbsentValue(), NewPathNotFoundError(p.String(), seg.Name, p.Pos)
		}
		return elem, nil
	default:
		return AbsentValue(), NewPathNotFoundError(p.String(), seg.Name, p.Pos)
	}
}
