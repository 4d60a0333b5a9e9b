package internal

// Node is a single element of a compiled template tree. The node set is
// closed: Text, Value, If, For, With and Call.
type Node interface {
	// NodePos returns the source position of the node's first token.
	NodePos() Position
}

// RootNode is the compiled template: an ordered, immutable node sequence.
type RootNode struct {
	Nodes []Node
}

// TextNode holds a literal text run, preserved byte-for-byte.
type TextNode struct {
	Text string
	Pos  Position
}

func (n *TextNode) NodePos() Position { return n.Pos }

// ValueNode interpolates a path through a formatter. Formatter is empty when
// the directive names none; the renderer then applies the default formatter.
type ValueNode struct {
	Path      Path
	Formatter string
	Pos       Position
}

func (n *ValueNode) NodePos() Position { return n.Pos }

// IfNode renders Then when the condition is truthy, Else otherwise. A
// chained "else if" compiles to a single nested IfNode in Else.
type IfNode struct {
	Cond Path
	Then []Node
	Else []Node
	Pos  Position
}

func (n *IfNode) NodePos() Position { return n.Pos }

// ForNode renders Body once per element of the sequence at Source, binding
// Var to the element and, when Index is non-empty, Index to the 0-based
// position.
type ForNode struct {
	Var    string
	Index  string
	Source Path
	Body   []Node
	Pos    Position
}

func (n *ForNode) NodePos() Position { return n.Pos }

// WithNode binds Name to the value at Source for the duration of Body.
type WithNode struct {
	Source Path
	Name   string
	Body   []Node
	Pos    Position
}

func (n *WithNode) NodePos() Position { return n.Pos }

// CallArg is one named argument binding of a call directive.
type CallArg struct {
	Name string
	Path Path
}

// CallNode invokes a registered sub-template. Root becomes the
// sub-template's implicit current value; Args become named bindings in its
// fresh context.
type CallNode struct {
	Template string
	Root     Path
	Args     []CallArg
	Pos      Position
}

func (n *CallNode) NodePos() Position { return n.Pos }
