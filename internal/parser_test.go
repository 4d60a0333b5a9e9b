package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, source string) *RootNode {
	t.Helper()
	root, err := parseErr(source, 0)
	require.NoError(t, err)
	return root
}

func parseErr(source string, maxDepth int) (*RootNode, error) {
	tokens, err := NewLexer(source, LexerConfig{OpenDelim: "{{", CloseDelim: "}}"}, nil).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens, source, maxDepth, nil).Parse()
}

func TestParser_TextOnly(t *testing.T) {
	root := parse(t, "plain text")

	require.Len(t, root.Nodes, 1)
	text, ok := root.Nodes[0].(*TextNode)
	require.True(t, ok)
	assert.Equal(t, "plain text", text.Text)
}

func TestParser_ValueNode(t *testing.T) {
	root := parse(t, "{{user.name}}")

	require.Len(t, root.Nodes, 1)
	value, ok := root.Nodes[0].(*ValueNode)
	require.True(t, ok)
	assert.Equal(t, "user.name", value.Path.String())
	assert.Empty(t, value.Formatter)
}

func TestParser_ValueNodeWithFormatter(t *testing.T) {
	root := parse(t, "{{bio | raw}}")

	value, ok := root.Nodes[0].(*ValueNode)
	require.True(t, ok)
	assert.Equal(t, "bio", value.Path.String())
	assert.Equal(t, "raw", value.Formatter)
}

func TestParser_IndexSegments(t *testing.T) {
	root := parse(t, "{{a.b.0.c}}")

	value := root.Nodes[0].(*ValueNode)
	require.Len(t, value.Path.Segments, 4)
	assert.False(t, value.Path.Segments[0].IsIndex)
	assert.True(t, value.Path.Segments[2].IsIndex)
	assert.Equal(t, 0, value.Path.Segments[2].Index)
}

func TestParser_IfBlock(t *testing.T) {
	root := parse(t, "{{if cond}}yes{{endif}}")

	require.Len(t, root.Nodes, 1)
	ifNode, ok := root.Nodes[0].(*IfNode)
	require.True(t, ok)
	assert.Equal(t, "cond", ifNode.Cond.String())
	require.Len(t, ifNode.Then, 1)
	assert.Empty(t, ifNode.Else)
}

func TestParser_IfElse(t *testing.T) {
	root := parse(t, "{{if cond}}yes{{else}}no{{endif}}")

	ifNode := root.Nodes[0].(*IfNode)
	require.Len(t, ifNode.Then, 1)
	require.Len(t, ifNode.Else, 1)
	assert.Equal(t, "no", ifNode.Else[0].(*TextNode).Text)
}

func TestParser_ElseIfChain(t *testing.T) {
	root := parse(t, "{{if a}}A{{else if b}}B{{else}}C{{endif}}")

	outer := root.Nodes[0].(*IfNode)
	assert.Equal(t, "a", outer.Cond.String())
	require.Len(t, outer.Else, 1)

	inner, ok := outer.Else[0].(*IfNode)
	require.True(t, ok)
	assert.Equal(t, "b", inner.Cond.String())
	require.Len(t, inner.Then, 1)
	require.Len(t, inner.Else, 1)
	assert.Equal(t, "C", inner.Else[0].(*TextNode).Text)
}

func TestParser_ForBlock(t *testing.T) {
	root := parse(t, "{{for item in cart.items}}{{item.title}}{{endfor}}")

	forNode, ok := root.Nodes[0].(*ForNode)
	require.True(t, ok)
	assert.Equal(t, "item", forNode.Var)
	assert.Empty(t, forNode.Index)
	assert.Equal(t, "cart.items", forNode.Source.String())
	require.Len(t, forNode.Body, 1)
}

func TestParser_ForBlockWithIndex(t *testing.T) {
	root := parse(t, "{{for item, i in items}}x{{endfor}}")

	forNode := root.Nodes[0].(*ForNode)
	assert.Equal(t, "item", forNode.Var)
	assert.Equal(t, "i", forNode.Index)
}

func TestParser_WithBlock(t *testing.T) {
	root := parse(t, "{{with user.address as addr}}{{addr.city}}{{endwith}}")

	withNode, ok := root.Nodes[0].(*WithNode)
	require.True(t, ok)
	assert.Equal(t, "user.address", withNode.Source.String())
	assert.Equal(t, "addr", withNode.Name)
	require.Len(t, withNode.Body, 1)
}

func TestParser_CallDirective(t *testing.T) {
	root := parse(t, "{{call row with item, width=layout.width, depth=n}}")

	callNode, ok := root.Nodes[0].(*CallNode)
	require.True(t, ok)
	assert.Equal(t, "row", callNode.Template)
	assert.Equal(t, "item", callNode.Root.String())
	require.Len(t, callNode.Args, 2)
	assert.Equal(t, "width", callNode.Args[0].Name)
	assert.Equal(t, "layout.width", callNode.Args[0].Path.String())
	assert.Equal(t, "depth", callNode.Args[1].Name)
}

func TestParser_NestedBlocks(t *testing.T) {
	root := parse(t, "{{for x in items}}{{if x.ok}}{{x.name}}{{endif}}{{endfor}}")

	forNode := root.Nodes[0].(*ForNode)
	require.Len(t, forNode.Body, 1)
	ifNode, ok := forNode.Body[0].(*IfNode)
	require.True(t, ok)
	assert.Equal(t, "x.ok", ifNode.Cond.String())
}

func TestParser_UnclosedIf(t *testing.T) {
	_, err := parseErr("text {{if cond}}body", 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnclosedBlock)
	// Error points at the opener keyword, not EOF.
	pos, ok := errorPositionOf(err)
	require.True(t, ok)
	assert.Equal(t, 7, pos.Offset)
}

func TestParser_UnclosedFor(t *testing.T) {
	_, err := parseErr("{{for x in items}}{{x}}", 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnclosedBlock)
}

func TestParser_InnerEndCannotCloseOuter(t *testing.T) {
	// endif closes only the inner if; the outer for is left unclosed.
	_, err := parseErr("{{for x in items}}{{if a}}b{{endif}}", 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnclosedBlock)
}

func TestParser_StrayEndIf(t *testing.T) {
	_, err := parseErr("text {{endif}}", 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnexpectedToken)
}

func TestParser_EmptyDirective(t *testing.T) {
	_, err := parseErr("{{}}", 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgEmptyDirective)
}

func TestParser_KeywordAsPathSegment(t *testing.T) {
	_, err := parseErr("{{user.if}}", 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnexpectedToken)
	assert.Equal(t, StageParse, ErrorStage(err))
}

func TestParser_DuplicateCallArg(t *testing.T) {
	_, err := parseErr("{{call row with item, w=a, w=b}}", 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgDuplicateArg)
}

func TestParser_MissingInKeyword(t *testing.T) {
	_, err := parseErr("{{for x items}}{{endfor}}", 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnexpectedToken)
}

func TestParser_NestingDepthLimit(t *testing.T) {
	depth := 5
	var b strings.Builder
	for i := 0; i <= depth; i++ {
		b.WriteString("{{if a}}")
	}
	b.WriteString("x")
	for i := 0; i <= depth; i++ {
		b.WriteString("{{endif}}")
	}

	_, err := parseErr(b.String(), depth)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgNestingTooDeep)
}

func TestParser_DeterministicAST(t *testing.T) {
	source := "{{if a}}{{for x in xs}}{{x}}{{endfor}}{{else}}none{{endif}}"

	first := parse(t, source)
	second := parse(t, source)
	assert.Equal(t, first, second)
}

// errorPositionOf pulls the recorded source offset back out of a
// structured error.
func errorPositionOf(err error) (Position, bool) {
	offset := errorMetadata(err, MetaKeyOffset)
	line := errorMetadata(err, MetaKeyLine)
	column := errorMetadata(err, MetaKeyColumn)
	if offset == "" {
		return Position{}, false
	}
	pos := Position{}
	pos.Offset = atoiOrZero(offset)
	pos.Line = atoiOrZero(line)
	pos.Column = atoiOrZero(column)
	return pos, true
}

func atoiOrZero(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
