package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultLexerConfig() LexerConfig {
	return LexerConfig{OpenDelim: "{{", CloseDelim: "}}"}
}

func lexAll(t *testing.T, source string) []Token {
	t.Helper()
	tokens, err := NewLexer(source, defaultLexerConfig(), nil).Tokenize()
	require.NoError(t, err)
	return tokens
}

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestLexer_PlainText(t *testing.T) {
	tokens := lexAll(t, "hello world")

	require.Len(t, tokens, 2)
	assert.Equal(t, TokenText, tokens[0].Type)
	assert.Equal(t, "hello world", tokens[0].Text)
	assert.Equal(t, TokenEOF, tokens[1].Type)
}

func TestLexer_EmptySource(t *testing.T) {
	tokens := lexAll(t, "")

	require.Len(t, tokens, 1)
	assert.Equal(t, TokenEOF, tokens[0].Type)
}

func TestLexer_SimpleInterpolation(t *testing.T) {
	tokens := lexAll(t, "{{name}}")

	assert.Equal(t,
		[]TokenType{TokenOpen, TokenIdent, TokenClose, TokenEOF},
		tokenTypes(tokens))
	assert.Equal(t, "name", tokens[1].Text)
}

func TestLexer_DottedPathWithFormatter(t *testing.T) {
	tokens := lexAll(t, "{{user.name | upper}}")

	assert.Equal(t,
		[]TokenType{TokenOpen, TokenIdent, TokenDot, TokenIdent, TokenPipe, TokenIdent, TokenClose, TokenEOF},
		tokenTypes(tokens))
	assert.Equal(t, "upper", tokens[5].Text)
}

func TestLexer_IndexSegment(t *testing.T) {
	tokens := lexAll(t, "{{items.0.title}}")

	assert.Equal(t,
		[]TokenType{TokenOpen, TokenIdent, TokenDot, TokenNumber, TokenDot, TokenIdent, TokenClose, TokenEOF},
		tokenTypes(tokens))
	assert.Equal(t, "0", tokens[3].Text)
}

func TestLexer_Keywords(t *testing.T) {
	tokens := lexAll(t, "{{for item, i in cart.items}}")

	assert.Equal(t,
		[]TokenType{TokenOpen, TokenFor, TokenIdent, TokenComma, TokenIdent, TokenIn, TokenIdent, TokenDot, TokenIdent, TokenClose, TokenEOF},
		tokenTypes(tokens))
}

func TestLexer_CallDirective(t *testing.T) {
	tokens := lexAll(t, "{{call row with item, width=layout.width}}")

	assert.Equal(t,
		[]TokenType{
			TokenOpen, TokenCall, TokenIdent, TokenWith, TokenIdent,
			TokenComma, TokenIdent, TokenAssign, TokenIdent, TokenDot, TokenIdent,
			TokenClose, TokenEOF,
		},
		tokenTypes(tokens))
}

func TestLexer_TextAroundDirective(t *testing.T) {
	tokens := lexAll(t, "a {{x}} b")

	assert.Equal(t,
		[]TokenType{TokenText, TokenOpen, TokenIdent, TokenClose, TokenText, TokenEOF},
		tokenTypes(tokens))
	assert.Equal(t, "a ", tokens[0].Text)
	assert.Equal(t, " b", tokens[4].Text)
}

func TestLexer_Positions(t *testing.T) {
	tokens := lexAll(t, "ab\ncd{{x}}")

	// Text spans both lines, open delimiter sits on line 2.
	assert.Equal(t, Position{Offset: 0, Line: 1, Column: 1}, tokens[0].Pos)
	assert.Equal(t, Position{Offset: 5, Line: 2, Column: 3}, tokens[1].Pos)
	assert.Equal(t, Position{Offset: 7, Line: 2, Column: 5}, tokens[2].Pos)
}

func TestLexer_UnterminatedDirective(t *testing.T) {
	_, err := NewLexer("text {{name", defaultLexerConfig(), nil).Tokenize()

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnterminatedDirective)
	assert.Equal(t, StageLex, ErrorStage(err))
}

func TestLexer_InvalidCharacterInDirective(t *testing.T) {
	_, err := NewLexer("{{na#me}}", defaultLexerConfig(), nil).Tokenize()

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgInvalidChar)
	assert.Equal(t, StageLex, ErrorStage(err))
}

func TestLexer_CustomDelimiters(t *testing.T) {
	config := LexerConfig{OpenDelim: "<%", CloseDelim: "%>"}
	tokens, err := NewLexer("a <%x%> {{not a directive}}", config, nil).Tokenize()
	require.NoError(t, err)

	assert.Equal(t,
		[]TokenType{TokenText, TokenOpen, TokenIdent, TokenClose, TokenText, TokenEOF},
		tokenTypes(tokens))
	assert.Equal(t, " {{not a directive}}", tokens[4].Text)
}

func TestLexer_WhitespaceInsideDirective(t *testing.T) {
	tokens := lexAll(t, "{{  user . name  }}")

	assert.Equal(t,
		[]TokenType{TokenOpen, TokenIdent, TokenDot, TokenIdent, TokenClose, TokenEOF},
		tokenTypes(tokens))
}
