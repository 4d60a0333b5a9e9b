package internal

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// LexerConfig configures the directive delimiters.
type LexerConfig struct {
	OpenDelim  string
	CloseDelim string
}

// Lexer scans template source into a token slice in a single forward pass.
// It tracks byte offset plus 1-based line/column for every token so that
// parse and render errors can point at the offending source span.
type Lexer struct {
	source string
	config LexerConfig
	logger *zap.Logger

	pos    int // current byte offset
	line   int
	column int
}

// NewLexer creates a lexer over source with the given delimiter config.
// A nil logger is replaced with a no-op logger.
func NewLexer(source string, config LexerConfig, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lexer{
		source: source,
		config: config,
		logger: logger,
		pos:    0,
		line:   1,
		column: 1,
	}
}

// Tokenize scans the whole source and returns the token stream, terminated
// by a TokenEOF. It fails on an unterminated directive or an invalid
// character inside a directive.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for l.pos < len(l.source) {
		if strings.HasPrefix(l.source[l.pos:], l.config.OpenDelim) {
			openPos := l.position()
			tokens = append(tokens, Token{Type: TokenOpen, Text: l.config.OpenDelim, Pos: openPos})
			l.advanceBy(len(l.config.OpenDelim))

			directive, err := l.scanDirective(openPos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, directive...)
			continue
		}

		text := l.scanText()
		tokens = append(tokens, text)
	}

	tokens = append(tokens, Token{Type: TokenEOF, Pos: l.position()})
	l.logger.Debug("tokenized template source",
		zap.Int("tokens", len(tokens)),
		zap.Int("bytes", len(l.source)))
	return tokens, nil
}

// scanText consumes a literal text run up to the next open delimiter or EOF.
func (l *Lexer) scanText() Token {
	start := l.pos
	pos := l.position()
	for l.pos < len(l.source) && !strings.HasPrefix(l.source[l.pos:], l.config.OpenDelim) {
		l.advanceRune()
	}
	return Token{Type: TokenText, Text: l.source[start:l.pos], Pos: pos}
}

// scanDirective consumes tokens up to and including the close delimiter.
// openPos is the position of the already-consumed open delimiter; an
// unterminated directive is reported there.
func (l *Lexer) scanDirective(openPos Position) ([]Token, error) {
	var tokens []Token
	for {
		l.skipSpace()
		if l.pos >= len(l.source) {
			return nil, NewLexError(ErrMsgUnterminatedDirective, openPos)
		}
		if strings.HasPrefix(l.source[l.pos:], l.config.CloseDelim) {
			tokens = append(tokens, Token{Type: TokenClose, Text: l.config.CloseDelim, Pos: l.position()})
			l.advanceBy(len(l.config.CloseDelim))
			return tokens, nil
		}

		pos := l.position()
		r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
		switch {
		case r == '.':
			tokens = append(tokens, Token{Type: TokenDot, Text: ".", Pos: pos})
			l.advanceRune()
		case r == '|':
			tokens = append(tokens, Token{Type: TokenPipe, Text: "|", Pos: pos})
			l.advanceRune()
		case r == ',':
			tokens = append(tokens, Token{Type: TokenComma, Text: ",", Pos: pos})
			l.advanceRune()
		case r == '=':
			tokens = append(tokens, Token{Type: TokenAssign, Text: "=", Pos: pos})
			l.advanceRune()
		case isDigit(r):
			tokens = append(tokens, l.scanNumber())
		case isIdentStart(r):
			tokens = append(tokens, l.scanIdent())
		default:
			return nil, NewLexError(ErrMsgInvalidChar, pos)
		}
	}
}

func (l *Lexer) scanNumber() Token {
	start := l.pos
	pos := l.position()
	for l.pos < len(l.source) {
		r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
		if !isDigit(r) {
			break
		}
		l.advanceRune()
	}
	return Token{Type: TokenNumber, Text: l.source[start:l.pos], Pos: pos}
}

func (l *Lexer) scanIdent() Token {
	start := l.pos
	pos := l.position()
	for l.pos < len(l.source) {
		r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
		if !isIdentPart(r) {
			break
		}
		l.advanceRune()
	}
	text := l.source[start:l.pos]
	if typ, ok := keywords[text]; ok {
		return Token{Type: typ, Text: text, Pos: pos}
	}
	return Token{Type: TokenIdent, Text: text, Pos: pos}
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.source) {
		r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.advanceRune()
	}
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.column}
}

// advanceRune moves past a single rune, updating line/column tracking.
func (l *Lexer) advanceRune() {
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// advanceBy moves past n bytes of delimiter text (delimiters never contain
// newlines worth tracking rune-by-rune, but count columns anyway).
func (l *Lexer) advanceBy(n int) {
	end := l.pos + n
	for l.pos < end {
		l.advanceRune()
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
