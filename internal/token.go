package internal

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	TokenText TokenType = iota // literal text between directives
	TokenOpen                  // directive open delimiter
	TokenClose                 // directive close delimiter
	TokenIdent                 // identifier (path segment, variable, template name)
	TokenNumber                // non-negative integer (sequence index)
	TokenDot                   // path separator
	TokenPipe                  // formatter separator
	TokenComma                 // argument separator
	TokenAssign                // named-argument assignment
	TokenIf
	TokenElse
	TokenEndIf
	TokenFor
	TokenIn
	TokenEndFor
	TokenWith
	TokenAs
	TokenEndWith
	TokenCall
	TokenEOF
)

var tokenNames = map[TokenType]string{
	TokenText:    "text",
	TokenOpen:    "open delimiter",
	TokenClose:   "close delimiter",
	TokenIdent:   "identifier",
	TokenNumber:  "number",
	TokenDot:     ".",
	TokenPipe:    "|",
	TokenComma:   ",",
	TokenAssign:  "=",
	TokenIf:      "if",
	TokenElse:    "else",
	TokenEndIf:   "endif",
	TokenFor:     "for",
	TokenIn:      "in",
	TokenEndFor:  "endfor",
	TokenWith:    "with",
	TokenAs:      "as",
	TokenEndWith: "endwith",
	TokenCall:    "call",
	TokenEOF:     "end of input",
}

// String returns the display name used in diagnostics.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown"
}

// keywords maps reserved words to their token types. Keyword recognition
// takes priority over identifier parsing, so a path segment can never be
// literally one of these.
var keywords = map[string]TokenType{
	"if":      TokenIf,
	"else":    TokenElse,
	"endif":   TokenEndIf,
	"for":     TokenFor,
	"in":      TokenIn,
	"endfor":  TokenEndFor,
	"with":    TokenWith,
	"as":      TokenAs,
	"endwith": TokenEndWith,
	"call":    TokenCall,
}

// IsKeyword reports whether t is one of the reserved directive keywords.
func (t TokenType) IsKeyword() bool {
	return t >= TokenIf && t <= TokenCall
}

// Token is a single lexical unit with its source span.
type Token struct {
	Type TokenType
	Text string
	Pos  Position
}
