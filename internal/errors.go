package internal

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/itsatony/go-cuserr"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Lex errors
	ErrMsgUnterminatedDirective = "unterminated directive"
	ErrMsgInvalidChar           = "invalid character inside directive"

	// Parse errors
	ErrMsgUnexpectedToken   = "unexpected token"
	ErrMsgUnexpectedKeyword = "keyword not allowed here"
	ErrMsgUnclosedBlock     = "unclosed block directive"
	ErrMsgExpectedToken     = "expected token missing"
	ErrMsgEmptyDirective    = "empty directive"
	ErrMsgDuplicateArg      = "duplicate call argument name"
	ErrMsgNestingTooDeep    = "block nesting exceeds maximum depth"

	// Render errors
	ErrMsgPathNotFound     = "path could not be resolved"
	ErrMsgTypeMismatch     = "value has wrong shape for operation"
	ErrMsgUnknownFormatter = "formatter not registered"
	ErrMsgUnknownTemplate  = "template not registered"
	ErrMsgDepthExceeded    = "render depth exceeds maximum"
	ErrMsgFormatFailed     = "formatter returned an error"
	ErrMsgNotScalar        = "formatter requires a scalar value"
)

// Error code constants for categorization
const (
	ErrCodeLex    = "WEFT_LEX"
	ErrCodeParse  = "WEFT_PARSE"
	ErrCodeRender = "WEFT_RENDER"
)

// Stage discriminators carried in error metadata.
const (
	StageLex    = "lex"
	StageParse  = "parse"
	StageRender = "render"
)

// Render error kinds carried in error metadata.
const (
	RenderKindPathNotFound     = "path_not_found"
	RenderKindTypeMismatch     = "type_mismatch"
	RenderKindUnknownFormatter = "unknown_formatter"
	RenderKindUnknownTemplate  = "unknown_template"
	RenderKindDepthExceeded    = "depth_exceeded"
	RenderKindFormatFailed     = "format_failed"
)

// Metadata keys used on structured errors.
const (
	MetaKeyLine      = "line"
	MetaKeyColumn    = "column"
	MetaKeyOffset    = "offset"
	MetaKeyStage     = "stage"
	MetaKeyKind      = "kind"
	MetaKeyExpected  = "expected"
	MetaKeyFound     = "found"
	MetaKeyPath      = "path"
	MetaKeySegment   = "segment"
	MetaKeyFormatter = "formatter"
	MetaKeyTemplate  = "template"
	MetaKeyDepth     = "depth"
)

// Position represents a location in the source template.
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string.
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

func withPosition(err *cuserr.CustomError, pos Position) *cuserr.CustomError {
	return err.
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// NewLexError creates a character-level scan error with position context.
func NewLexError(msg string, pos Position) error {
	return withPosition(cuserr.NewValidationError(ErrCodeLex, msg), pos).
		WithMetadata(MetaKeyStage, StageLex)
}

// NewParseError creates a grammar error with position context.
func NewParseError(msg string, pos Position) error {
	return withPosition(cuserr.NewValidationError(ErrCodeParse, msg), pos).
		WithMetadata(MetaKeyStage, StageParse)
}

// NewUnexpectedTokenError creates a parse error naming the expected and found tokens.
func NewUnexpectedTokenError(expected, found string, pos Position) error {
	return withPosition(cuserr.NewValidationError(ErrCodeParse, ErrMsgUnexpectedToken), pos).
		WithMetadata(MetaKeyStage, StageParse).
		WithMetadata(MetaKeyExpected, expected).
		WithMetadata(MetaKeyFound, found)
}

// NewUnclosedBlockError creates a parse error positioned at the unmatched opener.
func NewUnclosedBlockError(opener string, pos Position) error {
	return withPosition(cuserr.NewValidationError(ErrCodeParse, ErrMsgUnclosedBlock), pos).
		WithMetadata(MetaKeyStage, StageParse).
		WithMetadata(MetaKeyFound, opener)
}

// NewNestingDepthError creates a parse error for over-deep block nesting.
func NewNestingDepthError(maxDepth int, pos Position) error {
	return withPosition(cuserr.NewValidationError(ErrCodeParse, ErrMsgNestingTooDeep), pos).
		WithMetadata(MetaKeyStage, StageParse).
		WithMetadata(MetaKeyDepth, strconv.Itoa(maxDepth))
}

func newRenderError(msg, kind string, pos Position) *cuserr.CustomError {
	return withPosition(cuserr.NewValidationError(ErrCodeRender, msg), pos).
		WithMetadata(MetaKeyStage, StageRender).
		WithMetadata(MetaKeyKind, kind)
}

// NewPathNotFoundError creates a render error for a path segment that did not resolve.
func NewPathNotFoundError(path, segment string, pos Position) error {
	return cuserr.NewNotFoundError(MetaKeyPath, ErrMsgPathNotFound).
		WithMetadata(MetaKeyStage, StageRender).
		WithMetadata(MetaKeyKind, RenderKindPathNotFound).
		WithMetadata(MetaKeyPath, path).
		WithMetadata(MetaKeySegment, segment).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// NewTypeMismatchError creates a render error for a value with the wrong shape.
func NewTypeMismatchError(path string, expected, found string, pos Position) error {
	return newRenderError(ErrMsgTypeMismatch, RenderKindTypeMismatch, pos).
		WithMetadata(MetaKeyPath, path).
		WithMetadata(MetaKeyExpected, expected).
		WithMetadata(MetaKeyFound, found)
}

// NewUnknownFormatterError creates a render error naming the missing formatter.
func NewUnknownFormatterError(name string, pos Position) error {
	return cuserr.NewNotFoundError(MetaKeyFormatter, ErrMsgUnknownFormatter).
		WithMetadata(MetaKeyStage, StageRender).
		WithMetadata(MetaKeyKind, RenderKindUnknownFormatter).
		WithMetadata(MetaKeyFormatter, name).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column))
}

// NewUnknownTemplateError creates a render error naming the missing sub-template.
func NewUnknownTemplateError(name string, pos Position) error {
	return cuserr.NewNotFoundError(MetaKeyTemplate, ErrMsgUnknownTemplate).
		WithMetadata(MetaKeyStage, StageRender).
		WithMetadata(MetaKeyKind, RenderKindUnknownTemplate).
		WithMetadata(MetaKeyTemplate, name).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column))
}

// NewDepthExceededError creates a render error for over-deep nesting or recursion.
func NewDepthExceededError(maxDepth int, pos Position) error {
	return newRenderError(ErrMsgDepthExceeded, RenderKindDepthExceeded, pos).
		WithMetadata(MetaKeyDepth, strconv.Itoa(maxDepth))
}

// NewFormatError wraps a formatter failure with the formatter name and position.
func NewFormatError(name string, pos Position, cause error) error {
	return withPosition(cuserr.WrapStdError(cause, ErrCodeRender, ErrMsgFormatFailed), pos).
		WithMetadata(MetaKeyStage, StageRender).
		WithMetadata(MetaKeyKind, RenderKindFormatFailed).
		WithMetadata(MetaKeyFormatter, name)
}

// ErrorStage returns the pipeline stage recorded on a weft error ("lex",
// "parse" or "render"), or "" for foreign errors.
func ErrorStage(err error) string {
	return errorMetadata(err, MetaKeyStage)
}

// ErrorKind returns the render error kind recorded on a weft error, or "".
func ErrorKind(err error) string {
	return errorMetadata(err, MetaKeyKind)
}

func errorMetadata(err error, key string) string {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return ""
	}
	val, _ := customErr.GetMetadata(key)
	return val
}
