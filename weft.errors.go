package weft

import (
	"errors"

	"github.com/itsatony/go-cuserr"

	"github.com/itsatony/go-weft/internal"
)

// Storage error messages.
const (
	ErrMsgStorageClosed           = "storage is closed"
	ErrMsgStorageTemplateNotFound = "stored template not found"
	ErrMsgStorageInvalidName      = "invalid template name for storage"
	ErrMsgStorageDriverUnknown    = "no storage driver registered under name"
	ErrMsgStorageOpenFailed       = "failed to open storage backend"
	ErrMsgStorageIO               = "storage backend operation failed"
)

// Registry/engine error messages.
const (
	ErrMsgEmptyTemplateName  = "template name cannot be empty"
	ErrMsgTemplateExists     = "template already registered"
	ErrMsgEmptyFormatterName = "formatter name cannot be empty"
	ErrMsgNilFormatter       = "formatter function cannot be nil"
	ErrMsgUnknownFormatter   = internal.ErrMsgUnknownFormatter
)

// Error code constants for categorization.
const (
	ErrCodeLex      = internal.ErrCodeLex
	ErrCodeParse    = internal.ErrCodeParse
	ErrCodeRender   = internal.ErrCodeRender
	ErrCodeRegistry = "WEFT_REGISTRY"
	ErrCodeStorage  = "WEFT_STORAGE"
)

// Pipeline stage values carried under MetaKeyStage.
const (
	StageLex     = internal.StageLex
	StageParse   = internal.StageParse
	StageRender  = internal.StageRender
	StageStorage = "storage"
)

// Position represents a location in template source. Every lex, parse and
// render error carries one as line/column/offset metadata.
type Position = internal.Position

// IsLexError reports whether err is a character-level scan error.
func IsLexError(err error) bool {
	return internal.ErrorStage(err) == StageLex
}

// IsParseError reports whether err is a grammar error.
func IsParseError(err error) bool {
	return internal.ErrorStage(err) == StageParse
}

// IsRenderError reports whether err occurred while rendering.
func IsRenderError(err error) bool {
	return internal.ErrorStage(err) == StageRender
}

// IsStorageError reports whether err came from a storage backend.
func IsStorageError(err error) bool {
	return internal.ErrorStage(err) == StageStorage
}

// RenderKind returns the render error sub-kind (RenderKindPathNotFound,
// RenderKindTypeMismatch, ...) or "" when err is not a render error.
func RenderKind(err error) string {
	if !IsRenderError(err) {
		return ""
	}
	return internal.ErrorKind(err)
}

// ErrorPosition extracts the source position recorded on a weft error. The
// second return is false when err carries no position metadata.
func ErrorPosition(err error) (Position, bool) {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return Position{}, false
	}
	line, okLine := customErr.GetMetadata(MetaKeyLine)
	column, okCol := customErr.GetMetadata(MetaKeyColumn)
	offset, okOff := customErr.GetMetadata(MetaKeyOffset)
	if !okLine || !okCol || !okOff {
		return Position{}, false
	}
	return Position{
		Line:   atoiOrZero(line),
		Column: atoiOrZero(column),
		Offset: atoiOrZero(offset),
	}, true
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

// NewStorageClosedError creates an error for operations on a closed backend.
func NewStorageClosedError() error {
	return cuserr.NewValidationError(ErrCodeStorage, ErrMsgStorageClosed).
		WithMetadata(MetaKeyStage, StageStorage)
}

// NewStorageTemplateNotFoundError creates a not-found error naming the template.
func NewStorageTemplateNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyTemplate, ErrMsgStorageTemplateNotFound).
		WithMetadata(MetaKeyStage, StageStorage).
		WithMetadata(MetaKeyTemplate, name)
}

// NewStorageInvalidNameError creates an error for names a backend cannot store.
func NewStorageInvalidNameError(name string) error {
	return cuserr.NewValidationError(ErrCodeStorage, ErrMsgStorageInvalidName).
		WithMetadata(MetaKeyStage, StageStorage).
		WithMetadata(MetaKeyTemplate, name)
}

// NewStorageDriverUnknownError creates an error naming the missing driver.
func NewStorageDriverUnknownError(driver string) error {
	return cuserr.NewNotFoundError("driver", ErrMsgStorageDriverUnknown).
		WithMetadata(MetaKeyStage, StageStorage).
		WithMetadata("driver", driver)
}

// NewStorageError wraps a backend failure.
func NewStorageError(msg string, cause error) error {
	if cause == nil {
		return cuserr.NewValidationError(ErrCodeStorage, msg).
			WithMetadata(MetaKeyStage, StageStorage)
	}
	return cuserr.WrapStdError(cause, ErrCodeStorage, msg).
		WithMetadata(MetaKeyStage, StageStorage)
}

// NewEmptyTemplateNameError creates an error for registering a nameless template.
func NewEmptyTemplateNameError() error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgEmptyTemplateName)
}

// NewTemplateExistsError creates a registration collision error.
func NewTemplateExistsError(name string) error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgTemplateExists).
		WithMetadata(MetaKeyTemplate, name)
}

// NewFormatterRegistrationError creates an error for invalid formatter registration.
func NewFormatterRegistrationError(msg string) error {
	return cuserr.NewValidationError(ErrCodeRegistry, msg)
}
