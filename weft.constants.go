package weft

import (
	"time"

	"github.com/itsatony/go-weft/internal"
)

// Delimiter constants - the {{ }} pair is the default directive marker set.
const (
	DefaultOpenDelim  = "{{"
	DefaultCloseDelim = "}}"
)

// DefaultMaxDepth bounds parser block nesting and renderer recursion
// (nested blocks plus sub-template calls) per compile/render call.
const DefaultMaxDepth = internal.DefaultMaxDepth

// Formatter names. DefaultFormatterName is reserved: it is applied to every
// interpolation that names no formatter.
const (
	DefaultFormatterName = internal.DefaultFormatterName
	FormatterRaw         = internal.FormatterRaw
	FormatterUpper       = internal.FormatterUpper
	FormatterLower       = internal.FormatterLower
	FormatterTrim        = internal.FormatterTrim
	FormatterJSON        = internal.FormatterJSON
	FormatterSanitize    = internal.FormatterSanitize
)

// Error metadata keys carried on structured errors.
const (
	MetaKeyLine      = internal.MetaKeyLine
	MetaKeyColumn    = internal.MetaKeyColumn
	MetaKeyOffset    = internal.MetaKeyOffset
	MetaKeyStage     = internal.MetaKeyStage
	MetaKeyKind      = internal.MetaKeyKind
	MetaKeyExpected  = internal.MetaKeyExpected
	MetaKeyFound     = internal.MetaKeyFound
	MetaKeyPath      = internal.MetaKeyPath
	MetaKeySegment   = internal.MetaKeySegment
	MetaKeyFormatter = internal.MetaKeyFormatter
	MetaKeyTemplate  = internal.MetaKeyTemplate
	MetaKeyDepth     = internal.MetaKeyDepth
)

// Render error kinds, recoverable from an error via RenderKind.
const (
	RenderKindPathNotFound     = internal.RenderKindPathNotFound
	RenderKindTypeMismatch     = internal.RenderKindTypeMismatch
	RenderKindUnknownFormatter = internal.RenderKindUnknownFormatter
	RenderKindUnknownTemplate  = internal.RenderKindUnknownTemplate
	RenderKindDepthExceeded    = internal.RenderKindDepthExceeded
	RenderKindFormatFailed     = internal.RenderKindFormatFailed
)

// Storage driver names for the built-in backends.
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNameFilesystem = "filesystem"
	StorageDriverNamePostgres   = "postgres"
)

// Filesystem storage constants.
const (
	FilesystemTemplateExt = ".weft"
)

// Postgres storage defaults.
const (
	PostgresTableName              = "weft_templates"
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
)
