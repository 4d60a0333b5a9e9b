package internal

import (
	"encoding/json"
	"html"
	"strings"
	"sync"

	"github.com/itsatony/go-cuserr"
	"github.com/microcosm-cc/bluemonday"
)

// Built-in formatter names.
const (
	FormatterRaw      = "raw"
	FormatterUpper    = "upper"
	FormatterLower    = "lower"
	FormatterTrim     = "trim"
	FormatterJSON     = "json"
	FormatterSanitize = "sanitize"
)

var (
	sanitizeOnce   sync.Once
	sanitizePolicy *bluemonday.Policy
)

// ugcPolicy lazily builds the shared bluemonday policy for the sanitize
// formatter. Policies are safe for concurrent Sanitize calls.
func ugcPolicy() *bluemonday.Policy {
	sanitizeOnce.Do(func() {
		sanitizePolicy = bluemonday.UGCPolicy()
	})
	return sanitizePolicy
}

// RegisterBuiltins installs the built-in formatters, including the default
// HTML-escaping formatter under the reserved "default" name.
func RegisterBuiltins(r *Registry) {
	r.Register(DefaultFormatterName, escapeFormatter)
	r.Register(FormatterRaw, scalarFormatter(func(s string) string { return s }))
	r.Register(FormatterUpper, scalarFormatter(strings.ToUpper))
	r.Register(FormatterLower, scalarFormatter(strings.ToLower))
	r.Register(FormatterTrim, scalarFormatter(strings.TrimSpace))
	r.Register(FormatterJSON, jsonFormatter)
	r.Register(FormatterSanitize, scalarFormatter(func(s string) string {
		return ugcPolicy().Sanitize(s)
	}))
}

// escapeFormatter is the default formatter: scalar text with HTML special
// characters escaped. Absent renders empty.
func escapeFormatter(v Value) (string, error) {
	switch v.Kind() {
	case KindAbsent:
		return "", nil
	case KindScalar:
		return html.EscapeString(v.Text()), nil
	default:
		return "", newCompositeFormatError(v)
	}
}

// scalarFormatter wraps a plain string transform into a Formatter that
// accepts scalars and Absent, and rejects composites.
func scalarFormatter(transform func(string) string) Formatter {
	return func(v Value) (string, error) {
		switch v.Kind() {
		case KindAbsent:
			return "", nil
		case KindScalar:
			return transform(v.Text()), nil
		default:
			return "", newCompositeFormatError(v)
		}
	}
}

// jsonFormatter renders any value shape as JSON, the one built-in that
// accepts composites.
func jsonFormatter(v Value) (string, error) {
	out, err := json.Marshal(v.AsAny())
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func newCompositeFormatError(v Value) error {
	return cuserr.NewValidationError(ErrCodeRender, ErrMsgNotScalar).
		WithMetadata(MetaKeyFound, v.Kind().String())
}
