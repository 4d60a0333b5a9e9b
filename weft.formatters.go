package weft

import (
	"github.com/itsatony/go-weft/internal"
)

// Formatter is a named pure function converting a Value into its textual
// representation at interpolation time. Formatters must not retain the
// Value and must be safe for concurrent calls.
//
// Built-ins registered on every engine:
//
//	default  - HTML-escapes scalar text (the reserved fallback formatter)
//	raw      - scalar text verbatim, no escaping
//	upper    - upper-cased scalar text
//	lower    - lower-cased scalar text
//	trim     - scalar text with surrounding whitespace removed
//	json     - any value shape rendered as JSON
//	sanitize - scalar text run through the bluemonday UGC policy
//
// All scalar built-ins render Absent as the empty string and fail on
// sequence/structure values; use json for composites.
type Formatter = internal.Formatter
