package weft

import (
	"github.com/itsatony/go-weft/internal"
)

// Value is the engine's abstract runtime value: a closed tagged union over
// scalar, sequence, structure and absent variants. Values are immutable
// after construction and are the sole data ingress boundary: the embedding
// application builds them via the constructors below (or FromAny) and
// passes them read-only into Render.
type Value = internal.Value

// Kind is the variant tag of a Value.
type Kind = internal.Kind

// Value variant tags.
const (
	KindAbsent    = internal.KindAbsent
	KindScalar    = internal.KindScalar
	KindSequence  = internal.KindSequence
	KindStructure = internal.KindStructure
)

// Field is one named entry of a structure Value.
type Field = internal.Field

// Absent returns the explicit missing marker, distinct from any empty
// scalar or composite.
func Absent() Value { return internal.AbsentValue() }

// String returns a string scalar.
func String(s string) Value { return internal.StringValue(s) }

// Int returns an integer scalar.
func Int(i int64) Value { return internal.IntValue(i) }

// Float returns a floating-point scalar.
func Float(f float64) Value { return internal.FloatValue(f) }

// Bool returns a boolean scalar.
func Bool(b bool) Value { return internal.BoolValue(b) }

// Seq returns a sequence over the given elements, in order.
func Seq(elems ...Value) Value { return internal.SequenceValue(elems...) }

// Struct returns a structure with the given fields, in order.
func Struct(fields ...Field) Value { return internal.StructureValue(fields...) }

// F is a convenience constructor for a structure field.
func F(name string, value Value) Field { return Field{Name: name, Value: value} }

// FromAny converts plain Go data (maps, slices, scalars) into a Value.
// String-keyed maps become structures with fields in sorted key order,
// slices become sequences, nil becomes Absent.
func FromAny(data any) Value { return internal.FromAny(data) }
