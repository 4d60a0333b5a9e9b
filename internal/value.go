package internal

import (
	"fmt"
	"sort"
	"strconv"
)

// Kind is the variant tag of a Value. The set is closed; every consumer
// switches exhaustively over it.
type Kind int

const (
	KindAbsent Kind = iota
	KindScalar
	KindSequence
	KindStructure
)

// String returns the display name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindStructure:
		return "structure"
	}
	return "unknown"
}

// ScalarType distinguishes the primitive carried by a scalar Value.
type ScalarType int

const (
	ScalarString ScalarType = iota
	ScalarInt
	ScalarFloat
	ScalarBool
)

// Field is one named entry of a structure Value.
type Field struct {
	Name  string
	Value Value
}

// Value is the engine's runtime value: a closed tagged union over scalar,
// sequence, structure and absent variants. A Value's variant never changes
// after construction; composite variants own their children.
type Value struct {
	kind Kind
	st   ScalarType

	str string
	i   int64
	f   float64
	b   bool

	seq    []Value
	keys   []string
	fields map[string]Value
}

// AbsentValue returns the explicit missing marker, distinct from any empty
// scalar or composite.
func AbsentValue() Value {
	return Value{kind: KindAbsent}
}

// StringValue returns a string scalar.
func StringValue(s string) Value {
	return Value{kind: KindScalar, st: ScalarString, str: s}
}

// IntValue returns an integer scalar.
func IntValue(i int64) Value {
	return Value{kind: KindScalar, st: ScalarInt, i: i}
}

// FloatValue returns a floating-point scalar.
func FloatValue(f float64) Value {
	return Value{kind: KindScalar, st: ScalarFloat, f: f}
}

// BoolValue returns a boolean scalar.
func BoolValue(b bool) Value {
	return Value{kind: KindScalar, st: ScalarBool, b: b}
}

// SequenceValue returns a sequence over the given elements, in order.
func SequenceValue(elems ...Value) Value {
	seq := make([]Value, len(elems))
	copy(seq, elems)
	return Value{kind: KindSequence, seq: seq}
}

// StructureValue returns a structure with the given fields. Field order is
// preserved; a repeated name overwrites the earlier entry in place.
func StructureValue(fields ...Field) Value {
	v := Value{
		kind:   KindStructure,
		keys:   make([]string, 0, len(fields)),
		fields: make(map[string]Value, len(fields)),
	}
	for _, f := range fields {
		if _, exists := v.fields[f.Name]; !exists {
			v.keys = append(v.keys, f.Name)
		}
		v.fields[f.Name] = f.Value
	}
	return v
}

// FromAny converts arbitrary Go data into a Value. Maps become structures
// (string-keyed maps iterate in sorted key order for determinism), slices
// become sequences, nil becomes Absent, and anything unrecognized is
// rendered through fmt into a string scalar.
func FromAny(data any) Value {
	switch d := data.(type) {
	case nil:
		return AbsentValue()
	case Value:
		return d
	case string:
		return StringValue(d)
	case bool:
		return BoolValue(d)
	case int:
		return IntValue(int64(d))
	case int8:
		return IntValue(int64(d))
	case int16:
		return IntValue(int64(d))
	case int32:
		return IntValue(int64(d))
	case int64:
		return IntValue(d)
	case uint:
		return IntValue(int64(d))
	case uint8:
		return IntValue(int64(d))
	case uint16:
		return IntValue(int64(d))
	case uint32:
		return IntValue(int64(d))
	case uint64:
		return IntValue(int64(d))
	case float32:
		return FloatValue(float64(d))
	case float64:
		return FloatValue(d)
	case []Value:
		return SequenceValue(d...)
	case []any:
		elems := make([]Value, len(d))
		for i, e := range d {
			elems[i] = FromAny(e)
		}
		return SequenceValue(elems...)
	case []string:
		elems := make([]Value, len(d))
		for i, e := range d {
			elems[i] = StringValue(e)
		}
		return SequenceValue(elems...)
	case map[string]any:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, Field{Name: k, Value: FromAny(d[k])})
		}
		return StructureValue(fields...)
	case map[string]string:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, Field{Name: k, Value: StringValue(d[k])})
		}
		return StructureValue(fields...)
	default:
		return StringValue(fmt.Sprint(d))
	}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the explicit missing marker.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// ScalarType returns the primitive type of a scalar Value. Only meaningful
// when Kind() == KindScalar.
func (v Value) ScalarType() ScalarType { return v.st }

// Text renders a scalar as display text. Composite and absent values render
// empty; formatters that need structure go through AsAny instead.
func (v Value) Text() string {
	if v.kind != KindScalar {
		return ""
	}
	switch v.st {
	case ScalarString:
		return v.str
	case ScalarInt:
		return strconv.FormatInt(v.i, 10)
	case ScalarFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case ScalarBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// Bool returns the boolean carried by a bool scalar, and whether v is one.
func (v Value) Bool() (bool, bool) {
	if v.kind == KindScalar && v.st == ScalarBool {
		return v.b, true
	}
	return false, false
}

// Len returns the element count of a sequence or the field count of a
// structure; 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindStructure:
		return len(v.keys)
	}
	return 0
}

// At returns the sequence element at index i.
func (v Value) At(i int) (Value, bool) {
	if v.kind != KindSequence || i < 0 || i >= len(v.seq) {
		return AbsentValue(), false
	}
	return v.seq[i], true
}

// Field returns the named structure field.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindStructure {
		return AbsentValue(), false
	}
	val, ok := v.fields[name]
	if !ok {
		return AbsentValue(), false
	}
	return val, true
}

// FieldNames returns the structure's field names in insertion order.
func (v Value) FieldNames() []string {
	if v.kind != KindStructure {
		return nil
	}
	names := make([]string, len(v.keys))
	copy(names, v.keys)
	return names
}

// Elements returns the sequence's elements in order.
func (v Value) Elements() []Value {
	if v.kind != KindSequence {
		return nil
	}
	elems := make([]Value, len(v.seq))
	copy(elems, v.seq)
	return elems
}

// Truthy applies the condition convention: absent, boolean false, the empty
// string scalar, and empty sequences/structures are falsy; all else truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindAbsent:
		return false
	case KindScalar:
		if v.st == ScalarBool {
			return v.b
		}
		if v.st == ScalarString {
			return v.str != ""
		}
		return true
	case KindSequence:
		return len(v.seq) > 0
	case KindStructure:
		return len(v.keys) > 0
	}
	return false
}

// Equal reports deep value-wise equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindAbsent:
		return true
	case KindScalar:
		return v.st == other.st && v.str == other.str &&
			v.i == other.i && v.f == other.f && v.b == other.b
	case KindSequence:
		if len(v.seq) != len(other.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(other.seq[i]) {
				return false
			}
		}
		return true
	case KindStructure:
		if len(v.keys) != len(other.keys) {
			return false
		}
		for i, k := range v.keys {
			if other.keys[i] != k {
				return false
			}
			if !v.fields[k].Equal(other.fields[k]) {
				return false
			}
		}
		return true
	}
	return false
}

// AsAny converts a Value back into plain Go data, the inverse of FromAny.
// Structures become map[string]any, sequences []any, Absent nil.
func (v Value) AsAny() any {
	switch v.kind {
	case KindAbsent:
		return nil
	case KindScalar:
		switch v.st {
		case ScalarString:
			return v.str
		case ScalarInt:
			return v.i
		case ScalarFloat:
			return v.f
		case ScalarBool:
			return v.b
		}
		return nil
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, e := range v.seq {
			out[i] = e.AsAny()
		}
		return out
	case KindStructure:
		out := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			out[k] = v.fields[k].AsAny()
		}
		return out
	}
	return nil
}
