package value

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/teafis/ModelTea-stdlib/errors"
	"github.com/teafis/ModelTea-stdlib/kind"
)

// Argument is a typed constructor argument: a Value or a Ref.
type Argument interface {
	Kind() kind.Kind
}

// Value is a kind-tagged byte payload. Its width is the payload length.
// Copies of a Value share the payload; use Clone for an independent copy.
type Value struct {
	kind kind.Kind
	data []byte
}

// Make builds a Value from little-endian bytes, copying them.
func Make(k kind.Kind, data []byte) (Value, error) {
	if !k.Valid() {
		return Value{}, errors.UnsupportedKind(errors.PhaseValue, "", k.String())
	}
	if uint32(len(data)) != k.Width() {
		return Value{}, errors.New(errors.PhaseValue, errors.KindKindMismatch).
			Expected(fmt.Sprintf("%s (%d bytes)", k, k.Width())).
			Actual(fmt.Sprintf("%d bytes", len(data))).
			Build()
	}
	return Value{kind: k, data: bytes.Clone(data)}, nil
}

// Zero returns the zero value of k. It returns the null Value for invalid kinds.
func Zero(k kind.Kind) Value {
	if !k.Valid() {
		return Value{}
	}
	return Value{kind: k, data: make([]byte, k.Width())}
}

// Of wraps a Go scalar.
func Of[T kind.Scalar](x T) Value {
	k := kind.Of[T]()
	v := Value{kind: k, data: make([]byte, k.Width())}
	encode(v.data, x)
	return v
}

// Kind returns the kind tag.
func (v Value) Kind() kind.Kind { return v.kind }

// Width returns the recorded payload width in bytes.
func (v Value) Width() uint32 { return uint32(len(v.data)) }

// IsNull reports whether v has no payload.
func (v Value) IsNull() bool { return v.data == nil }

// Bytes returns a copy of the payload.
func (v Value) Bytes() []byte { return bytes.Clone(v.data) }

// Clone returns a Value with its own payload.
func (v Value) Clone() Value {
	return Value{kind: v.kind, data: bytes.Clone(v.data)}
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && bytes.Equal(v.data, o.data)
}

func (v Value) describe() string {
	return fmt.Sprintf("%s (%d bytes)", v.kind, len(v.data))
}

// check validates that v holds exactly a k.
func (v Value) check(k kind.Kind) error {
	if v.data == nil {
		return errors.NullArgument(errors.PhaseValue, "value payload")
	}
	if v.kind != k || uint32(len(v.data)) != k.Width() {
		return errors.KindMismatch(errors.PhaseValue, fmt.Sprintf("%s (%d bytes)", k, k.Width()), v.describe())
	}
	return nil
}

// Read returns the payload as T. The kind tag must match T and the width must match the kind.
func Read[T kind.Scalar](v Value) (T, error) {
	var zero T
	if err := v.check(kind.Of[T]()); err != nil {
		return zero, err
	}
	return decode[T](v.data), nil
}

// Write replaces the payload of v in place. Validation matches Read.
func Write[T kind.Scalar](v *Value, x T) error {
	if v == nil {
		return errors.NullArgument(errors.PhaseValue, "value")
	}
	if err := v.check(kind.Of[T]()); err != nil {
		return err
	}
	encode(v.data, x)
	return nil
}

// AsSize reads an integral value as a count. Negative values clamp to zero.
func (v Value) AsSize() (int, error) {
	if v.data == nil {
		return 0, errors.NullArgument(errors.PhaseValue, "size value")
	}
	if !v.kind.Valid() || v.kind.Category() != kind.Integral {
		return 0, errors.UnsupportedConversion(errors.PhaseValue, v.kind.String(), "size")
	}
	if err := v.check(v.kind); err != nil {
		return 0, err
	}
	if v.kind.Signed() {
		n, _ := asInt64(v)
		if n < 0 {
			return 0, nil
		}
		if uint64(n) > math.MaxInt {
			return math.MaxInt, nil
		}
		return int(n), nil
	}
	n, _ := asUint64(v)
	if n > math.MaxInt {
		return math.MaxInt, nil
	}
	return int(n), nil
}

// AsFloat64 widens any value to float64. Bools read as 1 or 0.
func (v Value) AsFloat64() (float64, error) {
	if err := v.check(v.kind); err != nil {
		return 0, err
	}
	return castValue[float64](v), nil
}

func asInt64(v Value) (int64, bool) {
	switch v.kind {
	case kind.S8:
		return int64(decode[int8](v.data)), true
	case kind.S16:
		return int64(decode[int16](v.data)), true
	case kind.S32:
		return int64(decode[int32](v.data)), true
	case kind.S64:
		return decode[int64](v.data), true
	}
	return 0, false
}

func asUint64(v Value) (uint64, bool) {
	switch v.kind {
	case kind.U8:
		return uint64(decode[uint8](v.data)), true
	case kind.U16:
		return uint64(decode[uint16](v.data)), true
	case kind.U32:
		return uint64(decode[uint32](v.data)), true
	case kind.U64:
		return decode[uint64](v.data), true
	}
	return 0, false
}

func encode[T kind.Scalar](dst []byte, x T) {
	le := binary.LittleEndian
	switch x := any(x).(type) {
	case bool:
		if x {
			dst[0] = 1
		} else {
			dst[0] = 0
		}
	case uint8:
		dst[0] = x
	case int8:
		dst[0] = byte(x)
	case uint16:
		le.PutUint16(dst, x)
	case int16:
		le.PutUint16(dst, uint16(x))
	case uint32:
		le.PutUint32(dst, x)
	case int32:
		le.PutUint32(dst, uint32(x))
	case uint64:
		le.PutUint64(dst, x)
	case int64:
		le.PutUint64(dst, uint64(x))
	case float32:
		le.PutUint32(dst, math.Float32bits(x))
	case float64:
		le.PutUint64(dst, math.Float64bits(x))
	}
}

func decode[T kind.Scalar](src []byte) T {
	le := binary.LittleEndian
	var out T
	switch p := any(&out).(type) {
	case *bool:
		*p = src[0] != 0
	case *uint8:
		*p = src[0]
	case *int8:
		*p = int8(src[0])
	case *uint16:
		*p = le.Uint16(src)
	case *int16:
		*p = int16(le.Uint16(src))
	case *uint32:
		*p = le.Uint32(src)
	case *int32:
		*p = int32(le.Uint32(src))
	case *uint64:
		*p = le.Uint64(src)
	case *int64:
		*p = int64(le.Uint64(src))
	case *float32:
		*p = math.Float32frombits(le.Uint32(src))
	case *float64:
		*p = math.Float64frombits(le.Uint64(src))
	}
	return out
}
