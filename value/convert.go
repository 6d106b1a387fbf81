package value

import (
	"github.com/teafis/ModelTea-stdlib/errors"
	"github.com/teafis/ModelTea-stdlib/kind"
)

// Cast converts x to To with Go conversion semantics.
// A bool source reads as 1 or 0; a bool target is true for any non-zero source.
func Cast[To, From kind.Scalar](x From) To {
	switch x := any(x).(type) {
	case bool:
		if x {
			return numTo[To](uint8(1))
		}
		return numTo[To](uint8(0))
	case uint8:
		return numTo[To](x)
	case int8:
		return numTo[To](x)
	case uint16:
		return numTo[To](x)
	case int16:
		return numTo[To](x)
	case uint32:
		return numTo[To](x)
	case int32:
		return numTo[To](x)
	case uint64:
		return numTo[To](x)
	case int64:
		return numTo[To](x)
	case float32:
		return numTo[To](x)
	case float64:
		return numTo[To](x)
	}
	var zero To
	return zero
}

func numTo[To kind.Scalar, From kind.Numeric](x From) To {
	var out To
	switch p := any(&out).(type) {
	case *bool:
		*p = x != 0
	case *uint8:
		*p = uint8(x)
	case *int8:
		*p = int8(x)
	case *uint16:
		*p = uint16(x)
	case *int16:
		*p = int16(x)
	case *uint32:
		*p = uint32(x)
	case *int32:
		*p = int32(x)
	case *uint64:
		*p = uint64(x)
	case *int64:
		*p = int64(x)
	case *float32:
		*p = float32(x)
	case *float64:
		*p = float64(x)
	}
	return out
}

// castValue converts a validated value to To.
func castValue[To kind.Scalar](v Value) To {
	switch v.kind {
	case kind.Bool:
		return Cast[To](decode[bool](v.data))
	case kind.U8:
		return Cast[To](decode[uint8](v.data))
	case kind.S8:
		return Cast[To](decode[int8](v.data))
	case kind.U16:
		return Cast[To](decode[uint16](v.data))
	case kind.S16:
		return Cast[To](decode[int16](v.data))
	case kind.U32:
		return Cast[To](decode[uint32](v.data))
	case kind.S32:
		return Cast[To](decode[int32](v.data))
	case kind.U64:
		return Cast[To](decode[uint64](v.data))
	case kind.S64:
		return Cast[To](decode[int64](v.data))
	case kind.F32:
		return Cast[To](decode[float32](v.data))
	case kind.F64:
		return Cast[To](decode[float64](v.data))
	}
	var zero To
	return zero
}

// Convert casts v to another kind, following Cast.
func Convert(v Value, to kind.Kind) (Value, error) {
	if err := v.check(v.kind); err != nil {
		return Value{}, err
	}
	switch to {
	case kind.Bool:
		return Of(castValue[bool](v)), nil
	case kind.U8:
		return Of(castValue[uint8](v)), nil
	case kind.S8:
		return Of(castValue[int8](v)), nil
	case kind.U16:
		return Of(castValue[uint16](v)), nil
	case kind.S16:
		return Of(castValue[int16](v)), nil
	case kind.U32:
		return Of(castValue[uint32](v)), nil
	case kind.S32:
		return Of(castValue[int32](v)), nil
	case kind.U64:
		return Of(castValue[uint64](v)), nil
	case kind.S64:
		return Of(castValue[int64](v)), nil
	case kind.F32:
		return Of(castValue[float32](v)), nil
	case kind.F64:
		return Of(castValue[float64](v)), nil
	}
	return Value{}, errors.UnsupportedConversion(errors.PhaseValue, v.kind.String(), to.String())
}
