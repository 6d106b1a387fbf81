package kind

import (
	"fmt"

	"go.bytecodealliance.org/wit"

	"github.com/teafis/ModelTea-stdlib/errors"
)

// WIT returns the Component Model primitive matching k, or nil for None.
func (k Kind) WIT() wit.Type {
	switch k {
	case Bool:
		return wit.Bool{}
	case U8:
		return wit.U8{}
	case S8:
		return wit.S8{}
	case U16:
		return wit.U16{}
	case S16:
		return wit.S16{}
	case U32:
		return wit.U32{}
	case S32:
		return wit.S32{}
	case U64:
		return wit.U64{}
	case S64:
		return wit.S64{}
	case F32:
		return wit.F32{}
	case F64:
		return wit.F64{}
	}
	return nil
}

// FromWIT resolves the kind of a WIT primitive type.
func FromWIT(t wit.Type) (Kind, error) {
	switch t.(type) {
	case wit.Bool:
		return Bool, nil
	case wit.U8:
		return U8, nil
	case wit.S8:
		return S8, nil
	case wit.U16:
		return U16, nil
	case wit.S16:
		return S16, nil
	case wit.U32:
		return U32, nil
	case wit.S32:
		return S32, nil
	case wit.U64:
		return U64, nil
	case wit.S64:
		return S64, nil
	case wit.F32:
		return F32, nil
	case wit.F64:
		return F64, nil
	}
	return None, errors.UnsupportedKind(errors.PhaseValue, "", fmt.Sprintf("%T", t))
}
