package catalog

import (
	"github.com/teafis/ModelTea-stdlib/block"
	"github.com/teafis/ModelTea-stdlib/kind"
	"github.com/teafis/ModelTea-stdlib/value"
)

// Each builder switches on the requested kind with one arm per kind the
// family accepts. A kind without an arm yields a nil block, which Create
// reports as UnsupportedKind; the catalog tests check every accepted kind
// has one. Argument read failures are returned as errors.

func buildClock(kinds []kind.Kind, a argument) (block.Block, error) {
	switch kinds[0] {
	case kind.U8:
		return clockOf[uint8](a.val)
	case kind.S8:
		return clockOf[int8](a.val)
	case kind.U16:
		return clockOf[uint16](a.val)
	case kind.S16:
		return clockOf[int16](a.val)
	case kind.U32:
		return clockOf[uint32](a.val)
	case kind.S32:
		return clockOf[int32](a.val)
	case kind.U64:
		return clockOf[uint64](a.val)
	case kind.S64:
		return clockOf[int64](a.val)
	case kind.F32:
		return clockOf[float32](a.val)
	case kind.F64:
		return clockOf[float64](a.val)
	}
	return nil, nil
}

func clockOf[T kind.Numeric](v value.Value) (block.Block, error) {
	dt, err := value.Read[T](v)
	if err != nil {
		return nil, err
	}
	return block.NewClock(dt), nil
}

func buildConstant(kinds []kind.Kind, a argument) (block.Block, error) {
	switch kinds[0] {
	case kind.Bool:
		return constantOf[bool](a.val)
	case kind.U8:
		return constantOf[uint8](a.val)
	case kind.S8:
		return constantOf[int8](a.val)
	case kind.U16:
		return constantOf[uint16](a.val)
	case kind.S16:
		return constantOf[int16](a.val)
	case kind.U32:
		return constantOf[uint32](a.val)
	case kind.S32:
		return constantOf[int32](a.val)
	case kind.U64:
		return constantOf[uint64](a.val)
	case kind.S64:
		return constantOf[int64](a.val)
	case kind.F32:
		return constantOf[float32](a.val)
	case kind.F64:
		return constantOf[float64](a.val)
	}
	return nil, nil
}

func constantOf[T kind.Scalar](v value.Value) (block.Block, error) {
	x, err := value.Read[T](v)
	if err != nil {
		return nil, err
	}
	return block.NewConstant(x), nil
}

func buildConstantRef(kinds []kind.Kind, a argument) (block.Block, error) {
	switch kinds[0] {
	case kind.Bool:
		return constantRefOf[bool](a.ref)
	case kind.U8:
		return constantRefOf[uint8](a.ref)
	case kind.S8:
		return constantRefOf[int8](a.ref)
	case kind.U16:
		return constantRefOf[uint16](a.ref)
	case kind.S16:
		return constantRefOf[int16](a.ref)
	case kind.U32:
		return constantRefOf[uint32](a.ref)
	case kind.S32:
		return constantRefOf[int32](a.ref)
	case kind.U64:
		return constantRefOf[uint64](a.ref)
	case kind.S64:
		return constantRefOf[int64](a.ref)
	case kind.F32:
		return constantRefOf[float32](a.ref)
	case kind.F64:
		return constantRefOf[float64](a.ref)
	}
	return nil, nil
}

func constantRefOf[T kind.Scalar](r value.Ref) (block.Block, error) {
	p, err := value.Deref[T](r)
	if err != nil {
		return nil, err
	}
	return block.NewConstantRef(p), nil
}

func buildDelay(kinds []kind.Kind, _ argument) (block.Block, error) {
	switch kinds[0] {
	case kind.Bool:
		return block.NewDelay[bool](), nil
	case kind.U8:
		return block.NewDelay[uint8](), nil
	case kind.S8:
		return block.NewDelay[int8](), nil
	case kind.U16:
		return block.NewDelay[uint16](), nil
	case kind.S16:
		return block.NewDelay[int16](), nil
	case kind.U32:
		return block.NewDelay[uint32](), nil
	case kind.S32:
		return block.NewDelay[int32](), nil
	case kind.U64:
		return block.NewDelay[uint64](), nil
	case kind.S64:
		return block.NewDelay[int64](), nil
	case kind.F32:
		return block.NewDelay[float32](), nil
	case kind.F64:
		return block.NewDelay[float64](), nil
	}
	return nil, nil
}

func buildDerivative(kinds []kind.Kind, a argument) (block.Block, error) {
	switch kinds[0] {
	case kind.F32:
		dt, err := value.Read[float32](a.val)
		if err != nil {
			return nil, err
		}
		return block.NewDerivative(dt), nil
	case kind.F64:
		dt, err := value.Read[float64](a.val)
		if err != nil {
			return nil, err
		}
		return block.NewDerivative(dt), nil
	}
	return nil, nil
}

func buildIntegrator(kinds []kind.Kind, a argument) (block.Block, error) {
	switch kinds[0] {
	case kind.F32:
		dt, err := value.Read[float32](a.val)
		if err != nil {
			return nil, err
		}
		return block.NewIntegrator(dt), nil
	case kind.F64:
		dt, err := value.Read[float64](a.val)
		if err != nil {
			return nil, err
		}
		return block.NewIntegrator(dt), nil
	}
	return nil, nil
}

func buildSwitch(kinds []kind.Kind, _ argument) (block.Block, error) {
	switch kinds[0] {
	case kind.Bool:
		return block.NewSwitch[bool](), nil
	case kind.U8:
		return block.NewSwitch[uint8](), nil
	case kind.S8:
		return block.NewSwitch[int8](), nil
	case kind.U16:
		return block.NewSwitch[uint16](), nil
	case kind.S16:
		return block.NewSwitch[int16](), nil
	case kind.U32:
		return block.NewSwitch[uint32](), nil
	case kind.S32:
		return block.NewSwitch[int32](), nil
	case kind.U64:
		return block.NewSwitch[uint64](), nil
	case kind.S64:
		return block.NewSwitch[int64](), nil
	case kind.F32:
		return block.NewSwitch[float32](), nil
	case kind.F64:
		return block.NewSwitch[float64](), nil
	}
	return nil, nil
}

func buildLimiter(kinds []kind.Kind, _ argument) (block.Block, error) {
	switch kinds[0] {
	case kind.U8:
		return block.NewLimiter[uint8](), nil
	case kind.S8:
		return block.NewLimiter[int8](), nil
	case kind.U16:
		return block.NewLimiter[uint16](), nil
	case kind.S16:
		return block.NewLimiter[int16](), nil
	case kind.U32:
		return block.NewLimiter[uint32](), nil
	case kind.S32:
		return block.NewLimiter[int32](), nil
	case kind.U64:
		return block.NewLimiter[uint64](), nil
	case kind.S64:
		return block.NewLimiter[int64](), nil
	case kind.F32:
		return block.NewLimiter[float32](), nil
	case kind.F64:
		return block.NewLimiter[float64](), nil
	}
	return nil, nil
}

func buildConversion(kinds []kind.Kind, _ argument) (block.Block, error) {
	to := kinds[1]
	switch kinds[0] {
	case kind.Bool:
		return conversionFrom[bool](to)
	case kind.U8:
		return conversionFrom[uint8](to)
	case kind.S8:
		return conversionFrom[int8](to)
	case kind.U16:
		return conversionFrom[uint16](to)
	case kind.S16:
		return conversionFrom[int16](to)
	case kind.U32:
		return conversionFrom[uint32](to)
	case kind.S32:
		return conversionFrom[int32](to)
	case kind.U64:
		return conversionFrom[uint64](to)
	case kind.S64:
		return conversionFrom[int64](to)
	case kind.F32:
		return conversionFrom[float32](to)
	case kind.F64:
		return conversionFrom[float64](to)
	}
	return nil, nil
}

func conversionFrom[From kind.Scalar](to kind.Kind) (block.Block, error) {
	switch to {
	case kind.Bool:
		return block.NewConversion[From, bool](), nil
	case kind.U8:
		return block.NewConversion[From, uint8](), nil
	case kind.S8:
		return block.NewConversion[From, int8](), nil
	case kind.U16:
		return block.NewConversion[From, uint16](), nil
	case kind.S16:
		return block.NewConversion[From, int16](), nil
	case kind.U32:
		return block.NewConversion[From, uint32](), nil
	case kind.S32:
		return block.NewConversion[From, int32](), nil
	case kind.U64:
		return block.NewConversion[From, uint64](), nil
	case kind.S64:
		return block.NewConversion[From, int64](), nil
	case kind.F32:
		return block.NewConversion[From, float32](), nil
	case kind.F64:
		return block.NewConversion[From, float64](), nil
	}
	return nil, nil
}

func arithBuilder(op block.ArithOp) builder {
	return func(kinds []kind.Kind, a argument) (block.Block, error) {
		n := a.size
		switch kinds[0] {
		case kind.U8:
			return block.NewArith[uint8](op, n), nil
		case kind.S8:
			return block.NewArith[int8](op, n), nil
		case kind.U16:
			return block.NewArith[uint16](op, n), nil
		case kind.S16:
			return block.NewArith[int16](op, n), nil
		case kind.U32:
			return block.NewArith[uint32](op, n), nil
		case kind.S32:
			return block.NewArith[int32](op, n), nil
		case kind.U64:
			return block.NewArith[uint64](op, n), nil
		case kind.S64:
			return block.NewArith[int64](op, n), nil
		case kind.F32:
			return block.NewArith[float32](op, n), nil
		case kind.F64:
			return block.NewArith[float64](op, n), nil
		}
		return nil, nil
	}
}

func relationalBuilder(op block.RelOp) builder {
	return func(kinds []kind.Kind, _ argument) (block.Block, error) {
		switch kinds[0] {
		case kind.Bool:
			if op.Ordered() {
				return nil, nil
			}
			return block.NewRelational[bool](op), nil
		case kind.U8:
			return block.NewOrderedRelational[uint8](op), nil
		case kind.S8:
			return block.NewOrderedRelational[int8](op), nil
		case kind.U16:
			return block.NewOrderedRelational[uint16](op), nil
		case kind.S16:
			return block.NewOrderedRelational[int16](op), nil
		case kind.U32:
			return block.NewOrderedRelational[uint32](op), nil
		case kind.S32:
			return block.NewOrderedRelational[int32](op), nil
		case kind.U64:
			return block.NewOrderedRelational[uint64](op), nil
		case kind.S64:
			return block.NewOrderedRelational[int64](op), nil
		case kind.F32:
			return block.NewOrderedRelational[float32](op), nil
		case kind.F64:
			return block.NewOrderedRelational[float64](op), nil
		}
		return nil, nil
	}
}

func trigBuilder(fn block.TrigFunc) builder {
	return func(kinds []kind.Kind, _ argument) (block.Block, error) {
		switch kinds[0] {
		case kind.F32:
			return block.NewTrig[float32](fn), nil
		case kind.F64:
			return block.NewTrig[float64](fn), nil
		}
		return nil, nil
	}
}
