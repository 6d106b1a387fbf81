package catalog

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/teafis/ModelTea-stdlib/block"
	"github.com/teafis/ModelTea-stdlib/errors"
	"github.com/teafis/ModelTea-stdlib/kind"
	"github.com/teafis/ModelTea-stdlib/value"
)

// MaxArity is the largest input count a size family accepts.
const MaxArity = 1024

// argument is the validated constructor argument handed to a builder.
type argument struct {
	size int
	val  value.Value
	ref  value.Ref
}

// Create builds a block of the named family.
//
// The request passes through these gates in order: the name must resolve
// (UnknownBlock), len(kinds) must equal the family's KindCount
// (ArityMismatch), every kind must be in the family's categories
// (UnsupportedKind), and the argument must fit the family's Shape
// (NullArgument, KindMismatch, the AsSize error for sizes, or
// ArityMismatch for sizes above MaxArity).
func (c *Catalog) Create(name string, kinds []kind.Kind, arg value.Argument) (block.Block, error) {
	b, err := c.create(name, kinds, arg)
	if err != nil {
		Logger().Debug("create failed",
			zap.String("block", name),
			zap.Stringers("kinds", kinds),
			zap.Error(err))
		return nil, err
	}
	Logger().Debug("created block", zap.String("class", b.ClassName()))
	return b, nil
}

func (c *Catalog) create(name string, kinds []kind.Kind, arg value.Argument) (block.Block, error) {
	f, ok := c.Lookup(name)
	if !ok {
		return nil, errors.UnknownBlock(name)
	}
	if len(kinds) != f.KindCount {
		return nil, errors.ArityMismatch(f.Name, f.KindCount, len(kinds))
	}
	for _, k := range kinds {
		if !f.Supports(k) {
			return nil, errors.UnsupportedKind(errors.PhaseCreate, f.Name, k.String())
		}
	}

	a, err := f.argument(kinds[0], arg)
	if err != nil {
		return nil, err
	}

	b, err := f.build(kinds, a)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errors.New(errors.PhaseCreate, errors.KindUnsupportedKind).
			Block(f.Name).
			Actual(fmt.Sprint(kinds)).
			Detail("no constructor for kind").
			Build()
	}
	return b, nil
}

// argument validates arg against the family's shape. k is the requested block kind.
func (f *Family) argument(k kind.Kind, arg value.Argument) (argument, error) {
	if f.Shape == ShapeNone {
		return argument{}, nil
	}
	if arg == nil {
		return argument{}, errors.New(errors.PhaseCreate, errors.KindNullArgument).
			Block(f.Name).
			Expected(f.Shape.String()).
			Detail("constructor argument required").
			Build()
	}

	switch f.Shape {
	case ShapeSize:
		v, ok := arg.(value.Value)
		if !ok {
			return argument{}, f.argMismatch("integral value", arg)
		}
		n, err := v.AsSize()
		if err != nil {
			return argument{}, err
		}
		if n > MaxArity {
			return argument{}, errors.New(errors.PhaseCreate, errors.KindArityMismatch).
				Block(f.Name).
				Path("size").
				Expected(fmt.Sprintf("at most %d inputs", MaxArity)).
				Actual(fmt.Sprintf("%d inputs", n)).
				Value(n).
				Build()
		}
		return argument{size: n}, nil

	case ShapeValue, ShapeTimeStep:
		v, ok := arg.(value.Value)
		if !ok {
			return argument{}, f.argMismatch(k.String()+" value", arg)
		}
		if v.IsNull() {
			return argument{}, errors.New(errors.PhaseCreate, errors.KindNullArgument).
				Block(f.Name).
				Detail("constructor argument payload is null").
				Build()
		}
		if v.Kind() != k {
			return argument{}, f.argMismatch(k.String(), arg)
		}
		return argument{val: v}, nil

	case ShapeValueRef:
		r, ok := arg.(value.Ref)
		if !ok {
			return argument{}, f.argMismatch("&"+k.String(), arg)
		}
		if r.Kind() != k {
			return argument{}, f.argMismatch("&"+k.String(), arg)
		}
		if _, err := r.Load(); err != nil {
			return argument{}, err
		}
		return argument{ref: r}, nil
	}

	return argument{}, errors.New(errors.PhaseCreate, errors.KindUnsupportedConversion).
		Block(f.Name).
		Detail("unknown constructor shape %s", f.Shape).
		Build()
}

func (f *Family) argMismatch(expected string, arg value.Argument) error {
	actual := arg.Kind().String()
	if _, ok := arg.(value.Ref); ok {
		actual = "&" + actual
	}
	return errors.New(errors.PhaseCreate, errors.KindKindMismatch).
		Block(f.Name).
		Path("argument").
		Expected(expected).
		Actual(actual).
		Build()
}
