package catalog

import (
	"fmt"

	"github.com/teafis/ModelTea-stdlib/block"
	"github.com/teafis/ModelTea-stdlib/kind"
)

// Shape names the constructor argument a family takes.
// The numeric values are the boundary create flags.
type Shape int32

const (
	ShapeNone     Shape = 0
	ShapeSize     Shape = 1
	ShapeValue    Shape = 2
	ShapeValueRef Shape = 3
	ShapeTimeStep Shape = 4
)

var shapeNames = [...]string{"none", "size", "value", "value_ptr", "time_step"}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int32(s))
	}
	return shapeNames[s]
}

// Family describes one block family in the catalog.
type Family struct {
	Name  string
	Alias string
	Types kind.Categories
	Shape Shape
	// KindCount is the number of kinds a creation request supplies.
	KindCount int
	// UsesInputAsType is false for source blocks whose kind cannot be inferred from an input.
	UsesInputAsType bool

	build builder
}

// builder instantiates the concrete block. kinds and arg are already validated.
type builder func(kinds []kind.Kind, arg argument) (block.Block, error)

// DefaultKind returns f64 for floating families, s32 for integral-only ones, and bool otherwise.
func (f *Family) DefaultKind() kind.Kind {
	switch {
	case f.Types&kind.Floating != 0:
		return kind.F64
	case f.Types&kind.Integral != 0:
		return kind.S32
	case f.Types&kind.Logical != 0:
		return kind.Bool
	}
	return kind.None
}

// Supports reports whether k is in one of the family's categories.
func (f *Family) Supports(k kind.Kind) bool {
	return f.Types.Has(k)
}

// SubName returns the alias, or the name when the family has none.
func (f *Family) SubName() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

func (f *Family) String() string {
	if f.Alias != "" {
		return fmt.Sprintf("%s (%s)", f.Name, f.Alias)
	}
	return f.Name
}
