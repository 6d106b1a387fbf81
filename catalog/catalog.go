package catalog

import (
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/teafis/ModelTea-stdlib/block"
	"github.com/teafis/ModelTea-stdlib/kind"
)

// Catalog is the immutable set of block families.
// It is safe for concurrent use once built.
type Catalog struct {
	families []*Family
	byName   map[string]*Family
}

var (
	defaultCatalog *Catalog
	defaultOnce    sync.Once
)

// Default returns a shared catalog, built on first use.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = Build()
	})
	return defaultCatalog
}

// Build constructs the standard catalog.
func Build() *Catalog {
	numeric := kind.Integral | kind.Floating

	families := []*Family{
		{Name: "clock", Types: numeric, Shape: ShapeTimeStep, build: buildClock},
		{Name: "constant", Types: kind.Any, Shape: ShapeValue, build: buildConstant},
		{Name: "constant_ptr", Types: kind.Any, Shape: ShapeValueRef, build: buildConstantRef},
		{Name: "delay", Types: kind.Any, Shape: ShapeNone, UsesInputAsType: true, build: buildDelay},
		{Name: "derivative", Types: kind.Floating, Shape: ShapeTimeStep, UsesInputAsType: true, build: buildDerivative},
		{Name: "integrator", Types: kind.Floating, Shape: ShapeTimeStep, UsesInputAsType: true, build: buildIntegrator},
		{Name: "switch", Types: kind.Any, Shape: ShapeNone, UsesInputAsType: true, build: buildSwitch},
		{Name: "limiter", Types: numeric, Shape: ShapeNone, UsesInputAsType: true, build: buildLimiter},
		{Name: "conversion", Types: kind.Any, Shape: ShapeNone, KindCount: 2, UsesInputAsType: true, build: buildConversion},
	}

	for _, op := range []block.ArithOp{block.Add, block.Sub, block.Mul, block.Div, block.Mod} {
		families = append(families, &Family{
			Name:            op.String(),
			Alias:           op.Symbol(),
			Types:           numeric,
			Shape:           ShapeSize,
			UsesInputAsType: true,
			build:           arithBuilder(op),
		})
	}

	for _, op := range []block.RelOp{block.Greater, block.GreaterEqual, block.Less, block.LessEqual, block.Equal, block.NotEqual} {
		types := numeric
		if !op.Ordered() {
			types = kind.Any
		}
		families = append(families, &Family{
			Name:            op.String(),
			Alias:           op.Symbol(),
			Types:           types,
			Shape:           ShapeNone,
			UsesInputAsType: true,
			build:           relationalBuilder(op),
		})
	}

	for _, fn := range []block.TrigFunc{block.Sin, block.Cos, block.Tan, block.Asin, block.Acos, block.Atan, block.Atan2} {
		families = append(families, &Family{
			Name:            fn.String(),
			Types:           kind.Floating,
			Shape:           ShapeNone,
			UsesInputAsType: true,
			build:           trigBuilder(fn),
		})
	}

	c := &Catalog{
		families: families,
		byName:   make(map[string]*Family, 2*len(families)),
	}
	for _, f := range families {
		if f.KindCount == 0 {
			f.KindCount = 1
		}
		c.byName[f.Name] = f
		if f.Alias != "" {
			c.byName[f.Alias] = f
		}
	}

	Logger().Debug("catalog built", zap.Int("families", len(families)))
	return c
}

// Lookup finds a family by name or alias. Names are compared in NFC form.
func (c *Catalog) Lookup(name string) (*Family, bool) {
	f, ok := c.byName[norm.NFC.String(name)]
	return f, ok
}

// Families returns every family in catalog order.
// The descriptors are shared and must not be modified.
func (c *Catalog) Families() []*Family {
	return slices.Clone(c.families)
}

// Len returns the number of families.
func (c *Catalog) Len() int {
	return len(c.families)
}
