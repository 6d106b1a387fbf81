package block

import (
	"github.com/teafis/ModelTea-stdlib/kind"
	"github.com/teafis/ModelTea-stdlib/value"
)

// Clock emits elapsed time, advancing by dt on each step.
type Clock[T kind.Numeric] struct {
	base
	dt  T
	out T
}

// NewClock builds a clock in the reset state.
func NewClock[T kind.Numeric](dt T) *Clock[T] {
	k := kind.Of[T]()
	b := &Clock[T]{
		base: newBase("clock", k, className("clock", k), nil, []Port{typedPort("value", k)}),
		dt:   dt,
	}
	b.Reset()
	return b
}

func (b *Clock[T]) SetInput(port int, v value.Value) error {
	return b.checkInput(port, v)
}

func (b *Clock[T]) GetOutput(port int, out *value.Value) error {
	return load(&b.base, port, out, b.out)
}

func (b *Clock[T]) Step()  { b.out += b.dt }
func (b *Clock[T]) Reset() { b.out = 0 }

// TimeStep returns the per-step increment.
func (b *Clock[T]) TimeStep() T { return b.dt }

// Constant emits a fixed value.
type Constant[T kind.Scalar] struct {
	base
	out T
}

// NewConstant builds a constant block.
func NewConstant[T kind.Scalar](x T) *Constant[T] {
	k := kind.Of[T]()
	return &Constant[T]{
		base: newBase("constant", k, className("constant", k), nil, []Port{typedPort("value", k)}),
		out:  x,
	}
}

func (b *Constant[T]) SetInput(port int, v value.Value) error {
	return b.checkInput(port, v)
}

func (b *Constant[T]) GetOutput(port int, out *value.Value) error {
	return load(&b.base, port, out, b.out)
}

func (b *Constant[T]) Step()  {}
func (b *Constant[T]) Reset() {}

// ConstantRef emits the current value of caller-owned storage.
// The referent is sampled on Step and Reset until the block is dropped.
type ConstantRef[T kind.Scalar] struct {
	base
	ptr *T
	out T
}

// NewConstantRef builds a constant block that follows *p. p must not be nil.
func NewConstantRef[T kind.Scalar](p *T) *ConstantRef[T] {
	k := kind.Of[T]()
	b := &ConstantRef[T]{
		base: newBase("constant_ptr", k, className("constant_ptr", k), nil, []Port{typedPort("value", k)}),
		ptr:  p,
	}
	b.Reset()
	return b
}

func (b *ConstantRef[T]) SetInput(port int, v value.Value) error {
	return b.checkInput(port, v)
}

func (b *ConstantRef[T]) GetOutput(port int, out *value.Value) error {
	return load(&b.base, port, out, b.out)
}

func (b *ConstantRef[T]) Step()  { b.sample() }
func (b *ConstantRef[T]) Reset() { b.sample() }

func (b *ConstantRef[T]) sample() {
	if b.ptr != nil {
		b.out = *b.ptr
	}
}

// Drop releases the referent. The block keeps emitting the last sampled value.
func (b *ConstantRef[T]) Drop() { b.ptr = nil }
