package block

import (
	"github.com/teafis/ModelTea-stdlib/kind"
	"github.com/teafis/ModelTea-stdlib/value"
)

// Delay outputs its input from the previous tick.
// When the reset flag is set, memory and output take the reset value instead.
type Delay[T kind.Scalar] struct {
	base
	in, resetValue T
	resetFlag      bool
	next, out      T
}

// NewDelay builds a delay block.
func NewDelay[T kind.Scalar]() *Delay[T] {
	k := kind.Of[T]()
	return &Delay[T]{
		base: newBase("delay", k, className("delay", k),
			[]Port{typedPort("value", k), typedPort("reset", k), flagPort("reset_flag")},
			[]Port{typedPort("value", k)}),
	}
}

func (b *Delay[T]) SetInput(port int, v value.Value) error {
	switch port {
	case 0:
		return store(&b.base, port, v, &b.in)
	case 1:
		return store(&b.base, port, v, &b.resetValue)
	case 2:
		return store(&b.base, port, v, &b.resetFlag)
	}
	return b.checkInput(port, v)
}

func (b *Delay[T]) GetOutput(port int, out *value.Value) error {
	return load(&b.base, port, out, b.out)
}

func (b *Delay[T]) Step() {
	if b.resetFlag {
		b.Reset()
	}
	b.out = b.next
	b.next = b.in
}

func (b *Delay[T]) Reset() {
	b.next = b.resetValue
	b.out = b.resetValue
}

func (b *Delay[T]) DelayedOutputs() bool { return true }

// Derivative outputs the backward difference of its input over dt.
// The reset flag makes the previous sample equal the current one, so the slope is zero.
type Derivative[T kind.Float] struct {
	base
	dt        T
	in        T
	resetFlag bool
	prev, out T
}

// NewDerivative builds a derivative block.
func NewDerivative[T kind.Float](dt T) *Derivative[T] {
	k := kind.Of[T]()
	return &Derivative[T]{
		base: newBase("derivative", k, className("derivative", k),
			[]Port{typedPort("value", k), flagPort("reset_flag")},
			[]Port{typedPort("value", k)}),
		dt: dt,
	}
}

func (b *Derivative[T]) SetInput(port int, v value.Value) error {
	switch port {
	case 0:
		return store(&b.base, port, v, &b.in)
	case 1:
		return store(&b.base, port, v, &b.resetFlag)
	}
	return b.checkInput(port, v)
}

func (b *Derivative[T]) GetOutput(port int, out *value.Value) error {
	return load(&b.base, port, out, b.out)
}

func (b *Derivative[T]) Step() {
	if b.resetFlag {
		b.prev = b.in
	}
	b.out = (b.in - b.prev) / b.dt
	b.prev = b.in
}

func (b *Derivative[T]) Reset() {
	b.prev = b.in
	b.out = 0
}

func (b *Derivative[T]) DelayedOutputs() bool { return true }

// TimeStep returns the sample interval.
func (b *Derivative[T]) TimeStep() T { return b.dt }

// Integrator accumulates input times dt.
// When the reset flag is set, the output takes the reset value instead of accumulating.
type Integrator[T kind.Float] struct {
	base
	dt             T
	in, resetValue T
	resetFlag      bool
	out            T
}

// NewIntegrator builds an integrator block.
func NewIntegrator[T kind.Float](dt T) *Integrator[T] {
	k := kind.Of[T]()
	return &Integrator[T]{
		base: newBase("integrator", k, className("integrator", k),
			[]Port{typedPort("value", k), typedPort("reset", k), flagPort("reset_flag")},
			[]Port{typedPort("value", k)}),
		dt: dt,
	}
}

func (b *Integrator[T]) SetInput(port int, v value.Value) error {
	switch port {
	case 0:
		return store(&b.base, port, v, &b.in)
	case 1:
		return store(&b.base, port, v, &b.resetValue)
	case 2:
		return store(&b.base, port, v, &b.resetFlag)
	}
	return b.checkInput(port, v)
}

func (b *Integrator[T]) GetOutput(port int, out *value.Value) error {
	return load(&b.base, port, out, b.out)
}

func (b *Integrator[T]) Step() {
	if b.resetFlag {
		b.Reset()
		return
	}
	b.out += b.in * b.dt
}

func (b *Integrator[T]) Reset() { b.out = b.resetValue }

func (b *Integrator[T]) DelayedOutputs() bool { return true }

// TimeStep returns the integration interval.
func (b *Integrator[T]) TimeStep() T { return b.dt }
