package block

import (
	"fmt"
	"math"

	"github.com/teafis/ModelTea-stdlib/kind"
	"github.com/teafis/ModelTea-stdlib/value"
)

// ArithOp selects the fold operation of an Arith block.
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Mod
)

var arithNames = [...]string{"add", "sub", "mul", "div", "mod"}
var arithSymbols = [...]string{"+", "-", "*", "/", "%"}

func (op ArithOp) String() string {
	if op < 0 || int(op) >= len(arithNames) {
		return fmt.Sprintf("ArithOp(%d)", int(op))
	}
	return arithNames[op]
}

// Symbol returns the operator spelling, e.g. "+".
func (op ArithOp) Symbol() string {
	if op < 0 || int(op) >= len(arithSymbols) {
		return "?"
	}
	return arithSymbols[op]
}

// Arith folds its inputs left to right: ((in0 op in1) op in2) ...
// With no inputs the output is zero.
type Arith[T kind.Numeric] struct {
	base
	op  ArithOp
	fn  func(a, b T) T
	in  []T
	out T
}

// NewArith builds an n-input arithmetic block.
func NewArith[T kind.Numeric](op ArithOp, n int) *Arith[T] {
	k := kind.Of[T]()
	in := make([]Port, n)
	for i := range in {
		in[i] = typedPort(fmt.Sprintf("values[%d]", i), k)
	}
	b := &Arith[T]{
		base: newBase(op.String(), k, className(op.String(), k, n), in, []Port{typedPort("value", k)}),
		op:   op,
		fn:   arithFunc[T](op),
		in:   make([]T, n),
	}
	b.Reset()
	return b
}

func (b *Arith[T]) SetInput(port int, v value.Value) error {
	if err := b.checkInput(port, v); err != nil {
		return err
	}
	return store(&b.base, port, v, &b.in[port])
}

func (b *Arith[T]) GetOutput(port int, out *value.Value) error {
	return load(&b.base, port, out, b.out)
}

func (b *Arith[T]) Step() {
	var acc T
	for i, x := range b.in {
		if i == 0 {
			acc = x
			continue
		}
		acc = b.fn(acc, x)
	}
	b.out = acc
}

func (b *Arith[T]) Reset() { b.Step() }

// Op returns the fold operation.
func (b *Arith[T]) Op() ArithOp { return b.op }

func arithFunc[T kind.Numeric](op ArithOp) func(a, b T) T {
	k := kind.Of[T]()
	integral := k.Category() == kind.Integral
	switch op {
	case Add:
		return func(a, b T) T { return a + b }
	case Sub:
		return func(a, b T) T { return a - b }
	case Mul:
		return func(a, b T) T { return a * b }
	case Div:
		if integral {
			return func(a, b T) T {
				if b == 0 {
					return 0
				}
				return a / b
			}
		}
		return func(a, b T) T { return a / b }
	case Mod:
		switch {
		case !integral:
			return func(a, b T) T { return T(math.Mod(float64(a), float64(b))) }
		case k.Signed():
			return func(a, b T) T {
				if b == 0 {
					return 0
				}
				return T(int64(a) % int64(b))
			}
		default:
			return func(a, b T) T {
				if b == 0 {
					return 0
				}
				return T(uint64(a) % uint64(b))
			}
		}
	}
	panic("block: unknown arithmetic operation " + op.String())
}
