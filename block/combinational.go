package block

import (
	"fmt"
	"math"

	"github.com/teafis/ModelTea-stdlib/kind"
	"github.com/teafis/ModelTea-stdlib/value"
)

// Switch outputs value_a when the flag is set, value_b otherwise.
type Switch[T kind.Scalar] struct {
	base
	flag bool
	a, b T
	out  T
}

// NewSwitch builds a switch block.
func NewSwitch[T kind.Scalar]() *Switch[T] {
	k := kind.Of[T]()
	return &Switch[T]{
		base: newBase("switch", k, className("switch", k),
			[]Port{flagPort("value_flag"), typedPort("value_a", k), typedPort("value_b", k)},
			[]Port{typedPort("value", k)}),
	}
}

func (s *Switch[T]) SetInput(port int, v value.Value) error {
	switch port {
	case 0:
		return store(&s.base, port, v, &s.flag)
	case 1:
		return store(&s.base, port, v, &s.a)
	case 2:
		return store(&s.base, port, v, &s.b)
	}
	return s.checkInput(port, v)
}

func (s *Switch[T]) GetOutput(port int, out *value.Value) error {
	return load(&s.base, port, out, s.out)
}

func (s *Switch[T]) Step() {
	if s.flag {
		s.out = s.a
	} else {
		s.out = s.b
	}
}

func (s *Switch[T]) Reset() { s.Step() }

// Limiter clamps its input to [limit_lower, limit_upper].
type Limiter[T kind.Numeric] struct {
	base
	in, lower, upper T
	out              T
}

// NewLimiter builds a limiter whose bounds are inputs.
func NewLimiter[T kind.Numeric]() *Limiter[T] {
	k := kind.Of[T]()
	return &Limiter[T]{
		base: newBase("limiter", k, className("limiter", k),
			[]Port{typedPort("value", k), typedPort("limit_lower", k), typedPort("limit_upper", k)},
			[]Port{typedPort("value", k)}),
	}
}

func (l *Limiter[T]) SetInput(port int, v value.Value) error {
	switch port {
	case 0:
		return store(&l.base, port, v, &l.in)
	case 1:
		return store(&l.base, port, v, &l.lower)
	case 2:
		return store(&l.base, port, v, &l.upper)
	}
	return l.checkInput(port, v)
}

func (l *Limiter[T]) GetOutput(port int, out *value.Value) error {
	return load(&l.base, port, out, l.out)
}

func (l *Limiter[T]) Step()  { l.out = clamp(l.in, l.lower, l.upper) }
func (l *Limiter[T]) Reset() { l.Step() }

// LimiterConst clamps its input to bounds fixed at construction.
type LimiterConst[T kind.Numeric] struct {
	base
	lower, upper T
	in, out      T
}

// NewLimiterConst builds a limiter with fixed bounds.
func NewLimiterConst[T kind.Numeric](lower, upper T) *LimiterConst[T] {
	k := kind.Of[T]()
	return &LimiterConst[T]{
		base: newBase("limiter", k, className("limiter_const", k),
			[]Port{typedPort("value", k)},
			[]Port{typedPort("value", k)}),
		lower: lower,
		upper: upper,
	}
}

func (l *LimiterConst[T]) SetInput(port int, v value.Value) error {
	if port == 0 {
		return store(&l.base, port, v, &l.in)
	}
	return l.checkInput(port, v)
}

func (l *LimiterConst[T]) GetOutput(port int, out *value.Value) error {
	return load(&l.base, port, out, l.out)
}

func (l *LimiterConst[T]) Step()  { l.out = clamp(l.in, l.lower, l.upper) }
func (l *LimiterConst[T]) Reset() { l.Step() }

// Bounds returns the fixed lower and upper limits.
func (l *LimiterConst[T]) Bounds() (lower, upper T) { return l.lower, l.upper }

// clamp checks the lower bound first, so lower wins when the bounds cross.
func clamp[T kind.Numeric](x, lower, upper T) T {
	if x < lower {
		return lower
	}
	if x > upper {
		return upper
	}
	return x
}

// RelOp selects the comparison of a Relational block.
type RelOp int

const (
	Equal RelOp = iota
	NotEqual
	Greater
	GreaterEqual
	Less
	LessEqual
)

var relNames = [...]string{"equal", "not_equal", "greater", "greater_eq", "less", "less_eq"}
var relSymbols = [...]string{"==", "!=", ">", ">=", "<", "<="}

func (op RelOp) String() string {
	if op < 0 || int(op) >= len(relNames) {
		return fmt.Sprintf("RelOp(%d)", int(op))
	}
	return relNames[op]
}

// Symbol returns the operator spelling, e.g. ">=".
func (op RelOp) Symbol() string {
	if op < 0 || int(op) >= len(relSymbols) {
		return "?"
	}
	return relSymbols[op]
}

// Ordered reports whether the comparison needs an ordering, which bool lacks.
func (op RelOp) Ordered() bool {
	return op != Equal && op != NotEqual
}

// Relational compares value_a against value_b and outputs a bool.
type Relational[T kind.Scalar] struct {
	base
	op   RelOp
	fn   func(a, b T) bool
	a, b T
	out  bool
}

// NewRelational builds an equality block for any kind.
func NewRelational[T kind.Scalar](op RelOp) *Relational[T] {
	return newRelational[T](op, func(a, b T) bool {
		if op == NotEqual {
			return a != b
		}
		return a == b
	})
}

// NewOrderedRelational builds a relational block for numeric kinds.
func NewOrderedRelational[T kind.Numeric](op RelOp) *Relational[T] {
	var fn func(a, b T) bool
	switch op {
	case Equal:
		fn = func(a, b T) bool { return a == b }
	case NotEqual:
		fn = func(a, b T) bool { return a != b }
	case Greater:
		fn = func(a, b T) bool { return a > b }
	case GreaterEqual:
		fn = func(a, b T) bool { return a >= b }
	case Less:
		fn = func(a, b T) bool { return a < b }
	case LessEqual:
		fn = func(a, b T) bool { return a <= b }
	default:
		panic("block: unknown relational operation " + op.String())
	}
	return newRelational[T](op, fn)
}

func newRelational[T kind.Scalar](op RelOp, fn func(a, b T) bool) *Relational[T] {
	k := kind.Of[T]()
	return &Relational[T]{
		base: newBase(op.String(), k, className(op.String(), k),
			[]Port{typedPort("value_a", k), typedPort("value_b", k)},
			[]Port{flagPort("value")}),
		op: op,
		fn: fn,
	}
}

func (r *Relational[T]) SetInput(port int, v value.Value) error {
	switch port {
	case 0:
		return store(&r.base, port, v, &r.a)
	case 1:
		return store(&r.base, port, v, &r.b)
	}
	return r.checkInput(port, v)
}

func (r *Relational[T]) GetOutput(port int, out *value.Value) error {
	return load(&r.base, port, out, r.out)
}

func (r *Relational[T]) Step()  { r.out = r.fn(r.a, r.b) }
func (r *Relational[T]) Reset() { r.Step() }

// Op returns the comparison.
func (r *Relational[T]) Op() RelOp { return r.op }

// TrigFunc selects the function of a Trig block.
type TrigFunc int

const (
	Sin TrigFunc = iota
	Cos
	Tan
	Asin
	Acos
	Atan
	Atan2
)

var trigNames = [...]string{"sin", "cos", "tan", "asin", "acos", "atan", "atan2"}

func (fn TrigFunc) String() string {
	if fn < 0 || int(fn) >= len(trigNames) {
		return fmt.Sprintf("TrigFunc(%d)", int(fn))
	}
	return trigNames[fn]
}

// Arity returns the number of inputs the function takes.
func (fn TrigFunc) Arity() int {
	if fn == Atan2 {
		return 2
	}
	return 1
}

// Trig applies a trigonometric function. Atan2 reads y from values[0] and x from values[1].
type Trig[T kind.Float] struct {
	base
	fn  TrigFunc
	in  []T
	out T
}

// NewTrig builds a trigonometric block.
func NewTrig[T kind.Float](fn TrigFunc) *Trig[T] {
	k := kind.Of[T]()
	in := make([]Port, fn.Arity())
	for i := range in {
		in[i] = typedPort(fmt.Sprintf("values[%d]", i), k)
	}
	return &Trig[T]{
		base: newBase(fn.String(), k, className(fn.String(), k), in, []Port{typedPort("value", k)}),
		fn:   fn,
		in:   make([]T, len(in)),
	}
}

func (t *Trig[T]) SetInput(port int, v value.Value) error {
	if err := t.checkInput(port, v); err != nil {
		return err
	}
	return store(&t.base, port, v, &t.in[port])
}

func (t *Trig[T]) GetOutput(port int, out *value.Value) error {
	return load(&t.base, port, out, t.out)
}

func (t *Trig[T]) Step() {
	x := float64(t.in[0])
	var y float64
	switch t.fn {
	case Sin:
		y = math.Sin(x)
	case Cos:
		y = math.Cos(x)
	case Tan:
		y = math.Tan(x)
	case Asin:
		y = math.Asin(x)
	case Acos:
		y = math.Acos(x)
	case Atan:
		y = math.Atan(x)
	case Atan2:
		y = math.Atan2(x, float64(t.in[1]))
	}
	t.out = T(y)
}

func (t *Trig[T]) Reset() { t.Step() }

// Conversion casts its input from one kind to another.
type Conversion[From, To kind.Scalar] struct {
	base
	in  From
	out To
}

// NewConversion builds a conversion block.
func NewConversion[From, To kind.Scalar]() *Conversion[From, To] {
	from, to := kind.Of[From](), kind.Of[To]()
	return &Conversion[From, To]{
		base: newBase("conversion", to, className("conversion", from, to),
			[]Port{typedPort("value", from)},
			[]Port{typedPort("value", to)}),
	}
}

func (c *Conversion[From, To]) SetInput(port int, v value.Value) error {
	if port == 0 {
		return store(&c.base, port, v, &c.in)
	}
	return c.checkInput(port, v)
}

func (c *Conversion[From, To]) GetOutput(port int, out *value.Value) error {
	return load(&c.base, port, out, c.out)
}

func (c *Conversion[From, To]) Step()  { c.out = value.Cast[To](c.in) }
func (c *Conversion[From, To]) Reset() { c.Step() }
