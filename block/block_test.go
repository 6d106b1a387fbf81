package block

import (
	"errors"
	"math"
	"testing"

	mteaerrors "github.com/teafis/ModelTea-stdlib/errors"
	"github.com/teafis/ModelTea-stdlib/kind"
	"github.com/teafis/ModelTea-stdlib/value"
)

func set(t *testing.T, b Block, port int, v value.Value) {
	t.Helper()
	if err := b.SetInput(port, v); err != nil {
		t.Fatalf("%s SetInput(%d, %s): %v", b.ClassName(), port, v, err)
	}
}

func out[T kind.Scalar](t *testing.T, b Block) T {
	t.Helper()
	v, err := Output(b, 0)
	if err != nil {
		t.Fatalf("%s Output(0): %v", b.ClassName(), err)
	}
	x, err := value.Read[T](v)
	if err != nil {
		t.Fatalf("%s read output: %v", b.ClassName(), err)
	}
	return x
}

func TestArith(t *testing.T) {
	tests := []struct {
		name string
		op   ArithOp
		in   []float64
		want float64
	}{
		{"add", Add, []float64{1, 2, 3}, 6},
		{"sub", Sub, []float64{1, 2, 3}, -4},
		{"mul", Mul, []float64{2, 3, 4}, 24},
		{"div", Div, []float64{24, 2, 3}, 4},
		{"mod", Mod, []float64{7.5, 2}, 1.5},
		{"single input", Add, []float64{9}, 9},
		{"empty", Mul, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewArith[float64](tt.op, len(tt.in))
			for i, x := range tt.in {
				set(t, b, i, value.Of(x))
			}
			b.Step()
			if got := out[float64](t, b); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArithIntegerDivisionByZero(t *testing.T) {
	for _, op := range []ArithOp{Div, Mod} {
		b := NewArith[int32](op, 2)
		set(t, b, 0, value.Of(int32(7)))
		set(t, b, 1, value.Of(int32(0)))
		b.Step()
		if got := out[int32](t, b); got != 0 {
			t.Errorf("%s by zero = %d, want 0", op, got)
		}
	}

	b := NewArith[uint8](Mod, 2)
	set(t, b, 0, value.Of(uint8(200)))
	set(t, b, 1, value.Of(uint8(7)))
	b.Step()
	if got := out[uint8](t, b); got != 4 {
		t.Errorf("200 %% 7 = %d, want 4", got)
	}

	s := NewArith[int16](Mod, 2)
	set(t, s, 0, value.Of(int16(-7)))
	set(t, s, 1, value.Of(int16(3)))
	s.Step()
	if got := out[int16](t, s); got != -1 {
		t.Errorf("-7 %% 3 = %d, want -1", got)
	}
}

func TestArithIdentity(t *testing.T) {
	b := NewArith[int32](Add, 3)
	if b.Family() != "add" || b.Kind() != kind.S32 {
		t.Errorf("Family=%s Kind=%s", b.Family(), b.Kind())
	}
	if b.ClassName() != "add<s32, 3>" {
		t.Errorf("ClassName() = %q", b.ClassName())
	}
	if FullName(b) != "mtea::add<s32, 3>" {
		t.Errorf("FullName() = %q", FullName(b))
	}
	if len(b.Inputs()) != 3 || b.Inputs()[2].Name != "values[2]" {
		t.Errorf("Inputs() = %v", b.Inputs())
	}
	if b.DelayedOutputs() {
		t.Error("arithmetic is combinational")
	}
}

func TestSetInputDoesNotRecompute(t *testing.T) {
	b := NewArith[float64](Add, 2)
	set(t, b, 0, value.Of(1.0))
	set(t, b, 1, value.Of(2.0))
	if got := out[float64](t, b); got != 0 {
		t.Errorf("output before Step = %v, want 0", got)
	}
	b.Step()
	if got := out[float64](t, b); got != 3 {
		t.Errorf("output after Step = %v, want 3", got)
	}
}

func TestPortValidation(t *testing.T) {
	b := NewDelay[float64]()

	err := b.SetInput(3, value.Of(1.0))
	if !errors.Is(err, mteaerrors.ErrPortOutOfRange) {
		t.Errorf("SetInput(3) = %v, want port out of range", err)
	}
	err = b.SetInput(-1, value.Of(1.0))
	if !errors.Is(err, mteaerrors.ErrPortOutOfRange) {
		t.Errorf("SetInput(-1) = %v, want port out of range", err)
	}
	err = b.SetInput(0, value.Of(float32(1)))
	if !errors.Is(err, mteaerrors.ErrKindMismatch) {
		t.Errorf("SetInput(f32) = %v, want kind mismatch", err)
	}
	err = b.SetInput(2, value.Of(1.0))
	if !errors.Is(err, mteaerrors.ErrKindMismatch) {
		t.Errorf("SetInput(flag, f64) = %v, want kind mismatch", err)
	}
	err = b.SetInput(0, value.Value{})
	if !errors.Is(err, mteaerrors.ErrNullArgument) {
		t.Errorf("SetInput(null) = %v, want null argument", err)
	}

	o := value.Of(int32(0))
	if err := b.GetOutput(0, &o); !errors.Is(err, mteaerrors.ErrKindMismatch) {
		t.Errorf("GetOutput(s32) = %v, want kind mismatch", err)
	}
	if err := b.GetOutput(1, &o); !errors.Is(err, mteaerrors.ErrPortOutOfRange) {
		t.Errorf("GetOutput(1) = %v, want port out of range", err)
	}
	if err := b.GetOutput(0, nil); !errors.Is(err, mteaerrors.ErrNullArgument) {
		t.Errorf("GetOutput(nil) = %v, want null argument", err)
	}
}

func TestPortKinds(t *testing.T) {
	b := NewSwitch[uint16]()
	if InputKind(b, 0) != kind.Bool || InputKind(b, 1) != kind.U16 || InputKind(b, 3) != kind.None {
		t.Errorf("unexpected input kinds %v", b.Inputs())
	}
	if OutputKind(b, 0) != kind.U16 || OutputKind(b, 1) != kind.None {
		t.Errorf("unexpected output kinds %v", b.Outputs())
	}
	if b.Inputs()[0].Settable || !b.Inputs()[1].Settable {
		t.Error("flag ports are fixed, data ports follow the block kind")
	}

	ports := b.Inputs()
	ports[0].Name = "mutated"
	if b.Inputs()[0].Name != "value_flag" {
		t.Error("Inputs() must not expose internal storage")
	}
}

func TestClock(t *testing.T) {
	c := NewClock(0.1)
	c.Reset()
	if got := out[float64](t, c); got != 0 {
		t.Fatalf("after reset = %v, want 0", got)
	}
	for n := 1; n <= 50; n++ {
		c.Step()
		if got := out[float64](t, c); math.Abs(got-0.1*float64(n)) > 1e-9 {
			t.Fatalf("after %d steps = %v, want %v", n, got, 0.1*float64(n))
		}
	}
	c.Reset()
	if got := out[float64](t, c); got != 0 {
		t.Errorf("after second reset = %v, want 0", got)
	}

	ic := NewClock[int32](2)
	ic.Step()
	ic.Step()
	if got := out[int32](t, ic); got != 4 {
		t.Errorf("integer clock = %d, want 4", got)
	}
	if len(c.Inputs()) != 0 {
		t.Error("clock has no inputs")
	}
}

func TestConstant(t *testing.T) {
	c := NewConstant(true)
	c.Step()
	c.Reset()
	if !out[bool](t, c) {
		t.Error("constant output changed")
	}
	if err := c.SetInput(0, value.Of(true)); !errors.Is(err, mteaerrors.ErrPortOutOfRange) {
		t.Errorf("SetInput on constant = %v", err)
	}
}

func TestConstantRef(t *testing.T) {
	x := int64(3)
	c := NewConstantRef(&x)
	if got := out[int64](t, c); got != 3 {
		t.Errorf("initial = %d, want 3", got)
	}
	x = 8
	if got := out[int64](t, c); got != 3 {
		t.Errorf("before step = %d, want 3", got)
	}
	c.Step()
	if got := out[int64](t, c); got != 8 {
		t.Errorf("after step = %d, want 8", got)
	}
	if c.Family() != "constant_ptr" {
		t.Errorf("Family() = %q", c.Family())
	}

	c.Drop()
	x = 13
	c.Step()
	c.Reset()
	if got := out[int64](t, c); got != 8 {
		t.Errorf("after drop = %d, want 8", got)
	}
}

func TestDelayLag(t *testing.T) {
	d := NewDelay[float64]()
	set(t, d, 1, value.Of(5.0))
	d.Reset()
	if got := out[float64](t, d); got != 5 {
		t.Fatalf("after reset = %v, want 5", got)
	}

	set(t, d, 0, value.Of(9.0))
	d.Step()
	if got := out[float64](t, d); got != 5 {
		t.Errorf("first step = %v, want 5", got)
	}
	d.Step()
	if got := out[float64](t, d); got != 9 {
		t.Errorf("second step = %v, want 9", got)
	}
	if !d.DelayedOutputs() {
		t.Error("delay outputs are delayed")
	}
}

func TestDelayResetFlag(t *testing.T) {
	d := NewDelay[int8]()
	set(t, d, 0, value.Of(int8(1)))
	d.Step()
	d.Step()
	if got := out[int8](t, d); got != 1 {
		t.Fatalf("steady state = %d, want 1", got)
	}

	set(t, d, 1, value.Of(int8(-4)))
	set(t, d, 2, value.Of(true))
	set(t, d, 0, value.Of(int8(2)))
	d.Step()
	if got := out[int8](t, d); got != -4 {
		t.Errorf("flagged step = %d, want -4", got)
	}

	set(t, d, 2, value.Of(false))
	d.Step()
	if got := out[int8](t, d); got != 2 {
		t.Errorf("step after flag = %d, want 2", got)
	}
}

func TestDerivative(t *testing.T) {
	d := NewDerivative(0.5)
	set(t, d, 0, value.Of(1.0))
	d.Reset()
	if got := out[float64](t, d); got != 0 {
		t.Fatalf("after reset = %v, want 0", got)
	}

	set(t, d, 0, value.Of(2.0))
	d.Step()
	if got := out[float64](t, d); got != 2 {
		t.Errorf("slope = %v, want 2", got)
	}

	set(t, d, 0, value.Of(10.0))
	set(t, d, 1, value.Of(true))
	d.Step()
	if got := out[float64](t, d); got != 0 {
		t.Errorf("flagged slope = %v, want 0", got)
	}

	set(t, d, 1, value.Of(false))
	set(t, d, 0, value.Of(11.0))
	d.Step()
	if got := out[float64](t, d); got != 2 {
		t.Errorf("slope after flag = %v, want 2", got)
	}
}

func TestIntegrator(t *testing.T) {
	in := NewIntegrator(float32(0.25))
	set(t, in, 1, value.Of(float32(1)))
	in.Reset()
	if got := out[float32](t, in); got != 1 {
		t.Fatalf("after reset = %v, want 1", got)
	}

	set(t, in, 0, value.Of(float32(4)))
	in.Step()
	in.Step()
	if got := out[float32](t, in); got != 3 {
		t.Errorf("accumulated = %v, want 3", got)
	}

	set(t, in, 1, value.Of(float32(-2)))
	set(t, in, 2, value.Of(true))
	in.Step()
	if got := out[float32](t, in); got != -2 {
		t.Errorf("flagged = %v, want -2", got)
	}
}

func TestSwitch(t *testing.T) {
	s := NewSwitch[float64]()
	set(t, s, 1, value.Of(1.0))
	set(t, s, 2, value.Of(2.0))
	s.Step()
	if got := out[float64](t, s); got != 2 {
		t.Errorf("flag false = %v, want 2", got)
	}
	set(t, s, 0, value.Of(true))
	s.Step()
	if got := out[float64](t, s); got != 1 {
		t.Errorf("flag true = %v, want 1", got)
	}
}

func TestLimiter(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-5, -1},
		{0, 0},
		{5, 1},
	}

	l := NewLimiter[float64]()
	set(t, l, 1, value.Of(-1.0))
	set(t, l, 2, value.Of(1.0))
	c := NewLimiterConst(-1.0, 1.0)

	for _, tt := range tests {
		set(t, l, 0, value.Of(tt.in))
		l.Step()
		if got := out[float64](t, l); got != tt.want {
			t.Errorf("limiter(%v) = %v, want %v", tt.in, got, tt.want)
		}

		set(t, c, 0, value.Of(tt.in))
		c.Step()
		if got := out[float64](t, c); got != tt.want {
			t.Errorf("limiter_const(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	lo, hi := c.Bounds()
	if lo != -1 || hi != 1 {
		t.Errorf("Bounds() = %v, %v", lo, hi)
	}
}

func TestRelational(t *testing.T) {
	tests := []struct {
		op   RelOp
		a, b int32
		want bool
	}{
		{Equal, 1, 1, true},
		{NotEqual, 1, 1, false},
		{Greater, 2, 1, true},
		{GreaterEqual, 1, 1, true},
		{Less, 2, 1, false},
		{LessEqual, 0, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			r := NewOrderedRelational[int32](tt.op)
			set(t, r, 0, value.Of(tt.a))
			set(t, r, 1, value.Of(tt.b))
			r.Step()
			if got := out[bool](t, r); got != tt.want {
				t.Errorf("%d %s %d = %v, want %v", tt.a, tt.op.Symbol(), tt.b, got, tt.want)
			}
			if OutputKind(r, 0) != kind.Bool {
				t.Error("relational output is bool")
			}
		})
	}

	eq := NewRelational[bool](NotEqual)
	set(t, eq, 0, value.Of(true))
	set(t, eq, 1, value.Of(false))
	eq.Step()
	if !out[bool](t, eq) {
		t.Error("true != false")
	}
}

func TestTrig(t *testing.T) {
	tests := []struct {
		fn   TrigFunc
		in   []float64
		want float64
	}{
		{Sin, []float64{math.Pi / 2}, 1},
		{Cos, []float64{0}, 1},
		{Tan, []float64{0}, 0},
		{Asin, []float64{1}, math.Pi / 2},
		{Acos, []float64{1}, 0},
		{Atan, []float64{1}, math.Pi / 4},
		{Atan2, []float64{1, -1}, 3 * math.Pi / 4},
	}
	for _, tt := range tests {
		t.Run(tt.fn.String(), func(t *testing.T) {
			b := NewTrig[float64](tt.fn)
			if len(b.Inputs()) != tt.fn.Arity() {
				t.Fatalf("inputs = %d, want %d", len(b.Inputs()), tt.fn.Arity())
			}
			for i, x := range tt.in {
				set(t, b, i, value.Of(x))
			}
			b.Step()
			if got := out[float64](t, b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConversion(t *testing.T) {
	c := NewConversion[float64, int16]()
	if InputKind(c, 0) != kind.F64 || OutputKind(c, 0) != kind.S16 {
		t.Fatalf("ports = %v -> %v", c.Inputs(), c.Outputs())
	}
	if c.ClassName() != "conversion<f64, s16>" {
		t.Errorf("ClassName() = %q", c.ClassName())
	}
	set(t, c, 0, value.Of(-3.7))
	c.Step()
	if got := out[int16](t, c); got != -3 {
		t.Errorf("got %d, want -3", got)
	}

	b := NewConversion[uint32, bool]()
	set(t, b, 0, value.Of(uint32(2)))
	b.Reset()
	if !out[bool](t, b) {
		t.Error("non-zero converts to true")
	}
}
