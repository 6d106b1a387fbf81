package value

import (
	"errors"
	"math"
	"testing"

	mteaerrors "github.com/teafis/ModelTea-stdlib/errors"
	"github.com/teafis/ModelTea-stdlib/kind"
)

func TestOfLittleEndian(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want []byte
	}{
		{"bool true", Of(true), []byte{1}},
		{"bool false", Of(false), []byte{0}},
		{"u16", Of(uint16(0x0102)), []byte{0x02, 0x01}},
		{"s32 -1", Of(int32(-1)), []byte{0xff, 0xff, 0xff, 0xff}},
		{"u64", Of(uint64(1)), []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{"f32 1.0", Of(float32(1)), []byte{0x00, 0x00, 0x80, 0x3f}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Bytes()
			if string(got) != string(tt.want) {
				t.Errorf("Bytes() = %x, want %x", got, tt.want)
			}
			if tt.v.Width() != tt.v.Kind().Width() {
				t.Errorf("Width() = %d, want %d", tt.v.Width(), tt.v.Kind().Width())
			}
		})
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	v := Of(float64(1.5))
	got, err := Read[float64](v)
	if err != nil || got != 1.5 {
		t.Fatalf("Read = %v, %v", got, err)
	}

	if err := Write(&v, 2.25); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ = Read[float64](v)
	if got != 2.25 {
		t.Errorf("after Write, Read = %v, want 2.25", got)
	}

	b := Of(false)
	if err := Write(&b, true); err != nil {
		t.Fatalf("Write bool: %v", err)
	}
	if ok, _ := Read[bool](b); !ok {
		t.Error("bool write lost")
	}
}

func TestBoolNonZeroReadsTrue(t *testing.T) {
	v, err := Make(kind.Bool, []byte{7})
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := Read[bool](v); !ok {
		t.Error("non-zero bool byte should read as true")
	}
}

// readAs reads v through the Go type that backs k.
func readAs(v Value, k kind.Kind) error {
	var err error
	switch k {
	case kind.Bool:
		_, err = Read[bool](v)
	case kind.U8:
		_, err = Read[uint8](v)
	case kind.S8:
		_, err = Read[int8](v)
	case kind.U16:
		_, err = Read[uint16](v)
	case kind.S16:
		_, err = Read[int16](v)
	case kind.U32:
		_, err = Read[uint32](v)
	case kind.S32:
		_, err = Read[int32](v)
	case kind.U64:
		_, err = Read[uint64](v)
	case kind.S64:
		_, err = Read[int64](v)
	case kind.F32:
		_, err = Read[float32](v)
	case kind.F64:
		_, err = Read[float64](v)
	}
	return err
}

func writeAs(v *Value, k kind.Kind) error {
	switch k {
	case kind.Bool:
		return Write(v, true)
	case kind.U8:
		return Write(v, uint8(1))
	case kind.S8:
		return Write(v, int8(1))
	case kind.U16:
		return Write(v, uint16(1))
	case kind.S16:
		return Write(v, int16(1))
	case kind.U32:
		return Write(v, uint32(1))
	case kind.S32:
		return Write(v, int32(1))
	case kind.U64:
		return Write(v, uint64(1))
	case kind.S64:
		return Write(v, int64(1))
	case kind.F32:
		return Write(v, float32(1))
	case kind.F64:
		return Write(v, float64(1))
	}
	return nil
}

func TestKindMismatchGrid(t *testing.T) {
	for _, stored := range kind.All() {
		for _, requested := range kind.All() {
			v := Zero(stored)
			before := v.Bytes()

			readErr := readAs(v, requested)
			writeErr := writeAs(&v, requested)

			if stored == requested {
				if readErr != nil || writeErr != nil {
					t.Errorf("%s as %s: read=%v write=%v", stored, requested, readErr, writeErr)
				}
				continue
			}
			if !errors.Is(readErr, mteaerrors.ErrKindMismatch) {
				t.Errorf("read %s as %s: err = %v, want kind mismatch", stored, requested, readErr)
			}
			if !errors.Is(writeErr, mteaerrors.ErrKindMismatch) {
				t.Errorf("write %s as %s: err = %v, want kind mismatch", stored, requested, writeErr)
			}
			if string(v.Bytes()) != string(before) {
				t.Errorf("rejected write of %s into %s modified the payload", requested, stored)
			}
		}
	}
}

func TestMakeRejectsWrongWidth(t *testing.T) {
	_, err := Make(kind.F64, []byte{1, 2, 3, 4})
	if !errors.Is(err, mteaerrors.ErrKindMismatch) {
		t.Errorf("err = %v, want kind mismatch", err)
	}
	_, err = Make(kind.None, nil)
	if !errors.Is(err, mteaerrors.ErrUnsupportedKind) {
		t.Errorf("err = %v, want unsupported kind", err)
	}
}

func TestMakeCopies(t *testing.T) {
	buf := []byte{5}
	v, err := Make(kind.U8, buf)
	if err != nil {
		t.Fatal(err)
	}
	buf[0] = 9
	if n, _ := Read[uint8](v); n != 5 {
		t.Errorf("Make should copy its input, got %d", n)
	}
}

func TestNullArgument(t *testing.T) {
	var v Value
	if !v.IsNull() {
		t.Error("zero Value should be null")
	}
	if _, err := Read[int32](v); !errors.Is(err, mteaerrors.ErrNullArgument) {
		t.Errorf("Read null: %v", err)
	}
	if err := Write[int32](nil, 1); !errors.Is(err, mteaerrors.ErrNullArgument) {
		t.Errorf("Write nil: %v", err)
	}
	if _, err := v.AsSize(); !errors.Is(err, mteaerrors.ErrNullArgument) {
		t.Errorf("AsSize null: %v", err)
	}
}

func TestAsSize(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want int
	}{
		{"u8", Of(uint8(3)), 3},
		{"s32", Of(int32(7)), 7},
		{"negative clamps", Of(int16(-4)), 0},
		{"u64 max clamps", Of(uint64(math.MaxUint64)), math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v.AsSize()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("AsSize() = %d, want %d", got, tt.want)
			}
		})
	}

	for _, v := range []Value{Of(float32(3)), Of(2.0), Of(true)} {
		if _, err := v.AsSize(); !errors.Is(err, mteaerrors.ErrUnsupportedConversion) {
			t.Errorf("AsSize(%s) err = %v, want unsupported conversion", v.Kind(), err)
		}
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		to   kind.Kind
		want Value
	}{
		{"f64 to s32 truncates", Of(2.9), kind.S32, Of(int32(2))},
		{"s8 to f32", Of(int8(-3)), kind.F32, Of(float32(-3))},
		{"bool to u16", Of(true), kind.U16, Of(uint16(1))},
		{"zero to bool", Of(0.0), kind.Bool, Of(false)},
		{"nonzero to bool", Of(int64(-9)), kind.Bool, Of(true)},
		{"bool identity", Of(true), kind.Bool, Of(true)},
		{"u32 wraps to u8", Of(uint32(0x1ff)), kind.U8, Of(uint8(0xff))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.in, tt.to)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Convert = %s %s, want %s %s", got.Kind(), got, tt.want.Kind(), tt.want)
			}
		})
	}

	if _, err := Convert(Of(1.0), kind.None); !errors.Is(err, mteaerrors.ErrUnsupportedConversion) {
		t.Errorf("Convert to none: %v", err)
	}
}

func TestCast(t *testing.T) {
	if got := Cast[int32](float64(-1.5)); got != -1 {
		t.Errorf("Cast[int32](-1.5) = %d", got)
	}
	if got := Cast[float64](true); got != 1 {
		t.Errorf("Cast[float64](true) = %v", got)
	}
	if got := Cast[bool](uint8(0)); got {
		t.Error("Cast[bool](0) should be false")
	}
}

func TestParseAndString(t *testing.T) {
	tests := []struct {
		k    kind.Kind
		text string
		want string
	}{
		{kind.Bool, "true", "true"},
		{kind.U8, "255", "255"},
		{kind.S8, "-128", "-128"},
		{kind.U32, "0x10", "16"},
		{kind.S64, "-42", "-42"},
		{kind.F32, "0.1", "0.1"},
		{kind.F64, "2.5", "2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.k.String()+"/"+tt.text, func(t *testing.T) {
			v, err := Parse(tt.k, tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if v.Kind() != tt.k {
				t.Errorf("kind = %s, want %s", v.Kind(), tt.k)
			}
			if got := v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := Parse(kind.U8, "256"); !errors.Is(err, mteaerrors.ErrInvalidData) {
		t.Errorf("overflow parse: %v", err)
	}
	if _, err := Parse(kind.None, "1"); !errors.Is(err, mteaerrors.ErrUnsupportedKind) {
		t.Errorf("none parse: %v", err)
	}
}

func TestRef(t *testing.T) {
	x := 4.0
	r := RefTo(&x)
	if r.Kind() != kind.F64 {
		t.Fatalf("Kind() = %s", r.Kind())
	}

	p, err := Deref[float64](r)
	if err != nil {
		t.Fatal(err)
	}
	*p = 5
	v, err := r.Load()
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := Read[float64](v); f != 5 {
		t.Errorf("Load() = %v, want 5", f)
	}

	if _, err := Deref[float32](r); !errors.Is(err, mteaerrors.ErrKindMismatch) {
		t.Errorf("Deref wrong kind: %v", err)
	}

	var nilPtr *int32
	if _, err := Deref[int32](RefTo(nilPtr)); !errors.Is(err, mteaerrors.ErrNullArgument) {
		t.Errorf("Deref nil: %v", err)
	}
}

func TestNewRefStore(t *testing.T) {
	for _, k := range kind.All() {
		t.Run(k.String(), func(t *testing.T) {
			r, err := NewRef(Zero(k))
			if err != nil {
				t.Fatal(err)
			}
			if r.Kind() != k {
				t.Fatalf("Kind() = %s", r.Kind())
			}
			one, err := Convert(Of(uint8(1)), k)
			if err != nil {
				t.Fatal(err)
			}
			if err := r.Store(one); err != nil {
				t.Fatal(err)
			}
			got, err := r.Load()
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(one) {
				t.Errorf("Load() = %s, want %s", got, one)
			}
		})
	}

	r, _ := NewRef(Of(int16(3)))
	if err := r.Store(Of(int32(3))); !errors.Is(err, mteaerrors.ErrKindMismatch) {
		t.Errorf("Store wrong kind: %v", err)
	}
	if _, err := NewRef(Value{}); !errors.Is(err, mteaerrors.ErrUnsupportedKind) {
		t.Errorf("NewRef(null): %v", err)
	}
	if err := (Ref{}).Store(Of(1.0)); !errors.Is(err, mteaerrors.ErrNullArgument) {
		t.Errorf("Store on zero Ref: %v", err)
	}
}
