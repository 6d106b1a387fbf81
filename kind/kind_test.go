package kind

import (
	"errors"
	"testing"

	"go.bytecodealliance.org/wit"

	mteaerrors "github.com/teafis/ModelTea-stdlib/errors"
)

func TestWireValues(t *testing.T) {
	tests := []struct {
		k    Kind
		wire uint32
	}{
		{None, 0}, {Bool, 1}, {U8, 2}, {S8, 3}, {U16, 4}, {S16, 5},
		{U32, 6}, {S32, 7}, {U64, 8}, {S64, 9}, {F32, 10}, {F64, 11},
	}
	for _, tt := range tests {
		if uint32(tt.k) != tt.wire {
			t.Errorf("%s = %d, want %d", tt.k, uint32(tt.k), tt.wire)
		}
	}
}

func TestWidth(t *testing.T) {
	tests := []struct {
		k     Kind
		width uint32
	}{
		{None, 0}, {Bool, 1}, {U8, 1}, {S8, 1}, {U16, 2}, {S16, 2},
		{U32, 4}, {S32, 4}, {U64, 8}, {S64, 8}, {F32, 4}, {F64, 8},
		{Kind(99), 0},
	}
	for _, tt := range tests {
		t.Run(tt.k.String(), func(t *testing.T) {
			if got := tt.k.Width(); got != tt.width {
				t.Errorf("Width() = %d, want %d", got, tt.width)
			}
		})
	}
}

func TestCategoryExactlyOne(t *testing.T) {
	for _, k := range All() {
		c := k.Category()
		n := 0
		for _, bit := range []Category{Integral, Floating, Logical} {
			if c&bit != 0 {
				n++
			}
		}
		if n != 1 {
			t.Errorf("%s belongs to %d categories", k, n)
		}
	}

	if Bool.Category() != Logical {
		t.Errorf("bool category = %s, want logical", Bool.Category())
	}
	if F32.Category() != Floating || S16.Category() != Integral {
		t.Error("unexpected numeric categories")
	}
}

func TestCategoryPanicsOnNone(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Category(None) should panic")
		}
	}()
	_ = None.Category()
}

func TestCategoriesHas(t *testing.T) {
	numeric := Integral | Floating
	if numeric.Has(Bool) {
		t.Error("numeric set should not contain bool")
	}
	if !numeric.Has(U64) || !numeric.Has(F32) {
		t.Error("numeric set should contain u64 and f32")
	}
	if Any.Has(None) || Any.Has(Kind(42)) {
		t.Error("invalid kinds are never members")
	}
	if uint32(Integral) != 1 || uint32(Floating) != 2 || uint32(Logical) != 4 {
		t.Error("category flags changed")
	}
	if got := numeric.String(); got != "integral|floating" {
		t.Errorf("String() = %q", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"bool", Bool},
		{"u8", U8},
		{"i32", S32},
		{"s64", S64},
		{"double", F64},
		{"uint16_t", U16},
		{" F32 ", F32},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}

	_, err := Parse("complex128")
	if !errors.Is(err, mteaerrors.ErrUnsupportedKind) {
		t.Errorf("Parse(complex128) error = %v, want unsupported kind", err)
	}
	_, err = Parse("none")
	if err == nil {
		t.Error("none is not a value kind")
	}
}

func TestOf(t *testing.T) {
	checks := []struct {
		got, want Kind
	}{
		{Of[bool](), Bool},
		{Of[uint8](), U8},
		{Of[int8](), S8},
		{Of[uint16](), U16},
		{Of[int16](), S16},
		{Of[uint32](), U32},
		{Of[int32](), S32},
		{Of[uint64](), U64},
		{Of[int64](), S64},
		{Of[float32](), F32},
		{Of[float64](), F64},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("Of = %s, want %s", c.got, c.want)
		}
	}
}

func TestWITRoundTrip(t *testing.T) {
	for _, k := range All() {
		got, err := FromWIT(k.WIT())
		if err != nil {
			t.Fatalf("FromWIT(%s) error: %v", k, err)
		}
		if got != k {
			t.Errorf("FromWIT(WIT(%s)) = %s", k, got)
		}
	}

	if None.WIT() != nil {
		t.Error("None has no WIT type")
	}
	if _, err := FromWIT(wit.String{}); err == nil {
		t.Error("string is not a kind")
	}
}
