package kind

import (
	"strings"

	"github.com/teafis/ModelTea-stdlib/errors"
)

// Kind identifies the representation of a data value.
// The numeric values are part of the boundary wire format.
type Kind uint32

const (
	None Kind = iota
	Bool
	U8
	S8
	U16
	S16
	U32
	S32
	U64
	S64
	F32
	F64

	count
)

// Category classifies a kind. A kind belongs to exactly one category.
type Category uint32

const (
	Integral Category = 1 << iota
	Floating
	Logical
)

// Categories is a set of categories. Its bit values are the boundary type flags.
type Categories = Category

// Any is the set of every category.
const Any = Integral | Floating | Logical

// Integer is satisfied by every Go type that backs an integral kind.
type Integer interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64
}

// Float is satisfied by every Go type that backs a floating kind.
type Float interface {
	float32 | float64
}

// Numeric is the union of Integer and Float.
type Numeric interface {
	Integer | Float
}

// Scalar is every representation a Kind can describe.
type Scalar interface {
	Numeric | bool
}

type info struct {
	name     string
	cname    string
	width    uint32
	category Category
	signed   bool
}

var table = [count]info{
	None: {name: "none", cname: "void"},
	Bool: {name: "bool", cname: "bool", width: 1, category: Logical},
	U8:   {name: "u8", cname: "uint8_t", width: 1, category: Integral},
	S8:   {name: "s8", cname: "int8_t", width: 1, category: Integral, signed: true},
	U16:  {name: "u16", cname: "uint16_t", width: 2, category: Integral},
	S16:  {name: "s16", cname: "int16_t", width: 2, category: Integral, signed: true},
	U32:  {name: "u32", cname: "uint32_t", width: 4, category: Integral},
	S32:  {name: "s32", cname: "int32_t", width: 4, category: Integral, signed: true},
	U64:  {name: "u64", cname: "uint64_t", width: 8, category: Integral},
	S64:  {name: "s64", cname: "int64_t", width: 8, category: Integral, signed: true},
	F32:  {name: "f32", cname: "float", width: 4, category: Floating, signed: true},
	F64:  {name: "f64", cname: "double", width: 8, category: Floating, signed: true},
}

// All returns every value kind in catalog order.
func All() []Kind {
	return []Kind{Bool, U8, S8, U16, S16, U32, S32, U64, S64, F32, F64}
}

// Valid reports whether k names a value kind. None is not valid.
func (k Kind) Valid() bool {
	return k > None && k < count
}

// Width returns the byte width of the kind's representation, 0 for None or unknown kinds.
func (k Kind) Width() uint32 {
	if k >= count {
		return 0
	}
	return table[k].width
}

// Category returns the kind's category. It panics for None and unknown kinds.
func (k Kind) Category() Category {
	if !k.Valid() {
		panic("kind: category of invalid kind " + k.String())
	}
	return table[k].category
}

// Signed reports whether the representation carries a sign.
func (k Kind) Signed() bool {
	return k.Valid() && table[k].signed
}

func (k Kind) String() string {
	if k >= count {
		return "invalid"
	}
	return table[k].name
}

// CName returns the C spelling of the kind, used in generated names.
func (k Kind) CName() string {
	if k >= count {
		return ""
	}
	return table[k].cname
}

// Has reports whether the category of k is in the set. Invalid kinds are never members.
func (c Category) Has(k Kind) bool {
	if !k.Valid() {
		return false
	}
	return c&table[k].category != 0
}

func (c Category) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	if c&Integral != 0 {
		parts = append(parts, "integral")
	}
	if c&Floating != 0 {
		parts = append(parts, "floating")
	}
	if c&Logical != 0 {
		parts = append(parts, "logical")
	}
	return strings.Join(parts, "|")
}

var aliases = map[string]Kind{
	"i8":  S8,
	"i16": S16,
	"i32": S32,
	"i64": S64,
}

// Parse resolves a kind from its short name, an iN alias, or its C name.
func Parse(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k := Bool; k < count; k++ {
		if s == table[k].name || s == table[k].cname {
			return k, nil
		}
	}
	if k, ok := aliases[s]; ok {
		return k, nil
	}
	return None, errors.New(errors.PhaseValue, errors.KindUnsupportedKind).
		Actual(s).
		Detail("unknown kind name").
		Build()
}

// Of returns the kind whose representation is T.
func Of[T Scalar]() Kind {
	var zero T
	switch any(zero).(type) {
	case bool:
		return Bool
	case uint8:
		return U8
	case int8:
		return S8
	case uint16:
		return U16
	case int16:
		return S16
	case uint32:
		return U32
	case int32:
		return S32
	case uint64:
		return U64
	case int64:
		return S64
	case float32:
		return F32
	case float64:
		return F64
	}
	return None
}
