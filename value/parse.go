package value

import (
	"strconv"
	"strings"

	"github.com/teafis/ModelTea-stdlib/errors"
	"github.com/teafis/ModelTea-stdlib/kind"
)

// Parse reads the text form of a k value.
func Parse(k kind.Kind, text string) (Value, error) {
	s := strings.TrimSpace(text)
	var (
		v   Value
		err error
	)
	switch k {
	case kind.Bool:
		var b bool
		b, err = strconv.ParseBool(s)
		v = Of(b)
	case kind.U8, kind.U16, kind.U32, kind.U64:
		var n uint64
		n, err = strconv.ParseUint(s, 0, int(k.Width()*8))
		v = Of(n)
	case kind.S8, kind.S16, kind.S32, kind.S64:
		var n int64
		n, err = strconv.ParseInt(s, 0, int(k.Width()*8))
		v = Of(n)
	case kind.F32, kind.F64:
		var f float64
		f, err = strconv.ParseFloat(s, int(k.Width()*8))
		v = Of(f)
	default:
		return Value{}, errors.UnsupportedKind(errors.PhaseValue, "", k.String())
	}
	if err != nil {
		return Value{}, errors.New(errors.PhaseValue, errors.KindInvalidData).
			Expected(k.String()).
			Value(text).
			Cause(err).
			Detail("cannot parse %q", text).
			Build()
	}
	return Convert(v, k)
}

// String formats the payload in the form Parse accepts.
func (v Value) String() string {
	if v.data == nil {
		return "null"
	}
	if v.check(v.kind) != nil {
		return "invalid"
	}
	switch v.kind {
	case kind.Bool:
		return strconv.FormatBool(decode[bool](v.data))
	case kind.F32:
		return strconv.FormatFloat(float64(decode[float32](v.data)), 'g', -1, 32)
	case kind.F64:
		return strconv.FormatFloat(decode[float64](v.data), 'g', -1, 64)
	}
	if n, ok := asInt64(v); ok {
		return strconv.FormatInt(n, 10)
	}
	n, _ := asUint64(v)
	return strconv.FormatUint(n, 10)
}
