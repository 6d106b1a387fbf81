package value

import (
	"fmt"

	"github.com/teafis/ModelTea-stdlib/errors"
	"github.com/teafis/ModelTea-stdlib/kind"
)

// Ref is a kind-tagged pointer to caller-owned storage.
// The referent must outlive every block built from the Ref.
type Ref struct {
	kind kind.Kind
	ptr  any
}

// RefTo wraps a pointer to a Go scalar.
func RefTo[T kind.Scalar](p *T) Ref {
	return Ref{kind: kind.Of[T](), ptr: p}
}

// NewRef allocates storage initialised to v and returns a Ref to it.
func NewRef(v Value) (Ref, error) {
	switch v.kind {
	case kind.Bool:
		return newRef[bool](v)
	case kind.U8:
		return newRef[uint8](v)
	case kind.S8:
		return newRef[int8](v)
	case kind.U16:
		return newRef[uint16](v)
	case kind.S16:
		return newRef[int16](v)
	case kind.U32:
		return newRef[uint32](v)
	case kind.S32:
		return newRef[int32](v)
	case kind.U64:
		return newRef[uint64](v)
	case kind.S64:
		return newRef[int64](v)
	case kind.F32:
		return newRef[float32](v)
	case kind.F64:
		return newRef[float64](v)
	}
	return Ref{}, errors.UnsupportedKind(errors.PhaseValue, "", v.kind.String())
}

func newRef[T kind.Scalar](v Value) (Ref, error) {
	x, err := Read[T](v)
	if err != nil {
		return Ref{}, err
	}
	return RefTo(&x), nil
}

// Kind returns the kind of the referent.
func (r Ref) Kind() kind.Kind { return r.kind }

// Deref returns the typed pointer. The kind must match T.
func Deref[T kind.Scalar](r Ref) (*T, error) {
	want := kind.Of[T]()
	if r.kind != want {
		return nil, errors.KindMismatch(errors.PhaseValue, want.String(), r.kind.String())
	}
	p, ok := r.ptr.(*T)
	if !ok || p == nil {
		return nil, errors.NullArgument(errors.PhaseValue, "reference")
	}
	return p, nil
}

// Load reads the referent into a Value.
func (r Ref) Load() (Value, error) {
	switch p := r.ptr.(type) {
	case *bool:
		return load(p)
	case *uint8:
		return load(p)
	case *int8:
		return load(p)
	case *uint16:
		return load(p)
	case *int16:
		return load(p)
	case *uint32:
		return load(p)
	case *int32:
		return load(p)
	case *uint64:
		return load(p)
	case *int64:
		return load(p)
	case *float32:
		return load(p)
	case *float64:
		return load(p)
	}
	return Value{}, errors.NullArgument(errors.PhaseValue, "reference")
}

// Store writes v through the reference. v must have the referent's kind.
func (r Ref) Store(v Value) error {
	switch p := r.ptr.(type) {
	case *bool:
		return store(p, v)
	case *uint8:
		return store(p, v)
	case *int8:
		return store(p, v)
	case *uint16:
		return store(p, v)
	case *int16:
		return store(p, v)
	case *uint32:
		return store(p, v)
	case *int32:
		return store(p, v)
	case *uint64:
		return store(p, v)
	case *int64:
		return store(p, v)
	case *float32:
		return store(p, v)
	case *float64:
		return store(p, v)
	}
	return errors.NullArgument(errors.PhaseValue, "reference")
}

func store[T kind.Scalar](p *T, v Value) error {
	if p == nil {
		return errors.NullArgument(errors.PhaseValue, "reference")
	}
	x, err := Read[T](v)
	if err != nil {
		return err
	}
	*p = x
	return nil
}

func load[T kind.Scalar](p *T) (Value, error) {
	if p == nil {
		return Value{}, errors.NullArgument(errors.PhaseValue, "reference")
	}
	return Of(*p), nil
}

func (r Ref) String() string {
	v, err := r.Load()
	if err != nil {
		return fmt.Sprintf("&%s(null)", r.kind)
	}
	return "&" + v.String()
}
