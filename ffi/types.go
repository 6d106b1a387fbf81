package ffi

import (
	"fmt"

	"github.com/teafis/ModelTea-stdlib/errors"
	"github.com/teafis/ModelTea-stdlib/kind"
	"github.com/teafis/ModelTea-stdlib/resource"
	"github.com/teafis/ModelTea-stdlib/value"
)

// Handle is an opaque block reference. 0 is the null handle.
type Handle = resource.Handle

// Value is the boundary form of an erased value.
// Size must equal TypeSize(Kind) and Data must hold at least Size bytes.
type Value struct {
	Kind uint32
	Size uint32
	Data []byte
}

// Info describes one catalog family. Entries form a linked list through Next.
type Info struct {
	Name        string
	SubName     string
	CreateFlags int32
	TypeFlags   int32
	Next        *Info
}

// Creation is the result of a create call: a live handle, or the null handle and an error message.
type Creation struct {
	Block Handle
	Err   string
}

// OK reports whether the creation produced a block.
func (c Creation) OK() bool {
	return c.Block != 0
}

// TypeSize returns the canonical byte width of a kind, 0 for unknown kinds.
func TypeSize(k uint32) uint32 {
	return kind.Kind(k).Width()
}

// NewValue allocates a boundary value of the given kind with a zeroed payload.
func NewValue(k uint32) *Value {
	size := TypeSize(k)
	return &Value{Kind: k, Size: size, Data: make([]byte, size)}
}

// FromValue converts an erased value to its boundary form.
func FromValue(v value.Value) *Value {
	return &Value{Kind: uint32(v.Kind()), Size: v.Width(), Data: v.Bytes()}
}

// check validates the declared size against the kind and the buffer.
func (v *Value) check() error {
	if v == nil {
		return errors.NullArgument(errors.PhaseBoundary, "value")
	}
	k := kind.Kind(v.Kind)
	if !k.Valid() {
		return errors.UnsupportedKind(errors.PhaseBoundary, "", fmt.Sprintf("kind(%d)", v.Kind))
	}
	if v.Size != k.Width() {
		return errors.New(errors.PhaseBoundary, errors.KindKindMismatch).
			Expected(fmt.Sprintf("%s (%d bytes)", k, k.Width())).
			Actual(fmt.Sprintf("%d bytes", v.Size)).
			Detail("declared size does not match kind").
			Build()
	}
	if v.Data == nil {
		return errors.NullArgument(errors.PhaseBoundary, "value data")
	}
	if uint32(len(v.Data)) < v.Size {
		return errors.New(errors.PhaseBoundary, errors.KindInvalidMemory).
			Expected(fmt.Sprintf("%d bytes", v.Size)).
			Actual(fmt.Sprintf("%d bytes", len(v.Data))).
			Detail("data buffer shorter than declared size").
			Build()
	}
	return nil
}

// erase validates v and copies it into an erased value.
func (v *Value) erase() (value.Value, error) {
	if err := v.check(); err != nil {
		return value.Value{}, err
	}
	return value.Make(kind.Kind(v.Kind), v.Data[:v.Size])
}
