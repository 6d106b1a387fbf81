package wasmhost

import (
	"encoding/binary"
	"fmt"

	modeltea "github.com/teafis/ModelTea-stdlib"
	"github.com/teafis/ModelTea-stdlib/errors"
	"github.com/teafis/ModelTea-stdlib/ffi"
)

// Wire sizes of the guest-side structures.
const (
	ValueSize = 12 // {kind u32, size u32, data u32}
	InfoSize  = 20 // {name u32, sub_name u32, create_flags i32, type_flags i32, next u32}
)

// maxName bounds the scratch buffer for name queries.
const maxName = 1 << 10

// valueHeader is a guest Value with its payload still in guest memory.
type valueHeader struct {
	kind uint32
	size uint32
	data uint32
}

func readHeader(mem modeltea.Memory, ptr uint32) (valueHeader, error) {
	raw, err := mem.Read(ptr, ValueSize)
	if err != nil {
		return valueHeader{}, err
	}
	return valueHeader{
		kind: binary.LittleEndian.Uint32(raw[0:]),
		size: binary.LittleEndian.Uint32(raw[4:]),
		data: binary.LittleEndian.Uint32(raw[8:]),
	}, nil
}

// readValue loads a guest Value. The payload is read only when the declared
// size matches the kind, so a bad header never reaches past the payload.
func readValue(mem modeltea.Memory, ptr uint32) (*ffi.Value, valueHeader, error) {
	h, err := readHeader(mem, ptr)
	if err != nil {
		return nil, h, err
	}
	v := &ffi.Value{Kind: h.kind, Size: h.size}
	if h.size != ffi.TypeSize(h.kind) {
		return v, h, nil
	}
	v.Data, err = mem.Read(h.data, h.size)
	if err != nil {
		return nil, h, err
	}
	return v, h, nil
}

func readString(mem modeltea.Memory, ptr, length uint32) (string, error) {
	raw, err := mem.Read(ptr, length)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// writeCString writes s and a NUL into the guest buffer at ptr.
// It returns len(s), or the negated required size when capacity is too small.
func writeCString(mem modeltea.Memory, ptr, capacity uint32, s string) (int32, error) {
	need := uint32(len(s)) + 1
	if capacity < need {
		return -int32(need), nil
	}
	buf := make([]byte, need)
	copy(buf, s)
	if err := mem.Write(ptr, buf); err != nil {
		return 0, err
	}
	return int32(len(s)), nil
}

// encodeInfo lays out the info list at base: the entries first, then the
// NUL-terminated strings. Pointers are absolute guest offsets.
func encodeInfo(head *ffi.Info, base uint32) []byte {
	n := 0
	strs := 0
	for i := head; i != nil; i = i.Next {
		n++
		strs += len(i.Name) + 1 + len(i.SubName) + 1
	}

	buf := make([]byte, n*InfoSize+strs)
	str := uint32(n * InfoSize)
	put := func(s string) uint32 {
		at := str
		copy(buf[at:], s)
		str += uint32(len(s)) + 1
		return base + at
	}

	idx := 0
	for i := head; i != nil; i = i.Next {
		off := idx * InfoSize
		binary.LittleEndian.PutUint32(buf[off:], put(i.Name))
		binary.LittleEndian.PutUint32(buf[off+4:], put(i.SubName))
		binary.LittleEndian.PutUint32(buf[off+8:], uint32(i.CreateFlags))
		binary.LittleEndian.PutUint32(buf[off+12:], uint32(i.TypeFlags))
		var next uint32
		if i.Next != nil {
			next = base + uint32((idx+1)*InfoSize)
		}
		binary.LittleEndian.PutUint32(buf[off+16:], next)
		idx++
	}
	return buf
}

// DecodeInfo reads an info list written by info_init back from guest memory.
func DecodeInfo(mem modeltea.Memory, ptr uint32) ([]ffi.Info, error) {
	var out []ffi.Info
	for ptr != 0 {
		raw, err := mem.Read(ptr, InfoSize)
		if err != nil {
			return nil, err
		}
		name, err := readCString(mem, binary.LittleEndian.Uint32(raw[0:]))
		if err != nil {
			return nil, err
		}
		sub, err := readCString(mem, binary.LittleEndian.Uint32(raw[4:]))
		if err != nil {
			return nil, err
		}
		out = append(out, ffi.Info{
			Name:        name,
			SubName:     sub,
			CreateFlags: int32(binary.LittleEndian.Uint32(raw[8:])),
			TypeFlags:   int32(binary.LittleEndian.Uint32(raw[12:])),
		})
		ptr = binary.LittleEndian.Uint32(raw[16:])
		if len(out) > 1<<16 {
			return nil, errors.InvalidData(errors.PhaseBoundary, []string{"info"}, "info list does not terminate")
		}
	}
	for i := range out[:max(len(out)-1, 0)] {
		out[i].Next = &out[i+1]
	}
	return out, nil
}

func readCString(mem modeltea.Memory, ptr uint32) (string, error) {
	var s []byte
	for {
		b, err := mem.Read(ptr, 1)
		if err != nil {
			return "", err
		}
		if b[0] == 0 {
			return string(s), nil
		}
		s = append(s, b[0])
		ptr++
		if len(s) > maxName {
			return "", errors.InvalidData(errors.PhaseBoundary, []string{"info", "name"},
				fmt.Sprintf("string at %d exceeds %d bytes", ptr, maxName))
		}
	}
}
