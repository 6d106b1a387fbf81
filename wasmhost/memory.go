package wasmhost

import (
	"bytes"

	"github.com/tetratelabs/wazero/api"

	modeltea "github.com/teafis/ModelTea-stdlib"
	"github.com/teafis/ModelTea-stdlib/errors"
)

// Memory wraps a guest's linear memory. Out-of-range accesses are errors.
type Memory struct {
	mem api.Memory
}

// NewMemory wraps mem.
func NewMemory(mem api.Memory) *Memory {
	return &Memory{mem: mem}
}

// memoryOf returns the linear memory of the calling module.
func memoryOf(mod api.Module) (*Memory, error) {
	if mod == nil || mod.Memory() == nil {
		return nil, errors.NullArgument(errors.PhaseBoundary, "guest memory")
	}
	return NewMemory(mod.Memory()), nil
}

// Read returns a copy of length bytes at offset.
func (m *Memory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.InvalidMemory(offset, length)
	}
	return bytes.Clone(data), nil
}

func (m *Memory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.InvalidMemory(offset, uint32(len(data)))
	}
	return nil
}

func (m *Memory) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, errors.InvalidMemory(offset, 4)
	}
	return v, nil
}

func (m *Memory) ReadU64(offset uint32) (uint64, error) {
	v, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, errors.InvalidMemory(offset, 8)
	}
	return v, nil
}

func (m *Memory) WriteU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return errors.InvalidMemory(offset, 4)
	}
	return nil
}

func (m *Memory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

var (
	_ modeltea.Memory      = (*Memory)(nil)
	_ modeltea.MemorySizer = (*Memory)(nil)
)
