package wasmhost

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/teafis/ModelTea-stdlib/errors"
	"github.com/teafis/ModelTea-stdlib/ffi"
)

// ModuleName is the import module guests link the block functions from.
const ModuleName = "mtea"

var (
	i32 = api.ValueTypeI32
	f64 = api.ValueTypeF64
)

// Function is one host export.
type Function struct {
	Name        string
	Handler     api.GoModuleFunc
	ParamTypes  []api.ValueType
	ResultTypes []api.ValueType
}

// Instantiate registers the mtea host module in r, backed by lib.
func Instantiate(ctx context.Context, r wazero.Runtime, lib *ffi.Library) (api.Module, error) {
	if lib == nil {
		return nil, errors.NullArgument(errors.PhaseBoundary, "library")
	}
	builder := r.NewHostModuleBuilder(ModuleName)
	funcs := Functions(lib)
	for _, f := range funcs {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.Handler, f.ParamTypes, f.ResultTypes).
			Export(f.Name)
	}
	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseBoundary, errors.KindInvalidData, err, "instantiating host module")
	}
	Logger().Debug("host module instantiated",
		zap.String("module", ModuleName),
		zap.Int("functions", len(funcs)))
	return mod, nil
}

// Functions returns the host exports bound to lib, in export order.
func Functions(lib *ffi.Library) []Function {
	h := &host{lib: lib}
	return []Function{
		{"type_size", h.typeSize, []api.ValueType{i32}, []api.ValueType{i32}},
		{"info_init", h.infoInit, []api.ValueType{i32, i32}, []api.ValueType{i32}},
		{"last_error", h.lastError, []api.ValueType{i32, i32}, []api.ValueType{i32}},
		{"create", h.create, []api.ValueType{i32, i32, i32}, []api.ValueType{i32}},
		{"create_with_size", h.createWithSize, []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i32}},
		{"create_with_value", h.createWithValue, []api.ValueType{i32, i32, i32}, []api.ValueType{i32}},
		{"create_with_time_step", h.createWithTimeStep, []api.ValueType{i32, i32, i32, f64}, []api.ValueType{i32}},
		{"create_with_kinds", h.createWithKinds, []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i32}},
		{"destroy", h.handleOp("destroy", (*ffi.Library).Destroy), []api.ValueType{i32}, []api.ValueType{i32}},
		{"step", h.handleOp("step", (*ffi.Library).Step), []api.ValueType{i32}, []api.ValueType{i32}},
		{"reset", h.handleOp("reset", (*ffi.Library).Reset), []api.ValueType{i32}, []api.ValueType{i32}},
		{"set_input", h.setInput, []api.ValueType{i32, i32, i32}, []api.ValueType{i32}},
		{"get_output", h.getOutput, []api.ValueType{i32, i32, i32}, []api.ValueType{i32}},
		{"get_num_inputs", h.count("get_num_inputs", (*ffi.Library).NumInputs), []api.ValueType{i32, i32}, []api.ValueType{i32}},
		{"get_num_outputs", h.count("get_num_outputs", (*ffi.Library).NumOutputs), []api.ValueType{i32, i32}, []api.ValueType{i32}},
		{"get_input_type", h.portKind("get_input_type", (*ffi.Library).InputType), []api.ValueType{i32, i32, i32}, []api.ValueType{i32}},
		{"get_output_type", h.portKind("get_output_type", (*ffi.Library).OutputType), []api.ValueType{i32, i32, i32}, []api.ValueType{i32}},
		{"get_class_name", h.name("get_class_name", (*ffi.Library).ClassName), []api.ValueType{i32, i32, i32}, []api.ValueType{i32}},
		{"get_full_name", h.name("get_full_name", (*ffi.Library).FullName), []api.ValueType{i32, i32, i32}, []api.ValueType{i32}},
		{"get_input_name", h.portName("get_input_name", (*ffi.Library).InputName), []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i32}},
		{"get_output_name", h.portName("get_output_name", (*ffi.Library).OutputName), []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i32}},
	}
}

type host struct {
	lib *ffi.Library
}

func u32(x uint64) uint32 { return api.DecodeU32(x) }

func boolResult(ok bool) uint64 {
	if ok {
		return 1
	}
	return 0
}

func (h *host) typeSize(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = uint64(ffi.TypeSize(u32(stack[0])))
}

// infoInit writes the catalog into the guest buffer. It returns bytes
// written, or the negated required size when the buffer is too small.
func (h *host) infoInit(_ context.Context, mod api.Module, stack []uint64) {
	ptr, capacity := u32(stack[0]), u32(stack[1])
	var n int32
	h.lib.Guard("info_init", func() error {
		mem, err := memoryOf(mod)
		if err != nil {
			return err
		}
		info := h.lib.InfoInit()
		defer h.lib.InfoDestroy(info)
		buf := encodeInfo(info, ptr)
		if uint32(len(buf)) > capacity {
			n = -int32(len(buf))
			return nil
		}
		if err := mem.Write(ptr, buf); err != nil {
			return err
		}
		n = int32(len(buf))
		return nil
	})
	stack[0] = api.EncodeI32(n)
}

// lastError copies the last failure message. It returns its length, or the
// negated required size when the buffer is too small.
func (h *host) lastError(_ context.Context, mod api.Module, stack []uint64) {
	ptr, capacity := u32(stack[0]), u32(stack[1])
	msg := h.lib.LastError()
	var n int32
	h.lib.Guard("last_error", func() error {
		mem, err := memoryOf(mod)
		if err != nil {
			return err
		}
		n, err = writeCString(mem, ptr, capacity, msg)
		return err
	})
	stack[0] = api.EncodeI32(n)
}

// created runs a create call after reading the family name from the guest.
func (h *host) created(op string, mod api.Module, stack []uint64, create func(name string, mem *Memory) (ffi.Creation, error)) {
	var block ffi.Handle
	h.lib.Guard(op, func() error {
		mem, err := memoryOf(mod)
		if err != nil {
			return err
		}
		name, err := readString(mem, u32(stack[0]), u32(stack[1]))
		if err != nil {
			return err
		}
		c, err := create(name, mem)
		block = c.Block
		return err
	})
	stack[0] = uint64(block)
}

func (h *host) create(_ context.Context, mod api.Module, stack []uint64) {
	k := u32(stack[2])
	h.created("create", mod, stack, func(name string, _ *Memory) (ffi.Creation, error) {
		return h.lib.Create(name, k), nil
	})
}

func (h *host) createWithSize(_ context.Context, mod api.Module, stack []uint64) {
	k, size := u32(stack[2]), u32(stack[3])
	h.created("create_with_size", mod, stack, func(name string, _ *Memory) (ffi.Creation, error) {
		return h.lib.CreateWithSize(name, k, size), nil
	})
}

func (h *host) createWithValue(_ context.Context, mod api.Module, stack []uint64) {
	ptr := u32(stack[2])
	h.created("create_with_value", mod, stack, func(name string, mem *Memory) (ffi.Creation, error) {
		v, _, err := readValue(mem, ptr)
		if err != nil {
			return ffi.Creation{}, err
		}
		return h.lib.CreateWithValue(name, v), nil
	})
}

func (h *host) createWithTimeStep(_ context.Context, mod api.Module, stack []uint64) {
	k, dt := u32(stack[2]), api.DecodeF64(stack[3])
	h.created("create_with_time_step", mod, stack, func(name string, _ *Memory) (ffi.Creation, error) {
		return h.lib.CreateWithTimeStep(name, k, dt), nil
	})
}

func (h *host) createWithKinds(_ context.Context, mod api.Module, stack []uint64) {
	k1, k2 := u32(stack[2]), u32(stack[3])
	h.created("create_with_kinds", mod, stack, func(name string, _ *Memory) (ffi.Creation, error) {
		return h.lib.CreateWithKinds(name, k1, k2), nil
	})
}

func (h *host) handleOp(op string, fn func(*ffi.Library, ffi.Handle) bool) api.GoModuleFunc {
	return func(_ context.Context, _ api.Module, stack []uint64) {
		var ok bool
		h.lib.Guard(op, func() error {
			ok = fn(h.lib, ffi.Handle(u32(stack[0])))
			return nil
		})
		stack[0] = boolResult(ok)
	}
}

func (h *host) setInput(_ context.Context, mod api.Module, stack []uint64) {
	b, port, ptr := ffi.Handle(u32(stack[0])), u32(stack[1]), u32(stack[2])
	var ok bool
	h.lib.Guard("set_input", func() error {
		mem, err := memoryOf(mod)
		if err != nil {
			return err
		}
		v, _, err := readValue(mem, ptr)
		if err != nil {
			return err
		}
		ok = h.lib.SetInput(b, port, v)
		return nil
	})
	stack[0] = boolResult(ok)
}

// getOutput writes the payload back to guest memory only on success.
func (h *host) getOutput(_ context.Context, mod api.Module, stack []uint64) {
	b, port, ptr := ffi.Handle(u32(stack[0])), u32(stack[1]), u32(stack[2])
	var ok bool
	h.lib.Guard("get_output", func() error {
		mem, err := memoryOf(mod)
		if err != nil {
			return err
		}
		v, hdr, err := readValue(mem, ptr)
		if err != nil {
			return err
		}
		if !h.lib.GetOutput(b, port, v) {
			return nil
		}
		if err := mem.Write(hdr.data, v.Data[:v.Size]); err != nil {
			return err
		}
		ok = true
		return nil
	})
	stack[0] = boolResult(ok)
}

func (h *host) count(op string, fn func(*ffi.Library, ffi.Handle, *uint32) bool) api.GoModuleFunc {
	return func(_ context.Context, mod api.Module, stack []uint64) {
		b, out := ffi.Handle(u32(stack[0])), u32(stack[1])
		var ok bool
		h.lib.Guard(op, func() error {
			mem, err := memoryOf(mod)
			if err != nil {
				return err
			}
			var n uint32
			if !fn(h.lib, b, &n) {
				return nil
			}
			if err := mem.WriteU32(out, n); err != nil {
				return err
			}
			ok = true
			return nil
		})
		stack[0] = boolResult(ok)
	}
}

func (h *host) portKind(op string, fn func(*ffi.Library, ffi.Handle, uint32, *uint32) bool) api.GoModuleFunc {
	return func(_ context.Context, mod api.Module, stack []uint64) {
		b, port, out := ffi.Handle(u32(stack[0])), u32(stack[1]), u32(stack[2])
		var ok bool
		h.lib.Guard(op, func() error {
			mem, err := memoryOf(mod)
			if err != nil {
				return err
			}
			var k uint32
			if !fn(h.lib, b, port, &k) {
				return nil
			}
			if err := mem.WriteU32(out, k); err != nil {
				return err
			}
			ok = true
			return nil
		})
		stack[0] = boolResult(ok)
	}
}

func (h *host) name(op string, fn func(*ffi.Library, ffi.Handle, []byte) int32) api.GoModuleFunc {
	return func(_ context.Context, mod api.Module, stack []uint64) {
		b, ptr, capacity := ffi.Handle(u32(stack[0])), u32(stack[1]), u32(stack[2])
		stack[0] = api.EncodeI32(h.copyName(op, mod, ptr, capacity, func(buf []byte) int32 {
			return fn(h.lib, b, buf)
		}))
	}
}

func (h *host) portName(op string, fn func(*ffi.Library, ffi.Handle, uint32, []byte) int32) api.GoModuleFunc {
	return func(_ context.Context, mod api.Module, stack []uint64) {
		b, port, ptr, capacity := ffi.Handle(u32(stack[0])), u32(stack[1]), u32(stack[2]), u32(stack[3])
		stack[0] = api.EncodeI32(h.copyName(op, mod, ptr, capacity, func(buf []byte) int32 {
			return fn(h.lib, b, port, buf)
		}))
	}
}

// copyName fills a scratch buffer through get and copies the result, NUL
// included, into the guest buffer.
func (h *host) copyName(op string, mod api.Module, ptr, capacity uint32, get func([]byte) int32) int32 {
	var n int32
	h.lib.Guard(op, func() error {
		mem, err := memoryOf(mod)
		if err != nil {
			return err
		}
		buf := make([]byte, min(capacity, maxName))
		got := get(buf)
		if got == 0 {
			return nil
		}
		if err := mem.Write(ptr, buf[:got+1]); err != nil {
			return err
		}
		n = got
		return nil
	})
	return n
}
