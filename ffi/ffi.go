package ffi

import (
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/teafis/ModelTea-stdlib/block"
	"github.com/teafis/ModelTea-stdlib/catalog"
	"github.com/teafis/ModelTea-stdlib/errors"
	"github.com/teafis/ModelTea-stdlib/kind"
	"github.com/teafis/ModelTea-stdlib/resource"
	"github.com/teafis/ModelTea-stdlib/value"
)

// Library is the boundary surface over a catalog.
//
// Every entry point converts errors into a null handle, false, or 0 and
// records the message for LastError. Panics never cross an entry point.
// Blocks are not synchronized: callers own each handle exclusively.
type Library struct {
	catalog *catalog.Catalog
	blocks  *resource.Table[block.Block]

	mu      sync.Mutex
	lastErr string
}

// New creates a library over cat, or over the default catalog when cat is nil.
func New(cat *catalog.Catalog) *Library {
	if cat == nil {
		cat = catalog.Default()
	}
	l := &Library{
		catalog: cat,
		blocks:  resource.NewTable[block.Block](),
	}
	l.blocks.Subscribe(resource.ObserverFunc[block.Block](func(e resource.Event[block.Block]) {
		Logger().Debug("block "+e.Type.String(),
			zap.Uint32("handle", uint32(e.Handle)),
			zap.String("class", e.Value.ClassName()))
	}))
	return l
}

// Subscribe registers o for block created and dropped events.
func (l *Library) Subscribe(o resource.Observer[block.Block]) {
	l.blocks.Subscribe(o)
}

// Catalog returns the catalog the library creates blocks from.
func (l *Library) Catalog() *catalog.Catalog {
	return l.catalog
}

// Len returns the number of live blocks.
func (l *Library) Len() int {
	return l.blocks.Len()
}

// Close destroys every live block.
func (l *Library) Close() error {
	return l.blocks.Close()
}

// LastError returns the message of the most recent failure, or "".
func (l *Library) LastError() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

func (l *Library) setError(msg string) {
	l.mu.Lock()
	l.lastErr = msg
	l.mu.Unlock()
}

// call runs fn, converting a returned error or a panic into a failure.
func (l *Library) call(op string, h Handle, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.New(errors.PhaseBoundary, errors.KindInvalidData).
				Value(r).
				Detail("panic in %s: %v", op, r).
				Build()
			Logger().Error("recovered panic",
				zap.String("op", op),
				zap.Uint32("handle", uint32(h)),
				zap.Any("panic", r),
				zap.Stack("stack"))
			l.setError(err.Error())
			ok = false
		}
	}()

	if err := fn(); err != nil {
		Logger().Debug("call failed",
			zap.String("op", op),
			zap.Uint32("handle", uint32(h)),
			zap.Error(err))
		l.setError(err.Error())
		return false
	}
	return true
}

// Guard runs fn with entry-point failure handling: an error or panic is
// logged, recorded for LastError, and reported as false.
func (l *Library) Guard(op string, fn func() error) bool {
	return l.call(op, 0, fn)
}

func (l *Library) block(h Handle) (block.Block, error) {
	b, ok := l.blocks.Get(h)
	if !ok {
		return nil, errors.InvalidHandle(uint32(h))
	}
	return b, nil
}

// InfoInit returns the catalog as a linked list, in catalog order.
func (l *Library) InfoInit() *Info {
	var head *Info
	l.call("info_init", 0, func() error {
		families := l.catalog.Families()
		infos := make([]Info, len(families))
		for i, f := range families {
			infos[i] = Info{
				Name:        f.Name,
				SubName:     f.SubName(),
				CreateFlags: int32(f.Shape),
				TypeFlags:   int32(f.Types),
			}
			if i > 0 {
				infos[i-1].Next = &infos[i]
			}
		}
		if len(infos) > 0 {
			head = &infos[0]
		}
		return nil
	})
	return head
}

// InfoDestroy releases a list returned by InfoInit. It returns 0 on success
// and -1 for a nil list.
func (l *Library) InfoDestroy(info *Info) int32 {
	ok := l.call("info_destroy", 0, func() error {
		if info == nil {
			return errors.NullArgument(errors.PhaseBoundary, "info")
		}
		for info != nil {
			next := info.Next
			info.Next = nil
			info = next
		}
		return nil
	})
	if !ok {
		return -1
	}
	return 0
}

// TypeSize returns the canonical byte width of a kind, 0 for unknown kinds.
func (l *Library) TypeSize(k uint32) uint32 {
	return TypeSize(k)
}

func (l *Library) create(op, name string, kinds []kind.Kind, arg value.Argument) Creation {
	var res Creation
	l.call(op, 0, func() error {
		b, err := l.catalog.Create(name, kinds, arg)
		if err != nil {
			return err
		}
		h, err := l.blocks.Insert(b)
		if err != nil {
			return errors.Wrap(errors.PhaseBoundary, errors.KindInvalidHandle, err, "storing block")
		}
		res.Block = h
		return nil
	})
	if res.Block == 0 {
		res.Err = l.LastError()
	}
	return res
}

// Create builds a block of a family that takes no argument.
func (l *Library) Create(name string, k uint32) Creation {
	return l.create("create", name, []kind.Kind{kind.Kind(k)}, nil)
}

// CreateWithSize builds a block of a size-shaped family, such as an n-ary arithmetic block.
func (l *Library) CreateWithSize(name string, k uint32, size uint32) Creation {
	return l.create("create_with_size", name, []kind.Kind{kind.Kind(k)}, value.Of(size))
}

// CreateWithValue builds a block whose argument is v, such as a constant.
// The block kind is v's kind.
func (l *Library) CreateWithValue(name string, v *Value) Creation {
	var (
		val value.Value
		err error
	)
	ok := l.call("create_with_value", 0, func() error {
		val, err = v.erase()
		return err
	})
	if !ok {
		return Creation{Err: l.LastError()}
	}
	return l.create("create_with_value", name, []kind.Kind{val.Kind()}, val)
}

// CreateWithTimeStep builds a block of a time-step family. dt is converted to
// the block kind and rejected when the kind cannot represent it: integral
// kinds need an exact whole number in range, floating kinds a finite result.
func (l *Library) CreateWithTimeStep(name string, k uint32, dt float64) Creation {
	arg := value.Of(dt)
	if bk := kind.Kind(k); bk.Valid() {
		ok := l.call("create_with_time_step", 0, func() error {
			v, err := timeStep(dt, bk)
			arg = v
			return err
		})
		if !ok {
			return Creation{Err: l.LastError()}
		}
	}
	return l.create("create_with_time_step", name, []kind.Kind{kind.Kind(k)}, arg)
}

func timeStep(dt float64, k kind.Kind) (value.Value, error) {
	v, err := value.Convert(value.Of(dt), k)
	if err != nil {
		return value.Value{}, err
	}
	back, err := value.Convert(v, kind.F64)
	if err != nil {
		return value.Value{}, err
	}
	got, err := value.Read[float64](back)
	if err != nil {
		return value.Value{}, err
	}
	exact := got == dt
	if k.Category() == kind.Floating {
		exact = !math.IsInf(got, 0) || math.IsInf(dt, 0)
	}
	if !exact {
		return value.Value{}, errors.New(errors.PhaseBoundary, errors.KindUnsupportedConversion).
			Path("dt").
			Expected(k.String()).
			Actual("f64").
			Value(dt).
			Detail("time step %v is not representable as %s", dt, k).
			Build()
	}
	return v, nil
}

// CreateWithKinds builds a block that takes several kinds, such as a conversion.
func (l *Library) CreateWithKinds(name string, kinds ...uint32) Creation {
	ks := make([]kind.Kind, len(kinds))
	for i, k := range kinds {
		ks[i] = kind.Kind(k)
	}
	return l.create("create_with_kinds", name, ks, nil)
}

// Destroy releases a block. Destroying the null or a stale handle is a no-op failure.
func (l *Library) Destroy(h Handle) bool {
	return l.call("destroy", h, func() error {
		if _, ok := l.blocks.Remove(h); !ok {
			return errors.InvalidHandle(uint32(h))
		}
		return nil
	})
}

// Step advances a block by one tick.
func (l *Library) Step(h Handle) bool {
	return l.call("step", h, func() error {
		b, err := l.block(h)
		if err != nil {
			return err
		}
		b.Step()
		return nil
	})
}

// Reset returns a block to its initial state.
func (l *Library) Reset(h Handle) bool {
	return l.call("reset", h, func() error {
		b, err := l.block(h)
		if err != nil {
			return err
		}
		b.Reset()
		return nil
	})
}

// SetInput stores v on an input port. v is validated before any payload byte is read.
func (l *Library) SetInput(h Handle, port uint32, v *Value) bool {
	return l.call("set_input", h, func() error {
		b, err := l.block(h)
		if err != nil {
			return err
		}
		val, err := v.erase()
		if err != nil {
			return err
		}
		return b.SetInput(int(port), val)
	})
}

// GetOutput copies an output port into v. v.Data is written only on success.
func (l *Library) GetOutput(h Handle, port uint32, v *Value) bool {
	return l.call("get_output", h, func() error {
		b, err := l.block(h)
		if err != nil {
			return err
		}
		if err := v.check(); err != nil {
			return err
		}
		out := value.Zero(kind.Kind(v.Kind))
		if err := b.GetOutput(int(port), &out); err != nil {
			return err
		}
		copy(v.Data[:v.Size], out.Bytes())
		return nil
	})
}

// NumInputs writes the number of input ports to n.
func (l *Library) NumInputs(h Handle, n *uint32) bool {
	return l.count("get_num_inputs", h, n, block.Block.Inputs)
}

// NumOutputs writes the number of output ports to n.
func (l *Library) NumOutputs(h Handle, n *uint32) bool {
	return l.count("get_num_outputs", h, n, block.Block.Outputs)
}

func (l *Library) count(op string, h Handle, n *uint32, ports func(block.Block) []block.Port) bool {
	return l.call(op, h, func() error {
		if n == nil {
			return errors.NullArgument(errors.PhaseBoundary, "count")
		}
		b, err := l.block(h)
		if err != nil {
			return err
		}
		*n = uint32(len(ports(b)))
		return nil
	})
}

// InputType writes the kind of an input port to k.
func (l *Library) InputType(h Handle, port uint32, k *uint32) bool {
	return l.portKind("get_input_type", "input", h, port, k, block.Block.Inputs)
}

// OutputType writes the kind of an output port to k.
func (l *Library) OutputType(h Handle, port uint32, k *uint32) bool {
	return l.portKind("get_output_type", "output", h, port, k, block.Block.Outputs)
}

func (l *Library) portKind(op, dir string, h Handle, port uint32, k *uint32, ports func(block.Block) []block.Port) bool {
	return l.call(op, h, func() error {
		if k == nil {
			return errors.NullArgument(errors.PhaseBoundary, "kind")
		}
		b, err := l.block(h)
		if err != nil {
			return err
		}
		ps := ports(b)
		if int64(port) >= int64(len(ps)) {
			return errors.PortOutOfRange(b.ClassName(), dir, int(port), len(ps))
		}
		*k = uint32(ps[port].Kind)
		return nil
	})
}

// ClassName copies the NUL-terminated class name into buf.
// It returns the name length, or 0 when the handle is invalid or buf is too small.
func (l *Library) ClassName(h Handle, buf []byte) int32 {
	return l.name("get_class_name", h, buf, func(b block.Block) (string, error) {
		return b.ClassName(), nil
	})
}

// FullName copies the NUL-terminated namespaced class name into buf, with ClassName's results.
func (l *Library) FullName(h Handle, buf []byte) int32 {
	return l.name("get_full_name", h, buf, func(b block.Block) (string, error) {
		return block.FullName(b), nil
	})
}

// InputName copies the name of an input port into buf, with ClassName's results.
func (l *Library) InputName(h Handle, port uint32, buf []byte) int32 {
	return l.name("get_input_name", h, buf, func(b block.Block) (string, error) {
		return portName(b, "input", port, b.Inputs())
	})
}

// OutputName copies the name of an output port into buf, with ClassName's results.
func (l *Library) OutputName(h Handle, port uint32, buf []byte) int32 {
	return l.name("get_output_name", h, buf, func(b block.Block) (string, error) {
		return portName(b, "output", port, b.Outputs())
	})
}

func portName(b block.Block, dir string, port uint32, ps []block.Port) (string, error) {
	if int64(port) >= int64(len(ps)) {
		return "", errors.PortOutOfRange(b.ClassName(), dir, int(port), len(ps))
	}
	return ps[port].Name, nil
}

func (l *Library) name(op string, h Handle, buf []byte, get func(block.Block) (string, error)) int32 {
	var n int32
	l.call(op, h, func() error {
		b, err := l.block(h)
		if err != nil {
			return err
		}
		s, err := get(b)
		if err != nil {
			return err
		}
		if len(s)+1 > len(buf) {
			return errors.New(errors.PhaseBoundary, errors.KindInvalidMemory).
				Block(b.ClassName()).
				Expected(fmt.Sprintf("%d bytes", len(s)+1)).
				Actual(fmt.Sprintf("%d bytes", len(buf))).
				Detail("name buffer too small").
				Build()
		}
		copy(buf, s)
		buf[len(s)] = 0
		n = int32(len(s))
		return nil
	})
	return n
}
