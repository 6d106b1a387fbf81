package block

import (
	"fmt"
	"slices"

	"github.com/teafis/ModelTea-stdlib/errors"
	"github.com/teafis/ModelTea-stdlib/kind"
	"github.com/teafis/ModelTea-stdlib/value"
)

// Namespace prefixes full block names.
const Namespace = "mtea"

// Block is a stateful computation unit behind a kind-erased interface.
//
// SetInput stores a value for use by the next Step or Reset; it never
// recomputes outputs. GetOutput copies the most recently computed output
// into out, whose kind must match the port.
type Block interface {
	Family() string
	Kind() kind.Kind
	ClassName() string
	Inputs() []Port
	Outputs() []Port
	SetInput(port int, v value.Value) error
	GetOutput(port int, out *value.Value) error
	Step()
	Reset()
	DelayedOutputs() bool
}

// Port describes one input or output.
// Settable ports take their kind from the block's kind; the rest are fixed.
type Port struct {
	Name     string
	Kind     kind.Kind
	Settable bool
}

// Output reads output port into a freshly allocated value.
func Output(b Block, port int) (value.Value, error) {
	k := OutputKind(b, port)
	if k == kind.None {
		return value.Value{}, errors.PortOutOfRange(b.ClassName(), "output", port, len(b.Outputs()))
	}
	out := value.Zero(k)
	if err := b.GetOutput(port, &out); err != nil {
		return value.Value{}, err
	}
	return out, nil
}

// InputKind returns the kind of an input port, or kind.None past the last port.
func InputKind(b Block, port int) kind.Kind {
	return portKind(b.Inputs(), port)
}

// OutputKind returns the kind of an output port, or kind.None past the last port.
func OutputKind(b Block, port int) kind.Kind {
	return portKind(b.Outputs(), port)
}

func portKind(ports []Port, port int) kind.Kind {
	if port < 0 || port >= len(ports) {
		return kind.None
	}
	return ports[port].Kind
}

// FullName returns the namespaced class name.
func FullName(b Block) string {
	return Namespace + "::" + b.ClassName()
}

// base carries identity and port layout shared by every block.
type base struct {
	family string
	kind   kind.Kind
	class  string
	in     []Port
	out    []Port
}

func newBase(family string, k kind.Kind, class string, in, out []Port) base {
	return base{family: family, kind: k, class: class, in: in, out: out}
}

func (b *base) Family() string { return b.family }
func (b *base) Kind() kind.Kind { return b.kind }
func (b *base) ClassName() string { return b.class }
func (b *base) Inputs() []Port { return slices.Clone(b.in) }
func (b *base) Outputs() []Port { return slices.Clone(b.out) }
func (b *base) DelayedOutputs() bool { return false }

func (b *base) checkInput(port int, v value.Value) error {
	if port < 0 || port >= len(b.in) {
		return errors.PortOutOfRange(b.class, "input", port, len(b.in))
	}
	return b.checkKind("input", port, b.in[port].Kind, v)
}

func (b *base) checkOutput(port int, out *value.Value) error {
	if port < 0 || port >= len(b.out) {
		return errors.PortOutOfRange(b.class, "output", port, len(b.out))
	}
	if out == nil {
		return errors.NullArgument(errors.PhasePort, "output value")
	}
	return b.checkKind("output", port, b.out[port].Kind, *out)
}

func (b *base) checkKind(dir string, port int, want kind.Kind, v value.Value) error {
	if v.IsNull() {
		return errors.New(errors.PhasePort, errors.KindNullArgument).
			Block(b.class).
			Path(fmt.Sprintf("%s[%d]", dir, port)).
			Detail("value payload is null").
			Build()
	}
	if v.Kind() != want || v.Width() != want.Width() {
		return errors.New(errors.PhasePort, errors.KindKindMismatch).
			Block(b.class).
			Path(fmt.Sprintf("%s[%d]", dir, port)).
			Expected(want.String()).
			Actual(v.Kind().String()).
			Build()
	}
	return nil
}

// store validates an input and decodes it into dst.
func store[T kind.Scalar](b *base, port int, v value.Value, dst *T) error {
	if err := b.checkInput(port, v); err != nil {
		return err
	}
	x, err := value.Read[T](v)
	if err != nil {
		return err
	}
	*dst = x
	return nil
}

// load validates an output destination and writes x into it.
func load[T kind.Scalar](b *base, port int, out *value.Value, x T) error {
	if err := b.checkOutput(port, out); err != nil {
		return err
	}
	return value.Write(out, x)
}

func className(family string, k kind.Kind, extra ...any) string {
	s := family + "<" + k.String()
	for _, e := range extra {
		s += fmt.Sprintf(", %v", e)
	}
	return s + ">"
}

func typedPort(name string, k kind.Kind) Port {
	return Port{Name: name, Kind: k, Settable: true}
}

func flagPort(name string) Port {
	return Port{Name: name, Kind: kind.Bool}
}
