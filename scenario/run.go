package scenario

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/teafis/ModelTea-stdlib/block"
	"github.com/teafis/ModelTea-stdlib/catalog"
	"github.com/teafis/ModelTea-stdlib/errors"
	"github.com/teafis/ModelTea-stdlib/kind"
	"github.com/teafis/ModelTea-stdlib/value"
)

// Result is the trace of a scenario run.
type Result struct {
	Name       string
	Class      string
	Ticks      []TickResult
	Mismatches []Mismatch
}

// TickResult records every output after a tick's action.
type TickResult struct {
	Index   int
	Action  Action
	Outputs []Output
}

// Output is one output port's value after a tick.
type Output struct {
	Port  string
	Value value.Value
}

// Mismatch is an expectation that did not hold.
type Mismatch struct {
	Tick     int
	Port     string
	Expected string
	Actual   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("tick %d %s: expected %s, got %s", m.Tick, m.Port, m.Expected, m.Actual)
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Mismatches) == 0
}

// Format renders the trace as text, one line per tick.
func (r *Result) Format() string {
	var b strings.Builder
	r.WriteTo(&b)
	return b.String()
}

// WriteTo writes the text trace to w.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", r.Name)
	fmt.Fprintf(&b, "block: %s\n", r.Class)
	for _, t := range r.Ticks {
		fmt.Fprintf(&b, "tick %d %s", t.Index, t.Action)
		for _, o := range t.Outputs {
			fmt.Fprintf(&b, " %s=%s", o.Port, o.Value)
		}
		b.WriteByte('\n')
	}
	for _, m := range r.Mismatches {
		fmt.Fprintf(&b, "mismatch %s\n", m)
	}
	if r.Passed() {
		b.WriteString("result: pass\n")
	} else {
		fmt.Fprintf(&b, "result: fail (%d mismatches)\n", len(r.Mismatches))
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Run builds the scenario's block from cat and replays its ticks.
// A nil cat means the default catalog. Errors stop the run; expectation
// failures are recorded as mismatches instead.
func Run(cat *catalog.Catalog, s *Scenario) (*Result, error) {
	b, ref, err := Build(cat, s)
	if err != nil {
		return nil, err
	}

	res := &Result{Name: s.Name, Class: b.ClassName()}
	for i := range s.Ticks {
		tr, mismatches, err := runTick(b, ref, i, &s.Ticks[i], s.Tolerance)
		if err != nil {
			return nil, err
		}
		res.Ticks = append(res.Ticks, tr)
		res.Mismatches = append(res.Mismatches, mismatches...)
	}
	return res, nil
}

// Build creates the scenario's block from cat, or the default catalog when
// cat is nil. Without kinds the family's default kind is used. For
// constant_ptr families it also returns the reference the block reads, so
// callers can update the referent.
func Build(cat *catalog.Catalog, s *Scenario) (block.Block, *value.Ref, error) {
	if cat == nil {
		cat = catalog.Default()
	}
	f, ok := cat.Lookup(s.Block)
	if !ok {
		return nil, nil, errors.UnknownBlock(s.Block)
	}
	kinds, err := s.kinds()
	if err != nil {
		return nil, nil, err
	}
	if len(kinds) == 0 {
		kinds = []kind.Kind{f.DefaultKind()}
	}
	arg, ref, err := s.argument(f, kinds)
	if err != nil {
		return nil, nil, err
	}
	b, err := cat.Create(s.Block, kinds, arg)
	if err != nil {
		return nil, nil, err
	}
	return b, ref, nil
}

// argument builds the constructor argument for f's shape.
// ref is set for value-reference families so ticks can update the referent.
func (s *Scenario) argument(f *catalog.Family, kinds []kind.Kind) (value.Argument, *value.Ref, error) {
	switch f.Shape {
	case catalog.ShapeNone:
		if s.Argument != nil || s.Size != nil {
			return nil, nil, invalid(f.Name+" takes no argument", "argument")
		}
		return nil, nil, nil
	case catalog.ShapeSize:
		if s.Size == nil {
			return nil, nil, invalid(f.Name+" requires size", "size")
		}
		return value.Of(int64(*s.Size)), nil, nil
	}

	if s.Argument == nil {
		return nil, nil, invalid(f.Name+" requires argument", "argument")
	}
	k := kinds[0]
	if s.Argument.Kind != "" {
		var err error
		if k, err = kind.Parse(s.Argument.Kind); err != nil {
			return nil, nil, err
		}
	}
	v, err := value.Parse(k, s.Argument.Value)
	if err != nil {
		return nil, nil, err
	}
	if f.Shape != catalog.ShapeValueRef {
		return v, nil, nil
	}
	r, err := value.NewRef(v)
	if err != nil {
		return nil, nil, err
	}
	return r, &r, nil
}

func runTick(b block.Block, ref *value.Ref, i int, t *Tick, tol float64) (TickResult, []Mismatch, error) {
	idx := strconv.Itoa(i)

	if t.Ref != "" {
		if ref == nil {
			return TickResult{}, nil, invalid(b.Family()+" has no reference", "ticks", idx, "ref")
		}
		v, err := value.Parse(ref.Kind(), t.Ref)
		if err != nil {
			return TickResult{}, nil, err
		}
		if err := ref.Store(v); err != nil {
			return TickResult{}, nil, err
		}
	}

	inputs := b.Inputs()
	for _, port := range sortedPorts(t.Inputs) {
		if port < 0 || port >= len(inputs) {
			return TickResult{}, nil, errors.PortOutOfRange(b.ClassName(), "input", port, len(inputs))
		}
		v, err := value.Parse(inputs[port].Kind, t.Inputs[port])
		if err != nil {
			return TickResult{}, nil, err
		}
		if err := b.SetInput(port, v); err != nil {
			return TickResult{}, nil, err
		}
	}

	switch t.Action {
	case ActionStep:
		b.Step()
	case ActionReset:
		b.Reset()
	}

	outputs := b.Outputs()
	tr := TickResult{Index: i, Action: t.Action}
	for port, p := range outputs {
		v, err := block.Output(b, port)
		if err != nil {
			return TickResult{}, nil, err
		}
		tr.Outputs = append(tr.Outputs, Output{Port: p.Name, Value: v})
	}

	var mismatches []Mismatch
	for _, port := range sortedPorts(t.Expect) {
		if port < 0 || port >= len(outputs) {
			return TickResult{}, nil, errors.PortOutOfRange(b.ClassName(), "output", port, len(outputs))
		}
		want, err := value.Parse(outputs[port].Kind, t.Expect[port])
		if err != nil {
			return TickResult{}, nil, err
		}
		got := tr.Outputs[port].Value
		if !matches(want, got, t.tolerance(tol)) {
			mismatches = append(mismatches, Mismatch{
				Tick:     i,
				Port:     outputs[port].Name,
				Expected: want.String(),
				Actual:   got.String(),
			})
		}
	}
	return tr, mismatches, nil
}

// matches compares exactly, except that floating values may differ by tol.
func matches(want, got value.Value, tol float64) bool {
	if want.Kind().Category() != kind.Floating || tol == 0 {
		return want.Equal(got)
	}
	w, _ := want.AsFloat64()
	g, _ := got.AsFloat64()
	return math.Abs(w-g) <= tol
}

func sortedPorts(m map[int]string) []int {
	ports := make([]int, 0, len(m))
	for p := range m {
		ports = append(ports, p)
	}
	slices.Sort(ports)
	return ports
}
