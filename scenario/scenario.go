package scenario

import (
	"bytes"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/teafis/ModelTea-stdlib/errors"
	"github.com/teafis/ModelTea-stdlib/kind"
)

// Scenario drives one block through a sequence of ticks.
type Scenario struct {
	// Name identifies the scenario in traces and golden files.
	Name string `yaml:"name"`

	Description string `yaml:"description,omitempty"`

	// Block is a catalog family name or alias, e.g. "add" or "+".
	Block string `yaml:"block"`

	// Kinds are kind names ("f64", "int32_t", "i8"), one per family kind.
	Kinds []string `yaml:"kinds"`

	// Argument is the constructor value for value, value-reference and time-step families.
	Argument *Argument `yaml:"argument,omitempty"`

	// Size is the constructor size for size families.
	Size *int `yaml:"size,omitempty"`

	// Tolerance is the default absolute tolerance for floating expectations.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	Ticks []Tick `yaml:"ticks"`
}

// Argument is a constructor value in text form.
// Kind defaults to the block's first kind.
type Argument struct {
	Kind  string `yaml:"kind,omitempty"`
	Value string `yaml:"value"`
}

// Action is what a tick does after applying its inputs.
type Action string

const (
	ActionStep  Action = "step"
	ActionReset Action = "reset"
	ActionHold  Action = "hold"
)

// Tick sets inputs, runs an action, then checks outputs.
type Tick struct {
	// Action defaults to step.
	Action Action `yaml:"action,omitempty"`

	// Ref updates the referent of a constant_ptr block before the action.
	Ref string `yaml:"ref,omitempty"`

	// Inputs maps input port to value text.
	Inputs map[int]string `yaml:"inputs,omitempty"`

	// Expect maps output port to expected value text.
	Expect map[int]string `yaml:"expect,omitempty"`

	// Tolerance overrides the scenario tolerance for this tick.
	Tolerance *float64 `yaml:"tolerance,omitempty"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseScenario, errors.KindInvalidData, err, "reading "+path)
	}
	return Parse(data)
}

// Parse decodes a scenario. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(errors.PhaseScenario, errors.KindInvalidData, err, "parsing YAML")
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func invalid(detail string, path ...string) error {
	return errors.InvalidData(errors.PhaseScenario, path, detail)
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return invalid("name is required", "name")
	}
	if s.Block == "" {
		return invalid("block is required", "block")
	}
	if len(s.Kinds) == 0 {
		return invalid("at least one kind is required", "kinds")
	}
	if _, err := s.kinds(); err != nil {
		return err
	}
	if s.Argument != nil && s.Size != nil {
		return invalid("argument and size are exclusive", "argument")
	}
	if s.Tolerance < 0 {
		return invalid("tolerance must not be negative", "tolerance")
	}
	if len(s.Ticks) == 0 {
		return invalid("at least one tick is required", "ticks")
	}
	for i := range s.Ticks {
		t := &s.Ticks[i]
		if t.Action == "" {
			t.Action = ActionStep
		}
		switch t.Action {
		case ActionStep, ActionReset, ActionHold:
		default:
			return invalid("unknown action "+strconv.Quote(string(t.Action)), "ticks", strconv.Itoa(i), "action")
		}
		if t.Tolerance != nil && *t.Tolerance < 0 {
			return invalid("tolerance must not be negative", "ticks", strconv.Itoa(i), "tolerance")
		}
	}
	return nil
}

func (s *Scenario) kinds() ([]kind.Kind, error) {
	ks := make([]kind.Kind, len(s.Kinds))
	for i, name := range s.Kinds {
		k, err := kind.Parse(name)
		if err != nil {
			return nil, errors.New(errors.PhaseScenario, errors.KindUnsupportedKind).
				Path("kinds", strconv.Itoa(i)).
				Actual(name).
				Cause(err).
				Build()
		}
		ks[i] = k
	}
	return ks, nil
}

func (t *Tick) tolerance(def float64) float64 {
	if t.Tolerance != nil {
		return *t.Tolerance
	}
	return def
}
