package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.bytecodealliance.org/wit"

	"github.com/teafis/ModelTea-stdlib/block"
	"github.com/teafis/ModelTea-stdlib/kind"
	"github.com/teafis/ModelTea-stdlib/scenario"
	"github.com/teafis/ModelTea-stdlib/value"
)

type tuiOptions struct {
	Block string
	Kinds []string
	Size  int
	Value string
	DT    string
}

func newTUICommand(_ *rootOptions) *cobra.Command {
	opts := &tuiOptions{}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Step a single block interactively",
		Long: `Create one block and step it from a terminal UI.

Type input values, press enter to apply them and step, ctrl+r to reset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.scenario(cmd)
			if err != nil {
				return err
			}
			b, ref, err := scenario.Build(nil, s)
			if err != nil {
				return wrapExitError(exitCommandError, "creating "+opts.Block, err)
			}
			if !isTerminal(cmd.OutOrStdout()) {
				return newExitError(exitCommandError, "tui requires a terminal")
			}
			p := tea.NewProgram(newTUIModel(b, ref),
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Block, "block", "", "block family name or alias")
	cmd.Flags().StringSliceVar(&opts.Kinds, "kind", nil, "block kinds (defaults to the family's default kind)")
	cmd.Flags().IntVar(&opts.Size, "size", 0, "input count for size families")
	cmd.Flags().StringVar(&opts.Value, "value", "", "constructor value for value families")
	cmd.Flags().StringVar(&opts.DT, "dt", "", "time step for time-step families")
	_ = cmd.MarkFlagRequired("block")
	cmd.MarkFlagsMutuallyExclusive("size", "value", "dt")

	return cmd
}

// scenario turns the flags into a block description for scenario.Build.
func (o *tuiOptions) scenario(cmd *cobra.Command) (*scenario.Scenario, error) {
	s := &scenario.Scenario{Block: o.Block, Kinds: o.Kinds}
	switch {
	case cmd.Flags().Changed("size"):
		if o.Size < 0 {
			return nil, newExitError(exitCommandError, "--size must not be negative")
		}
		s.Size = &o.Size
	case cmd.Flags().Changed("value"):
		s.Argument = &scenario.Argument{Value: o.Value}
	case cmd.Flags().Changed("dt"):
		s.Argument = &scenario.Argument{Value: o.DT}
	}
	return s, nil
}

type portInfo struct {
	name    string
	witType wit.Type
	typeStr string
}

type tuiModel struct {
	err      error
	b        block.Block
	ref      *value.Ref
	ports    []portInfo
	inputs   []textinput.Model
	outputs  []string
	steps    int
	focusIdx int
}

func newTUIModel(b block.Block, ref *value.Ref) *tuiModel {
	m := &tuiModel{b: b, ref: ref}
	for _, p := range b.Inputs() {
		t := p.Kind.WIT()
		m.ports = append(m.ports, portInfo{name: p.Name, witType: t, typeStr: witTypeStr(t)})
	}
	if ref != nil {
		t := ref.Kind().WIT()
		m.ports = append(m.ports, portInfo{name: "ref", witType: t, typeStr: witTypeStr(t)})
	}
	m.inputs = make([]textinput.Model, len(m.ports))
	for i, p := range m.ports {
		ti := textinput.New()
		ti.Placeholder = p.typeStr
		ti.Prompt = p.name + ": "
		ti.Width = 24
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if m.err = m.apply(); m.err == nil {
				m.b.Step()
				m.steps++
				m.refresh()
			}
			return m, nil

		case "ctrl+r":
			m.err = nil
			m.b.Reset()
			m.steps = 0
			m.refresh()
			return m, nil

		case "tab", "shift+tab":
			if len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				n := len(m.inputs)
				if msg.String() == "tab" {
					m.focusIdx = (m.focusIdx + 1) % n
				} else {
					m.focusIdx = (m.focusIdx + n - 1) % n
				}
				m.inputs[m.focusIdx].Focus()
			}
			return m, nil
		}
	}

	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

// apply parses every non-empty field and sets it on the block, or on the
// reference for the trailing ref field. Nothing is applied if any field
// fails to parse.
func (m *tuiModel) apply() error {
	vals := make([]value.Value, len(m.inputs))
	for i, in := range m.inputs {
		text := strings.TrimSpace(in.Value())
		if text == "" {
			continue
		}
		v, err := parseInput(text, m.ports[i].witType)
		if err != nil {
			return fmt.Errorf("%s: %w", m.ports[i].name, err)
		}
		vals[i] = v
	}
	nin := len(m.b.Inputs())
	for i, v := range vals {
		if v.IsNull() {
			continue
		}
		if i >= nin {
			if err := m.ref.Store(v); err != nil {
				return err
			}
			continue
		}
		if err := m.b.SetInput(i, v); err != nil {
			return err
		}
	}
	return nil
}

func parseInput(text string, t wit.Type) (value.Value, error) {
	k, err := kind.FromWIT(t)
	if err != nil {
		return value.Value{}, err
	}
	return value.Parse(k, text)
}

func (m *tuiModel) refresh() {
	outs := m.b.Outputs()
	m.outputs = make([]string, len(outs))
	for i, p := range outs {
		v, err := block.Output(m.b, i)
		if err != nil {
			m.outputs[i] = p.Name + " = ?"
			continue
		}
		m.outputs[i] = p.Name + " = " + v.String()
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ModelTea"))
	b.WriteString(" ")
	b.WriteString(funcStyle.Render(block.FullName(m.b)))
	fmt.Fprintf(&b, "  step %d", m.steps)
	if m.b.DelayedOutputs() {
		b.WriteString(helpStyle.Render("  (delayed outputs)"))
	}
	b.WriteString("\n\n")

	if len(m.inputs) > 0 {
		b.WriteString("Inputs:\n")
		for i, in := range m.inputs {
			line := in.View() + " " + typeStyle.Render(m.ports[i].typeStr)
			if i == m.focusIdx {
				line = selectedStyle.Render(">") + " " + line
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Outputs:\n")
	for _, o := range m.outputs {
		b.WriteString("  ")
		b.WriteString(resultStyle.Render(o))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab next field • enter apply and step • ctrl+r reset • esc quit"))
	return b.String()
}
