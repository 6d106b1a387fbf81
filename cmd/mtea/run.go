package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teafis/ModelTea-stdlib/scenario"
)

type scenarioReport struct {
	File       string       `json:"file"`
	Name       string       `json:"name"`
	Block      string       `json:"block"`
	Passed     bool         `json:"passed"`
	Ticks      []tickReport `json:"ticks"`
	Mismatches []string     `json:"mismatches,omitempty"`
}

type tickReport struct {
	Index   int               `json:"index"`
	Action  string            `json:"action"`
	Outputs map[string]string `json:"outputs"`
}

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE...",
		Short: "Replay block scenarios and check their expectations",
		Long: `Replay one or more scenario files against the block catalog.

Each scenario creates one block, then applies its ticks in order. The command
exits 1 when any expectation fails and 2 when a scenario cannot be loaded or run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var reports []scenarioReport
			failed := 0

			for _, path := range args {
				s, err := scenario.Load(path)
				if err != nil {
					return wrapExitError(exitCommandError, "loading "+path, err)
				}
				res, err := scenario.Run(nil, s)
				if err != nil {
					return wrapExitError(exitCommandError, "running "+path, err)
				}
				if !res.Passed() {
					failed++
				}
				if opts.Format == "json" {
					reports = append(reports, newScenarioReport(path, res))
					continue
				}
				if _, err := res.WriteTo(out); err != nil {
					return err
				}
			}

			if opts.Format == "json" {
				if err := writeJSON(out, reports); err != nil {
					return err
				}
			}
			if failed > 0 {
				return newExitError(exitFailure, fmt.Sprintf("%d of %d scenarios failed", failed, len(args)))
			}
			return nil
		},
	}
}

func newScenarioReport(path string, res *scenario.Result) scenarioReport {
	r := scenarioReport{
		File:   path,
		Name:   res.Name,
		Block:  res.Class,
		Passed: res.Passed(),
		Ticks:  make([]tickReport, len(res.Ticks)),
	}
	for i, t := range res.Ticks {
		outputs := make(map[string]string, len(t.Outputs))
		for _, o := range t.Outputs {
			outputs[o.Port] = o.Value.String()
		}
		r.Ticks[i] = tickReport{Index: t.Index, Action: string(t.Action), Outputs: outputs}
	}
	for _, m := range res.Mismatches {
		r.Mismatches = append(r.Mismatches, m.String())
	}
	return r
}
