package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teafis/ModelTea-stdlib/catalog"
)

const listFormat = "%-14s %-6s %-10s %-6s %-26s %s\n"

type familyRow struct {
	Name    string `json:"name"`
	Alias   string `json:"alias,omitempty"`
	Shape   string `json:"shape"`
	Kinds   int    `json:"kinds"`
	Types   string `json:"types"`
	Default string `json:"default"`
}

func newListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the block families in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := familyRows(catalog.Default())
			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(out, rows)
			}
			return writeFamilyTable(out, rows, isTerminal(out))
		},
	}
}

func familyRows(cat *catalog.Catalog) []familyRow {
	families := cat.Families()
	rows := make([]familyRow, len(families))
	for i, f := range families {
		rows[i] = familyRow{
			Name:    f.Name,
			Alias:   f.Alias,
			Shape:   f.Shape.String(),
			Kinds:   f.KindCount,
			Types:   f.Types.String(),
			Default: f.DefaultKind().String(),
		}
	}
	return rows
}

func writeFamilyTable(w io.Writer, rows []familyRow, styled bool) error {
	header := fmt.Sprintf(listFormat, "NAME", "ALIAS", "SHAPE", "KINDS", "TYPES", "DEFAULT")
	if styled {
		header = headerStyle.Render(header[:len(header)-1]) + "\n"
	}
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	for _, r := range rows {
		alias := r.Alias
		if alias == "" {
			alias = "-"
		}
		name := fmt.Sprintf("%-14s", r.Name)
		if styled {
			name = funcStyle.Render(name)
		}
		line := fmt.Sprintf(listFormat, name, alias, r.Shape, strconv.Itoa(r.Kinds), r.Types, r.Default)
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
