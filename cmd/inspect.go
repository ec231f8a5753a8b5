package cmd

import (
	"fmt"
	"log"
	"strings"

	"news-etl/internal/engine"
	"news-etl/internal/schema"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	strict       bool
	showMeanings bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Compare the physical news tables with their definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log.Printf("Analyzing schema %s...", SchemaName)

		var drifted []string
		for _, def := range schema.Builtin() {
			cols, err := schema.Describe(ctx, DB, Engine.Dialect(), def.Name)
			if err != nil {
				return &engine.LoadError{Op: "inspect", Table: def.Name, Kind: engine.ErrSchema, Err: err}
			}
			drift := schema.Diff(def, cols)
			printDrift(def, cols, drift)
			if !drift.Clean() {
				drifted = append(drifted, def.Name)
			}
		}

		if len(drifted) > 0 && strict {
			return &engine.LoadError{Op: "inspect", Table: strings.Join(drifted, ","), Kind: engine.ErrSchema,
				Err: fmt.Errorf("%d table(s) drifted from their definitions", len(drifted))}
		}
		return nil
	},
}

func printDrift(def *schema.Table, physical []*schema.PhysicalColumn, drift *schema.Drift) {
	status := "OK"
	switch {
	case !drift.Exists:
		status = "MISSING"
	case !drift.Clean():
		status = "DRIFT"
	}
	fmt.Printf("\n%s [%s]\n", headerStyle.Render(def.Name), status)
	if !drift.Exists {
		fmt.Println("    └ table does not exist (created on first load)")
		return
	}

	types := make(map[string]string, len(physical))
	for _, c := range physical {
		types[c.Name] = c.DataType
	}

	headers := []string{"column", "kind", "pk", "physical type"}
	if showMeanings {
		headers = append(headers, "meaning")
	}
	t := table.New().Border(lipgloss.NormalBorder()).Headers(headers...)
	for _, c := range def.Columns {
		pk := ""
		if c.IsPK {
			pk = "PK"
		}
		physType, ok := types[strings.ToLower(c.Name)]
		if !ok {
			physType = "(missing)"
		}
		row := []string{c.Name, string(c.Kind), pk, physType}
		if showMeanings {
			row = append(row, schema.AnalyzeMeaning(c.Name))
		}
		t.Row(row...)
	}
	fmt.Println(t.Render())

	if len(drift.Missing) > 0 {
		fmt.Printf("    └ Missing columns: %s\n", strings.Join(drift.Missing, ", "))
	}
	if len(drift.Extra) > 0 {
		fmt.Printf("    └ Extra columns: %s\n", strings.Join(drift.Extra, ", "))
	}
	if drift.KeyDiff {
		fmt.Printf("    └ Primary key differs from (%s)\n", strings.Join(def.PrimaryKey(), ", "))
	}
}

func init() {
	RootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&strict, "strict", false, "Fail when a table drifted from its definition")
	inspectCmd.Flags().BoolVar(&showMeanings, "meanings", false, "Show the decoded meaning of each column name")
}
