package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"news-etl/internal/engine"
	"news-etl/internal/schema"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dumpFormat string
	dumpLimit  int
)

var dumpCmd = &cobra.Command{
	Use:   "dump <table>",
	Short: "Print every row of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.ToLower(args[0])

		var cols []string
		if def := schema.BuiltinByName(name); def != nil {
			if err := Engine.Define(def); err != nil {
				return err
			}
			cols = def.ColumnNames()
		}

		rows, err := Engine.SelectAll(cmd.Context(), name)
		if err != nil {
			return err
		}
		if dumpLimit > 0 && len(rows) > dumpLimit {
			rows = rows[:dumpLimit]
		}
		if cols == nil {
			cols = recordColumns(rows)
		}

		return writeRows(os.Stdout, dumpFormat, cols, rows)
	},
}

// writeRows renders rows as JSON lines, YAML or a text table.
func writeRows(w io.Writer, format string, cols []string, rows schema.Batch) error {
	switch strings.ToLower(format) {
	case "json", "jsonl":
		enc := json.NewEncoder(w)
		for _, rec := range rows {
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(rows)
	case "table":
		t := table.New().
			Border(lipgloss.NormalBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return lipgloss.NewStyle().Padding(0, 1)
			}).
			Headers(cols...)
		for _, rec := range rows {
			cells := make([]string, len(cols))
			for i, c := range cols {
				cells[i] = cellString(rec[c])
			}
			t.Row(cells...)
		}
		_, err := fmt.Fprintln(w, t.Render())
		return err
	}
	return &engine.LoadError{Op: "dump", Kind: engine.ErrValidation,
		Err: fmt.Errorf("unknown format %q (want json, yaml or table)", format)}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)

func cellString(v any) string {
	const maxWidth = 40
	var s string
	switch x := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		s = x.Format(time.RFC3339)
	default:
		s = fmt.Sprint(x)
	}
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > maxWidth {
		s = string(r[:maxWidth-3]) + "..."
	}
	return s
}

// recordColumns collects the column names present in rows, sorted.
func recordColumns(rows schema.Batch) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, rec := range rows {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

func init() {
	RootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "json", "Output format: json, yaml or table")
	dumpCmd.Flags().IntVar(&dumpLimit, "limit", 0, "Print at most this many rows (0 = all)")
}
