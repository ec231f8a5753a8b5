package cmd

import (
	"log"

	"news-etl/internal/schema"

	"github.com/spf13/cobra"
)

var (
	dropTables  bool
	cleanTarget []string
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean all data from the news tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		targetTables, err := selectTables(cleanTarget)
		if err != nil {
			return err
		}
		return cleanTables(cmd, targetTables, dropTables)
	},
}

// cleanTables empties tables in reverse order, or drops them.
// Emptying is an overwrite with no rows, so it runs in one transaction per table.
func cleanTables(cmd *cobra.Command, defs []*schema.Table, drop bool) error {
	ctx := cmd.Context()
	total := len(defs)

	for i := len(defs) - 1; i >= 0; i-- {
		def := defs[i]
		if drop {
			if err := Engine.DropTable(ctx, def.Name); err != nil {
				return err
			}
		} else if _, err := Engine.Overwrite(ctx, nil, def); err != nil {
			return err
		}
		log.Printf("Cleaned %d/%d tables (%s)", total-i, total, def.Name)
	}

	log.Println("Database Cleaned Successfully!")
	return nil
}

func init() {
	RootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().BoolVar(&dropTables, "drop", false, "Drop the tables instead of emptying them")
	cleanCmd.Flags().StringSliceVarP(&cleanTarget, "tables", "t", []string{}, "Specific tables to clean (comma-separated)")
}
