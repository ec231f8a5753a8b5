package cmd

import (
	"fmt"
	"log"
	"strings"
	"time"

	"news-etl/internal/dialect"
	"news-etl/internal/engine"
	"news-etl/internal/schema"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	clean    bool
	dryRun   bool
	tables   []string
	randSeed int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the news tables with generated data",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Flag > Config > Default
		targetCount := viper.GetInt("settings.default_count")
		method := viper.GetString("settings.seed_method")
		if _, err := engine.ParseMethod(method); err != nil {
			return &engine.LoadError{Op: "seed", Kind: engine.ErrValidation, Err: err}
		}

		targetTables, err := selectTables(tables)
		if err != nil {
			return err
		}

		if dryRun {
			log.Println("[SIMULATION] Dry-Run Mode Active: No data will be written.")
			fmt.Printf("🔍 Tables (%s, %d rows each):\n", method, targetCount)
			for i, t := range targetTables {
				fmt.Printf("[%02d] %s\n%s\n", i+1, t.Name, createStatement(Engine.Dialect(), t))
			}
			return nil
		}

		if clean {
			if err := cleanTables(cmd, targetTables, false); err != nil {
				return err
			}
		}

		if randSeed != 0 {
			engine.Seed(randSeed)
		}

		log.Printf("Starting seed with count=%d per table...", targetCount)
		start := time.Now()

		var results []schema.LoadResult
		for _, def := range targetTables {
			res, err := loadWithProgress(ctx, engine.GenerateBatch(def, targetCount), def, method)
			if err != nil {
				return err
			}
			results = append(results, res.Report())
		}

		printReport(Engine.Verify(ctx, results))
		log.Printf("Seed Done! Time Elapsed: %s", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

// selectTables filters the built-in definitions:
// 1. the --tables flag, 2. settings.tables, 3. all of them.
func selectTables(names []string) ([]*schema.Table, error) {
	if len(names) == 0 {
		names = viper.GetStringSlice("settings.tables")
	}
	all := schema.Builtin()
	if len(names) == 0 {
		return all, nil
	}

	req := make(map[string]bool)
	for _, n := range names {
		req[strings.ToLower(strings.TrimSpace(n))] = true
	}
	var out []*schema.Table
	for _, t := range all {
		if req[strings.ToLower(t.Name)] {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, &engine.LoadError{Op: "select tables", Kind: engine.ErrValidation,
			Err: fmt.Errorf("no matching tables found for inputs: %v", names)}
	}
	return out, nil
}

func createStatement(d dialect.Dialect, t *schema.Table) string {
	cols := make([]dialect.ColumnDef, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = dialect.ColumnDef{Name: c.Name, Type: d.ColumnType(string(c.Kind))}
	}
	return d.CreateTableQuery(t.Name, cols, t.PrimaryKey())
}

func init() {
	RootCmd.AddCommand(seedCmd)
	seedFlags(seedCmd.Flags())
}

// seedFlags defines the seed flags. --count and --method only live in viper
// (settings.default_count, settings.seed_method).
func seedFlags(fs *pflag.FlagSet) {
	fs.Int("count", 100, "Number of records to generate per table (overrides config)")
	fs.String("method", "insert", "Load method: insert, upsert or overwrite")
	fs.BoolVar(&clean, "clean", false, "Empty tables before seeding")
	fs.BoolVar(&dryRun, "dry-run", false, "Print the table DDL without writing to DB")
	fs.StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to seed (comma-separated)")
	fs.Int64Var(&randSeed, "seed", 0, "Random seed for reproducible data")

	viper.BindPFlag("settings.default_count", fs.Lookup("count"))
	viper.BindPFlag("settings.seed_method", fs.Lookup("method"))
	viper.SetDefault("settings.default_count", 100)
	viper.SetDefault("settings.seed_method", "insert")
}
