package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"news-etl/internal/engine"
	"news-etl/internal/schema"

	"github.com/gosuri/uiprogress"
)

// loadWithProgress runs one load call behind a progress bar.
func loadWithProgress(ctx context.Context, batch schema.Batch, def *schema.Table, method string) (*engine.Result, error) {
	log.Printf("Loading %d records into %s (%s)", len(batch), def.Name, method)

	if len(batch) > 0 {
		progress := uiprogress.New()
		progress.Start()
		bar := progress.AddBar(len(batch)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return fmt.Sprintf("%-28s", def.Name+": ")
		})
		Engine.OnProgress = func() { bar.Incr() }
		defer func() {
			Engine.OnProgress = nil
			progress.Stop()
		}()
	}

	res, err := Engine.Load(ctx, batch, def, method)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", def.Name, err)
	}
	log.Printf("Loaded %s: %d/%d rows in %s", res.Table, res.Written, res.Attempted, res.Duration)
	return res, nil
}

// printReport prints the verified summary of a run.
func printReport(results []schema.LoadResult) {
	fmt.Println("\n📊 Summary Report:")
	total := 0
	for i, r := range results {
		icon := "✓"
		statusDisplay := r.Status
		if r.Status == "VERIFIED_OK" {
			statusDisplay = "OK (Verified)"
		} else {
			icon = "!"
		}

		fmt.Printf("[%s] [%02d/%02d] %-28s %-9s : %d rows (Written: %d) - %s\n",
			icon, i+1, len(results), r.TableName, strings.ToUpper(r.Method), r.Actual, r.Target, statusDisplay)
		if r.ErrorMsg != "" {
			fmt.Printf("    └ Error: %s\n", r.ErrorMsg)
		}
		total += r.Target
	}
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Total Rows Written: %d\n", total)
}
