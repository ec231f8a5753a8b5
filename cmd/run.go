package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"news-etl/internal/engine"
	"news-etl/internal/news"
	"news-etl/internal/schema"
	"news-etl/internal/vocab"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	skipVocab bool
	maxPages  int
	schedule  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch news, load them and the grade-level word frequencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		if spec := viper.GetString("settings.schedule"); spec != "" {
			return runScheduled(rootCtx, spec, runPipeline)
		}
		return runPipeline(cmd.Context())
	},
}

// runScheduled runs job on a cron schedule until ctx is done. Each run gets
// its own settings.timeout. A tick that fires while the previous run is still
// going is skipped, so runs never overlap on the shared Engine.
func runScheduled(ctx context.Context, spec string, job func(context.Context) error) error {
	logger := cron.PrintfLogger(log.Default())
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger)))
	_, err := c.AddFunc(spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, viper.GetDuration("settings.timeout"))
		defer cancel()
		if err := job(runCtx); err != nil {
			log.Printf("Scheduled run failed: %v", err)
		}
	})
	if err != nil {
		return &engine.LoadError{Op: "schedule", Kind: engine.ErrValidation, Err: fmt.Errorf("bad schedule %q: %w", spec, err)}
	}

	log.Printf("Scheduler started (%s), press Ctrl+C to stop", spec)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	log.Println("Scheduler stopped")
	return nil
}

// runPipeline is one extract, transform and load pass.
func runPipeline(ctx context.Context) error {
	start := time.Now()
	var results []schema.LoadResult

	// 1. Extract
	client, err := news.NewClient(viper.GetString("news.api_key"))
	if err != nil {
		return fmt.Errorf("news client: %w (set API_KEY_ID)", err)
	}
	params, err := newsParams()
	if err != nil {
		return &engine.LoadError{Op: "params", Kind: engine.ErrValidation, Err: err}
	}
	endpoint := viper.GetString("news.endpoint")
	log.Printf("Extracting news data from %s", endpoint)
	articles, err := client.FetchPages(ctx, endpoint, params, viper.GetInt("news.max_pages"))
	if err != nil {
		return fmt.Errorf("extract news: %w", err)
	}

	// 2. Transform + Load
	newsBatch := news.Flatten(articles)
	log.Printf("Flattened %d of %d articles", len(newsBatch), len(articles))
	res, err := loadWithProgress(ctx, newsBatch, schema.NewsRawTable(), viper.GetString("settings.news_method"))
	if err != nil {
		return err
	}
	results = append(results, res.Report())

	// 3. Vocabulary frequency
	src, err := vocabSource(ctx)
	if err != nil {
		return fmt.Errorf("vocabulary source: %w", err)
	}
	if src == nil {
		log.Println("No vocabulary source, skipping word frequency")
	} else {
		log.Println("Loading vocabulary...")
		v, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("load vocabulary: %w", err)
		}
		freq := vocab.Frequency(newsBatch, v)
		log.Printf("Vocabulary has %d words, %d frequency rows", len(v), len(freq))
		res, err := loadWithProgress(ctx, freq, schema.GradeLevelWordFrequency(), viper.GetString("settings.frequency_method"))
		if err != nil {
			return err
		}
		results = append(results, res.Report())
	}

	// 4. Verification + report
	printReport(Engine.Verify(ctx, results))
	log.Printf("Pipeline completed successfully in %s", time.Since(start).Round(time.Millisecond))
	return nil
}

// newsParams builds the request parameters from the news.* settings.
func newsParams() (*news.Params, error) {
	p := news.NewParams()
	for _, name := range []string{"q", "qInTitle", "qInMeta", "country", "category", "language", "domain",
		"domainurl", "excludedomain", "prioritydomain", "timezone"} {
		// phrases like "climate change" must reach the API as one value
		switch v := viper.Get("news." + name).(type) {
		case nil:
		case string:
			if v != "" {
				if err := p.Set(name, v); err != nil {
					return nil, err
				}
			}
		default:
			list, err := cast.ToStringSliceE(v)
			if err != nil {
				return nil, fmt.Errorf("news.%s: %w", name, err)
			}
			if len(list) > 0 {
				if err := p.Set(name, list); err != nil {
					return nil, err
				}
			}
		}
	}
	for _, name := range []string{"full_content", "image", "video"} {
		if viper.IsSet("news." + name) {
			if err := p.Set(name, viper.GetBool("news."+name)); err != nil {
				return nil, err
			}
		}
	}
	for _, name := range []string{"timeframe", "size"} {
		if v := viper.GetInt("news." + name); v > 0 {
			if err := p.Set(name, v); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

// vocabSource returns the configured vocabulary source: a local file when
// vocab.file is set, S3 when vocab.bucket is set, else nil.
// With --skip-vocab nothing is configured, not even the S3 client.
func vocabSource(ctx context.Context) (vocab.Source, error) {
	if skipVocab {
		log.Println("Skipping word frequency (--skip-vocab)")
		return nil, nil
	}
	if path := viper.GetString("vocab.file"); path != "" {
		return vocab.FileSource{Path: path}, nil
	}
	bucket := viper.GetString("vocab.bucket")
	if bucket == "" {
		return nil, nil
	}
	client, err := vocab.NewS3Client(ctx,
		viper.GetString("vocab.region"),
		viper.GetString("vocab.access_key"),
		viper.GetString("vocab.secret_key"))
	if err != nil {
		return nil, err
	}
	return vocab.S3Source{Client: client, Bucket: bucket, Key: viper.GetString("vocab.key")}, nil
}

func init() {
	RootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&skipVocab, "skip-vocab", false, "Do not compute grade-level word frequencies")
	runCmd.Flags().IntVar(&maxPages, "max-pages", 0, "Number of result pages to follow (overrides config)")
	runCmd.Flags().StringVar(&schedule, "schedule", "", "Cron expression (e.g. \"@every 1h\", \"0 6 * * *\") to keep running on a schedule")
	viper.BindPFlag("news.max_pages", runCmd.Flags().Lookup("max-pages"))
	viper.BindPFlag("settings.schedule", runCmd.Flags().Lookup("schedule"))
}
