package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"news-etl/internal/dialect"
	"news-etl/internal/engine"
	"news-etl/internal/logging"
	"news-etl/internal/retry"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dsn        string
	driver     string
	cfgFile    string
	verbose    bool
	DB         *sql.DB
	DriverName string
	SchemaName string
	Engine     *engine.Engine

	logRun  *logging.Run
	rootCtx context.Context // cancelled by SIGINT/SIGTERM only
	cancel  context.CancelFunc
)

var RootCmd = &cobra.Command{
	Use:   "news-etl",
	Short: "Fetch news articles and load them into a relational database",
	Long: `
  _   _                       _____ _____ _
 | \ | | _____      _____    | ____|_   _| |
 |  \| |/ _ \ \ /\ / / __|___|  _|   | | | |
 | |\  |  __/\ V  V /\__ \___| |___  | | | |___
 |_| \_|\___| \_/\_/ |___/   |_____| |_| |_____|

NEWS ETL - newsdata.io to SQL loader (insert / upsert / overwrite)
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		run, err := logging.Setup(viper.GetString("settings.log_dir"), time.Now())
		if err != nil {
			return err
		}
		logRun = run

		rootCtx = cmd.Context()
		ctx, c := context.WithTimeout(rootCtx, viper.GetDuration("settings.timeout"))
		cancel = c
		cmd.SetContext(ctx)

		config, err := ResolveDBConfig(cmd.Flags().Changed("dsn"))
		if err != nil {
			return err
		}
		connStr, err := BuildDSN(config)
		if err != nil {
			return err
		}
		DriverName = strings.ToLower(config.Driver)

		d, err := dialect.GetDialect(DriverName)
		if err != nil {
			return err
		}
		log.Printf("Using Dialect: %s", d.Name())
		log.Printf("Connecting to %s (%s)", config.Name, redactDSN(config, connStr))

		executor := retry.NewExecutor(retry.NewConnectionErrorClassifier(),
			retry.NewExponentialBackoff(viper.GetInt("retry.max_attempts"))).
			WithOnRetry(func(attempt int, err error, delay time.Duration) {
				log.Printf("Connection attempt %d failed: %v (retrying in %s)", attempt+1, err, delay.Round(time.Millisecond))
			})
		err = executor.Execute(ctx, func(ctx context.Context) error {
			db, err := engine.Open(ctx, DriverName, connStr)
			if err != nil {
				return err
			}
			DB = db
			return nil
		})
		if err != nil {
			return err
		}

		// Fetch current database/schema name for inspect
		if DriverName == "mysql" {
			if err := DB.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&SchemaName); err != nil {
				return fmt.Errorf("failed to get database name: %w", err)
			}
		}
		SchemaName = d.GetSchemaName(SchemaName)

		Engine = engine.New(DB, d)
		Engine.Verbose = verbose
		return nil
	},
}

// Execute runs the CLI and exits with a code describing the failure kind.
// The connection pool and the log file are released on every path.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		log.Printf("Pipeline failed: %v", err)
		if logRun != nil && logRun.Path != "" {
			log.Printf("Logs are saved in %s", logRun.Path)
		}
	}
	release()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(ExitCode(err))
	}
}

func release() {
	if cancel != nil {
		cancel()
	}
	if DB != nil {
		DB.Close()
		DB = nil
	}
	if logRun != nil {
		logRun.Close()
		logRun = nil
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./news-etl.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database Source Name (DSN)")
	RootCmd.PersistentFlags().StringVar(&driver, "driver", "", "database/sql driver: postgres, pgx, mysql, sqlserver, oracle, sqlite")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every SQL statement")

	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindPFlag("database.driver", RootCmd.PersistentFlags().Lookup("driver"))

	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("settings.news_method", "upsert")
	viper.SetDefault("settings.frequency_method", "overwrite")
	viper.SetDefault("settings.timeout", 5*time.Minute)
	viper.SetDefault("settings.log_dir", "logs")
	viper.SetDefault("retry.max_attempts", 3)
	viper.SetDefault("news.endpoint", "news")
	viper.SetDefault("news.language", "en")
	viper.SetDefault("news.country", "us")
	viper.SetDefault("news.timeframe", 24)
	viper.SetDefault("news.size", 10)
	viper.SetDefault("news.max_pages", 1)
	viper.SetDefault("vocab.key", "vocabulary_by_gradelv.csv")
	viper.SetDefault("vocab.region", "us-east-1")

	// Variable names of the .env file the pipeline has always used.
	viper.BindEnv("news.api_key", "API_KEY_ID", "API_KEY")
	viper.BindEnv("database.host", "SERVER_NAME")
	viper.BindEnv("database.port", "PORT")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.user", "DB_USERNAME")
	viper.BindEnv("database.password", "DB_PASSWORD")
	viper.BindEnv("vocab.access_key", "ACCESS_KEY")
	viper.BindEnv("vocab.secret_key", "SECRET_KEY")
	viper.BindEnv("vocab.region", "AWS_REGION")
}

// initConfig reads in .env, the config file and ENV variables if set.
func initConfig() {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "Warning: failed to read .env:", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			exePath := filepath.Dir(ex)
			viper.AddConfigPath(exePath)
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("news-etl")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
