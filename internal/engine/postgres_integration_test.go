//go:build integration

package engine_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"news-etl/internal/dialect"
	"news-etl/internal/engine"
	"news-etl/internal/schema"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// NEWS_ETL_TEST_DSN points the suite at an existing server instead of a container.
const testDSNEnv = "NEWS_ETL_TEST_DSN"

var pgDSN string

func TestMain(m *testing.M) {
	ctx := context.Background()

	if dsn := os.Getenv(testDSNEnv); dsn != "" {
		pgDSN = dsn
		os.Exit(m.Run())
	}

	ctr, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("news"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start postgres: %v\n", err)
		os.Exit(1)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		fmt.Fprintf(os.Stderr, "get connection string: %v\n", err)
		os.Exit(1)
	}
	pgDSN = dsn

	code := m.Run()
	ctr.Terminate(ctx) //nolint:errcheck
	os.Exit(code)
}

func openPostgres(t *testing.T, driver string) *engine.Engine {
	t.Helper()
	ctx := context.Background()

	db, err := engine.Open(ctx, driver, pgDSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	d, err := dialect.GetDialect(driver)
	require.NoError(t, err)
	return engine.New(db, d)
}

func TestPostgres_LoadStrategies(t *testing.T) {
	for _, driver := range []string{"postgres", "pgx"} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			e := openPostgres(t, driver)
			def := &schema.Table{
				Name: "news_" + driver,
				Columns: []*schema.Column{
					{Name: "article_link", Kind: schema.KindString, IsPK: true},
					{Name: "title", Kind: schema.KindString},
					{Name: "author", Kind: schema.KindString},
				},
			}
			require.NoError(t, e.DropTable(ctx, def.Name))

			_, err := e.Upsert(ctx, schema.Batch{article("u1", "T1", "A1")}, def)
			require.NoError(t, err)
			_, err = e.Upsert(ctx, schema.Batch{article("u1", "T1-edited", "A1"), article("u1", "T1-final", "A1")}, def)
			require.NoError(t, err)

			got, err := e.SelectAll(ctx, def.Name)
			require.NoError(t, err)
			assert.Equal(t, schema.Batch{article("u1", "T1-final", "A1")}, got)

			_, err = e.Insert(ctx, schema.Batch{article("u2", "T2", "A2"), article("u1", "dup", "A1")}, def)
			assert.ErrorIs(t, err, engine.ErrConstraintViolation)
			n, err := e.Count(ctx, def.Name)
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			_, err = e.Overwrite(ctx, schema.Batch{article("u3", "T3", "A3")}, def)
			require.NoError(t, err)
			got, err = e.SelectAll(ctx, def.Name)
			require.NoError(t, err)
			assert.Equal(t, schema.Batch{article("u3", "T3", "A3")}, got)

			require.NoError(t, e.DropTable(ctx, def.Name))
			require.NoError(t, e.DropTable(ctx, def.Name))
		})
	}
}

func TestPostgres_BuiltinTables(t *testing.T) {
	ctx := context.Background()
	e := openPostgres(t, "postgres")
	engine.Seed(42)

	for _, def := range schema.Builtin() {
		require.NoError(t, e.DropTable(ctx, def.Name))
		_, err := e.Load(ctx, engine.GenerateBatch(def, 50), def, "upsert")
		require.NoError(t, err, def.Name)

		db, err := sql.Open("postgres", pgDSN)
		require.NoError(t, err)
		cols, err := schema.Describe(ctx, db, e.Dialect(), def.Name)
		db.Close()
		require.NoError(t, err)
		assert.True(t, schema.Diff(def, cols).Clean(), def.Name)
	}
}
