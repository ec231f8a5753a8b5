package logging_test

import (
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"news-etl/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesRunFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	now := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	run, err := logging.Setup(dir, now)
	require.NoError(t, err)
	assert.Len(t, run.ID, 8)
	assert.Equal(t, filepath.Join(dir, "news-etl_20240301103000.log"), run.Path)

	log.Printf("loading %s", "news_raw_table")
	require.NoError(t, run.Close())

	data, err := os.ReadFile(run.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "["+run.ID+"] ")
	assert.Contains(t, string(data), "loading news_raw_table")
}

func TestSetup_StderrOnly(t *testing.T) {
	run, err := logging.Setup("", time.Now())
	require.NoError(t, err)
	assert.Empty(t, run.Path)
	assert.NoError(t, run.Close())
}
