// Package logging points the standard logger at stderr and a size-rotated
// log file for the duration of one run.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// MaxSizeMB is the size at which the log file rotates.
const MaxSizeMB = 500

// Run is the logging state of one CLI invocation.
type Run struct {
	ID   string
	Path string // empty when file logging is disabled

	file *lumberjack.Logger
}

// Setup sends log output to stderr and, when dir is non-empty, to
// dir/news-etl_<timestamp>.log. Every line is prefixed with a short run ID.
func Setup(dir string, now time.Time) (*Run, error) {
	run := &Run{ID: uuid.NewString()[:8]}

	var out io.Writer = os.Stderr
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		run.Path = filepath.Join(dir, fmt.Sprintf("news-etl_%s.log", now.Format("20060102150405")))
		run.file = &lumberjack.Logger{
			Filename: run.Path,
			MaxSize:  MaxSizeMB,
		}
		out = io.MultiWriter(os.Stderr, run.file)
	}

	log.SetOutput(out)
	log.SetFlags(log.LstdFlags)
	log.SetPrefix("[" + run.ID + "] ")
	return run, nil
}

// Close flushes the log file and restores the default logger.
func (r *Run) Close() error {
	log.SetOutput(os.Stderr)
	log.SetPrefix("")
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}
