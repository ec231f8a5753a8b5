package cmd

import (
	"errors"
	"fmt"
	"testing"

	"news-etl/internal/engine"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	wrap := func(kind error) error {
		return fmt.Errorf("load news_raw_table: %w", &engine.LoadError{Op: "upsert", Table: "news_raw_table", Rows: 3, Kind: kind, Err: errors.New("driver says no")})
	}

	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitValidationError, ExitCode(wrap(engine.ErrValidation)))
	assert.Equal(t, ExitSchemaError, ExitCode(wrap(engine.ErrSchema)))
	assert.Equal(t, ExitConstraintError, ExitCode(wrap(engine.ErrConstraintViolation)))
	assert.Equal(t, ExitConnectionError, ExitCode(wrap(engine.ErrConnection)))
	assert.Equal(t, ExitGeneralError, ExitCode(errors.New("boom")))
}
