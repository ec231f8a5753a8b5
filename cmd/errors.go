package cmd

import (
	"context"
	"errors"

	"news-etl/internal/engine"
)

// Exit codes returned by the CLI
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitValidationError = 2
	ExitSchemaError     = 3
	ExitConstraintError = 4
	ExitConnectionError = 5
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, engine.ErrValidation):
		return ExitValidationError
	case errors.Is(err, engine.ErrSchema):
		return ExitSchemaError
	case errors.Is(err, engine.ErrConstraintViolation):
		return ExitConstraintError
	case errors.Is(err, engine.ErrConnection), errors.Is(err, context.DeadlineExceeded):
		return ExitConnectionError
	}
	return ExitGeneralError
}
