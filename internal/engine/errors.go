package engine

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is; every engine failure wraps exactly one.
var (
	ErrValidation          = errors.New("validation error")
	ErrSchema              = errors.New("schema error")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrConnection          = errors.New("connection error")
)

// LoadError reports a failed engine operation with enough context to
// diagnose it from the log alone.
type LoadError struct {
	Op    string // create, insert, upsert, overwrite, select, drop, count, load
	Table string
	Rows  int   // records attempted
	Kind  error // one of the Err* sentinels
	Err   error // underlying cause, may be nil
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s %s (%d rows): %v", e.Op, e.Table, e.Rows, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the driver error.
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op, table string, rows int, kind, err error) *LoadError {
	return &LoadError{Op: op, Table: table, Rows: rows, Kind: kind, Err: err}
}
