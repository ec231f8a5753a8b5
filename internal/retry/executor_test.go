package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

// mockOperation tracks invocation count and simulates transient failures
type mockOperation struct {
	invocations int
	failUntil   int // fail for invocations < failUntil
	fatalErr    error
}

func (m *mockOperation) execute(ctx context.Context) error {
	m.invocations++
	if m.invocations < m.failUntil {
		return &pgconn.PgError{Code: "08006", Message: "connection failure"}
	}
	if m.invocations == m.failUntil && m.fatalErr != nil {
		return m.fatalErr
	}
	return nil
}

func fastExecutor(maxAttempts int) *Executor {
	return NewExecutor(NewConnectionErrorClassifier(),
		NewExponentialBackoff(maxAttempts, WithInitialDelay(time.Millisecond), WithJitter(0)))
}

func TestExecutor_SuccessOnFirstAttempt(t *testing.T) {
	op := &mockOperation{failUntil: 1}
	assert.NoError(t, fastExecutor(3).Execute(context.Background(), op.execute))
	assert.Equal(t, 1, op.invocations)
}

func TestExecutor_SuccessAfterRetries(t *testing.T) {
	var retries []int
	executor := fastExecutor(5).WithOnRetry(func(attempt int, err error, delay time.Duration) {
		retries = append(retries, attempt)
	})

	op := &mockOperation{failUntil: 3}
	assert.NoError(t, executor.Execute(context.Background(), op.execute))
	assert.Equal(t, 3, op.invocations)
	assert.Equal(t, []int{0, 1}, retries)
}

func TestExecutor_ExhaustsAttempts(t *testing.T) {
	op := &mockOperation{failUntil: 100}
	err := fastExecutor(2).Execute(context.Background(), op.execute)

	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr)
	assert.Equal(t, 3, op.invocations, "initial attempt plus two retries")
}

func TestExecutor_FatalErrorStopsImmediately(t *testing.T) {
	fatal := &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}
	op := &mockOperation{failUntil: 1, fatalErr: fatal}

	err := fastExecutor(5).Execute(context.Background(), op.execute)
	assert.Same(t, fatal, err)
	assert.Equal(t, 1, op.invocations)
}

func TestExecutor_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	executor := NewExecutor(NewConnectionErrorClassifier(),
		NewExponentialBackoff(5, WithInitialDelay(time.Hour), WithJitter(0))).
		WithOnRetry(func(int, error, time.Duration) { cancel() })

	op := &mockOperation{failUntil: 100}
	err := executor.Execute(ctx, op.execute)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, op.invocations)
}

func TestNewExecutor_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewExecutor(nil, NewExponentialBackoff(1)) })
	assert.Panics(t, func() { NewExecutor(NewConnectionErrorClassifier(), nil) })
}
