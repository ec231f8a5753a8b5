package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// MaxOpenConns caps the pool. A run issues its statements sequentially.
const MaxOpenConns = 4

// Open opens a pool for driver and verifies it with a ping.
// Any failure to reach the server is reported as ErrConnection.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, newError("connect", driver, 0, ErrConnection, fmt.Errorf("failed to open db: %w", err))
	}
	db.SetMaxOpenConns(MaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, newError("connect", driver, 0, ErrConnection, fmt.Errorf("failed to connect to db: %w", err))
	}
	return db, nil
}
