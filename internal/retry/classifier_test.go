package retry

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestConnectionErrorClassifier_IsTransient(t *testing.T) {
	classifier := NewConnectionErrorClassifier()

	tests := []struct {
		name        string
		err         error
		isTransient bool
	}{
		{"nil", nil, false},
		{"pgx connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"pgx too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"pgx cannot connect now", &pgconn.PgError{Code: "57P03"}, true},
		{"pgx deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"pgx auth failure", &pgconn.PgError{Code: "28P01"}, false},
		{"pgx unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"pq admin shutdown", &pq.Error{Code: "57P01"}, true},
		{"pq invalid password", &pq.Error{Code: "28P01"}, false},
		{"mysql too many connections", &mysql.MySQLError{Number: 1040}, true},
		{"mysql access denied", &mysql.MySQLError{Number: 1045}, false},
		{"mysql invalid conn", mysql.ErrInvalidConn, true},
		{"connection refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, true},
		{"wrapped connection reset", fmt.Errorf("ping: %w", &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}), true},
		{"oracle no listener", errors.New("ORA-12541: TNS:no listener"), true},
		{"mssql message", errors.New("unable to open tcp connection with host 'db:1433': dial tcp: i/o timeout"), true},
		{"plain error", errors.New("syntax error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isTransient, classifier.IsTransient(tt.err))
		})
	}
}
