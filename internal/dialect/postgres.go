package dialect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE unique_violation
const pgUniqueViolation = "23505"

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) TableExistsQuery() string {
	// Unquoted identifiers fold to lower case in Postgres.
	return `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = lower($1)`
}

func (d *PostgresDialect) ColumnsQuery() string {
	// UDT_NAME is more precise than DATA_TYPE (int8 vs bigint). The subquery marks PK columns.
	return `SELECT 
    c.column_name, 
    c.udt_name, 
    (SELECT 'PRI' FROM information_schema.table_constraints tc 
     JOIN information_schema.key_column_usage kcu ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema 
     WHERE tc.constraint_type = 'PRIMARY KEY' 
     AND kcu.table_schema = c.table_schema AND kcu.table_name = c.table_name AND kcu.column_name = c.column_name LIMIT 1) AS column_key
FROM information_schema.columns c
WHERE c.table_schema = current_schema() AND c.table_name = lower($1)
ORDER BY c.ordinal_position`
}

func (d *PostgresDialect) ColumnType(kind string) string {
	switch kind {
	case KindInteger:
		return "BIGINT"
	case KindFloat:
		return "DOUBLE PRECISION"
	case KindTimestamp:
		return "TIMESTAMP"
	default: // string, text
		return "TEXT"
	}
}

func (d *PostgresDialect) CreateTableQuery(table string, cols []ColumnDef, keys []string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s %s", table, tableBody(cols, keys))
}

func (d *PostgresDialect) DropTableQuery(table string) string {
	// No CASCADE: dependent views must make the drop fail.
	return fmt.Sprintf("DROP TABLE %s", table)
}

func (d *PostgresDialect) InsertQuery(table string, cols []string) string {
	return defaultInsertQuery(table, cols, d.Placeholder)
}

func (d *PostgresDialect) UpsertQuery(table string, cols []string, keys []string) string {
	query := d.InsertQuery(table, cols) + fmt.Sprintf(" ON CONFLICT (%s)", strings.Join(keys, ", "))
	rest := nonKeyColumns(cols, keys)
	if len(rest) == 0 {
		return query + " DO NOTHING"
	}
	set := make([]string, len(rest))
	for i, c := range rest {
		set[i] = fmt.Sprintf("%s = EXCLUDED.%s", c, c)
	}
	return query + " DO UPDATE SET " + strings.Join(set, ", ")
}

func (d *PostgresDialect) DeleteAllQuery(table string) string {
	// DELETE rather than TRUNCATE so concurrent readers keep seeing the old rows until commit.
	return fmt.Sprintf("DELETE FROM %s", table)
}

func (d *PostgresDialect) SelectAllQuery(table string, cols []string, orderBy []string) string {
	return defaultSelectAllQuery(table, cols, orderBy)
}

func (d *PostgresDialect) CountQuery(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

// IsUniqueViolation understands both lib/pq and pgx errors.
func (d *PostgresDialect) IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch t {
	case "int4", "int2":
		return "int"
	case "int8":
		return "bigint"
	case "float4":
		return "float"
	case "float8":
		return "double"
	case "bpchar":
		return "char"
	case "varchar":
		return "varchar"
	default:
		return t
	}
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}
