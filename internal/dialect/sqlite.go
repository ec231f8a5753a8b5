package dialect

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string { return "sqlite" }

func (d *SQLiteDialect) TableExistsQuery() string {
	return `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
}

func (d *SQLiteDialect) ColumnsQuery() string {
	// pk is the 1-based position within the key, 0 for non-key columns.
	return `SELECT name, type, CASE WHEN pk > 0 THEN 'PRI' ELSE '' END FROM pragma_table_info(?) ORDER BY cid`
}

func (d *SQLiteDialect) ColumnType(kind string) string {
	switch kind {
	case KindInteger:
		return "INTEGER"
	case KindFloat:
		return "REAL"
	case KindTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func (d *SQLiteDialect) CreateTableQuery(table string, cols []ColumnDef, keys []string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s %s", table, tableBody(cols, keys))
}

func (d *SQLiteDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE %s", table)
}

func (d *SQLiteDialect) InsertQuery(table string, cols []string) string {
	return defaultInsertQuery(table, cols, d.Placeholder)
}

func (d *SQLiteDialect) UpsertQuery(table string, cols []string, keys []string) string {
	query := d.InsertQuery(table, cols) + fmt.Sprintf(" ON CONFLICT (%s)", strings.Join(keys, ", "))
	rest := nonKeyColumns(cols, keys)
	if len(rest) == 0 {
		return query + " DO NOTHING"
	}
	set := make([]string, len(rest))
	for i, c := range rest {
		set[i] = fmt.Sprintf("%s = excluded.%s", c, c)
	}
	return query + " DO UPDATE SET " + strings.Join(set, ", ")
}

func (d *SQLiteDialect) DeleteAllQuery(table string) string {
	return fmt.Sprintf("DELETE FROM %s", table)
}

func (d *SQLiteDialect) SelectAllQuery(table string, cols []string, orderBy []string) string {
	return defaultSelectAllQuery(table, cols, orderBy)
}

func (d *SQLiteDialect) CountQuery(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
}

func (d *SQLiteDialect) Placeholder(index int) string {
	return "?"
}

func (d *SQLiteDialect) IsUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return true
		}
		// connections without extended result codes report the primary code only
		return code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
	}
	return false
}

func (d *SQLiteDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *SQLiteDialect) GetSchemaName(input string) string {
	if input == "" {
		return "main"
	}
	return input
}
