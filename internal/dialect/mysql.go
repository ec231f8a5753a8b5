package dialect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ER_DUP_ENTRY
const mysqlDupEntry = 1062

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string { return "mysql" }

func (d *MysqlDialect) TableExistsQuery() string {
	return `SELECT COUNT(*) FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND TABLE_TYPE = 'BASE TABLE'`
}

func (d *MysqlDialect) ColumnsQuery() string {
	return `SELECT COLUMN_NAME, DATA_TYPE, COLUMN_KEY FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`
}

func (d *MysqlDialect) ColumnType(kind string) string {
	switch kind {
	case KindInteger:
		return "BIGINT"
	case KindFloat:
		return "DOUBLE"
	case KindTimestamp:
		return "DATETIME"
	case KindText:
		return "LONGTEXT"
	default:
		// Two of these (384 * 4 bytes in utf8mb4) fit the 3072 byte index key limit.
		return "VARCHAR(384)"
	}
}

// MaxKeyLength matches the VARCHAR(384) string columns.
func (d *MysqlDialect) MaxKeyLength() int { return 384 }

func (d *MysqlDialect) CreateTableQuery(table string, cols []ColumnDef, keys []string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s %s", table, tableBody(cols, keys))
}

func (d *MysqlDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE %s", table)
}

func (d *MysqlDialect) InsertQuery(table string, cols []string) string {
	return defaultInsertQuery(table, cols, d.Placeholder)
}

func (d *MysqlDialect) UpsertQuery(table string, cols []string, keys []string) string {
	rest := nonKeyColumns(cols, keys)
	if len(rest) == 0 {
		// Key-only table: a no-op update keeps the statement idempotent without INSERT IGNORE.
		rest = keys[:1]
	}
	set := make([]string, len(rest))
	for i, c := range rest {
		set[i] = fmt.Sprintf("%s = VALUES(%s)", c, c)
	}
	return d.InsertQuery(table, cols) + " ON DUPLICATE KEY UPDATE " + strings.Join(set, ", ")
}

func (d *MysqlDialect) DeleteAllQuery(table string) string {
	// TRUNCATE commits implicitly in MySQL, so it cannot sit inside the overwrite transaction.
	return fmt.Sprintf("DELETE FROM %s", table)
}

func (d *MysqlDialect) SelectAllQuery(table string, cols []string, orderBy []string) string {
	return defaultSelectAllQuery(table, cols, orderBy)
}

func (d *MysqlDialect) CountQuery(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) IsUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDupEntry
	}
	return false
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}
