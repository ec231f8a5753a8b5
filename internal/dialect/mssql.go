package dialect

import (
	"errors"
	"fmt"
	"strings"

	mssql "github.com/denisenkom/go-mssqldb" // SQL Server Driver
)

// 2627: PRIMARY KEY / UNIQUE constraint, 2601: unique index
const (
	mssqlPKViolation     = 2627
	mssqlUniqueIndexDupe = 2601
)

type MSSQLDialect struct{}

// Helper: MSSQL Driver (go-mssqldb) often prefers @p1, @p2 named parameters over ?
// especially when prepared statements are involved or simple Exec.

func (d *MSSQLDialect) Name() string { return "sqlserver" }

func (d *MSSQLDialect) TableExistsQuery() string {
	return `SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE' AND TABLE_SCHEMA = SCHEMA_NAME() AND TABLE_NAME = @p1`
}

func (d *MSSQLDialect) ColumnsQuery() string {
	return `
		SELECT 
			c.COLUMN_NAME, 
			c.DATA_TYPE, 
			CASE WHEN pk.COLUMN_NAME IS NOT NULL THEN 'PRIMARY' ELSE '' END AS COLUMN_KEY
		FROM INFORMATION_SCHEMA.COLUMNS c
		LEFT JOIN (
			SELECT kcu.TABLE_SCHEMA, kcu.TABLE_NAME, kcu.COLUMN_NAME
			FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
			JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu 
				ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
			WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
		) pk ON c.TABLE_SCHEMA = pk.TABLE_SCHEMA AND c.TABLE_NAME = pk.TABLE_NAME AND c.COLUMN_NAME = pk.COLUMN_NAME
		WHERE c.TABLE_SCHEMA = SCHEMA_NAME() AND c.TABLE_NAME = @p1
		ORDER BY c.ORDINAL_POSITION`
}

func (d *MSSQLDialect) ColumnType(kind string) string {
	switch kind {
	case KindInteger:
		return "BIGINT"
	case KindFloat:
		return "FLOAT"
	case KindTimestamp:
		return "DATETIME2"
	case KindText:
		return "NVARCHAR(MAX)"
	default:
		// 900 byte clustered index key limit.
		return "NVARCHAR(450)"
	}
}

// NVARCHAR(450) keeps string keys under the 900 byte index limit.
func (d *MSSQLDialect) MaxKeyLength() int { return 450 }

func (d *MSSQLDialect) CreateTableQuery(table string, cols []ColumnDef, keys []string) string {
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s %s", table, table, tableBody(cols, keys))
}

func (d *MSSQLDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE %s", table)
}

func (d *MSSQLDialect) InsertQuery(table string, cols []string) string {
	return defaultInsertQuery(table, cols, d.Placeholder)
}

func (d *MSSQLDialect) UpsertQuery(table string, cols []string, keys []string) string {
	// HOLDLOCK closes the gap between the match and the insert for concurrent writers.
	return mergeQuery(table+" WITH (HOLDLOCK)", mergeSource(cols, d.Placeholder), cols, keys, ";")
}

func (d *MSSQLDialect) DeleteAllQuery(table string) string {
	// MSSQL: Use DELETE instead of TRUNCATE to avoid FK issues
	return fmt.Sprintf("DELETE FROM %s", table)
}

func (d *MSSQLDialect) SelectAllQuery(table string, cols []string, orderBy []string) string {
	return defaultSelectAllQuery(table, cols, orderBy)
}

func (d *MSSQLDialect) CountQuery(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) IsUniqueViolation(err error) bool {
	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return msErr.Number == mssqlPKViolation || msErr.Number == mssqlUniqueIndexDupe
	}
	return false
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch t {
	case "nvarchar", "nchar", "text", "ntext":
		return "varchar"
	case "bit":
		return "boolean"
	case "int":
		return "int"
	case "bigint":
		return "bigint"
	case "decimal", "numeric", "money", "smallmoney":
		return "decimal"
	case "float", "real":
		return "float"
	case "datetime", "datetime2", "smalldatetime", "date":
		return "datetime"
	default:
		return t
	}
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}
