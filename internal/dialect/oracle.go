package dialect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sijms/go-ora/v2/network"
)

// ORA-00001: unique constraint violated
const oraUniqueViolation = 1

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

func (d *OracleDialect) TableExistsQuery() string {
	// Oracle stores unquoted identifiers in upper case.
	return `SELECT COUNT(*) FROM USER_TABLES WHERE TABLE_NAME = UPPER(:1)`
}

func (d *OracleDialect) ColumnsQuery() string {
	return `SELECT c.COLUMN_NAME, c.DATA_TYPE,
	(SELECT 'PRI' FROM USER_CONS_COLUMNS cc
	 JOIN USER_CONSTRAINTS uc ON cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME
	 WHERE uc.CONSTRAINT_TYPE = 'P' AND cc.TABLE_NAME = c.TABLE_NAME AND cc.COLUMN_NAME = c.COLUMN_NAME AND ROWNUM = 1) AS COLUMN_KEY
FROM USER_TAB_COLUMNS c
WHERE c.TABLE_NAME = UPPER(:1)
ORDER BY c.COLUMN_ID`
}

func (d *OracleDialect) ColumnType(kind string) string {
	switch kind {
	case KindInteger:
		return "NUMBER(19)"
	case KindFloat:
		return "BINARY_DOUBLE"
	case KindTimestamp:
		return "TIMESTAMP"
	case KindText:
		return "CLOB"
	default:
		return "VARCHAR2(1000 CHAR)"
	}
}

func (d *OracleDialect) MaxKeyLength() int { return 1000 }

func (d *OracleDialect) CreateTableQuery(table string, cols []ColumnDef, keys []string) string {
	// No IF NOT EXISTS before 23c; the engine checks TableExistsQuery first.
	return fmt.Sprintf("CREATE TABLE %s %s", table, tableBody(cols, keys))
}

func (d *OracleDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE %s", table)
}

func (d *OracleDialect) InsertQuery(table string, cols []string) string {
	return defaultInsertQuery(table, cols, d.Placeholder)
}

func (d *OracleDialect) UpsertQuery(table string, cols []string, keys []string) string {
	return mergeQuery(table, mergeSource(cols, d.Placeholder)+" FROM dual", cols, keys, "")
}

func (d *OracleDialect) DeleteAllQuery(table string) string {
	// TRUNCATE is DDL in Oracle and commits immediately.
	return fmt.Sprintf("DELETE FROM %s", table)
}

func (d *OracleDialect) SelectAllQuery(table string, cols []string, orderBy []string) string {
	return defaultSelectAllQuery(table, cols, orderBy)
}

func (d *OracleDialect) CountQuery(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
}

func (d *OracleDialect) Placeholder(index int) string {
	// Oracle uses :1, :2, etc. (1-based index)
	return fmt.Sprintf(":%d", index+1)
}

func (d *OracleDialect) IsUniqueViolation(err error) bool {
	var oraErr *network.OracleError
	if errors.As(err, &oraErr) {
		return oraErr.ErrCode == oraUniqueViolation
	}
	return err != nil && strings.Contains(err.Error(), "ORA-00001")
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	s := strings.ToLower(sqlType)
	if strings.Contains(s, "char") || strings.Contains(s, "clob") {
		return "string"
	}
	if strings.Contains(s, "int") || strings.Contains(s, "number") {
		return "integer"
	}
	if strings.Contains(s, "float") || strings.Contains(s, "double") {
		return "float"
	}
	if strings.Contains(s, "date") || strings.Contains(s, "time") {
		return "datetime"
	}
	return s
}

func (d *OracleDialect) GetSchemaName(input string) string {
	return input
}
