package dialect

// Dialect abstracts database-specific SQL generation and error handling.
// Table and column names are passed in already validated, and are emitted unquoted.
type Dialect interface {
	Name() string

	// Catalog Queries. Each takes the table name as its only bind parameter.
	TableExistsQuery() string // returns a single count
	ColumnsQuery() string     // returns column name, data type, key marker

	// DDL
	ColumnType(kind string) string
	CreateTableQuery(table string, cols []ColumnDef, keys []string) string
	DropTableQuery(table string) string

	// DML
	InsertQuery(table string, cols []string) string
	UpsertQuery(table string, cols []string, keys []string) string
	DeleteAllQuery(table string) string
	SelectAllQuery(table string, cols []string, orderBy []string) string
	CountQuery(table string) string
	Placeholder(index int) string // Returns ?, $1, @p1, :1

	// Error Classification
	IsUniqueViolation(err error) bool

	// Helpers
	NormalizeType(sqlType string) string
	GetSchemaName(input string) string
}

// KeyLimiter is implemented by dialects whose string key columns are
// bounded (VARCHAR(n) and friends). MaxKeyLength is in characters.
type KeyLimiter interface {
	MaxKeyLength() int
}

// ColumnDef is one column of a CREATE TABLE statement, type already mapped.
type ColumnDef struct {
	Name string
	Type string
}

// Scalar kinds understood by ColumnType.
const (
	KindString    = "string"
	KindInteger   = "integer"
	KindFloat     = "float"
	KindTimestamp = "timestamp"
	KindText      = "text"
)
