package schema

import "strings"

// Kind is the scalar type of a column.
type Kind string

const (
	KindString    Kind = "string"
	KindInteger   Kind = "integer"
	KindFloat     Kind = "float"
	KindTimestamp Kind = "timestamp"
	KindText      Kind = "text" // long text
)

type Table struct {
	Name    string
	Columns []*Column
}

type Column struct {
	Name string
	Kind Kind
	IsPK bool
}

// Record is a single row keyed by column name. Values are scalars or nil.
type Record map[string]any

// Batch is an ordered sequence of records bound for one table.
type Batch []Record

// PrimaryKey returns the names of the primary key columns in declaration order.
func (t *Table) PrimaryKey() []string {
	var keys []string
	for _, c := range t.Columns {
		if c.IsPK {
			keys = append(keys, c.Name)
		}
	}
	return keys
}

// ColumnNames returns all column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name, case-insensitively.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// 리포트용 구조체
type LoadResult struct {
	TableName string
	Method    string
	Target    int
	Actual    int
	Status    string
	ErrorMsg  string
}
