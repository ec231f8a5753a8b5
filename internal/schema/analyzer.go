package schema

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"news-etl/internal/dialect"
)

// Querier is the read side of *sql.DB.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// PhysicalColumn is a column as reported by the database catalog.
type PhysicalColumn struct {
	Name     string
	DataType string // normalized by the dialect
	IsPK     bool
}

// Drift lists the differences between a definition and its physical table.
type Drift struct {
	Table   string
	Exists  bool
	Missing []string // declared but not present
	Extra   []string // present but not declared
	KeyDiff bool     // primary key columns differ
}

// Clean reports whether the physical table matches the definition.
func (d *Drift) Clean() bool {
	return d.Exists && len(d.Missing) == 0 && len(d.Extra) == 0 && !d.KeyDiff
}

// ---------------------------------------------------------------------
// Catalog introspection
// ---------------------------------------------------------------------

// Describe returns the columns of a physical table in ordinal order.
// An empty result means the table does not exist.
func Describe(ctx context.Context, db Querier, d dialect.Dialect, table string) ([]*PhysicalColumn, error) {
	rows, err := db.QueryContext(ctx, d.ColumnsQuery(), table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []*PhysicalColumn
	for rows.Next() {
		var cName, dType, cKey sql.NullString
		if err := rows.Scan(&cName, &dType, &cKey); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", table, err)
		}
		if !cName.Valid {
			continue
		}

		// PK Detection
		key := strings.ToUpper(cKey.String)
		isPK := strings.Contains(key, "PRI") || key == "1"

		cols = append(cols, &PhysicalColumn{
			Name:     strings.ToLower(cName.String),
			DataType: d.NormalizeType(dType.String),
			IsPK:     isPK,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns of %s: %w", table, err)
	}
	return cols, nil
}

// Diff compares a definition with the columns Describe returned.
func Diff(t *Table, physical []*PhysicalColumn) *Drift {
	drift := &Drift{Table: t.Name, Exists: len(physical) > 0}
	if !drift.Exists {
		return drift
	}

	present := make(map[string]*PhysicalColumn, len(physical))
	for _, c := range physical {
		present[strings.ToLower(c.Name)] = c
	}

	var declaredKeys, physicalKeys []string
	for _, c := range t.Columns {
		name := strings.ToLower(c.Name)
		if c.IsPK {
			declaredKeys = append(declaredKeys, name)
		}
		if _, ok := present[name]; !ok {
			drift.Missing = append(drift.Missing, c.Name)
		}
	}
	for _, c := range physical {
		if c.IsPK {
			physicalKeys = append(physicalKeys, strings.ToLower(c.Name))
		}
		if t.Column(c.Name) == nil {
			drift.Extra = append(drift.Extra, c.Name)
		}
	}

	sort.Strings(declaredKeys)
	sort.Strings(physicalKeys)
	drift.KeyDiff = strings.Join(declaredKeys, ",") != strings.Join(physicalKeys, ",")
	return drift
}
