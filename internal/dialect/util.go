package dialect

import (
	"fmt"
	"strings"
)

// GeneratePlaceholders is a helper function to create a slice of placeholder strings.
// It takes the number of placeholders needed and a function that returns the placeholder for a given index.
// It returns a comma-separated string of the generated placeholders.
func GeneratePlaceholders(count int, placeholderFunc func(int) string) string {
	placeholders := make([]string, count)
	for i := 0; i < count; i++ {
		placeholders[i] = placeholderFunc(i)
	}
	return strings.Join(placeholders, ", ")
}

// DefaultNormalizeType is a default implementation for type normalization (lowercase).
func DefaultNormalizeType(sqlType string) string {
	return strings.ToLower(sqlType)
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}

// tableBody renders "(a TEXT, b BIGINT, PRIMARY KEY (a))".
func tableBody(cols []ColumnDef, keys []string) string {
	parts := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		parts = append(parts, c.Name+" "+c.Type)
	}
	if len(keys) > 0 {
		parts = append(parts, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(keys, ", ")))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// nonKeyColumns returns cols minus keys, preserving order.
func nonKeyColumns(cols, keys []string) []string {
	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[strings.ToLower(k)] = true
	}
	var out []string
	for _, c := range cols {
		if !isKey[strings.ToLower(c)] {
			out = append(out, c)
		}
	}
	return out
}

func defaultInsertQuery(table string, cols []string, placeholder func(int) string) string {
	vals := GeneratePlaceholders(len(cols), placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), vals)
}

func defaultSelectAllQuery(table string, cols []string, orderBy []string) string {
	list := "*"
	if len(cols) > 0 {
		list = strings.Join(cols, ", ")
	}
	query := fmt.Sprintf("SELECT %s FROM %s", list, table)
	if len(orderBy) > 0 {
		query += " ORDER BY " + strings.Join(orderBy, ", ")
	}
	return query
}

// mergeQuery renders a MERGE upsert. source is the USING row source built
// from the placeholders, e.g. "SELECT @p1 AS a" or "SELECT :1 AS a FROM dual".
func mergeQuery(target, source string, cols, keys []string, terminator string) string {
	on := make([]string, len(keys))
	for i, k := range keys {
		on[i] = fmt.Sprintf("tgt.%s = src.%s", k, k)
	}
	srcCols := make([]string, len(cols))
	for i, c := range cols {
		srcCols[i] = "src." + c
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MERGE INTO %s tgt USING (%s) src ON (%s)", target, source, strings.Join(on, " AND "))
	if rest := nonKeyColumns(cols, keys); len(rest) > 0 {
		set := make([]string, len(rest))
		for i, c := range rest {
			set[i] = fmt.Sprintf("tgt.%s = src.%s", c, c)
		}
		fmt.Fprintf(&b, " WHEN MATCHED THEN UPDATE SET %s", strings.Join(set, ", "))
	}
	fmt.Fprintf(&b, " WHEN NOT MATCHED THEN INSERT (%s) VALUES (%s)%s",
		strings.Join(cols, ", "), strings.Join(srcCols, ", "), terminator)
	return b.String()
}

// mergeSource builds "SELECT <ph> AS a, <ph> AS b" for MERGE statements.
func mergeSource(cols []string, placeholder func(int) string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprintf("%s AS %s", placeholder(i), c)
	}
	return "SELECT " + strings.Join(parts, ", ")
}
