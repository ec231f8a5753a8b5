package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidDefinition is returned when a table definition cannot be turned into DDL.
	ErrInvalidDefinition = errors.New("invalid table definition")

	// ErrInvalidRecord is returned when a record does not match its table definition.
	ErrInvalidRecord = errors.New("invalid record")
)

// Identifiers are emitted unquoted, so they must be safe on every dialect.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// IsIdentifier reports whether name can be used as a table or column name.
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

func validKind(k Kind) bool {
	switch k {
	case KindString, KindInteger, KindFloat, KindTimestamp, KindText:
		return true
	}
	return false
}

// Validate checks that the definition is well formed.
func Validate(t *Table) error {
	if t == nil {
		return fmt.Errorf("%w: nil definition", ErrInvalidDefinition)
	}
	if !IsIdentifier(t.Name) {
		return fmt.Errorf("%w: bad table name %q", ErrInvalidDefinition, t.Name)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("%w: table %s has no columns", ErrInvalidDefinition, t.Name)
	}

	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if c == nil {
			return fmt.Errorf("%w: table %s has a nil column", ErrInvalidDefinition, t.Name)
		}
		if !IsIdentifier(c.Name) {
			return fmt.Errorf("%w: table %s: bad column name %q", ErrInvalidDefinition, t.Name, c.Name)
		}
		key := strings.ToLower(c.Name)
		if seen[key] {
			return fmt.Errorf("%w: table %s: duplicate column %s", ErrInvalidDefinition, t.Name, c.Name)
		}
		seen[key] = true
		if !validKind(c.Kind) {
			return fmt.Errorf("%w: table %s: column %s has unknown kind %q", ErrInvalidDefinition, t.Name, c.Name, c.Kind)
		}
	}
	return nil
}

// ValidateRecord rejects records carrying columns the definition does not declare.
// When requireKey is set, every primary key column must hold a non-nil value.
func ValidateRecord(t *Table, rec Record, requireKey bool) error {
	for k := range rec {
		if t.Column(k) == nil {
			return fmt.Errorf("%w: unknown column %q for table %s", ErrInvalidRecord, k, t.Name)
		}
	}
	if !requireKey {
		return nil
	}
	for _, pk := range t.PrimaryKey() {
		if v, ok := Lookup(rec, pk); !ok || v == nil {
			return fmt.Errorf("%w: missing primary key %s for table %s", ErrInvalidRecord, pk, t.Name)
		}
	}
	return nil
}

// Lookup fetches a column value, tolerating differences in key case.
func Lookup(rec Record, column string) (any, bool) {
	if v, ok := rec[column]; ok {
		return v, true
	}
	for k, v := range rec {
		if strings.EqualFold(k, column) {
			return v, true
		}
	}
	return nil, false
}

// Values lays a record out in the given column order. Absent columns become nil.
func Values(rec Record, columns []string) []any {
	values := make([]any, len(columns))
	for i, c := range columns {
		values[i], _ = Lookup(rec, c)
	}
	return values
}

// KeyOf builds a comparable key from the primary key values of a record.
func KeyOf(rec Record, keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		v, _ := Lookup(rec, k)
		parts[i] = fmt.Sprintf("%T:%v", v, v)
	}
	return strings.Join(parts, "|")
}

// Dedupe collapses records sharing a primary key. The later record wins,
// and the result keeps the position where each key was first seen.
func Dedupe(batch Batch, keys []string) Batch {
	if len(keys) == 0 || len(batch) < 2 {
		return batch
	}
	index := make(map[string]int, len(batch))
	out := make(Batch, 0, len(batch))
	for _, rec := range batch {
		k := KeyOf(rec, keys)
		if i, ok := index[k]; ok {
			out[i] = rec
			continue
		}
		index[k] = len(out)
		out = append(out, rec)
	}
	return out
}
