package splitter

import (
	"fmt"
	"maps"
)

// Mapper translates categorical labels to compact codes before they are
// written, e.g. Station "Changi" -> "0". The zero value maps nothing.
// A Mapper is immutable once constructed.
type Mapper struct {
	tables map[string]map[string]string
}

// NewMapper copies tables ({column: {label: code}}) into a Mapper.
func NewMapper(tables map[string]map[string]string) Mapper {
	m := Mapper{tables: make(map[string]map[string]string, len(tables))}
	for col, t := range tables {
		m.tables[col] = maps.Clone(t)
	}
	return m
}

// Maps reports whether column has a table.
func (m Mapper) Maps(column string) bool {
	_, ok := m.tables[column]
	return ok
}

// Map returns the code for v. Columns without a table pass through unchanged.
func (m Mapper) Map(column, v string) (string, error) {
	t, ok := m.tables[column]
	if !ok {
		return v, nil
	}
	code, ok := t[v]
	if !ok {
		return "", fmt.Errorf("%s %q: %w", column, v, ErrUnmappedValue)
	}
	return code, nil
}

// Label returns the label whose code is code, if any.
func (m Mapper) Label(column, code string) (string, bool) {
	for label, c := range m.tables[column] {
		if c == code {
			return label, true
		}
	}
	return "", false
}
