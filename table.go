package vektria

import (
	"encoding/json"
	"fmt"
)

// Column is one named, typed column of a Table. Object columns carry
// arbitrary Go values and are resolved by sampling during inference.
type Column struct {
	Name   string     `json:"name"`
	Type   ColumnType `json:"type"`
	Values []any      `json:"values"`
}

// allNil reports whether every value of the column is nil.
func (c Column) allNil() bool {
	for _, v := range c.Values {
		if v != nil {
			return false
		}
	}
	return true
}

// Table is a column-oriented payload: an ordered sequence of named columns
// of equal length. It is the tabular input shape for insert and upsert.
type Table struct {
	cols []Column
}

// NewTable validates and creates a Table.
// Column names must be unique and all columns must have the same length.
func NewTable(cols ...Column) (*Table, error) {
	if len(cols) == 0 {
		return &Table{}, nil
	}
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("column name is required")
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("duplicate column name: %s", c.Name)
		}
		seen[c.Name] = true
	}
	for _, c := range cols[1:] {
		if len(c.Values) != len(cols[0].Values) {
			return nil, fmt.Errorf(
				"column %s has %d values, expected %d",
				c.Name, len(c.Values), len(cols[0].Values),
			)
		}
	}
	copied := make([]Column, len(cols))
	copy(copied, cols)
	return &Table{cols: copied}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Values)
}

// Columns returns the ordered columns.
func (t *Table) Columns() []Column { return t.cols }

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.cols {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// DropColumn returns a new Table without the named column.
func (t *Table) DropColumn(name string) *Table {
	cols := make([]Column, 0, len(t.cols))
	for _, c := range t.cols {
		if c.Name != name {
			cols = append(cols, c)
		}
	}
	return &Table{cols: cols}
}

// MarshalJSON encodes the table as its ordered column list.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.cols)
}

// UnmarshalJSON decodes a column list and validates it as a Table.
func (t *Table) UnmarshalJSON(data []byte) error {
	var cols []Column
	if err := json.Unmarshal(data, &cols); err != nil {
		return err
	}
	decoded, err := NewTable(cols...)
	if err != nil {
		return err
	}
	*t = *decoded
	return nil
}
