package vektria

import (
	"encoding/json"
	"testing"
)

func makeTable(t *testing.T, cols ...Column) *Table {
	t.Helper()
	table, err := NewTable(cols...)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestNewTable(t *testing.T) {
	table := makeTable(t,
		Column{Name: "id", Type: ColumnInt64, Values: []any{int64(1), int64(2)}},
		Column{Name: "name", Type: ColumnString, Values: []any{"a", "b"}},
	)

	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
	if !table.HasColumn("id") || !table.HasColumn("name") {
		t.Error("expected both columns present")
	}
	if table.HasColumn("missing") {
		t.Error("unexpected column 'missing'")
	}
}

func TestNewTable_Empty(t *testing.T) {
	table := makeTable(t)
	if table.Len() != 0 {
		t.Errorf("empty table Len() = %d, want 0", table.Len())
	}
}

func TestNewTable_DuplicateName(t *testing.T) {
	_, err := NewTable(
		Column{Name: "id", Type: ColumnInt64, Values: []any{int64(1)}},
		Column{Name: "id", Type: ColumnString, Values: []any{"a"}},
	)
	if err == nil {
		t.Fatal("expected error for duplicate column name")
	}
}

func TestNewTable_MissingName(t *testing.T) {
	_, err := NewTable(Column{Type: ColumnInt64, Values: []any{int64(1)}})
	if err == nil {
		t.Fatal("expected error for empty column name")
	}
}

func TestNewTable_LengthMismatch(t *testing.T) {
	_, err := NewTable(
		Column{Name: "id", Type: ColumnInt64, Values: []any{int64(1), int64(2)}},
		Column{Name: "name", Type: ColumnString, Values: []any{"a"}},
	)
	if err == nil {
		t.Fatal("expected error for unequal column lengths")
	}
}

func TestTable_Column(t *testing.T) {
	table := makeTable(t,
		Column{Name: "id", Type: ColumnInt64, Values: []any{int64(1)}},
	)

	col, ok := table.Column("id")
	if !ok {
		t.Fatal("expected column 'id'")
	}
	if col.Type != ColumnInt64 || len(col.Values) != 1 {
		t.Errorf("unexpected column: %+v", col)
	}
}

func TestTable_DropColumn(t *testing.T) {
	table := makeTable(t,
		Column{Name: "id", Type: ColumnInt64, Values: []any{int64(1)}},
		Column{Name: "name", Type: ColumnString, Values: []any{"a"}},
	)

	dropped := table.DropColumn("id")
	if dropped.HasColumn("id") {
		t.Error("dropped table must not contain 'id'")
	}
	if !dropped.HasColumn("name") {
		t.Error("dropped table must keep 'name'")
	}
	// Original is untouched.
	if !table.HasColumn("id") {
		t.Error("original table must keep 'id'")
	}
}

func TestColumn_AllNil(t *testing.T) {
	if !(Column{Name: "x", Values: []any{nil, nil}}).allNil() {
		t.Error("all-nil column must report allNil")
	}
	if (Column{Name: "x", Values: []any{nil, int64(1)}}).allNil() {
		t.Error("mixed column must not report allNil")
	}
	if !(Column{Name: "x"}).allNil() {
		t.Error("empty column must report allNil")
	}
}

func TestTable_JSONRoundTrip(t *testing.T) {
	table := makeTable(t,
		Column{Name: "title", Type: ColumnString, Values: []any{"alien", "heat"}},
		Column{Name: "vec", Type: ColumnObject, Values: []any{
			[]any{0.1, 0.2},
			[]any{0.3, 0.4},
		}},
	)

	data, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Table
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.Len() != 2 {
		t.Errorf("decoded Len() = %d, want 2", decoded.Len())
	}
	col, ok := decoded.Column("title")
	if !ok {
		t.Fatal("decoded table missing 'title'")
	}
	if col.Type != ColumnString {
		t.Errorf("decoded column type = %d, want %d", col.Type, ColumnString)
	}
}

func TestTable_UnmarshalInvalid(t *testing.T) {
	var decoded Table
	// Columns of unequal length fail table validation on decode.
	raw := `[{"name":"a","type":4,"values":[1,2]},{"name":"b","type":7,"values":["x"]}]`
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		t.Fatal("expected error for unequal columns")
	}
}
