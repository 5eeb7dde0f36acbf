package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/vektria-cloud/vektria-go/internal/db/memory"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return New(memory.NewStore(), "test:")
}

func sampleSchema() map[string]any {
	return map[string]any{
		"auto_id":     false,
		"description": "sample",
		"fields": []map[string]any{
			{"name": "id", "type": 5, "is_primary": true, "auto_id": false},
			{"name": "vec", "type": 101, "params": map[string]any{"dim": 2}},
		},
	}
}

func TestRegistry_CreateAndGet(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	if err := reg.Create(ctx, "movies", sampleSchema()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := reg.Get(ctx, "movies")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got["description"] != "sample" {
		t.Errorf("description = %v, want sample", got["description"])
	}
	fields, ok := got["fields"].([]any)
	if !ok || len(fields) != 2 {
		t.Errorf("fields = %v, want 2 entries", got["fields"])
	}
}

func TestRegistry_Create_Duplicate(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	if err := reg.Create(ctx, "movies", sampleSchema()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := reg.Create(ctx, "movies", sampleSchema())
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRegistry_Get_Missing(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := reg.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistry_List(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	for _, name := range []string{"zebra", "apple", "mango"} {
		if err := reg.Create(ctx, name, sampleSchema()); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	names, err := reg.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"apple", "mango", "zebra"}
	if len(names) != len(want) {
		t.Fatalf("List = %v, want %v", names, want)
	}
	for i, n := range names {
		if n != want[i] {
			t.Errorf("List[%d] = %q, want %q (sorted)", i, n, want[i])
		}
	}
}

func TestRegistry_List_Empty(t *testing.T) {
	reg := newTestRegistry(t)

	names, err := reg.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List = %v, want empty", names)
	}
}

func TestRegistry_Delete(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	if err := reg.Create(ctx, "movies", sampleSchema()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := reg.Delete(ctx, "movies"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := reg.Get(ctx, "movies"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: expected ErrNotFound, got %v", err)
	}
	if err := reg.Delete(ctx, "movies"); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: expected ErrNotFound, got %v", err)
	}
}

func TestRegistry_AppendRows(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	payload := []byte(`[["alien"],[[0.1,0.2]]]`)
	if err := reg.AppendRows(ctx, "movies", "batch-1", payload, 1); err != nil {
		t.Fatalf("AppendRows: %v", err)
	}
}

func TestNew_DefaultPrefix(t *testing.T) {
	reg := New(memory.NewStore(), "")
	if reg.prefix != "vektria:" {
		t.Errorf("default prefix = %q, want %q", reg.prefix, "vektria:")
	}
}
