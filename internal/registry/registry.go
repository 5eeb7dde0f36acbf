// Package registry persists validated collection schemas and their
// ingested row batches. Schemas move across this boundary in their plain
// nested-map wire form; the SDK layer owns the typed representation.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Sentinel errors for registry lookups.
var (
	// ErrNotFound signals a missing collection.
	ErrNotFound = errors.New("collection not found")
	// ErrAlreadyExists signals a duplicate collection.
	ErrAlreadyExists = errors.New("collection already exists")
)

// store is the consumer interface for the registry (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Registry stores collection schemas keyed by collection name.
type Registry struct {
	store  store
	prefix string
}

// New creates a schema registry over the given store.
func New(s store, keyPrefix string) *Registry {
	if keyPrefix == "" {
		keyPrefix = "vektria:"
	}
	return &Registry{store: s, prefix: keyPrefix}
}

func (r *Registry) schemaKey(name string) string {
	return r.prefix + "schema:" + name
}

func (r *Registry) rowsKey(collection, batchID string) string {
	return r.prefix + "rows:" + collection + ":" + batchID
}

// Create stores a collection schema. The schema document is the plain
// nested-map form produced by the SDK's serializer.
func (r *Registry) Create(ctx context.Context, name string, schema map[string]any) error {
	key := r.schemaKey(name)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}

	doc, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema %s: %w", name, err)
	}
	fields := map[string]string{
		"name":        name,
		"schema_json": string(doc),
		"created_at":  strconv.FormatInt(time.Now().UnixMilli(), 10),
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset schema %s: %w", name, err)
	}
	return nil
}

// Get retrieves a collection schema document by name.
func (r *Registry) Get(ctx context.Context, name string) (map[string]any, error) {
	m, err := r.store.HGetAll(ctx, r.schemaKey(name))
	if err != nil {
		return nil, fmt.Errorf("hgetall schema %s: %w", name, err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	var schema map[string]any
	if err := json.Unmarshal([]byte(m["schema_json"]), &schema); err != nil {
		return nil, fmt.Errorf("unmarshal schema %s: %w", name, err)
	}
	return schema, nil
}

// List returns all collection names, sorted.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, r.schemaKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan schemas: %w", err)
	}

	names := make([]string, 0, len(keys))
	prefix := r.schemaKey("")
	for _, key := range keys {
		names = append(names, key[len(prefix):])
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a collection schema.
func (r *Registry) Delete(ctx context.Context, name string) error {
	key := r.schemaKey(name)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del schema %s: %w", name, err)
	}
	return nil
}

// AppendRows persists a validated row batch under a fresh batch key.
// The payload is the JSON-encoded insert data; count is its row count.
func (r *Registry) AppendRows(ctx context.Context, collection, batchID string, payload []byte, count int) error {
	batch, err := json.Marshal(map[string]any{
		"collection": collection,
		"count":      count,
		"data":       json.RawMessage(payload),
		"created_at": time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("marshal batch %s: %w", batchID, err)
	}
	if err := r.store.Set(ctx, r.rowsKey(collection, batchID), batch); err != nil {
		return fmt.Errorf("set batch %s: %w", batchID, err)
	}
	return nil
}
