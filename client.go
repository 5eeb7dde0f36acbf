package vektria

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vektria-cloud/vektria-go/internal/db"
	dbMemory "github.com/vektria-cloud/vektria-go/internal/db/memory"
	dbRedis "github.com/vektria-cloud/vektria-go/internal/db/redis"
	"github.com/vektria-cloud/vektria-go/internal/registry"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the vektria SDK entry point. Every insert and upsert is
// validated against the collection schema before it reaches storage.
type Client struct {
	store db.Store
	reg   *registry.Registry
	obs   *observer
}

// New creates a vektria Client. Without options it keeps all state in
// process memory; use WithRedis for persistent schema storage. The
// provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: "memory"}
	for _, o := range opts {
		o.apply(cfg)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("vektria: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Client{
		store: store,
		reg:   registry.New(store, cfg.keyPrefix),
		obs:   obs,
	}, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "memory":
		return dbMemory.NewStore(), nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("vektria: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("vektria: unknown driver %q", cfg.driver)
	}
}

// Close releases the underlying store.
func (c *Client) Close() {
	c.store.Close()
}

// Ping checks connectivity to the underlying store.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("vektria: ping: %w", err)
	}
	return nil
}

// CreateCollection validates a schema and registers it under name.
// The schema must declare exactly one primary key and at least one
// vector field.
func (c *Client) CreateCollection(ctx context.Context, name string, schema *CollectionSchema) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("collection.create", start, err) }()

	if err = CheckSchema(schema); err != nil {
		return err
	}
	if err = schema.Verify(); err != nil {
		return err
	}
	if err = c.reg.Create(ctx, name, schema.ToMap()); err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	return nil
}

// GetCollection retrieves a registered collection schema.
func (c *Client) GetCollection(ctx context.Context, name string) (_ *CollectionSchema, err error) {
	start := time.Now()
	defer func() { c.obs.observe("collection.get", start, err) }()

	raw, err := c.reg.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get collection %s: %w", name, err)
	}
	schema, err := CollectionSchemaFromMap(raw)
	if err != nil {
		return nil, fmt.Errorf("get collection %s: %w", name, err)
	}
	return schema, nil
}

// ListCollections returns all registered collection names, sorted.
func (c *Client) ListCollections(ctx context.Context) (_ []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("collection.list", start, err) }()

	names, err := c.reg.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}

// DropCollection removes a registered collection schema.
func (c *Client) DropCollection(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("collection.drop", start, err) }()

	if err = c.reg.Delete(ctx, name); err != nil {
		return fmt.Errorf("drop collection %s: %w", name, err)
	}
	return nil
}

// HasCollection reports whether a collection is registered.
func (c *Client) HasCollection(ctx context.Context, name string) (bool, error) {
	_, err := c.reg.Get(ctx, name)
	if errors.Is(err, registry.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("has collection %s: %w", name, err)
	}
	return true, nil
}

// Insert validates data against the collection schema and submits it.
// Data is either a *Table (column-oriented) or a list of per-field value
// lists in schema order. Returns the number of rows accepted.
func (c *Client) Insert(ctx context.Context, collection string, data any) (_ int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("data.insert", start, err) }()

	return c.submit(ctx, collection, data, CheckInsertSchema)
}

// Upsert validates data against the collection schema and submits it.
// Rejected for auto-id collections, which cannot accept caller keys.
func (c *Client) Upsert(ctx context.Context, collection string, data any) (_ int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("data.upsert", start, err) }()

	return c.submit(ctx, collection, data, CheckUpsertSchema)
}

func (c *Client) submit(
	ctx context.Context, collection string, data any,
	check func(*CollectionSchema, any) error,
) (int, error) {
	schema, err := c.GetCollection(ctx, collection)
	if err != nil {
		return 0, err
	}
	if err := check(schema, data); err != nil {
		return 0, err
	}

	count, err := rowCount(data)
	if err != nil {
		return 0, err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("marshal data for %s: %w", collection, err)
	}
	batchID := uuid.NewString()
	if err := c.reg.AppendRows(ctx, collection, batchID, payload, count); err != nil {
		return 0, fmt.Errorf("submit to %s: %w", collection, err)
	}
	return count, nil
}

// rowCount derives the number of rows a payload carries.
func rowCount(data any) (int, error) {
	if t, ok := data.(*Table); ok {
		return t.Len(), nil
	}
	columns, ok := sequenceValues(data)
	if !ok {
		return 0, fmt.Errorf("%w: data must be a Table or a list, got %T",
			ErrDataTypeNotSupported, data)
	}
	if len(columns) == 0 {
		return 0, nil
	}
	values, ok := sequenceValues(columns[0])
	if !ok {
		return 0, fmt.Errorf("%w: data should be a list of lists", ErrDataTypeNotSupported)
	}
	return len(values), nil
}
