// Package pgstore implements the collection store API on PostgreSQL.
//
// It backs the CLI when imports target a locally managed collection
// rather than a live plugin host. One database holds many collections;
// each Store is scoped to a single collection id.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmsbridge/importer/internal/collection"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL for the tables pgstore uses. EnsureSchema applies
// it idempotently.
const Schema = `
CREATE TABLE IF NOT EXISTS collections (
    id   TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS collection_fields (
    id                TEXT PRIMARY KEY,
    collection_id     TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
    name              TEXT NOT NULL,
    type              TEXT NOT NULL,
    required          BOOLEAN NOT NULL DEFAULT FALSE,
    cases             JSONB,
    ref_collection_id TEXT,
    position          INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS collection_items (
    id            TEXT PRIMARY KEY,
    collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
    slug          TEXT NOT NULL,
    draft         BOOLEAN NOT NULL DEFAULT FALSE,
    field_data    JSONB NOT NULL DEFAULT '{}'::jsonb,
    UNIQUE (collection_id, slug)
);

CREATE TABLE IF NOT EXISTS plugin_data (
    collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
    key           TEXT NOT NULL,
    value         TEXT NOT NULL,
    PRIMARY KEY (collection_id, key)
);
`

// Host is a database of collections. It implements
// collection.Resolver.
type Host struct {
	pool *pgxpool.Pool
}

// NewHost wraps a connection pool.
func NewHost(pool *pgxpool.Pool) *Host {
	return &Host{pool: pool}
}

// EnsureSchema creates the pgstore tables if they do not exist.
func (h *Host) EnsureSchema(ctx context.Context) error {
	if _, err := h.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// CreateCollection registers a collection and returns its store. The
// id may be empty, in which case one is generated.
func (h *Host) CreateCollection(ctx context.Context, id, name string) (*Store, error) {
	if id == "" {
		id = uuid.New().String()
	}
	_, err := h.pool.Exec(ctx,
		`INSERT INTO collections (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		id, name)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Store{pool: h.pool, collectionID: id}, nil
}

// Collection implements collection.Resolver.
func (h *Host) Collection(ctx context.Context, id string) (collection.Store, error) {
	var exists bool
	err := h.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM collections WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("look up collection: %w", err)
	}
	if !exists {
		return nil, collection.ErrNotFound
	}
	return &Store{pool: h.pool, collectionID: id}, nil
}

// Store implements collection.Store for one collection.
type Store struct {
	pool         *pgxpool.Pool
	collectionID string
}

// GetFields implements collection.Store.
func (s *Store) GetFields(ctx context.Context) ([]collection.Field, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, type, required, cases, ref_collection_id
		FROM collection_fields
		WHERE collection_id = $1
		ORDER BY position`, s.collectionID)
	if err != nil {
		return nil, fmt.Errorf("get fields: %w", err)
	}
	defer rows.Close()

	var fields []collection.Field
	for rows.Next() {
		var (
			f        collection.Field
			cases    []byte
			refID    *string
			typeName string
		)
		if err := rows.Scan(&f.ID, &f.Name, &typeName, &f.Required, &cases, &refID); err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		f.Type = collection.FieldType(typeName)
		if refID != nil {
			f.CollectionID = *refID
		}
		if len(cases) > 0 {
			if err := json.Unmarshal(cases, &f.Cases); err != nil {
				return nil, fmt.Errorf("decode enum cases for field %s: %w", f.ID, err)
			}
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// SetFields implements collection.Store. The given fields replace the
// schema wholesale; fields without an id are assigned one.
func (s *Store) SetFields(ctx context.Context, fields []collection.Field) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin set fields: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM collection_fields WHERE collection_id = $1`, s.collectionID); err != nil {
		return fmt.Errorf("clear fields: %w", err)
	}

	for i, f := range fields {
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
		var cases []byte
		if len(f.Cases) > 0 {
			cases, err = json.Marshal(f.Cases)
			if err != nil {
				return fmt.Errorf("encode enum cases for field %s: %w", f.Name, err)
			}
		}
		var refID *string
		if f.CollectionID != "" {
			refID = &f.CollectionID
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO collection_fields (id, collection_id, name, type, required, cases, ref_collection_id, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			f.ID, s.collectionID, f.Name, string(f.Type), f.Required, cases, refID, i)
		if err != nil {
			return fmt.Errorf("insert field %s: %w", f.Name, err)
		}
	}

	return tx.Commit(ctx)
}

// GetItems implements collection.Store.
func (s *Store) GetItems(ctx context.Context) ([]collection.Item, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, slug, draft, field_data
		FROM collection_items
		WHERE collection_id = $1
		ORDER BY slug`, s.collectionID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	defer rows.Close()

	var items []collection.Item
	for rows.Next() {
		var (
			item collection.Item
			data []byte
		)
		if err := rows.Scan(&item.ID, &item.Slug, &item.Draft, &data); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if err := json.Unmarshal(data, &item.FieldData); err != nil {
			return nil, fmt.Errorf("decode field data for item %s: %w", item.ID, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetItemIDs implements collection.Store.
func (s *Store) GetItemIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id FROM collection_items WHERE collection_id = $1 ORDER BY slug`, s.collectionID)
	if err != nil {
		return nil, fmt.Errorf("get item ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddItems implements collection.Store. Items with an id update in
// place; items without one are inserted under a fresh id.
func (s *Store) AddItems(ctx context.Context, items []collection.Item) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin add items: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, item := range items {
		data, err := json.Marshal(item.FieldData)
		if err != nil {
			return fmt.Errorf("encode field data for %q: %w", item.Slug, err)
		}
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO collection_items (id, collection_id, slug, draft, field_data)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET slug = EXCLUDED.slug, draft = EXCLUDED.draft, field_data = EXCLUDED.field_data`,
			item.ID, s.collectionID, item.Slug, item.Draft, data)
		if err != nil {
			return fmt.Errorf("write item %q: %w", item.Slug, err)
		}
	}

	return tx.Commit(ctx)
}

// RemoveItems implements collection.Store.
func (s *Store) RemoveItems(ctx context.Context, ids []string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM collection_items WHERE collection_id = $1 AND id = ANY($2)`,
		s.collectionID, ids)
	if err != nil {
		return fmt.Errorf("remove items: %w", err)
	}
	return nil
}

// GetPluginData implements collection.Store.
func (s *Store) GetPluginData(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM plugin_data WHERE collection_id = $1 AND key = $2`,
		s.collectionID, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", collection.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get plugin data: %w", err)
	}
	return value, nil
}

// SetPluginData implements collection.Store.
func (s *Store) SetPluginData(ctx context.Context, key, value string) error {
	if value == "" {
		_, err := s.pool.Exec(ctx,
			`DELETE FROM plugin_data WHERE collection_id = $1 AND key = $2`,
			s.collectionID, key)
		if err != nil {
			return fmt.Errorf("clear plugin data: %w", err)
		}
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO plugin_data (collection_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection_id, key) DO UPDATE SET value = EXCLUDED.value`,
		s.collectionID, key, value)
	if err != nil {
		return fmt.Errorf("set plugin data: %w", err)
	}
	return nil
}
