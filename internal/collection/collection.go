// Package collection defines the managed-collection store API that the
// import engine writes into, plus the field and item descriptors that
// cross that boundary.
//
// The store is an external dependency: implementations may live in the
// host application, in Postgres (see pgstore), or in memory for tests
// and dry runs. The engine never assumes transactional atomicity across
// calls — RemoveItems followed by AddItems is two separate round trips.
package collection

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a collection, item, or plugin-data key
// does not exist in the store.
var ErrNotFound = errors.New("collection: not found")

// FieldType enumerates the field types the host schema supports.
type FieldType string

const (
	FieldString                   FieldType = "string"
	FieldFormattedText            FieldType = "formattedText"
	FieldNumber                   FieldType = "number"
	FieldBoolean                  FieldType = "boolean"
	FieldDate                     FieldType = "date"
	FieldColor                    FieldType = "color"
	FieldLink                     FieldType = "link"
	FieldImage                    FieldType = "image"
	FieldFile                     FieldType = "file"
	FieldEnum                     FieldType = "enum"
	FieldCollectionReference      FieldType = "collectionReference"
	FieldMultiCollectionReference FieldType = "multiCollectionReference"
	FieldArray                    FieldType = "array"
	FieldDivider                  FieldType = "divider"
	FieldUnsupported              FieldType = "unsupported"
)

// EnumCase is one selectable value of an enum field.
type EnumCase struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Field describes one field of a collection schema. The engine treats
// fields as read-only except for the create/remove actions it requests
// through SetFields.
type Field struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Type     FieldType  `json:"type"`
	Required bool       `json:"required,omitempty"`
	Cases    []EnumCase `json:"cases,omitempty"`
	// CollectionID is the referenced collection for reference fields.
	CollectionID string `json:"collectionId,omitempty"`
}

// Item is one record of a collection. FieldData maps field id to the
// field's JSON-ready payload value.
type Item struct {
	ID        string         `json:"id,omitempty"`
	Slug      string         `json:"slug"`
	Draft     bool           `json:"draft,omitempty"`
	FieldData map[string]any `json:"fieldData"`
}

// Store is the host collection API consumed by the import engine.
//
// AddItems upserts: items carrying an ID replace the stored item with
// that ID in place; items without an ID are created under a fresh ID.
type Store interface {
	GetFields(ctx context.Context) ([]Field, error)
	SetFields(ctx context.Context, fields []Field) error
	GetItems(ctx context.Context) ([]Item, error)
	GetItemIDs(ctx context.Context) ([]string, error)
	AddItems(ctx context.Context, items []Item) error
	RemoveItems(ctx context.Context, ids []string) error
	GetPluginData(ctx context.Context, key string) (string, error)
	SetPluginData(ctx context.Context, key, value string) error
}

// Resolver opens other collections by id. The engine uses it to
// enumerate referenced collections when building reference lookup
// tables. Implementations return ErrNotFound for unknown ids.
type Resolver interface {
	Collection(ctx context.Context, id string) (Store, error)
}
