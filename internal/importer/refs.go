package importer

// refs.go builds the slug-to-item-id lookup tables backing reference
// field conversion. The tables are computed once per import, before any
// record conversion begins, so converting a value never performs I/O.

import (
	"context"
	"errors"

	"github.com/cmsbridge/importer/internal/collection"
)

// ReferenceIndex maps a referenced collection id to its slug → item id
// table.
type ReferenceIndex map[string]map[string]string

// Lookup resolves a slug within a referenced collection. ok is false
// when either the collection or the slug is unknown.
func (idx ReferenceIndex) Lookup(collectionID, slug string) (string, bool) {
	table, ok := idx[collectionID]
	if !ok {
		return "", false
	}
	id, ok := table[slug]
	return id, ok
}

// BuildReferenceIndex enumerates every collection referenced by a
// reference or multi-reference target field and indexes its existing
// items by slug. A referenced collection that cannot be found is fatal
// (REF001): the whole import aborts, unlike a per-value lookup miss.
func BuildReferenceIndex(ctx context.Context, resolver collection.Resolver, fields []collection.Field) (ReferenceIndex, error) {
	idx := make(ReferenceIndex)
	for _, field := range fields {
		switch field.Type {
		case collection.FieldCollectionReference, collection.FieldMultiCollectionReference:
		default:
			continue
		}
		if field.CollectionID == "" || idx[field.CollectionID] != nil {
			continue
		}

		if resolver == nil {
			return nil, errReferencedCollection(field.CollectionID, errors.New("no collection resolver available"))
		}

		store, err := resolver.Collection(ctx, field.CollectionID)
		if err != nil {
			return nil, errReferencedCollection(field.CollectionID, err)
		}
		items, err := store.GetItems(ctx)
		if err != nil {
			return nil, errReferencedCollection(field.CollectionID, err)
		}

		table := make(map[string]string, len(items))
		for _, item := range items {
			table[item.Slug] = item.ID
		}
		idx[field.CollectionID] = table
	}
	return idx, nil
}
