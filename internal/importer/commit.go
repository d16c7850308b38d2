package importer

// commit.go writes a resolved payload to the collection store and
// produces the user-facing summary.

import (
	"context"
	"fmt"

	"github.com/cmsbridge/importer/internal/collection"
)

// Report summarizes what a commit did. Counts mirror the payload's
// warnings verbatim; nothing is recomputed after the diff pass.
type Report struct {
	Added    int
	Updated  int
	Skipped  int
	Warnings Warnings
}

// Commit applies an import payload to the store: schema changes first,
// then one write batch with add items keyed by slug and update items
// keyed by id. Skipped items are excluded entirely.
//
// Every item must have left the conflict state before commit; an
// unresolved item means a diff-engine bug and fails with an internal
// consistency error before anything is written.
func Commit(ctx context.Context, store collection.Store, plan *ImportPlan, payload *ImportPayload) (*Report, error) {
	report := &Report{Warnings: payload.Warnings}

	var batch []collection.Item
	for _, item := range payload.Items {
		switch item.Action {
		case ItemAdd:
			report.Added++
			batch = append(batch, storeItem(item, false))
		case ItemUpdate:
			report.Updated++
			batch = append(batch, storeItem(item, true))
		case ItemSkip:
			report.Skipped++
		default:
			return nil, errInternal(fmt.Sprintf("item %q has unresolved action %q at commit", item.Slug, item.Action))
		}
	}
	if report.Added+report.Updated+report.Skipped != len(payload.Items) {
		return nil, errInternal("item count does not match action counts")
	}

	if plan.SchemaChanged {
		if err := store.SetFields(ctx, plan.Fields); err != nil {
			return nil, errStoreWrite(err)
		}
	}
	if len(batch) > 0 {
		if err := store.AddItems(ctx, batch); err != nil {
			return nil, errStoreWrite(err)
		}
	}

	return report, nil
}

func storeItem(item *ImportItem, withID bool) collection.Item {
	out := collection.Item{
		Slug:      item.Slug,
		Draft:     item.Draft,
		FieldData: make(map[string]any, len(item.FieldData)),
	}
	if withID {
		out.ID = item.ID
	}
	for fieldID, value := range item.FieldData {
		out.FieldData[fieldID] = value.Payload()
	}
	return out
}
