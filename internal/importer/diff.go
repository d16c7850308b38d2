package importer

// diff.go classifies incoming records against the existing collection
// by slug identity and assembles the commit payload.
//
// Record order is significant: the first record to produce a slug wins,
// and later records with the same slug are dropped and counted. Sources
// that fetch pages concurrently must reassemble them in page order
// before calling Diff.

import (
	"strings"

	"github.com/cmsbridge/importer/internal/collection"
)

// Diff runs every record through slug resolution, conversion, and
// add/conflict classification, in record order. Records without a
// resolvable slug and batch-internal duplicates are dropped and
// counted; per-value conversion failures drop only the failing field's
// value. Diff itself never fails on record content.
func Diff(set *RecordSet, plan *ImportPlan, existing []collection.Item, refs ReferenceIndex) *ImportPayload {
	payload := &ImportPayload{}

	existingBySlug := make(map[string]collection.Item, len(existing))
	for _, item := range existing {
		existingBySlug[item.Slug] = item
	}

	seen := make(map[string]bool, len(set.Records))

	for _, record := range set.Records {
		slug := Slugify(record[plan.SlugColumn])
		if slug == "" {
			payload.Warnings.MissingSlugs++
			continue
		}
		if seen[slug] {
			payload.Warnings.DuplicateSlugs++
			continue
		}
		seen[slug] = true

		item := &ImportItem{
			Slug:      slug,
			Action:    ItemAdd,
			FieldData: make(map[string]FieldValue, len(plan.FieldByColumn)),
		}

		prior, exists := existingBySlug[slug]
		if exists {
			item.Action = ItemConflict
			item.ID = prior.ID
		}

		for column, field := range plan.FieldByColumn {
			value, err := Convert(field, column, record, refs)
			if err != nil {
				payload.Warnings.Skip(field.Name)
				continue
			}
			if value != nil {
				item.FieldData[field.ID] = value
			}
		}

		if raw, ok := record[DraftColumn]; ok && strings.TrimSpace(raw) != "" {
			item.Draft = isTruthy(raw)
		} else if exists {
			// No explicit flag: conflicting records keep the existing
			// item's draft state.
			item.Draft = prior.Draft
		}

		payload.Items = append(payload.Items, item)
	}

	return payload
}

// Resolution walks the payload's conflict items one at a time, in
// original record order. Each conflict transitions exactly once to
// update or skip; apply-to-all resolves the current and every remaining
// conflict in one step.
type Resolution struct {
	conflicts []*ImportItem
	cursor    int
}

// NewResolution creates a cursor over the payload's unresolved
// conflicts.
func NewResolution(payload *ImportPayload) *Resolution {
	return &Resolution{conflicts: payload.Conflicts()}
}

// Done reports whether every conflict has been resolved.
func (r *Resolution) Done() bool {
	return r.cursor >= len(r.conflicts)
}

// Remaining returns the number of conflicts still to resolve.
func (r *Resolution) Remaining() int {
	return len(r.conflicts) - r.cursor
}

// Current returns the conflict awaiting a decision, or nil when done.
func (r *Resolution) Current() *ImportItem {
	if r.Done() {
		return nil
	}
	return r.conflicts[r.cursor]
}

// Resolve applies update or skip to the current conflict and advances.
func (r *Resolution) Resolve(update bool) {
	if r.Done() {
		return
	}
	r.conflicts[r.cursor].Action = resolvedAction(update)
	r.cursor++
}

// ResolveAll applies the chosen action to the current and every
// remaining unresolved conflict, in original order, and completes the
// resolution.
func (r *Resolution) ResolveAll(update bool) {
	action := resolvedAction(update)
	for ; r.cursor < len(r.conflicts); r.cursor++ {
		r.conflicts[r.cursor].Action = action
	}
}

func resolvedAction(update bool) ItemAction {
	if update {
		return ItemUpdate
	}
	return ItemSkip
}
