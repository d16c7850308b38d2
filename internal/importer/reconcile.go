package importer

// reconcile.go merges inferred source fields against an existing
// collection schema into per-column decisions: create a new field, map
// to an existing field, or ignore the column; plus keep/remove
// decisions for existing fields no column claims.
//
// A Reconciler is the mutable state of one mapping session. The caller
// (UI or CLI) edits it through the mutation methods and reads derived
// validity from the query methods; Plan freezes it into the schema and
// column bindings the converter and diff engine consume.

import (
	"fmt"
	"strings"

	"github.com/cmsbridge/importer/internal/collection"
	"github.com/google/uuid"
)

// Reconciler holds the in-progress mapping decisions for one import.
// It is owned by a single session and is not safe for concurrent use.
type Reconciler struct {
	mappings []FieldMapping
	missing  []MissingFieldDecision
	existing []collection.Field
	records  []RawRecord

	slugColumn string
	// missingActions remembers explicit keep/remove choices across
	// re-derivations of the missing-field list.
	missingActions map[string]MissingAction
}

// Reconcile builds the default mapping state: every inferred field maps
// to the existing field with the same name (case-insensitive) or is
// created fresh, every unclaimed existing field defaults to keep, and
// the first slug-eligible column is pre-selected.
func Reconcile(inferred []InferredField, existing []collection.Field, records []RawRecord) *Reconciler {
	r := &Reconciler{
		existing:       existing,
		records:        records,
		missingActions: make(map[string]MissingAction),
	}

	for _, field := range inferred {
		mapping := FieldMapping{Field: field, Action: ActionCreate, restore: ActionCreate}
		if target, ok := findFieldByName(existing, field.Name); ok {
			mapping.Action = ActionMap
			mapping.TargetID = target.ID
			mapping.TypeMismatch = !IsCompatible(field.Type, VirtualTypeOf(target.Type))
			mapping.restore = ActionMap
			mapping.restoreTarget = target.ID
		}
		r.mappings = append(r.mappings, mapping)
	}

	r.deriveMissing()
	r.ensureSlugColumn()
	return r
}

func findFieldByName(fields []collection.Field, name string) (collection.Field, bool) {
	for _, f := range fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return collection.Field{}, false
}

// Mappings returns the current per-column decisions in source order.
func (r *Reconciler) Mappings() []FieldMapping {
	out := make([]FieldMapping, len(r.mappings))
	copy(out, r.mappings)
	return out
}

// MissingFields returns the keep/remove decisions for existing fields
// with no corresponding source column.
func (r *Reconciler) MissingFields() []MissingFieldDecision {
	out := make([]MissingFieldDecision, len(r.missing))
	copy(out, r.missing)
	return out
}

// SlugColumn returns the column currently designated as the slug
// source, or "" when none is selected.
func (r *Reconciler) SlugColumn() string {
	return r.slugColumn
}

// SetIgnored sets whether a column is excluded from the import. Turning
// ignore off restores the column's prior non-ignore action.
func (r *Reconciler) SetIgnored(column string, ignored bool) error {
	m := r.mapping(column)
	if m == nil {
		return fmt.Errorf("unknown column %q", column)
	}

	if ignored {
		if m.Action != ActionIgnore {
			m.restore = m.Action
			m.restoreTarget = m.TargetID
		}
		m.Action = ActionIgnore
		m.TargetID = ""
		m.TypeMismatch = false
	} else if m.Action == ActionIgnore {
		m.Action = m.restore
		m.TargetID = m.restoreTarget
		r.recomputeMismatch(m)
	}

	r.deriveMissing()
	r.ensureSlugColumn()
	return nil
}

// ToggleIgnored flips a column between ignored and its prior action.
func (r *Reconciler) ToggleIgnored(column string) error {
	m := r.mapping(column)
	if m == nil {
		return fmt.Errorf("unknown column %q", column)
	}
	return r.SetIgnored(column, m.Action != ActionIgnore)
}

// Retarget points a column at an existing field by id, or at a new
// field when targetID is empty.
func (r *Reconciler) Retarget(column, targetID string) error {
	m := r.mapping(column)
	if m == nil {
		return fmt.Errorf("unknown column %q", column)
	}

	if targetID == "" {
		m.Action = ActionCreate
		m.TargetID = ""
		m.TypeMismatch = false
	} else {
		if _, ok := r.fieldByID(targetID); !ok {
			return fmt.Errorf("unknown target field %q", targetID)
		}
		m.Action = ActionMap
		m.TargetID = targetID
		r.recomputeMismatch(m)
	}
	m.restore = m.Action
	m.restoreTarget = m.TargetID

	r.deriveMissing()
	r.ensureSlugColumn()
	return nil
}

// SetMissingFieldAction records the keep/remove choice for an existing
// field no source column maps to.
func (r *Reconciler) SetMissingFieldAction(fieldID string, action MissingAction) error {
	for i := range r.missing {
		if r.missing[i].Field.ID == fieldID {
			r.missing[i].Action = action
			r.missingActions[fieldID] = action
			return nil
		}
	}
	return fmt.Errorf("field %q is not missing a mapping", fieldID)
}

// SetSlugColumn designates the column whose values become item slugs.
// The column must be slug-eligible: actively mapped or created, with a
// non-empty value in every record.
func (r *Reconciler) SetSlugColumn(column string) error {
	for _, eligible := range r.PossibleSlugFields() {
		if eligible == column {
			r.slugColumn = column
			return nil
		}
	}
	return fmt.Errorf("column %q cannot be the slug field", column)
}

// PossibleSlugFields returns the columns eligible to be the slug
// source. Slugs must never be empty, so a column qualifies only when
// every record has a non-empty value for it.
func (r *Reconciler) PossibleSlugFields() []string {
	var out []string
	for _, m := range r.mappings {
		if m.Action == ActionIgnore {
			continue
		}
		if r.columnAlwaysPresent(m.Field.Column) {
			out = append(out, m.Field.Column)
		}
	}
	return out
}

// UnmappedRequiredFields returns the existing required fields that have
// no active mapping.
func (r *Reconciler) UnmappedRequiredFields() []collection.Field {
	claimed := r.claimedTargets()
	var out []collection.Field
	for _, f := range r.existing {
		if f.Required && !claimed[f.ID] {
			out = append(out, f)
		}
	}
	return out
}

// CanSubmit reports whether the session is complete: every required
// field is mapped and a non-ignored slug column is selected.
func (r *Reconciler) CanSubmit() bool {
	if len(r.UnmappedRequiredFields()) > 0 {
		return false
	}
	if r.slugColumn == "" {
		return false
	}
	m := r.mapping(r.slugColumn)
	return m != nil && m.Action != ActionIgnore
}

// ImportPlan is a frozen mapping session: the final schema and the
// column-to-field bindings the converter runs on.
type ImportPlan struct {
	// Fields is the full target schema after the import: existing kept
	// fields plus created fields, with removals applied. Created fields
	// carry freshly assigned ids.
	Fields []collection.Field
	// FieldByColumn binds each non-ignored source column to its target
	// field.
	FieldByColumn map[string]collection.Field
	// SlugColumn is the column whose values become item slugs.
	SlugColumn string
	// SchemaChanged reports whether Fields differs from the existing
	// schema (created or removed fields), requiring a SetFields call.
	SchemaChanged bool
}

// Plan freezes the session. It fails with SLUG001 when no valid slug
// column is selected and with a plain error on unmapped required
// fields.
func (r *Reconciler) Plan() (*ImportPlan, error) {
	if unmapped := r.UnmappedRequiredFields(); len(unmapped) > 0 {
		names := make([]string, len(unmapped))
		for i, f := range unmapped {
			names[i] = f.Name
		}
		return nil, fmt.Errorf("required fields are not mapped: %s", strings.Join(names, ", "))
	}
	if !r.CanSubmit() {
		return nil, errNoSlugField()
	}

	plan := &ImportPlan{
		FieldByColumn: make(map[string]collection.Field),
		SlugColumn:    r.slugColumn,
	}

	removed := make(map[string]bool)
	for _, d := range r.missing {
		if d.Action == MissingRemove {
			removed[d.Field.ID] = true
			plan.SchemaChanged = true
		}
	}
	for _, f := range r.existing {
		if !removed[f.ID] {
			plan.Fields = append(plan.Fields, f)
		}
	}

	for _, m := range r.mappings {
		switch m.Action {
		case ActionMap:
			target, ok := r.fieldByID(m.TargetID)
			if !ok {
				return nil, errInternal(fmt.Sprintf("mapping for column %q targets unknown field %q", m.Field.Column, m.TargetID))
			}
			plan.FieldByColumn[m.Field.Column] = target
		case ActionCreate:
			created := collection.Field{
				ID:   uuid.New().String(),
				Name: m.Field.Name,
				Type: m.Field.Type.HostType(),
			}
			plan.Fields = append(plan.Fields, created)
			plan.FieldByColumn[m.Field.Column] = created
			plan.SchemaChanged = true
		}
	}

	return plan, nil
}

// mapping returns the mutable mapping for a column, or nil.
func (r *Reconciler) mapping(column string) *FieldMapping {
	for i := range r.mappings {
		if r.mappings[i].Field.Column == column {
			return &r.mappings[i]
		}
	}
	return nil
}

func (r *Reconciler) fieldByID(id string) (collection.Field, bool) {
	for _, f := range r.existing {
		if f.ID == id {
			return f, true
		}
	}
	return collection.Field{}, false
}

func (r *Reconciler) recomputeMismatch(m *FieldMapping) {
	target, ok := r.fieldByID(m.TargetID)
	if !ok {
		m.TypeMismatch = false
		return
	}
	m.TypeMismatch = !IsCompatible(m.Field.Type, VirtualTypeOf(target.Type))
}

func (r *Reconciler) claimedTargets() map[string]bool {
	claimed := make(map[string]bool)
	for _, m := range r.mappings {
		if m.Action == ActionMap {
			claimed[m.TargetID] = true
		}
	}
	return claimed
}

// deriveMissing rebuilds the missing-field list from the current
// mappings, preserving any explicit keep/remove choices.
func (r *Reconciler) deriveMissing() {
	claimed := r.claimedTargets()
	r.missing = r.missing[:0]
	for _, f := range r.existing {
		if claimed[f.ID] {
			continue
		}
		action := MissingKeep
		if chosen, ok := r.missingActions[f.ID]; ok {
			action = chosen
		}
		r.missing = append(r.missing, MissingFieldDecision{Field: f, Action: action})
	}
}

// ensureSlugColumn keeps the slug selection valid: if the current slug
// column was ignored or lost eligibility it is reassigned to the first
// eligible column, or cleared so the caller must re-select. A stale
// slug reference is never left behind.
func (r *Reconciler) ensureSlugColumn() {
	eligible := r.PossibleSlugFields()
	for _, col := range eligible {
		if col == r.slugColumn {
			return
		}
	}
	if len(eligible) > 0 {
		r.slugColumn = eligible[0]
	} else {
		r.slugColumn = ""
	}
}

func (r *Reconciler) columnAlwaysPresent(column string) bool {
	if len(r.records) == 0 {
		return false
	}
	for _, record := range r.records {
		if strings.TrimSpace(record[column]) == "" {
			return false
		}
	}
	return true
}
