package importer

import (
	"github.com/cmsbridge/importer/internal/collection"
)

// VirtualType is the engine's field type enumeration. It mirrors the
// host schema's field types plus a "datetime" refinement of "date",
// distinguished by the presence of a non-midnight time component.
type VirtualType string

const (
	TypeString        VirtualType = "string"
	TypeFormattedText VirtualType = "formattedText"
	TypeNumber        VirtualType = "number"
	TypeBoolean       VirtualType = "boolean"
	TypeDate          VirtualType = "date"
	TypeDateTime      VirtualType = "datetime"
	TypeColor         VirtualType = "color"
	TypeLink          VirtualType = "link"
	TypeImage         VirtualType = "image"
	TypeFile          VirtualType = "file"
	TypeEnum          VirtualType = "enum"
	TypeReference     VirtualType = "collectionReference"
	TypeMultiRef      VirtualType = "multiCollectionReference"
	TypeArray         VirtualType = "array"
	TypeDivider       VirtualType = "divider"
	TypeUnsupported   VirtualType = "unsupported"
)

// VirtualTypeOf converts a host field type to its virtual counterpart.
func VirtualTypeOf(t collection.FieldType) VirtualType {
	return VirtualType(t)
}

// HostType converts a virtual type to the host field type it is stored
// as. "datetime" is not a distinct host type; it collapses to "date".
func (t VirtualType) HostType() collection.FieldType {
	if t == TypeDateTime {
		return collection.FieldDate
	}
	return collection.FieldType(t)
}

// RawRecord maps a column name to its raw string value. An absent key
// means the source had no value for that column (null).
type RawRecord map[string]string

// MetaColumnPrefix marks non-content metadata columns such as ":draft".
// They are excluded from field inference and consumed separately.
const MetaColumnPrefix = ":"

// DraftColumn is the reserved metadata column carrying a per-record
// draft flag.
const DraftColumn = ":draft"

// AltColumnSuffix marks sidecar columns carrying alt text for an image
// column of the same base name ("Cover:alt" for "Cover").
const AltColumnSuffix = ":alt"

// RecordSet is the parser's output: content columns in source order and
// records in import order. Metadata and sidecar columns stay present in
// the records but are not listed in Columns.
type RecordSet struct {
	Columns []string
	Records []RawRecord
}

// InferredField is one source column with its detected (or, for typed
// API sources, declared) type. Immutable once computed.
type InferredField struct {
	Column string
	Name   string
	Type   VirtualType
	// AllowedTypes lists the target types this column's values could be
	// coerced into, for populating edit choices. It is fixed at
	// inference time and not recomputed as mappings change.
	AllowedTypes []VirtualType
}

// MappingAction is the per-column reconciliation decision.
type MappingAction string

const (
	ActionCreate MappingAction = "create"
	ActionMap    MappingAction = "map"
	ActionIgnore MappingAction = "ignore"
)

// FieldMapping pairs a source column with its reconciliation decision.
// Owned by the mapping session until commit; ActionMap implies TargetID
// resolves in the current schema, ActionIgnore implies no value is ever
// read for the column.
type FieldMapping struct {
	Field        InferredField
	Action       MappingAction
	TargetID     string
	TypeMismatch bool

	// restore is the non-ignore action to return to when the column is
	// un-ignored.
	restore MappingAction
	// restoreTarget preserves TargetID across an ignore round trip.
	restoreTarget string
}

// MissingAction decides the fate of an existing target field that no
// source column maps to.
type MissingAction string

const (
	MissingKeep   MissingAction = "keep"
	MissingRemove MissingAction = "remove"
)

// MissingFieldDecision is the keep/remove choice for one unclaimed
// target field.
type MissingFieldDecision struct {
	Field  collection.Field
	Action MissingAction
}

// ItemAction is the lifecycle state of an ImportItem. Items are created
// as add or conflict during diffing; a conflict transitions exactly
// once to update or skip during resolution.
type ItemAction string

const (
	ItemAdd      ItemAction = "add"
	ItemConflict ItemAction = "conflict"
	ItemUpdate   ItemAction = "onConflictUpdate"
	ItemSkip     ItemAction = "onConflictSkip"
)

// ImportItem is one record ready for commit. ID is set only when an
// existing item with the same slug was found.
type ImportItem struct {
	ID        string
	Slug      string
	FieldData map[string]FieldValue
	Action    ItemAction
	Draft     bool
}

// Warnings accumulates the non-fatal problems of one import pass. All
// counters are monotonic: they are only ever incremented during
// diffing and surfaced verbatim in the final report.
type Warnings struct {
	MissingSlugs   int
	DuplicateSlugs int
	SkippedValues  int
	// SkippedFields maps each field name that had at least one skipped
	// value to the number of records affected.
	SkippedFields map[string]int
}

// Skip records one skipped value for the named field.
func (w *Warnings) Skip(field string) {
	if w.SkippedFields == nil {
		w.SkippedFields = make(map[string]int)
	}
	w.SkippedValues++
	w.SkippedFields[field]++
}

// Empty reports whether no warnings were recorded.
func (w *Warnings) Empty() bool {
	return w.MissingSlugs == 0 && w.DuplicateSlugs == 0 && w.SkippedValues == 0
}

// ImportPayload is the diff engine's output: the items to commit plus
// the warnings gathered while producing them.
type ImportPayload struct {
	Items    []*ImportItem
	Warnings Warnings
}

// Conflicts returns the items still awaiting conflict resolution, in
// original record order.
func (p *ImportPayload) Conflicts() []*ImportItem {
	var out []*ImportItem
	for _, item := range p.Items {
		if item.Action == ItemConflict {
			out = append(out, item)
		}
	}
	return out
}
