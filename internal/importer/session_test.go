package importer

import (
	"context"
	"testing"

	"github.com/cmsbridge/importer/internal/collection"
)

// ----------------------------------------------------------------------------
// Mapping Session Tests
// ----------------------------------------------------------------------------

func sessionFixture() ([]InferredField, []collection.Field, []RawRecord) {
	inferred := []InferredField{
		inferredField("Title", TypeString),
		inferredField("Body", TypeString),
		inferredField("Internal", TypeString),
	}
	existing := []collection.Field{
		{ID: "f-title", Name: "Title", Type: collection.FieldString},
		{ID: "f-content", Name: "Content", Type: collection.FieldString},
	}
	records := []RawRecord{
		{"Title": "One", "Body": "b1", "Internal": "x"},
		{"Title": "Two", "Body": "b2", "Internal": "y"},
	}
	return inferred, existing, records
}

func TestSession_SaveRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := collection.NewMemoryStore(nil)
	inferred, existing, records := sessionFixture()

	// Customize a session away from the defaults.
	first := Reconcile(inferred, existing, records)
	if err := first.Retarget("Body", "f-content"); err != nil {
		t.Fatalf("Retarget() error = %v", err)
	}
	if err := first.SetIgnored("Internal", true); err != nil {
		t.Fatalf("SetIgnored() error = %v", err)
	}
	if err := first.SetSlugColumn("Body"); err != nil {
		t.Fatalf("SetSlugColumn() error = %v", err)
	}
	if err := SaveSession(ctx, store, first); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	// A later import starts from defaults and restores the decisions.
	second := Reconcile(inferred, existing, records)
	if err := RestoreSession(ctx, store, second); err != nil {
		t.Fatalf("RestoreSession() error = %v", err)
	}

	body := second.Mappings()[1]
	if body.Action != ActionMap || body.TargetID != "f-content" {
		t.Errorf("Body mapping = %+v, want map to f-content", body)
	}
	if got := second.Mappings()[2].Action; got != ActionIgnore {
		t.Errorf("Internal action = %q, want %q", got, ActionIgnore)
	}
	if second.SlugColumn() != "Body" {
		t.Errorf("SlugColumn() = %q, want %q", second.SlugColumn(), "Body")
	}
}

func TestRestoreSession_NoSavedSession(t *testing.T) {
	ctx := context.Background()
	store := collection.NewMemoryStore(nil)
	inferred, existing, records := sessionFixture()

	r := Reconcile(inferred, existing, records)
	if err := RestoreSession(ctx, store, r); err != nil {
		t.Fatalf("RestoreSession() error = %v", err)
	}
	// Defaults untouched.
	if got := r.Mappings()[0].TargetID; got != "f-title" {
		t.Errorf("Title target = %q, want the name-match default", got)
	}
}

func TestRestoreSession_CorruptDataIgnored(t *testing.T) {
	ctx := context.Background()
	store := collection.NewMemoryStore(nil)
	if err := store.SetPluginData(ctx, SessionDataKey, "{not json"); err != nil {
		t.Fatalf("SetPluginData() error = %v", err)
	}

	inferred, existing, records := sessionFixture()
	r := Reconcile(inferred, existing, records)
	if err := RestoreSession(ctx, store, r); err != nil {
		t.Fatalf("RestoreSession() error = %v", err)
	}
	if r.SlugColumn() != "Title" {
		t.Errorf("SlugColumn() = %q, want the default", r.SlugColumn())
	}
}

func TestRestoreSession_StaleColumnsAndFieldsSkipped(t *testing.T) {
	ctx := context.Background()
	store := collection.NewMemoryStore(nil)
	inferred, existing, records := sessionFixture()

	// Save against a schema and column set that will both shrink.
	first := Reconcile(inferred, existing, records)
	if err := first.Retarget("Body", "f-content"); err != nil {
		t.Fatalf("Retarget() error = %v", err)
	}
	if err := SaveSession(ctx, store, first); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	// The next import has neither the Body column nor the f-content field.
	narrowInferred := []InferredField{inferredField("Title", TypeString)}
	narrowExisting := []collection.Field{
		{ID: "f-title", Name: "Title", Type: collection.FieldString},
	}
	narrowRecords := []RawRecord{{"Title": "One"}}

	second := Reconcile(narrowInferred, narrowExisting, narrowRecords)
	if err := RestoreSession(ctx, store, second); err != nil {
		t.Fatalf("RestoreSession() error = %v", err)
	}
	if got := second.Mappings()[0].TargetID; got != "f-title" {
		t.Errorf("Title target = %q after best-effort restore, want f-title", got)
	}
}

func TestSaveSession_Persisted(t *testing.T) {
	ctx := context.Background()
	store := collection.NewMemoryStore(nil)
	inferred, existing, records := sessionFixture()

	if err := SaveSession(ctx, store, Reconcile(inferred, existing, records)); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	if _, err := store.GetPluginData(ctx, SessionDataKey); err != nil {
		t.Fatalf("GetPluginData(%q) error = %v", SessionDataKey, err)
	}
}
