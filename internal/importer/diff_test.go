package importer

import (
	"testing"

	"github.com/cmsbridge/importer/internal/collection"
)

// ----------------------------------------------------------------------------
// Diff Tests
// ----------------------------------------------------------------------------

// planFor builds a frozen plan for a fresh collection straight from the
// record set's inferred fields.
func planFor(t *testing.T, set *RecordSet, slugColumn string) *ImportPlan {
	t.Helper()
	r := Reconcile(InferFields(set), nil, set.Records)
	if slugColumn != "" {
		if err := r.SetSlugColumn(slugColumn); err != nil {
			t.Fatalf("SetSlugColumn(%q) error = %v", slugColumn, err)
		}
	}
	plan, err := r.Plan()
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	return plan
}

func TestDiff_AddsAndSkippedValues(t *testing.T) {
	set, err := ParseCSV("name,age\nAlice,30\nBob,notanumber\nAlice,31\n")
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	// "notanumber" keeps the age column from inferring number, so force
	// a number field through an existing schema.
	existing := []collection.Field{
		{ID: "f-name", Name: "name", Type: collection.FieldString},
		{ID: "f-age", Name: "age", Type: collection.FieldNumber},
	}
	r := Reconcile(InferFields(set), existing, set.Records)
	plan, err := r.Plan()
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	payload := Diff(set, plan, nil, nil)

	// The second Alice row duplicates the first one's slug and is dropped.
	if payload.Warnings.DuplicateSlugs != 1 {
		t.Errorf("DuplicateSlugs = %d, want 1", payload.Warnings.DuplicateSlugs)
	}
	// Bob's age fails conversion; only that value is skipped.
	if payload.Warnings.SkippedValues != 1 {
		t.Errorf("SkippedValues = %d, want 1", payload.Warnings.SkippedValues)
	}
	if got := payload.Warnings.SkippedFields["age"]; got != 1 {
		t.Errorf("SkippedFields[age] = %d, want 1", got)
	}

	if len(payload.Items) != 2 {
		t.Fatalf("len(Items) = %d: %+v", len(payload.Items), payload.Items)
	}

	alice := payload.Items[0]
	if alice.Slug != "alice" || alice.Action != ItemAdd {
		t.Errorf("first item = %+v, want add of alice", alice)
	}
	if got := alice.FieldData["f-age"].Payload(); got != 30.0 {
		t.Errorf("alice age payload = %v, want 30", got)
	}

	bob := payload.Items[1]
	if bob.Slug != "bob" || bob.Action != ItemAdd {
		t.Errorf("second item = %+v, want add of bob", bob)
	}
	if _, ok := bob.FieldData["f-age"]; ok {
		t.Error("bob's unconvertible age was not omitted from the payload")
	}
	if got := bob.FieldData["f-name"].Payload(); got != "Bob" {
		t.Errorf("bob name payload = %v, want Bob", got)
	}
}

func TestDiff_MissingSlugs(t *testing.T) {
	set := &RecordSet{
		Columns: []string{"name", "note"},
		Records: []RawRecord{
			{"name": "Alice", "note": "x"},
			{"name": "!!!", "note": "slugifies to nothing"},
			{"name": "Bob", "note": "y"},
		},
	}
	r := Reconcile(InferFields(set), nil, set.Records)
	plan, err := r.Plan()
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	payload := Diff(set, plan, nil, nil)
	if payload.Warnings.MissingSlugs != 1 {
		t.Errorf("MissingSlugs = %d, want 1", payload.Warnings.MissingSlugs)
	}
	if len(payload.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(payload.Items))
	}
}

func TestDiff_Conflicts(t *testing.T) {
	set, err := ParseCSV("title,body\nHello World,first\nBrand New,second\n")
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	plan := planFor(t, set, "title")

	existing := []collection.Item{
		{ID: "item-1", Slug: "hello-world", Draft: true},
	}

	payload := Diff(set, plan, existing, nil)
	if len(payload.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(payload.Items))
	}

	hello := payload.Items[0]
	if hello.Action != ItemConflict {
		t.Errorf("hello-world action = %q, want %q", hello.Action, ItemConflict)
	}
	if hello.ID != "item-1" {
		t.Errorf("hello-world ID = %q, want the existing item's id", hello.ID)
	}
	// No :draft column: the conflicting record keeps the stored draft state.
	if !hello.Draft {
		t.Error("hello-world lost the existing item's draft flag")
	}

	fresh := payload.Items[1]
	if fresh.Action != ItemAdd || fresh.ID != "" {
		t.Errorf("brand-new item = %+v, want an add without id", fresh)
	}
	if fresh.Draft {
		t.Error("new item defaulted to draft")
	}
}

func TestDiff_DraftColumn(t *testing.T) {
	set, err := ParseCSV("name,:draft\nAlice,yes\nBob,no\nCara,\n")
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	plan := planFor(t, set, "name")

	payload := Diff(set, plan, nil, nil)
	want := map[string]bool{"alice": true, "bob": false, "cara": false}
	for _, item := range payload.Items {
		if item.Draft != want[item.Slug] {
			t.Errorf("item %q draft = %v, want %v", item.Slug, item.Draft, want[item.Slug])
		}
	}
}

func TestDiff_DraftColumnOverridesExisting(t *testing.T) {
	set, err := ParseCSV("name,:draft\nAlice,no\n")
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	plan := planFor(t, set, "name")

	existing := []collection.Item{{ID: "item-1", Slug: "alice", Draft: true}}
	payload := Diff(set, plan, existing, nil)
	if payload.Items[0].Draft {
		t.Error("explicit :draft value did not override the stored draft state")
	}
}

// ----------------------------------------------------------------------------
// Resolution Tests
// ----------------------------------------------------------------------------

func conflictPayload(slugs ...string) *ImportPayload {
	payload := &ImportPayload{}
	for _, slug := range slugs {
		payload.Items = append(payload.Items, &ImportItem{Slug: slug, Action: ItemConflict})
	}
	return payload
}

func TestResolution_OneAtATime(t *testing.T) {
	payload := conflictPayload("a", "b", "c")
	res := NewResolution(payload)

	if res.Done() || res.Remaining() != 3 {
		t.Fatalf("fresh resolution: Done=%v Remaining=%d", res.Done(), res.Remaining())
	}
	if res.Current().Slug != "a" {
		t.Fatalf("Current() = %q, want a", res.Current().Slug)
	}

	res.Resolve(true)
	res.Resolve(false)
	if res.Remaining() != 1 || res.Current().Slug != "c" {
		t.Fatalf("after two resolves: Remaining=%d Current=%v", res.Remaining(), res.Current())
	}
	res.Resolve(true)

	if !res.Done() {
		t.Fatal("Done() = false after resolving every conflict")
	}
	if res.Current() != nil {
		t.Error("Current() != nil when done")
	}
	// Resolving past the end is a no-op.
	res.Resolve(false)

	want := []ItemAction{ItemUpdate, ItemSkip, ItemUpdate}
	for i, item := range payload.Items {
		if item.Action != want[i] {
			t.Errorf("item %q action = %q, want %q", item.Slug, item.Action, want[i])
		}
	}
}

func TestResolution_ResolveAll(t *testing.T) {
	payload := conflictPayload("a", "b", "c")
	payload.Items = append(payload.Items, &ImportItem{Slug: "d", Action: ItemAdd})

	res := NewResolution(payload)
	res.Resolve(false) // a decided individually
	res.ResolveAll(true)

	if !res.Done() {
		t.Fatal("Done() = false after ResolveAll")
	}
	want := map[string]ItemAction{
		"a": ItemSkip,
		"b": ItemUpdate,
		"c": ItemUpdate,
		"d": ItemAdd, // non-conflicts are untouched
	}
	for _, item := range payload.Items {
		if item.Action != want[item.Slug] {
			t.Errorf("item %q action = %q, want %q", item.Slug, item.Action, want[item.Slug])
		}
	}
}

func TestPayload_Conflicts(t *testing.T) {
	payload := &ImportPayload{Items: []*ImportItem{
		{Slug: "a", Action: ItemAdd},
		{Slug: "b", Action: ItemConflict},
		{Slug: "c", Action: ItemConflict},
	}}
	conflicts := payload.Conflicts()
	if len(conflicts) != 2 || conflicts[0].Slug != "b" || conflicts[1].Slug != "c" {
		t.Errorf("Conflicts() = %+v, want b and c in order", conflicts)
	}
}
