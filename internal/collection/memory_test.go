package collection

import (
	"context"
	"errors"
	"testing"
)

// ----------------------------------------------------------------------------
// MemoryStore Tests
// ----------------------------------------------------------------------------

func TestMemoryStore_FieldIDsAssigned(t *testing.T) {
	store := NewMemoryStore([]Field{
		{Name: "Title", Type: FieldString},
		{ID: "keep-me", Name: "Body", Type: FieldString},
	})

	fields, err := store.GetFields(context.Background())
	if err != nil {
		t.Fatalf("GetFields() error = %v", err)
	}
	if fields[0].ID == "" {
		t.Error("field without an id was not assigned one")
	}
	if fields[1].ID != "keep-me" {
		t.Errorf("fields[1].ID = %q, want the provided id kept", fields[1].ID)
	}
}

func TestMemoryStore_AddItemsUpsert(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)

	if err := store.AddItems(ctx, []Item{
		{Slug: "alice", FieldData: map[string]any{"f": "v1"}},
		{Slug: "bob", FieldData: map[string]any{"f": "v2"}},
	}); err != nil {
		t.Fatalf("AddItems() error = %v", err)
	}

	ids, err := store.GetItemIDs(ctx)
	if err != nil {
		t.Fatalf("GetItemIDs() error = %v", err)
	}
	if len(ids) != 2 || ids[0] == "" || ids[1] == "" {
		t.Fatalf("GetItemIDs() = %v, want two assigned ids", ids)
	}

	// An item carrying a known id replaces the stored item in place.
	if err := store.AddItems(ctx, []Item{
		{ID: ids[0], Slug: "alice", FieldData: map[string]any{"f": "v3"}},
	}); err != nil {
		t.Fatalf("AddItems() error = %v", err)
	}
	items, _ := store.GetItems(ctx)
	if len(items) != 2 {
		t.Fatalf("len(items) = %d after upsert, want 2", len(items))
	}
	if items[0].FieldData["f"] != "v3" {
		t.Errorf("item not replaced: %+v", items[0])
	}
}

func TestMemoryStore_RemoveItems(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	if err := store.AddItems(ctx, []Item{{Slug: "a"}, {Slug: "b"}}); err != nil {
		t.Fatalf("AddItems() error = %v", err)
	}
	ids, _ := store.GetItemIDs(ctx)

	if err := store.RemoveItems(ctx, []string{ids[0], "no-such-id"}); err != nil {
		t.Fatalf("RemoveItems() error = %v", err)
	}
	items, _ := store.GetItems(ctx)
	if len(items) != 1 || items[0].Slug != "b" {
		t.Errorf("items after remove = %+v, want only b", items)
	}
}

func TestMemoryStore_PluginData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)

	if _, err := store.GetPluginData(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPluginData() error = %v, want ErrNotFound", err)
	}

	if err := store.SetPluginData(ctx, "k", "v"); err != nil {
		t.Fatalf("SetPluginData() error = %v", err)
	}
	got, err := store.GetPluginData(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("GetPluginData() = %q, %v", got, err)
	}

	// An empty value deletes the key.
	if err := store.SetPluginData(ctx, "k", ""); err != nil {
		t.Fatalf("SetPluginData() error = %v", err)
	}
	if _, err := store.GetPluginData(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPluginData() after delete error = %v, want ErrNotFound", err)
	}
}

func TestMemoryResolver(t *testing.T) {
	store := NewMemoryStore(nil)
	resolver := MemoryResolver{"posts": store}

	got, err := resolver.Collection(context.Background(), "posts")
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}
	if got != Store(store) {
		t.Error("Collection() returned a different store")
	}

	if _, err := resolver.Collection(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Collection() error = %v, want ErrNotFound", err)
	}
}
