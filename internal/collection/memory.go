package collection

// memory.go provides an in-memory Store used by tests and by the CLI's
// dry-run mode. It mirrors the upsert semantics the engine expects from
// a real host store.

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a Store backed by in-process maps. Safe for concurrent
// use, though the engine itself is single-flight per collection.
type MemoryStore struct {
	mu         sync.RWMutex
	fields     []Field
	items      []Item
	pluginData map[string]string
}

// NewMemoryStore creates an empty in-memory collection with the given
// schema. Fields without an ID are assigned one.
func NewMemoryStore(fields []Field) *MemoryStore {
	withIDs := make([]Field, len(fields))
	for i, f := range fields {
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
		withIDs[i] = f
	}
	return &MemoryStore{
		fields:     withIDs,
		pluginData: make(map[string]string),
	}
}

// MemoryResolver resolves collection ids to MemoryStores.
type MemoryResolver map[string]*MemoryStore

// Collection implements Resolver.
func (r MemoryResolver) Collection(_ context.Context, id string) (Store, error) {
	store, ok := r[id]
	if !ok {
		return nil, ErrNotFound
	}
	return store, nil
}

// GetFields implements Store.
func (s *MemoryStore) GetFields(_ context.Context) ([]Field, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out, nil
}

// SetFields implements Store. The given fields replace the schema;
// fields without an ID are assigned one.
func (s *MemoryStore) SetFields(_ context.Context, fields []Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]Field, len(fields))
	for i, f := range fields {
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
		next[i] = f
	}
	s.fields = next
	return nil
}

// GetItems implements Store.
func (s *MemoryStore) GetItems(_ context.Context) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

// GetItemIDs implements Store.
func (s *MemoryStore) GetItemIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.items))
	for i, item := range s.items {
		ids[i] = item.ID
	}
	return ids, nil
}

// AddItems implements Store. Items with an ID update the stored item in
// place; items without an ID are appended under a fresh ID.
func (s *MemoryStore) AddItems(_ context.Context, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]int, len(s.items))
	for i, item := range s.items {
		byID[item.ID] = i
	}

	for _, item := range items {
		if item.ID != "" {
			if i, ok := byID[item.ID]; ok {
				s.items[i] = item
				continue
			}
		} else {
			item.ID = uuid.New().String()
		}
		byID[item.ID] = len(s.items)
		s.items = append(s.items, item)
	}
	return nil
}

// RemoveItems implements Store. Unknown ids are ignored.
func (s *MemoryStore) RemoveItems(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	remove := make(map[string]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}

	kept := s.items[:0]
	for _, item := range s.items {
		if !remove[item.ID] {
			kept = append(kept, item)
		}
	}
	s.items = kept
	return nil
}

// GetPluginData implements Store. Returns ErrNotFound for unset keys.
func (s *MemoryStore) GetPluginData(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.pluginData[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// SetPluginData implements Store. An empty value deletes the key.
func (s *MemoryStore) SetPluginData(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.pluginData, key)
		return nil
	}
	s.pluginData[key] = value
	return nil
}
