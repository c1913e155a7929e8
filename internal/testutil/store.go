package testutil

import (
	"testing"

	"todo/internal/kv"
	"todo/internal/taskstore"
)

// NewStore opens a store over fresh memory storage and adds texts in order.
// Task ids therefore run 1..len(texts).
func NewStore(t *testing.T, texts ...string) *taskstore.Store {
	t.Helper()
	return NewStoreOn(t, kv.NewMemory(), texts...)
}

// NewStoreOn is like NewStore but uses storage.
func NewStoreOn(t *testing.T, storage kv.Storage, texts ...string) *taskstore.Store {
	t.Helper()

	store, err := taskstore.Open(storage)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for _, text := range texts {
		if _, _, err := store.Add(text); err != nil {
			t.Fatalf("add %q: %v", text, err)
		}
	}
	return store
}

// Complete marks every id completed.
func Complete(t *testing.T, store *taskstore.Store, ids ...int) {
	t.Helper()
	for _, id := range ids {
		if _, err := store.SetCompleted(id, true); err != nil {
			t.Fatalf("complete %d: %v", id, err)
		}
	}
}
