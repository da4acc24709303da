package storage

import (
	"testing"
)

type testDoc struct {
	Names []string `json:"names"`
}

func TestJSONStoreRoundTrip(t *testing.T) {
	store, err := NewJSONStore(t.TempDir(), "catalog.json")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if store.Exists() {
		t.Fatal("store should not exist before first save")
	}

	var empty testDoc
	if err := store.Load(&empty); err != nil {
		t.Fatalf("loading a missing file should be a no-op, got %v", err)
	}
	if len(empty.Names) != 0 {
		t.Fatalf("expected empty doc, got %+v", empty)
	}

	if err := store.Save(testDoc{Names: []string{"Taps", "Handles"}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !store.Exists() {
		t.Fatal("store should exist after save")
	}

	var loaded testDoc
	if err := store.Load(&loaded); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.Names) != 2 || loaded.Names[0] != "Taps" {
		t.Fatalf("loaded %+v", loaded)
	}
}
