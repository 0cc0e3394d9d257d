package project

import (
	"path/filepath"
	"testing"
)

func TestLoadFrom_MissingFileReturnsEmptyRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	reg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if len(reg.Entries) != 0 {
		t.Errorf("expected no entries, got %v", reg.Entries)
	}
}

func TestTouch_InsertsNewEntryAtFront(t *testing.T) {
	reg := &Registry{}
	reg.Touch("alpha", "/repos/alpha", "2026-01-01T00:00:00Z")
	reg.Touch("beta", "/repos/beta", "2026-01-02T00:00:00Z")

	if len(reg.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(reg.Entries))
	}
	if reg.Entries[0].Name != "beta" {
		t.Errorf("expected most recently touched entry first, got %q", reg.Entries[0].Name)
	}
}

func TestTouch_ReTouchingExistingPathMovesItToFront(t *testing.T) {
	reg := &Registry{}
	reg.Touch("alpha", "/repos/alpha", "2026-01-01T00:00:00Z")
	reg.Touch("beta", "/repos/beta", "2026-01-02T00:00:00Z")
	reg.Touch("alpha", "/repos/alpha", "2026-01-03T00:00:00Z")

	if len(reg.Entries) != 2 {
		t.Fatalf("expected touch to replace the existing entry, got %d entries", len(reg.Entries))
	}
	if reg.Entries[0].Name != "alpha" || reg.Entries[0].LastOpenedAt != "2026-01-03T00:00:00Z" {
		t.Errorf("expected alpha moved to front with updated timestamp, got %+v", reg.Entries[0])
	}
}

func TestFind_ReturnsMatchingEntry(t *testing.T) {
	reg := &Registry{}
	reg.Touch("alpha", "/repos/alpha", "2026-01-01T00:00:00Z")

	entry, ok := reg.Find("alpha")
	if !ok {
		t.Fatal("expected to find alpha")
	}
	if entry.Path != "/repos/alpha" {
		t.Errorf("path = %q", entry.Path)
	}

	if _, ok := reg.Find("missing"); ok {
		t.Error("expected missing project to not be found")
	}
}

func TestSorted_OrdersByMostRecentlyOpenedFirst(t *testing.T) {
	reg := &Registry{Entries: []Entry{
		{Name: "alpha", Path: "/a", LastOpenedAt: "2026-01-01T00:00:00Z"},
		{Name: "beta", Path: "/b", LastOpenedAt: "2026-03-01T00:00:00Z"},
		{Name: "gamma", Path: "/c", LastOpenedAt: "2026-02-01T00:00:00Z"},
	}}

	got := reg.Sorted()
	want := []string{"beta", "gamma", "alpha"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestSaveThenLoadFrom_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	reg := &Registry{path: path}
	reg.Touch("alpha", "/repos/alpha", "2026-01-01T00:00:00Z")
	reg.Touch("beta", "/repos/beta", "2026-01-02T00:00:00Z")

	if err := reg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if len(reloaded.Entries) != 2 {
		t.Fatalf("expected 2 entries after round-trip, got %d", len(reloaded.Entries))
	}
	if reloaded.Entries[0].Name != "beta" {
		t.Errorf("expected beta first after round-trip, got %q", reloaded.Entries[0].Name)
	}
}
