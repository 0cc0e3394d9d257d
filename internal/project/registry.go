// Package project manages the cross-project registry at
// ~/.hive/projects.json, backing the `list`/`open`/`up` CLI commands
// (§6 "Persisted state"). The registry is a small flat JSON array, so it
// uses encoding/json directly rather than a third-party serializer — see
// the grounding ledger for why this is the one place that's justified.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Entry is one row of the registry.
type Entry struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	LastOpenedAt string `json:"last_opened_at"`
}

// Registry is the parsed ~/.hive/projects.json file.
type Registry struct {
	path    string
	Entries []Entry
}

// defaultPath returns ~/.hive/projects.json.
func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".hive", "projects.json"), nil
}

// Load reads the registry from its default location, returning an empty
// Registry if the file doesn't exist yet.
func Load() (*Registry, error) {
	path, err := defaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the registry from an explicit path (used by tests).
func LoadFrom(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{path: path}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &Registry{path: path, Entries: entries}, nil
}

// Save writes the registry back to disk, creating its parent directory if
// needed.
func (r *Registry) Save() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create registry dir: %w", err)
	}
	data, err := json.MarshalIndent(r.Entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	return os.WriteFile(r.path, data, 0o644)
}

// Touch records a project as opened now, inserting it if new, and moves it
// to the front of the list.
func (r *Registry) Touch(name, path, openedAt string) {
	filtered := r.Entries[:0]
	for _, e := range r.Entries {
		if e.Path != path {
			filtered = append(filtered, e)
		}
	}
	r.Entries = append([]Entry{{Name: name, Path: path, LastOpenedAt: openedAt}}, filtered...)
}

// Find returns the entry for a project by name, if registered.
func (r *Registry) Find(name string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Sorted returns the entries ordered by most-recently-opened first.
func (r *Registry) Sorted() []Entry {
	out := make([]Entry, len(r.Entries))
	copy(out, r.Entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastOpenedAt > out[j].LastOpenedAt
	})
	return out
}
