// Package sidebar implements the sidebar tree (C7): a flat list of pane
// items with automatic worktree-prefix grouping, selection, and
// visibility toggling, per §4.7.
package sidebar

import "strings"

// Item is either a pane leaf or a group header. Exactly one of PaneID /
// Group is meaningful, selected by Kind.
type Item struct {
	Kind     ItemKind
	PaneID   string // set when Kind == ItemPane
	Group    *Group // set when Kind == ItemGroup
}

type ItemKind int

const (
	ItemPane ItemKind = iota
	ItemGroup
)

// Group is a collapsible set of worker panes sharing a worktree-dir prefix.
type Group struct {
	Name     string
	Expanded bool
	Children []string // pane ids
}

// PaneState is the subset of pane metadata the sidebar needs to render and
// toggle visibility, decoupled from internal/pane to avoid a dependency
// cycle (panes don't know about the sidebar, per §9 "Cyclic references
// avoided").
type PaneState struct {
	ID      string
	Dir     string // worker working directory, used for grouping
	Visible bool
}

// Tree is the sidebar's full state: the architect item (always first,
// standalone), followed by grouped/standalone worker items, plus the
// current selection.
type Tree struct {
	Architect string // pane id, empty if none
	Items     []Item
	Groups    map[string]*Group

	selected int // index into the flattened visible list
	panes    map[string]*PaneState
}

// Build constructs a Tree from the architect pane and a set of worker
// panes, applying the §4.7 "Grouping rule".
func Build(architect PaneState, workers []PaneState) *Tree {
	t := &Tree{
		Architect: architect.ID,
		Groups:    make(map[string]*Group),
		panes:     make(map[string]*PaneState),
	}

	if architect.ID != "" {
		arch := architect
		t.panes[arch.ID] = &arch
	}
	for i := range workers {
		w := workers[i]
		t.panes[w.ID] = &w
	}

	prefixOf := make(map[string]string, len(workers))
	countByPrefix := make(map[string]int)
	for _, w := range workers {
		prefix, ok := groupPrefix(w.Dir)
		if !ok {
			continue
		}
		prefixOf[w.ID] = prefix
		countByPrefix[prefix]++
	}

	if architect.ID != "" {
		t.Items = append(t.Items, Item{Kind: ItemPane, PaneID: architect.ID})
	}

	seenGroup := make(map[string]bool)
	for _, w := range workers {
		prefix, grouped := prefixOf[w.ID]
		if grouped && countByPrefix[prefix] >= 2 {
			if !seenGroup[prefix] {
				g := &Group{Name: prefix, Expanded: true}
				t.Groups[prefix] = g
				t.Items = append(t.Items, Item{Kind: ItemGroup, Group: g})
				seenGroup[prefix] = true
			}
			t.Groups[prefix].Children = append(t.Groups[prefix].Children, w.ID)
			continue
		}
		t.Items = append(t.Items, Item{Kind: ItemPane, PaneID: w.ID})
	}

	return t
}

// groupPrefix applies the rightmost-dash split rule: strip a leading "./",
// then split at the last "-". Both sides must be nonempty.
func groupPrefix(dir string) (string, bool) {
	dir = strings.TrimPrefix(dir, "./")
	idx := strings.LastIndex(dir, "-")
	if idx <= 0 || idx >= len(dir)-1 {
		return "", false
	}
	return dir[:idx], true
}

// VisibleItems returns the flattened list respecting group collapse state.
// An expanded group's header is followed by one ItemPane row per child, so
// each grouped worker is its own selectable/activatable row; a collapsed
// group contributes only its header and hides its children from the list
// (their Visible flag is untouched either way), per §4.7 "Collapsing a
// group hides its children from the sidebar list".
func (t *Tree) VisibleItems() []Item {
	out := make([]Item, 0, len(t.Items))
	for _, it := range t.Items {
		out = append(out, it)
		if it.Kind == ItemGroup && it.Group.Expanded {
			for _, id := range it.Group.Children {
				out = append(out, Item{Kind: ItemPane, PaneID: id})
			}
		}
	}
	return out
}

// Selected returns the currently-selected item, or nil if the tree is
// empty.
func (t *Tree) Selected() *Item {
	items := t.VisibleItems()
	if t.selected < 0 || t.selected >= len(items) {
		return nil
	}
	return &items[t.selected]
}

// MoveSelection moves the selection by delta within the visible list,
// clamped to bounds.
func (t *Tree) MoveSelection(delta int) {
	items := t.VisibleItems()
	if len(items) == 0 {
		return
	}
	t.selected += delta
	if t.selected < 0 {
		t.selected = 0
	}
	if t.selected >= len(items) {
		t.selected = len(items) - 1
	}
}

// ToggleSelected applies §4.7's toggle_selected rule to the current
// selection.
func (t *Tree) ToggleSelected() {
	item := t.Selected()
	if item == nil {
		return
	}
	switch item.Kind {
	case ItemPane:
		if p, ok := t.panes[item.PaneID]; ok {
			p.Visible = !p.Visible
		}
	case ItemGroup:
		anyVisible := false
		for _, id := range item.Group.Children {
			if p, ok := t.panes[id]; ok && p.Visible {
				anyVisible = true
				break
			}
		}
		newState := !anyVisible
		for _, id := range item.Group.Children {
			if p, ok := t.panes[id]; ok {
				p.Visible = newState
			}
		}
	}
}

// SelectAll sets Visible = true for the current group's children, or for
// every pane if the selection is not a group.
func (t *Tree) SelectAll() {
	t.setAll(true)
}

// SelectNone sets Visible = false for the current group's children, or
// for every pane if the selection is not a group.
func (t *Tree) SelectNone() {
	t.setAll(false)
}

func (t *Tree) setAll(visible bool) {
	item := t.Selected()
	if item != nil && item.Kind == ItemGroup {
		for _, id := range item.Group.Children {
			if p, ok := t.panes[id]; ok {
				p.Visible = visible
			}
		}
		return
	}
	for _, p := range t.panes {
		p.Visible = visible
	}
}

// GroupOf returns the name of the group paneID belongs to, or "" if it is
// standalone. Used by renderers to indent a flattened group child under its
// header.
func (t *Tree) GroupOf(paneID string) string {
	for _, g := range t.Groups {
		for _, id := range g.Children {
			if id == paneID {
				return g.Name
			}
		}
	}
	return ""
}

// IsVisible reports a pane's current visibility.
func (t *Tree) IsVisible(paneID string) bool {
	p, ok := t.panes[paneID]
	return ok && p.Visible
}

// ToggleGroupExpanded flips Expanded on the currently-selected group, if
// any.
func (t *Tree) ToggleGroupExpanded() {
	item := t.Selected()
	if item != nil && item.Kind == ItemGroup {
		item.Group.Expanded = !item.Group.Expanded
	}
}

// ActivatePane marks a pane visible and returns its id so the reactor can
// transfer keyboard focus to the main area, per §4.7 "Focus-by-enter".
func (t *Tree) ActivatePane() (paneID string, ok bool) {
	item := t.Selected()
	if item == nil || item.Kind != ItemPane {
		return "", false
	}
	if p, found := t.panes[item.PaneID]; found {
		p.Visible = true
	}
	return item.PaneID, true
}
