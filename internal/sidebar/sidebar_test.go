package sidebar

import "testing"

func TestBuild_GroupsWorkersSharingPrefix(t *testing.T) {
	architect := PaneState{ID: "arch"}
	workers := []PaneState{
		{ID: "w1", Dir: "backend-api"},
		{ID: "w2", Dir: "backend-auth"},
		{ID: "w3", Dir: "backend-tests"},
		{ID: "w4", Dir: "docs"},
	}

	tree := Build(architect, workers)

	if tree.Items[0].Kind != ItemPane || tree.Items[0].PaneID != "arch" {
		t.Fatalf("expected architect first, got %+v", tree.Items[0])
	}

	var group *Group
	standalone := 0
	for _, it := range tree.Items[1:] {
		if it.Kind == ItemGroup {
			group = it.Group
		} else {
			standalone++
		}
	}
	if group == nil {
		t.Fatal("expected a backend group")
	}
	if group.Name != "backend" {
		t.Errorf("group name = %q, want backend", group.Name)
	}
	if len(group.Children) != 3 {
		t.Errorf("group children = %d, want 3", len(group.Children))
	}
	if !group.Expanded {
		t.Error("new groups should start expanded")
	}
	if standalone != 1 {
		t.Errorf("expected exactly 1 standalone worker (docs), got %d", standalone)
	}
}

func TestBuild_SingleSharingPrefixStaysStandalone(t *testing.T) {
	tree := Build(PaneState{ID: "arch"}, []PaneState{
		{ID: "w1", Dir: "backend-api"},
		{ID: "w2", Dir: "frontend-ui"},
	})

	for _, it := range tree.Items {
		if it.Kind == ItemGroup {
			t.Fatalf("expected no group when every prefix has only one worker, got %+v", it.Group)
		}
	}
}

func TestGroupPrefix_RejectsEmptySides(t *testing.T) {
	if _, ok := groupPrefix("-leading"); ok {
		t.Error("expected a leading dash to be rejected (empty left side)")
	}
	if _, ok := groupPrefix("trailing-"); ok {
		t.Error("expected a trailing dash to be rejected (empty right side)")
	}
	if _, ok := groupPrefix("nodash"); ok {
		t.Error("expected a dirname with no dash to be rejected")
	}
}

func TestToggleSelected_Pane(t *testing.T) {
	tree := Build(PaneState{ID: "arch"}, []PaneState{
		{ID: "w1", Dir: "solo"},
	})
	tree.selected = 1 // the w1 pane item

	if tree.IsVisible("w1") {
		t.Fatal("expected w1 to start hidden")
	}
	tree.ToggleSelected()
	if !tree.IsVisible("w1") {
		t.Error("expected ToggleSelected to show the pane")
	}
	tree.ToggleSelected()
	if tree.IsVisible("w1") {
		t.Error("expected a second ToggleSelected to hide the pane again")
	}
}

func TestToggleSelected_Group_AnyVisibleFlipsAll(t *testing.T) {
	tree := Build(PaneState{ID: "arch"}, []PaneState{
		{ID: "w1", Dir: "backend-api", Visible: true},
		{ID: "w2", Dir: "backend-auth", Visible: false},
	})

	// Selection index 1 is the group header (0 = architect).
	tree.selected = 1
	item := tree.Selected()
	if item == nil || item.Kind != ItemGroup {
		t.Fatalf("expected selection to land on the group, got %+v", item)
	}

	tree.ToggleSelected()
	if tree.IsVisible("w1") || tree.IsVisible("w2") {
		t.Error("any_visible was true, expected toggle to hide all children")
	}

	tree.ToggleSelected()
	if !tree.IsVisible("w1") || !tree.IsVisible("w2") {
		t.Error("any_visible was false, expected toggle to show all children")
	}
}

func TestVisibleItems_ExpandedGroupFlattensChildrenCollapsedHidesThem(t *testing.T) {
	tree := Build(PaneState{ID: "arch"}, []PaneState{
		{ID: "w1", Dir: "backend-api", Visible: true},
		{ID: "w2", Dir: "backend-auth", Visible: true},
	})

	expanded := tree.VisibleItems()
	if len(expanded) != 4 {
		t.Fatalf("expected architect + group header + 2 children while expanded, got %d: %+v", len(expanded), expanded)
	}
	if expanded[2].Kind != ItemPane || expanded[2].PaneID != "w1" {
		t.Errorf("expected w1 flattened into the visible list, got %+v", expanded[2])
	}
	if expanded[3].Kind != ItemPane || expanded[3].PaneID != "w2" {
		t.Errorf("expected w2 flattened into the visible list, got %+v", expanded[3])
	}

	for _, g := range tree.Groups {
		g.Expanded = false
	}

	collapsed := tree.VisibleItems()
	if len(collapsed) != 2 {
		t.Fatalf("expected only architect + group header while collapsed, got %d: %+v", len(collapsed), collapsed)
	}
	if !tree.IsVisible("w1") || !tree.IsVisible("w2") {
		t.Error("collapsing a group must not change child Visible flags")
	}
}

func TestActivatePane_SelectsFlattenedGroupChild(t *testing.T) {
	tree := Build(PaneState{ID: "arch"}, []PaneState{
		{ID: "w1", Dir: "backend-api"},
		{ID: "w2", Dir: "backend-auth"},
	})

	tree.selected = 2 // arch(0), group header(1), w1(2)
	id, ok := tree.ActivatePane()
	if !ok || id != "w1" {
		t.Fatalf("ActivatePane() = %q, %v, want w1", id, ok)
	}
	if !tree.IsVisible("w1") {
		t.Error("expected activating a grouped worker to mark it visible")
	}
}

func TestGroupOf_ReportsGroupNameForChildrenOnly(t *testing.T) {
	tree := Build(PaneState{ID: "arch"}, []PaneState{
		{ID: "w1", Dir: "backend-api"},
		{ID: "w2", Dir: "backend-auth"},
		{ID: "w3", Dir: "docs"},
	})

	if tree.GroupOf("w1") != "backend" {
		t.Errorf("GroupOf(w1) = %q, want backend", tree.GroupOf("w1"))
	}
	if tree.GroupOf("w3") != "" {
		t.Errorf("GroupOf(w3) = %q, want empty for a standalone worker", tree.GroupOf("w3"))
	}
	if tree.GroupOf("arch") != "" {
		t.Error("expected the architect to never be reported as a group member")
	}
}

func TestActivatePane_MakesVisibleAndReturnsID(t *testing.T) {
	tree := Build(PaneState{ID: "arch"}, []PaneState{
		{ID: "w1", Dir: "solo"},
	})
	tree.selected = 1

	id, ok := tree.ActivatePane()
	if !ok || id != "w1" {
		t.Fatalf("ActivatePane() = %q, %v", id, ok)
	}
	if !tree.IsVisible("w1") {
		t.Error("expected ActivatePane to mark the pane visible")
	}
}
