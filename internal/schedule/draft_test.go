package schedule

import "testing"

func TestDraft_DiffTracksDisplayedVsOfficial(t *testing.T) {
	key := testKey(1)
	store := NewStore()
	store.Load(map[CellKey]string{key: "D"})
	draft := NewDraft(store)

	if err := draft.Enter(map[CellKey]string{key: "D"}, nil); err != nil {
		t.Fatalf("Enter error: %v", err)
	}
	if diff := draft.Diff(); len(diff) != 0 {
		t.Fatalf("diff = %v right after entry, want empty", diff)
	}

	store.SetValue(key, "N")
	diff := draft.Diff()
	if len(diff) != 1 || diff[0].ShiftType != "N" || diff[0].Date != key.Date {
		t.Fatalf("diff = %v, want single N change", diff)
	}

	// Toggling back to the official value drops out of the diff no
	// matter how many edits happened in between.
	store.SetValue(key, "")
	store.SetValue(key, "D")
	if diff := draft.Diff(); len(diff) != 0 {
		t.Fatalf("diff = %v after round-trip, want empty", diff)
	}
}

func TestDraft_DeletionIsExplicitInDiff(t *testing.T) {
	key := testKey(1)
	store := NewStore()
	store.Load(map[CellKey]string{key: "D"})
	draft := NewDraft(store)
	if err := draft.Enter(map[CellKey]string{key: "D"}, nil); err != nil {
		t.Fatalf("Enter error: %v", err)
	}

	store.SetValue(key, "")
	diff := draft.Diff()
	if len(diff) != 1 || diff[0].ShiftType != "" {
		t.Fatalf("diff = %v, want explicit empty shift for the deletion", diff)
	}
}

func TestDraft_StagedOverlayAppliedOnEntry(t *testing.T) {
	key := testKey(1)
	store := NewStore()
	store.Load(map[CellKey]string{key: "D"})
	draft := NewDraft(store)

	staged := map[CellKey]string{key: "N"}
	if err := draft.Enter(map[CellKey]string{key: "D"}, staged); err != nil {
		t.Fatalf("Enter error: %v", err)
	}

	cell, _ := store.Cell(key)
	if cell.Value != "N" {
		t.Fatalf("displayed value = %q, want staged N over official D", cell.Value)
	}
	diff := draft.Diff()
	if len(diff) != 1 || diff[0].ShiftType != "N" {
		t.Fatalf("diff = %v, want the staged change", diff)
	}
}

func TestDraft_ExitRestoresOfficialSnapshot(t *testing.T) {
	key := testKey(1)
	store := NewStore()
	store.Load(map[CellKey]string{key: "D"})
	draft := NewDraft(store)
	if err := draft.Enter(map[CellKey]string{key: "D"}, nil); err != nil {
		t.Fatalf("Enter error: %v", err)
	}

	store.SetValue(key, "N")
	store.SetValue(key, "URLOP")
	draft.ExitWithoutPublish()

	cell, _ := store.Cell(key)
	if cell.Value != "D" {
		t.Fatalf("value = %q after exit, want official D restored", cell.Value)
	}
	if cell.HasOfficial {
		t.Fatal("official marker kept after exit")
	}
	if draft.Active() {
		t.Fatal("draft still active after exit")
	}
}

func TestDraft_DoubleEnterRejected(t *testing.T) {
	store := NewStore()
	store.Load(map[CellKey]string{testKey(1): "D"})
	draft := NewDraft(store)
	if err := draft.Enter(nil, nil); err != nil {
		t.Fatalf("first Enter error: %v", err)
	}
	if err := draft.Enter(nil, nil); err == nil {
		t.Fatal("second Enter accepted while active")
	}
}

func TestDraft_FinishPublishClearsMarkers(t *testing.T) {
	key := testKey(1)
	store := NewStore()
	store.Load(map[CellKey]string{key: "D"})
	draft := NewDraft(store)
	if err := draft.Enter(map[CellKey]string{key: "D"}, nil); err != nil {
		t.Fatalf("Enter error: %v", err)
	}

	store.SetValue(key, "N")
	draft.FinishPublish()

	if draft.Active() {
		t.Fatal("draft active after publish")
	}
	cell, _ := store.Cell(key)
	if cell.HasOfficial {
		t.Fatal("official marker kept after publish")
	}
	// The published value stays on screen until the caller reloads.
	if cell.Value != "N" {
		t.Fatalf("value = %q after publish, want the published N", cell.Value)
	}
}
