package schedule

import "testing"

func newTestSession(t *testing.T, values map[CellKey]string) (*Session, *Store) {
	t.Helper()
	store := NewStore()
	store.Load(values)
	return NewSession(store), store
}

func TestSession_ViewModeIgnoresClicks(t *testing.T) {
	key := testKey(1)
	session, store := newTestSession(t, map[CellKey]string{key: "D"})

	session.Click(key, false)

	cell, _ := store.Cell(key)
	if cell.Value != "D" {
		t.Fatalf("cell value = %q after view-mode click, want untouched D", cell.Value)
	}
	if session.Pending().Len() != 0 {
		t.Fatal("view-mode click produced a pending entry")
	}
}

func TestSession_ClearThenSet(t *testing.T) {
	key := testKey(1)
	session, store := newTestSession(t, map[CellKey]string{key: "D"})
	session.ToggleEdit()

	// First click on an occupied cell clears it and does not open the
	// editor.
	session.Click(key, false)
	if session.EditorOpen() {
		t.Fatal("editor opened on the clearing click")
	}
	cell, _ := store.Cell(key)
	if cell.Value != "" || cell.Pulse != PulseDeleted {
		t.Fatalf("cell = %+v after clear, want empty with deleted pulse", cell)
	}
	if got, ok := session.Pending().Get(key); !ok || got != "" {
		t.Fatalf("pending = (%q, %v), want explicit empty entry", got, ok)
	}

	// Second click opens the editor; the fresh clear suppresses the
	// editing highlight.
	session.Click(key, false)
	if session.Phase() != PhaseSingle {
		t.Fatalf("phase = %d after second click, want single", session.Phase())
	}
	cell, _ = store.Cell(key)
	if cell.Editing {
		t.Fatal("editing highlight shown right after a clear")
	}

	// Choosing a value replaces the empty pending entry in place.
	session.Choose("N")
	if got, _ := session.Pending().Get(key); got != "N" {
		t.Fatalf("pending = %q, want N", got)
	}
	if session.Pending().Len() != 1 {
		t.Fatalf("pending len = %d, want 1 (same cell re-edited)", session.Pending().Len())
	}
	if session.EditorOpen() {
		t.Fatal("editor still open after choose")
	}
}

func TestSession_EmptyCellClickShowsHighlight(t *testing.T) {
	key := testKey(1)
	session, store := newTestSession(t, map[CellKey]string{key: ""})
	session.ToggleEdit()

	session.Click(key, false)
	cell, _ := store.Cell(key)
	if !cell.Editing {
		t.Fatal("editing highlight missing on a plain empty-cell click")
	}
}

func TestSession_MultiSelectFanOut(t *testing.T) {
	keys := []CellKey{testKey(1), testKey(2), testKey(3)}
	values := map[CellKey]string{}
	for _, key := range keys {
		values[key] = ""
	}
	session, store := newTestSession(t, values)
	session.ToggleEdit()

	for _, key := range keys {
		session.Click(key, true)
	}
	if session.Phase() != PhaseMulti {
		t.Fatalf("phase = %d, want multi", session.Phase())
	}
	anchor, ok := session.Anchor()
	if !ok || anchor != keys[0] {
		t.Fatalf("anchor = (%v, %v), want first selected %v", anchor, ok, keys[0])
	}

	affected := session.Choose("D")
	if len(affected) != len(keys) {
		t.Fatalf("affected = %d cells, want %d", len(affected), len(keys))
	}
	if session.Pending().Len() != len(keys) {
		t.Fatalf("pending len = %d, want one entry per member", session.Pending().Len())
	}
	for _, key := range keys {
		cell, _ := store.Cell(key)
		if cell.Value != "D" {
			t.Fatalf("cell %v = %q, want D", key, cell.Value)
		}
		if got, _ := session.Pending().Get(key); got != "D" {
			t.Fatalf("pending for %v = %q, want D", key, got)
		}
	}
	if store.MultiSelect() {
		t.Fatal("selection survived the commit")
	}
}

func TestSession_DeselectingBelowOneClosesEditor(t *testing.T) {
	key := testKey(1)
	session, _ := newTestSession(t, map[CellKey]string{key: ""})
	session.ToggleEdit()

	session.Click(key, true)
	if session.Phase() != PhaseMulti {
		t.Fatalf("phase = %d, want multi after first ctrl-click", session.Phase())
	}
	session.Click(key, true)
	if session.Phase() != PhaseIdle {
		t.Fatalf("phase = %d after deselecting the only member, want idle", session.Phase())
	}
}

func TestSession_ConfirmHours(t *testing.T) {
	key := testKey(1)
	session, store := newTestSession(t, map[CellKey]string{key: ""})
	session.ToggleEdit()
	session.Click(key, false)
	session.OpenHours()

	// Invalid input keeps the panel open and the pending set untouched.
	if _, err := session.ConfirmHours("22", "10"); err == nil {
		t.Fatal("reversed interval accepted")
	}
	if !session.HoursOpen() {
		t.Fatal("hour panel closed on invalid input")
	}
	if session.Pending().Len() != 0 {
		t.Fatal("invalid interval reached the pending set")
	}

	affected, err := session.ConfirmHours("10", "22")
	if err != nil {
		t.Fatalf("ConfirmHours(10, 22) error: %v", err)
	}
	if len(affected) != 1 {
		t.Fatalf("affected = %d cells, want 1", len(affected))
	}
	cell, _ := store.Cell(key)
	if cell.Value != "P 10-22" || cell.Class != ClassCustom {
		t.Fatalf("cell = %+v, want committed P 10-22", cell)
	}
}

func TestSession_HoursRequireOpenPanel(t *testing.T) {
	session, _ := newTestSession(t, map[CellKey]string{testKey(1): ""})
	session.ToggleEdit()
	if _, err := session.ConfirmHours("10", "22"); err == nil {
		t.Fatal("ConfirmHours succeeded without an open panel")
	}
}

func TestSession_CancelDiscardsEverything(t *testing.T) {
	key := testKey(1)
	session, _ := newTestSession(t, map[CellKey]string{key: ""})
	session.ToggleEdit()
	session.Click(key, false)
	session.Choose("D")

	session.Cancel()

	if session.Phase() != PhaseView {
		t.Fatalf("phase = %d after cancel, want view", session.Phase())
	}
	if session.Pending().Len() != 0 {
		t.Fatal("pending edits survived cancel")
	}
}

func TestSession_DismissKeepsPending(t *testing.T) {
	first, second := testKey(1), testKey(2)
	session, _ := newTestSession(t, map[CellKey]string{first: "", second: ""})
	session.ToggleEdit()
	session.Click(first, false)
	session.Choose("D")

	session.Click(second, false)
	session.Dismiss()

	if session.EditorOpen() {
		t.Fatal("editor open after dismiss")
	}
	if session.Phase() != PhaseIdle {
		t.Fatalf("phase = %d after dismiss, want idle", session.Phase())
	}
	if session.Pending().Len() != 1 {
		t.Fatalf("pending len = %d after dismiss, want earlier edit kept", session.Pending().Len())
	}
}

func TestSession_PlainClickAbandonsMultiSelect(t *testing.T) {
	first, second := testKey(1), testKey(2)
	session, store := newTestSession(t, map[CellKey]string{first: "", second: ""})
	session.ToggleEdit()

	session.Click(first, true)
	session.Click(second, false)

	if store.MultiSelect() {
		t.Fatal("multi-select group survived a plain click")
	}
	if session.Phase() != PhaseSingle {
		t.Fatalf("phase = %d, want single targeting the plain click", session.Phase())
	}
}
