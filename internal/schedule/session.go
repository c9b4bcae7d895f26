package schedule

import "fmt"

// Phase is the edit session's state-machine state.
type Phase int

const (
	// PhaseView is the initial and terminal display-only state.
	PhaseView Phase = iota
	// PhaseIdle is edit mode with no editor popover open.
	PhaseIdle
	// PhaseSingle has the editor open for one targeted cell.
	PhaseSingle
	// PhaseMulti has the editor open for the whole selection group.
	PhaseMulti
)

// Session owns the edit-mode state machine: entering and leaving edit
// mode, single versus multi-cell selection, editor targeting, the
// custom-hour sub-panel, and dispatch of chosen values into the pending
// change set. There is exactly one Session per loaded grid; nothing
// else mutates the pending set.
type Session struct {
	store   *Store
	pending *PendingChangeSet

	phase     Phase
	target    CellKey
	hasTarget bool

	// justDeleted suppresses the editing highlight on the click that
	// follows a clear. Explicit state, not a timer: the clear-then-set
	// interaction is a deliberate two-step protocol.
	justDeleted bool

	hoursOpen bool
}

// NewSession wires a session to its cell store.
func NewSession(store *Store) *Session {
	return &Session{
		store:   store,
		pending: NewPendingChangeSet(),
		phase:   PhaseView,
	}
}

// Phase returns the current state-machine state.
func (s *Session) Phase() Phase { return s.phase }

// Pending exposes the unsaved edits for listing and saving.
func (s *Session) Pending() *PendingChangeSet { return s.pending }

// Editing reports whether edit mode is active at all.
func (s *Session) Editing() bool { return s.phase != PhaseView }

// EditorOpen reports whether the value popover is showing.
func (s *Session) EditorOpen() bool {
	return s.phase == PhaseSingle || s.phase == PhaseMulti
}

// HoursOpen reports whether the custom-interval hour sub-panel is showing.
func (s *Session) HoursOpen() bool { return s.hoursOpen }

// Anchor returns the cell the editor popover should be positioned
// under: the first selected cell in multi-select, otherwise the single
// edit target.
func (s *Session) Anchor() (CellKey, bool) {
	if s.phase == PhaseMulti {
		return s.store.Anchor()
	}
	if s.phase == PhaseSingle && s.hasTarget {
		return s.target, true
	}
	return CellKey{}, false
}

// ToggleEdit flips between VIEW and edit mode. Leaving edit mode this
// way discards all pending edits and closes any open editor.
func (s *Session) ToggleEdit() {
	if s.phase == PhaseView {
		s.phase = PhaseIdle
		return
	}
	s.exit()
}

func (s *Session) exit() {
	s.pending.Clear()
	s.closeEditor()
	s.phase = PhaseView
	s.justDeleted = false
}

func (s *Session) closeEditor() {
	s.store.ClearEditing()
	s.store.ClearSelection()
	s.hasTarget = false
	s.hoursOpen = false
	if s.phase == PhaseSingle || s.phase == PhaseMulti {
		s.phase = PhaseIdle
	}
}

// Click handles a cell activation while edit mode is on. ctrl marks a
// multi-select accumulation click.
//
// A plain click on an occupied cell clears it immediately and does not
// open the editor; the follow-up click on the now-empty cell opens it.
// This two-step clear-then-set interaction is intentional.
func (s *Session) Click(key CellKey, ctrl bool) {
	if s.phase == PhaseView {
		return
	}

	if ctrl {
		s.store.ToggleSelect(key)
		if s.store.MultiSelect() {
			s.phase = PhaseMulti
		} else {
			s.closeEditor()
		}
		s.justDeleted = false
		return
	}

	// A plain click abandons any multi-select group and any editor
	// opened for a different cell.
	s.store.ClearSelection()
	if s.phase == PhaseMulti {
		s.phase = PhaseIdle
	}
	if s.phase == PhaseSingle && s.target != key {
		s.closeEditor()
	}

	cell, ok := s.store.Cell(key)
	if !ok {
		return
	}

	if cell.Value != "" {
		s.store.SetValue(key, "")
		s.pending.Set(key, "")
		s.justDeleted = true
		s.closeEditor()
		return
	}

	// Empty cell: open (or keep open) the editor targeting it.
	s.phase = PhaseSingle
	s.target = key
	s.hasTarget = true
	if s.justDeleted {
		// Editor opens without the editing highlight right after a
		// clear, so the cleared cell does not flash back to "editing".
		s.store.ClearEditing()
		s.justDeleted = false
	} else {
		s.store.MarkEditing(key)
	}
}

// Dismiss closes the editor without committing, e.g. a click outside
// the popover and grid cells.
func (s *Session) Dismiss() {
	if !s.EditorOpen() {
		return
	}
	s.closeEditor()
}

// Choose commits a value from the editor. In multi-select the value
// fans out identically to every member of the selection, each getting
// its own pending entry; otherwise only the targeted cell changes. The
// affected keys are returned and the editor closes.
func (s *Session) Choose(value string) []CellKey {
	var affected []CellKey
	switch s.phase {
	case PhaseMulti:
		for _, key := range s.store.Selection() {
			s.store.SetValue(key, value)
			s.pending.Set(key, value)
			affected = append(affected, key)
		}
	case PhaseSingle:
		if !s.hasTarget {
			break
		}
		s.store.SetValue(s.target, value)
		s.pending.Set(s.target, value)
		affected = append(affected, s.target)
	default:
		return nil
	}
	s.closeEditor()
	return affected
}

// OpenHours switches the editor into the custom-interval sub-panel.
// Selecting the interval option never commits by itself.
func (s *Session) OpenHours() {
	if s.EditorOpen() {
		s.hoursOpen = true
	}
}

// CancelHours backs out of the sub-panel without committing.
func (s *Session) CancelHours() { s.hoursOpen = false }

// ConfirmHours validates the two hour fields and, when valid, commits
// the interval to the editor's target cells. Invalid input leaves the
// pending set untouched and keeps the sub-panel open.
func (s *Session) ConfirmHours(startRaw, endRaw string) ([]CellKey, error) {
	if !s.hoursOpen {
		return nil, fmt.Errorf("hour panel is not open")
	}
	start, end, err := CustomHours(startRaw, endRaw)
	if err != nil {
		return nil, err
	}
	return s.Choose(FormatCustom(start, end)), nil
}

// Cancel leaves edit mode discarding every pending edit. The caller
// must reload displayed state from the server afterward; no attempt is
// made to patch the grid back cell by cell.
func (s *Session) Cancel() {
	s.exit()
}

// FinishSave transitions to VIEW after a save request was accepted,
// clearing the pending set.
func (s *Session) FinishSave() {
	s.exit()
}
