package schedule

import "fmt"

// DraftChange is one delta between a cell's displayed value and its
// official published value. Deltas are computed on demand, never
// stored: the official snapshot plus the live grid is the whole truth.
type DraftChange struct {
	Date      string `json:"date"`
	Employee  string `json:"employee"`
	ShiftType string `json:"shift_type"`
}

// Draft is the admin-only staging overlay. While active, ordinary edits
// mutate displayed values only; the official snapshot taken at entry is
// write-once for the whole session, which keeps Diff correct no matter
// how many times a cell is toggled in between.
type Draft struct {
	store  *Store
	active bool
}

// NewDraft wires the overlay to the cell store.
func NewDraft(store *Store) *Draft {
	return &Draft{store: store}
}

// Active reports whether a draft session is in progress.
func (d *Draft) Active() bool { return d.active }

// Enter starts a draft session: every cell's official value is stamped
// from the published snapshot, then any previously saved-but-unpublished
// draft is applied on top. Draft values take visual precedence over
// official ones once entered.
func (d *Draft) Enter(official map[CellKey]string, staged map[CellKey]string) error {
	if d.active {
		return fmt.Errorf("draft session already active")
	}
	for _, key := range d.store.Keys() {
		d.store.SetOfficial(key, official[key])
	}
	for key, value := range official {
		d.store.SetOfficial(key, value)
	}
	for key, value := range staged {
		d.store.ResetValue(key, value)
	}
	d.active = true
	return nil
}

// Diff returns a change for every cell whose displayed value differs
// from its official snapshot. Transitions to empty are emitted
// explicitly so deletions are represented, not omitted; edits that
// round-trip back to the official value produce nothing.
func (d *Draft) Diff() []DraftChange {
	if !d.active {
		return nil
	}
	var changes []DraftChange
	for _, key := range d.store.Keys() {
		cell, ok := d.store.Cell(key)
		if !ok || !cell.HasOfficial {
			continue
		}
		if cell.Value != cell.Official {
			changes = append(changes, DraftChange{
				Date:      key.Date,
				Employee:  key.Employee,
				ShiftType: cell.Value,
			})
		}
	}
	return changes
}

// ExitWithoutPublish restores every cell strictly from the official
// snapshot taken at entry, never from cached draft state, and clears
// the official markers only after the repaint.
func (d *Draft) ExitWithoutPublish() {
	if !d.active {
		return
	}
	for _, key := range d.store.Keys() {
		cell, ok := d.store.Cell(key)
		if !ok || !cell.HasOfficial {
			continue
		}
		d.store.ResetValue(key, cell.Official)
	}
	d.store.ClearOfficial()
	d.active = false
}

// FinishPublish ends the session after the staged draft was promoted to
// official. Publishing changes the source of truth, so the caller
// performs a full reload instead of reconciling in-memory state.
func (d *Draft) FinishPublish() {
	if !d.active {
		return
	}
	d.store.ClearOfficial()
	d.active = false
}
