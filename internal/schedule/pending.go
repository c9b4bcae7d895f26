package schedule

// Change is one record in a save batch. The JSON field names follow the
// backend's /api/save contract; an empty Value deletes the shift.
type Change struct {
	Date     string `json:"date" validate:"required"`
	Employee string `json:"name" validate:"required,max=100"`
	Value    string `json:"value" validate:"max=50"`
}

// PendingChangeSet collects unsaved edits keyed by cell. Entries are
// overwritten as a cell is re-edited, so the set always holds the final
// proposed value per cell. The set is only ever cleared in full: on
// save success, save abort, or edit-mode exit.
type PendingChangeSet struct {
	changes map[CellKey]string
	order   []CellKey
}

// NewPendingChangeSet returns an empty set.
func NewPendingChangeSet() *PendingChangeSet {
	return &PendingChangeSet{changes: make(map[CellKey]string)}
}

// Set records a proposed value for a cell, keeping first-touch order
// for batch materialization.
func (p *PendingChangeSet) Set(key CellKey, value string) {
	if _, ok := p.changes[key]; !ok {
		p.order = append(p.order, key)
	}
	p.changes[key] = value
}

// Get returns the proposed value for a cell, if any.
func (p *PendingChangeSet) Get(key CellKey) (string, bool) {
	value, ok := p.changes[key]
	return value, ok
}

// Len reports how many cells have unsaved edits.
func (p *PendingChangeSet) Len() int { return len(p.changes) }

// Changes materializes the set into a list of save records.
func (p *PendingChangeSet) Changes() []Change {
	out := make([]Change, 0, len(p.order))
	for _, key := range p.order {
		out = append(out, Change{Date: key.Date, Employee: key.Employee, Value: p.changes[key]})
	}
	return out
}

// Clear drops every pending edit.
func (p *PendingChangeSet) Clear() {
	p.changes = make(map[CellKey]string)
	p.order = nil
}
