package schedule

import (
	"sort"
	"time"
)

// pulseDuration is how long the saved/deleted flash stays visible.
const pulseDuration = 800 * time.Millisecond

// Store is the single source of truth for what every grid cell displays
// and whether it is selected or being edited. The UI renders from the
// store and never reads business state back out of rendered output.
type Store struct {
	cells map[CellKey]*Cell

	// selection preserves insertion order: the first selected cell is
	// the anchor the editor popover is positioned against.
	selection []CellKey

	pulseUntil map[CellKey]time.Time
	now        func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		cells:      make(map[CellKey]*Cell),
		pulseUntil: make(map[CellKey]time.Time),
		now:        time.Now,
	}
}

// Load replaces the grid contents with the given values. Selection,
// editing marks and pulses are all reset; official-value markers are
// dropped since a fresh load is authoritative.
func (s *Store) Load(values map[CellKey]string) {
	s.cells = make(map[CellKey]*Cell, len(values))
	s.pulseUntil = make(map[CellKey]time.Time)
	s.selection = nil
	for key, value := range values {
		s.cells[key] = &Cell{
			Key:   key,
			Value: value,
			Class: Classify(value),
		}
	}
}

// EnsureCell registers an empty cell for a key that exists in the grid
// layout but has no assigned shift.
func (s *Store) EnsureCell(key CellKey) {
	if _, ok := s.cells[key]; !ok {
		s.cells[key] = &Cell{Key: key, Class: ClassEmpty}
	}
}

// Cell returns a copy of the cell for the key.
func (s *Store) Cell(key CellKey) (Cell, bool) {
	c, ok := s.cells[key]
	if !ok {
		return Cell{}, false
	}
	return *c, true
}

// Len reports how many cells the grid currently holds.
func (s *Store) Len() int { return len(s.cells) }

// Keys returns every cell key in a stable date-then-employee order.
func (s *Store) Keys() []CellKey {
	keys := make([]CellKey, 0, len(s.cells))
	for key := range s.cells {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Date != keys[j].Date {
			return keys[i].Date < keys[j].Date
		}
		return keys[i].Employee < keys[j].Employee
	})
	return keys
}

// SetValue commits a new display value: the class is re-derived from the
// value, the editing mark is always cleared (a committed cell cannot
// remain "being edited"), and a transient pulse is started. An empty
// value pulses as deleted, anything else as saved.
func (s *Store) SetValue(key CellKey, value string) {
	s.EnsureCell(key)
	c := s.cells[key]
	c.Value = value
	c.Class = Classify(value)
	c.Editing = false
	if value == "" {
		c.Pulse = PulseDeleted
	} else {
		c.Pulse = PulseSaved
	}
	s.pulseUntil[key] = s.now().Add(pulseDuration)
}

// ResetValue repaints a cell without any pulse or pending side effects.
// Used when restoring from an authoritative snapshot.
func (s *Store) ResetValue(key CellKey, value string) {
	s.EnsureCell(key)
	c := s.cells[key]
	c.Value = value
	c.Class = Classify(value)
	c.Editing = false
	c.Selected = false
	c.Pulse = PulseNone
	delete(s.pulseUntil, key)
}

// ExpirePulses clears every pulse whose display window has passed and
// reports whether any cell is still pulsing.
func (s *Store) ExpirePulses() bool {
	now := s.now()
	for key, until := range s.pulseUntil {
		if !now.Before(until) {
			if c, ok := s.cells[key]; ok {
				c.Pulse = PulseNone
			}
			delete(s.pulseUntil, key)
		}
	}
	return len(s.pulseUntil) > 0
}

// MarkEditing highlights a single cell as the open editor's target and
// removes the highlight from every other cell.
func (s *Store) MarkEditing(key CellKey) {
	for _, c := range s.cells {
		c.Editing = c.Key == key
	}
}

// ClearEditing removes the editing highlight grid-wide.
func (s *Store) ClearEditing() {
	for _, c := range s.cells {
		c.Editing = false
	}
}

// ToggleSelect adds or removes a cell from the multi-select group and
// reports whether the cell is selected afterward. While a selection
// exists the editing highlight is suppressed in favor of the selection
// decoration.
func (s *Store) ToggleSelect(key CellKey) bool {
	s.EnsureCell(key)
	c := s.cells[key]
	if c.Selected {
		c.Selected = false
		for i, sel := range s.selection {
			if sel == key {
				s.selection = append(s.selection[:i], s.selection[i+1:]...)
				break
			}
		}
		return false
	}
	c.Selected = true
	s.selection = append(s.selection, key)
	return true
}

// Selection returns the selected keys in insertion order.
func (s *Store) Selection() []CellKey {
	out := make([]CellKey, len(s.selection))
	copy(out, s.selection)
	return out
}

// MultiSelect reports whether a multi-select group is active.
func (s *Store) MultiSelect() bool { return len(s.selection) > 0 }

// Anchor returns the first cell added to the selection; the editor
// popover is positioned against it while the chosen value applies to
// every member on commit.
func (s *Store) Anchor() (CellKey, bool) {
	if len(s.selection) == 0 {
		return CellKey{}, false
	}
	return s.selection[0], true
}

// ClearSelection empties the multi-select group and strips the selected
// and editing decorations from its former members.
func (s *Store) ClearSelection() {
	for _, key := range s.selection {
		if c, ok := s.cells[key]; ok {
			c.Selected = false
			c.Editing = false
		}
	}
	s.selection = nil
}

// SetOfficial stamps the official published value for a cell. Used by
// the draft overlay exactly once per draft session.
func (s *Store) SetOfficial(key CellKey, value string) {
	s.EnsureCell(key)
	c := s.cells[key]
	c.Official = value
	c.HasOfficial = true
}

// ClearOfficial removes the official-value markers grid-wide.
func (s *Store) ClearOfficial() {
	for _, c := range s.cells {
		c.Official = ""
		c.HasOfficial = false
	}
}
