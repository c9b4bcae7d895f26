package schedule

import "strings"

// CellKey identifies one grid cell by its date and employee column.
type CellKey struct {
	Date     string // YYYY-MM-DD
	Employee string
}

// String renders the key in the backend's "date|employee" form.
func (k CellKey) String() string {
	return k.Date + "|" + k.Employee
}

// ParseCellKey splits a "date|employee" string back into a key.
func ParseCellKey(s string) (CellKey, bool) {
	date, employee, found := strings.Cut(s, "|")
	if !found || date == "" || employee == "" {
		return CellKey{}, false
	}
	return CellKey{Date: date, Employee: employee}, true
}

// PulseKind is the transient visual feedback applied after a cell value
// change. It is cosmetic only and expires on its own.
type PulseKind int

const (
	PulseNone PulseKind = iota
	// PulseSaved flashes after a value is written.
	PulseSaved
	// PulseDeleted flashes after a value is cleared.
	PulseDeleted
)

// Cell is the rendered state of one grid slot. The store owns the
// canonical copy; the UI receives value copies only.
type Cell struct {
	Key   CellKey
	Value string
	Class Class

	// Official holds the published value snapshotted when draft mode is
	// entered. Meaningful only while HasOfficial is true.
	Official    string
	HasOfficial bool

	Selected bool
	Editing  bool

	Pulse PulseKind
}
