package schedule

import "fmt"

// Request and approval statuses used by the swap and unavailability
// workflows. FinalStatus values come back from the backend already
// folded from the two independent status fields.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// RequestKind distinguishes the three shift-reassignment variants.
// Each variant fills a different subset of the wire payload, so
// construction is centralized here instead of letting callers guess
// which fields to null out.
type RequestKind int

const (
	// KindSwap trades shifts between two employees on two dates.
	KindSwap RequestKind = iota
	// KindGive hands the requester's shift to another employee; the
	// other side has no date.
	KindGive
	// KindTake asks to take over another employee's shift; the
	// requester side has no date.
	KindTake
)

// String names the kind for display.
func (k RequestKind) String() string {
	switch k {
	case KindSwap:
		return "swap"
	case KindGive:
		return "give"
	case KindTake:
		return "take"
	default:
		return fmt.Sprintf("RequestKind(%d)", int(k))
	}
}

// SwapPayload is the body of POST /api/swaps. Pointer fields encode the
// backend's distinction between "absent side" (null, give requests) and
// "explicitly empty" ("", take requests); Compose is the only producer
// so the variants stay exhaustive.
type SwapPayload struct {
	FromDate      *string `json:"from_date"`
	FromEmployee  string  `json:"from_employee" validate:"required,max=100"`
	ToDate        *string `json:"to_date"`
	ToEmployee    string  `json:"to_employee" validate:"required,max=100"`
	FromShift     *string `json:"from_shift"`
	ToShift       *string `json:"to_shift"`
	Comment       string  `json:"comment"`
	IsGiveRequest bool    `json:"is_give_request"`
	IsAskRequest  bool    `json:"is_ask_request"`
}

// RequestItem is one rendered mailbox entry. Items are read-only on
// this side beyond creation: every status change is re-fetched from the
// server after an action.
type RequestItem struct {
	ID              int64  `json:"id"`
	FromDate        string `json:"from_date"`
	ToDate          string `json:"to_date"`
	FromEmployee    string `json:"from_employee"`
	ToEmployee      string `json:"to_employee"`
	FromShift       string `json:"from_shift"`
	ToShift         string `json:"to_shift"`
	Comment         string `json:"comment_requester"`
	RecipientStatus string `json:"recipient_status"`
	BossStatus      string `json:"boss_status"`
	FinalStatus     string `json:"final_status"`
	CreatedAt       string `json:"created_at"`
}

// RequestInput is what the compose form collects. Which fields are
// required depends on the kind.
type RequestInput struct {
	Kind       RequestKind
	FromDate   string
	ToEmployee string
	ToDate     string
	Comment    string
}

// Action is a button the mailbox shows for an item.
type Action int

const (
	// ActionAccept and ActionDecline are the recipient's choices.
	ActionAccept Action = iota
	ActionDecline
	// ActionApprove and ActionReject are the boss's choices.
	ActionApprove
	ActionReject
)

// Mailbox builds swap/give/take requests from the live grid and decides
// which actions each rendered item offers. Its guards are advisory: the
// occupied-date check scans only the currently rendered list, so the
// backend's response stays the authoritative conflict signal.
type Mailbox struct {
	store       *Store
	currentUser string
	items       []RequestItem
}

// NewMailbox wires the mailbox to the cell store it reads shift values
// from at submission time.
func NewMailbox(store *Store, currentUser string) *Mailbox {
	return &Mailbox{store: store, currentUser: currentUser}
}

// SetItems replaces the rendered list after a fetch.
func (m *Mailbox) SetItems(items []RequestItem) {
	m.items = items
}

// Items returns the rendered list.
func (m *Mailbox) Items() []RequestItem { return m.items }

// CurrentUser is the viewing identity requests are composed as.
func (m *Mailbox) CurrentUser() string { return m.currentUser }

// liveShift reads the shift currently displayed for a cell. Reading at
// submission time, not form-open time, keeps the payload in sync with
// any edits made since.
func (m *Mailbox) liveShift(date, employee string) string {
	cell, ok := m.store.Cell(CellKey{Date: date, Employee: employee})
	if !ok {
		return ""
	}
	return cell.Value
}

// DateOccupied reports whether the given date and employee already
// appear in a still-pending rendered request. Best effort only: a stale
// or not-yet-loaded list can miss conflicts the backend will reject.
func (m *Mailbox) DateOccupied(date, employee string) bool {
	for _, item := range m.items {
		if item.FinalStatus != "" && item.FinalStatus != "OCZEKUJACE" && item.FinalStatus != StatusPending {
			continue
		}
		if item.RecipientStatus == StatusRejected || item.BossStatus == StatusRejected {
			continue
		}
		if item.FromDate == date && item.FromEmployee == employee {
			return true
		}
		if item.ToDate == date && item.ToEmployee == employee {
			return true
		}
	}
	return false
}

// Compose validates the input for its kind and builds the exact wire
// payload, reading referenced shift values from the live grid.
func (m *Mailbox) Compose(in RequestInput) (SwapPayload, error) {
	if in.ToEmployee == m.currentUser {
		return SwapPayload{}, fmt.Errorf("cannot send a %s request to yourself", in.Kind)
	}
	switch in.Kind {
	case KindSwap:
		return m.composeSwap(in)
	case KindGive:
		return m.composeGive(in)
	case KindTake:
		return m.composeTake(in)
	default:
		return SwapPayload{}, fmt.Errorf("unknown request kind %d", int(in.Kind))
	}
}

func (m *Mailbox) composeSwap(in RequestInput) (SwapPayload, error) {
	if in.FromDate == "" {
		return SwapPayload{}, fmt.Errorf("pick the date of your own shift")
	}
	if in.ToDate == "" {
		return SwapPayload{}, fmt.Errorf("pick the date of the shift to take over")
	}
	if in.ToEmployee == "" {
		return SwapPayload{}, fmt.Errorf("pick the employee to swap with")
	}
	if m.DateOccupied(in.FromDate, m.currentUser) {
		return SwapPayload{}, fmt.Errorf("your shift on %s is already part of another pending request", in.FromDate)
	}
	if m.DateOccupied(in.ToDate, in.ToEmployee) {
		return SwapPayload{}, fmt.Errorf("the shift on %s is already part of another pending request", in.ToDate)
	}
	fromShift := m.liveShift(in.FromDate, m.currentUser)
	toShift := m.liveShift(in.ToDate, in.ToEmployee)
	return SwapPayload{
		FromDate:     &in.FromDate,
		FromEmployee: m.currentUser,
		ToDate:       &in.ToDate,
		ToEmployee:   in.ToEmployee,
		FromShift:    &fromShift,
		ToShift:      &toShift,
		Comment:      in.Comment,
	}, nil
}

func (m *Mailbox) composeGive(in RequestInput) (SwapPayload, error) {
	if in.FromDate == "" {
		return SwapPayload{}, fmt.Errorf("pick the date of the shift to give away")
	}
	if in.ToEmployee == "" {
		return SwapPayload{}, fmt.Errorf("pick the employee to give the shift to")
	}
	if m.DateOccupied(in.FromDate, m.currentUser) {
		return SwapPayload{}, fmt.Errorf("your shift on %s is already part of another pending request", in.FromDate)
	}
	if m.liveShift(in.FromDate, in.ToEmployee) != "" {
		return SwapPayload{}, fmt.Errorf("%s already works on %s", in.ToEmployee, in.FromDate)
	}
	fromShift := m.liveShift(in.FromDate, m.currentUser)
	return SwapPayload{
		FromDate:      &in.FromDate,
		FromEmployee:  m.currentUser,
		ToEmployee:    in.ToEmployee,
		FromShift:     &fromShift,
		Comment:       in.Comment,
		IsGiveRequest: true,
	}, nil
}

func (m *Mailbox) composeTake(in RequestInput) (SwapPayload, error) {
	if in.ToDate == "" {
		return SwapPayload{}, fmt.Errorf("pick the date of the shift to take over")
	}
	if in.ToEmployee == "" {
		return SwapPayload{}, fmt.Errorf("pick the employee to take the shift from")
	}
	if m.DateOccupied(in.ToDate, in.ToEmployee) {
		return SwapPayload{}, fmt.Errorf("the shift on %s is already part of another pending request", in.ToDate)
	}
	if m.liveShift(in.ToDate, m.currentUser) != "" {
		return SwapPayload{}, fmt.Errorf("you already work on %s", in.ToDate)
	}
	// The backend expects the absent requester side as empty strings
	// here, unlike the give variant's nulls.
	empty := ""
	toShift := m.liveShift(in.ToDate, in.ToEmployee)
	return SwapPayload{
		FromDate:     &empty,
		FromEmployee: m.currentUser,
		ToDate:       &in.ToDate,
		ToEmployee:   in.ToEmployee,
		FromShift:    &empty,
		ToShift:      &toShift,
		Comment:      in.Comment,
		IsAskRequest: true,
	}, nil
}

// ActionsFor picks the buttons to show for an item based solely on the
// viewing identity and which status field is still pending. No local
// state transition is inferred; the caller re-fetches after acting.
func (m *Mailbox) ActionsFor(item RequestItem, isBoss bool) []Action {
	var actions []Action
	if item.ToEmployee == m.currentUser && (item.RecipientStatus == "" || item.RecipientStatus == StatusPending) {
		actions = append(actions, ActionAccept, ActionDecline)
	}
	if isBoss && (item.BossStatus == "" || item.BossStatus == StatusPending) {
		actions = append(actions, ActionApprove, ActionReject)
	}
	return actions
}

// UnavailabilityPayload is the body of POST /api/unavailability.
type UnavailabilityPayload struct {
	MonthYear    string `json:"month_year" validate:"required"`
	SelectedDays []int  `json:"selected_days" validate:"required,min=1,dive,min=1,max=31"`
	Comment      string `json:"comment"`
}

// UnavailabilityItem is one rendered unavailability declaration.
type UnavailabilityItem struct {
	ID           int64  `json:"id"`
	Employee     string `json:"employee"`
	MonthYear    string `json:"month_year"`
	SelectedDays []int  `json:"selected_days"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// ComposeUnavailability validates an unavailability declaration for the
// given month ("YYYY-MM") and day-of-month picks.
func ComposeUnavailability(monthYear string, days []int, comment string) (UnavailabilityPayload, error) {
	if monthYear == "" {
		return UnavailabilityPayload{}, fmt.Errorf("month is required")
	}
	if len(days) == 0 {
		return UnavailabilityPayload{}, fmt.Errorf("pick at least one day")
	}
	for _, day := range days {
		if day < 1 || day > 31 {
			return UnavailabilityPayload{}, fmt.Errorf("day %d outside 1-31", day)
		}
	}
	return UnavailabilityPayload{MonthYear: monthYear, SelectedDays: days, Comment: comment}, nil
}
