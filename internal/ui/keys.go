package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap collects every binding the UI reacts to. Bindings are grouped
// by the view they apply to; the help overlay renders them from here so
// the two can't drift apart.
type keyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Theme    key.Binding
	NextView key.Binding

	Grid     key.Binding
	Mailbox  key.Binding
	Roster   key.Binding
	Unavail  key.Binding
	Export   key.Binding
	PushTest key.Binding

	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	EditToggle key.Binding
	Click      key.Binding
	MultiClick key.Binding
	Save       key.Binding
	Cancel     key.Binding

	PrevMonth key.Binding
	NextMonth key.Binding

	DraftToggle  key.Binding
	DraftSave    key.Binding
	DraftPublish key.Binding

	Compose key.Binding
	Accept  key.Binding
	Decline key.Binding
	Approve key.Binding
	Reject  key.Binding
	Clear   key.Binding

	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding

	Confirm key.Binding
	Back    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Theme:    key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "cycle theme")),
		NextView: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),

		Grid:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "schedule grid")),
		Mailbox:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "request mailbox")),
		Roster:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "roster")),
		Unavail:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unavailability")),
		Export:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export spreadsheet")),
		PushTest: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "test notification")),

		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),

		EditToggle: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "toggle edit mode")),
		Click:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select cell")),
		MultiClick: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "multi-select cell")),
		Save:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save changes")),
		Cancel:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cancel and reload")),

		PrevMonth: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous month")),
		NextMonth: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next month")),

		DraftToggle:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "draft mode on/off")),
		DraftSave:    key.NewBinding(key.WithKeys("W"), key.WithHelp("W", "stage draft")),
		DraftPublish: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "publish draft")),

		Compose: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new request")),
		Accept:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "accept")),
		Decline: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "decline")),
		Approve: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "approve (boss)")),
		Reject:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reject (boss)")),
		Clear:   key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear resolved")),

		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete")),

		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back/dismiss")),
	}
}
