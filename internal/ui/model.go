package ui

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/n3xus47/grafiksp4600/internal/api"
	"github.com/n3xus47/grafiksp4600/internal/prefs"
	"github.com/n3xus47/grafiksp4600/internal/schedule"
	"github.com/n3xus47/grafiksp4600/internal/state"
)

// view identifies the active screen.
type view int

const (
	viewGrid view = iota
	viewMailbox
	viewRoster
	viewUnavail
)

const uiTick = 200 * time.Millisecond

// Model is the root bubbletea model. Everything it owns is mutated only
// from Update; commands return results as messages instead of touching
// the model directly.
type Model struct {
	opts Options
	keys keyMap

	themeName string
	styles    Styles

	width  int
	height int

	active   view
	showHelp bool
	busy     bool
	status   string
	statusAt time.Time

	// Polled feeds, copied from the state store on each tick.
	roster  []api.Employee
	isBoss  bool
	offline bool

	// Grid state.
	grid    *schedule.Store
	session *schedule.Session
	saver   *schedule.Saver
	draft   *schedule.Draft
	mailbox *schedule.Mailbox

	year      int
	month     time.Month
	cursorDay int // 1-based day of month
	cursorCol int // roster index
	loaded    bool

	// Editor inputs.
	freeText  textinput.Model
	hourStart textinput.Model
	hourEnd   textinput.Model
	textOpen  bool
	hourFocus int

	// Mailbox state.
	mailCursor int
	composing  bool
	composeIn  composeForm

	// Roster state.
	rosterCursor int
	rosterForm   *rosterForm

	// Unavailability state.
	unavailCursor int
	unavailDays   map[int]bool
	unavailNote   textinput.Model
	unavailFocus  bool
}

type composeForm struct {
	kind       schedule.RequestKind
	fromDate   textinput.Model
	toEmployee textinput.Model
	toDate     textinput.Model
	comment    textinput.Model
	focus      int
}

type rosterForm struct {
	id    int64 // zero means create
	name  textinput.Model
	code  textinput.Model
	email textinput.Model
	focus int
}

func newModel(opts Options) Model {
	grid := schedule.NewStore()
	session := schedule.NewSession(grid)

	newInput := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		return in
	}

	m := Model{
		opts:      opts,
		keys:      defaultKeyMap(),
		themeName: opts.ThemeName,
		styles:    GetTheme(opts.ThemeName).Styles(),

		grid:    grid,
		session: session,
		saver:   schedule.NewSaver(opts.Client),
		draft:   schedule.NewDraft(grid),
		mailbox: schedule.NewMailbox(grid, opts.CurrentUser),

		year:      opts.Year,
		month:     opts.Month,
		cursorDay: 1,

		freeText:    newInput("shift label", 50),
		hourStart:   newInput("start", 2),
		hourEnd:     newInput("end", 2),
		unavailNote: newInput("comment (optional)", 200),
		unavailDays: make(map[int]bool),
	}
	m.applySnapshot(opts.Store.Snapshot())
	return m
}

// Messages.

type tickMsg time.Time

type monthLoadedMsg struct {
	year   int
	month  time.Month
	values map[schedule.CellKey]string
	err    error
}

type saveDoneMsg struct {
	outcome schedule.SaveOutcome
	err     error
}

type draftLoadedMsg struct {
	status api.DraftStatus
	staged []schedule.DraftChange
	err    error
}

// actionDoneMsg reports any fire-and-forget backend call: swap
// responses, roster edits, draft staging, push tests.
type actionDoneMsg struct {
	what   string
	reload bool
	err    error
}

type exportDoneMsg struct {
	path string
	err  error
}

type refreshedMsg struct{}

// Commands.

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(uiTick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) loadMonthCmd(year int, month time.Month) tea.Cmd {
	client, ctx := m.opts.Client, m.opts.Context
	return func() tea.Msg {
		values, err := client.FetchMonth(ctx, year, month)
		return monthLoadedMsg{year: year, month: month, values: values, err: err}
	}
}

func (m Model) saveCmd() tea.Cmd {
	saver, session, ctx := m.saver, m.session, m.opts.Context
	return func() tea.Msg {
		outcome, err := saver.Save(ctx, session)
		return saveDoneMsg{outcome: outcome, err: err}
	}
}

func (m Model) draftLoadCmd() tea.Cmd {
	client, ctx := m.opts.Client, m.opts.Context
	return func() tea.Msg {
		status, err := client.DraftStatus(ctx)
		if err != nil {
			return draftLoadedMsg{err: err}
		}
		var staged []schedule.DraftChange
		if status.HasDraft {
			staged, err = client.DraftLoad(ctx)
		}
		return draftLoadedMsg{status: status, staged: staged, err: err}
	}
}

func (m Model) actionCmd(what string, reload bool, call func() error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{what: what, reload: reload, err: call()}
	}
}

// refreshCmd re-fetches the polled feeds right away instead of waiting
// for the next poll, so mailbox and roster actions show up immediately.
func (m Model) refreshCmd() tea.Cmd {
	client, store, ctx := m.opts.Client, m.opts.Store, m.opts.Context
	return func() tea.Msg {
		roster, err := client.FetchEmployees(ctx)
		if err != nil {
			store.Update(nil, nil, nil, err)
			return refreshedMsg{}
		}
		inbox, err := client.FetchSwapInbox(ctx)
		if err != nil {
			store.Update(nil, nil, nil, err)
			return refreshedMsg{}
		}
		unavailability, err := client.FetchUnavailabilityInbox(ctx)
		if err != nil {
			store.Update(nil, nil, nil, err)
			return refreshedMsg{}
		}
		store.Update(roster, &inbox, &unavailability, nil)
		store.MarkFetched(state.FeedRoster)
		store.MarkFetched(state.FeedMailbox)
		store.MarkFetched(state.FeedUnavailability)
		return refreshedMsg{}
	}
}

func (m Model) exportCmd() tea.Cmd {
	client, ctx := m.opts.Client, m.opts.Context
	year, month, dir := m.year, m.month, m.opts.Config.DownloadDir
	return func() tea.Msg {
		path, err := client.ExportExcel(ctx, year, month, dir)
		return exportDoneMsg{path: path, err: err}
	}
}

// Init starts the month load and the UI tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadMonthCmd(m.year, m.month), m.tickCmd())
}

// Update is the single place model state changes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		m.grid.ExpirePulses()
		m.applySnapshot(m.opts.Store.Snapshot())
		if m.status != "" && time.Since(m.statusAt) > 6*time.Second {
			m.status = ""
		}
		return m, m.tickCmd()

	case monthLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(fmt.Errorf("load month: %w", msg.err))
			return m, nil
		}
		m.year, m.month = msg.year, msg.month
		m.grid.Load(msg.values)
		m.loaded = true
		m.ensureGrid()
		m.clampCursor()
		return m, nil

	case saveDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if len(msg.outcome.ValidationErrors) > 0 {
			m.setError(errors.New(strings.Join(msg.outcome.ValidationErrors, "; ")))
			return m, nil
		}
		if msg.outcome.Failed > 0 {
			m.setStatus(fmt.Sprintf("saved %d of %d changes; %d rejected",
				msg.outcome.Saved, msg.outcome.Submitted, msg.outcome.Failed))
		} else if msg.outcome.Submitted > 0 {
			m.setStatus(fmt.Sprintf("saved %d changes", msg.outcome.Saved))
		} else {
			m.setStatus("no changes; left edit mode")
		}
		if msg.outcome.ReloadNeeded {
			m.busy = true
			return m, m.loadMonthCmd(m.year, m.month)
		}
		return m, nil

	case draftLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(fmt.Errorf("enter draft: %w", msg.err))
			return m, nil
		}
		official := make(map[schedule.CellKey]string, m.grid.Len())
		for _, key := range m.grid.Keys() {
			if cell, ok := m.grid.Cell(key); ok {
				official[key] = cell.Value
			}
		}
		staged := make(map[schedule.CellKey]string, len(msg.staged))
		for _, change := range msg.staged {
			staged[schedule.CellKey{Date: change.Date, Employee: change.Employee}] = change.ShiftType
		}
		if err := m.draft.Enter(official, staged); err != nil {
			m.setError(err)
			return m, nil
		}
		if m.session.Phase() == schedule.PhaseView {
			m.session.ToggleEdit()
		}
		m.setStatus("draft mode: edits are staged, not published")
		return m, nil

	case actionDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(fmt.Errorf("%s: %w", msg.what, msg.err))
			return m, nil
		}
		m.setStatus(msg.what + " done")
		cmds := []tea.Cmd{m.refreshCmd()}
		if msg.reload {
			m.busy = true
			cmds = append(cmds, m.loadMonthCmd(m.year, m.month))
		}
		return m, tea.Batch(cmds...)

	case publishDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(fmt.Errorf("publish draft: %w", msg.err))
			return m, nil
		}
		m.draft.FinishPublish()
		m.session.Cancel()
		m.setStatus("draft published")
		m.busy = true
		return m, m.loadMonthCmd(m.year, m.month)

	case discardDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(fmt.Errorf("discard draft: %w", msg.err))
			return m, nil
		}
		m.draft.ExitWithoutPublish()
		m.session.Cancel()
		m.setStatus("draft discarded")
		return m, nil

	case exportDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(fmt.Errorf("export: %w", msg.err))
			return m, nil
		}
		m.setStatus("exported to " + msg.path)
		return m, nil

	case refreshedMsg:
		m.applySnapshot(m.opts.Store.Snapshot())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit always works, even mid-request.
	if key.Matches(msg, m.keys.Quit) && !m.typing() {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if !m.typing() {
		switch {
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Theme):
			m.themeName = NextTheme(m.themeName)
			m.styles = GetTheme(m.themeName).Styles()
			if err := prefs.Save(m.opts.PrefsPath, prefs.Prefs{Theme: m.themeName}); err != nil {
				log.Printf("save prefs: %v", err)
			}
			return m, nil
		case key.Matches(msg, m.keys.NextView):
			return m, m.switchView(view((int(m.active) + 1) % 4))
		case key.Matches(msg, m.keys.Grid):
			return m, m.switchView(viewGrid)
		case key.Matches(msg, m.keys.Mailbox):
			return m, m.switchView(viewMailbox)
		case key.Matches(msg, m.keys.Roster):
			return m, m.switchView(viewRoster)
		case key.Matches(msg, m.keys.Unavail):
			return m, m.switchView(viewUnavail)
		}
	}

	switch m.active {
	case viewGrid:
		return m.updateGrid(msg)
	case viewMailbox:
		return m.updateMailbox(msg)
	case viewRoster:
		return m.updateRoster(msg)
	case viewUnavail:
		return m.updateUnavail(msg)
	}
	return m, nil
}

// typing reports whether a text input currently owns the keyboard, in
// which case single-letter shortcuts must not fire.
func (m Model) typing() bool {
	if m.active == viewGrid && (m.textOpen || m.session.HoursOpen()) {
		return true
	}
	if m.active == viewMailbox && m.composing {
		return true
	}
	if m.active == viewRoster && m.rosterForm != nil {
		return true
	}
	if m.active == viewUnavail && m.unavailFocus {
		return true
	}
	return false
}

// switchView changes the active screen. Opening a feed-backed view
// triggers an immediate refresh unless the feed was fetched recently,
// so quick back-and-forth navigation reuses data instead of re-fetching.
func (m *Model) switchView(v view) tea.Cmd {
	// Leaving the grid dismisses an open editor but keeps pending edits.
	if m.active == viewGrid && v != viewGrid {
		m.session.Dismiss()
		m.textOpen = false
	}
	m.active = v

	feed := ""
	switch v {
	case viewMailbox:
		feed = state.FeedMailbox
	case viewRoster:
		feed = state.FeedRoster
	case viewUnavail:
		feed = state.FeedUnavailability
	}
	if feed == "" || m.opts.Store.Fresh(feed, m.freshWindow()) {
		return nil
	}
	return m.refreshCmd()
}

func (m Model) freshWindow() time.Duration {
	if m.opts.PollTick > 0 {
		return m.opts.PollTick
	}
	return 30 * time.Second
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.roster = snap.Roster
	m.isBoss = snap.IsBoss
	m.offline = snap.IsOffline()
	m.mailbox.SetItems(snap.Mailbox)
	if m.loaded {
		m.ensureGrid()
	}
}

// ensureGrid registers an empty cell for every day/employee pair so
// clicks on unassigned cells resolve.
func (m *Model) ensureGrid() {
	for day := 1; day <= m.daysInMonth(); day++ {
		date := m.dateFor(day)
		for _, emp := range m.roster {
			m.grid.EnsureCell(schedule.CellKey{Date: date, Employee: emp.Name})
		}
	}
}

func (m Model) daysInMonth() int {
	return time.Date(m.year, m.month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (m Model) dateFor(day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", m.year, int(m.month), day)
}

func (m *Model) clampCursor() {
	if days := m.daysInMonth(); m.cursorDay > days {
		m.cursorDay = days
	}
	if m.cursorDay < 1 {
		m.cursorDay = 1
	}
	if m.cursorCol >= len(m.roster) {
		m.cursorCol = len(m.roster) - 1
	}
	if m.cursorCol < 0 {
		m.cursorCol = 0
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusAt = time.Now()
}

func (m *Model) setError(err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.IsAuth() {
		m.status = "session expired: refresh the session cookie in the config"
	} else {
		m.status = err.Error()
	}
	m.statusAt = time.Now()
}

// View renders the active screen between a header and a footer.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if m.showHelp {
		return m.viewHelp()
	}

	var body string
	switch m.active {
	case viewGrid:
		body = m.viewGrid()
	case viewMailbox:
		body = m.viewMailbox()
	case viewRoster:
		body = m.viewRoster()
	case viewUnavail:
		body = m.viewUnavail()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewHeader(), body, m.viewFooter())
}

func (m Model) viewHeader() string {
	title := fmt.Sprintf("grafik %s %d", m.month, m.year)
	tabs := []string{"[g]rid", "[m]ailbox", "[r]oster", "[u]navailability"}
	tabs[int(m.active)] = m.styles.Accent.Render(tabs[int(m.active)])

	var flags []string
	if m.session.Editing() {
		flags = append(flags, m.styles.Warning.Render("EDIT"))
	}
	if m.draft.Active() {
		flags = append(flags, m.styles.Info.Render("DRAFT"))
	}
	if n := m.session.Pending().Len(); n > 0 {
		flags = append(flags, m.styles.Warning.Render(fmt.Sprintf("%d unsaved", n)))
	}
	if m.offline {
		flags = append(flags, m.styles.Danger.Render("OFFLINE"))
	}

	line := title + "  " + strings.Join(tabs, " ")
	if len(flags) > 0 {
		line += "  " + strings.Join(flags, " ")
	}
	return m.styles.Header.Width(m.width).Render(line)
}

func (m Model) viewFooter() string {
	hint := "? help  q quit"
	switch m.active {
	case viewGrid:
		if m.session.Editing() {
			hint = "enter select  v multi  s save  c cancel  " + hint
		} else {
			hint = "e edit  [/] month  x export  " + hint
		}
	case viewMailbox:
		hint = "n new  a/d respond  " + hint
	case viewRoster:
		hint = "a add  e edit  D delete  " + hint
	case viewUnavail:
		hint = "space toggle day  enter submit  " + hint
	}
	line := hint
	if m.status != "" {
		line = m.styles.Info.Render(m.status) + "  " + hint
	}
	if m.busy {
		line = m.styles.Warning.Render("working...") + "  " + line
	}
	return m.styles.Footer.Width(m.width).Render(line)
}
