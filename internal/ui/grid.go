package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/n3xus47/grafiksp4600/internal/schedule"
)

const (
	dayColWidth  = 7
	cellWidth    = 8
	maxHourValue = "23"
)

type publishDoneMsg struct{ err error }
type discardDoneMsg struct{ err error }

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The editor sub-panels own the keyboard while open.
	if m.session.HoursOpen() {
		return m.updateHourPanel(msg)
	}
	if m.textOpen {
		return m.updateFreeText(msg)
	}
	if m.session.EditorOpen() {
		if model, cmd, handled := m.updateEditor(msg); handled {
			return model, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursorDay--
		m.clampCursor()
	case key.Matches(msg, m.keys.Down):
		m.cursorDay++
		m.clampCursor()
	case key.Matches(msg, m.keys.Left):
		m.cursorCol--
		m.clampCursor()
	case key.Matches(msg, m.keys.Right):
		m.cursorCol++
		m.clampCursor()

	case key.Matches(msg, m.keys.EditToggle):
		wasEditing := m.session.Editing()
		if wasEditing && m.draft.Active() {
			m.setStatus("draft is active: publish with P or discard with c")
			return m, nil
		}
		m.session.ToggleEdit()
		m.textOpen = false
		if wasEditing {
			// Leaving edit mode discards pending edits; repaint from
			// the server so discarded cells show their saved values.
			m.busy = true
			return m, m.loadMonthCmd(m.year, m.month)
		}

	case key.Matches(msg, m.keys.Click):
		if cellKey, ok := m.cursorKey(); ok {
			m.session.Click(cellKey, false)
		}
	case key.Matches(msg, m.keys.MultiClick):
		if cellKey, ok := m.cursorKey(); ok {
			m.session.Click(cellKey, true)
		}

	case key.Matches(msg, m.keys.Save):
		if m.draft.Active() {
			m.setStatus("draft mode: W stages, P publishes")
			return m, nil
		}
		if !m.session.Editing() {
			return m, nil
		}
		m.busy = true
		return m, m.saveCmd()

	case key.Matches(msg, m.keys.Cancel):
		if m.draft.Active() {
			m.busy = true
			client, ctx := m.opts.Client, m.opts.Context
			return m, func() tea.Msg { return discardDoneMsg{err: client.DraftDiscard(ctx)} }
		}
		if !m.session.Editing() {
			return m, nil
		}
		m.session.Cancel()
		m.busy = true
		return m, m.loadMonthCmd(m.year, m.month)

	case key.Matches(msg, m.keys.DraftToggle):
		if m.draft.Active() {
			// Leave draft mode locally; the staged draft stays on the
			// server for the next session.
			m.draft.ExitWithoutPublish()
			m.session.Cancel()
			m.setStatus("left draft mode; staged draft kept on server")
			return m, nil
		}
		if !m.isBoss {
			m.setStatus("draft mode is for the boss account")
			return m, nil
		}
		if m.session.Pending().Len() > 0 {
			m.setStatus("save or cancel pending edits before entering draft mode")
			return m, nil
		}
		m.busy = true
		return m, m.draftLoadCmd()

	case key.Matches(msg, m.keys.DraftSave):
		if !m.draft.Active() {
			return m, nil
		}
		diff := m.draft.Diff()
		if len(diff) == 0 {
			m.setStatus("draft has no changes to stage")
			return m, nil
		}
		m.busy = true
		client, ctx := m.opts.Client, m.opts.Context
		return m, m.actionCmd(fmt.Sprintf("stage %d draft changes", len(diff)), false, func() error {
			return client.DraftSave(ctx, diff)
		})

	case key.Matches(msg, m.keys.DraftPublish):
		if !m.draft.Active() {
			return m, nil
		}
		m.busy = true
		diff := m.draft.Diff()
		client, ctx := m.opts.Client, m.opts.Context
		return m, func() tea.Msg {
			if len(diff) > 0 {
				if err := client.DraftSave(ctx, diff); err != nil {
					return publishDoneMsg{err: err}
				}
			}
			return publishDoneMsg{err: client.DraftPublish(ctx)}
		}

	case key.Matches(msg, m.keys.PrevMonth), key.Matches(msg, m.keys.NextMonth):
		if m.session.Editing() {
			m.setStatus("leave edit mode before changing month")
			return m, nil
		}
		year, month := m.year, m.month
		if key.Matches(msg, m.keys.PrevMonth) {
			year, month = prevMonth(year, month)
		} else {
			year, month = nextMonth(year, month)
		}
		m.busy = true
		return m, m.loadMonthCmd(year, month)

	case key.Matches(msg, m.keys.Export):
		m.busy = true
		return m, m.exportCmd()

	case key.Matches(msg, m.keys.PushTest):
		client, ctx := m.opts.Client, m.opts.Context
		return m, m.actionCmd("test notification", false, func() error {
			return client.SendTestPush(ctx, "Grafik", "test notification")
		})

	case key.Matches(msg, m.keys.Back):
		m.session.Dismiss()
	}
	return m, nil
}

// updateEditor handles the value popover's option keys. Returns handled
// false for keys the popover does not consume, which fall through to
// grid navigation so the user can re-target without dismissing first.
func (m Model) updateEditor(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "d":
		m.session.Choose(schedule.DayShift)
		return m, nil, true
	case "n":
		m.session.Choose(schedule.NightShift)
		return m, nil, true
	case "p":
		m.session.OpenHours()
		m.hourStart.SetValue("")
		m.hourEnd.SetValue("")
		m.hourFocus = 0
		m.hourStart.Focus()
		m.hourEnd.Blur()
		return m, textinput.Blink, true
	case "o":
		m.textOpen = true
		m.freeText.SetValue("")
		m.freeText.Focus()
		return m, textinput.Blink, true
	case "esc":
		m.session.Dismiss()
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) updateHourPanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.session.CancelHours()
		m.hourStart.Blur()
		m.hourEnd.Blur()
		return m, nil
	case "tab", "shift+tab", "up", "down":
		m.hourFocus = 1 - m.hourFocus
		if m.hourFocus == 0 {
			m.hourStart.Focus()
			m.hourEnd.Blur()
		} else {
			m.hourEnd.Focus()
			m.hourStart.Blur()
		}
		return m, textinput.Blink
	case "enter":
		if _, err := m.session.ConfirmHours(m.hourStart.Value(), m.hourEnd.Value()); err != nil {
			m.setError(err)
			return m, nil
		}
		m.hourStart.Blur()
		m.hourEnd.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	if m.hourFocus == 0 {
		m.hourStart, cmd = m.hourStart.Update(msg)
	} else {
		m.hourEnd, cmd = m.hourEnd.Update(msg)
	}
	return m, cmd
}

func (m Model) updateFreeText(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.textOpen = false
		m.freeText.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.freeText.Value())
		if value == "" {
			return m, nil
		}
		m.session.Choose(value)
		m.textOpen = false
		m.freeText.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.freeText, cmd = m.freeText.Update(msg)
	return m, cmd
}

func (m Model) cursorKey() (schedule.CellKey, bool) {
	if len(m.roster) == 0 || !m.loaded {
		return schedule.CellKey{}, false
	}
	return schedule.CellKey{
		Date:     m.dateFor(m.cursorDay),
		Employee: m.roster[m.cursorCol].Name,
	}, true
}

func (m Model) viewGrid() string {
	if !m.loaded {
		return m.styles.MutedText.Render("\n  loading schedule...\n")
	}
	if len(m.roster) == 0 {
		return m.styles.MutedText.Render("\n  no employees in the roster yet\n")
	}

	firstCol, lastCol := m.visibleColumns()

	var b strings.Builder

	// Header row: employee codes.
	b.WriteString(strings.Repeat(" ", dayColWidth))
	for col := firstCol; col <= lastCol; col++ {
		label := m.roster[col].Code
		if label == "" {
			label = m.roster[col].Name
		}
		b.WriteString(m.styles.MutedText.Render(pad(label, cellWidth)))
	}
	b.WriteString("\n")

	for day := 1; day <= m.daysInMonth(); day++ {
		date := time.Date(m.year, m.month, day, 0, 0, 0, 0, time.UTC)
		dayLabel := fmt.Sprintf("%2d %s ", day, date.Format("Mon")[:2])
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			b.WriteString(m.styles.Warning.Render(pad(dayLabel, dayColWidth)))
		} else {
			b.WriteString(m.styles.MutedText.Render(pad(dayLabel, dayColWidth)))
		}
		for col := firstCol; col <= lastCol; col++ {
			b.WriteString(m.renderCell(day, col))
		}
		b.WriteString("\n")
	}

	grid := b.String()
	if panel := m.viewEditor(); panel != "" {
		return lipgloss.JoinVertical(lipgloss.Left, grid, panel)
	}
	return grid
}

// visibleColumns windows the roster horizontally around the cursor when
// the grid is wider than the terminal.
func (m Model) visibleColumns() (int, int) {
	fit := (m.width - dayColWidth) / cellWidth
	if fit < 1 {
		fit = 1
	}
	if fit >= len(m.roster) {
		return 0, len(m.roster) - 1
	}
	first := m.cursorCol - fit/2
	if first < 0 {
		first = 0
	}
	last := first + fit - 1
	if last >= len(m.roster) {
		last = len(m.roster) - 1
		first = last - fit + 1
	}
	return first, last
}

func (m Model) renderCell(day, col int) string {
	cellKey := schedule.CellKey{Date: m.dateFor(day), Employee: m.roster[col].Name}
	cell, _ := m.grid.Cell(cellKey)

	label := cell.Value
	if label == "" {
		label = "."
	}
	text := pad(label, cellWidth)

	atCursor := day == m.cursorDay && col == m.cursorCol
	switch {
	case atCursor:
		return m.styles.Cursor.Render(text)
	case cell.Pulse == schedule.PulseSaved:
		return m.styles.PulseSaved.Render(text)
	case cell.Pulse == schedule.PulseDeleted:
		return m.styles.PulseDeleted.Render(text)
	case cell.Selected:
		return m.styles.Selected.Render(text)
	case cell.Editing:
		return m.styles.Editing.Render(text)
	case cell.Value == "":
		return m.styles.FaintText.Render(text)
	default:
		return m.styles.ShiftStyle(cell.Class).Render(text)
	}
}

func (m Model) viewEditor() string {
	anchor, ok := m.session.Anchor()
	if !ok {
		return ""
	}

	title := fmt.Sprintf("set shift for %s / %s", anchor.Employee, anchor.Date)
	if m.session.Phase() == schedule.PhaseMulti {
		title = fmt.Sprintf("set shift for %d selected cells", len(m.grid.Selection()))
	}

	var body string
	switch {
	case m.session.HoursOpen():
		body = fmt.Sprintf("custom hours (0-%s)\nstart: %s\nend:   %s\nenter confirms, esc backs out",
			maxHourValue, m.hourStart.View(), m.hourEnd.View())
	case m.textOpen:
		body = fmt.Sprintf("label: %s\nenter confirms, esc backs out", m.freeText.View())
	default:
		body = "[d] day   [n] night   [p] custom hours   [o] other label   [esc] close"
	}
	return m.styles.FocusPanel.Render(m.styles.Accent.Render(title) + "\n" + body)
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width-1]) + " "
	}
	return s + strings.Repeat(" ", width-len(runes))
}

func prevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}
