package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/n3xus47/grafiksp4600/internal/schedule"
)

const unavailWeekCols = 7

func (m Model) updateUnavail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.unavailFocus {
		switch msg.String() {
		case "esc":
			m.unavailFocus = false
			m.unavailNote.Blur()
			return m, nil
		case "enter":
			return m.submitUnavail()
		case "tab":
			m.unavailFocus = false
			m.unavailNote.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.unavailNote, cmd = m.unavailNote.Update(msg)
		return m, cmd
	}

	days := m.daysInMonth()
	switch {
	case key.Matches(msg, m.keys.Left):
		if m.unavailCursor > 1 {
			m.unavailCursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.unavailCursor < days {
			m.unavailCursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.unavailCursor > unavailWeekCols {
			m.unavailCursor -= unavailWeekCols
		}
	case key.Matches(msg, m.keys.Down):
		if m.unavailCursor+unavailWeekCols <= days {
			m.unavailCursor += unavailWeekCols
		}

	case key.Matches(msg, m.keys.Click):
		if msg.String() == " " {
			m.toggleUnavailDay()
			return m, nil
		}
		return m.submitUnavail()

	case msg.String() == "i":
		m.unavailFocus = true
		m.unavailNote.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Approve), key.Matches(msg, m.keys.Reject):
		if !m.isBoss {
			return m, nil
		}
		item, ok := m.pendingUnavailItem()
		if !ok {
			m.setStatus("no pending declarations")
			return m, nil
		}
		status := schedule.StatusApproved
		verb := "approve unavailability"
		if key.Matches(msg, m.keys.Reject) {
			status = schedule.StatusRejected
			verb = "reject unavailability"
		}
		m.busy = true
		client, ctx := m.opts.Client, m.opts.Context
		return m, m.actionCmd(verb, false, func() error {
			return client.RespondUnavailability(ctx, item.ID, status, "")
		})
	}
	return m, nil
}

func (m *Model) toggleUnavailDay() {
	if m.unavailCursor < 1 {
		m.unavailCursor = 1
	}
	if m.unavailDays[m.unavailCursor] {
		delete(m.unavailDays, m.unavailCursor)
	} else {
		m.unavailDays[m.unavailCursor] = true
	}
}

func (m Model) submitUnavail() (tea.Model, tea.Cmd) {
	days := make([]int, 0, len(m.unavailDays))
	for day := range m.unavailDays {
		days = append(days, day)
	}
	sort.Ints(days)

	monthYear := fmt.Sprintf("%04d-%02d", m.year, int(m.month))
	payload, err := schedule.ComposeUnavailability(monthYear, days, strings.TrimSpace(m.unavailNote.Value()))
	if err != nil {
		m.setError(err)
		return m, nil
	}

	m.unavailDays = make(map[int]bool)
	m.unavailNote.SetValue("")
	m.unavailFocus = false
	m.unavailNote.Blur()
	m.busy = true
	client, ctx := m.opts.Client, m.opts.Context
	return m, m.actionCmd(fmt.Sprintf("declare %d unavailable days", len(days)), false, func() error {
		return client.CreateUnavailability(ctx, payload)
	})
}

func (m Model) pendingUnavailItem() (schedule.UnavailabilityItem, bool) {
	for _, item := range m.opts.Store.Snapshot().Unavailability {
		if item.Status == "" || item.Status == schedule.StatusPending {
			return item, true
		}
	}
	return schedule.UnavailabilityItem{}, false
}

func (m Model) viewUnavail() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render(fmt.Sprintf("unavailable days, %s %d", m.month, m.year)) + "\n\n")

	days := m.daysInMonth()
	for day := 1; day <= days; day++ {
		label := fmt.Sprintf(" %2d ", day)
		switch {
		case day == m.unavailCursor:
			b.WriteString(m.styles.Cursor.Render(label))
		case m.unavailDays[day]:
			b.WriteString(m.styles.Selected.Render(label))
		default:
			b.WriteString(m.styles.MutedText.Render(label))
		}
		if day%unavailWeekCols == 0 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n\n")

	marker := "  "
	if m.unavailFocus {
		marker = m.styles.Accent.Render("> ")
	}
	b.WriteString(marker + "comment: " + m.unavailNote.View() + "\n")
	b.WriteString(m.styles.FaintText.Render("space toggles a day, i edits the comment, enter submits") + "\n")

	items := m.opts.Store.Snapshot().Unavailability
	if len(items) > 0 {
		b.WriteString("\n" + m.styles.MutedText.Render("declarations:") + "\n")
		for _, item := range items {
			line := fmt.Sprintf("  %s %s days %s [%s]",
				item.Employee, item.MonthYear, formatDays(item.SelectedDays), orDash(item.Status))
			b.WriteString(m.styles.MutedText.Render(line) + "\n")
		}
		if m.isBoss {
			b.WriteString(m.styles.Info.Render("  [A] approve first pending  [R] reject first pending") + "\n")
		}
	}
	return b.String()
}

func formatDays(days []int) string {
	parts := make([]string, len(days))
	for i, day := range days {
		parts[i] = fmt.Sprintf("%d", day)
	}
	return strings.Join(parts, ",")
}
