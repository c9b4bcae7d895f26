package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/n3xus47/grafiksp4600/internal/schedule"
)

func (m Model) updateMailbox(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.composing {
		return m.updateCompose(msg)
	}

	items := m.mailbox.Items()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.mailCursor > 0 {
			m.mailCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.mailCursor < len(items)-1 {
			m.mailCursor++
		}

	case key.Matches(msg, m.keys.Compose):
		m.composing = true
		m.composeIn = m.newComposeForm()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Accept), key.Matches(msg, m.keys.Decline):
		item, ok := m.selectedRequest()
		if !ok {
			return m, nil
		}
		status := schedule.StatusApproved
		verb := "accept request"
		if key.Matches(msg, m.keys.Decline) {
			status = schedule.StatusRejected
			verb = "decline request"
		}
		if !hasAction(m.mailbox.ActionsFor(item, m.isBoss), schedule.ActionAccept) {
			m.setStatus("this request is not waiting on you")
			return m, nil
		}
		m.busy = true
		client, ctx := m.opts.Client, m.opts.Context
		return m, m.actionCmd(verb, true, func() error {
			return client.RespondSwap(ctx, item.ID, status)
		})

	case key.Matches(msg, m.keys.Approve), key.Matches(msg, m.keys.Reject):
		item, ok := m.selectedRequest()
		if !ok {
			return m, nil
		}
		status := schedule.StatusApproved
		verb := "approve request"
		if key.Matches(msg, m.keys.Reject) {
			status = schedule.StatusRejected
			verb = "reject request"
		}
		if !hasAction(m.mailbox.ActionsFor(item, m.isBoss), schedule.ActionApprove) {
			m.setStatus("this request is not waiting on the boss")
			return m, nil
		}
		m.busy = true
		client, ctx := m.opts.Client, m.opts.Context
		return m, m.actionCmd(verb, true, func() error {
			return client.BossSwap(ctx, item.ID, status)
		})

	case key.Matches(msg, m.keys.Clear):
		m.busy = true
		client, ctx := m.opts.Client, m.opts.Context
		return m, m.actionCmd("clear resolved requests", false, func() error {
			return client.ClearSwaps(ctx)
		})
	}
	return m, nil
}

func (m Model) selectedRequest() (schedule.RequestItem, bool) {
	items := m.mailbox.Items()
	if m.mailCursor < 0 || m.mailCursor >= len(items) {
		return schedule.RequestItem{}, false
	}
	return items[m.mailCursor], true
}

func hasAction(actions []schedule.Action, want schedule.Action) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}

func (m Model) newComposeForm() composeForm {
	newInput := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		return in
	}
	form := composeForm{
		kind:       schedule.KindSwap,
		fromDate:   newInput("your shift date (YYYY-MM-DD)", 10),
		toEmployee: newInput("other employee", 100),
		toDate:     newInput("their shift date (YYYY-MM-DD)", 10),
		comment:    newInput("comment (optional)", 200),
	}
	return form
}

func (m Model) updateCompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := &m.composeIn

	switch msg.String() {
	case "esc":
		m.composing = false
		return m, nil

	case "tab", "down":
		form.focus = (form.focus + 1) % 5
		return m, m.focusCompose()
	case "shift+tab", "up":
		form.focus = (form.focus + 4) % 5
		return m, m.focusCompose()

	case "left", "right":
		if form.focus == 0 {
			if msg.String() == "right" {
				form.kind = (form.kind + 1) % 3
			} else {
				form.kind = (form.kind + 2) % 3
			}
			return m, nil
		}

	case "enter":
		input := schedule.RequestInput{
			Kind:       form.kind,
			FromDate:   strings.TrimSpace(form.fromDate.Value()),
			ToEmployee: strings.TrimSpace(form.toEmployee.Value()),
			ToDate:     strings.TrimSpace(form.toDate.Value()),
			Comment:    strings.TrimSpace(form.comment.Value()),
		}
		payload, err := m.mailbox.Compose(input)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.composing = false
		m.busy = true
		client, ctx := m.opts.Client, m.opts.Context
		return m, m.actionCmd("send "+form.kind.String()+" request", false, func() error {
			return client.CreateSwap(ctx, payload)
		})
	}

	var cmd tea.Cmd
	switch form.focus {
	case 1:
		form.fromDate, cmd = form.fromDate.Update(msg)
	case 2:
		form.toEmployee, cmd = form.toEmployee.Update(msg)
	case 3:
		form.toDate, cmd = form.toDate.Update(msg)
	case 4:
		form.comment, cmd = form.comment.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusCompose() tea.Cmd {
	form := &m.composeIn
	inputs := []*textinput.Model{nil, &form.fromDate, &form.toEmployee, &form.toDate, &form.comment}
	for i, in := range inputs {
		if in == nil {
			continue
		}
		if i == form.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
	if form.focus == 0 {
		return nil
	}
	return textinput.Blink
}

func (m Model) viewMailbox() string {
	if m.composing {
		return m.viewCompose()
	}

	items := m.mailbox.Items()
	if len(items) == 0 {
		return m.styles.MutedText.Render("\n  no requests\n")
	}

	var b strings.Builder
	for i, item := range items {
		line := formatRequest(item)
		prefix := "  "
		if i == m.mailCursor {
			prefix = m.styles.Accent.Render("> ")
			line = m.styles.Text.Render(line)
		} else {
			line = m.styles.MutedText.Render(line)
		}
		b.WriteString(prefix + line + "\n")

		if i == m.mailCursor {
			actions := m.mailbox.ActionsFor(item, m.isBoss)
			if len(actions) > 0 {
				b.WriteString("    " + m.styles.Info.Render(actionHints(actions)) + "\n")
			}
			if item.Comment != "" {
				b.WriteString("    " + m.styles.FaintText.Render("\""+item.Comment+"\"") + "\n")
			}
		}
	}
	return b.String()
}

func formatRequest(item schedule.RequestItem) string {
	var what string
	switch {
	case item.ToDate == "" && item.FromDate != "":
		what = fmt.Sprintf("%s gives %s on %s to %s",
			item.FromEmployee, orDash(item.FromShift), item.FromDate, item.ToEmployee)
	case item.FromDate == "":
		what = fmt.Sprintf("%s asks to take %s on %s from %s",
			item.FromEmployee, orDash(item.ToShift), item.ToDate, item.ToEmployee)
	default:
		what = fmt.Sprintf("%s swaps %s on %s for %s's %s on %s",
			item.FromEmployee, orDash(item.FromShift), item.FromDate,
			item.ToEmployee, orDash(item.ToShift), item.ToDate)
	}
	return fmt.Sprintf("%s  [%s]", what, orDash(item.FinalStatus))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func actionHints(actions []schedule.Action) string {
	var hints []string
	for _, a := range actions {
		switch a {
		case schedule.ActionAccept:
			hints = append(hints, "[a] accept")
		case schedule.ActionDecline:
			hints = append(hints, "[d] decline")
		case schedule.ActionApprove:
			hints = append(hints, "[A] approve")
		case schedule.ActionReject:
			hints = append(hints, "[R] reject")
		}
	}
	return strings.Join(hints, "  ")
}

func (m Model) viewCompose() string {
	form := m.composeIn

	kinds := []string{"swap", "give", "take"}
	for i := range kinds {
		if schedule.RequestKind(i) == form.kind {
			kinds[i] = m.styles.Accent.Render("(" + kinds[i] + ")")
		} else {
			kinds[i] = m.styles.MutedText.Render(" " + kinds[i] + " ")
		}
	}

	row := func(i int, label string, in textinput.Model) string {
		marker := "  "
		if form.focus == i {
			marker = m.styles.Accent.Render("> ")
		}
		return fmt.Sprintf("%s%-14s %s", marker, label, in.View())
	}

	kindMarker := "  "
	if form.focus == 0 {
		kindMarker = m.styles.Accent.Render("> ")
	}

	lines := []string{
		m.styles.Accent.Render("new request"),
		kindMarker + "kind:          " + strings.Join(kinds, " ") + m.styles.FaintText.Render("  (←/→)"),
		row(1, "your date:", form.fromDate),
		row(2, "employee:", form.toEmployee),
		row(3, "their date:", form.toDate),
		row(4, "comment:", form.comment),
		"",
		m.styles.FaintText.Render("tab moves, enter sends, esc cancels"),
	}
	return m.styles.FocusPanel.Render(strings.Join(lines, "\n"))
}
