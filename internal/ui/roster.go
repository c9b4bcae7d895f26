package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/n3xus47/grafiksp4600/internal/api"
)

func (m Model) updateRoster(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.rosterForm != nil {
		return m.updateRosterForm(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.rosterCursor > 0 {
			m.rosterCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.rosterCursor < len(m.roster)-1 {
			m.rosterCursor++
		}

	case key.Matches(msg, m.keys.Add):
		form := newRosterForm(api.Employee{})
		m.rosterForm = &form
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Edit):
		emp, ok := m.selectedEmployee()
		if !ok {
			return m, nil
		}
		form := newRosterForm(emp)
		m.rosterForm = &form
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		emp, ok := m.selectedEmployee()
		if !ok {
			return m, nil
		}
		m.busy = true
		client, ctx := m.opts.Client, m.opts.Context
		return m, m.actionCmd("delete "+emp.Name, false, func() error {
			return client.DeleteEmployee(ctx, emp.ID)
		})
	}
	return m, nil
}

func (m Model) selectedEmployee() (api.Employee, bool) {
	if m.rosterCursor < 0 || m.rosterCursor >= len(m.roster) {
		return api.Employee{}, false
	}
	return m.roster[m.rosterCursor], true
}

func newRosterForm(emp api.Employee) rosterForm {
	newInput := func(placeholder, value string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		in.SetValue(value)
		return in
	}
	form := rosterForm{
		id:    emp.ID,
		name:  newInput("full name", emp.Name, 100),
		code:  newInput("grid code (initials)", emp.Code, 10),
		email: newInput("email", emp.Email, 200),
	}
	form.name.Focus()
	return form
}

func (m Model) updateRosterForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := m.rosterForm

	switch msg.String() {
	case "esc":
		m.rosterForm = nil
		return m, nil

	case "tab", "down":
		form.focus = (form.focus + 1) % 3
		return m, focusRosterForm(form)
	case "shift+tab", "up":
		form.focus = (form.focus + 2) % 3
		return m, focusRosterForm(form)

	case "enter":
		input := api.EmployeeInput{
			Name:  strings.TrimSpace(form.name.Value()),
			Code:  strings.TrimSpace(form.code.Value()),
			Email: strings.TrimSpace(form.email.Value()),
		}
		if input.Name == "" {
			m.setStatus("name is required")
			return m, nil
		}
		id := form.id
		m.rosterForm = nil
		m.busy = true
		client, ctx := m.opts.Client, m.opts.Context
		if id == 0 {
			return m, m.actionCmd("add "+input.Name, false, func() error {
				return client.CreateEmployee(ctx, input)
			})
		}
		return m, m.actionCmd("update "+input.Name, false, func() error {
			return client.UpdateEmployee(ctx, id, input)
		})
	}

	var cmd tea.Cmd
	switch form.focus {
	case 0:
		form.name, cmd = form.name.Update(msg)
	case 1:
		form.code, cmd = form.code.Update(msg)
	case 2:
		form.email, cmd = form.email.Update(msg)
	}
	return m, cmd
}

func focusRosterForm(form *rosterForm) tea.Cmd {
	inputs := []*textinput.Model{&form.name, &form.code, &form.email}
	for i, in := range inputs {
		if i == form.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
	return textinput.Blink
}

func (m Model) viewRoster() string {
	if m.rosterForm != nil {
		return m.viewRosterForm()
	}
	if len(m.roster) == 0 {
		return m.styles.MutedText.Render("\n  roster is empty; press a to add an employee\n")
	}

	var b strings.Builder
	for i, emp := range m.roster {
		line := fmt.Sprintf("%-24s %-6s %s", emp.Name, orDash(emp.Code), orDash(emp.Email))
		if i == m.rosterCursor {
			b.WriteString(m.styles.Accent.Render("> ") + m.styles.Text.Render(line) + "\n")
		} else {
			b.WriteString("  " + m.styles.MutedText.Render(line) + "\n")
		}
	}
	return b.String()
}

func (m Model) viewRosterForm() string {
	form := m.rosterForm
	title := "add employee"
	if form.id != 0 {
		title = "edit employee"
	}

	row := func(i int, label string, in textinput.Model) string {
		marker := "  "
		if form.focus == i {
			marker = m.styles.Accent.Render("> ")
		}
		return fmt.Sprintf("%s%-8s %s", marker, label, in.View())
	}

	lines := []string{
		m.styles.Accent.Render(title),
		row(0, "name:", form.name),
		row(1, "code:", form.code),
		row(2, "email:", form.email),
		"",
		m.styles.FaintText.Render("tab moves, enter saves, esc cancels"),
	}
	return m.styles.FocusPanel.Render(strings.Join(lines, "\n"))
}
