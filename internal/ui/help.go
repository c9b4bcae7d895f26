package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

func (m Model) viewHelp() string {
	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"global", []key.Binding{
			m.keys.Help, m.keys.Quit, m.keys.Theme, m.keys.NextView,
			m.keys.Grid, m.keys.Mailbox, m.keys.Roster, m.keys.Unavail,
		}},
		{"grid", []key.Binding{
			m.keys.EditToggle, m.keys.Click, m.keys.MultiClick,
			m.keys.Save, m.keys.Cancel,
			m.keys.PrevMonth, m.keys.NextMonth,
			m.keys.Export, m.keys.PushTest,
		}},
		{"draft (boss)", []key.Binding{
			m.keys.DraftToggle, m.keys.DraftSave, m.keys.DraftPublish,
		}},
		{"mailbox", []key.Binding{
			m.keys.Compose, m.keys.Accept, m.keys.Decline,
			m.keys.Approve, m.keys.Reject, m.keys.Clear,
		}},
		{"roster", []key.Binding{
			m.keys.Add, m.keys.Edit, m.keys.Delete,
		}},
	}

	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("key bindings") + "\n\n")
	for _, section := range sections {
		b.WriteString(m.styles.Warning.Render(section.title) + "\n")
		for _, binding := range section.bindings {
			help := binding.Help()
			b.WriteString("  " + m.styles.Text.Render(pad(help.Key, 10)) +
				m.styles.MutedText.Render(help.Desc) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(m.styles.FaintText.Render("press any key to close"))
	return m.styles.Panel.Render(b.String())
}
