package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/n3xus47/grafiksp4600/internal/schedule"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string
	SurfaceAlt string

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Per shift class cell colors.
	ShiftColors map[schedule.Class]string
}

// Styles returns pre-built lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	base := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text))
	return Styles{
		Text:      base,
		MutedText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		Danger:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		Editing: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true).
			Underline(true),
		Cursor: lipgloss.NewStyle().
			Background(lipgloss.Color(t.BorderFocus)).
			Foreground(lipgloss.Color(t.Background)),

		PulseSaved: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Success)).
			Foreground(lipgloss.Color(t.Background)),
		PulseDeleted: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Danger)).
			Foreground(lipgloss.Color(t.Background)),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
		FocusPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderFocus)).
			Padding(0, 1),

		shiftColors: t.ShiftColors,
		muted:       t.Muted,
	}
}

// Styles contains pre-built lipgloss styles for the theme.
type Styles struct {
	Text      lipgloss.Style
	MutedText lipgloss.Style
	FaintText lipgloss.Style
	Accent    lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Danger    lipgloss.Style
	Info      lipgloss.Style

	Header lipgloss.Style
	Footer lipgloss.Style

	Selected     lipgloss.Style
	Editing      lipgloss.Style
	Cursor       lipgloss.Style
	PulseSaved   lipgloss.Style
	PulseDeleted lipgloss.Style

	Panel      lipgloss.Style
	FocusPanel lipgloss.Style

	shiftColors map[schedule.Class]string
	muted       string
}

// ShiftStyle returns the foreground style for a shift class.
func (s Styles) ShiftStyle(class schedule.Class) lipgloss.Style {
	color := s.shiftColors[class]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

var themes = map[string]Theme{
	"Dracula": draculaTheme(),
	"Slate":   slateTheme(),
}

var themeOrder = []string{"Dracula", "Slate"}

// GetTheme returns a theme by name, defaulting to Dracula.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return draculaTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

func draculaTheme() Theme {
	// Official Dracula palette: https://draculatheme.com/spec
	return Theme{
		Name: "Dracula",

		Background: "#191A21",
		Surface:    "#282A36",
		SurfaceAlt: "#21222C",

		SelectionBg:   "#44475A",
		SelectionText: "#F8F8F2",

		Border:      "#44475A",
		BorderFocus: "#BD93F9",

		Text:    "#F8F8F2",
		Muted:   "#6272A4",
		Faint:   "#44475A",
		Accent:  "#BD93F9",
		Success: "#50FA7B",
		Warning: "#FFB86C",
		Danger:  "#FF5555",
		Info:    "#8BE9FD",

		ShiftColors: map[schedule.Class]string{
			schedule.ClassDay:    "#F1FA8C", // Yellow (day)
			schedule.ClassNight:  "#BD93F9", // Purple (night)
			schedule.ClassCustom: "#8BE9FD", // Cyan (custom interval)
			schedule.ClassLabel:  "#FF79C6", // Pink (free text)
		},
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: "Slate",

		Background: "#020617",
		Surface:    "#0f172a",
		SurfaceAlt: "#1e293b",

		SelectionBg:   "#0284c7",
		SelectionText: "#f8fafc",

		Border:      "#334155",
		BorderFocus: "#38bdf8",

		Text:    "#f1f5f9",
		Muted:   "#94a3b8",
		Faint:   "#64748b",
		Accent:  "#38bdf8",
		Success: "#22c55e",
		Warning: "#f59e0b",
		Danger:  "#ef4444",
		Info:    "#06b6d4",

		ShiftColors: map[schedule.Class]string{
			schedule.ClassDay:    "#fde047", // yellow-300
			schedule.ClassNight:  "#8b5cf6", // violet-500
			schedule.ClassCustom: "#22d3ee", // cyan-400
			schedule.ClassLabel:  "#ec4899", // pink-500
		},
	}
}
