package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	Title      lipgloss.Style
	Label      lipgloss.Style
	Focused    lipgloss.Style
	InputField lipgloss.Style
	Muted      lipgloss.Style
	Result     lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Dialog     lipgloss.Style
	Selected   lipgloss.Style
	Disabled   lipgloss.Style
}

// DefaultStyles returns the default palette.
func DefaultStyles() *Styles {
	primary := lipgloss.Color("#7C3AED")
	muted := lipgloss.Color("#6C7086")
	border := lipgloss.Color("#45475A")

	return &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(primary).MarginBottom(1),
		Label:    lipgloss.NewStyle().Width(26).Align(lipgloss.Right).PaddingRight(1),
		Focused:  lipgloss.NewStyle().Width(26).Align(lipgloss.Right).PaddingRight(1).Bold(true).Foreground(primary),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Disabled: lipgloss.NewStyle().Foreground(muted).Strikethrough(true),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Result: lipgloss.NewStyle().
			MarginTop(1).
			Width(72),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		Dialog: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(1, 2),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CDD6F4")).Background(primary),
	}
}
