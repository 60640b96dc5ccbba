package main

import "github.com/charmbracelet/lipgloss"

var (
	accent      = lipgloss.AdaptiveColor{Light: "#101F38", Dark: "#8BC34A"}
	muted       = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	destructive = lipgloss.Color("#e53935")
	warning     = lipgloss.Color("#FFC107")
)

// styles groups the lipgloss styles used by the chat view.
type styles struct {
	Header    lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Muted     lipgloss.Style
	Escalated lipgloss.Style
	Ticket    lipgloss.Style
	Action    lipgloss.Style
	Notice    lipgloss.Style
}

func defaultStyles() styles {
	bold := lipgloss.NewStyle().Bold(true)
	return styles{
		Header:    bold.Foreground(accent).Padding(0, 1),
		User:      bold.Foreground(accent).MarginTop(1),
		Assistant: bold.Foreground(lipgloss.AdaptiveColor{Light: "#2196F3", Dark: "#64b5f6"}).MarginTop(1),
		Muted:     lipgloss.NewStyle().Foreground(muted),
		Escalated: bold.Foreground(destructive),
		Ticket:    lipgloss.NewStyle().Foreground(warning),
		Action:    lipgloss.NewStyle().Foreground(muted).Italic(true),
		Notice:    lipgloss.NewStyle().Foreground(muted).Italic(true).MarginTop(1),
	}
}
