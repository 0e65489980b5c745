package main

import (
	"github.com/charmbracelet/lipgloss"

	"agentchat/internal/probe"
	"agentchat/internal/transcript"
)

type uiTheme struct {
	root        lipgloss.Style
	header      lipgloss.Style
	title       lipgloss.Style
	panel       lipgloss.Style
	panelTitle  lipgloss.Style
	footer      lipgloss.Style
	status      lipgloss.Style
	errorStatus lipgloss.Style
	inputPanel  lipgloss.Style
	helpText    lipgloss.Style
	button      lipgloss.Style
	buttonBusy  lipgloss.Style
	roleLabel   map[transcript.Role]lipgloss.Style
	roleBody    map[transcript.Role]lipgloss.Style
	indicator   map[probe.Status]lipgloss.Style
}

func newTheme() uiTheme {
	pink := lipgloss.Color("#ff71ce")
	blue := lipgloss.Color("#01cdfe")
	mint := lipgloss.Color("#05ffa1")
	amber := lipgloss.Color("#ffd166")
	bg := lipgloss.Color("#120924")
	panelBg := lipgloss.Color("#1b0f35")
	text := lipgloss.Color("#f3f3ff")
	muted := lipgloss.Color("#9ca3d8")

	return uiTheme{
		root: lipgloss.NewStyle().
			Background(bg).
			Foreground(text).
			Padding(0, 1),
		header: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(text).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Padding(0, 1),
		title: lipgloss.NewStyle().
			Foreground(pink).
			Bold(true),
		panel: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Padding(0, 1),
		panelTitle: lipgloss.NewStyle().
			Foreground(mint).
			Bold(true),
		footer: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(muted).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(pink).
			Padding(0, 1),
		status:      lipgloss.NewStyle().Foreground(blue).Bold(true),
		errorStatus: lipgloss.NewStyle().Foreground(pink).Bold(true),
		inputPanel: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(mint).
			Padding(0, 1),
		helpText: lipgloss.NewStyle().Foreground(muted),
		button: lipgloss.NewStyle().
			Background(blue).
			Foreground(lipgloss.Color("#22062f")).
			Bold(true).
			Padding(0, 1),
		buttonBusy: lipgloss.NewStyle().
			Background(lipgloss.Color("#2a184a")).
			Foreground(muted).
			Padding(0, 1),
		roleLabel: map[transcript.Role]lipgloss.Style{
			transcript.RoleUser:  lipgloss.NewStyle().Foreground(mint).Bold(true),
			transcript.RoleAgent: lipgloss.NewStyle().Foreground(blue).Bold(true),
			transcript.RoleError: lipgloss.NewStyle().Foreground(pink).Bold(true),
		},
		roleBody: map[transcript.Role]lipgloss.Style{
			transcript.RoleUser:  lipgloss.NewStyle().Foreground(text),
			transcript.RoleAgent: lipgloss.NewStyle().Foreground(text),
			transcript.RoleError: lipgloss.NewStyle().Foreground(pink),
		},
		indicator: map[probe.Status]lipgloss.Style{
			probe.StatusChecking:  lipgloss.NewStyle().Foreground(amber).Bold(true),
			probe.StatusConnected: lipgloss.NewStyle().Foreground(mint).Bold(true),
			probe.StatusError:     lipgloss.NewStyle().Foreground(pink).Bold(true),
		},
	}
}
