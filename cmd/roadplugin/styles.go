package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/blackroad/roadplugin/plugin"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	stateStyles = map[plugin.State]lipgloss.Style{
		plugin.StateDiscovered: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		plugin.StateLoaded:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		plugin.StateEnabled:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		plugin.StateDisabled:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		plugin.StateError:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

// renderState returns the colored state badge.
func renderState(s plugin.State) string {
	if style, ok := stateStyles[s]; ok {
		return style.Render(s.String())
	}
	return s.String()
}
