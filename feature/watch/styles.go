package watch

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	folderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	closedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Faint(true)
	orderStyle  = lipgloss.NewStyle().Faint(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
)
