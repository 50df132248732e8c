package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	liveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	dim         = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	playing     = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	paused      = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	stable      = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const (
	cellAlive  = "██"
	cellDead   = "  "
	cellCursor = "░░"
)
