package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	toolbarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	toolbarActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("236"))

	dayHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	activeDayHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62"))

	todayHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("226")).
				Background(lipgloss.Color("236"))

	outsideMonthStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))

	selectedEntryStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("16")).
				Background(lipgloss.Color("226"))

	// 1 is the most urgent priority.
	priorityStyles = map[int]lipgloss.Style{
		1: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		2: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		3: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	}
	entryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	plainStyle = lipgloss.NewStyle()

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(dialogPadY, dialogPadX)

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	focusLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238"))
	saveButtonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62"))
	deleteButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("124"))

	backdropColor = lipgloss.Color("236")
)

// entryStyleFor returns the text style of an entry with the given priority.
func entryStyleFor(priority int, selected bool) lipgloss.Style {
	if selected {
		return selectedEntryStyle
	}
	if st, ok := priorityStyles[priority]; ok {
		return st
	}
	return entryStyle
}
