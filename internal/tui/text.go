package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func truncate(s string, maxLen int) string {
	if maxLen < 1 {
		return ""
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	if maxLen < 4 { //nolint:mnd // minimum length for an ellipsis
		return string([]rune(s)[:maxLen])
	}
	// Slice by runes to avoid breaking multi-byte UTF-8 characters.
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// fit truncates and pads unstyled text to exactly width cells.
func fit(s string, width int) string {
	return padRight(truncate(s, width), width)
}

// lineBuilder assembles a screen line from styled segments while tracking
// the column each segment starts at.
type lineBuilder struct {
	b strings.Builder
	x int
}

// add appends text rendered with st and returns the columns it spans.
func (l *lineBuilder) add(text string, st lipgloss.Style) (x0, x1 int) {
	x0 = l.x
	l.b.WriteString(st.Render(text))
	l.x += lipgloss.Width(text)
	return x0, l.x
}

func (l *lineBuilder) String() string { return l.b.String() }
