package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskcal/internal/task"
)

// Form fields in tab order.
const (
	fieldName = iota
	fieldDeadline
	fieldPriority
	fieldDuration
	fieldDetails
	fieldCount
)

// Dialog layout.
const (
	dialogPadX = 2
	dialogPadY = 1
	borderSize = 1

	labelWidth = 10
	inputWidth = 32

	lineFirstField = 2
	lineMessage    = lineFirstField + fieldCount + 1
	lineButtons    = lineMessage + 1
)

var fieldLabels = [fieldCount]string{"Name", "Deadline", "Priority", "Duration", "Details"}

var fieldPlaceholders = [fieldCount]string{
	"Task name",
	"YYYY-MM-DDTHH:MM",
	"1",
	"hours",
	"optional",
}

func newInputs() []textinput.Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fieldPlaceholders[i]
		ti.Width = inputWidth
		ti.CharLimit = 256
		inputs[i] = ti
	}
	inputs[fieldDetails].CharLimit = 2048
	return inputs
}

// openForm copies the popup's field values into the inputs and focuses the
// first one.
func (c *Calendar) openForm() tea.Cmd {
	f := c.popup.Form()
	values := [fieldCount]string{f.Name, f.Deadline, f.Priority, f.Duration, f.Details}
	for i := range c.inputs {
		c.inputs[i].SetValue(values[i])
		c.inputs[i].CursorEnd()
	}
	return c.focusField(fieldName)
}

// formValues reads the inputs at submission time.
func (c *Calendar) formValues() task.Form {
	return task.Form{
		Name:     c.inputs[fieldName].Value(),
		Deadline: c.inputs[fieldDeadline].Value(),
		Priority: c.inputs[fieldPriority].Value(),
		Duration: c.inputs[fieldDuration].Value(),
		Details:  c.inputs[fieldDetails].Value(),
	}
}

func (c *Calendar) focusField(i int) tea.Cmd {
	c.focus = (i + fieldCount) % fieldCount
	for j := range c.inputs {
		c.inputs[j].Blur()
	}
	return c.inputs[c.focus].Focus()
}

func (c *Calendar) blurInputs() {
	for j := range c.inputs {
		c.inputs[j].Blur()
	}
	c.focus = fieldName
}

func (c *Calendar) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.inputs[c.focus], cmd = c.inputs[c.focus].Update(msg)
	return cmd
}

// renderDialog draws the popup form. Hit positions are relative to the
// dialog's content origin, inside border and padding.
func (c *Calendar) renderDialog() (string, []hit) {
	var hits []hit
	lines := make([]string, 0, lineButtons+2)
	lines = append(lines, headingStyle.Render(c.popup.Heading()), "")

	for i := range c.inputs {
		st := labelStyle
		if i == c.focus {
			st = focusLabel
		}
		lines = append(lines, st.Render(fit(fieldLabels[i], labelWidth))+c.inputs[i].View())
		hits = append(hits, hit{kind: hitField, x0: 0, x1: labelWidth + inputWidth + 1, y: lineFirstField + i, index: i})
	}
	lines = append(lines, "")

	contentWidth := labelWidth + inputWidth + 1
	if msg := c.popup.Message(); msg != "" {
		lines = append(lines, errorStyle.Render(truncate(msg, contentWidth)))
	} else {
		lines = append(lines, "")
	}

	var buttons lineBuilder
	if c.popup.Pending() {
		buttons.add("Saving...", dimStyle)
	} else {
		x0, x1 := buttons.add("[ Save ]", saveButtonStyle)
		hits = append(hits, hit{kind: hitSave, x0: x0, x1: x1, y: lineButtons})
		if c.popup.DeleteVisible() {
			buttons.add("  ", plainStyle)
			x0, x1 = buttons.add("[ Delete ]", deleteButtonStyle)
			hits = append(hits, hit{kind: hitDelete, x0: x0, x1: x1, y: lineButtons})
		}
		buttons.add("  ", plainStyle)
		x0, x1 = buttons.add("[ Cancel ]", buttonStyle)
		hits = append(hits, hit{kind: hitCancel, x0: x0, x1: x1, y: lineButtons})
	}
	lines = append(lines, buttons.String(), "")
	lines = append(lines, c.help.ShortHelpView(c.keys.FormHelp(c.popup.DeleteVisible())))

	return dialogStyle.Render(strings.Join(lines, "\n")), hits
}

// dialogOrigin returns the top-left cell of the dialog box as placed by
// viewDialog.
func (c *Calendar) dialogOrigin(dialog string) (x, y int) {
	x = max(0, (c.width-lipgloss.Width(dialog))/2)  //nolint:mnd // centered
	y = max(0, (c.height-lipgloss.Height(dialog))/2) //nolint:mnd // centered
	return x, y
}

// viewDialog centers the form over a dimmed backdrop.
func (c *Calendar) viewDialog() string {
	dialog, _ := c.renderDialog()
	return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center, dialog,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(backdropColor))
}

func (c *Calendar) handleDialogMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	dialog, hits := c.renderDialog()
	bx, by := c.dialogOrigin(dialog)
	inside := msg.X >= bx && msg.X < bx+lipgloss.Width(dialog) &&
		msg.Y >= by && msg.Y < by+lipgloss.Height(dialog)

	c.popup.ClickBackdrop(inside)
	if !c.popup.IsOpen() {
		c.blurInputs()
		return nil
	}
	if !inside || c.popup.Pending() {
		return nil
	}

	x := msg.X - bx - borderSize - dialogPadX
	y := msg.Y - by - borderSize - dialogPadY
	for _, h := range hits {
		if !h.contains(x, y) {
			continue
		}
		switch h.kind {
		case hitField:
			return c.focusField(h.index)
		case hitSave:
			return c.save()
		case hitDelete:
			return c.remove()
		case hitCancel:
			c.popup.Dismiss()
			c.blurInputs()
		}
		return nil
	}
	return nil
}
