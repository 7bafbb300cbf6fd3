package components

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/folio/internal/tui/styles"
)

const modalWidth = 56

// InputModal is a single-line text prompt
type InputModal struct {
	visible bool
	title   string
	hint    string
	input   textinput.Model
}

// NewInputModal creates a new input modal
func NewInputModal() InputModal {
	ti := textinput.New()
	ti.CharLimit = 2048
	ti.Width = modalWidth - 2
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return InputModal{
		input: ti,
	}
}

// Show displays the modal with a title and an empty input
func (m *InputModal) Show(title, placeholder string) {
	m.ShowWithValue(title, placeholder, "")
}

// ShowWithValue displays the modal with the input seeded to value
func (m *InputModal) ShowWithValue(title, placeholder, value string) {
	m.visible = true
	m.title = title
	m.hint = ""
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

// Hide dismisses the modal
func (m *InputModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m InputModal) IsVisible() bool {
	return m.visible
}

// Title returns the prompt title
func (m InputModal) Title() string {
	return m.title
}

// Value returns the current input value
func (m InputModal) Value() string {
	return m.input.Value()
}

// SetValue replaces the input and moves the cursor to its end
func (m *InputModal) SetValue(value string) {
	m.input.SetValue(value)
	m.input.CursorEnd()
}

// SetHint sets a dim line shown below the input
func (m *InputModal) SetHint(hint string) {
	m.hint = hint
}

// Update handles input events, returns (modal, cmd, submitted)
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, PromptKeys.Submit):
			return m, nil, true
		case key.Matches(keyMsg, PromptKeys.Cancel):
			m.Hide()
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

// View renders the input modal
func (m InputModal) View() string {
	if !m.visible {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.White).
		Bold(true).
		Width(modalWidth).
		Background(styles.SlateDark)

	lineStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Background(styles.SlateDark)

	spacer := lineStyle.Render("")

	rows := []string{
		titleStyle.Render(m.title),
		spacer,
		lineStyle.Render(m.input.View()),
	}
	if m.hint != "" {
		rows = append(rows, spacer, lineStyle.Inherit(styles.DimStyle).Render(styles.Truncate(m.hint, modalWidth)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Background(styles.SlateDark).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
