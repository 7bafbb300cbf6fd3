package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/folio/internal/tui/components"
	"github.com/mmcdole/folio/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.State {
	case StateHelp:
		return m.renderHelp()
	case StateConfirmDelete:
		return m.renderDeleteConfirmation()
	}

	body := m.List.View()
	if m.State == StatePrompt {
		body = lipgloss.Place(m.List.Width(), m.List.Height(),
			lipgloss.Center, lipgloss.Center,
			m.Input.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

// renderHeader renders the title line and the breadcrumbs
func (m Model) renderHeader() string {
	left := styles.TitleStyle.Render(m.title())
	if m.Loading {
		left += " " + RenderSpinner(m.SpinnerFrame)
	}

	var right string
	if name := m.AppInfo.DisplayName; name != "" {
		right = styles.SubtitleStyle.Render(name)
	} else if m.AppInfo.Email != "" {
		right = styles.SubtitleStyle.Render(m.AppInfo.Email)
	}
	if m.Admin {
		right += " " + styles.BadgeStyle.Render("admin")
	}

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	titleLine := left + strings.Repeat(" ", gap) + right

	var crumbs string
	switch {
	case m.Screen == ScreenDashboard:
		crumbs = styles.DimStyle.Render("most visited bookmarks")
	case m.Nav.SearchMode():
		crumbs = styles.DimStyle.Render(fmt.Sprintf("%d results", m.List.ItemCount()))
	default:
		crumbs = components.RenderBreadcrumbs(m.Nav.PathElements(), m.Width)
	}
	if crumbs == "" {
		crumbs = " " // Keep the line so the layout does not shift
	}

	return titleLine + "\n" + crumbs
}

// renderFooter renders the status line with context hints
func (m Model) renderFooter() string {
	// Left side: notification, or spinner while loading
	var left string
	switch {
	case m.Status.Text() != "" && m.Status.IsError():
		left = styles.ErrorStyle.Render(m.Status.Text())
	case m.Status.Text() != "":
		left = styles.SuccessStyle.Render(m.Status.Text())
	case m.Loading:
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading...")
	}

	// Center section: context-specific hints
	var center string
	if m.Screen == ScreenDashboard {
		center = hint("D", "folders")
	} else {
		center = hint("a", "add") + "  " + hint("n", "folder") + "  " + hint("J/K", "move")
	}

	right := hint("?", "help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space - just left + right
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

func hint(keys, desc string) string {
	return styles.HelpKeyStyle.Render(keys) + styles.HelpDescStyle.Render(" "+desc)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      EDITING
  j/k        Up/down               a      Add bookmark
  enter/l    Open folder or link   n      New folder
  h          Parent folder         e      Rename
  1-9        Jump to breadcrumb    x      Delete
  b/esc      Back                  J/K    Move down/up
  g/G        First/last entry      y      Copy URL

SEARCH & VIEW                   OTHER
  /          Filter this folder    r      Refresh
  s          Search by name        q      Quit
  p          Go to path (tab)      ?      This help
  D          Most visited

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// renderDeleteConfirmation renders the delete confirmation modal
func (m Model) renderDeleteConfirmation() string {
	target := m.pendingDel
	question := fmt.Sprintf("Delete %q?", styles.Truncate(target.DisplayName, 40))
	detail := "The bookmark is removed from " + target.Path + "."
	if target.IsFolder() {
		question = fmt.Sprintf("Delete folder %q?", styles.Truncate(target.DisplayName, 40))
		detail = "Everything inside the folder is removed too."
	}

	modal := lipgloss.JoinVertical(lipgloss.Center,
		styles.ModalTitleStyle.Render(question),
		styles.DimStyle.Render(detail),
		"",
		styles.HelpKeyStyle.Render("[Y]")+" Yes      "+styles.HelpKeyStyle.Render("[N]")+" No",
	)

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(modal))
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := components.SpinnerFrames
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}
