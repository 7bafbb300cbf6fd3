package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/folio/internal/browse"
	"github.com/mmcdole/folio/internal/folderpath"
	"github.com/mmcdole/folio/internal/route"
)

// navigate resolves location and shows it. Unless push is false the
// location being left is recorded for back navigation.
func (m *Model) navigate(location string, push bool) tea.Cmd {
	r := route.Resolve(location)
	if r.Kind == route.KindRedirect {
		m.logger.Debug("redirect", "from", location, "to", r.Location)
		r = route.Resolve(r.Location)
	}

	if push && m.location != "" && m.location != r.Location {
		m.History.Push(m.location, m.List.Cursor())
	}
	m.location = r.Location
	m.backend.SaveLocation(r.Location)

	if r.Kind == route.KindDashboard {
		m.Screen = ScreenDashboard
		m.List.Reset(m.Dashboard.Bookmarks())
		return m.Dashboard.Load()
	}

	m.Screen = ScreenBrowse
	return m.Nav.LoadPath(r.Path)
}

// syncList shows the active controller's entries. A new list generation
// resets the cursor and filter; an in-place change keeps them.
func (m *Model) syncList() {
	m.List.SetTitle(m.title())
	m.List.SetLoading(m.Loading)

	if m.Screen == ScreenDashboard {
		m.List.SetShowPath(true)
		m.List.SetEmptyText("Nothing visited yet")
		m.List.SetItems(m.Dashboard.Bookmarks())
		return
	}

	m.List.SetShowPath(m.Nav.SearchMode())
	m.List.SetEmptyText("No bookmarks")
	items := m.Nav.Bookmarks()
	if gen := m.Nav.Generation(); gen != m.shownGen {
		m.shownGen = gen
		m.List.Reset(items)
		return
	}
	m.List.SetItems(items)
}

// title returns the heading of the displayed list
func (m Model) title() string {
	switch {
	case m.Screen == ScreenDashboard:
		return m.Dashboard.Title()
	case m.Nav.SearchMode():
		return "Search: " + m.lastSearch
	case m.Nav.Title() != "":
		return m.Nav.Title()
	default:
		return browse.RootTitle
	}
}

// currentFolder returns the displayed folder, the root before any load
func (m Model) currentFolder() string {
	if p := m.Nav.CurrentPath(); p != "" {
		return p
	}
	return folderpath.Root
}

// handleOpen opens the selected entry: folders are browsed, links are
// launched in the browser
func (m Model) handleOpen() (Model, tea.Cmd) {
	b, ok := m.List.Selected()
	if !ok {
		return m, nil
	}

	if b.IsFolder() {
		if m.Screen == ScreenDashboard {
			return m, m.navigate(route.StartLocation(b.FullPath()), true)
		}
		return m, m.Nav.GoToPath(b.FullPath())
	}

	if b.URL == "" {
		return m, nil
	}
	if m.opener == nil {
		m.Status.Error("no browser configured")
		return m, nil
	}
	return m, OpenURLCmd(m.opener, b.URL)
}

// handleBack returns to the previous location. Without history, search
// results fall back to the listing they replaced.
func (m Model) handleBack() (Model, tea.Cmd) {
	if location, cursor, ok := m.History.Pop(); ok {
		m.pendingCursor = cursor
		return m, m.navigate(location, false)
	}
	if m.Screen == ScreenBrowse && m.Nav.SearchMode() {
		return m, m.Nav.GoToPath(m.currentFolder())
	}
	return m, nil
}

// goParent browses the folder containing the displayed one
func (m Model) goParent() (Model, tea.Cmd) {
	if m.Screen != ScreenBrowse {
		return m, nil
	}
	current := m.currentFolder()
	if folderpath.IsRoot(current) && !m.Nav.SearchMode() {
		return m, nil
	}
	return m, m.Nav.GoToPath(folderpath.Parent(current))
}

// goToCrumb browses the breadcrumb at index (0 is the root)
func (m Model) goToCrumb(index int) (Model, tea.Cmd) {
	if m.Screen != ScreenBrowse {
		return m, nil
	}
	crumbs := m.Nav.AbsolutePaths()
	if index < 0 || index >= len(crumbs) {
		return m, nil
	}
	return m, m.Nav.GoToPath(crumbs[index])
}

// toggleDashboard switches between the most visited view and the folder
func (m Model) toggleDashboard() (Model, tea.Cmd) {
	if m.Screen == ScreenDashboard {
		return m, m.navigate(route.StartLocation(m.currentFolder()), true)
	}
	return m, m.navigate(route.DashboardLocation(), true)
}

// refresh reloads the displayed list
func (m Model) refresh() (Model, tea.Cmd) {
	if m.Screen == ScreenDashboard {
		return m, m.Dashboard.Load()
	}
	return m, m.Nav.GoToPath(m.currentFolder())
}

// handleMove moves the selected entry by delta positions and persists the
// new order. The cursor follows the entry.
func (m Model) handleMove(delta int) (Model, tea.Cmd) {
	if m.Screen != ScreenBrowse {
		return m, nil
	}
	if m.List.IsFiltering() {
		m.Status.Error("clear the filter to reorder")
		return m, nil
	}

	from := m.List.SelectedIndex()
	if from < 0 {
		return m, nil
	}
	to := from + delta
	cmd := m.Reorder.Move(from, to)
	if cmd == nil {
		return m, nil
	}

	m.List.SetItems(m.Nav.Bookmarks())
	m.List.SetCursor(to)
	return m, cmd
}
