package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/folio/internal/domain"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		// any key closes help
		m.State = StateBrowsing
		return m, nil

	case StateConfirmDelete:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			target := m.pendingDel
			m.pendingDel = domain.Bookmark{}
			return m, m.Nav.DeleteBookmark(target.ID)
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
			m.pendingDel = domain.Bookmark{}
		}
		return m, nil

	case StatePrompt:
		return m.handlePromptKey(msg)
	}

	// Filter typing owns the keyboard
	if m.List.IsFilterTyping() {
		return m, m.List.Update(msg)
	}
	// Escape clears an applied filter before it means back
	if m.List.IsFiltering() && key.Matches(msg, Keys.Escape, Keys.Filter) {
		return m, m.List.Update(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Open):
		return m.handleOpen()

	case key.Matches(msg, Keys.Parent):
		return m.goParent()

	case key.Matches(msg, Keys.Back):
		return m.handleBack()

	case key.Matches(msg, Keys.Crumb):
		return m.goToCrumb(int(msg.String()[0] - '1'))

	case key.Matches(msg, Keys.Refresh):
		return m.refresh()

	case key.Matches(msg, Keys.MoveDown):
		return m.handleMove(1)

	case key.Matches(msg, Keys.MoveUp):
		return m.handleMove(-1)

	case key.Matches(msg, Keys.Filter):
		m.List.ToggleFilter()
		m.updateLayout()
		return m, nil

	case key.Matches(msg, Keys.Dashboard):
		return m.toggleDashboard()

	case key.Matches(msg, Keys.Yank):
		if b, ok := m.List.Selected(); ok && b.URL != "" {
			return m, CopyURLCmd(b.URL)
		}
		return m, nil
	}

	if m.Screen == ScreenBrowse {
		if handled, next, cmd := m.handleEditKey(msg); handled {
			return next, cmd
		}
	}

	// Remaining keys move the cursor
	return m, m.List.Update(msg)
}

// handleEditKey handles the keys that change the displayed folder
func (m Model) handleEditKey(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Search):
		m.openPrompt(promptSearch, "Search bookmarks by name", "name", "")
		return true, m, nil

	case key.Matches(msg, Keys.EditPath):
		m.Nav.SetEditMode(true)
		m.Completer.Reset()
		m.openPrompt(promptEditPath, "Go to folder", "/path/to/folder", m.Nav.PathInput())
		m.Input.SetHint("tab completes")
		return true, m, nil

	case key.Matches(msg, Keys.Add):
		m.pendingAdd = domain.Bookmark{}
		m.openPrompt(promptAddURL, "Add bookmark to "+m.currentFolder(), "https://", "")
		return true, m, nil

	case key.Matches(msg, Keys.NewFolder):
		m.openPrompt(promptNewFolder, "New folder in "+m.currentFolder(), "name", "")
		return true, m, nil

	case key.Matches(msg, Keys.Rename):
		b, ok := m.List.Selected()
		if !ok {
			return true, m, nil
		}
		// the prompt opens once the service's version arrives
		return true, m, m.Nav.FetchBookmark(b.ID)

	case key.Matches(msg, Keys.Delete):
		b, ok := m.List.Selected()
		if !ok {
			return true, m, nil
		}
		m.pendingDel = b
		m.State = StateConfirmDelete
		return true, m, nil
	}
	return false, m, nil
}

func (m *Model) openPrompt(kind promptKind, title, placeholder, value string) {
	m.prompt = kind
	m.State = StatePrompt
	m.Input.ShowWithValue(title, placeholder, value)
}

func (m *Model) closePrompt() {
	if m.prompt == promptEditPath {
		m.Nav.SetEditMode(false)
	}
	m.prompt = promptNone
	m.State = StateBrowsing
	m.Input.Hide()
}

// handlePromptKey routes keys to the input modal
func (m Model) handlePromptKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.prompt == promptEditPath && key.Matches(msg, Keys.Complete) {
		if suggestion, ok := m.Completer.Complete(m.Input.Value()); ok {
			m.Input.SetValue(suggestion)
			m.Nav.SetPathInput(suggestion)
			m.Input.SetHint(fmt.Sprintf("%d matching folders", len(m.Completer.Candidates())))
		} else {
			m.Input.SetHint("no matching folder")
		}
		return m, nil
	}

	var cmd tea.Cmd
	var submitted bool
	m.Input, cmd, submitted = m.Input.Update(msg)

	if !m.Input.IsVisible() {
		m.closePrompt()
		return m, cmd
	}
	if m.prompt == promptEditPath {
		m.Nav.SetPathInput(m.Input.Value())
	}
	if submitted {
		return m.submitPrompt()
	}
	return m, cmd
}

// submitPrompt acts on the entered value
func (m Model) submitPrompt() (Model, tea.Cmd) {
	value := strings.TrimSpace(m.Input.Value())

	switch m.prompt {
	case promptSearch:
		m.closePrompt()
		if value == "" {
			return m, nil
		}
		m.lastSearch = value
		m.Nav.SetSearchTerm(value)
		return m, m.Nav.Search(value)

	case promptEditPath:
		cmd := m.Nav.ChangePath()
		m.closePrompt()
		return m, cmd

	case promptAddURL:
		if value == "" {
			m.closePrompt()
			return m, nil
		}
		m.pendingAdd = domain.Bookmark{URL: value, Type: domain.ItemTypeNode}
		m.openPrompt(promptAddName, "Name for "+value, "name", suggestName(value))
		return m, nil

	case promptAddName:
		b := m.pendingAdd
		b.DisplayName = value
		if b.DisplayName == "" {
			b.DisplayName = b.URL
		}
		m.pendingAdd = domain.Bookmark{}
		m.closePrompt()
		return m, m.Nav.CreateBookmark(b)

	case promptNewFolder:
		if value == "" {
			m.closePrompt()
			return m, nil
		}
		if !validFolderName(value) {
			m.Input.SetHint("folder names cannot contain /")
			return m, nil
		}
		m.closePrompt()
		return m, m.Nav.CreateBookmark(domain.Bookmark{DisplayName: value, Type: domain.ItemTypeFolder})

	case promptRename:
		b := m.pendingEdit
		if value == "" || value == b.DisplayName {
			m.closePrompt()
			return m, nil
		}
		if b.IsFolder() && !validFolderName(value) {
			m.Input.SetHint("folder names cannot contain /")
			return m, nil
		}
		b.DisplayName = value
		m.pendingEdit = domain.Bookmark{}
		m.closePrompt()
		return m, m.Nav.UpdateBookmark(b)
	}

	m.closePrompt()
	return m, nil
}

func validFolderName(name string) bool {
	return !strings.Contains(name, "/")
}

// suggestName proposes a bookmark name from its URL: the host without "www."
func suggestName(rawURL string) string {
	name := rawURL
	if i := strings.Index(name, "://"); i >= 0 {
		name = name[i+3:]
	}
	if i := strings.IndexAny(name, "/?#"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimPrefix(name, "www.")
}
