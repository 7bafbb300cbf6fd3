package tui

import (
	"github.com/mmcdole/folio/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// BootstrapMsg carries the session data fetched at startup
type BootstrapMsg struct {
	AppInfo domain.AppInfo
	Paths   []string
	Err     error
}

// PathsLoadedMsg carries a fresh list of folder paths
type PathsLoadedMsg struct {
	Paths []string
}

// ProgressMsg mirrors the global progress flag
type ProgressMsg struct {
	Active bool
}

// AppInfoMsg mirrors the published application info
type AppInfoMsg struct {
	Info domain.AppInfo
}

// AdminMsg mirrors the published admin flag
type AdminMsg struct {
	Admin bool
}

// URLOpenedMsg signals that the browser was launched
type URLOpenedMsg struct {
	URL string
}

// URLCopiedMsg signals that a URL was written to the clipboard
type URLCopiedMsg struct {
	URL string
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status line if it still shows notification Seq
type ClearStatusMsg struct {
	Seq int
}
