package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/folio/internal/appstate"
	"github.com/mmcdole/folio/internal/domain"
)

// StateObserver adapts the application state channels to Bubble Tea.
// Each channel is read one value at a time; the model re-arms the
// listener after handling the message it produced.
type StateObserver struct {
	progress <-chan bool
	appInfo  <-chan domain.AppInfo
	admin    <-chan bool
}

// NewStateObserver subscribes to state until ctx is cancelled
func NewStateObserver(ctx context.Context, state *appstate.State) *StateObserver {
	return &StateObserver{
		progress: state.Progress().Subscribe(ctx),
		appInfo:  state.AppInfo().Subscribe(ctx),
		admin:    state.Admin().Subscribe(ctx),
	}
}

// Listen arms every listener
func (o *StateObserver) Listen() tea.Cmd {
	return tea.Batch(o.ListenProgress(), o.ListenAppInfo(), o.ListenAdmin())
}

func (o *StateObserver) ListenProgress() tea.Cmd {
	return listen(o.progress, func(v bool) tea.Msg { return ProgressMsg{Active: v} })
}

func (o *StateObserver) ListenAppInfo() tea.Cmd {
	return listen(o.appInfo, func(v domain.AppInfo) tea.Msg { return AppInfoMsg{Info: v} })
}

func (o *StateObserver) ListenAdmin() tea.Cmd {
	return listen(o.admin, func(v bool) tea.Msg { return AdminMsg{Admin: v} })
}

// listen waits for the next value of ch. A closed channel ends the listener.
func listen[T any](ch <-chan T, wrap func(T) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return wrap(v)
	}
}
