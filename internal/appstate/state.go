// Package appstate holds the process-wide application state: the progress
// flag, the application info and the admin flag. Each value is a Replay, so
// observers that attach late still see the current value.
package appstate

import (
	"sync"

	"github.com/mmcdole/folio/internal/domain"
)

// State is the application state bus
type State struct {
	progress *Replay[bool]
	appInfo  *Replay[domain.AppInfo]
	admin    *Replay[bool]

	mu       sync.Mutex
	inFlight int
}

// New creates an empty state bus
func New() *State {
	return &State{
		progress: NewReplay[bool](),
		appInfo:  NewReplay[domain.AppInfo](),
		admin:    NewReplay[bool](),
	}
}

// SetProgress publishes the progress flag directly, bypassing the
// operation count kept by BeginProgress
func (s *State) SetProgress(active bool) {
	s.progress.Publish(active)
}

// Progress returns the progress channel
func (s *State) Progress() *Replay[bool] {
	return s.progress
}

// SetAppInfo publishes the application info
func (s *State) SetAppInfo(info domain.AppInfo) {
	s.appInfo.Publish(info)
}

// AppInfo returns the application info channel
func (s *State) AppInfo() *Replay[domain.AppInfo] {
	return s.appInfo
}

// SetAdmin publishes the admin flag
func (s *State) SetAdmin(admin bool) {
	s.admin.Publish(admin)
}

// Admin returns the admin flag channel
func (s *State) Admin() *Replay[bool] {
	return s.admin
}

// BeginProgress counts a new operation in flight and returns the operation
// that must end it. Progress flips to true only when the first of a group of
// overlapping operations begins, and back to false when the last one ends.
func (s *State) BeginProgress() *Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight++
	if s.inFlight == 1 {
		s.SetProgress(true)
	}
	return &Operation{state: s}
}

func (s *State) endProgress() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
	if s.inFlight == 0 {
		s.SetProgress(false)
	}
}

// Operation is a running unit of work holding one slot of the progress
// count. Only the first End has an effect.
type Operation struct {
	state *State
	once  sync.Once
}

// End finishes the operation
func (o *Operation) End() {
	if o == nil {
		return
	}
	o.once.Do(o.state.endProgress)
}
