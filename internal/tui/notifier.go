package tui

import "log/slog"

// StatusLine is the footer notification. It implements browse.Notifier:
// controllers call it from inside Update and the model renders it.
type StatusLine struct {
	text   string
	isErr  bool
	seq    int
	logger *slog.Logger
}

// NewStatusLine creates an empty status line
func NewStatusLine(logger *slog.Logger) *StatusLine {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusLine{logger: logger}
}

// Error shows a failure
func (s *StatusLine) Error(detail string) {
	s.set(detail, true)
}

// Success shows a confirmation. An empty message only clears the line.
func (s *StatusLine) Success(message string) {
	s.set(message, false)
}

func (s *StatusLine) set(text string, isErr bool) {
	s.text = text
	s.isErr = isErr
	s.seq++
	s.logger.Debug("notify", "text", text, "error", isErr)
}

// Text returns the shown notification
func (s *StatusLine) Text() string { return s.text }

// IsError reports whether the shown notification is a failure
func (s *StatusLine) IsError() bool { return s.isErr }

// Seq increases with every notification
func (s *StatusLine) Seq() int { return s.seq }

// Clear removes the notification if it is still notification seq
func (s *StatusLine) Clear(seq int) {
	if seq == s.seq {
		s.text = ""
		s.isErr = false
	}
}
