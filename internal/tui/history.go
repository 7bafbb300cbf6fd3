package tui

// History is the stack of visited locations for back navigation. Each
// entry remembers the cursor position so going back lands on the entry
// that was selected when the location was left.
//
//	/start            cursor 3
//	/start/Work       cursor 0
//	/dashboard        <- current, not on the stack
type History struct {
	locations   []string
	cursorStack []int
}

// NewHistory creates an empty history
func NewHistory() *History {
	return &History{}
}

// Len returns the number of locations to go back to
func (h *History) Len() int {
	return len(h.locations)
}

// Push records a location that is being left, with its cursor
func (h *History) Push(location string, cursor int) {
	if location == "" {
		return
	}
	h.locations = append(h.locations, location)
	h.cursorStack = append(h.cursorStack, cursor)
}

// Pop removes and returns the most recent location and its saved cursor
func (h *History) Pop() (string, int, bool) {
	if len(h.locations) == 0 {
		return "", 0, false
	}
	last := len(h.locations) - 1
	location, cursor := h.locations[last], h.cursorStack[last]
	h.locations = h.locations[:last]
	h.cursorStack = h.cursorStack[:last]
	return location, cursor, true
}

// Top returns the most recent location without removing it
func (h *History) Top() (string, bool) {
	if len(h.locations) == 0 {
		return "", false
	}
	return h.locations[len(h.locations)-1], true
}

// CanGoBack returns true if there is a location to go back to
func (h *History) CanGoBack() bool {
	return len(h.locations) > 0
}

// Clear forgets every location
func (h *History) Clear() {
	h.locations = nil
	h.cursorStack = nil
}
