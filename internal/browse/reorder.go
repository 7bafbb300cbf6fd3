package browse

import (
	"context"
	"log/slog"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/folio/internal/domain"
)

// OrderedList is the displayed list a reorder mutates
type OrderedList interface {
	Bookmarks() []domain.Bookmark
	ReplaceBookmarks(items []domain.Bookmark)
	Generation() uint64
	SearchMode() bool
}

// moveCommand is one applied move together with its inverse: the list as
// it was before the move.
type moveCommand struct {
	from, to   int
	generation uint64
	before     []domain.Bookmark
	after      []domain.Bookmark
}

// newMoveCommand computes the move of items[from] to index to. The moved
// entry's sortOrder becomes the target's ±1, which places it next to the
// target; the persisted order is the dense enumeration of the result.
func newMoveCommand(items []domain.Bookmark, from, to int, generation uint64) *moveCommand {
	before := slices.Clone(items)
	after := slices.Clone(items)

	sortOrder := after[to].SortOrder
	moved := after[from]
	if to > from {
		moved.SortOrder = sortOrder + 1
	} else {
		moved.SortOrder = sortOrder - 1
	}

	after = slices.Delete(after, from, from+1)
	after = slices.Insert(after, to, moved)

	return &moveCommand{from: from, to: to, generation: generation, before: before, after: after}
}

// update lists the ids in their new order with dense 0-based positions
func (c *moveCommand) update() domain.SortOrderUpdate {
	u := domain.SortOrderUpdate{
		IDs:       make([]string, 0, len(c.after)),
		SortOrder: make([]int, 0, len(c.after)),
	}
	for i, b := range c.after {
		u.IDs = append(u.IDs, b.ID)
		u.SortOrder = append(u.SortOrder, i)
	}
	return u
}

// Reorderer moves entries of an OrderedList optimistically: the list
// changes at once, and is restored if the service does not confirm.
//
// Every update carries the complete order, so the service's order is the
// last accepted update. confirmed is that order as seen by the list; a
// failed move restores it and discards every move still in flight.
type Reorderer struct {
	list      OrderedList
	bookmarks Bookmarks
	progress  Progress
	notify    Notifier
	logger    *slog.Logger

	confirmed  []domain.Bookmark
	generation uint64
	pending    []*moveCommand
}

// NewReorderer creates a reorderer for list
func NewReorderer(list OrderedList, bookmarks Bookmarks, progress Progress, notify Notifier, logger *slog.Logger) *Reorderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reorderer{list: list, bookmarks: bookmarks, progress: progress, notify: notify, logger: logger}
}

// Move moves the entry at previousIndex to currentIndex and sends the new
// order. Equal or out-of-range indices are ignored. Search results span
// several folders and cannot be reordered.
func (r *Reorderer) Move(previousIndex, currentIndex int) tea.Cmd {
	items := r.list.Bookmarks()
	if previousIndex == currentIndex ||
		previousIndex < 0 || previousIndex >= len(items) ||
		currentIndex < 0 || currentIndex >= len(items) {
		return nil
	}
	if r.list.SearchMode() {
		r.notify.Error(SearchReorderMessage)
		return nil
	}

	r.logger.Debug("move bookmark", "from", previousIndex, "to", currentIndex)

	gen := r.list.Generation()
	if gen != r.generation || len(r.pending) == 0 {
		// nothing in flight for this list: what it shows is confirmed
		r.confirmed = slices.Clone(items)
		r.generation = gen
		r.pending = nil
	}

	move := newMoveCommand(items, previousIndex, currentIndex, gen)
	r.list.ReplaceBookmarks(slices.Clone(move.after))
	r.pending = append(r.pending, move)

	update := move.update()
	op := r.progress.BeginProgress()
	bookmarks := r.bookmarks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		res, err := bookmarks.UpdateSortOrder(ctx, update)
		return ReorderResultMsg{Result: res, Err: err, move: move, op: op}
	}
}

// Update handles the service's answer to a move. On failure the list is
// restored to the last confirmed order, unless it has since been replaced
// by navigation.
func (r *Reorderer) Update(msg tea.Msg) tea.Cmd {
	res, ok := msg.(ReorderResultMsg)
	if !ok {
		return nil
	}
	defer res.op.End()

	current := res.move != nil && res.move.generation == r.generation &&
		r.list.Generation() == r.generation

	if res.Err == nil && res.Result.Success {
		if current {
			r.confirm(res.move)
		}
		return nil
	}

	detail := ReorderFailedMessage
	if res.Err != nil {
		detail = domain.Detail(res.Err)
	}
	r.logger.Error("failed to update sort order", "error", res.Err, "message", res.Result.Message)

	switch {
	case !current:
		r.logger.Debug("list changed since move, skipping rollback")
	case slices.Contains(r.pending, res.move):
		r.list.ReplaceBookmarks(slices.Clone(r.confirmed))
		r.pending = nil
	default:
		r.logger.Debug("move already rolled back")
	}
	r.notify.Error(detail)
	return nil
}

// confirm records move's order as accepted. Earlier moves in flight are
// superseded by it. A move discarded by a rollback still reached the
// service, so with nothing else in flight the list shows its order.
func (r *Reorderer) confirm(move *moveCommand) {
	r.confirmed = slices.Clone(move.after)
	i := slices.Index(r.pending, move)
	if i < 0 {
		if len(r.pending) == 0 {
			r.list.ReplaceBookmarks(slices.Clone(move.after))
		}
		return
	}
	r.pending = r.pending[i+1:]
}
