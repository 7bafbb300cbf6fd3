package browse

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/folderpath"
	"github.com/mmcdole/folio/internal/route"
)

// Navigator owns the displayed folder: its path, breadcrumbs, title and
// bookmark list. Every navigation or search bumps the list generation so
// results of superseded requests are dropped.
type Navigator struct {
	bookmarks Bookmarks
	cache     Cache
	progress  Progress
	notify    Notifier
	logger    *slog.Logger

	currentPath   string
	title         string
	searchMode    bool
	searchTerm    string
	editMode      bool
	pathInput     string
	pathElements  []string
	absolutePaths []string
	items         []domain.Bookmark
	generation    uint64
}

// NewNavigator creates a navigator with an empty list
func NewNavigator(bookmarks Bookmarks, progress Progress, notify Notifier, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Navigator{
		bookmarks: bookmarks,
		progress:  progress,
		notify:    notify,
		logger:    logger,
		items:     []domain.Bookmark{},
	}
}

// UseCache enables cache-first display of folder listings
func (n *Navigator) UseCache(cache Cache) {
	n.cache = cache
}

// Getters

func (n *Navigator) CurrentPath() string     { return n.currentPath }
func (n *Navigator) Title() string           { return n.title }
func (n *Navigator) SearchMode() bool        { return n.searchMode }
func (n *Navigator) SearchTerm() string      { return n.searchTerm }
func (n *Navigator) EditMode() bool          { return n.editMode }
func (n *Navigator) PathInput() string       { return n.pathInput }
func (n *Navigator) PathElements() []string  { return slices.Clone(n.pathElements) }
func (n *Navigator) AbsolutePaths() []string { return slices.Clone(n.absolutePaths) }
func (n *Navigator) Generation() uint64      { return n.generation }

// Bookmarks returns a copy of the displayed list
func (n *Navigator) Bookmarks() []domain.Bookmark {
	return slices.Clone(n.items)
}

// ReplaceBookmarks swaps the displayed list without changing its generation
func (n *Navigator) ReplaceBookmarks(items []domain.Bookmark) {
	n.items = items
}

func (n *Navigator) setPath(path string) {
	n.currentPath = path
	n.pathElements, n.absolutePaths = folderpath.Decompose(path)
}

func (n *Navigator) setItems(items []domain.Bookmark) {
	if items == nil {
		items = []domain.Bookmark{}
	}
	n.items = items
}

func (n *Navigator) nextGeneration() uint64 {
	n.generation++
	return n.generation
}

// GoToPath navigates to target. Going to the displayed path refreshes the
// listing in place; any other target becomes a route request for
// "/start"+target.
func (n *Navigator) GoToPath(target string) tea.Cmd {
	target = folderpath.FixRoot(target)
	n.logger.Debug("goto", "path", target)

	if target == n.currentPath {
		return n.Refresh(target)
	}

	location := route.StartLocation(target)
	n.searchMode = false
	if n.editMode {
		n.pathInput = target
	}
	return func() tea.Msg {
		return RouteRequestMsg{Location: location}
	}
}

// LoadPath resolves the folder at path and fetches its listing. The
// listing request is only sent after a successful folder lookup.
func (n *Navigator) LoadPath(path string) tea.Cmd {
	path = folderpath.Normalize(path)
	gen := n.nextGeneration()
	n.searchMode = false

	if n.cache != nil {
		if cached, ok := n.cache.CachedListing(path); ok {
			n.setItems(cached)
			n.setPath(path)
		}
	}

	op := n.progress.BeginProgress()
	bookmarks := n.bookmarks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		msg := PathLoadedMsg{Generation: gen, Requested: path, op: op}

		folder, err := bookmarks.GetFolder(ctx, path)
		if err != nil {
			msg.Err = err
			return msg
		}
		if !folder.Success {
			msg.Err = fmt.Errorf("%w: %s", domain.ErrFolderUnavailable, rejection(folder.Message))
			return msg
		}

		msg.Path = folder.Value.FullPath()
		msg.Title = folder.Value.DisplayName
		if folder.Value.IsRoot() {
			msg.Title = RootTitle
		}

		list, err := bookmarks.GetByPath(ctx, msg.Path)
		if err != nil {
			msg.Err = err
			return msg
		}
		if !list.Success {
			msg.Err = fmt.Errorf("%w: %s", domain.ErrRejected, rejection(list.Message))
			return msg
		}
		msg.Items = list.Items()
		return msg
	}
}

// Refresh re-fetches the listing of path without a folder lookup and
// leaves search mode.
func (n *Navigator) Refresh(path string) tea.Cmd {
	n.searchMode = false
	gen := n.nextGeneration()
	op := n.progress.BeginProgress()
	bookmarks := n.bookmarks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		msg := ListingLoadedMsg{Generation: gen, Path: path, op: op}
		list, err := bookmarks.GetByPath(ctx, path)
		if err != nil {
			msg.Err = err
			return msg
		}
		if !list.Success {
			msg.Err = fmt.Errorf("%w: %s", domain.ErrRejected, rejection(list.Message))
			return msg
		}
		msg.Items = list.Items()
		return msg
	}
}

// SetSearchTerm updates the pending search term
func (n *Navigator) SetSearchTerm(term string) {
	n.searchTerm = term
}

// Search looks bookmarks up by name. A non-empty result switches to search
// mode at "/" and clears the term; an empty one clears the list.
func (n *Navigator) Search(term string) tea.Cmd {
	n.searchTerm = term
	gen := n.nextGeneration()
	op := n.progress.BeginProgress()
	bookmarks := n.bookmarks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		res, err := bookmarks.GetByName(ctx, term)
		return SearchResultMsg{Generation: gen, Term: term, Result: res, Err: err, op: op}
	}
}

// SetEditMode toggles edit-path mode. Entering it seeds the input with the
// current path; leaving it clears the input.
func (n *Navigator) SetEditMode(active bool) {
	n.editMode = active
	if active {
		n.pathInput = n.currentPath
	} else {
		n.pathInput = ""
	}
}

// SetPathInput updates the editable path
func (n *Navigator) SetPathInput(path string) {
	n.pathInput = path
}

// ChangePath navigates to the edited path
func (n *Navigator) ChangePath() tea.Cmd {
	if !n.editMode || n.pathInput == "" {
		n.logger.Debug("cannot change path", "editMode", n.editMode, "input", n.pathInput)
		return nil
	}
	return n.GoToPath(n.pathInput)
}

// CreateBookmark adds b, defaulting its path to the displayed folder
func (n *Navigator) CreateBookmark(b domain.Bookmark) tea.Cmd {
	if b.Path == "" {
		b.Path = folderpath.Normalize(n.currentPath)
	}
	op := n.progress.BeginProgress()
	bookmarks := n.bookmarks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		res, err := bookmarks.Create(ctx, b)
		return MutationResultMsg{Kind: MutationCreate, ID: res.Value, Result: res, Err: err, op: op}
	}
}

// UpdateBookmark saves b. The displayed entry is renamed immediately and
// gets its old name back if the update fails.
func (n *Navigator) UpdateBookmark(b domain.Bookmark) tea.Cmd {
	var rollback func()
	if i := n.indexOf(b.ID); i >= 0 {
		oldName := n.items[i].DisplayName
		n.items[i].DisplayName = b.DisplayName
		gen := n.generation
		id := b.ID
		rollback = func() {
			if n.generation != gen {
				return
			}
			if j := n.indexOf(id); j >= 0 {
				n.items[j].DisplayName = oldName
			}
		}
	}

	op := n.progress.BeginProgress()
	bookmarks := n.bookmarks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		res, err := bookmarks.Update(ctx, b)
		return MutationResultMsg{Kind: MutationUpdate, ID: b.ID, Result: res, Err: err, rollback: rollback, op: op}
	}
}

// FetchBookmark loads the service's current version of the entry with id,
// so an edit starts from what the service holds rather than the listing
func (n *Navigator) FetchBookmark(id string) tea.Cmd {
	op := n.progress.BeginProgress()
	bookmarks := n.bookmarks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		b, err := bookmarks.GetByID(ctx, id)
		return BookmarkFetchedMsg{ID: id, Bookmark: b, Err: err, op: op}
	}
}

// DeleteBookmark removes the entry with id
func (n *Navigator) DeleteBookmark(id string) tea.Cmd {
	op := n.progress.BeginProgress()
	bookmarks := n.bookmarks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		res, err := bookmarks.Delete(ctx, id)
		return MutationResultMsg{Kind: MutationDelete, ID: id, Result: res, Err: err, op: op}
	}
}

func (n *Navigator) indexOf(id string) int {
	return slices.IndexFunc(n.items, func(b domain.Bookmark) bool { return b.ID == id })
}

// Update applies fetch results. It returns a follow-up command, if any.
func (n *Navigator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PathLoadedMsg:
		defer msg.op.End()
		if msg.Generation != n.generation {
			n.logger.Debug("dropping stale folder result", "path", msg.Requested)
			return nil
		}
		if msg.Path != "" {
			n.title = msg.Title
			n.setPath(msg.Path)
		}
		if msg.Err != nil {
			n.logger.Error("failed to load path", "error", msg.Err, "path", msg.Requested)
			n.notify.Error(domain.Detail(msg.Err))
			return nil
		}
		n.setItems(msg.Items)

	case ListingLoadedMsg:
		defer msg.op.End()
		if msg.Generation != n.generation {
			n.logger.Debug("dropping stale listing", "path", msg.Path)
			return nil
		}
		if msg.Err != nil {
			n.logger.Error("failed to refresh listing", "error", msg.Err, "path", msg.Path)
			n.notify.Error(domain.Detail(msg.Err))
			return nil
		}
		n.setItems(msg.Items)
		n.setPath(msg.Path)

	case SearchResultMsg:
		defer msg.op.End()
		if msg.Generation != n.generation {
			n.logger.Debug("dropping stale search result", "term", msg.Term)
			return nil
		}
		if msg.Err != nil {
			n.logger.Error("failed to search", "error", msg.Err, "term", msg.Term)
			n.notify.Error(domain.Detail(msg.Err))
			return nil
		}
		if msg.Result.Count > 0 {
			n.setItems(msg.Result.Items())
			n.searchMode = true
			n.setPath(folderpath.Root)
			n.searchTerm = ""
		} else {
			n.setItems(nil)
		}

	case BookmarkFetchedMsg:
		defer msg.op.End()
		if msg.Err != nil {
			n.logger.Error("failed to fetch bookmark", "error", msg.Err, "id", msg.ID)
			n.notify.Error(domain.Detail(msg.Err))
		}

	case MutationResultMsg:
		// ended before the follow-up refresh begins its own operation
		msg.op.End()
		if msg.Err != nil || !msg.Result.Success {
			if msg.rollback != nil {
				msg.rollback()
			}
			detail := rejection(msg.Result.Message)
			if msg.Err != nil {
				detail = domain.Detail(msg.Err)
			}
			n.logger.Error("bookmark mutation failed", "kind", msg.Kind, "id", msg.ID, "error", msg.Err, "message", msg.Result.Message)
			n.notify.Error(detail)
			return nil
		}
		n.notify.Success(msg.Result.Message)
		return n.Refresh(n.currentPath)
	}
	return nil
}
