package browse

import (
	"context"
	"log/slog"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/folio/internal/domain"
)

// Dashboard shows the most visited bookmarks
type Dashboard struct {
	bookmarks Bookmarks
	progress  Progress
	notify    Notifier
	logger    *slog.Logger

	entries    int
	items      []domain.Bookmark
	generation uint64
}

// NewDashboard creates a dashboard requesting entries bookmarks;
// a non-positive count uses DashboardEntries.
func NewDashboard(bookmarks Bookmarks, progress Progress, notify Notifier, entries int, logger *slog.Logger) *Dashboard {
	if entries <= 0 {
		entries = DashboardEntries
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		bookmarks: bookmarks,
		progress:  progress,
		notify:    notify,
		logger:    logger,
		entries:   entries,
		items:     []domain.Bookmark{},
	}
}

func (d *Dashboard) Title() string { return DashboardTitle }

// Bookmarks returns a copy of the displayed list
func (d *Dashboard) Bookmarks() []domain.Bookmark {
	return slices.Clone(d.items)
}

// Load fetches the most visited bookmarks
func (d *Dashboard) Load() tea.Cmd {
	d.generation++
	gen := d.generation
	num := d.entries
	op := d.progress.BeginProgress()
	bookmarks := d.bookmarks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		res, err := bookmarks.GetMostVisited(ctx, num)
		return DashboardLoadedMsg{Generation: gen, Result: res, Err: err, op: op}
	}
}

// Update applies a load result
func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	res, ok := msg.(DashboardLoadedMsg)
	if !ok {
		return nil
	}
	defer res.op.End()

	if res.Generation != d.generation {
		return nil
	}
	if res.Err != nil {
		d.logger.Error("failed to load dashboard", "error", res.Err)
		d.notify.Error(domain.Detail(res.Err))
		return nil
	}
	d.items = res.Result.Items()
	return nil
}
