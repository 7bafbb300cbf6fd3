package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

const (
	bootstrapTimeout = 30 * time.Second
	tickInterval     = 100 * time.Millisecond
	statusTimeout    = 5 * time.Second
)

// Command factories for async operations

// BootstrapCmd fetches the application info and every folder path
// concurrently. Missing paths only disable completion; missing app info
// is reported.
func BootstrapCmd(backend Backend, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
		defer cancel()

		var msg BootstrapMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			info, err := backend.GetAppInfo(gctx)
			if err != nil {
				return fmt.Errorf("loading app info: %w", err)
			}
			msg.AppInfo = info
			return nil
		})
		g.Go(func() error {
			paths, err := backend.GetAllPaths(gctx)
			if err != nil {
				logger.Warn("failed to load folder paths", "error", err)
				return nil
			}
			msg.Paths = paths.Paths
			return nil
		})
		msg.Err = g.Wait()
		return msg
	}
}

// LoadPathsCmd refetches the folder paths after the tree changed. Failures
// keep the previous completion list.
func LoadPathsCmd(backend Backend, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
		defer cancel()

		paths, err := backend.GetAllPaths(ctx)
		if err != nil {
			logger.Warn("failed to reload folder paths", "error", err)
			return nil
		}
		return PathsLoadedMsg{Paths: paths.Paths}
	}
}

// OpenURLCmd opens a bookmark in the browser
func OpenURLCmd(opener URLOpener, url string) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Launch(url); err != nil {
			return ErrMsg{Err: err, Context: "opening bookmark"}
		}
		return URLOpenedMsg{URL: url}
	}
}

// CopyURLCmd writes a bookmark URL to the system clipboard
func CopyURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(url); err != nil {
			return ErrMsg{Err: err, Context: "copying url"}
		}
		return URLCopiedMsg{URL: url}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd clears notification seq after a delay
func ClearStatusCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
