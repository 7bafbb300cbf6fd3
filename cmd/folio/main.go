package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/folio/internal/adapter"
	"github.com/mmcdole/folio/internal/adapter/source/api"
	"github.com/mmcdole/folio/internal/appstate"
	"github.com/mmcdole/folio/internal/bookmarks"
	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/route"
	"github.com/mmcdole/folio/internal/store"
	"github.com/mmcdole/folio/internal/tui"
	"github.com/mmcdole/folio/internal/tui/components"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

type flags struct {
	configPath string
	startPath  string
	dashboard  bool
	clearCache bool
}

func main() {
	var showVersion bool
	var f flags
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&f.configPath, "config", "", "config file (default "+adapter.DefaultConfigFile()+")")
	flag.StringVar(&f.startPath, "path", "", "folder to open, e.g. /Work/Projects")
	flag.BoolVar(&f.dashboard, "dashboard", false, "start on the most visited bookmarks")
	flag.BoolVar(&f.clearCache, "clear-cache", false, "drop cached listings, paths and the last location before starting")
	flag.Parse()

	if showVersion {
		fmt.Printf("folio %s\n", Version)
		return
	}

	if err := run(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := adapter.LoadConfig(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting folio", "version", Version)

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, f.configPath, logger)
	}

	bookmarkStore, err := store.NewBookmarkStore(cfg.CacheDir(), cfg.Server.URL)
	if err != nil {
		logger.Warn("cache unavailable, continuing without persistence", "error", err)
		bookmarkStore, _ = store.NewBookmarkStore("", cfg.Server.URL)
	}
	defer bookmarkStore.Close()

	client := newClient(cfg, cfg.Server.Token, logger)
	svc := bookmarks.NewService(client, bookmarkStore, logger)
	if f.clearCache {
		svc.InvalidateAll()
	}
	queries := bookmarks.NewQueries(bookmarkStore)
	launcher := adapter.NewLauncher(cfg.Browser.Command, cfg.Browser.Args, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := tui.NewModel(ctx, tui.Options{
		Backend:          svc,
		Cache:            queries,
		State:            appstate.New(),
		Opener:           launcher,
		Logger:           logger,
		StartLocation:    startLocation(f, cfg, queries),
		DashboardEntries: cfg.UI.DashboardEntries,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// startLocation picks the first location: flags win over the restored
// location, which wins over the configured start folder
func startLocation(f flags, cfg *adapter.Config, queries *bookmarks.Queries) string {
	switch {
	case f.dashboard:
		return route.DashboardLocation()
	case f.startPath != "":
		return route.StartLocation(f.startPath)
	}
	if cfg.UI.RestoreLocation {
		if location, ok := queries.LastLocation(); ok && location != "" {
			return location
		}
	}
	return route.StartLocation(cfg.UI.StartPath)
}

func newClient(cfg *adapter.Config, token string, logger *slog.Logger) *api.Client {
	return api.NewClient(cfg.Server.URL, token, api.Options{
		BasePath:   cfg.Server.BasePath,
		Timeout:    cfg.Server.Timeout,
		MaxRetries: cfg.Server.MaxRetries,
	}, logger)
}

// runSetupFlow asks for the service URL and token, checks them against the
// service and saves the config
func runSetupFlow(cfg *adapter.Config, configPath string, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to Folio!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Enter your bookmark service URL (e.g., https://bookmarks.example.com): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL := strings.TrimSpace(input)
		if serverURL == "" {
			fmt.Println("URL cannot be empty. Please try again.")
			continue
		}

		fmt.Print("Enter your API token: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token := strings.TrimSpace(string(raw))
		if token == "" {
			fmt.Println("Token cannot be empty. Please try again.")
			continue
		}

		cfg.Server.URL = serverURL
		info, err := checkServerWithSpinner(newClient(cfg, token, logger))
		if err != nil {
			fmt.Printf("\n✗ Could not connect: %s\n", domain.Detail(err))
			fmt.Println("Please check the URL and token and try again.")
			fmt.Println()
			continue
		}

		cfg.Server.Token = token
		name := info.DisplayName
		if name == "" {
			name = info.Email
		}
		if name != "" {
			fmt.Printf("✓ Signed in as %s\n", name)
		}
		break
	}

	if err := adapter.SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run folio again to start the application.")

	return nil
}

// checkServerWithSpinner fetches the session info with a visual spinner
func checkServerWithSpinner(client *api.Client) (domain.AppInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	type result struct {
		info domain.AppInfo
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		info, err := client.GetAppInfo(ctx)
		resultCh <- result{info, err}
	}()

	frame := 0
	fmt.Printf("\r%s Connecting...", components.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case res := <-resultCh:
			fmt.Print(clearSpinnerLine)
			return res.info, res.err

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Connecting...", components.SpinnerFrames[frame%len(components.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return domain.AppInfo{}, fmt.Errorf("connection timed out")
		}
	}
}
