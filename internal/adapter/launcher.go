package adapter

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
)

// Launcher opens bookmark URLs in a browser
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	logger  *slog.Logger

	// start runs a command without waiting for it
	start func(name string, args ...string) error
	// lookPath reports whether a command is available
	lookPath func(name string) (string, error)
}

// candidateOpeners defines the URL openers tried in order per platform
var candidateOpeners = map[string][][]string{
	"darwin":  {{"open"}},
	"windows": {{"rundll32", "url.dll,FileProtocolHandler"}, {"cmd", "/c", "start", ""}},
	"linux":   {{"xdg-open"}, {"sensible-browser"}, {"x-www-browser"}, {"firefox"}, {"chromium"}},
}

// NewLauncher creates a launcher for the configured browser
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		logger:   logger,
		start:    startCommand,
		lookPath: exec.LookPath,
	}
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start() // Start async, don't wait
}

// Launch opens rawURL in the configured browser or the system default.
// Only absolute http(s) and file URLs are opened.
func (l *Launcher) Launch(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	switch u.Scheme {
	case "http", "https", "file":
	default:
		return fmt.Errorf("refusing to open url with scheme %q", u.Scheme)
	}

	// Tier 1: User configured a specific browser
	if l.command != "" {
		args := append(append([]string{}, l.args...), rawURL)
		l.logger.Info("launching browser", "command", l.command, "args", args)
		return l.start(l.command, args...)
	}

	// Tier 2: Platform openers in order
	candidates, ok := candidateOpeners[runtime.GOOS]
	if !ok {
		candidates = candidateOpeners["linux"]
	}
	for _, c := range candidates {
		if _, err := l.lookPath(c[0]); err != nil {
			l.logger.Debug("opener not available", "command", c[0], "error", err)
			continue
		}
		args := append(append([]string{}, c[1:]...), rawURL)
		if err := l.start(c[0], args...); err != nil {
			l.logger.Debug("opener failed", "command", c[0], "error", err)
			continue
		}
		l.logger.Info("launched with system opener", "command", c[0], "url", rawURL)
		return nil
	}
	return fmt.Errorf("no browser found to open %s", rawURL)
}
