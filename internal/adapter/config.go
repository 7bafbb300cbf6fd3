package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appName   = "folio"
	envPrefix = "FOLIO"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	UI      UIConfig      `mapstructure:"ui"`
	Browser BrowserConfig `mapstructure:"browser"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds the bookmark service connection
type ServerConfig struct {
	URL        string        `mapstructure:"url"`         // Service URL, e.g. https://bookmarks.example.com
	Token      string        `mapstructure:"token"`       // Bearer token
	BasePath   string        `mapstructure:"base_path"`   // API prefix
	Timeout    time.Duration `mapstructure:"timeout"`     // Per-request timeout
	MaxRetries int           `mapstructure:"max_retries"` // Retries for 5xx responses
}

// UIConfig holds UI configuration
type UIConfig struct {
	StartPath        string `mapstructure:"start_path"`        // Folder opened on startup
	DashboardEntries int    `mapstructure:"dashboard_entries"` // Most visited entries shown
	RestoreLocation  bool   `mapstructure:"restore_location"`  // Reopen the last visited location
}

// BrowserConfig selects the program used to open bookmark URLs
type BrowserConfig struct {
	Command string   `mapstructure:"command"` // Empty for the system default
	Args    []string `mapstructure:"args"`
}

// CacheConfig holds local cache configuration
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BasePath:   "/api/v1",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		UI: UIConfig{
			StartPath:        "/",
			DashboardEntries: 45,
			RestoreLocation:  true,
		},
		Browser: BrowserConfig{
			Args: []string{},
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultCachePath(),
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName, appName+".log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, appName+".log")
	}
}

// DefaultConfigDir returns the default config directory for the current OS
func DefaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// DefaultConfigFile returns the default config file path
func DefaultConfigFile() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName, "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, "cache")
	}
}

// LoadConfig loads configuration from path, or from the default locations
// when path is empty. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Logging.File = ExpandHome(cfg.Logging.File)
	cfg.Cache.Dir = ExpandHome(cfg.Cache.Dir)
	return cfg, nil
}

// SaveConfig writes cfg to path, or to the default config file when path
// is empty.
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setAll(v, cfg)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	// the file holds a token
	return os.Chmod(path, 0600)
}

// setAll sets every key explicitly so the file uses snake_case names
func setAll(v *viper.Viper, cfg *Config) {
	for key, value := range configValues(cfg) {
		v.Set(key, value)
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	for key, value := range configValues(cfg) {
		v.SetDefault(key, value)
	}
}

func configValues(cfg *Config) map[string]any {
	return map[string]any{
		"server.url":           cfg.Server.URL,
		"server.token":         cfg.Server.Token,
		"server.base_path":     cfg.Server.BasePath,
		"server.timeout":       cfg.Server.Timeout.String(),
		"server.max_retries":   cfg.Server.MaxRetries,
		"ui.start_path":        cfg.UI.StartPath,
		"ui.dashboard_entries": cfg.UI.DashboardEntries,
		"ui.restore_location":  cfg.UI.RestoreLocation,
		"browser.command":      cfg.Browser.Command,
		"browser.args":         cfg.Browser.Args,
		"cache.enabled":        cfg.Cache.Enabled,
		"cache.dir":            cfg.Cache.Dir,
		"logging.file":         cfg.Logging.File,
		"logging.level":        cfg.Logging.Level,
	}
}

// IsConfigured returns true if the server URL and token are set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != "" && c.Server.Token != ""
}

// CacheDir returns the cache directory, or "" when caching is disabled
// (memory-only store).
func (c *Config) CacheDir() string {
	if !c.Cache.Enabled {
		return ""
	}
	return c.Cache.Dir
}

// ExpandHome replaces a leading "~" with the user's home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
