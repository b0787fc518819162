package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/photosift/internal/common"
	"github.com/dmitrijs2005/photosift/internal/deferred"
)

// Config holds runtime settings for the photosift CLI.
type Config struct {
	LastFolder    string
	Resume        bool
	ConfirmDelete bool

	Countdown    time.Duration
	TickInterval time.Duration

	PreviewExtensions []string
	ArchiveExtensions []string

	JournalPath  string
	LogLevel     string
	SettingsPath string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.LastFolder = ""
	c.Resume = true
	c.ConfirmDelete = true
	c.Countdown = deferred.DefaultCountdown
	c.TickInterval = deferred.DefaultTickInterval
	c.PreviewExtensions = []string{".jpg", ".jpeg"}
	c.ArchiveExtensions = []string{".cr2", ".cr3"}
	c.LogLevel = "info"

	home, err := os.UserHomeDir()
	if err != nil {
		c.JournalPath = filepath.Join(".photosift", "journal.db")
		c.SettingsPath = ""
		return
	}
	c.JournalPath = filepath.Join(home, ".photosift", "journal.db")
	c.SettingsPath = filepath.Join(home, common.SettingsFileName)
}

// ResumeSession reports whether saved decisions are restored on open.
func (c *Config) ResumeSession() bool { return c.Resume }

// ConfirmDeletions reports whether deletions wait for the undo countdown.
func (c *Config) ConfirmDeletions() bool { return c.ConfirmDelete }

// LoadConfig constructs a Config, applies defaults, then overlays the
// settings file, the environment and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	cfg.sanitize()

	return cfg, nil
}

// sanitize replaces durations the review loop cannot run with the defaults.
func (c *Config) sanitize() {
	if c.TickInterval <= 0 {
		c.TickInterval = deferred.DefaultTickInterval
	}
	if c.Countdown <= 0 {
		c.Countdown = deferred.DefaultCountdown
	}
}
