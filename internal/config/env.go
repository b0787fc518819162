package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "PHOTOSIFT_"

// envSettings mirrors the settings file for PHOTOSIFT_* variables. Unset
// variables leave pointer fields nil.
type envSettings struct {
	LastFolder        *string        `env:"FOLDER"`
	ResumeSession     *bool          `env:"RESUME"`
	ConfirmDeletions  *bool          `env:"CONFIRM_DELETIONS"`
	Countdown         *time.Duration `env:"COUNTDOWN"`
	TickInterval      *time.Duration `env:"TICK_INTERVAL"`
	PreviewExtensions []string       `env:"PREVIEW_EXTENSIONS" envSeparator:","`
	ArchiveExtensions []string       `env:"ARCHIVE_EXTENSIONS" envSeparator:","`
	JournalPath       *string        `env:"JOURNAL"`
	LogLevel          *string        `env:"LOG_LEVEL"`
}

func parseEnv(cfg *Config) error {
	var es envSettings
	if err := env.ParseWithOptions(&es, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if es.LastFolder != nil {
		cfg.LastFolder = *es.LastFolder
	}
	if es.ResumeSession != nil {
		cfg.Resume = *es.ResumeSession
	}
	if es.ConfirmDeletions != nil {
		cfg.ConfirmDelete = *es.ConfirmDeletions
	}
	if es.Countdown != nil {
		cfg.Countdown = *es.Countdown
	}
	if es.TickInterval != nil {
		cfg.TickInterval = *es.TickInterval
	}
	if len(es.PreviewExtensions) > 0 {
		cfg.PreviewExtensions = es.PreviewExtensions
	}
	if len(es.ArchiveExtensions) > 0 {
		cfg.ArchiveExtensions = es.ArchiveExtensions
	}
	if es.JournalPath != nil {
		cfg.JournalPath = *es.JournalPath
	}
	if es.LogLevel != nil {
		cfg.LogLevel = *es.LogLevel
	}

	return nil
}
