package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/photosift/internal/filex"
	"github.com/dmitrijs2005/photosift/internal/flagx"
	"github.com/dmitrijs2005/photosift/internal/timex"
)

// JSONSettings is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell an absent key from a zero value, so a partial file only
// overrides what it names.
type JSONSettings struct {
	LastFolder        *string         `json:"last_folder"`
	ResumeSession     *bool           `json:"resume_session"`
	ConfirmDeletions  *bool           `json:"confirm_deletions"`
	Countdown         *timex.Duration `json:"countdown"`
	TickInterval      *timex.Duration `json:"tick_interval"`
	PreviewExtensions []string        `json:"preview_extensions"`
	ArchiveExtensions []string        `json:"archive_extensions"`
	JournalPath       *string         `json:"journal_path"`
	LogLevel          *string         `json:"log_level"`
}

// parseJSON overlays cfg with values from the settings file.
//
// A path given with -c/-config must exist. The default path is optional.
func parseJSON(cfg *Config, args []string) error {
	explicit := flagx.ConfigPath(args)
	if explicit != "" {
		cfg.SettingsPath = explicit
	}
	if cfg.SettingsPath == "" {
		return nil
	}

	data, err := os.ReadFile(cfg.SettingsPath)
	if err != nil {
		if explicit == "" && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read settings %s: %w", cfg.SettingsPath, err)
	}

	var js JSONSettings
	if err := json.Unmarshal(data, &js); err != nil {
		return fmt.Errorf("decode settings %s: %w", cfg.SettingsPath, err)
	}

	if js.LastFolder != nil {
		cfg.LastFolder = *js.LastFolder
	}
	if js.ResumeSession != nil {
		cfg.Resume = *js.ResumeSession
	}
	if js.ConfirmDeletions != nil {
		cfg.ConfirmDelete = *js.ConfirmDeletions
	}
	if js.Countdown != nil {
		cfg.Countdown = js.Countdown.Duration
	}
	if js.TickInterval != nil {
		cfg.TickInterval = js.TickInterval.Duration
	}
	if len(js.PreviewExtensions) > 0 {
		cfg.PreviewExtensions = js.PreviewExtensions
	}
	if len(js.ArchiveExtensions) > 0 {
		cfg.ArchiveExtensions = js.ArchiveExtensions
	}
	if js.JournalPath != nil {
		cfg.JournalPath = *js.JournalPath
	}
	if js.LogLevel != nil {
		cfg.LogLevel = *js.LogLevel
	}

	return nil
}

// SaveSettings writes last_folder, resume_session and confirm_deletions to
// the settings file. Other keys already in the file are preserved.
func (c *Config) SaveSettings() error {
	if c.SettingsPath == "" {
		return errors.New("settings path is not set")
	}

	doc := map[string]json.RawMessage{}
	data, err := os.ReadFile(c.SettingsPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("decode settings %s: %w", c.SettingsPath, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("read settings %s: %w", c.SettingsPath, err)
	}

	for key, value := range map[string]any{
		"last_folder":       c.LastFolder,
		"resume_session":    c.Resume,
		"confirm_deletions": c.ConfirmDelete,
	} {
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		doc[key] = raw
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if err := filex.EnsureParentDir(c.SettingsPath, 0o755); err != nil {
		return err
	}
	if err := filex.WriteAtomic(c.SettingsPath, out, 0o600); err != nil {
		return fmt.Errorf("write settings %s: %w", c.SettingsPath, err)
	}
	return nil
}
