// Package config loads runtime configuration for the photosift CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. JSON settings file selected with -c or -config, otherwise
//     ~/.photosift_settings.json when it exists.
//  3. PHOTOSIFT_* environment variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-d string   folder to open on start
//	-r bool     resume decisions saved in the folder's session file
//	-t int      undo countdown for deletions (seconds)
//	-j string   path to the decision journal database
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "5s" or integer
// nanoseconds:
//
//	{
//	  "last_folder": "/photos/2024-06-01",
//	  "resume_session": true,
//	  "confirm_deletions": true,
//	  "countdown": "5s",
//	  "tick_interval": "50ms",
//	  "preview_extensions": [".jpg", ".jpeg"],
//	  "archive_extensions": [".cr2", ".cr3"],
//	  "journal_path": "/home/me/.photosift/journal.db",
//	  "log_level": "info"
//	}
//
// SaveSettings writes the user preferences (last_folder, resume_session,
// confirm_deletions) back to the settings file and leaves every other key
// untouched.
package config
