package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/photosift/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   folder to open on start
//	-r bool     resume saved decisions
//	-t int      undo countdown in seconds
//	-j string   journal database path
//	-l string   log level
//
// Arguments are filtered with flagx.FilterArgs first so flags handled
// elsewhere (-c) do not trip the parser.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-d", "-t", "-j", "-l"}, []string{"-r"})

	fs := flag.NewFlagSet("photosift", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.LastFolder, "d", cfg.LastFolder, "folder to open on start")
	fs.BoolVar(&cfg.Resume, "r", cfg.Resume, "resume saved decisions")
	countdown := fs.Int("t", int(cfg.Countdown.Seconds()), "undo countdown (in seconds)")
	fs.StringVar(&cfg.JournalPath, "j", cfg.JournalPath, "decision journal path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.Countdown = time.Duration(*countdown) * time.Second
		}
	})

	return nil
}
