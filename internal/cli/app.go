package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/photosift/internal/config"
	"github.com/dmitrijs2005/photosift/internal/deferred"
	"github.com/dmitrijs2005/photosift/internal/grouper"
	"github.com/dmitrijs2005/photosift/internal/logging"
	"github.com/dmitrijs2005/photosift/internal/repositories/journal"
	"github.com/dmitrijs2005/photosift/internal/repositories/sidecar"
	"github.com/dmitrijs2005/photosift/internal/review"
	"github.com/dmitrijs2005/photosift/internal/session"
	"github.com/dmitrijs2005/photosift/internal/storage"
	"golang.org/x/term"
)

type App struct {
	config   *config.Config
	reviewer *review.Reviewer
	journal  journal.Repository
	db       *sql.DB
	log      logging.Logger

	in    io.Reader
	tty   bool
	width int

	// whole seconds last rendered for the running countdown
	shownSecs int
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, c.JournalPath)
	if err != nil {
		log.Error(ctx, "error initializing journal", "path", c.JournalPath, "error", err)
		return nil, err
	}

	g, err := grouper.New(c.PreviewExtensions, c.ArchiveExtensions)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	repo := journal.NewSQLiteRepository(db)
	s := session.New(g, sidecar.NewJSONStore(log), log, session.WithRecorder(repo))

	a := &App{
		config:    c,
		reviewer:  review.New(s, c.Countdown, c, log),
		journal:   repo,
		db:        db,
		log:       log.With("component", "cli"),
		in:        os.Stdin,
		width:     80,
		shownSecs: -1,
	}

	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		a.tty = true
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			a.width = w
		}
	}

	s.Subscribe(a.onEvent)
	return a, nil
}

// Run opens the remembered folder, if any, and serves commands until the
// input ends, the user quits or ctx is cancelled. A staged deletion is
// committed before Run returns.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close(context.WithoutCancel(ctx))

	printlnFn("Welcome to photosift (type 'help' for commands)")

	if a.config.LastFolder != "" {
		if err := a.Open(ctx, a.config.LastFolder); err != nil {
			printlnFn("Error:", err)
		}
	}

	interval := a.config.TickInterval
	if interval <= 0 {
		interval = deferred.DefaultTickInterval
	}
	runREPL(ctx, a, a.status, readLines(ctx, a.in), tickerChan(ctx, interval), interval)
}

// Close commits any staged action and releases the journal.
func (a *App) Close(ctx context.Context) {
	a.reviewer.Close(ctx)
	if err := a.db.Close(); err != nil {
		a.log.Warn(ctx, "error closing journal", "error", err)
	}
}

func (a *App) onEvent(e session.Event) {
	switch e.Kind {
	case session.EventEntriesLoaded:
		printlnFn(fmt.Sprintf("Loaded %d photos from %s", e.Count, a.reviewer.Session().Dir()))
	case session.EventEntryRemoved:
		printlnFn("Removed", e.Name)
	case session.EventError:
		printlnFn("Error:", e.Err)
	}
}

// rememberFolder stores dir as last_folder so the next start reopens it.
func (a *App) rememberFolder(ctx context.Context, dir string) {
	a.config.LastFolder = dir
	a.saveSettings(ctx)
}

func (a *App) saveSettings(ctx context.Context) {
	if err := a.config.SaveSettings(); err != nil {
		a.log.Warn(ctx, "error saving settings", "error", err)
	}
}
