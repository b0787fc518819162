package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/photosift/internal/models"
	"github.com/dmitrijs2005/photosift/internal/timex"
)

const defaultHistoryLimit = 10

// Open loads dir by its absolute path, so the sidecar, the journal and the
// remembered folder all name it the same way.
func (a *App) Open(ctx context.Context, dir string) error {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if _, err := a.reviewer.Open(ctx, dir); err != nil {
		return err
	}
	a.rememberFolder(ctx, dir)
	a.showCurrent()
	return nil
}

func (a *App) Next(ctx context.Context) error {
	moved, err := a.reviewer.Next()
	if err != nil {
		return err
	}
	if !moved {
		printlnFn("Already at the last photo")
	}
	a.showCurrent()
	return nil
}

func (a *App) Prev(ctx context.Context) error {
	moved, err := a.reviewer.Previous()
	if err != nil {
		return err
	}
	if !moved {
		printlnFn("Already at the first photo")
	}
	a.showCurrent()
	return nil
}

// Goto jumps to a 1-based position as shown by ls.
func (a *App) Goto(ctx context.Context, pos string) error {
	n, err := strconv.Atoi(pos)
	if err != nil {
		return fmt.Errorf("invalid position %q", pos)
	}
	moved, err := a.reviewer.Jump(n - 1)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("position %d out of range 1..%d", n, a.reviewer.Session().Len())
	}
	a.showCurrent()
	return nil
}

func (a *App) NextUnprocessed(ctx context.Context) error {
	moved, err := a.reviewer.JumpToNextUnprocessed()
	if err != nil {
		return err
	}
	if !moved {
		printlnFn("Every photo has a decision")
	}
	a.showCurrent()
	return nil
}

func (a *App) Keep(ctx context.Context) error {
	if err := a.reviewer.KeepAll(ctx); err != nil {
		return err
	}
	a.showCurrent()
	return nil
}

func (a *App) Skip(ctx context.Context) error {
	if err := a.reviewer.Skip(ctx); err != nil {
		return err
	}
	a.showCurrent()
	return nil
}

func (a *App) DeleteRaw(ctx context.Context) error {
	if err := a.reviewer.DeleteRaw(ctx); err != nil {
		return err
	}
	a.showStaged()
	a.showCurrent()
	return nil
}

func (a *App) DeleteAll(ctx context.Context) error {
	if err := a.reviewer.DeleteAll(ctx); err != nil {
		return err
	}
	a.showStaged()
	a.showCurrent()
	return nil
}

func (a *App) Undo(ctx context.Context) error {
	p, _ := a.reviewer.Pending()
	if err := a.reviewer.Undo(ctx); err != nil {
		return err
	}
	a.shownSecs = -1
	printlnFn("Undone:", p.Description)
	a.showCurrent()
	return nil
}

func (a *App) Confirm(ctx context.Context) error {
	p, _ := a.reviewer.Pending()
	if err := a.reviewer.ConfirmPending(ctx); err != nil {
		return err
	}
	a.shownSecs = -1
	printlnFn("Done:", p.Description)
	return nil
}

// Tick advances the countdown. On a terminal the remaining time is redrawn
// once per second.
func (a *App) Tick(ctx context.Context, elapsed time.Duration) {
	p, ok := a.reviewer.Pending()
	if !ok {
		return
	}
	if a.reviewer.Tick(ctx, elapsed) {
		a.shownSecs = -1
		printlnFn("Done:", p.Description)
		printlnFn(fmt.Sprintf("ps %s> ", a.status()))
		return
	}

	p, _ = a.reviewer.Pending()
	secs := wholeSeconds(p.Remaining)
	if !a.tty || secs == a.shownSecs {
		return
	}
	a.shownSecs = secs
	printlnFn(countdownBar(p, a.reviewer.CountdownFraction(), a.width))
}

// List prints the photos matching filter; an empty filter or "all" lists
// everything.
func (a *App) List(ctx context.Context, filter string) error {
	s := a.reviewer.Session()
	if s.Len() == 0 {
		printlnFn("No photos loaded")
		return nil
	}

	var kind models.ActionKind
	switch filter {
	case "", "all":
	case "unprocessed":
		kind = models.ActionNone
	default:
		k, err := models.ParseActionKind(filter)
		if err != nil {
			return err
		}
		kind = k
	}

	shown := 0
	for i, e := range s.Entries() {
		if kind != "" && e.Action != kind {
			continue
		}
		marker := " "
		if i == s.Cursor() {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%s %4d  %-24s %-12s %s", marker, i+1, e.BaseName, e.FileStatus(), e.Action.Label()))
		shown++
	}
	if shown == 0 {
		printlnFn("No photos match", filter)
	}
	return nil
}

func (a *App) Progress(ctx context.Context) error {
	s := a.reviewer.Session()
	done, total, pct := s.Progress()
	printlnFn(fmt.Sprintf("Progress: %d/%d (%d%%)", done, total, pct))

	stats := s.Stats()
	parts := make([]string, 0, len(models.AllActions))
	for _, k := range models.AllActions {
		parts = append(parts, fmt.Sprintf("%s=%d", k, stats[k]))
	}
	printlnFn(strings.Join(parts, " "))
	return nil
}

// History prints the latest journal records for the open folder.
func (a *App) History(ctx context.Context, limit string) error {
	dir := a.reviewer.Session().Dir()
	if dir == "" {
		return errors.New("no folder is open")
	}

	n := defaultHistoryLimit
	if limit != "" {
		v, err := strconv.Atoi(limit)
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid limit %q", limit)
		}
		n = v
	}

	recs, err := a.journal.ListByFolder(ctx, dir, n)
	if err != nil {
		a.log.Error(ctx, "error reading journal", "folder", dir, "error", err)
		return err
	}
	if len(recs) == 0 {
		printlnFn("No journal records for", dir)
		return nil
	}
	for _, r := range recs {
		printlnFn(fmt.Sprintf("%s  %-10s %-24s %d file(s) removed",
			timex.FormatISO(r.CommittedAt.Local()), r.Action, r.BaseName, len(r.RemovedFiles)))
	}
	return nil
}

// Folders prints every folder that has journal records.
func (a *App) Folders(ctx context.Context) error {
	folders, err := a.journal.Folders(ctx)
	if err != nil {
		a.log.Error(ctx, "error reading journal", "error", err)
		return err
	}
	if len(folders) == 0 {
		printlnFn("Journal is empty")
		return nil
	}
	for _, f := range folders {
		printlnFn(fmt.Sprintf("%s  %5d action(s)  %s", timex.FormatISO(f.LastReviewed.Local()), f.Actions, f.Path))
	}
	return nil
}

// Prefs toggles a boolean preference and saves it.
func (a *App) Prefs(ctx context.Context, name, value string) error {
	var on bool
	switch value {
	case "on", "true", "yes":
		on = true
	case "off", "false", "no":
		on = false
	default:
		return fmt.Errorf("invalid value %q, want on or off", value)
	}

	switch name {
	case "resume":
		a.config.Resume = on
	case "confirm":
		a.config.ConfirmDelete = on
	default:
		return errors.New("unknown preference " + strconv.Quote(name) + ", want resume or confirm")
	}

	a.saveSettings(ctx)
	printlnFn(fmt.Sprintf("%s = %s", name, value))
	return nil
}
