// Package deferred implements the soft-commit protocol for destructive
// review actions: an action is staged behind a countdown during which it can
// still be cancelled; expiry or an explicit confirmation commits it.
//
// The controller is driven by Tick calls from the owner's event loop and
// never starts goroutines of its own.
package deferred

import (
	"context"
	"time"

	"github.com/dmitrijs2005/photosift/internal/logging"
	"github.com/dmitrijs2005/photosift/internal/models"
)

const (
	DefaultCountdown    = 5 * time.Second
	DefaultTickInterval = 50 * time.Millisecond
)

// CommitFunc applies a staged mutation.
type CommitFunc func(ctx context.Context)

// Cursor is the part of the session a cancel needs to restore.
type Cursor interface {
	SetCursor(index int)
}

// Pending describes the staged action.
type Pending struct {
	Kind         models.ActionKind
	Entry        *models.PhotoEntry
	Description  string
	RestoreIndex int
	Remaining    time.Duration

	commit CommitFunc
}

type Controller struct {
	countdown time.Duration
	cursor    Cursor
	log       logging.Logger
	pending   *Pending
}

// New returns a controller with the given countdown; non-positive values
// fall back to DefaultCountdown.
func New(countdown time.Duration, cursor Cursor, log logging.Logger) *Controller {
	if countdown <= 0 {
		countdown = DefaultCountdown
	}
	return &Controller{
		countdown: countdown,
		cursor:    cursor,
		log:       log.With("component", "deferred"),
	}
}

func (c *Controller) Countdown() time.Duration {
	return c.countdown
}

// Pending returns a copy of the staged action.
func (c *Controller) Pending() (Pending, bool) {
	if c.pending == nil {
		return Pending{}, false
	}
	return *c.pending, true
}

func (c *Controller) HasPending() bool {
	return c.pending != nil
}

// Stage replaces the pending action. An action already pending is committed
// first, so at most one action waits at any time.
func (c *Controller) Stage(ctx context.Context, kind models.ActionKind, entry *models.PhotoEntry, description string, commit CommitFunc, restoreIndex int) {
	if c.pending != nil {
		c.log.Debug(ctx, "flushing pending action", "description", c.pending.Description)
		c.Confirm(ctx)
	}

	c.pending = &Pending{
		Kind:         kind,
		Entry:        entry,
		Description:  description,
		RestoreIndex: restoreIndex,
		Remaining:    c.countdown,
		commit:       commit,
	}
	c.log.Info(ctx, "action staged", "action", kind, "description", description, "countdown", c.countdown)
}

// Confirm commits the pending action. It returns false when nothing is
// pending.
func (c *Controller) Confirm(ctx context.Context) bool {
	p := c.pending
	if p == nil {
		return false
	}
	// Cleared before the commit runs so a commit can never fire twice.
	c.pending = nil

	if p.commit != nil {
		p.commit(ctx)
	}
	c.log.Info(ctx, "action committed", "action", p.Kind, "description", p.Description)
	return true
}

// Cancel drops the pending action without running it and moves the cursor
// back to where the action was started.
func (c *Controller) Cancel(ctx context.Context) bool {
	p := c.pending
	if p == nil {
		return false
	}
	c.pending = nil

	if c.cursor != nil {
		c.cursor.SetCursor(p.RestoreIndex)
	}
	c.log.Info(ctx, "action cancelled", "action", p.Kind, "description", p.Description)
	return true
}

// Tick advances the countdown by elapsed and commits on expiry. It returns
// true when this tick committed the action.
func (c *Controller) Tick(ctx context.Context, elapsed time.Duration) bool {
	if c.pending == nil {
		return false
	}
	c.pending.Remaining -= elapsed
	if c.pending.Remaining > 0 {
		return false
	}
	return c.Confirm(ctx)
}

// Fraction returns the share of the countdown still remaining, in [0, 1].
func (c *Controller) Fraction() float64 {
	if c.pending == nil {
		return 0
	}
	f := float64(c.pending.Remaining) / float64(c.countdown)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
