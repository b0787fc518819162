// Package review drives a culling pass: it applies the reviewer's commands to
// a session, routing destructive ones through the deferred controller.
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/photosift/internal/common"
	"github.com/dmitrijs2005/photosift/internal/deferred"
	"github.com/dmitrijs2005/photosift/internal/logging"
	"github.com/dmitrijs2005/photosift/internal/models"
	"github.com/dmitrijs2005/photosift/internal/session"
)

// Preferences are the settings a review pass consults.
type Preferences interface {
	session.Preferences
	ConfirmDeletions() bool
}

type Reviewer struct {
	session    *session.Session
	controller *deferred.Controller
	prefs      Preferences
	log        logging.Logger
}

func New(s *session.Session, countdown time.Duration, prefs Preferences, log logging.Logger) *Reviewer {
	return &Reviewer{
		session:    s,
		controller: deferred.New(countdown, s, log),
		prefs:      prefs,
		log:        log.With("component", "review"),
	}
}

func (r *Reviewer) Session() *session.Session {
	return r.session
}

// Pending returns the staged destructive action, if any.
func (r *Reviewer) Pending() (deferred.Pending, bool) {
	return r.controller.Pending()
}

// CountdownFraction is the remaining share of the running countdown.
func (r *Reviewer) CountdownFraction() float64 {
	return r.controller.Fraction()
}

// Open flushes any staged action and loads dir.
func (r *Reviewer) Open(ctx context.Context, dir string) (int, error) {
	r.controller.Confirm(ctx)
	return r.session.Load(ctx, dir, r.prefs.ResumeSession())
}

// Close commits a staged action so nothing is lost on exit.
func (r *Reviewer) Close(ctx context.Context) {
	r.controller.Confirm(ctx)
}

// settle commits whatever is staged and returns the photo under the cursor.
// It refuses to act when that commit removed the photo on screen, since the
// cursor then points at a photo the reviewer has not looked at.
func (r *Reviewer) settle(ctx context.Context) (*models.PhotoEntry, error) {
	seen := r.session.Current()
	r.controller.Confirm(ctx)

	e := r.session.Current()
	if e == nil {
		return nil, common.ErrNoCurrentPhoto
	}
	if e != seen {
		return nil, common.ErrSelectionChanged
	}
	return e, nil
}

// KeepAll commits keep_all for the current photo and moves on.
func (r *Reviewer) KeepAll(ctx context.Context) error {
	e, err := r.settle(ctx)
	if err != nil {
		return err
	}
	r.session.KeepBoth(ctx, e)
	r.session.Advance()
	return nil
}

// Skip marks the current photo as reviewed without a decision and moves on.
func (r *Reviewer) Skip(ctx context.Context) error {
	e, err := r.settle(ctx)
	if err != nil {
		return err
	}
	r.session.Skip(ctx, e)
	r.session.Advance()
	return nil
}

// DeleteRaw stages deletion of the current photo's archive file.
func (r *Reviewer) DeleteRaw(ctx context.Context) error {
	e, err := r.settle(ctx)
	if err != nil {
		return err
	}
	if !e.HasArchive() {
		return fmt.Errorf("%s has no RAW file", e.BaseName)
	}
	r.stage(ctx, models.ActionDeleteRaw, e, fmt.Sprintf("Deleting RAW file for %s", e.BaseName),
		func(ctx context.Context) { r.session.DeleteArchiveOnly(ctx, e) })
	return nil
}

// DeleteAll stages deletion of every file of the current photo.
func (r *Reviewer) DeleteAll(ctx context.Context) error {
	e, err := r.settle(ctx)
	if err != nil {
		return err
	}
	r.stage(ctx, models.ActionDeleteAll, e, fmt.Sprintf("Deleting ALL files for %s", e.BaseName),
		func(ctx context.Context) { r.session.DeleteBoth(ctx, e) })
	return nil
}

// stage starts the countdown and moves to the next photo. With deletion
// confirmations turned off the mutation is applied at once instead.
func (r *Reviewer) stage(ctx context.Context, kind models.ActionKind, e *models.PhotoEntry, description string, commit deferred.CommitFunc) {
	if !r.prefs.ConfirmDeletions() {
		commit(ctx)
		// delete_all already moved the cursor onto the next photo.
		if kind != models.ActionDeleteAll {
			r.session.Advance()
		}
		return
	}

	r.controller.Stage(ctx, kind, e, description, commit, r.session.Cursor())
	r.session.Advance()
}

// Undo cancels the staged action and returns to its photo.
func (r *Reviewer) Undo(ctx context.Context) error {
	if !r.controller.Cancel(ctx) {
		return common.ErrNothingPending
	}
	return nil
}

// ConfirmPending commits the staged action now.
func (r *Reviewer) ConfirmPending(ctx context.Context) error {
	if !r.controller.Confirm(ctx) {
		return common.ErrNothingPending
	}
	return nil
}

// Tick feeds the countdown. It reports whether the staged action committed.
func (r *Reviewer) Tick(ctx context.Context, elapsed time.Duration) bool {
	return r.controller.Tick(ctx, elapsed)
}

// Navigation is refused while an action is pending.

func (r *Reviewer) Next() (bool, error) {
	if r.controller.HasPending() {
		return false, common.ErrActionPending
	}
	return r.session.Advance(), nil
}

func (r *Reviewer) Previous() (bool, error) {
	if r.controller.HasPending() {
		return false, common.ErrActionPending
	}
	return r.session.Retreat(), nil
}

// Jump moves to the 0-based index.
func (r *Reviewer) Jump(index int) (bool, error) {
	if r.controller.HasPending() {
		return false, common.ErrActionPending
	}
	return r.session.JumpTo(index), nil
}

// JumpToNextUnprocessed moves to the first unreviewed photo after the
// current one, wrapping around.
func (r *Reviewer) JumpToNextUnprocessed() (bool, error) {
	if r.controller.HasPending() {
		return false, common.ErrActionPending
	}
	i, ok := r.session.NextUnprocessedFrom(r.session.Cursor() + 1)
	if !ok {
		return false, nil
	}
	return r.session.JumpTo(i), nil
}
