package deferred

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/photosift/internal/logging"
	"github.com/dmitrijs2005/photosift/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cursorStub struct {
	calls []int
}

func (c *cursorStub) SetCursor(index int) { c.calls = append(c.calls, index) }

func counter(n *int) CommitFunc {
	return func(ctx context.Context) { *n++ }
}

func newController(t *testing.T) (*Controller, *cursorStub) {
	t.Helper()
	cur := &cursorStub{}
	return New(time.Second, cur, logging.Nop()), cur
}

func TestNew_DefaultsCountdown(t *testing.T) {
	c := New(0, nil, logging.Nop())
	assert.Equal(t, DefaultCountdown, c.Countdown())
}

func TestConfirm_RunsCommitOnce(t *testing.T) {
	c, cur := newController(t)
	ctx := context.Background()
	n := 0

	c.Stage(ctx, models.ActionDeleteAll, models.NewPhotoEntry("A"), "Deleting ALL files for A", counter(&n), 3)
	require.True(t, c.HasPending())

	assert.True(t, c.Confirm(ctx))
	assert.False(t, c.Confirm(ctx), "second confirm is a no-op")
	assert.Equal(t, 1, n)
	assert.False(t, c.HasPending())
	assert.Empty(t, cur.calls)
}

func TestCancel_DiscardsAndRestoresCursor(t *testing.T) {
	c, cur := newController(t)
	ctx := context.Background()
	n := 0

	c.Stage(ctx, models.ActionDeleteRaw, models.NewPhotoEntry("A"), "Deleting RAW file for A", counter(&n), 4)

	assert.True(t, c.Cancel(ctx))
	assert.Equal(t, 0, n)
	assert.Equal(t, []int{4}, cur.calls)
	assert.False(t, c.HasPending())

	assert.False(t, c.Cancel(ctx))
	assert.False(t, c.Tick(ctx, time.Hour), "nothing left to expire")
	assert.Equal(t, 0, n)
}

func TestStage_FlushesPreviousAction(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()
	first, second := 0, 0

	c.Stage(ctx, models.ActionDeleteRaw, models.NewPhotoEntry("A"), "first", counter(&first), 0)
	c.Stage(ctx, models.ActionDeleteAll, models.NewPhotoEntry("B"), "second", counter(&second), 1)

	assert.Equal(t, 1, first)
	assert.Equal(t, 0, second)

	p, ok := c.Pending()
	require.True(t, ok)
	assert.Equal(t, "second", p.Description)
	assert.Equal(t, "B", p.Entry.BaseName)
	assert.Equal(t, 1, p.RestoreIndex)
}

func TestTick_CommitsOnExpiry(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()
	n := 0

	c.Stage(ctx, models.ActionDeleteAll, models.NewPhotoEntry("A"), "x", counter(&n), 0)
	assert.Equal(t, 1.0, c.Fraction())

	for i := 0; i < 19; i++ {
		require.False(t, c.Tick(ctx, DefaultTickInterval))
	}
	p, _ := c.Pending()
	assert.Equal(t, 50*time.Millisecond, p.Remaining)
	assert.InDelta(t, 0.05, c.Fraction(), 1e-9)
	assert.Equal(t, 0, n)

	assert.True(t, c.Tick(ctx, DefaultTickInterval))
	assert.Equal(t, 1, n)
	assert.False(t, c.HasPending())
	assert.Equal(t, 0.0, c.Fraction())
}

func TestConfirm_CommitMayStageAgain(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()
	inner := 0

	c.Stage(ctx, models.ActionDeleteAll, models.NewPhotoEntry("A"), "outer", func(ctx context.Context) {
		c.Stage(ctx, models.ActionDeleteRaw, models.NewPhotoEntry("B"), "inner", counter(&inner), 0)
	}, 0)

	require.True(t, c.Confirm(ctx))
	p, ok := c.Pending()
	require.True(t, ok)
	assert.Equal(t, "inner", p.Description)
	assert.Equal(t, 0, inner)
}
