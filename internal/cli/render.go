package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/photosift/internal/deferred"
)

// status is the prompt text: position, photo and the pending countdown.
func (a *App) status() string {
	s := a.reviewer.Session()
	e := s.Current()
	if e == nil {
		if s.Dir() == "" {
			return "(no folder)"
		}
		return "(empty)"
	}

	pos, total := s.Count()
	out := fmt.Sprintf("[%d/%d] %s (%s)", pos, total, e.BaseName, e.Action.Label())
	if p, ok := a.reviewer.Pending(); ok {
		out += fmt.Sprintf(" {undo %ds}", wholeSeconds(p.Remaining))
	}
	return out
}

func (a *App) showCurrent() {
	e := a.reviewer.Session().Current()
	if e == nil {
		return
	}
	printlnFn(fmt.Sprintf("%s  %s  %s", e.BaseName, e.FileStatus(), e.DisplayPath()))
}

func (a *App) showStaged() {
	p, ok := a.reviewer.Pending()
	if !ok {
		return
	}
	printlnFn(fmt.Sprintf("%s (u to undo within %ds)", p.Description, wholeSeconds(p.Remaining)))
}

func wholeSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

// countdownBar renders the pending action with a bar that shrinks with
// fraction, fitted to width columns.
func countdownBar(p deferred.Pending, fraction float64, width int) string {
	label := fmt.Sprintf(" %ds %s", wholeSeconds(p.Remaining), p.Description)

	barWidth := width - len(label) - 2
	if barWidth > 40 {
		barWidth = 40
	}
	if barWidth < 0 {
		barWidth = 0
	}

	filled := int(math.Round(fraction * float64(barWidth)))
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(" ", barWidth-filled) + "]" + label
}
