package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Open(ctx context.Context, dir string) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Goto(ctx context.Context, pos string) error
	NextUnprocessed(ctx context.Context) error
	Keep(ctx context.Context) error
	Skip(ctx context.Context) error
	DeleteRaw(ctx context.Context) error
	DeleteAll(ctx context.Context) error
	Undo(ctx context.Context) error
	Confirm(ctx context.Context) error
	List(ctx context.Context, filter string) error
	Progress(ctx context.Context) error
	History(ctx context.Context, limit string) error
	Folders(ctx context.Context) error
	Prefs(ctx context.Context, name, value string) error
	Tick(ctx context.Context, elapsed time.Duration)
}

const helpText = `Available commands:
  open <dir>          open a folder
  n | next            next photo
  p | prev            previous photo
  goto <n>            jump to photo n
  next-unprocessed    jump to the next photo without a decision
  k | keep            keep JPEG and RAW
  s | skip            skip without a decision
  r | raw             delete the RAW file
  d | del             delete all files
  u | undo            cancel the pending deletion
  c | confirm         commit the pending deletion now
  ls [filter]         list photos (all, unprocessed, keep_all, delete_raw, delete_all, skipped)
  progress            show review progress
  history [n]         show the last n journal records for this folder
  folders             show folders in the journal
  prefs <name> on|off set resume or confirm
  exit | quit         leave the program`

// readLines feeds lines from r into the returned channel until r is
// exhausted or ctx is cancelled.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// tickerChan returns the channel of a ticker that stops with ctx.
func tickerChan(ctx context.Context, interval time.Duration) <-chan time.Time {
	ticker := time.NewTicker(interval)
	go func() {
		<-ctx.Done()
		ticker.Stop()
	}()
	return ticker.C
}

// runREPL is the read–eval–print loop of the photosift CLI.
//
// Commands arrive on lines and are dispatched to a one at a time. Every
// value on ticks advances the undo countdown by interval. The loop exits when
// lines is closed, on "exit"/"quit", or when ctx is done.
//
// Errors returned by handlers are printed and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, lines <-chan string, ticks <-chan time.Time, interval time.Duration) {
	printlnFn(fmt.Sprintf("ps %s> ", statusFn()))

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticks:
			a.Tick(ctx, interval)

		case line, ok := <-lines:
			if !ok {
				return
			}
			parts := strings.Fields(line)
			if len(parts) == 0 {
				continue
			}
			if !dispatch(ctx, a, parts[0], parts[1:]) {
				printlnFn("Bye!")
				return
			}
			printlnFn(fmt.Sprintf("ps %s> ", statusFn()))
		}
	}
}

// dispatch runs one command. It returns false when the user asked to leave.
func dispatch(ctx context.Context, a execIface, cmd string, args []string) bool {
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}

	var err error

	switch cmd {
	case "help", "h", "?":
		printlnFn(helpText)

	case "open":
		if len(args) == 0 {
			printlnFn("Usage: open <dir>")
			return true
		}
		err = a.Open(ctx, strings.Join(args, " "))

	case "n", "next":
		err = a.Next(ctx)

	case "p", "prev":
		err = a.Prev(ctx)

	case "goto":
		if len(args) == 0 {
			printlnFn("Usage: goto <n>")
			return true
		}
		err = a.Goto(ctx, arg(0))

	case "next-unprocessed":
		err = a.NextUnprocessed(ctx)

	case "k", "keep":
		err = a.Keep(ctx)

	case "s", "skip":
		err = a.Skip(ctx)

	case "r", "raw":
		err = a.DeleteRaw(ctx)

	case "d", "del":
		err = a.DeleteAll(ctx)

	case "u", "undo":
		err = a.Undo(ctx)

	case "c", "confirm":
		err = a.Confirm(ctx)

	case "l", "ls":
		err = a.List(ctx, arg(0))

	case "progress":
		err = a.Progress(ctx)

	case "history":
		err = a.History(ctx, arg(0))

	case "folders":
		err = a.Folders(ctx)

	case "prefs":
		if len(args) != 2 {
			printlnFn("Usage: prefs resume|confirm on|off")
			return true
		}
		err = a.Prefs(ctx, args[0], args[1])

	case "exit", "quit":
		return false

	default:
		printlnFn("Unknown command:", cmd)
	}

	if err != nil {
		printlnFn("Error:", err)
	}
	return true
}
