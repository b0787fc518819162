// Package cli provides the interactive photosift command-line reviewer.
//
// It wires configuration, the folder scanner, the session sidecar store, the
// decision journal and a review pass into a REPL. One goroutine owns all
// state: it selects on typed commands and on the countdown ticker, so a
// staged deletion commits on time even while the prompt waits for input.
//
// Key features:
//   - Open a folder and resume earlier decisions
//   - Navigate, jump, list and filter photos
//   - Keep, skip, delete RAW only or delete everything, with undo
//   - Show progress and the journal history of a folder
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the loop itself.
package cli
