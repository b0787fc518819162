// Package common defines shared constants and sentinel errors used across
// the PhotoSift engine and its front end. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Scanning errors. Fatal to a load attempt.
	ErrInvalidDirectory = errors.New("invalid directory")

	// Per-file errors (deletes, sidecar writes). Logged and surfaced, never fatal.
	ErrFileIO = errors.New("file i/o error")

	// Sidecar content that cannot be decoded. Treated as "no prior session".
	ErrMalformedSession = errors.New("malformed session file")

	// Action-specific errors.
	ErrUnknownAction  = errors.New("unknown action")
	ErrNothingPending = errors.New("nothing pending")
	ErrNoCurrentPhoto = errors.New("no current photo")
	ErrActionPending  = errors.New("action pending")

	// The staged commit removed the photo the reviewer was looking at.
	ErrSelectionChanged = errors.New("current photo changed")

	// Configuration errors.
	ErrOverlappingExtensions = errors.New("preview and archive extensions overlap")
)
