// Package apperr holds the sentinel errors shared across the editor and its surfaces.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")

	// ErrBlocked marks a structural edit that was refused. State is left unchanged
	// and callers surface the wrapped reason as a notice.
	ErrBlocked = errors.New("blocked")

	// ErrBusy is returned when an operation conflicts with an active drag.
	ErrBusy = errors.New("drag in progress")
)
