package apperr

import "errors"

var (
	// ErrInvalidRequest is a sentinel for malformed creation input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound is a sentinel for missing requests or participants.
	ErrNotFound = errors.New("not found")
	// ErrConflict is surfaced when a commit loses the optimistic-write race
	// more times than the coordinator is willing to retry.
	ErrConflict = errors.New("conflict")
	// ErrTerminalState is returned for operations on an archived request.
	ErrTerminalState = errors.New("terminal state")
	// ErrRailUnavailable means the external payment rail could not be launched.
	ErrRailUnavailable = errors.New("payment rail unavailable")
	// ErrStorageUnavailable means the durable store rejected the call outright.
	// Callers may retry; no partial state was committed.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
