package domain

import "errors"

// Sentinel errors for the executor and resolver. Operations wrap these with
// context via fmt.Errorf("...: %w", ...) so callers can classify failures
// with errors.Is without parsing message text.
var (
	// ErrPathEscape means a resolved path left the sandbox. Never
	// auto-corrected; the operation is rejected outright.
	ErrPathEscape = errors.New("path escapes sandbox")

	// ErrNotFound means the named entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists means a create or rename target already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrWrongType means the entry's actual type does not match the request,
	// e.g. deleting a file as if it were a folder.
	ErrWrongType = errors.New("wrong entry type")

	// ErrPermissionDenied wraps OS-level permission failures.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnsupportedApp means the app is not in the launch whitelist.
	// The launcher fails closed: no process is ever spawned for these.
	ErrUnsupportedApp = errors.New("application not allowed")

	// ErrCaptureBusy means a listen attempt was requested while one is
	// already active. New attempts are rejected, not queued.
	ErrCaptureBusy = errors.New("capture already in progress")

	// ErrCaptureCancelled means a listen attempt was cancelled before any
	// utterance was produced.
	ErrCaptureCancelled = errors.New("capture cancelled")
)
