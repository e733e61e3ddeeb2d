package services

import "errors"

// Failure taxonomy surfaced by all service operations. Handlers translate
// these to HTTP statuses; wrapped context travels via %w.
var (
	// ErrNotFound - the resource is absent
	ErrNotFound = errors.New("not found")
	// ErrNotFoundOrForbidden deliberately conflates "does not exist" with
	// "exists but inaccessible" so callers cannot probe for existence
	ErrNotFoundOrForbidden = errors.New("not found or not accessible")
	// ErrForbidden - the resource exists, the capability is denied
	ErrForbidden = errors.New("forbidden")
	// ErrConflict - duplicate share, already-resolved share
	ErrConflict = errors.New("conflict")
	// ErrValidation - malformed input
	ErrValidation = errors.New("validation failed")
	// ErrIO - unexpected filesystem/storage failure
	ErrIO = errors.New("storage failure")
)
