package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
	ErrDuplicateEmail     = errors.New("email already exists")

	// Workflow errors. None of these are retryable: repeating the same
	// call with the same input cannot succeed.
	ErrInvalidTransition = errors.New("no valid transition for this status and event")
	ErrInvalidAssignment = errors.New("invalid assignee set")
	ErrRoleMismatch      = errors.New("assignee role does not match the target role")
	ErrAlreadySubmitted  = errors.New("review has already been submitted")
	ErrMissingOverall    = errors.New("overall criteria rating is required")
	ErrInvalidRating     = errors.New("criteria ratings must be between 0 and 5")

	// ErrConflict signals a write that lost a race against a newer state
	// on the store. Callers should re-read and retry with fresh state.
	ErrConflict = errors.New("submission was modified concurrently")

	ErrUploadFailed        = errors.New("manuscript upload to storage failed")
	ErrUnsupportedFileType = errors.New("unsupported manuscript file type")
	ErrFileTooLarge        = errors.New("manuscript exceeds the maximum file size")
)
