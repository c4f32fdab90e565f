package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthRejected     = fmt.Errorf("authentication rejected")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrSessionCorrupt   = fmt.Errorf("session state corrupt")

	// API and service errors
	ErrRequestFailed      = fmt.Errorf("request failed")
	ErrNetwork            = fmt.Errorf("network error")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrFolderNotFound     = fmt.Errorf("folder not found")
	ErrNoteNotFound       = fmt.Errorf("note not found")

	// Bulk operation errors
	ErrOpInFlight     = fmt.Errorf("bulk operation already in flight")
	ErrEmptySelection = fmt.Errorf("no notes selected")
	ErrNotConfirmed   = fmt.Errorf("operation not confirmed")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
