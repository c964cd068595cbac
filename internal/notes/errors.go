package notes

import "errors"

var (
	// ErrNoHeaders is returned when a session file has no top-level headers
	ErrNoHeaders = errors.New("no first-level headers found")
	// ErrSessionOutOfRange is returned when the session number exceeds the header count
	ErrSessionOutOfRange = errors.New("session number exceeds header count")
	// ErrInvalidSessionNumber is returned for missing, non-numeric or non-positive session numbers
	ErrInvalidSessionNumber = errors.New("invalid session number")
	// ErrAlreadyInjected is returned when trimming a file that already carries injected summaries
	ErrAlreadyInjected = errors.New("session file already has summaries injected")
	// ErrMalformedSummary is returned when a summary block marker carries no session number
	ErrMalformedSummary = errors.New("malformed summary session marker")
)
