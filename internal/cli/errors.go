package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/vburojevic/sessnotes/internal/notes"
	"github.com/vburojevic/sessnotes/internal/output"
	"github.com/vburojevic/sessnotes/internal/session"
)

// outputErrorCommon normalizes error emission across commands, respecting
// ndjson vs text formats so scripts always get machine-readable failures.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	if globals != nil && globals.Format == "ndjson" {
		output.NewNDJSONWriter(globals.Stdout).WriteError(code, message, hint...)
	} else if globals != nil {
		output.NewTextWriter(globals.Stderr).WriteError(code, message, hint...)
	}
	return errors.New(message)
}

// failWith reports err with a code derived from its cause and returns it
func failWith(globals *Globals, err error) error {
	code, hint := classifyError(err)
	outputErrorCommon(globals, code, err.Error(), hint)
	return err
}

func classifyError(err error) (code, hint string) {
	switch {
	case errors.Is(err, notes.ErrNoHeaders):
		return "NO_HEADERS", "the file has no '# ' headers; re-run split to start from the source"
	case errors.Is(err, notes.ErrSessionOutOfRange):
		return "SESSION_OUT_OF_RANGE", "the file has fewer headers than its session number; re-run split"
	case errors.Is(err, notes.ErrInvalidSessionNumber), errors.Is(err, session.ErrNoSessionNumber):
		return "INVALID_SESSION_NUMBER", "session numbers start at 1"
	case errors.Is(err, notes.ErrAlreadyInjected):
		return "ALREADY_INJECTED", "summaries were injected already; re-run split before trimming again"
	case errors.Is(err, notes.ErrMalformedSummary):
		return "MALFORMED_SUMMARY", "summary blocks must start with a line like '**Session 3**'"
	case errors.Is(err, session.ErrStageRegression):
		return "STAGE_REGRESSION", "re-run split to reset session files"
	case errors.Is(err, session.ErrUnknownSession):
		return "UNKNOWN_SESSION", "run 'sessnotes status' to list known sessions"
	case errors.Is(err, fs.ErrNotExist):
		return "FILE_NOT_FOUND", "check --dir and the configured notes paths"
	case errors.Is(err, context.Canceled):
		return "INTERRUPTED", ""
	default:
		return "FAILED", ""
	}
}

// errorf is outputErrorCommon with a formatted message
func errorf(globals *Globals, code, hint, format string, args ...interface{}) error {
	return outputErrorCommon(globals, code, fmt.Sprintf(format, args...), hint)
}
