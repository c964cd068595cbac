package cli

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vburojevic/sessnotes/internal/notes"
	"github.com/vburojevic/sessnotes/internal/session"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{notes.ErrNoHeaders, "NO_HEADERS"},
		{notes.ErrSessionOutOfRange, "SESSION_OUT_OF_RANGE"},
		{notes.ErrInvalidSessionNumber, "INVALID_SESSION_NUMBER"},
		{session.ErrNoSessionNumber, "INVALID_SESSION_NUMBER"},
		{notes.ErrAlreadyInjected, "ALREADY_INJECTED"},
		{notes.ErrMalformedSummary, "MALFORMED_SUMMARY"},
		{session.ErrStageRegression, "STAGE_REGRESSION"},
		{session.ErrUnknownSession, "UNKNOWN_SESSION"},
		{os.ErrNotExist, "FILE_NOT_FOUND"},
		{context.Canceled, "INTERRUPTED"},
		{fmt.Errorf("disk on fire"), "FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			code, _ := classifyError(fmt.Errorf("x.md: %w", tt.err))
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestOutputErrorCommon(t *testing.T) {
	t.Run("ndjson goes to stdout", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("ndjson")
		err := outputErrorCommon(globals, "FAILED", "boom", "try again")
		assert.EqualError(t, err, "boom")
		assert.Contains(t, stdout.String(), `"code":"FAILED"`)
		assert.Empty(t, stderr.String())
	})

	t.Run("text goes to stderr", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("text")
		_ = errorf(globals, "FAILED", "", "bad %d", 7)
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "Error [FAILED]: bad 7")
	})
}
