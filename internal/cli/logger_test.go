package cli

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	t.Run("info and above by default", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("text")
		globals.Logger().Info("hello")
		globals.Debug("hidden %d", 1)

		assert.Contains(t, stderr.String(), " - INFO - hello")
		assert.NotContains(t, stderr.String(), "hidden")
		assert.Empty(t, stdout.String())
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		globals, _, stderr := testGlobals("text")
		globals.Verbose = true
		globals.Debug("shown %d", 2)
		assert.Contains(t, stderr.String(), "DEBUG - shown 2")
	})

	t.Run("quiet is silent", func(t *testing.T) {
		globals, _, stderr := testGlobals("text")
		globals.Quiet = true
		globals.Logger().Error("nothing")
		assert.Empty(t, stderr.String())
	})

	t.Run("nil globals", func(t *testing.T) {
		assert.NotNil(t, newLogger(nil))
	})
}

func TestWarnConfigFallback(t *testing.T) {
	globals, stdout, stderr := testGlobals("ndjson")
	globals.WarnConfigFallback(nil)
	assert.Empty(t, stderr.String())

	globals.WarnConfigFallback(errors.New("yaml: line 3: bad indent"))
	assert.Contains(t, stderr.String(), "WARN - config file ignored, using defaults")
	assert.Contains(t, stderr.String(), "bad indent")
	assert.Empty(t, stdout.String(), "warnings never mix with ndjson output")
}

func TestLogDestinationInHelp(t *testing.T) {
	cliType := reflect.TypeOf(CLI{})
	for _, name := range []string{"Format", "Quiet"} {
		field, ok := cliType.FieldByName(name)
		assert.True(t, ok)
		assert.Contains(t, field.Tag.Get("help"), "stderr", name)
	}
}
