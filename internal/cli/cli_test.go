package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/sessnotes/internal/config"
	"github.com/vburojevic/sessnotes/internal/notes"
	"github.com/vburojevic/sessnotes/internal/session"
)

// testGlobals creates a Globals struct with captured stdout/stderr
func testGlobals(format string) (*Globals, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	clk := clock.NewMock()
	clk.Set(time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC))
	return &Globals{
		Format:  format,
		Quiet:   false,
		Verbose: false,
		Dir:     ".",
		Tag:     "tag",
		Stdout:  stdout,
		Stderr:  stderr,
		Config:  config.Default(),
		Clock:   clk,
		RunID:   "test-run",
	}, stdout, stderr
}

const testNotes = "# 2024-03-01 Kickoff\nplanning\n\n# 2024-03-02 Build\nwrote code\n\n# 2024-03-03 Ship\nreleased\n"

const testSummaries = `**Session 1**
### Level 1 Summary
kick
### Level 2 Summary
kickoff meeting
### Level 3 Summary
kickoff meeting with the full plan

**Session 2**
### Level 1 Summary
build
### Level 2 Summary
built it
### Level 3 Summary
built the whole thing
`

// notesDir writes the source and summary documents into a temp dir and
// points globals at it
func notesDir(t *testing.T, globals *Globals) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session_notes.md"), []byte(testNotes), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summary_session_notes.md"), []byte(testSummaries), 0o644))
	globals.Dir = dir
	return dir
}

func ndjsonLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

// --- Parsing ---

func TestCLI_Parse(t *testing.T) {
	var c CLI
	parser, err := kong.New(&c, Vars(config.Default()))
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"trim", "-n", "2,3"})
	require.NoError(t, err)
	assert.Equal(t, "trim", ctx.Command())
	assert.Equal(t, []int{2, 3}, c.Trim.Session)
	assert.Equal(t, "text", c.Format)
	assert.Equal(t, ".", c.Dir)
	assert.Equal(t, "tts-stt-cursor", c.Tag)

	globals := NewGlobalsWithConfig(&c, config.Default())
	assert.NotEmpty(t, globals.RunID)
	assert.Equal(t, filepath.Join(".", session.ManifestFileName), globals.ManifestPath())
}

func TestCLI_ParseConfigDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Format = "ndjson"
	cfg.Notes.Tag = "custom"

	var c CLI
	parser, err := kong.New(&c, Vars(cfg))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"run", "--dir", "/tmp/notes"})
	require.NoError(t, err)
	assert.Equal(t, "ndjson", c.Format)
	assert.Equal(t, "custom", c.Tag)
	assert.Equal(t, "/tmp/notes", c.Dir, "flags override config")
}

// --- Stage Command Tests ---

func TestRunCmd_Run(t *testing.T) {
	t.Run("ndjson events", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		dir := notesDir(t, globals)

		require.NoError(t, (&RunCmd{}).Run(globals))

		records := ndjsonLines(t, stdout)
		counts := map[string]int{}
		for _, r := range records {
			counts[r["type"].(string)]++
			assert.Equal(t, "test-run", r["run_id"])
		}
		assert.Equal(t, map[string]int{"split": 3, "trim": 3, "inject": 3, "summary": 1}, counts)

		last := records[len(records)-1]
		assert.Equal(t, "run", last["stage"])
		assert.EqualValues(t, 2, last["injected"])

		third, err := os.ReadFile(filepath.Join(dir, "2024-03-03-tag-Session3.md"))
		require.NoError(t, err)
		assert.Contains(t, string(third), "## Summary of Session 1 (Level 2)\nkickoff meeting\n")
		assert.Contains(t, string(third), "## Summary of Session 2 (Level 3)\nbuilt the whole thing\n")
		assert.True(t, strings.HasSuffix(string(third), "# Current Session Content\n\nreleased"))

		_, err = os.Stat(filepath.Join(dir, session.ManifestFileName))
		assert.NoError(t, err)
	})

	t.Run("text output and logs on stderr", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("text")
		notesDir(t, globals)

		require.NoError(t, (&RunCmd{}).Run(globals))
		assert.Contains(t, stdout.String(), "run: 3 split, 3 trimmed, 2 injected, 1 skipped")
		assert.Contains(t, stderr.String(), "found 3 sessions")
		assert.NotContains(t, stdout.String(), "found 3 sessions")
	})
}

func TestStageCommands(t *testing.T) {
	globals, stdout, _ := testGlobals("ndjson")
	globals.Quiet = true
	dir := notesDir(t, globals)

	require.NoError(t, (&SplitCmd{}).Run(globals))
	records := ndjsonLines(t, stdout)
	require.Len(t, records, 4)
	assert.Equal(t, "summary", records[3]["type"])
	assert.EqualValues(t, 3, records[3]["split"])

	stdout.Reset()
	require.NoError(t, (&TrimCmd{Session: []int{1}}).Run(globals))
	records = ndjsonLines(t, stdout)
	require.Len(t, records, 2)
	assert.EqualValues(t, 1, records[1]["trimmed"])

	stdout.Reset()
	require.NoError(t, (&InjectCmd{Summary: filepath.Join(dir, "summary_session_notes.md")}).Run(globals))
	records = ndjsonLines(t, stdout)
	last := records[len(records)-1]
	assert.EqualValues(t, 2, last["injected"])
	assert.EqualValues(t, 1, last["skipped"])

	stdout.Reset()
	err := (&TrimCmd{Session: []int{2}}).Run(globals)
	require.Error(t, err)
	records = ndjsonLines(t, stdout)
	require.NotEmpty(t, records)
	assert.Equal(t, "error", records[len(records)-1]["type"])
	assert.Equal(t, "ALREADY_INJECTED", records[len(records)-1]["code"])
}

func TestSplitCmd_MissingSource(t *testing.T) {
	globals, stdout, _ := testGlobals("ndjson")
	globals.Quiet = true
	globals.Dir = t.TempDir()

	err := (&SplitCmd{}).Run(globals)
	require.Error(t, err)

	records := ndjsonLines(t, stdout)
	require.Len(t, records, 1)
	assert.Equal(t, "FILE_NOT_FOUND", records[0]["code"])
}

func TestTrimCmd_InvalidSession(t *testing.T) {
	globals, _, stderr := testGlobals("text")
	globals.Dir = t.TempDir()

	err := (&TrimCmd{Session: []int{0}}).Run(globals)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "INVALID_FLAGS")
}

// --- Status / Show ---

func TestStatusCmd_Run(t *testing.T) {
	globals, stdout, _ := testGlobals("ndjson")
	globals.Quiet = true
	notesDir(t, globals)
	require.NoError(t, (&RunCmd{}).Run(globals))

	t.Run("lists files from the manifest", func(t *testing.T) {
		stdout.Reset()
		require.NoError(t, (&StatusCmd{}).Run(globals))

		records := ndjsonLines(t, stdout)
		require.Len(t, records, 3)
		for _, r := range records {
			assert.Equal(t, "session_file", r["type"])
			assert.Equal(t, "manifest", r["source"])
		}
		assert.Equal(t, "trimmed", records[0]["stage"])
		assert.Equal(t, "injected", records[2]["stage"])
	})

	t.Run("where filter", func(t *testing.T) {
		stdout.Reset()
		require.NoError(t, (&StatusCmd{Where: []string{"stage=injected", "session>=3"}}).Run(globals))

		records := ndjsonLines(t, stdout)
		require.Len(t, records, 1)
		assert.EqualValues(t, 3, records[0]["session"])
	})

	t.Run("invalid where", func(t *testing.T) {
		stdout.Reset()
		err := (&StatusCmd{Where: []string{"nonsense"}}).Run(globals)
		require.Error(t, err)
		assert.Contains(t, stdout.String(), "INVALID_WHERE")
	})

	t.Run("text table", func(t *testing.T) {
		text, out, _ := testGlobals("text")
		text.Dir = globals.Dir
		require.NoError(t, (&StatusCmd{}).Run(text))
		assert.Contains(t, out.String(), "2024-03-01-tag-Session1.md")
		assert.Contains(t, out.String(), "from manifest")
	})
}

func TestStatusCmd_Empty(t *testing.T) {
	globals, stdout, _ := testGlobals("text")
	globals.Dir = t.TempDir()

	require.NoError(t, (&StatusCmd{}).Run(globals))
	assert.Contains(t, stdout.String(), "No session files found")
}

func TestShowCmd_Run(t *testing.T) {
	globals, stdout, _ := testGlobals("ndjson")
	globals.Quiet = true
	notesDir(t, globals)
	require.NoError(t, (&SplitCmd{}).Run(globals))
	require.NoError(t, (&TrimCmd{}).Run(globals))

	t.Run("ndjson", func(t *testing.T) {
		stdout.Reset()
		require.NoError(t, (&ShowCmd{Session: 2}).Run(globals))

		records := ndjsonLines(t, stdout)
		require.Len(t, records, 1)
		assert.Equal(t, "session_content", records[0]["type"])
		assert.Equal(t, "# 2024-03-02 Build\nwrote code", records[0]["content"])
		assert.Equal(t, "trimmed", records[0]["stage"])
	})

	t.Run("text prints raw when not a terminal", func(t *testing.T) {
		text, out, _ := testGlobals("text")
		text.Dir = globals.Dir
		require.NoError(t, (&ShowCmd{Session: 3}).Run(text))
		assert.Equal(t, "# 2024-03-03 Ship\nreleased", out.String())
	})

	t.Run("unknown session", func(t *testing.T) {
		stdout.Reset()
		err := (&ShowCmd{Session: 9}).Run(globals)
		require.Error(t, err)
		assert.Contains(t, stdout.String(), "UNKNOWN_SESSION")
	})
}

// --- Doctor ---

func TestDoctorCmd_Run(t *testing.T) {
	t.Run("healthy notes directory", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		notesDir(t, globals)

		require.NoError(t, (&DoctorCmd{}).Run(globals))

		var report doctorReport
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
		assert.Equal(t, "doctor", report.Type)
		assert.True(t, report.AllPassed)
		assert.Zero(t, report.ErrorCount)
		assert.Zero(t, report.WarnCount)
		assert.Len(t, report.Checks, 6)
	})

	t.Run("headers inside code blocks", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		dir := notesDir(t, globals)
		source := "# 2024-03-01 Kickoff\n```sh\n# install deps\nmake\n```\n# 2024-03-02 Build\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "session_notes.md"), []byte(source), 0o644))

		require.NoError(t, (&DoctorCmd{}).Run(globals))

		var report doctorReport
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
		var scan checkResult
		for _, c := range report.Checks {
			if c.Name == "Header scan" {
				scan = c
			}
		}
		assert.Equal(t, "warning", scan.Status)
		assert.Equal(t, "lines 3", scan.Details)
	})

	t.Run("missing documents in text mode", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		globals.Dir = t.TempDir()

		require.NoError(t, (&DoctorCmd{}).Run(globals))
		out := stdout.String()
		assert.Contains(t, out, "sessnotes doctor")
		assert.Contains(t, out, "cannot read")
		assert.Contains(t, out, "2 errors")
	})
}

// --- Config Command Tests ---

func TestConfigShowCmd_Run(t *testing.T) {
	t.Run("outputs config in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		require.NoError(t, (&ConfigShowCmd{}).Run(globals))

		output := stdout.String()
		assert.Contains(t, output, "Current Configuration:")
		assert.Contains(t, output, "format:")
		assert.Contains(t, output, "Notes:")
		assert.Contains(t, output, "tag:      tag")
	})

	t.Run("outputs config in NDJSON format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		require.NoError(t, (&ConfigShowCmd{}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, "config", result["type"])
		assert.Contains(t, result, "format")
		assert.Contains(t, result, "notes")
	})
}

func TestConfigPathCmd_Run(t *testing.T) {
	t.Run("outputs path info in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		require.NoError(t, (&ConfigPathCmd{}).Run(globals))

		output := stdout.String()
		assert.True(t, strings.Contains(output, "Config file:") || strings.Contains(output, "No configuration file found"))
	})

	t.Run("outputs path in NDJSON format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		require.NoError(t, (&ConfigPathCmd{}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, "config_path", result["type"])
		assert.Contains(t, result, "path")
	})
}

func TestConfigGenerateCmd_Run(t *testing.T) {
	globals, stdout, _ := testGlobals("text")
	require.NoError(t, (&ConfigGenerateCmd{}).Run(globals))

	output := stdout.String()
	assert.Contains(t, output, "# sessnotes configuration file")
	assert.Contains(t, output, "format: text")
	assert.Contains(t, output, "notes:")
	assert.Contains(t, output, "tag: tts-stt-cursor")
	assert.Contains(t, output, "source: session_notes.md")
}

// --- Version / Schema ---

func TestVersionCmd_Run(t *testing.T) {
	globals, stdout, _ := testGlobals("ndjson")
	require.NoError(t, (&VersionCmd{}).Run(globals))

	var result VersionOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.Equal(t, "version", result.Type)
	assert.Equal(t, Version, result.Version)

	globals, stdout, _ = testGlobals("text")
	require.NoError(t, (&VersionCmd{}).Run(globals))
	assert.Contains(t, stdout.String(), "sessnotes version "+Version)
}

func TestSchemaCmd_Run(t *testing.T) {
	t.Run("outputs all schemas by default", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		require.NoError(t, (&SchemaCmd{}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, "http://json-schema.org/draft-07/schema#", result["$schema"])
		assert.Equal(t, "sessnotes Output Schemas", result["title"])

		defs := result["definitions"].(map[string]interface{})
		for _, name := range schemaTypes {
			assert.Contains(t, defs, name)
		}
	})

	t.Run("filters schemas by type", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		require.NoError(t, (&SchemaCmd{Type: []string{"split", " Error "}}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))

		defs := result["definitions"].(map[string]interface{})
		assert.Len(t, defs, 2)
		assert.Contains(t, defs, "split")
		assert.Contains(t, defs, "error")
	})
}

func TestInjectSchema(t *testing.T) {
	schema := injectSchema()

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, "Inject", schema["title"])

	props := schema["properties"].(map[string]interface{})
	assert.Contains(t, props, "selections")
	assert.Contains(t, props, "reason")
	assert.Contains(t, props, "injected")
}

func TestErrorSchemaCoversClassifiedCodes(t *testing.T) {
	codes := errorSchema()["properties"].(map[string]interface{})["code"].(map[string]interface{})["enum"].([]string)

	errs := []error{
		notes.ErrNoHeaders,
		notes.ErrSessionOutOfRange,
		notes.ErrInvalidSessionNumber,
		notes.ErrAlreadyInjected,
		notes.ErrMalformedSummary,
		session.ErrStageRegression,
		session.ErrUnknownSession,
		os.ErrNotExist,
		errors.New("other"),
	}
	for _, err := range errs {
		code, _ := classifyError(fmt.Errorf("wrapped: %w", err))
		assert.Contains(t, codes, code)
	}
}
