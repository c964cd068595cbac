package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/vburojevic/sessnotes/internal/output"
)

// ShowCmd prints one session file
type ShowCmd struct {
	Session int  `arg:"" help:"Session number"`
	Raw     bool `help:"Print the markdown as-is even on a terminal"`
	Width   int  `default:"100" help:"Wrap width when rendering"`
}

type sessionContentOutput struct {
	Type          string `json:"type"` // "session_content"
	SchemaVersion int    `json:"schemaVersion"`
	Session       int    `json:"session"`
	Path          string `json:"path"`
	Stage         string `json:"stage"`
	Content       string `json:"content"`
}

// Run executes the show command
func (c *ShowCmd) Run(globals *Globals) error {
	if err := validateFlags(globals, []int{c.Session}); err != nil {
		return err
	}

	tracker, err := globals.tracker()
	if err != nil {
		return failWith(globals, err)
	}
	files, err := tracker.SessionFiles(globals.notesDir(), globals.tag())
	if err != nil {
		return failWith(globals, err)
	}

	for _, f := range files {
		if f.Session != c.Session {
			continue
		}
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return failWith(globals, err)
		}

		if globals.Format == "ndjson" {
			return output.NewNDJSONWriter(globals.Stdout).WriteJSON(sessionContentOutput{
				Type:          "session_content",
				SchemaVersion: output.SchemaVersion,
				Session:       f.Session,
				Path:          f.Path,
				Stage:         string(f.Stage),
				Content:       string(data),
			})
		}

		if c.Raw || !isTerminal(globals.Stdout) {
			_, err := globals.Stdout.Write(data)
			return err
		}
		return c.render(globals, string(data))
	}

	return errorf(globals, "UNKNOWN_SESSION", "run 'sessnotes status' to list known sessions", "no session file for session %d", c.Session)
}

func (c *ShowCmd) render(globals *Globals, markdown string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(c.Width),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = fmt.Fprint(globals.Stdout, out)
	return err
}
