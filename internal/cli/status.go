package cli

import (
	"fmt"

	"github.com/vburojevic/sessnotes/internal/domain"
	"github.com/vburojevic/sessnotes/internal/filter"
	"github.com/vburojevic/sessnotes/internal/output"
)

// StatusCmd lists session files and the stage each has reached
type StatusCmd struct {
	Where []string `short:"w" help:"Filter with field<op>value (fields: session, date, stage, name, header; ops: =, !=, ~, !~, ^, $, >=, <=)"`
}

// sessionFileOutput is the NDJSON record for one session file
type sessionFileOutput struct {
	Type          string `json:"type"` // "session_file"
	SchemaVersion int    `json:"schemaVersion"`
	domain.SessionFile
	Source string `json:"source"` // manifest or discovery
}

// Run executes the status command
func (c *StatusCmd) Run(globals *Globals) error {
	where, err := filter.NewWhereFilter(c.Where)
	if err != nil {
		return outputErrorCommon(globals, "INVALID_WHERE", err.Error())
	}

	tracker, err := globals.tracker()
	if err != nil {
		return failWith(globals, err)
	}
	files, err := tracker.SessionFiles(globals.notesDir(), globals.tag())
	if err != nil {
		return failWith(globals, err)
	}
	files = where.Apply(files)

	source := "discovery"
	if tracker.HasManifest() {
		source = "manifest"
	}

	if globals.Format == "ndjson" {
		w := output.NewNDJSONWriter(globals.Stdout)
		for _, f := range files {
			if err := w.WriteJSON(sessionFileOutput{
				Type:          "session_file",
				SchemaVersion: output.SchemaVersion,
				SessionFile:   f,
				Source:        source,
			}); err != nil {
				return err
			}
		}
		return nil
	}

	if len(files) == 0 {
		fmt.Fprintf(globals.Stdout, "No session files found in %s\n", globals.notesDir())
		return nil
	}
	fmt.Fprintf(globals.Stdout, "Session files (%s, from %s):\n", globals.notesDir(), source)
	return output.WriteSessionTable(globals.Stdout, files)
}
