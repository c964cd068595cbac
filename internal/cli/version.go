package cli

import (
	"encoding/json"
	"fmt"

	"github.com/vburojevic/sessnotes/internal/output"
)

// Set at build time with -ldflags "-X .../internal/cli.Version=..."
var (
	Version = "dev"
	Commit  = "none"
)

// VersionCmd shows the version and how to upgrade
type VersionCmd struct{}

// VersionOutput is the NDJSON record for the version command
type VersionOutput struct {
	Type          string `json:"type"`
	SchemaVersion int    `json:"schemaVersion"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	GoInstall     string `json:"go_install"`
}

const goInstallCmd = "go install github.com/vburojevic/sessnotes/cmd/sessnotes@latest"

// Run executes the version command
func (c *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		return json.NewEncoder(globals.Stdout).Encode(VersionOutput{
			Type:          "version",
			SchemaVersion: output.SchemaVersion,
			Version:       Version,
			Commit:        Commit,
			GoInstall:     goInstallCmd,
		})
	}

	fmt.Fprintf(globals.Stdout, "sessnotes version %s (%s)\n", Version, Commit)
	fmt.Fprintln(globals.Stdout)
	fmt.Fprintln(globals.Stdout, "To upgrade via Go:")
	fmt.Fprintf(globals.Stdout, "  %s\n", goInstallCmd)
	return nil
}
