package cli

import (
	"encoding/json"
	"fmt"

	"github.com/vburojevic/sessnotes/internal/config"
)

// ConfigCmd groups the configuration subcommands
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"1" help:"Show the effective configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show which config file is loaded"`
	Generate ConfigGenerateCmd `cmd:"" help:"Print a sample .sessnotesrc"`
}

// ConfigShowCmd prints the effective configuration
type ConfigShowCmd struct{}

type configOutput struct {
	Type    string      `json:"type"` // "config"
	Format  string      `json:"format"`
	Quiet   bool        `json:"quiet"`
	Verbose bool        `json:"verbose"`
	Notes   notesOutput `json:"notes"`
	File    string      `json:"file,omitempty"`
}

type notesOutput struct {
	Dir      string `json:"dir"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	Tag      string `json:"tag"`
	Manifest string `json:"manifest"`
}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.config()
	notes := notesOutput{
		Dir:      globals.notesDir(),
		Source:   cfg.Notes.Source,
		Summary:  cfg.Notes.Summary,
		Tag:      globals.tag(),
		Manifest: globals.ManifestPath(),
	}

	if globals.Format == "ndjson" {
		return json.NewEncoder(globals.Stdout).Encode(configOutput{
			Type:    "config",
			Format:  cfg.Format,
			Quiet:   cfg.Quiet,
			Verbose: cfg.Verbose,
			Notes:   notes,
			File:    config.ConfigFile(),
		})
	}

	fmt.Fprintln(globals.Stdout, "Current Configuration:")
	fmt.Fprintf(globals.Stdout, "  format:  %s\n", cfg.Format)
	fmt.Fprintf(globals.Stdout, "  quiet:   %t\n", cfg.Quiet)
	fmt.Fprintf(globals.Stdout, "  verbose: %t\n", cfg.Verbose)
	fmt.Fprintln(globals.Stdout, "  Notes:")
	fmt.Fprintf(globals.Stdout, "    dir:      %s\n", notes.Dir)
	fmt.Fprintf(globals.Stdout, "    source:   %s\n", notes.Source)
	fmt.Fprintf(globals.Stdout, "    summary:  %s\n", notes.Summary)
	fmt.Fprintf(globals.Stdout, "    tag:      %s\n", notes.Tag)
	fmt.Fprintf(globals.Stdout, "    manifest: %s\n", notes.Manifest)
	return nil
}

// ConfigPathCmd prints the config file in use
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		return json.NewEncoder(globals.Stdout).Encode(map[string]string{
			"type": "config_path",
			"path": path,
		})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout, "Searched: ./.sessnotesrc, ~/.sessnotesrc, <user config dir>/sessnotes/.sessnotesrc, /etc/sessnotes/.sessnotesrc")
		return nil
	}
	fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	return nil
}

// ConfigGenerateCmd prints a sample configuration file
type ConfigGenerateCmd struct{}

const sampleConfig = `# sessnotes configuration file
# Save as .sessnotesrc in the notes directory or your home directory.
# Every key can also be set with a SESSNOTES_ environment variable
# (SESSNOTES_FORMAT, SESSNOTES_DIR, SESSNOTES_TAG, ...).

# Output format for stage events: text or ndjson
format: text

# Suppress log lines / enable debug logging
quiet: false
verbose: false

notes:
  # Directory holding the notes and the session files
  dir: .
  # Session notes document, relative to dir
  source: session_notes.md
  # Summary document, relative to dir
  summary: summary_session_notes.md
  # Session files are named {date}-{tag}-Session{N}.md
  tag: tts-stt-cursor
  # Manifest path; empty means <dir>/.sessnotes-manifest.json
  manifest: ""
`

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	_, err := fmt.Fprint(globals.Stdout, sampleConfig)
	return err
}
