package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vburojevic/sessnotes/internal/config"
	"github.com/vburojevic/sessnotes/internal/notes"
	"github.com/vburojevic/sessnotes/internal/output"
	"github.com/vburojevic/sessnotes/internal/session"
)

// CLI is the root command
type CLI struct {
	Format   string `short:"f" enum:"ndjson,text" default:"${config_format}" help:"Output format for stage events on stdout (ndjson, text); log lines always go to stderr"`
	Quiet    bool   `short:"q" default:"${config_quiet}" help:"Suppress log lines (written to stderr, not stdout, so event output stays parseable)"`
	Verbose  bool   `short:"v" default:"${config_verbose}" help:"Enable debug logging"`
	Dir      string `short:"d" default:"${config_dir}" help:"Directory holding the notes and session files"`
	Tag      string `default:"${config_tag}" help:"Tag used in session filenames ({date}-{tag}-Session{N}.md)"`
	Manifest string `default:"${config_manifest}" help:"Manifest path (default: <dir>/.sessnotes-manifest.json)"`

	Split  SplitCmd  `cmd:"" help:"Create one full copy of the notes per top-level header"`
	Trim   TrimCmd   `cmd:"" help:"Cut every session file down to its own section"`
	Inject InjectCmd `cmd:"" help:"Prepend tiered summaries of earlier sessions"`
	All    RunCmd    `cmd:"" name:"run" help:"Run split, trim and inject in order"`

	Status StatusCmd `cmd:"" help:"List session files and their stage"`
	Show   ShowCmd   `cmd:"" help:"Print a session file"`
	Doctor DoctorCmd `cmd:"" help:"Check notes, summaries and session files for problems"`
	Schema SchemaCmd `cmd:"" help:"Output JSON Schema for NDJSON records"`

	Config  ConfigCmd  `cmd:"" help:"Show or generate configuration"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// Vars returns the kong variables that seed flag defaults from configuration
func Vars(cfg *config.Config) kong.Vars {
	if cfg == nil {
		cfg = config.Default()
	}
	return kong.Vars{
		"config_format":   cfg.Format,
		"config_quiet":    strconv.FormatBool(cfg.Quiet),
		"config_verbose":  strconv.FormatBool(cfg.Verbose),
		"config_dir":      cfg.Notes.Dir,
		"config_tag":      cfg.Notes.Tag,
		"config_manifest": cfg.Notes.Manifest,
	}
}

// Globals carries resolved global flags and shared services into every command
type Globals struct {
	Format   string
	Quiet    bool
	Verbose  bool
	Dir      string
	Tag      string
	Manifest string

	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config
	Clock  clock.Clock
	RunID  string

	logger *zap.Logger
}

// NewGlobalsWithConfig creates Globals from parsed flags, falling back to config
func NewGlobalsWithConfig(c *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Globals{
		Format:   c.Format,
		Quiet:    c.Quiet,
		Verbose:  c.Verbose,
		Dir:      c.Dir,
		Tag:      c.Tag,
		Manifest: c.Manifest,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Config:   cfg,
		Clock:    clock.New(),
		RunID:    uuid.NewString(),
	}
	if g.Format == "" {
		g.Format = cfg.Format
	}
	if g.Dir == "" {
		g.Dir = cfg.Notes.Dir
	}
	if g.Tag == "" {
		g.Tag = cfg.Notes.Tag
	}
	return g
}

// Logger returns the process logger, building it on first use
func (g *Globals) Logger() *zap.Logger {
	if g.logger == nil {
		g.logger = newLogger(g)
	}
	return g.logger
}

// WarnConfigFallback logs that the config file could not be loaded and
// defaults are in use. A nil err logs nothing.
func (g *Globals) WarnConfigFallback(err error) {
	if err == nil {
		return
	}
	g.Logger().Warn("config file ignored, using defaults",
		zap.String("file", config.ConfigFile()), zap.Error(err))
}

// Debug logs a formatted debug line
func (g *Globals) Debug(format string, args ...interface{}) {
	g.Logger().Sugar().Debugf(format, args...)
}

// Writer returns the event writer for the selected format
func (g *Globals) Writer() output.Writer {
	if g.Format == "ndjson" {
		return output.NewNDJSONWriter(g.Stdout)
	}
	return output.NewTextWriter(g.Stdout)
}

func (g *Globals) config() *config.Config {
	if g.Config == nil {
		return config.Default()
	}
	return g.Config
}

func (g *Globals) notesDir() string {
	if g.Dir == "" {
		return "."
	}
	return g.Dir
}

func (g *Globals) tag() string {
	if g.Tag == "" {
		return g.config().Notes.Tag
	}
	return g.Tag
}

// ManifestPath returns the manifest location for this invocation
func (g *Globals) ManifestPath() string {
	if g.Manifest != "" {
		return g.Manifest
	}
	return session.DefaultManifestPath(g.notesDir())
}

// sourcePath returns arg when given, otherwise the configured source inside the notes dir
func (g *Globals) sourcePath(arg string) string {
	if arg != "" {
		return arg
	}
	return g.inNotesDir(g.config().Notes.Source)
}

// summaryPath returns arg when given, otherwise the configured summary inside the notes dir
func (g *Globals) summaryPath(arg string) string {
	if arg != "" {
		return arg
	}
	return g.inNotesDir(g.config().Notes.Summary)
}

func (g *Globals) inNotesDir(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(g.notesDir(), name)
}

func (g *Globals) clock() clock.Clock {
	if g.Clock == nil {
		return clock.New()
	}
	return g.Clock
}

func (g *Globals) tracker() (*session.Tracker, error) {
	t, err := session.NewTracker(g.ManifestPath(), g.clock())
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	return t, nil
}

func (g *Globals) pipeline() (*notes.Pipeline, error) {
	t, err := g.tracker()
	if err != nil {
		return nil, err
	}
	return notes.NewPipeline(notes.Options{
		Dir:      g.notesDir(),
		Tag:      g.tag(),
		RunID:    g.RunID,
		Logger:   g.Logger(),
		Clock:    g.clock(),
		Tracker:  t,
		Reporter: g.Writer(),
	})
}

// signalContext returns a context cancelled on SIGINT/SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
