package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/samber/lo"

	"github.com/vburojevic/sessnotes/internal/domain"
)

// ManifestFileName is the default manifest name inside the notes directory
const ManifestFileName = ".sessnotes-manifest.json"

// ErrStageRegression is returned when a session file would move back to an earlier stage
var ErrStageRegression = errors.New("session stage cannot move backwards")

// ErrUnknownSession is returned when the manifest has no record of a session
var ErrUnknownSession = errors.New("session not in manifest")

// Manifest is the persisted record of the session files a split produced
type Manifest struct {
	Type          string               `json:"type"` // "manifest"
	SchemaVersion int                  `json:"schemaVersion"`
	Source        string               `json:"source,omitempty"`
	Tag           string               `json:"tag"`
	Files         []domain.SessionFile `json:"files"` // Paths relative to the manifest's directory
	UpdatedAt     string               `json:"updated_at,omitempty"`
}

// Tracker keeps the manifest of session files and their stages
type Tracker struct {
	path     string
	clock    clock.Clock
	manifest *Manifest
	loaded   bool
}

// DefaultManifestPath returns the manifest location for a notes directory
func DefaultManifestPath(dir string) string {
	return filepath.Join(dir, ManifestFileName)
}

// NewTracker loads the manifest at path. A missing manifest yields an empty
// tracker; HasManifest reports false until Record is called.
func NewTracker(path string, clk clock.Clock) (*Tracker, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("manifest path is required")
	}
	if clk == nil {
		clk = clock.New()
	}

	t := &Tracker{path: path, clock: clk, manifest: &Manifest{Type: "manifest", SchemaVersion: 1}}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	t.manifest = &m
	t.loaded = true
	return t, nil
}

// Path returns the manifest location
func (t *Tracker) Path() string { return t.path }

// HasManifest reports whether the tracker holds a manifest from disk or a split
func (t *Tracker) HasManifest() bool { return t.loaded }

// Manifest returns a copy of the current manifest
func (t *Tracker) Manifest() Manifest {
	m := *t.manifest
	m.Files = append([]domain.SessionFile(nil), t.manifest.Files...)
	return m
}

// Record replaces the manifest with the files produced by a split. Paths are
// stored relative to the manifest's directory.
func (t *Tracker) Record(source, tag string, files []domain.SessionFile) {
	t.manifest = &Manifest{
		Type:          "manifest",
		SchemaVersion: 1,
		Source:        t.relative(source),
		Tag:           tag,
		Files: lo.Map(files, func(f domain.SessionFile, _ int) domain.SessionFile {
			f.Path = t.relative(f.Path)
			return f
		}),
		UpdatedAt: t.now(),
	}
	t.loaded = true
}

// Files returns the tracked files sorted by filename, with paths usable from
// the current working directory
func (t *Tracker) Files() []domain.SessionFile {
	files := lo.Map(t.manifest.Files, func(f domain.SessionFile, _ int) domain.SessionFile {
		return t.resolved(f)
	})
	SortByName(files)
	return files
}

// Lookup returns the record for a session number
func (t *Tracker) Lookup(session int) (domain.SessionFile, bool) {
	f, ok := lo.Find(t.manifest.Files, func(f domain.SessionFile) bool {
		return f.Session == session
	})
	if !ok {
		return f, false
	}
	return t.resolved(f), true
}

// relative rewrites path relative to the manifest's directory, keeping it
// as-is when no relative form exists
func (t *Tracker) relative(path string) string {
	if path == "" {
		return path
	}
	base, err := filepath.Abs(filepath.Dir(t.path))
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return abs
	}
	return rel
}

func (t *Tracker) resolved(f domain.SessionFile) domain.SessionFile {
	if !filepath.IsAbs(f.Path) {
		f.Path = filepath.Join(filepath.Dir(t.path), f.Path)
	}
	return f
}

// Advance moves a session to stage. Staying at the same stage is allowed;
// moving back is not.
func (t *Tracker) Advance(session int, stage domain.Stage) error {
	_, idx, ok := lo.FindIndexOf(t.manifest.Files, func(f domain.SessionFile) bool {
		return f.Session == session
	})
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownSession, session)
	}

	f := &t.manifest.Files[idx]
	if stage.Order() < f.Stage.Order() {
		return fmt.Errorf("%w: session %d is %s, cannot become %s", ErrStageRegression, session, f.Stage, stage)
	}
	f.Stage = stage
	f.UpdatedAt = t.now()
	t.manifest.UpdatedAt = f.UpdatedAt
	return nil
}

// Save writes the manifest to disk
func (t *Tracker) Save() error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(t.manifest, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(t.path, b, 0o644)
}

// SessionFiles returns the files later stages should process: the manifest
// when one exists, otherwise whatever Discover finds in dir.
func (t *Tracker) SessionFiles(dir, tag string) ([]domain.SessionFile, error) {
	if t.loaded {
		return t.Files(), nil
	}
	return Discover(dir, tag)
}

func (t *Tracker) now() string {
	return t.clock.Now().UTC().Format(time.RFC3339)
}

// SortByName orders files by base filename, the order the stages process them in
func SortByName(files []domain.SessionFile) {
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Name() < files[j].Name()
	})
}
