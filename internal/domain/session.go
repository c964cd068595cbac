package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Stage records how far a session file has progressed through the pipeline
type Stage string

const (
	StageSplit    Stage = "split"
	StageTrimmed  Stage = "trimmed"
	StageInjected Stage = "injected"
)

// Order returns the position of the stage in the pipeline (0 = unknown)
func (s Stage) Order() int {
	switch s {
	case StageSplit:
		return 1
	case StageTrimmed:
		return 2
	case StageInjected:
		return 3
	default:
		return 0
	}
}

// ParseStage converts a string to a Stage, case-insensitive
func ParseStage(s string) Stage {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "split":
		return StageSplit
	case "trimmed", "trim":
		return StageTrimmed
	case "injected", "inject":
		return StageInjected
	default:
		return Stage("")
	}
}

// SessionFile is one per-session markdown file produced by the splitter.
// The session number travels with the record so later stages never have to
// re-derive it from the filename.
type SessionFile struct {
	Session   int    `json:"session"`              // 1-based header position in the source document
	Date      string `json:"date,omitempty"`       // YYYY-MM-DD taken from the header, if any
	Tag       string `json:"tag"`                  // Fixed filename tag (e.g. tts-stt-cursor)
	Header    string `json:"header,omitempty"`     // Header line text
	Path      string `json:"path"`                 // Location on disk
	Stage     Stage  `json:"stage"`                // Last completed stage
	UpdatedAt string `json:"updated_at,omitempty"` // ISO8601 timestamp of the last stage change
}

// Name returns the base filename
func (f SessionFile) Name() string {
	return filepath.Base(f.Path)
}

// SessionFileName builds "{date}-{tag}-Session{N}.md", or "{tag}-Session{N}.md"
// when the header carried no date.
func SessionFileName(date, tag string, session int) string {
	if date == "" {
		return fmt.Sprintf("%s-Session%d.md", tag, session)
	}
	return fmt.Sprintf("%s-%s-Session%d.md", date, tag, session)
}
