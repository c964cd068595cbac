package domain

// SplitEvent is emitted for every session file created by the splitter
type SplitEvent struct {
	Type          string `json:"type"`          // "split"
	SchemaVersion int    `json:"schemaVersion"` // 1
	RunID         string `json:"run_id,omitempty"`
	Session       int    `json:"session"`
	Date          string `json:"date,omitempty"`
	Path          string `json:"path"`
	Header        string `json:"header"`
	Dated         bool   `json:"dated"`
	Timestamp     string `json:"timestamp"`
}

// TrimEvent is emitted after a session file was cut down to its own section
type TrimEvent struct {
	Type          string `json:"type"` // "trim"
	SchemaVersion int    `json:"schemaVersion"`
	RunID         string `json:"run_id,omitempty"`
	Session       int    `json:"session"`
	Path          string `json:"path"`
	BytesBefore   int    `json:"bytes_before"`
	BytesAfter    int    `json:"bytes_after"`
	Headers       int    `json:"headers"`             // Top-level headers found before trimming
	Unchanged     bool   `json:"unchanged,omitempty"` // Already trimmed by an earlier run
	Timestamp     string `json:"timestamp"`
}

// InjectEvent is emitted for every session file processed by the injector
type InjectEvent struct {
	Type          string      `json:"type"` // "inject"
	SchemaVersion int         `json:"schemaVersion"`
	RunID         string      `json:"run_id,omitempty"`
	Session       int         `json:"session"`
	Path          string      `json:"path"`
	Injected      bool        `json:"injected"`
	Reason        string      `json:"reason,omitempty"` // no_summaries, already_injected
	Selections    []Selection `json:"selections,omitempty"`
	Timestamp     string      `json:"timestamp"`
}

// RunSummary is emitted once a stage (or the full pipeline) completes
type RunSummary struct {
	Type          string `json:"type"` // "summary"
	SchemaVersion int    `json:"schemaVersion"`
	RunID         string `json:"run_id,omitempty"`
	Stage         string `json:"stage"` // split, trim, inject, run
	Split         int    `json:"split"`
	Trimmed       int    `json:"trimmed"`
	Injected      int    `json:"injected"`
	Skipped       int    `json:"skipped"`
	Timestamp     string `json:"timestamp"`
}
