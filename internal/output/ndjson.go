package output

import (
	"encoding/json"
	"io"

	"github.com/vburojevic/sessnotes/internal/domain"
)

// SchemaVersion is the version of every NDJSON record this package writes
const SchemaVersion = 1

// Writer is implemented by both output formats
type Writer interface {
	WriteSplit(*domain.SplitEvent) error
	WriteTrim(*domain.TrimEvent) error
	WriteInject(*domain.InjectEvent) error
	WriteSummary(*domain.RunSummary) error
	WriteError(code, message string, hint ...string) error
}

// ErrorOutput is the NDJSON record for a failure
type ErrorOutput struct {
	Type          string `json:"type"` // "error"
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	Hint          string `json:"hint,omitempty"`
}

// NDJSONWriter writes one JSON object per line
type NDJSONWriter struct {
	enc *json.Encoder
}

// NewNDJSONWriter creates a writer on w
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{enc: json.NewEncoder(w)}
}

func (w *NDJSONWriter) WriteSplit(e *domain.SplitEvent) error   { return w.enc.Encode(e) }
func (w *NDJSONWriter) WriteTrim(e *domain.TrimEvent) error     { return w.enc.Encode(e) }
func (w *NDJSONWriter) WriteInject(e *domain.InjectEvent) error { return w.enc.Encode(e) }
func (w *NDJSONWriter) WriteSummary(s *domain.RunSummary) error { return w.enc.Encode(s) }

// WriteJSON encodes an arbitrary record on its own line
func (w *NDJSONWriter) WriteJSON(v interface{}) error { return w.enc.Encode(v) }

// WriteError writes an error record; only the first hint is kept
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	out := ErrorOutput{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		out.Hint = hint[0]
	}
	return w.enc.Encode(out)
}

var _ Writer = (*NDJSONWriter)(nil)
