package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/vburojevic/sessnotes/internal/domain"
)

var (
	stageStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Width(7)
	skipStyle  = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// TextWriter writes human-readable lines
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a writer on w
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

func (t *TextWriter) WriteSplit(e *domain.SplitEvent) error {
	date := e.Date
	if date == "" {
		date = "(no date)"
	}
	_, err := fmt.Fprintf(t.w, "%s Session %d  %s  %s\n", stageStyle.Render("split"), e.Session, date, e.Path)
	return err
}

func (t *TextWriter) WriteTrim(e *domain.TrimEvent) error {
	if e.Unchanged {
		_, err := fmt.Fprintln(t.w, skipStyle.Render(fmt.Sprintf("%-7s Session %d  %s  already trimmed", "trim", e.Session, e.Path)))
		return err
	}
	_, err := fmt.Fprintf(t.w, "%s Session %d  %s  (%d -> %d bytes)\n",
		stageStyle.Render("trim"), e.Session, e.Path, e.BytesBefore, e.BytesAfter)
	return err
}

func (t *TextWriter) WriteInject(e *domain.InjectEvent) error {
	if !e.Injected {
		_, err := fmt.Fprintln(t.w, skipStyle.Render(fmt.Sprintf("%-7s Session %d  %s  skipped: %s", "inject", e.Session, e.Path, e.Reason)))
		return err
	}
	levels := lo.Map(e.Selections, func(s domain.Selection, _ int) string {
		return fmt.Sprintf("S%d/L%d", s.Session, s.Level)
	})
	_, err := fmt.Fprintf(t.w, "%s Session %d  %s  [%s]\n",
		stageStyle.Render("inject"), e.Session, e.Path, strings.Join(levels, " "))
	return err
}

func (t *TextWriter) WriteSummary(s *domain.RunSummary) error {
	_, err := fmt.Fprintf(t.w, "%s: %d split, %d trimmed, %d injected, %d skipped\n",
		s.Stage, s.Split, s.Trimmed, s.Injected, s.Skipped)
	return err
}

// WriteError prints "Error [CODE]: message (hint: ...)"
func (t *TextWriter) WriteError(code, message string, hint ...string) error {
	line := fmt.Sprintf("Error [%s]: %s", code, message)
	if len(hint) > 0 && hint[0] != "" {
		line += fmt.Sprintf(" (hint: %s)", hint[0])
	}
	_, err := fmt.Fprintln(t.w, errStyle.Render(line))
	return err
}

var _ Writer = (*TextWriter)(nil)
