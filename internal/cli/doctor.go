package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/vburojevic/sessnotes/internal/domain"
	"github.com/vburojevic/sessnotes/internal/notes"
	"github.com/vburojevic/sessnotes/internal/output"
)

// DoctorCmd checks the notes directory for problems before the stages run
type DoctorCmd struct{}

// checkResult is the outcome of a single doctor check
type checkResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // ok, warning, error
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// doctorReport aggregates every check
type doctorReport struct {
	Type       string        `json:"type"` // "doctor"
	Timestamp  string        `json:"timestamp"`
	Checks     []checkResult `json:"checks"`
	AllPassed  bool          `json:"all_passed"`
	ErrorCount int           `json:"error_count"`
	WarnCount  int           `json:"warning_count"`
}

// Run executes the doctor command
func (c *DoctorCmd) Run(globals *Globals) error {
	report := doctorReport{
		Type:      "doctor",
		Timestamp: globals.clock().Now().UTC().Format(time.RFC3339),
	}

	dir := globals.notesDir()
	if c.checkWritePermission(dir) {
		report.add(checkResult{Name: "Notes directory", Status: "ok", Message: dir + " is writable"})
	} else {
		report.add(checkResult{Name: "Notes directory", Status: "error", Message: dir + " is missing or not writable"})
	}

	sourcePath := globals.sourcePath("")
	source, err := os.ReadFile(sourcePath)
	var headers []domain.Header
	if err != nil {
		report.add(checkResult{Name: "Source document", Status: "error", Message: "cannot read " + sourcePath, Details: err.Error()})
	} else {
		headers = notes.ScanHeaders(string(source))
		report.add(c.checkSource(sourcePath, headers))
		report.add(c.checkHeaderScan(source, headers))
	}

	summaryPath := globals.summaryPath("")
	if doc, err := notes.LoadSummaryDocument(summaryPath); err != nil {
		report.add(checkResult{Name: "Summary document", Status: "error", Message: "cannot load " + summaryPath, Details: err.Error()})
	} else {
		report.add(c.checkSummaries(doc, len(headers)))
		report.add(c.checkLevels(doc))
	}

	report.add(c.checkSessionFiles(globals))

	report.AllPassed = report.ErrorCount == 0
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteJSON(report)
	}
	c.printText(globals, report)
	return nil
}

func (r *doctorReport) add(check checkResult) {
	switch check.Status {
	case "error":
		r.ErrorCount++
	case "warning":
		r.WarnCount++
	}
	r.Checks = append(r.Checks, check)
}

func (c *DoctorCmd) checkSource(path string, headers []domain.Header) checkResult {
	if len(headers) == 0 {
		return checkResult{Name: "Source document", Status: "warning", Message: "no '# ' headers in " + path + "; split would create no files"}
	}
	undated := lo.Filter(headers, func(h domain.Header, _ int) bool { return h.Date == "" })
	if len(undated) > 0 {
		lines := lo.Map(undated, func(h domain.Header, _ int) string { return strconv.Itoa(h.Line) })
		return checkResult{
			Name:    "Source document",
			Status:  "warning",
			Message: fmt.Sprintf("%d sessions, %d without a date", len(headers), len(undated)),
			Details: "undated headers on lines " + strings.Join(lines, ", "),
		}
	}
	return checkResult{Name: "Source document", Status: "ok", Message: fmt.Sprintf("%d sessions", len(headers))}
}

// checkHeaderScan compares the line-based header scan the stages use against
// a real markdown parse. Lines starting with "# " inside fenced code (shell
// comments, for instance) are counted as sessions by the scan.
func (c *DoctorCmd) checkHeaderScan(source []byte, headers []domain.Header) checkResult {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var headings int
	var code [][2]int
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 {
				headings++
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				code = append(code, [2]int{seg.Start, seg.Stop})
			}
		}
		return ast.WalkContinue, nil
	})

	inCode := lo.Filter(headers, func(h domain.Header, _ int) bool {
		return lo.SomeBy(code, func(r [2]int) bool { return h.Offset >= r[0] && h.Offset < r[1] })
	})
	if len(inCode) > 0 {
		lines := lo.Map(inCode, func(h domain.Header, _ int) string { return strconv.Itoa(h.Line) })
		return checkResult{
			Name:    "Header scan",
			Status:  "warning",
			Message: fmt.Sprintf("%d '# ' lines are inside code blocks and will be treated as sessions", len(inCode)),
			Details: "lines " + strings.Join(lines, ", "),
		}
	}
	if headings != len(headers) {
		return checkResult{
			Name:    "Header scan",
			Status:  "warning",
			Message: fmt.Sprintf("line scan found %d headers, markdown parse found %d level-1 headings", len(headers), headings),
			Details: "setext ('===') headings are not treated as sessions",
		}
	}
	return checkResult{Name: "Header scan", Status: "ok", Message: "line scan matches markdown headings"}
}

// checkSummaries verifies every session that has a successor also has a summary block
func (c *DoctorCmd) checkSummaries(doc *notes.SummaryDocument, sessions int) checkResult {
	have := doc.Sessions()
	if len(have) == 0 {
		return checkResult{Name: "Summary document", Status: "warning", Message: "no '**Session N**' blocks; inject would change nothing"}
	}
	needed := lo.RangeFrom(1, max(0, sessions-1))
	missing := lo.Without(needed, have...)
	if len(missing) > 0 {
		nums := lo.Map(missing, func(n int, _ int) string { return strconv.Itoa(n) })
		return checkResult{
			Name:    "Summary document",
			Status:  "warning",
			Message: fmt.Sprintf("%d summary blocks, %d sessions without a summary", len(have), len(missing)),
			Details: "missing sessions " + strings.Join(nums, ", "),
		}
	}
	return checkResult{Name: "Summary document", Status: "ok", Message: fmt.Sprintf("%d summary blocks", len(have))}
}

func (c *DoctorCmd) checkLevels(doc *notes.SummaryDocument) checkResult {
	var gaps []string
	for _, b := range doc.Blocks() {
		for _, level := range []domain.SummaryLevel{domain.SummaryLevel1, domain.SummaryLevel2, domain.SummaryLevel3} {
			if _, ok := notes.LevelText(b.Body, level); !ok {
				gaps = append(gaps, fmt.Sprintf("session %d level %d (line %d)", b.Session, level, b.Line))
			}
		}
	}
	if len(gaps) > 0 {
		return checkResult{
			Name:    "Summary levels",
			Status:  "warning",
			Message: fmt.Sprintf("%d level sections missing", len(gaps)),
			Details: strings.Join(gaps, "; "),
		}
	}
	return checkResult{Name: "Summary levels", Status: "ok", Message: "every block has levels 1-3"}
}

func (c *DoctorCmd) checkSessionFiles(globals *Globals) checkResult {
	tracker, err := globals.tracker()
	if err != nil {
		return checkResult{Name: "Session files", Status: "error", Message: "cannot load manifest", Details: err.Error()}
	}
	files, err := tracker.SessionFiles(globals.notesDir(), globals.tag())
	if err != nil {
		return checkResult{Name: "Session files", Status: "error", Message: "cannot list session files", Details: err.Error()}
	}

	missing := lo.Filter(files, func(f domain.SessionFile, _ int) bool {
		_, err := os.Stat(f.Path)
		return err != nil
	})
	if len(missing) > 0 {
		names := lo.Map(missing, func(f domain.SessionFile, _ int) string { return f.Name() })
		return checkResult{
			Name:    "Session files",
			Status:  "error",
			Message: fmt.Sprintf("%d files in the manifest are missing", len(missing)),
			Details: strings.Join(names, ", "),
		}
	}

	source := "filename discovery"
	if tracker.HasManifest() {
		source = "manifest " + tracker.Path()
	}
	stages := lo.CountValuesBy(files, func(f domain.SessionFile) domain.Stage { return f.Stage })
	return checkResult{
		Name:    "Session files",
		Status:  "ok",
		Message: fmt.Sprintf("%d files via %s", len(files), source),
		Details: fmt.Sprintf("split=%d trimmed=%d injected=%d", stages[domain.StageSplit], stages[domain.StageTrimmed], stages[domain.StageInjected]),
	}
}

// checkWritePermission reports whether a file can be created in dir
func (c *DoctorCmd) checkWritePermission(dir string) bool {
	f, err := os.CreateTemp(dir, ".sessnotes-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

func (c *DoctorCmd) printText(globals *Globals, report doctorReport) {
	fmt.Fprintln(globals.Stdout, "sessnotes doctor")
	fmt.Fprintln(globals.Stdout)
	for _, check := range report.Checks {
		symbol := "✓"
		switch check.Status {
		case "warning":
			symbol = "!"
		case "error":
			symbol = "✗"
		}
		fmt.Fprintf(globals.Stdout, "  %s %-18s %s\n", symbol, check.Name, check.Message)
		if check.Details != "" {
			fmt.Fprintf(globals.Stdout, "    %s\n", check.Details)
		}
	}
	fmt.Fprintln(globals.Stdout)
	fmt.Fprintf(globals.Stdout, "%d errors, %d warnings\n", report.ErrorCount, report.WarnCount)
}
