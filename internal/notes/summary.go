package notes

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/vburojevic/sessnotes/internal/domain"
)

const (
	summaryMarkerPrefix = "**Session"
	levelHeadingFormat  = "### Level %d Summary"
	levelTerminator     = "###"

	// Banners wrapped around injected summaries
	PreviousSummariesBanner = "# Previous Session Summaries"
	CurrentContentBanner    = "# Current Session Content"
)

var summarySessionNumber = regexp.MustCompile(`Session (\d+)`)

// SummaryDocument holds the per-session blocks of a summary document in
// document order.
type SummaryDocument struct {
	blocks []domain.SummaryBlock
}

// LoadSummaryDocument reads and parses the summary document at path
func LoadSummaryDocument(path string) (*SummaryDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read summary document: %w", err)
	}
	return ParseSummaryDocument(string(data))
}

// ParseSummaryDocument splits content into blocks, each starting at a line
// that begins with "**Session". Lines before the first marker are ignored,
// as are blocks with no lines and blocks numbered below 1.
func ParseSummaryDocument(content string) (*SummaryDocument, error) {
	var (
		blocks     []domain.SummaryBlock
		current    []string
		session    int
		markerLine int
	)
	flush := func() {
		if session > 0 && len(current) > 0 {
			blocks = append(blocks, domain.SummaryBlock{
				Session: session,
				Line:    markerLine,
				Body:    strings.Join(current, "\n"),
			})
		}
	}

	for i, line := range strings.Split(content, "\n") {
		if !strings.HasPrefix(line, summaryMarkerPrefix) {
			current = append(current, line)
			continue
		}

		flush()
		current = nil

		m := summarySessionNumber.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedSummary, i+1, line)
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedSummary, i+1, err)
		}
		session = n
		markerLine = i + 1
	}
	flush()

	return &SummaryDocument{blocks: blocks}, nil
}

// Blocks returns the parsed blocks in document order
func (d *SummaryDocument) Blocks() []domain.SummaryBlock {
	return append([]domain.SummaryBlock(nil), d.blocks...)
}

// Sessions returns the distinct session numbers present, in document order
func (d *SummaryDocument) Sessions() []int {
	return lo.Uniq(lo.Map(d.blocks, func(b domain.SummaryBlock, _ int) int {
		return b.Session
	}))
}

// LevelText extracts the text under "### Level N Summary" in a block body, up
// to the next "###" or the end of the block. ok is false when the heading is
// missing.
func LevelText(body string, level domain.SummaryLevel) (text string, ok bool) {
	if !level.Valid() {
		return "", false
	}
	heading := fmt.Sprintf(levelHeadingFormat, int(level))
	idx := strings.Index(body, heading)
	if idx < 0 {
		return "", false
	}
	rest := body[idx+len(heading):]
	if end := strings.Index(rest, levelTerminator); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}

// Select picks the summaries to inject ahead of the given session: Level 1
// for every session before N-2, Level 2 for N-2 and Level 3 for N-1.
func (d *SummaryDocument) Select(session int) []domain.Selection {
	var selections []domain.Selection

	older := max(1, session-2) - 1
	for _, i := range lo.RangeFrom(1, older) {
		selections = append(selections, d.selectLevel(i, domain.SummaryLevel1)...)
	}
	if session > 2 {
		selections = append(selections, d.selectLevel(session-2, domain.SummaryLevel2)...)
	}
	if session > 1 {
		selections = append(selections, d.selectLevel(session-1, domain.SummaryLevel3)...)
	}
	return selections
}

func (d *SummaryDocument) selectLevel(session int, level domain.SummaryLevel) []domain.Selection {
	matching := lo.Filter(d.blocks, func(b domain.SummaryBlock, _ int) bool {
		return b.Session == session
	})
	return lo.FilterMap(matching, func(b domain.SummaryBlock, _ int) (domain.Selection, bool) {
		text, ok := LevelText(b.Body, level)
		return domain.Selection{Session: session, Level: level, Text: text}, ok
	})
}

// RenderSelections formats selections as "## Summary of Session N (Level L)" sections
func RenderSelections(selections []domain.Selection) string {
	return strings.Join(lo.Map(selections, func(s domain.Selection, _ int) string {
		return fmt.Sprintf("## Summary of Session %d (Level %d)\n%s\n", s.Session, s.Level, s.Text)
	}), "\n")
}

// Inject places rendered summaries between the first line of content and the
// rest of it. It returns content unchanged and false when summaries is empty.
func Inject(content, summaries string) (string, bool) {
	if summaries == "" {
		return content, false
	}

	header, body, _ := strings.Cut(content, "\n")
	return strings.Join([]string{
		header,
		"",
		PreviousSummariesBanner,
		"",
		summaries,
		"",
		CurrentContentBanner,
		"",
		body,
	}, "\n"), true
}
