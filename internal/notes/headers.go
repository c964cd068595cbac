package notes

import (
	"regexp"
	"strings"

	"github.com/vburojevic/sessnotes/internal/domain"
)

var (
	// topLevelHeader matches the start of a line beginning with a single "# "
	topLevelHeader = regexp.MustCompile(`(?m)^# `)
	isoDate        = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// ScanHeaders returns every top-level header in content, in document order.
// Offsets are byte offsets of the leading '#'.
func ScanHeaders(content string) []domain.Header {
	locs := topLevelHeader.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return nil
	}

	headers := make([]domain.Header, 0, len(locs))
	line := 1
	last := 0
	for _, loc := range locs {
		start := loc[0]
		line += strings.Count(content[last:start], "\n")
		last = start

		text := content[start:]
		if end := strings.IndexByte(text, '\n'); end >= 0 {
			text = text[:end]
		}
		text = strings.TrimSpace(text)

		headers = append(headers, domain.Header{
			Offset: start,
			Line:   line,
			Text:   text,
			Date:   ExtractDate(text),
		})
	}
	return headers
}

// ExtractDate returns the first YYYY-MM-DD substring of s, or "" if none
func ExtractDate(s string) string {
	return isoDate.FindString(s)
}
