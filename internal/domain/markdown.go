package domain

// Header is a top-level ("# ") header found in a session document
type Header struct {
	Offset int    // Byte offset of the '#' in the document
	Line   int    // 1-based line number
	Text   string // Header line without the trailing newline
	Date   string // First YYYY-MM-DD substring of Text, empty if none
}

// SummaryLevel is the granularity of a session summary (1 = coarsest, 3 = finest)
type SummaryLevel int

const (
	SummaryLevel1 SummaryLevel = 1
	SummaryLevel2 SummaryLevel = 2
	SummaryLevel3 SummaryLevel = 3
)

// Valid reports whether the level is one of the three known tiers
func (l SummaryLevel) Valid() bool {
	return l >= SummaryLevel1 && l <= SummaryLevel3
}

// SummaryBlock is the text following a "**Session N**" marker in the summary document
type SummaryBlock struct {
	Session int
	Line    int // 1-based line of the marker
	Body    string
}

// Selection is one summary chosen for injection into a session file
type Selection struct {
	Session int          `json:"session"`
	Level   SummaryLevel `json:"level"`
	Text    string       `json:"-"`
}
