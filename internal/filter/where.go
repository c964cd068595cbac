package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vburojevic/sessnotes/internal/domain"
)

// WhereClause represents a parsed --where condition
type WhereClause struct {
	Field    string
	Operator string
	Value    string
	regex    *regexp.Regexp // Compiled regex for ~ and !~ operators
}

// ParseWhereClause parses a where clause like "stage=trimmed" or "session>=3"
// Supported operators: =, !=, ~, !~, >=, <=, ^, $
func ParseWhereClause(clause string) (*WhereClause, error) {
	// Try operators in order of length (longest first to avoid partial matches)
	operators := []string{"!~", ">=", "<=", "!=", "~", "=", "^", "$"}

	for _, op := range operators {
		idx := strings.Index(clause, op)
		if idx > 0 {
			field := strings.TrimSpace(clause[:idx])
			value := strings.TrimSpace(clause[idx+len(op):])

			if field == "" || value == "" {
				return nil, fmt.Errorf("invalid where clause: %s", clause)
			}

			wc := &WhereClause{
				Field:    strings.ToLower(field),
				Operator: op,
				Value:    value,
			}

			if op == "~" || op == "!~" {
				re, err := regexp.Compile(value)
				if err != nil {
					return nil, fmt.Errorf("invalid regex in where clause '%s': %w", clause, err)
				}
				wc.regex = re
			}

			if (op == ">=" || op == "<=") && wc.Field == "session" {
				if _, err := strconv.Atoi(value); err != nil {
					return nil, fmt.Errorf("session comparison needs a number in where clause '%s'", clause)
				}
			}

			return wc, nil
		}
	}

	return nil, fmt.Errorf("no valid operator found in where clause: %s (use =, !=, ~, !~, >=, <=, ^, $)", clause)
}

// Match checks if a session file matches this where clause
func (wc *WhereClause) Match(f domain.SessionFile) bool {
	fieldValue := wc.getFieldValue(f)

	switch wc.Operator {
	case "=":
		return fieldValue == wc.Value
	case "!=":
		return fieldValue != wc.Value
	case "~":
		return wc.regex.MatchString(fieldValue)
	case "!~":
		return !wc.regex.MatchString(fieldValue)
	case "^":
		return strings.HasPrefix(fieldValue, wc.Value)
	case "$":
		return strings.HasSuffix(fieldValue, wc.Value)
	case ">=":
		return wc.compare(f) >= 0
	case "<=":
		return wc.compare(f) <= 0
	}

	return false
}

func (wc *WhereClause) getFieldValue(f domain.SessionFile) string {
	switch wc.Field {
	case "session":
		return strconv.Itoa(f.Session)
	case "date":
		return f.Date
	case "stage":
		return string(f.Stage)
	case "name", "file":
		return f.Name()
	case "path":
		return f.Path
	case "header":
		return f.Header
	case "tag":
		return f.Tag
	default:
		return ""
	}
}

// compare orders the file's field against the clause value: sessions
// numerically, stages by pipeline order, anything else lexically.
func (wc *WhereClause) compare(f domain.SessionFile) int {
	switch wc.Field {
	case "session":
		target, _ := strconv.Atoi(wc.Value)
		return f.Session - target
	case "stage":
		return f.Stage.Order() - domain.ParseStage(wc.Value).Order()
	default:
		return strings.Compare(wc.getFieldValue(f), wc.Value)
	}
}

// WhereFilter is a filter that applies multiple where clauses (AND logic)
type WhereFilter struct {
	clauses []*WhereClause
}

// NewWhereFilter creates a filter from multiple where clause strings.
// No clauses yields a nil filter, which matches everything.
func NewWhereFilter(whereClauses []string) (*WhereFilter, error) {
	if len(whereClauses) == 0 {
		return nil, nil
	}

	filter := &WhereFilter{}
	for _, clause := range whereClauses {
		wc, err := ParseWhereClause(clause)
		if err != nil {
			return nil, err
		}
		filter.clauses = append(filter.clauses, wc)
	}

	return filter, nil
}

// Match returns true if the file matches ALL where clauses
func (f *WhereFilter) Match(file domain.SessionFile) bool {
	if f == nil {
		return true
	}
	for _, clause := range f.clauses {
		if !clause.Match(file) {
			return false
		}
	}
	return true
}

// Apply returns the files that match
func (f *WhereFilter) Apply(files []domain.SessionFile) []domain.SessionFile {
	var out []domain.SessionFile
	for _, file := range files {
		if f.Match(file) {
			out = append(out, file)
		}
	}
	return out
}
