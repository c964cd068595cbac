package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/vburojevic/sessnotes/internal/domain"
)

var (
	sessionInName = regexp.MustCompile(`Session(\d+)`)
	dateInName    = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-`)
)

// ErrNoSessionNumber is returned when a filename carries no Session<N> marker
var ErrNoSessionNumber = errors.New("no session number in filename")

// ParseSessionNumber extracts N from a filename containing "Session<N>"
func ParseSessionNumber(name string) (int, error) {
	m := sessionInName.FindStringSubmatch(name)
	if m == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoSessionNumber, name)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrNoSessionNumber, name, err)
	}
	return n, nil
}

// Discover globs dir for dated and undated session files named with tag and
// returns them sorted by filename. Stage is inferred from the content, see
// inferStage.
func Discover(dir, tag string) ([]domain.SessionFile, error) {
	patterns := []string{
		filepath.Join(dir, "*-"+tag+"-Session*.md"),
		filepath.Join(dir, tag+"-Session*.md"),
	}

	seen := map[string]struct{}{}
	var files []domain.SessionFile
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, path := range matches {
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}

			name := filepath.Base(path)
			n, err := ParseSessionNumber(name)
			if err != nil {
				return nil, err
			}
			f := domain.SessionFile{
				Session: n,
				Tag:     tag,
				Path:    path,
				Stage:   inferStage(path),
			}
			if m := dateInName.FindStringSubmatch(name); m != nil {
				f.Date = m[1]
			}
			files = append(files, f)
		}
	}

	SortByName(files)
	return files, nil
}

const injectedBanner = "\n# Previous Session Summaries\n"

var topLevelHeader = regexp.MustCompile(`(?m)^# `)

// inferStage guesses how far a file got: the summaries banner means
// injected, a single top-level header means trimmed.
func inferStage(path string) domain.Stage {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.StageSplit
	}
	content := string(b)
	if strings.Contains(content, injectedBanner) {
		return domain.StageInjected
	}
	if len(topLevelHeader.FindAllStringIndex(content, 2)) == 1 {
		return domain.StageTrimmed
	}
	return domain.StageSplit
}
