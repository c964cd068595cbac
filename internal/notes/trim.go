package notes

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/vburojevic/sessnotes/internal/domain"
)

// Trim returns the section of content that belongs to the given 1-based
// session: from the start of its top-level header up to the next top-level
// header (or end of content), with surrounding whitespace removed.
func Trim(content string, session int) (string, error) {
	return trimAt(content, ScanHeaders(content), session)
}

func trimAt(content string, headers []domain.Header, session int) (string, error) {
	if session < 1 {
		return "", fmt.Errorf("%w: %d", ErrInvalidSessionNumber, session)
	}
	if len(headers) == 0 {
		return "", ErrNoHeaders
	}
	if session > len(headers) {
		return "", fmt.Errorf("%w: session %d, %d headers", ErrSessionOutOfRange, session, len(headers))
	}

	start := headers[session-1].Offset
	end := len(content)
	if session < len(headers) {
		end = headers[session].Offset
	}
	return strings.TrimSpace(content[start:end]), nil
}

// TrimResult describes a single trimmed file
type TrimResult struct {
	BytesBefore int
	BytesAfter  int
	Headers     int
	Unchanged   bool // File was already trimmed
}

// Trimmer rewrites session files in place so they only hold their own section
type Trimmer struct {
	logger *zap.Logger
}

// NewTrimmer creates a trimmer
func NewTrimmer(logger *zap.Logger) *Trimmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trimmer{logger: logger}
}

// TrimFile recomputes header offsets from the file's current content and
// overwrites it with the span belonging to f.Session.
func (t *Trimmer) TrimFile(ctx context.Context, f domain.SessionFile) (*TrimResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Stage == domain.StageInjected {
		t.logger.Error("refusing to trim injected file", zap.String("file", f.Name()), zap.Int("session", f.Session))
		return nil, fmt.Errorf("%s: %w", f.Name(), ErrAlreadyInjected)
	}

	info, err := os.Stat(f.Path)
	if err != nil {
		t.logger.Error("error processing "+f.Name(), zap.Error(err))
		return nil, fmt.Errorf("stat %s: %w", f.Name(), err)
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		t.logger.Error("error processing "+f.Name(), zap.Error(err))
		return nil, fmt.Errorf("read %s: %w", f.Name(), err)
	}

	content := string(data)
	headers := ScanHeaders(content)

	// A trimmed file only holds its own header, so header N no longer exists
	if f.Stage == domain.StageTrimmed {
		t.logger.Debug("already trimmed "+f.Name(), zap.Int("session", f.Session))
		return &TrimResult{
			BytesBefore: len(data),
			BytesAfter:  len(data),
			Headers:     len(headers),
			Unchanged:   true,
		}, nil
	}
	trimmed, err := trimAt(content, headers, f.Session)
	if err != nil {
		t.logger.Error("error processing "+f.Name(), zap.Int("session", f.Session), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", f.Name(), err)
	}

	if err := os.WriteFile(f.Path, []byte(trimmed), info.Mode().Perm()); err != nil {
		t.logger.Error("error processing "+f.Name(), zap.Error(err))
		return nil, fmt.Errorf("write %s: %w", f.Name(), err)
	}
	t.logger.Info("cleaned "+f.Name(), zap.Int("session", f.Session))

	return &TrimResult{
		BytesBefore: len(data),
		BytesAfter:  len(trimmed),
		Headers:     len(headers),
	}, nil
}
