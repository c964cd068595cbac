package notes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/vburojevic/sessnotes/internal/domain"
)

// Splitter creates one full copy of a session document per top-level header
type Splitter struct {
	tag    string
	logger *zap.Logger
	clock  clock.Clock
}

// NewSplitter creates a splitter that names files with the given tag
func NewSplitter(tag string, logger *zap.Logger, clk clock.Clock) *Splitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Splitter{tag: tag, logger: logger, clock: clk}
}

// Split reads sourcePath and writes a verbatim copy of it next to the source
// for every top-level header, returning the created files in header order.
// A document without headers produces no files and no error.
func (s *Splitter) Split(ctx context.Context, sourcePath string) ([]domain.SessionFile, error) {
	s.logger.Info("reading file", zap.String("file", sourcePath))

	info, err := os.Stat(sourcePath)
	if err != nil {
		s.logger.Error("cannot stat source", zap.String("file", sourcePath), zap.Error(err))
		return nil, fmt.Errorf("stat source: %w", err)
	}
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		s.logger.Error("cannot read source", zap.String("file", sourcePath), zap.Error(err))
		return nil, fmt.Errorf("read source: %w", err)
	}

	headers := ScanHeaders(string(data))
	s.logger.Info(fmt.Sprintf("found %d sessions", len(headers)))

	baseDir := filepath.Dir(sourcePath)
	files := make([]domain.SessionFile, 0, len(headers))
	for i, h := range headers {
		if err := ctx.Err(); err != nil {
			return files, err
		}

		session := i + 1
		if h.Date == "" {
			s.logger.Warn("no date found in header", zap.String("header", h.Text), zap.Int("session", session))
		}

		name := domain.SessionFileName(h.Date, s.tag, session)
		path := filepath.Join(baseDir, name)
		if err := copyWithMetadata(path, data, info); err != nil {
			s.logger.Error("cannot write session file", zap.String("file", path), zap.Error(err))
			return files, fmt.Errorf("write %s: %w", name, err)
		}
		s.logger.Info("created "+name, zap.Int("session", session))

		files = append(files, domain.SessionFile{
			Session:   session,
			Date:      h.Date,
			Tag:       s.tag,
			Header:    h.Text,
			Path:      path,
			Stage:     domain.StageSplit,
			UpdatedAt: s.clock.Now().UTC().Format(time.RFC3339),
		})
	}

	s.logger.Info("finished creating session files")
	return files, nil
}

// copyWithMetadata writes data to path keeping the source's permissions and
// modification time.
func copyWithMetadata(path string, data []byte, src os.FileInfo) error {
	if err := os.WriteFile(path, data, src.Mode().Perm()); err != nil {
		return err
	}
	if err := os.Chmod(path, src.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(path, src.ModTime(), src.ModTime())
}
