package notes

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/vburojevic/sessnotes/internal/domain"
)

// Skip reasons reported by the injector
const (
	ReasonNoSummaries     = "no_summaries"
	ReasonAlreadyInjected = "already_injected"
)

// InjectResult describes what happened to a single session file
type InjectResult struct {
	Injected   bool
	Reason     string
	Selections []domain.Selection
}

// Injector prepends tiered summaries from a summary document to session files
type Injector struct {
	summaries *SummaryDocument
	logger    *zap.Logger
}

// NewInjector creates an injector backed by an already parsed summary document
func NewInjector(summaries *SummaryDocument, logger *zap.Logger) *Injector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Injector{summaries: summaries, logger: logger}
}

// InjectFile rewrites f with the summaries selected for its session number.
// Files with nothing to inject are left untouched.
func (in *Injector) InjectFile(ctx context.Context, f domain.SessionFile) (*InjectResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Session < 1 {
		return nil, fmt.Errorf("%s: %w: %d", f.Name(), ErrInvalidSessionNumber, f.Session)
	}
	if f.Stage == domain.StageInjected {
		in.logger.Warn("summaries already injected, skipping "+f.Name(), zap.Int("session", f.Session))
		return &InjectResult{Reason: ReasonAlreadyInjected}, nil
	}

	selections := in.summaries.Select(f.Session)
	if len(selections) == 0 {
		in.logger.Debug("no summaries for "+f.Name(), zap.Int("session", f.Session))
		return &InjectResult{Reason: ReasonNoSummaries}, nil
	}

	info, err := os.Stat(f.Path)
	if err != nil {
		in.logger.Error("error processing "+f.Name(), zap.Error(err))
		return nil, fmt.Errorf("stat %s: %w", f.Name(), err)
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		in.logger.Error("error processing "+f.Name(), zap.Error(err))
		return nil, fmt.Errorf("read %s: %w", f.Name(), err)
	}

	updated, _ := Inject(string(data), RenderSelections(selections))
	if err := os.WriteFile(f.Path, []byte(updated), info.Mode().Perm()); err != nil {
		in.logger.Error("error processing "+f.Name(), zap.Error(err))
		return nil, fmt.Errorf("write %s: %w", f.Name(), err)
	}
	in.logger.Info("added summaries to "+f.Name(), zap.Int("session", f.Session), zap.Int("summaries", len(selections)))

	return &InjectResult{Injected: true, Selections: selections}, nil
}
