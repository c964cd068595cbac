package notes

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/vburojevic/sessnotes/internal/domain"
	"github.com/vburojevic/sessnotes/internal/session"
)

// SchemaVersion is stamped on every event the pipeline reports
const SchemaVersion = 1

// Reporter receives stage events as the pipeline runs
type Reporter interface {
	WriteSplit(*domain.SplitEvent) error
	WriteTrim(*domain.TrimEvent) error
	WriteInject(*domain.InjectEvent) error
	WriteSummary(*domain.RunSummary) error
}

// Options configures a Pipeline
type Options struct {
	Dir      string // Directory holding session files
	Tag      string // Filename tag
	RunID    string
	Logger   *zap.Logger
	Clock    clock.Clock
	Tracker  *session.Tracker
	Reporter Reporter // Optional
}

// Pipeline runs the split, trim and inject stages against one notes directory
type Pipeline struct {
	dir      string
	tag      string
	runID    string
	logger   *zap.Logger
	clock    clock.Clock
	tracker  *session.Tracker
	reporter Reporter
}

// NewPipeline creates a pipeline. Tracker is required.
func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.Tracker == nil {
		return nil, fmt.Errorf("pipeline: tracker is required")
	}
	if opts.Tag == "" {
		return nil, fmt.Errorf("pipeline: tag is required")
	}
	p := &Pipeline{
		dir:      opts.Dir,
		tag:      opts.Tag,
		runID:    opts.RunID,
		logger:   opts.Logger,
		clock:    opts.Clock,
		tracker:  opts.Tracker,
		reporter: opts.Reporter,
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.clock == nil {
		p.clock = clock.New()
	}
	if p.dir == "" {
		p.dir = "."
	}
	if p.runID != "" {
		p.logger = p.logger.With(zap.String("run_id", p.runID))
	}
	return p, nil
}

// Split runs the splitter on source and records the produced files in the manifest
func (p *Pipeline) Split(ctx context.Context, source string) ([]domain.SessionFile, error) {
	files, err := NewSplitter(p.tag, p.logger, p.clock).Split(ctx, source)
	if err != nil {
		return nil, err
	}

	p.tracker.Record(source, p.tag, files)
	if err := p.tracker.Save(); err != nil {
		p.logger.Error("cannot save manifest", zap.String("file", p.tracker.Path()), zap.Error(err))
		return nil, fmt.Errorf("save manifest: %w", err)
	}

	for _, f := range files {
		if err := p.report(func(r Reporter) error {
			return r.WriteSplit(&domain.SplitEvent{
				Type:          "split",
				SchemaVersion: SchemaVersion,
				RunID:         p.runID,
				Session:       f.Session,
				Date:          f.Date,
				Path:          f.Path,
				Header:        f.Header,
				Dated:         f.Date != "",
				Timestamp:     p.now(),
			})
		}); err != nil {
			return nil, err
		}
	}
	return files, nil
}

// Trim trims every session file (or only the listed sessions) in filename order
func (p *Pipeline) Trim(ctx context.Context, only []int) (int, error) {
	files, err := p.selectFiles(only)
	if err != nil {
		return 0, err
	}

	trimmer := NewTrimmer(p.logger)
	count := 0
	for _, f := range files {
		res, err := trimmer.TrimFile(ctx, f)
		if err != nil {
			return count, err
		}
		count++
		if err := p.advance(f.Session, domain.StageTrimmed); err != nil {
			return count, err
		}
		if err := p.report(func(r Reporter) error {
			return r.WriteTrim(&domain.TrimEvent{
				Type:          "trim",
				SchemaVersion: SchemaVersion,
				RunID:         p.runID,
				Session:       f.Session,
				Path:          f.Path,
				BytesBefore:   res.BytesBefore,
				BytesAfter:    res.BytesAfter,
				Headers:       res.Headers,
				Unchanged:     res.Unchanged,
				Timestamp:     p.now(),
			})
		}); err != nil {
			return count, err
		}
	}
	return count, p.saveManifest()
}

// Inject adds summaries from summaryPath to every session file (or only the
// listed sessions). It returns the number of files changed and skipped.
func (p *Pipeline) Inject(ctx context.Context, summaryPath string, only []int) (injected, skipped int, err error) {
	doc, err := LoadSummaryDocument(summaryPath)
	if err != nil {
		p.logger.Error("cannot load summary document", zap.String("file", summaryPath), zap.Error(err))
		return 0, 0, err
	}
	files, err := p.selectFiles(only)
	if err != nil {
		return 0, 0, err
	}

	injector := NewInjector(doc, p.logger)
	for _, f := range files {
		res, err := injector.InjectFile(ctx, f)
		if err != nil {
			return injected, skipped, err
		}
		if res.Injected {
			injected++
			if err := p.advance(f.Session, domain.StageInjected); err != nil {
				return injected, skipped, err
			}
		} else {
			skipped++
		}
		if err := p.report(func(r Reporter) error {
			return r.WriteInject(&domain.InjectEvent{
				Type:          "inject",
				SchemaVersion: SchemaVersion,
				RunID:         p.runID,
				Session:       f.Session,
				Path:          f.Path,
				Injected:      res.Injected,
				Reason:        res.Reason,
				Selections:    res.Selections,
				Timestamp:     p.now(),
			})
		}); err != nil {
			return injected, skipped, err
		}
	}
	return injected, skipped, p.saveManifest()
}

// Run executes split, trim and inject in order
func (p *Pipeline) Run(ctx context.Context, source, summaryPath string) (*domain.RunSummary, error) {
	files, err := p.Split(ctx, source)
	if err != nil {
		return nil, err
	}
	trimmed, err := p.Trim(ctx, nil)
	if err != nil {
		return nil, err
	}
	injected, skipped, err := p.Inject(ctx, summaryPath, nil)
	if err != nil {
		return nil, err
	}

	summary := p.Summary("run")
	summary.Split = len(files)
	summary.Trimmed = trimmed
	summary.Injected = injected
	summary.Skipped = skipped
	return summary, p.report(func(r Reporter) error { return r.WriteSummary(summary) })
}

// Summary returns an empty RunSummary stamped for this run
func (p *Pipeline) Summary(stage string) *domain.RunSummary {
	return &domain.RunSummary{
		Type:          "summary",
		SchemaVersion: SchemaVersion,
		RunID:         p.runID,
		Stage:         stage,
		Timestamp:     p.now(),
	}
}

// Files returns the session files the later stages would process
func (p *Pipeline) Files() ([]domain.SessionFile, error) {
	return p.tracker.SessionFiles(p.dir, p.tag)
}

func (p *Pipeline) selectFiles(only []int) ([]domain.SessionFile, error) {
	files, err := p.Files()
	if err != nil {
		p.logger.Error("cannot list session files", zap.String("dir", p.dir), zap.Error(err))
		return nil, err
	}
	if len(only) == 0 {
		return files, nil
	}
	return lo.Filter(files, func(f domain.SessionFile, _ int) bool {
		return lo.Contains(only, f.Session)
	}), nil
}

func (p *Pipeline) advance(sessionNum int, stage domain.Stage) error {
	if !p.tracker.HasManifest() {
		return nil
	}
	if err := p.tracker.Advance(sessionNum, stage); err != nil {
		p.logger.Error("cannot update manifest", zap.Int("session", sessionNum), zap.Error(err))
		return err
	}
	return nil
}

func (p *Pipeline) saveManifest() error {
	if !p.tracker.HasManifest() {
		return nil
	}
	if err := p.tracker.Save(); err != nil {
		p.logger.Error("cannot save manifest", zap.String("file", p.tracker.Path()), zap.Error(err))
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}

func (p *Pipeline) report(fn func(Reporter) error) error {
	if p.reporter == nil {
		return nil
	}
	return fn(p.reporter)
}

func (p *Pipeline) now() string {
	return p.clock.Now().UTC().Format(time.RFC3339)
}
