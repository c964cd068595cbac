package cli

// SplitCmd creates one full copy of the session notes per top-level header
type SplitCmd struct {
	Source string `arg:"" optional:"" help:"Session notes document (default: <dir>/session_notes.md)"`
}

// Run executes the split command
func (c *SplitCmd) Run(globals *Globals) error {
	if err := validateFlags(globals, nil); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	p, err := globals.pipeline()
	if err != nil {
		return failWith(globals, err)
	}
	source := globals.sourcePath(c.Source)
	globals.Debug("splitting %s", source)

	files, err := p.Split(ctx, source)
	if err != nil {
		return failWith(globals, err)
	}

	summary := p.Summary("split")
	summary.Split = len(files)
	return globals.Writer().WriteSummary(summary)
}

// TrimCmd cuts each session file down to its own section
type TrimCmd struct {
	Session []int `short:"n" help:"Only trim these session numbers (can be repeated)"`
}

// Run executes the trim command
func (c *TrimCmd) Run(globals *Globals) error {
	if err := validateFlags(globals, c.Session); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	p, err := globals.pipeline()
	if err != nil {
		return failWith(globals, err)
	}

	trimmed, err := p.Trim(ctx, c.Session)
	if err != nil {
		return failWith(globals, err)
	}

	summary := p.Summary("trim")
	summary.Trimmed = trimmed
	return globals.Writer().WriteSummary(summary)
}

// InjectCmd prepends tiered summaries to each session file
type InjectCmd struct {
	Summary string `short:"s" help:"Summary document (default: <dir>/summary_session_notes.md)"`
	Session []int  `short:"n" help:"Only inject into these session numbers (can be repeated)"`
}

// Run executes the inject command
func (c *InjectCmd) Run(globals *Globals) error {
	if err := validateFlags(globals, c.Session); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	p, err := globals.pipeline()
	if err != nil {
		return failWith(globals, err)
	}

	injected, skipped, err := p.Inject(ctx, globals.summaryPath(c.Summary), c.Session)
	if err != nil {
		return failWith(globals, err)
	}

	summary := p.Summary("inject")
	summary.Injected = injected
	summary.Skipped = skipped
	return globals.Writer().WriteSummary(summary)
}

// RunCmd runs split, trim and inject in order
type RunCmd struct {
	Source  string `arg:"" optional:"" help:"Session notes document (default: <dir>/session_notes.md)"`
	Summary string `short:"s" help:"Summary document (default: <dir>/summary_session_notes.md)"`
}

// Run executes the full pipeline
func (c *RunCmd) Run(globals *Globals) error {
	if err := validateFlags(globals, nil); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	p, err := globals.pipeline()
	if err != nil {
		return failWith(globals, err)
	}

	if _, err := p.Run(ctx, globals.sourcePath(c.Source), globals.summaryPath(c.Summary)); err != nil {
		return failWith(globals, err)
	}
	return nil
}
