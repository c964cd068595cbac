package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/vburojevic/sessnotes/internal/cli"
	"github.com/vburojevic/sessnotes/internal/config"
)

const quickStart = `sessnotes - split session notes into per-session files with summaries

Quick start:
  sessnotes run                         Split, trim and inject in the current directory
  sessnotes split session_notes.md      Only create the per-session copies
  sessnotes status                      List session files and their stage

For help:
  sessnotes --help                      All commands and flags
  sessnotes doctor                      Check the notes before running
  sessnotes schema                      JSON Schema for --format ndjson records
`

func main() {
	// Show quick start if no args provided
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = config.Default()
	}

	var c cli.CLI

	ctx := kong.Parse(&c,
		kong.Name("sessnotes"),
		kong.Description("sessnotes: split a session notes document into per-session files, trim each to its own section, and prepend summaries of earlier sessions"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		cli.Vars(cfg),
	)

	globals := cli.NewGlobalsWithConfig(&c, cfg)
	globals.WarnConfigFallback(cfgErr)
	if err := ctx.Run(globals); err != nil {
		globals.Logger().Debug("command failed", zap.String("command", ctx.Command()), zap.Error(err))
		os.Exit(1)
	}
}
