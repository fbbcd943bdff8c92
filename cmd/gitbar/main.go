// Package main provides the entry point for the gitbar CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/gitbar/internal/cli"
	"github.com/mrz1836/gitbar/internal/signal"
)

// Build information set via ldflags.
var (
	version = "" //nolint:gochecknoglobals // Set at build time
	commit  = "" //nolint:gochecknoglobals // Set at build time
	date    = "" //nolint:gochecknoglobals // Set at build time
)

func main() {
	handler := signal.NewHandler(context.Background())

	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	err := cli.Execute(handler.Context(), info)
	handler.Stop()

	if handler.Interrupted() {
		os.Exit(cli.ExitInterrupt)
	}
	if err != nil {
		os.Exit(cli.ExitCodeForError(err))
	}
}
