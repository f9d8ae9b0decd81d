// Package logging builds the structured logger shared by the CLI and the
// pipeline.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Component names attached to log records under the "component" key.
const (
	ComponentCLI      = "cli"
	ComponentPipeline = "pipeline"
	ComponentBatch    = "batch"
	ComponentEncoder  = "encoder"
)

// New returns a tint-backed logger writing to w. Debug records are emitted
// only when verbose is set; otherwise warnings and errors only. Colour is
// enabled when w is a terminal.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(w),
	}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(tint.NewHandler(io.Discard, &tint.Options{Level: slog.LevelError + 1}))
}

// For returns logger tagged with a component name. A nil logger yields
// Discard().
func For(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = Discard()
	}
	return logger.With("component", component)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
