// Package cli implements the statmap command-line interface.
//
// This package provides commands for classifying regional statistics into
// thematic map styling, rendering legends, inspecting datasets, serving the
// HTTP API, and managing the cache. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - classify: Run a map configuration and write per-region styling
//   - legend: Render the legend of a map configuration (SVG, PNG, PDF, JSON)
//   - describe: Print summary statistics and class breaks of a dataset
//   - explore: Interactively try classification methods on a dataset
//   - serve: Start the HTTP API
//   - cache: Manage the dataset, result and legend cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces pipeline stages and cache hits.
//
// # Example
//
//	import "github.com/matzehuels/statmap/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of a stage with the elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Classified 42 regions (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
