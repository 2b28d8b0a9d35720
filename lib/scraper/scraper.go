package scraper

import (
	"context"
	"log/slog"
)

// browser driven scrapers are inherently stateful, the page the browser is
// on is an implied input of every step.

// each step generally has this structure:
// 1. act on the page (navigate, click, select, fill).
// 2. wait for the page to settle (network idle, url change, element present).
// 3. make assertions on the state of the page.
// 4. read the page html and transform it into output with goquery selectors.

// the transform in step 4 never touches the browser, so it can be tested
// against saved html.

// Reporter receives the user facing status of a run.
type Reporter interface {
	// Status reports the step the scraper is on.
	Status(ctx context.Context, message string)
	// Progress reports that `done` of `total` items are finished.
	Progress(ctx context.Context, done, total int)
}

// SlogReporter reports through the default logger.
type SlogReporter struct{}

func (SlogReporter) Status(ctx context.Context, message string) {
	slog.InfoContext(ctx, message)
}

func (SlogReporter) Progress(ctx context.Context, done, total int) {
	slog.InfoContext(ctx, "progress", "done", done, "total", total)
}
