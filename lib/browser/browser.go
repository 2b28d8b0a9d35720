package browser

import (
	"context"
	"fmt"
	"log/slog"
	"probate-records/lib/telemetry"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("probate.lib.browser")

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"

type Options struct {
	Headless bool
	// empty uses DefaultUserAgent
	UserAgent string
	// path to a chrome / chromium binary, empty lets chromedp find one
	ExecPath string
	// bound on element and network idle waits, defaults to 30 seconds
	Timeout time.Duration
}

// Browser is one headless chrome process with a single tab.
type Browser struct {
	allocCancel context.CancelFunc
	tabCancel   context.CancelFunc
	page        *Page
}

func slogf(format string, args ...any) {
	slog.Debug(fmt.Sprintf(format, args...), "component", "chromedp")
}

// Launch starts a browser process, the caller must Close it on every
// path.
func Launch(ctx context.Context, opts Options) (*Browser, error) {
	ctx, span := tracer.Start(ctx, "Launch")
	defer span.End()

	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second * 30
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.UserAgent(opts.UserAgent),
		chromedp.WindowSize(1280, 1024),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	// cancelling ctx kills the browser process
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(
		allocCtx,
		chromedp.WithLogf(slogf),
		chromedp.WithErrorf(slogf),
	)

	b := &Browser{
		allocCancel: allocCancel,
		tabCancel:   tabCancel,
		page: &Page{
			tab:     tabCtx,
			timeout: opts.Timeout,
			network: newNetworkTracker(),
		},
	}

	chromedp.ListenTarget(tabCtx, b.page.network.listen)

	// the first Run starts the browser process
	err := chromedp.Run(tabCtx, network.Enable())
	if err != nil {
		b.Close()
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to start browser")
		return nil, fmt.Errorf("start browser: %w", err)
	}

	slog.InfoContext(ctx, "browser started", "headless", opts.Headless)
	return b, nil
}

func (b *Browser) Page() *Page {
	return b.page
}

// Close shuts down the tab and kills the browser process, it is safe to
// call more than once.
func (b *Browser) Close() {
	if b.tabCancel != nil {
		b.tabCancel()
		b.tabCancel = nil
	}
	if b.allocCancel != nil {
		b.allocCancel()
		b.allocCancel = nil
	}
	slog.Debug("browser closed")
}
