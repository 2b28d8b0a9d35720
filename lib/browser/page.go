package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrURLUnchanged = errors.New("url did not change")

const pollInterval = time.Millisecond * 100

// Page drives the single tab of a Browser. every method blocks until its
// action finishes, ctx cancels the wait but never outlives the tab.
type Page struct {
	tab     context.Context
	timeout time.Duration
	network *networkTracker
}

// run executes actions on the tab, bounded by both ctx and timeout.
func (p *Page) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(p.tab, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (p *Page) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func fail(span trace.Span, err error, message string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, message)
	return fmt.Errorf("%s: %w", message, err)
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	ctx, span := p.span(ctx, "page:Navigate", attribute.String("url", url))
	defer span.End()

	p.network.touch()
	err := p.run(ctx, p.timeout, chromedp.Navigate(url))
	if err != nil {
		return fail(span, err, fmt.Sprintf("navigate to %s", url))
	}
	return nil
}

// WaitNetworkIdle blocks until the document has loaded and no request has
// been in flight for 500ms.
func (p *Page) WaitNetworkIdle(ctx context.Context) error {
	ctx, span := p.span(ctx, "page:WaitNetworkIdle")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fail(span, ctx.Err(), "wait for network idle")
		case now := <-ticker.C:
			if !p.network.idle(now) {
				continue
			}
			var state string
			err := p.run(ctx, p.timeout, chromedp.Evaluate(`document.readyState`, &state))
			if err != nil {
				return fail(span, err, "read document state")
			}
			if state == "complete" {
				return nil
			}
		}
	}
}

// ClickLink clicks the first anchor whose text is exactly name.
func (p *Page) ClickLink(ctx context.Context, name string) error {
	ctx, span := p.span(ctx, "page:ClickLink", attribute.String("name", name))
	defer span.End()

	nameJSON, err := json.Marshal(name)
	if err != nil {
		return err
	}
	xpath := fmt.Sprintf(`//a[normalize-space(.)=%s]`, nameJSON)

	p.network.touch()
	err = p.run(ctx, p.timeout, chromedp.Click(xpath, chromedp.BySearch))
	if err != nil {
		return fail(span, err, fmt.Sprintf("click link %q", name))
	}
	return nil
}

func (p *Page) Click(ctx context.Context, sel string) error {
	ctx, span := p.span(ctx, "page:Click", attribute.String("selector", sel))
	defer span.End()

	p.network.touch()
	err := p.run(ctx, p.timeout, chromedp.Click(sel, chromedp.ByQuery))
	if err != nil {
		return fail(span, err, fmt.Sprintf("click %s", sel))
	}
	return nil
}

// ClickNth clicks the i-th element matching sel in document order. nodes
// are queried fresh so it keeps working after navigating back.
func (p *Page) ClickNth(ctx context.Context, sel string, i int) error {
	ctx, span := p.span(ctx, "page:ClickNth", attribute.String("selector", sel), attribute.Int("index", i))
	defer span.End()

	var nodes []*cdp.Node
	err := p.run(ctx, p.timeout, chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll))
	if err != nil {
		return fail(span, err, fmt.Sprintf("query %s", sel))
	}
	if i < 0 || i >= len(nodes) {
		return fail(span, fmt.Errorf("index %d out of range, found %d", i, len(nodes)), fmt.Sprintf("click %s", sel))
	}

	p.network.touch()
	err = p.run(ctx, p.timeout, chromedp.MouseClickNode(nodes[i]))
	if err != nil {
		return fail(span, err, fmt.Sprintf("click %s #%d", sel, i))
	}
	return nil
}

const selectOptionScript = `(function(sel, value) {
	const el = document.querySelector(sel);
	if (!el) return "no element matches " + sel;
	const options = Array.from(el.options);
	const option = options.find(o => o.value === value) ||
		options.find(o => o.label.trim() === value || o.text.trim() === value);
	if (!option) return "no option " + value + " in " + sel;
	el.value = option.value;
	el.dispatchEvent(new Event("input", { bubbles: true }));
	el.dispatchEvent(new Event("change", { bubbles: true }));
	return "";
})`

// SelectOption picks the option of a <select> whose value or label is
// value and fires the input and change events.
func (p *Page) SelectOption(ctx context.Context, sel, value string) error {
	ctx, span := p.span(ctx, "page:SelectOption", attribute.String("selector", sel), attribute.String("value", value))
	defer span.End()

	args, err := json.Marshal([]string{sel, value})
	if err != nil {
		return err
	}

	var problem string
	err = p.run(ctx, p.timeout,
		chromedp.WaitReady(sel, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(`%s(...%s)`, selectOptionScript, args), &problem),
	)
	if err == nil && problem != "" {
		err = errors.New(problem)
	}
	if err != nil {
		return fail(span, err, fmt.Sprintf("select %s", sel))
	}
	return nil
}

func (p *Page) IsChecked(ctx context.Context, sel string) (bool, error) {
	selJSON, err := json.Marshal(sel)
	if err != nil {
		return false, err
	}
	var checked bool
	err = p.run(ctx, p.timeout,
		chromedp.WaitReady(sel, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(`document.querySelector(%s).checked === true`, selJSON), &checked),
	)
	if err != nil {
		return false, fmt.Errorf("read checked state of %s: %w", sel, err)
	}
	return checked, nil
}

// WaitFor waits until an element matching sel exists.
func (p *Page) WaitFor(ctx context.Context, sel string) error {
	ctx, span := p.span(ctx, "page:WaitFor", attribute.String("selector", sel))
	defer span.End()

	err := p.run(ctx, p.timeout, chromedp.WaitReady(sel, chromedp.ByQuery))
	if err != nil {
		return fail(span, err, fmt.Sprintf("wait for %s", sel))
	}
	return nil
}

// Screenshot captures exactly the first element matching sel as png.
func (p *Page) Screenshot(ctx context.Context, sel string) ([]byte, error) {
	ctx, span := p.span(ctx, "page:Screenshot", attribute.String("selector", sel))
	defer span.End()

	var buf []byte
	err := p.run(ctx, p.timeout, chromedp.Screenshot(sel, &buf, chromedp.NodeVisible, chromedp.ByQuery))
	if err != nil {
		return nil, fail(span, err, fmt.Sprintf("screenshot %s", sel))
	}
	span.SetAttributes(attribute.Int("bytes", len(buf)))
	return buf, nil
}

// Fill replaces the value of an input by typing text into it.
func (p *Page) Fill(ctx context.Context, sel, text string) error {
	ctx, span := p.span(ctx, "page:Fill", attribute.String("selector", sel))
	defer span.End()

	err := p.run(ctx, p.timeout,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.Clear(sel, chromedp.ByQuery),
		chromedp.SendKeys(sel, text, chromedp.ByQuery),
	)
	if err != nil {
		return fail(span, err, fmt.Sprintf("fill %s", sel))
	}
	return nil
}

func (p *Page) URL(ctx context.Context) (string, error) {
	var url string
	err := p.run(ctx, p.timeout, chromedp.Location(&url))
	if err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return url, nil
}

// WaitURLChange polls the location until it differs from `from` and
// returns the new url. timeout bounds the wait instead of the page
// default.
func (p *Page) WaitURLChange(ctx context.Context, from string, timeout time.Duration) (string, error) {
	ctx, span := p.span(ctx, "page:WaitURLChange", attribute.String("from", from))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			err := ctx.Err()
			if errors.Is(err, context.DeadlineExceeded) {
				err = fmt.Errorf("%w after %s", ErrURLUnchanged, timeout)
			}
			return "", fail(span, err, "wait for url change")
		case <-ticker.C:
		}

		current, err := p.URL(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			return "", fail(span, err, "wait for url change")
		}
		if current != from {
			span.SetAttributes(attribute.String("to", current))
			return current, nil
		}
	}
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	var html string
	err := p.run(ctx, p.timeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	if err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return html, nil
}

func (p *Page) Back(ctx context.Context) error {
	ctx, span := p.span(ctx, "page:Back")
	defer span.End()

	p.network.touch()
	err := p.run(ctx, p.timeout, chromedp.NavigateBack())
	if err != nil {
		return fail(span, err, "navigate back")
	}
	return nil
}
