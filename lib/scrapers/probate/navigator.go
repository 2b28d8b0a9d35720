package probate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"probate-records/lib/htmlutil"
	"probate-records/lib/records"
	"probate-records/lib/scraper"
	"probate-records/lib/timezone"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseUrl     = "https://probate.clarkcountyohio.gov/recordSearch.php"
	DefaultCaseTimeout = time.Minute

	agreementLinkName = "Continue"
	monthSelector     = "#searchFMonth"
	daySelector       = "#searchFDay"
	yearSelector      = "#searchFYear"
	submitSelector    = "#buttonSubmit"
	caseLinkSelector  = "a.caseLink"
)

// case types left checked on the form by default, all of them are excluded
// from the search.
var caseTypes = []string{"PC", "PG", "PR", "PM", "PT"}

var ErrCaseNavigation = errors.New("failed to open case")

// Page is the browser tab the navigator drives.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitNetworkIdle(ctx context.Context) error
	ClickLink(ctx context.Context, name string) error
	Click(ctx context.Context, sel string) error
	ClickNth(ctx context.Context, sel string, i int) error
	SelectOption(ctx context.Context, sel, value string) error
	IsChecked(ctx context.Context, sel string) (bool, error)
	WaitFor(ctx context.Context, sel string) error
	Screenshot(ctx context.Context, sel string) ([]byte, error)
	Fill(ctx context.Context, sel, text string) error
	URL(ctx context.Context) (string, error)
	WaitURLChange(ctx context.Context, from string, timeout time.Duration) (string, error)
	HTML(ctx context.Context) (string, error)
	Back(ctx context.Context) error
}

type Options struct {
	BaseUrl     string
	CaseTimeout time.Duration
}

type Navigator struct {
	page     Page
	solver   Solver
	reporter scraper.Reporter
	opts     Options
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewNavigator(page Page, solver Solver, reporter scraper.Reporter, opts Options) *Navigator {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.CaseTimeout == 0 {
		opts.CaseTimeout = DefaultCaseTimeout
	}
	if reporter == nil {
		reporter = scraper.SlogReporter{}
	}
	return &Navigator{
		page:     page,
		solver:   solver,
		reporter: reporter,
		opts:     opts,
		sleep:    sleep,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func fail(span trace.Span, err error, message string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, message)
	return err
}

// Run searches the portal for the cases filed on the given day and scrapes
// every case in the results. the first error aborts the run, no partial
// results are returned.
func (n *Navigator) Run(ctx context.Context, date time.Time) (records.ResultSet, error) {
	date = timezone.Day(date)
	ctx, span := tracer.Start(ctx, "Navigator:Run", trace.WithAttributes(
		attribute.String("date", date.Format(time.DateOnly)),
	))
	defer span.End()

	err := n.openSearch(ctx)
	if err != nil {
		return records.ResultSet{}, fail(span, err, "failed to open search form")
	}
	err = n.fillSearch(ctx, date)
	if err != nil {
		return records.ResultSet{}, fail(span, err, "failed to fill search form")
	}
	err = n.solveCaptcha(ctx)
	if err != nil {
		return records.ResultSet{}, fail(span, err, "failed to solve captcha")
	}

	n.reporter.Status(ctx, "Submitting search...")
	err = n.page.Click(ctx, submitSelector)
	if err != nil {
		return records.ResultSet{}, fail(span, err, "failed to submit search")
	}
	err = n.page.WaitNetworkIdle(ctx)
	if err != nil {
		return records.ResultSet{}, fail(span, err, "failed to wait for results")
	}

	result, err := n.scrapeCases(ctx)
	if err != nil {
		return records.ResultSet{}, fail(span, err, "failed to scrape cases")
	}
	span.SetAttributes(attribute.Int("cases", result.Len()))
	return result, nil
}

func (n *Navigator) openSearch(ctx context.Context) error {
	n.reporter.Status(ctx, "Opening search page...")
	err := n.page.Navigate(ctx, n.opts.BaseUrl)
	if err != nil {
		return err
	}
	err = n.page.WaitNetworkIdle(ctx)
	if err != nil {
		return err
	}

	n.reporter.Status(ctx, "Accepting terms...")
	err = n.page.ClickLink(ctx, agreementLinkName)
	if err != nil {
		return err
	}
	err = n.page.WaitNetworkIdle(ctx)
	if err != nil {
		return err
	}
	return n.sleep(ctx, 2*time.Second)
}

func (n *Navigator) fillSearch(ctx context.Context, date time.Time) error {
	n.reporter.Status(ctx, fmt.Sprintf("Searching for cases filed %s...", date.Format("01/02/2006")))

	dateFields := []struct {
		sel   string
		value int
	}{
		{monthSelector, int(date.Month())},
		{daySelector, date.Day()},
		{yearSelector, date.Year()},
	}
	for _, f := range dateFields {
		err := n.page.SelectOption(ctx, f.sel, strconv.Itoa(f.value))
		if err != nil {
			return err
		}
	}

	for _, caseType := range caseTypes {
		sel := fmt.Sprintf("#checkCaseType-%s", caseType)
		checked, err := n.page.IsChecked(ctx, sel)
		if err != nil {
			return err
		}
		if !checked {
			continue
		}
		err = n.page.Click(ctx, sel)
		if err != nil {
			return err
		}
		err = n.sleep(ctx, 500*time.Millisecond)
		if err != nil {
			return err
		}
	}
	return nil
}

func (n *Navigator) scrapeCases(ctx context.Context) (records.ResultSet, error) {
	html, err := n.page.HTML(ctx)
	if err != nil {
		return records.ResultSet{}, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return records.ResultSet{}, err
	}
	links := doc.Find(caseLinkSelector)
	anchors := htmlutil.GetAnchors(ctx, links)
	total := links.Length()

	n.reporter.Status(ctx, fmt.Sprintf("Found %d cases", total))
	if total == 0 {
		return records.ResultSet{}, nil
	}

	aggregator := records.NewAggregator()
	for i := 0; i < total; i++ {
		name := ""
		if i < len(anchors) {
			name = anchors[i].Name
		}
		err := n.scrapeCase(ctx, aggregator, i, name)
		if err != nil {
			return records.ResultSet{}, err
		}
		n.reporter.Progress(ctx, i+1, total)
	}
	return aggregator.Result(), nil
}

func (n *Navigator) scrapeCase(ctx context.Context, aggregator *records.Aggregator, i int, name string) error {
	ctx, span := tracer.Start(ctx, "Navigator:scrapeCase", trace.WithAttributes(
		attribute.Int("index", i),
		attribute.String("name", name),
	))
	defer span.End()

	from, err := n.page.URL(ctx)
	if err != nil {
		return fail(span, err, "failed to read url")
	}
	err = n.page.ClickNth(ctx, caseLinkSelector, i)
	if err != nil {
		return fail(span, fmt.Errorf("%w %d: %w", ErrCaseNavigation, i, err), "failed to click case")
	}
	to, err := n.page.WaitURLChange(ctx, from, n.opts.CaseTimeout)
	if err != nil {
		return fail(span, fmt.Errorf("%w %d: %w", ErrCaseNavigation, i, err), "case page did not open")
	}
	slog.DebugContext(ctx, "opened case", "index", i, "name", name, "url", to)

	html, err := n.page.HTML(ctx)
	if err != nil {
		return fail(span, err, "failed to read case page")
	}
	reader, err := NewSectionReaderFromString(html)
	if err != nil {
		return fail(span, err, "failed to parse case page")
	}
	c := reader.Case(ctx)
	record := aggregator.Add(c.Status, c.Decedent, c.Fiduciary, c.CaseInformation)
	casesCounter.Add(ctx, 1)
	span.SetAttributes(attribute.Int("fields", record.Len()))

	err = n.page.Back(ctx)
	if err != nil {
		return fail(span, err, "failed to go back to results")
	}
	err = n.page.WaitNetworkIdle(ctx)
	if err != nil {
		return fail(span, err, "failed to wait for results")
	}
	err = n.page.WaitFor(ctx, caseLinkSelector)
	if err != nil {
		return fail(span, err, "results did not reload")
	}
	return nil
}
