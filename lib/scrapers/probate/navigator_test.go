package probate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"probate-records/lib/timezone"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const emptyResults = `<html><body><p>No records found.</p></body></html>`

type fakePage struct {
	results  string
	caseHTML string
	checked  map[string]bool
	// url after a case link is clicked, "" means the page never changes
	caseURL string

	url      string
	onCase   bool
	calls    []string
	selected map[string]string
	filled   map[string]string
}

func newFakePage(results, caseHTML string) *fakePage {
	return &fakePage{
		results:  results,
		caseHTML: caseHTML,
		checked: map[string]bool{
			"#checkCaseType-PC": true,
			"#checkCaseType-PG": false,
			"#checkCaseType-PR": true,
			"#checkCaseType-PM": true,
			"#checkCaseType-PT": true,
		},
		caseURL:  "https://probate.test/caseDetail.php",
		selected: map[string]string{},
		filled:   map[string]string{},
	}
}

func (p *fakePage) record(format string, args ...any) {
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.record("navigate %s", url)
	p.url = url
	return nil
}

func (p *fakePage) WaitNetworkIdle(ctx context.Context) error {
	return nil
}

func (p *fakePage) ClickLink(ctx context.Context, name string) error {
	p.record("link %s", name)
	return nil
}

func (p *fakePage) Click(ctx context.Context, sel string) error {
	p.record("click %s", sel)
	if _, ok := p.checked[sel]; ok {
		p.checked[sel] = !p.checked[sel]
	}
	return nil
}

func (p *fakePage) ClickNth(ctx context.Context, sel string, i int) error {
	p.record("click %s %d", sel, i)
	if p.caseURL != "" {
		p.url = fmt.Sprintf("%s?i=%d", p.caseURL, i)
		p.onCase = true
	}
	return nil
}

func (p *fakePage) SelectOption(ctx context.Context, sel, value string) error {
	p.selected[sel] = value
	return nil
}

func (p *fakePage) IsChecked(ctx context.Context, sel string) (bool, error) {
	return p.checked[sel], nil
}

func (p *fakePage) WaitFor(ctx context.Context, sel string) error {
	return nil
}

func (p *fakePage) Screenshot(ctx context.Context, sel string) ([]byte, error) {
	p.record("screenshot %s", sel)
	return []byte("png"), nil
}

func (p *fakePage) Fill(ctx context.Context, sel, text string) error {
	p.filled[sel] = text
	return nil
}

func (p *fakePage) URL(ctx context.Context) (string, error) {
	return p.url, nil
}

func (p *fakePage) WaitURLChange(ctx context.Context, from string, timeout time.Duration) (string, error) {
	if p.url == from {
		return "", context.DeadlineExceeded
	}
	return p.url, nil
}

func (p *fakePage) HTML(ctx context.Context) (string, error) {
	if p.onCase {
		return p.caseHTML, nil
	}
	return p.results, nil
}

func (p *fakePage) Back(ctx context.Context) error {
	p.record("back")
	p.onCase = false
	p.url = "https://probate.test/results"
	return nil
}

type fakeSolver struct {
	text string
	err  error
}

func (s fakeSolver) SolveImage(ctx context.Context, image []byte) (string, error) {
	return s.text, s.err
}

type progressReporter struct {
	progress [][2]int
}

func (r *progressReporter) Status(ctx context.Context, message string) {}

func (r *progressReporter) Progress(ctx context.Context, done, total int) {
	r.progress = append(r.progress, [2]int{done, total})
}

func readTestdata(t testing.TB, name string) string {
	contents, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	return string(contents)
}

func newTestNavigator(page Page, solver Solver, reporter *progressReporter) *Navigator {
	n := NewNavigator(page, solver, reporter, Options{
		BaseUrl:     "https://probate.test/recordSearch.php",
		CaseTimeout: time.Second,
	})
	n.sleep = func(ctx context.Context, d time.Duration) error {
		return ctx.Err()
	}
	return n
}

var testDate = time.Date(2024, time.January, 8, 0, 0, 0, 0, timezone.Location)

func TestRunFillsSearchForm(t *testing.T) {
	page := newFakePage(emptyResults, "")
	n := newTestNavigator(page, fakeSolver{text: "x7k2p"}, &progressReporter{})

	result, err := n.Run(context.Background(), testDate)
	require.NoError(t, err)
	require.Equal(t, 0, result.Len())

	require.Equal(t, map[string]string{
		"#searchFMonth": "1",
		"#searchFDay":   "8",
		"#searchFYear":  "2024",
	}, page.selected)
	require.Equal(t, "x7k2p", page.filled["#captchaResponse"])
	for sel, checked := range page.checked {
		require.False(t, checked, sel)
	}

	require.Equal(t, []string{
		"navigate https://probate.test/recordSearch.php",
		"link Continue",
		"click #checkCaseType-PC",
		"click #checkCaseType-PR",
		"click #checkCaseType-PM",
		"click #checkCaseType-PT",
		"screenshot #captchaImage",
		"click #buttonSubmit",
	}, page.calls)
}

func TestRunCaptchaFailureSkipsSubmit(t *testing.T) {
	cases := []struct {
		name   string
		solver fakeSolver
	}{
		{name: "empty solution", solver: fakeSolver{}},
		{name: "solver error", solver: fakeSolver{err: errors.New("service unavailable")}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			page := newFakePage(readTestdata(t, "testdata/results.html"), "")
			n := newTestNavigator(page, c.solver, &progressReporter{})

			result, err := n.Run(context.Background(), testDate)
			require.ErrorIs(t, err, ErrCaptchaUnsolved)
			require.Equal(t, 0, result.Len())
			require.False(t, slices.Contains(page.calls, "click #buttonSubmit"))
			require.Empty(t, page.filled)
		})
	}
}

func TestRunScrapesEveryCase(t *testing.T) {
	page := newFakePage(
		readTestdata(t, "testdata/results.html"),
		readTestdata(t, "testdata/case.html"),
	)
	reporter := &progressReporter{}
	n := newTestNavigator(page, fakeSolver{text: "x7k2p"}, reporter)

	result, err := n.Run(context.Background(), testDate)
	require.NoError(t, err)
	require.Equal(t, 2, result.Len())
	require.Equal(t, [][2]int{{1, 2}, {2, 2}}, reporter.progress)

	for _, record := range result.Records() {
		status, _ := record.Get("case_status")
		require.Equal(t, "OPEN", status)
		caseNumber, _ := record.Get("Case Number")
		require.Equal(t, "2024 ES 00012", caseNumber)
		city, _ := record.Get("Mailing_City")
		require.Equal(t, "Dayton", city)
		_, ok := record.Get("Mailing_Location")
		require.False(t, ok)
	}

	require.Equal(t, 2, countCalls(page.calls, "back"))
	require.Contains(t, page.calls, "click a.caseLink 0")
	require.Contains(t, page.calls, "click a.caseLink 1")
}

func TestRunCaseNavigationTimeout(t *testing.T) {
	page := newFakePage(
		readTestdata(t, "testdata/results.html"),
		readTestdata(t, "testdata/case.html"),
	)
	page.caseURL = ""
	n := newTestNavigator(page, fakeSolver{text: "x7k2p"}, &progressReporter{})

	result, err := n.Run(context.Background(), testDate)
	require.ErrorIs(t, err, ErrCaseNavigation)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 0, result.Len())
	require.Equal(t, 0, countCalls(page.calls, "back"))
}

func countCalls(calls []string, call string) int {
	count := 0
	for _, c := range calls {
		if c == call {
			count++
		}
	}
	return count
}
