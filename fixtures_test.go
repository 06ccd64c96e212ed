package nezamcrawler

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const testBaseUrl = "https://example.test/"

// fakeSession serves canned pages. nextPages lists, per navigated url, the
// pages shown after each click on the next page control.
type fakeSession struct {
	pages     map[string]string
	nextPages map[string][]string
	clickErr  error

	current     string
	html        string
	clickIndex  int
	navigations []string
	clicks      int
	closed      bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		pages:     make(map[string]string),
		nextPages: make(map[string][]string),
	}
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	s.navigations = append(s.navigations, url)
	html, ok := s.pages[url]
	if !ok {
		return fmt.Errorf("failed to load page: 404 %s", url)
	}
	s.current, s.html, s.clickIndex = url, html, 0
	return nil
}

func (s *fakeSession) Content(ctx context.Context) (string, error) {
	return s.html, nil
}

func (s *fakeSession) ClickWhenReady(ctx context.Context, selector string, timeout time.Duration) error {
	s.clicks++
	if s.clickErr != nil {
		return s.clickErr
	}
	next := s.nextPages[s.current]
	if s.clickIndex >= len(next) {
		return fmt.Errorf("%w: %s after %v", ErrNavigationTimeout, selector, timeout)
	}
	s.html = next[s.clickIndex]
	s.clickIndex++
	return nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	f.fetched = append(f.fetched, url)
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("failed to fetch %s: StatusCode:404", url)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// newTestCrawler returns a crawler wired to fakes, logging into the buffer.
func newTestCrawler(t *testing.T) (*Crawler, *fakeSession, *fakeFetcher, *bytes.Buffer) {
	t.Helper()
	session := newFakeSession()
	fetcher := &fakeFetcher{pages: make(map[string]string)}
	logs := &bytes.Buffer{}
	crawler := NewCrawler(Engine{DisableLogFile: true, NavigationTimeout: 50 * time.Millisecond}).
		SetLogOutput(logs).
		SetBaseUrl(testBaseUrl).
		SetSession(session).
		SetFetcher(fetcher)
	return crawler, session, fetcher, logs
}

func mustDocument(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

type link struct {
	name string
	href string
}

// Pagination states of a directory page.
const (
	noPagination       = ""
	nextEnabled        = "enabled"
	nextDisabled       = "disabled"
	directoryLinkCells = 3
)

// directoryPage renders a DataTables listing whose anchors sit in the given
// 1-based column.
func directoryPage(column int, links []link, pagination string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table id="DataTables_Table_0"><thead><tr><th>#</th><th>Name</th><th>Link</th></tr></thead><tbody>`)
	for i, l := range links {
		b.WriteString(`<tr role="row">`)
		for c := 1; c <= max(column, directoryLinkCells); c++ {
			if c == column {
				fmt.Fprintf(&b, `<td><a href="%s">%s</a></td>`, l.href, l.name)
			} else {
				fmt.Fprintf(&b, `<td>%d</td>`, i+1)
			}
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
	switch pagination {
	case nextEnabled:
		b.WriteString(`<ul class="pagination"><li class="paginate_button previous disabled"><a href="#">Previous</a></li><li class="paginate_button next" id="DataTables_Table_0_next"><a href="#">Next</a></li></ul>`)
	case nextDisabled:
		b.WriteString(`<ul class="pagination"><li class="paginate_button previous"><a href="#">Previous</a></li><li class="paginate_button next disabled" id="DataTables_Table_0_next"><a href="#">Next</a></li></ul>`)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

type doctorRow struct {
	name, nezam, specialty, location, membership string
}

// listingPage renders a specialty result page. pageHrefs are the numbered
// pagination buttons; the last one is labelled lastLabel.
func listingPage(rows []doctorRow, pageHrefs []string, lastLabel string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="container"><table class="table"><thead><tr><th>#</th><th>Name</th><th>Nezam</th><th>Specialty</th><th>Location</th><th>Status</th></tr></thead><tbody>`)
	for i, r := range rows {
		fmt.Fprintf(&b, `<tr><td>%d</td><td><a href="/doctor/%s">%s</a></td><td><a href="/doctor/%s">%s</a></td><td><a href="#">%s</a></td><td><a href="#">%s</a></td><td><a href="#">%s</a></td></tr>`,
			i+1, r.nezam, r.name, r.nezam, r.nezam, r.specialty, r.location, r.membership)
	}
	b.WriteString(`</tbody></table>`)
	if len(pageHrefs) > 0 {
		b.WriteString(`<div class="col-lg-12 col-md-12">`)
		for i, href := range pageHrefs {
			label := fmt.Sprint(i + 1)
			if i == len(pageHrefs)-1 {
				label = lastLabel
			}
			fmt.Fprintf(&b, `<a class="btn btn-sm btn-round" href="%s">%s</a>`, href, label)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

// doctorRows builds n well formed rows with Nezam ids prefixed by prefix.
func doctorRows(prefix string, n int) []doctorRow {
	rows := make([]doctorRow, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, doctorRow{
			name:       fmt.Sprintf("Doctor %s-%d", prefix, i),
			nezam:      fmt.Sprintf("%s%03d", prefix, i),
			specialty:  "Radiology | Board certified",
			location:   "Mazandaran-Sari",
			membership: "Active",
		})
	}
	return rows
}
