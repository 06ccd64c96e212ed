package nezamcrawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpecialty = "Radiology"

// setupProvince serves a province with city A, listing the specialty on its
// second specialty page across three result pages, and city B without it.
func setupProvince(t *testing.T, session *fakeSession, fetcher *fakeFetcher) {
	t.Helper()
	session.pages[testBaseUrl+"directory"] = directoryPage(3, []link{
		{name: "Gilan", href: "province/gilan"},
		{name: "Mazandaran", href: "province/mazandaran"},
	}, noPagination)
	session.pages[testBaseUrl+"province/mazandaran"] = directoryPage(2, []link{
		{name: "A", href: "city/a"},
		{name: "B", href: "city/b"},
	}, noPagination)

	session.pages[testBaseUrl+"city/a"] = directoryPage(2, []link{{name: "Surgery", href: "specialty/a/surgery"}}, nextEnabled)
	session.nextPages[testBaseUrl+"city/a"] = []string{
		directoryPage(2, []link{{name: testSpecialty, href: "specialty/a/radiology"}}, nextDisabled),
	}
	session.pages[testBaseUrl+"city/b"] = directoryPage(2, []link{{name: "Surgery", href: "specialty/b/surgery"}}, nextDisabled)

	hrefs := pageHrefs("/doctors/a/radiology/", 3)
	session.pages[testBaseUrl+"specialty/a/radiology"] = listingPage(doctorRows("1", 10), hrefs, "3")
	for i := 1; i <= 3; i++ {
		fetcher.pages[fmt.Sprintf("%sdoctors/a/radiology/%d", testBaseUrl, i)] = listingPage(doctorRows(fmt.Sprint(i), 10), hrefs, "3")
	}
}

func TestScrape(t *testing.T) {
	crawler, session, fetcher, logs := newTestCrawler(t)
	setupProvince(t, session, fetcher)
	var progress []Progress
	crawler.OnProgress(func(p Progress) { progress = append(progress, p) })

	records, err := crawler.Scrape(context.Background(), "Mazandaran", testSpecialty)

	require.NoError(t, err)
	require.Len(t, records, 30)
	for _, r := range records {
		assert.Equal(t, "A", r.City)
		assert.Equal(t, "A", r.AuthorizedCity)
		assert.Equal(t, "Radiology", r.Specialty)
	}
	assert.Equal(t, "1001", records[0].Nezam)
	assert.Equal(t, "3010", records[29].Nezam)

	assert.Equal(t, 1, strings.Count(logs.String(), "Specialty not found in B."))
	assert.NotContains(t, logs.String(), "Specialty not found in A.")
	assert.Contains(t, logs.String(), "Scraping complete. Found 30 doctors.")

	assert.Equal(t, []Progress{
		{City: "A", Index: 1, Total: 2, Records: 30},
		{City: "B", Index: 2, Total: 2, Records: 30, Skipped: true},
	}, progress)
}

func TestScrapeVisitsCitiesInListingOrder(t *testing.T) {
	crawler, session, fetcher, logs := newTestCrawler(t)
	setupProvince(t, session, fetcher)

	_, err := crawler.Scrape(context.Background(), "Mazandaran", testSpecialty)

	require.NoError(t, err)
	out := logs.String()
	assert.Less(t, strings.Index(out, "Processing city: A"), strings.Index(out, "Processing city: B"))
}

func TestScrapeMissingProvince(t *testing.T) {
	crawler, session, fetcher, _ := newTestCrawler(t)
	setupProvince(t, session, fetcher)

	records, err := crawler.Scrape(context.Background(), "Atlantis", testSpecialty)

	assert.ErrorIs(t, err, ErrMissingTarget)
	assert.Nil(t, records)
	assert.Equal(t, []string{testBaseUrl + "directory"}, session.navigations)
}

func TestScrapeSpecialtyNowhere(t *testing.T) {
	crawler, session, fetcher, logs := newTestCrawler(t)
	setupProvince(t, session, fetcher)

	records, err := crawler.Scrape(context.Background(), "Mazandaran", "Dermatology")

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 2, strings.Count(logs.String(), "Specialty not found in"))
	assert.Empty(t, fetcher.fetched)
}

func TestScrapeAbortsOnNavigationTimeout(t *testing.T) {
	crawler, session, fetcher, _ := newTestCrawler(t)
	setupProvince(t, session, fetcher)
	session.clickErr = fmt.Errorf("%w: next button", ErrNavigationTimeout)

	records, err := crawler.Scrape(context.Background(), "Mazandaran", testSpecialty)

	assert.ErrorIs(t, err, ErrNavigationTimeout)
	assert.Nil(t, records)
	assert.Contains(t, err.Error(), "city A")
}

func TestScrapeCancelled(t *testing.T) {
	crawler, session, fetcher, _ := newTestCrawler(t)
	setupProvince(t, session, fetcher)
	ctx, cancel := context.WithCancel(context.Background())
	crawler.OnProgress(func(Progress) { cancel() })

	_, err := crawler.Scrape(ctx, "Mazandaran", testSpecialty)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, session.navigations, testBaseUrl+"city/b")
}

func TestHandleClosesSession(t *testing.T) {
	crawler, session, _, _ := newTestCrawler(t)
	boom := errors.New("boom")

	err := crawler.Handle(context.Background(), func(c *Crawler) error {
		assert.False(t, session.closed)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.True(t, session.closed)

	_, err = crawler.ResolveMapping(context.Background(), crawler.DirectoryUrl(), provinceColumn, SimpleMapping{})
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestHandleRecoversPanic(t *testing.T) {
	crawler, session, _, _ := newTestCrawler(t)

	err := crawler.Handle(context.Background(), func(c *Crawler) error {
		panic("page vanished")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "page vanished")
	assert.True(t, session.closed)
}

func TestCloseIsIdempotent(t *testing.T) {
	crawler, session, _, _ := newTestCrawler(t)

	require.NoError(t, crawler.Close())
	require.NoError(t, crawler.Close())
	assert.True(t, session.closed)
}
