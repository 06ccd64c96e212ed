package nezamcrawler

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const listingPaginationSelector = "div.col-lg-12.col-md-12 a.btn.btn-sm.btn-round"

// Page labels may use ASCII, Arabic-Indic or Persian digits.
var pageCountPattern = regexp.MustCompile(`[0-9\x{0660}-\x{0669}\x{06F0}-\x{06F9}]+`)

// ListingPageURLs builds the url of every result page from the pagination
// buttons of the first one. A nil result means the listing has a single page.
func ListingPageURLs(doc *goquery.Document, baseUrl string) ([]string, error) {
	anchors := doc.Find(listingPaginationSelector)
	if anchors.Length() == 0 {
		return nil, nil
	}

	href, ok := anchors.First().Attr("href")
	if href = strings.TrimSpace(href); !ok || href == "" {
		return nil, fmt.Errorf("%w: first page button has no href", ErrPaginationMalformed)
	}
	segments := strings.Split(href, "/")
	prefix := strings.Join(segments[:len(segments)-1], "/") + "/"

	label := strings.TrimSpace(anchors.Last().Text())
	count, ok := parsePageCount(label)
	if !ok {
		return nil, fmt.Errorf("%w: label %q", ErrPaginationCountUnparseable, label)
	}

	urls := make([]string, 0, count)
	for pageNumber := 1; pageNumber <= count; pageNumber++ {
		urls = append(urls, joinUrl(baseUrl, fmt.Sprintf("%s%d", prefix, pageNumber)))
	}
	return urls, nil
}

// parsePageCount reads the first run of digits in label.
func parsePageCount(label string) (int, bool) {
	digits := pageCountPattern.FindString(label)
	if digits == "" {
		return 0, false
	}
	count := 0
	for _, r := range digits {
		count = count*10 + digitValue(r)
		if count > 1_000_000 {
			return 0, false
		}
	}
	return count, count > 0
}

func digitValue(r rune) int {
	switch {
	case r >= '۰' && r <= '۹':
		return int(r - '۰')
	case r >= '٠' && r <= '٩':
		return int(r - '٠')
	default:
		return int(r - '0')
	}
}

// WalkListing loads the first result page in the browser and returns every
// result page of the listing. Pages past the first are fetched directly
// from their constructed urls.
func (app *Crawler) WalkListing(ctx context.Context, firstPageUrl string) ([]*goquery.Document, error) {
	if firstPageUrl == "" {
		return nil, fmt.Errorf("%w: no listing url", ErrMissingTarget)
	}
	first, err := app.navigateTo(ctx, firstPageUrl)
	if err != nil {
		return nil, err
	}

	urls, err := ListingPageURLs(first, app.BaseUrl)
	if err != nil {
		if *app.engine.StoreHtml {
			app.Logger.Html(documentHtml(first), firstPageUrl, err.Error())
		}
		return nil, fmt.Errorf("walk %s: %w", firstPageUrl, err)
	}
	if len(urls) == 0 {
		return []*goquery.Document{first}, nil
	}

	docs := make([]*goquery.Document, 0, len(urls))
	for i, pageUrl := range urls {
		if !app.allowedByRobots(pageUrl) {
			return nil, fmt.Errorf("walk %s: page %s disallowed by robots.txt", firstPageUrl, pageUrl)
		}
		app.Logger.Debug("Fetching listing page %d/%d: %s", i+1, len(urls), pageUrl)
		doc, err := app.fetcher.Fetch(ctx, pageUrl)
		if err != nil {
			return nil, fmt.Errorf("walk %s (page %d/%d): %w", firstPageUrl, i+1, len(urls), err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
