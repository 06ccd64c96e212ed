package nezamcrawler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// DocumentFetcher loads a page without the browser.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

type staticFetcher struct {
	client    *http.Client
	userAgent string
	referer   string
}

func (app *Crawler) newStaticFetcher() *staticFetcher {
	return &staticFetcher{
		client:    &http.Client{Timeout: app.engine.Timeout},
		userAgent: app.engine.UserAgent,
		referer:   app.BaseUrl,
	}
}

func (f *staticFetcher) Fetch(ctx context.Context, urlString string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if f.referer != "" {
		req.Header.Set("Referer", f.referer)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", urlString, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("failed to fetch %s: StatusCode:%d", urlString, resp.StatusCode)
	}

	// Create a reader that can decode the response body with the correct encoding
	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to create reader with correct encoding: %w", err)
	}

	return goquery.NewDocumentFromReader(reader)
}
