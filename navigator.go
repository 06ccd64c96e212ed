package nezamcrawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Session is the single browser tab the crawler drives.
type Session interface {
	// Navigate loads url and waits for the page to finish loading.
	Navigate(ctx context.Context, url string) error
	// Content returns the current page source.
	Content(ctx context.Context) (string, error)
	// ClickWhenReady waits up to timeout for selector to become clickable
	// and clicks it. A timeout is reported wrapping ErrNavigationTimeout.
	ClickWhenReady(ctx context.Context, selector string, timeout time.Duration) error
	Close() error
}

func (app *Crawler) openSession(ctx context.Context) (Session, error) {
	switch app.engine.Adapter {
	case PlayWrightEngine:
		return app.newPlaywrightSession()
	case RodEngine:
		return app.newRodSession()
	case ChromedpEngine:
		return app.newChromedpSession(ctx)
	default:
		return nil, fmt.Errorf("unsupported browser adapter: %s", app.engine.Adapter)
	}
}

// navigateTo loads url in the session and returns a snapshot of it.
func (app *Crawler) navigateTo(ctx context.Context, url string) (*goquery.Document, error) {
	if app.session == nil {
		return nil, ErrSessionClosed
	}
	if !app.allowedByRobots(url) {
		return nil, fmt.Errorf("navigation to %s disallowed by robots.txt", url)
	}
	app.Logger.Debug("Navigating %s", url)
	if err := app.session.Navigate(ctx, url); err != nil {
		return nil, fmt.Errorf("failed to navigate %s: %w", url, err)
	}
	return app.snapshot(ctx)
}

// snapshot parses the page currently loaded in the session.
func (app *Crawler) snapshot(ctx context.Context) (*goquery.Document, error) {
	if app.session == nil {
		return nil, ErrSessionClosed
	}
	html, err := app.session.Content(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read page source: %w", err)
	}
	document, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return document, nil
}
