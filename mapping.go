package nezamcrawler

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	mappingAnchorSelector  = "tr[role='row'] td:nth-child(%d) a"
	lastPaginationSelector = "ul.pagination li:last-child"
	nextPageSelector       = "#DataTables_Table_0_next > a"
)

// Mapping is an insertion ordered name -> absolute url table. Setting an
// existing name replaces its url but keeps its position.
type Mapping struct {
	names []string
	urls  map[string]string
}

func NewMapping() *Mapping {
	return &Mapping{urls: make(map[string]string)}
}

func (m *Mapping) Set(name, url string) {
	if _, ok := m.urls[name]; !ok {
		m.names = append(m.names, name)
	}
	m.urls[name] = url
}

func (m *Mapping) Get(name string) (string, bool) {
	url, ok := m.urls[name]
	return url, ok
}

func (m *Mapping) Len() int {
	return len(m.names)
}

// Names returns the keys in insertion order.
func (m *Mapping) Names() []string {
	return slices.Clone(m.names)
}

// Merge copies every entry of other into m, other wins on collision.
func (m *Mapping) Merge(other *Mapping) {
	for _, name := range other.names {
		m.Set(name, other.urls[name])
	}
}

// MappingMode selects how ResolveMapping treats a paginated listing.
type MappingMode interface {
	mappingMode()
}

// SimpleMapping resolves the first page only.
type SimpleMapping struct{}

// SpecialtySearch pages through the listing until Target is found or the
// pagination runs out.
type SpecialtySearch struct {
	Target string
}

func (SimpleMapping) mappingMode()   {}
func (SpecialtySearch) mappingMode() {}

// ExtractMapping reads the anchors of the given 1-based table column.
func ExtractMapping(doc *goquery.Document, column int, baseUrl string) *Mapping {
	mapping := NewMapping()
	doc.Find(fmt.Sprintf(mappingAnchorSelector, column)).Each(func(i int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		mapping.Set(strings.TrimSpace(a.Text()), joinUrl(baseUrl, href))
	})
	return mapping
}

// PaginationExhausted reports whether there is no enabled next page control.
func PaginationExhausted(doc *goquery.Document) bool {
	last := doc.Find(lastPaginationSelector).First()
	return last.Length() == 0 || last.HasClass("disabled")
}

// ResolveMapping loads pageUrl in the browser and maps the anchors of the
// given column to absolute urls.
func (app *Crawler) ResolveMapping(ctx context.Context, pageUrl string, column int, mode MappingMode) (*Mapping, error) {
	if pageUrl == "" {
		return nil, fmt.Errorf("%w: no page url to resolve", ErrMissingTarget)
	}
	if column < 1 {
		return nil, fmt.Errorf("invalid column %d: columns start at 1", column)
	}

	doc, err := app.navigateTo(ctx, pageUrl)
	if err != nil {
		return nil, err
	}
	mapping := ExtractMapping(doc, column, app.BaseUrl)

	search, ok := mode.(SpecialtySearch)
	if !ok {
		return mapping, nil
	}

	for page := 2; ; page++ {
		if _, found := mapping.Get(search.Target); found {
			return mapping, nil
		}
		if PaginationExhausted(doc) {
			return mapping, nil
		}

		err = app.session.ClickWhenReady(ctx, nextPageSelector, app.engine.NavigationTimeout)
		if err != nil {
			if *app.engine.StoreHtml {
				app.Logger.Html(documentHtml(doc), pageUrl, fmt.Sprintf("next page %d not reachable: %v", page, err))
			}
			return nil, fmt.Errorf("resolve %s (page %d): %w", pageUrl, page, err)
		}

		doc, err = app.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		mapping.Merge(ExtractMapping(doc, column, app.BaseUrl))
		app.Logger.Debug("Page %d of %s: %d entries", page, pageUrl, mapping.Len())
	}
}
