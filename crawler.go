package nezamcrawler

import (
	"context"
	"fmt"
)

// Navigation levels of the directory: provinces on the root page list their
// link in column 3, cities and specialties in column 2.
const (
	provinceColumn  = 3
	cityColumn      = 2
	specialtyColumn = 2
)

// Scrape collects every doctor of the given specialty across all cities of
// province. A city without the specialty is skipped; a missing province or
// any navigation failure aborts the run.
func (app *Crawler) Scrape(ctx context.Context, province, specialty string) ([]DoctorRecord, error) {
	app.Logger.Info("🔍 Starting scrape for province '%s' and specialty '%s'...", province, specialty)

	provinces, err := app.ResolveMapping(ctx, app.DirectoryUrl(), provinceColumn, SimpleMapping{})
	if err != nil {
		return nil, fmt.Errorf("resolve provinces: %w", err)
	}
	provinceUrl, ok := provinces.Get(province)
	if !ok {
		return nil, fmt.Errorf("%w: province %q (%d provinces listed)", ErrMissingTarget, province, provinces.Len())
	}

	cities, err := app.ResolveMapping(ctx, provinceUrl, cityColumn, SimpleMapping{})
	if err != nil {
		return nil, fmt.Errorf("resolve cities of %s: %w", province, err)
	}

	var acc Accumulator
	names := cities.Names()
	for i, city := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cityUrl, _ := cities.Get(city)
		app.Logger.Info("✅  Processing city: %s", city)

		skipped, err := app.scrapeCity(ctx, &acc, city, cityUrl, specialty)
		if err != nil {
			return nil, fmt.Errorf("city %s: %w", city, err)
		}
		if app.onProgress != nil {
			app.onProgress(Progress{City: city, Index: i + 1, Total: len(names), Records: acc.Len(), Skipped: skipped})
		}
	}

	app.Logger.Summary("Scraping complete. Found %d doctors.", acc.Len())
	return acc.Snapshot(), nil
}

// scrapeCity appends the city's doctors to acc. It reports skipped when the
// city does not list the specialty.
func (app *Crawler) scrapeCity(ctx context.Context, acc *Accumulator, city, cityUrl, specialty string) (skipped bool, err error) {
	specialties, err := app.ResolveMapping(ctx, cityUrl, specialtyColumn, SpecialtySearch{Target: specialty})
	if err != nil {
		return false, err
	}
	specialtyUrl, ok := specialties.Get(specialty)
	if !ok {
		app.Logger.Warn("❌  Specialty not found in %s.", city)
		return true, nil
	}

	pages, err := app.WalkListing(ctx, specialtyUrl)
	if err != nil {
		return false, err
	}
	for i, page := range pages {
		result := ParseDoctors(page, city)
		if result.Malformed > 0 {
			app.Logger.Warn("%s page %d: %d rows without a Province-City location", city, i+1, result.Malformed)
		}
		if result.Skipped > 0 {
			app.Logger.Debug("%s page %d: skipped %d rows without doctor cells", city, i+1, result.Skipped)
		}
		acc.Append(result.Records...)
	}
	return false, nil
}
