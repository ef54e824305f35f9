package crawler

import (
	"context"
	"net/url"
	"strings"

	"sjsage522/carcrawler/internal/dataset"
	"sjsage522/carcrawler/logger"
)

// BuildDataset extracts every listing on a bounded worker pool and assembles
// the raw dataset in input order. A listing that cannot be fetched is
// recorded as a failure and left out; only cancellation aborts the batch.
func (c *SSCrawler) BuildDataset(ctx context.Context, categoryURL string, listingURLs []string) (*BuildResult, error) {
	log := logger.ForCrawler(c.GetName())

	listings := make([]RawListing, len(listingURLs))
	errs := make([]error, len(listingURLs))

	err := c.forEach(ctx, len(listingURLs), func(ctx context.Context, i int) error {
		listing, err := c.ExtractListing(ctx, listingURLs[i])
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn().Err(err).Str("url", listingURLs[i]).Msg("Failed to extract listing")
			errs[i] = err
			return nil
		}
		listings[i] = listing
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &BuildResult{}
	for i := range listingURLs {
		if errs[i] != nil {
			result.Failures = append(result.Failures, Failure{URL: listingURLs[i], Err: errs[i]})
			continue
		}
		result.Listings = append(result.Listings, listings[i])
	}
	result.Table = RawTable(ManufacturerFromCategory(categoryURL), result.Listings)

	log.Info().
		Int("listings", len(result.Listings)).
		Int("failures", len(result.Failures)).
		Msg("Built dataset")

	return result, nil
}

// RawTable lays listings out under dataset.RawColumns
func RawTable(manuf string, listings []RawListing) *dataset.Table {
	table := dataset.NewTable(dataset.RawColumns...)
	for _, l := range listings {
		cells := []dataset.Cell{dataset.TextCell(l.URL), dataset.TextCell(manuf)}
		for _, v := range l.Values() {
			cells = append(cells, dataset.TextCell(v))
		}
		// Row width always matches RawColumns
		_ = table.AppendRow(cells...)
	}
	return table
}

// ManufacturerFromCategory returns the last non-empty path segment of a
// category URL, e.g. "bmw" for https://www.ss.com/lv/transport/cars/bmw/
func ManufacturerFromCategory(categoryURL string) string {
	path := categoryURL
	if u, err := url.Parse(categoryURL); err == nil {
		path = u.Path
	}
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return NotAvailable
	}
	return segments[len(segments)-1]
}
