package crawler

import (
	"sjsage522/carcrawler/services/cache"
)

// SSCrawler crawls a category of ss.com car listings
type SSCrawler struct {
	BaseCrawler
	Name             string
	SiteRoot         string
	PageOffset       int
	StrictPagination bool
	Selectors        Selectors
}

// NewSSCrawler creates a new crawler from its configuration
func NewSSCrawler(config CrawlerConfig, fetcher PageFetcher, cacheSvc cache.CacheService) *SSCrawler {
	selectors := config.Selectors
	defaults := DefaultSelectors()
	if selectors.PrevPage == "" {
		selectors.PrevPage = defaults.PrevPage
	}
	if selectors.ListingLink == "" {
		selectors.ListingLink = defaults.ListingLink
	}
	ids := defaults.FieldIDs
	for field, id := range selectors.FieldIDs {
		ids[field] = id
	}
	selectors.FieldIDs = ids

	concurrency := config.MaxConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &SSCrawler{
		BaseCrawler: BaseCrawler{
			Fetcher:     fetcher,
			CacheSvc:    cacheSvc,
			BlockTime:   config.BlockTime,
			CacheTTL:    config.CacheTTL,
			Concurrency: concurrency,
			limiter:     newLimiter(config.RateLimit),
		},
		Name:             "SS",
		SiteRoot:         config.SiteRoot,
		PageOffset:       config.PageOffset,
		StrictPagination: config.StrictPagination,
		Selectors:        selectors,
	}
}

// GetName returns the crawler's name
func (c *SSCrawler) GetName() string {
	return c.Name
}
