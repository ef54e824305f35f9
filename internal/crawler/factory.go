package crawler

import (
	"sjsage522/carcrawler/config"
	"sjsage522/carcrawler/helpers"
	"sjsage522/carcrawler/logger"
	"sjsage522/carcrawler/services/cache"
)

// CreateCrawler creates the category crawler based on the configuration
func CreateCrawler(cfg *config.Config, cacheSvc cache.CacheService) *SSCrawler {
	fetcher := helpers.NewFetcher(cfg.RequestTimeout, cfg.UserAgent, helpers.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   cfg.RetryBaseDelay,
	})

	c := NewSSCrawler(CrawlerConfigFrom(cfg), fetcher, cacheSvc)

	logger.ForCrawler(c.GetName()).Info().
		Str("site_root", c.SiteRoot).
		Int("concurrency", c.Concurrency).
		Float64("rate_limit", cfg.RateLimitPerSecond).
		Bool("page_cache", c.CacheTTL > 0).
		Msg("Created crawler")

	return c
}

// CrawlerConfigFrom maps application configuration onto crawler settings
func CrawlerConfigFrom(cfg *config.Config) CrawlerConfig {
	selectors := DefaultSelectors()
	for field, id := range cfg.FieldSelectors {
		selectors.FieldIDs[field] = id
	}

	return CrawlerConfig{
		SiteRoot:         cfg.SiteRoot,
		MaxConcurrency:   cfg.MaxConcurrency,
		RateLimit:        cfg.RateLimitPerSecond,
		BlockTime:        cfg.RateLimitBlock,
		CacheTTL:         cfg.PageCacheTTL,
		PageOffset:       cfg.PageOffset,
		StrictPagination: cfg.StrictPagination,
		Selectors:        selectors,
	}
}
