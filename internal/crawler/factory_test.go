package crawler

import (
	"testing"
	"time"

	"sjsage522/carcrawler/config"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestCrawlerConfigFrom(t *testing.T) {
	cfg := &config.Config{
		SiteRoot:           "https://www.ss.com",
		MaxConcurrency:     6,
		RateLimitPerSecond: 2,
		RateLimitBlock:     time.Minute,
		PageOffset:         1,
		StrictPagination:   true,
		FieldSelectors:     map[string]string{FieldPrice: "price-box"},
	}

	cc := CrawlerConfigFrom(cfg)
	assert.Equal(t, "https://www.ss.com", cc.SiteRoot)
	assert.Equal(t, 6, cc.MaxConcurrency)
	assert.Equal(t, 1, cc.PageOffset)
	assert.True(t, cc.StrictPagination)
	assert.Equal(t, "price-box", cc.Selectors.FieldIDs[FieldPrice])
	assert.Equal(t, "tdo_31", cc.Selectors.FieldIDs[FieldModel])
	assert.Equal(t, "tdo_8", DefaultFieldIDs[FieldPrice], "defaults must not be modified")
}

func TestCreateCrawler(t *testing.T) {
	cfg := config.LoadConfig()
	cfg.MaxConcurrency = 3

	c := CreateCrawler(cfg, NewMockCacheService())
	assert.Equal(t, "SS", c.GetName())
	assert.Equal(t, 3, c.Concurrency)
	assert.Equal(t, "a.am", c.Selectors.ListingLink)
	assert.Len(t, c.Selectors.FieldIDs, len(FieldOrder))
}

func TestCreateCrawlerRateLimit(t *testing.T) {
	cfg := config.LoadConfig()
	cfg.MaxConcurrency = 8
	cfg.RateLimitPerSecond = 2

	c := CreateCrawler(cfg, NewMockCacheService())
	assert.Equal(t, rate.Limit(2), c.limiter.Limit())
	assert.Equal(t, 1, c.limiter.Burst(), "concurrent workers must not start with a burst")

	cfg.RateLimitPerSecond = 0
	c = CreateCrawler(cfg, NewMockCacheService())
	assert.Equal(t, rate.Inf, c.limiter.Limit())
}
