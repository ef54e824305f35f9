package crawler

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"sjsage522/carcrawler/logger"
	apperrors "sjsage522/carcrawler/pkg/errors"
	"sjsage522/carcrawler/services/cache"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// BaseCrawler provides common functionality for all crawlers
type BaseCrawler struct {
	Fetcher     PageFetcher
	CacheSvc    cache.CacheService
	BlockTime   time.Duration
	CacheTTL    time.Duration
	Concurrency int
	limiter     *rate.Limiter
}

// newLimiter returns a limiter allowing perSecond requests with no burst; zero disables it
func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// fetchWithCache fetches a URL with caching and rate limiting
func (c *BaseCrawler) fetchWithCache(ctx context.Context, pageURL string) (io.Reader, error) {
	blockKey := rateLimitKey(pageURL)

	if c.CacheSvc != nil {
		// Check if the host is rate limited
		if _, err := c.CacheSvc.Get(blockKey); err == nil {
			return nil, apperrors.NewRateLimit(pageURL, fmt.Sprintf("%ds", int(c.BlockTime/time.Second)))
		}
		if c.CacheTTL > 0 {
			if body, err := c.CacheSvc.Get(pageKey(pageURL)); err == nil {
				return bytes.NewReader(body), nil
			}
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, err := c.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if c.CacheSvc != nil && c.BlockTime > 0 && apperrors.IsType(err, apperrors.ErrorTypeRateLimit) {
			// Set rate limiting cache
			if setErr := c.store(blockKey, []byte(strconv.Itoa(int(c.BlockTime/time.Second))), c.BlockTime); setErr != nil {
				logger.ForCache().Warn().Err(setErr).Str("key", blockKey).Msg("Failed to store rate limit block")
			}
		}
		return nil, err
	}

	if c.CacheSvc != nil && c.CacheTTL > 0 {
		if err := c.store(pageKey(pageURL), body, c.CacheTTL); err != nil {
			logger.ForCache().Debug().Err(err).Str("url", pageURL).Msg("Failed to cache page")
		}
	}

	return bytes.NewReader(body), nil
}

// store writes a value to the cache; failures never abort a fetch
func (c *BaseCrawler) store(key string, value []byte, ttl time.Duration) error {
	if err := c.CacheSvc.Set(key, value, ttl); err != nil {
		return apperrors.NewCache(key, "failed to store value", err)
	}
	return nil
}

// createDocument creates a goquery document from a reader
func (c *BaseCrawler) createDocument(pageURL string, reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, apperrors.NewParsing(pageURL, "failed to parse HTML", err)
	}
	return doc, nil
}

// fetchDocument fetches and parses one page
func (c *BaseCrawler) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := c.fetchWithCache(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return c.createDocument(pageURL, body)
}

// forEach runs fn for 0..n-1 on at most Concurrency goroutines.
// Each call owns index i; the first error cancels the rest.
func (c *BaseCrawler) forEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	limit := c.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			return fn(gctx, i)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func rateLimitKey(pageURL string) string {
	host := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return host + "_rate_limited"
}

// pageKey hashes the URL so it fits memcache key rules
func pageKey(pageURL string) string {
	sum := sha1.Sum([]byte(pageURL))
	return "page_" + hex.EncodeToString(sum[:])
}
