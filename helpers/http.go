package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"slices"
	"time"

	apperrors "sjsage522/carcrawler/pkg/errors"

	"golang.org/x/net/html/charset"
)

// Browser user agents, used when no override is configured
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Safari/605.1.15",
}

const maxBodyBytes = 10 << 20

// Fetcher performs GET requests and returns UTF-8 bodies
type Fetcher struct {
	client    *http.Client
	userAgent string
	retry     RetryConfig
}

// NewFetcher creates a fetcher with a per-request timeout.
// An empty userAgent picks a browser user agent per request.
func NewFetcher(timeout time.Duration, userAgent string, retry RetryConfig) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		retry:     retry,
	}
}

// Fetch GETs url, retrying transport failures with backoff
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := Retry(ctx, f.retry, "fetch "+url, func() error {
		var err error
		body, err = f.fetchOnce(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewValidation(url, fmt.Sprintf("failed to create request: %v", err))
	}

	userAgent := f.userAgent
	if userAgent == "" {
		userAgent = userAgents[mathrand.Intn(len(userAgents))]
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "lv-LV,lv;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.NewNetwork(url, "failed to fetch URL", err)
	}
	defer resp.Body.Close()

	// Check for rate limiting
	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		return nil, apperrors.NewRateLimit(url, resp.Header.Get("Retry-After"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewHTTPStatus(url, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewNetwork(url, "failed to read response body", err)
	}

	utf8Body, err := DecodeUTF8(bodyBytes, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, apperrors.NewParsing(url, "failed to convert body to UTF-8", err)
	}
	return utf8Body, nil
}

// DecodeUTF8 converts body to UTF-8 using the Content-Type header and
// any meta charset declaration in the document.
func DecodeUTF8(body []byte, contentType string) ([]byte, error) {
	encoding, name, _ := charset.DetermineEncoding(body, contentType)

	// If already UTF-8, return as is
	if name == "utf-8" || name == "UTF-8" {
		return body, nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(body))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}
	return buf.Bytes(), nil
}
