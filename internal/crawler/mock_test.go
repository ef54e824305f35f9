package crawler

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "sjsage522/carcrawler/pkg/errors"
)

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	mu    sync.Mutex
	cache map[string][]byte
}

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, &mockError{message: "cache miss"}
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, key)
	return nil
}

// FailingCacheService misses on every Get and fails every Set
type FailingCacheService struct{}

func (FailingCacheService) Get(key string) ([]byte, error) {
	return nil, &mockError{message: "cache miss"}
}

func (FailingCacheService) Set(key string, value []byte, expiration time.Duration) error {
	return &mockError{message: "cache unavailable"}
}

func (FailingCacheService) Delete(key string) error {
	return nil
}

type mockError struct {
	message string
}

func (e *mockError) Error() string {
	return e.message
}

// MockFetcher serves canned pages keyed by URL
type MockFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	errs   map[string]error
	calls  map[string]int
	active int
	peak   int
	delay  time.Duration
}

func NewMockFetcher(pages map[string]string) *MockFetcher {
	return &MockFetcher{
		pages: pages,
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	m.calls[url]++
	m.active++
	if m.active > m.peak {
		m.peak = m.active
	}
	err, failing := m.errs[url]
	page, ok := m.pages[url]
	delay := m.delay
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.active--
		m.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if failing {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewHTTPStatus(url, 404)
	}
	return []byte(page), nil
}

func (m *MockFetcher) Calls(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[url]
}

func (m *MockFetcher) Peak() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peak
}

const testSiteRoot = "https://www.ss.com"

func newTestCrawler(fetcher PageFetcher, cacheSvc *MockCacheService) *SSCrawler {
	c := NewSSCrawler(CrawlerConfig{
		SiteRoot:       testSiteRoot,
		MaxConcurrency: 4,
		BlockTime:      time.Minute,
	}, fetcher, nil)
	if cacheSvc != nil {
		c.CacheSvc = cacheSvc
	}
	return c
}

func indexPage(prevHref string, hrefs ...string) string {
	html := "<html><body><table>"
	for _, h := range hrefs {
		html += fmt.Sprintf(`<tr><td><a class="am" href="%s">ad</a></td></tr>`, h)
	}
	html += "</table>"
	if prevHref != "" {
		html += fmt.Sprintf(`<a class="navi" rel="prev" href="%s">&lt;&lt;</a>`, prevHref)
	}
	return html + "</body></html>"
}

type listingFixture struct {
	model, year, motor, transmission, mileage, color, body, price string
}

func listingPage(f listingFixture) string {
	cell := func(id, v string) string {
		if v == "" {
			return ""
		}
		return fmt.Sprintf(`<tr><td class="ads_opt_name">x</td><td class="ads_opt" id="%s">%s</td></tr>`, id, v)
	}
	return "<html><body><table>" +
		cell("tdo_31", f.model) +
		cell("tdo_18", f.year) +
		cell("tdo_15", f.motor) +
		cell("tdo_35", f.transmission) +
		cell("tdo_16", f.mileage) +
		cell("tdo_17", f.color) +
		cell("tdo_32", f.body) +
		cell("tdo_8", f.price) +
		"</table></body></html>"
}
