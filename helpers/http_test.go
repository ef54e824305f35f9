package helpers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperrors "sjsage522/carcrawler/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(userAgent string) *Fetcher {
	return NewFetcher(2*time.Second, userAgent, RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check that headers are set
		assert.Equal(t, "carcrawler-test/1.0", r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("Accept-Language"))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html><body>Melns metālika</body></html>"))
	}))
	defer server.Close()

	body, err := newTestFetcher("carcrawler-test/1.0").Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Melns metālika")
}

func TestFetchDefaultUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, userAgents, r.Header.Get("User-Agent"))
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	_, err := newTestFetcher("").Fetch(context.Background(), server.URL)
	assert.NoError(t, err)
}

func TestFetchNonUTF8(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.WriteHeader(http.StatusOK)
		// "café" in ISO-8859-1
		w.Write([]byte("<html><body>caf\xe9</body></html>"))
	}))
	defer server.Close()

	body, err := newTestFetcher("").Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, string(body), "café")
}

func TestFetchStatusErrorIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestFetcher("").Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeHTTPStatus))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestFetcher("").Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRateLimit))
}

func TestFetchTransportErrorIsRetried(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestFetcher("").Fetch(context.Background(), url)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork))
	assert.Contains(t, err.Error(), "failed after 3 attempts")
}

func TestFetchInvalidURL(t *testing.T) {
	_, err := newTestFetcher("").Fetch(context.Background(), "://missing-scheme")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
