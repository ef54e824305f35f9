package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents transport errors (DNS, connection, timeout)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeHTTPStatus represents a non-success HTTP response
	ErrorTypeHTTPStatus ErrorType = "http_status"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypePagination represents a pagination link that could not be parsed
	ErrorTypePagination ErrorType = "pagination"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeStorage represents dataset file errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScrapeError represents an error raised while scraping or persisting listings
type ScrapeError struct {
	Type       ErrorType
	URL        string
	Message    string
	StatusCode int
	Err        error
	Time       time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.URL, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.URL, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable.
// Only transport failures are; HTTP status errors are not transient.
func (e *ScrapeError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	default:
		return false
	}
}

// New creates a new ScrapeError
func New(errType ErrorType, url, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		URL:     url,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(url, message string, err error) *ScrapeError {
	return New(ErrorTypeNetwork, url, message, err)
}

// NewHTTPStatus creates an error for a non-success response
func NewHTTPStatus(url string, statusCode int) *ScrapeError {
	e := New(ErrorTypeHTTPStatus, url, fmt.Sprintf("unexpected status code: %d %s", statusCode, http.StatusText(statusCode)), nil)
	e.StatusCode = statusCode
	return e
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(url string, retryAfter string) *ScrapeError {
	message := "rate limited"
	if retryAfter != "" {
		message = fmt.Sprintf("rate limited; retry after %s", retryAfter)
	}
	e := New(ErrorTypeRateLimit, url, message, nil)
	e.StatusCode = http.StatusTooManyRequests
	return e
}

// NewParsing creates a new parsing error
func NewParsing(url, message string, err error) *ScrapeError {
	return New(ErrorTypeParsing, url, message, err)
}

// NewPagination creates a new pagination error
func NewPagination(url, message string, err error) *ScrapeError {
	return New(ErrorTypePagination, url, message, err)
}

// NewCache creates a new cache error
func NewCache(key, message string, err error) *ScrapeError {
	return New(ErrorTypeCache, key, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(url, message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, url, message, err)
}

// NewStorage creates a new storage error
func NewStorage(path, message string, err error) *ScrapeError {
	return New(ErrorTypeStorage, path, message, err)
}

// NewValidation creates a new validation error
func NewValidation(url, message string) *ScrapeError {
	return New(ErrorTypeValidation, url, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsRetryable reports whether err wraps a retryable ScrapeError
func IsRetryable(err error) bool {
	var se *ScrapeError
	if stderrors.As(err, &se) {
		return se.IsRetryable()
	}
	return false
}

// IsType reports whether err wraps a ScrapeError of the given type
func IsType(err error, errType ErrorType) bool {
	var se *ScrapeError
	if stderrors.As(err, &se) {
		return se.Type == errType
	}
	return false
}
