package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "sjsage522/carcrawler/pkg/errors"

	"gopkg.in/yaml.v2"
)

const (
	minConcurrency = 1
	maxConcurrency = 16
)

// Config represents the application configuration
type Config struct {
	// Category to scrape, e.g. https://www.ss.com/lv/transport/cars/bmw/
	CategoryURL string
	// Prefix joined with relative advertisement hrefs
	SiteRoot  string
	UserAgent string

	// Output configuration
	OutputPath     string
	FailureLogPath string

	// Crawler configuration
	MaxConcurrency     int
	RequestTimeout     time.Duration
	MaxRetries         int
	RetryBaseDelay     time.Duration
	RateLimitPerSecond float64
	RateLimitBlock     time.Duration
	PageOffset         int
	StrictPagination   bool
	DedupListings      bool
	ScrapeInterval     time.Duration

	// Field name -> element id overrides, loaded from CONFIG_FILE
	FieldSelectors map[string]string

	// Memcache configuration
	MemcacheAddr string
	PageCacheTTL time.Duration

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Environment
	Environment string
}

// fileConfig is the YAML overlay layout
type fileConfig struct {
	CategoryURL string `yaml:"category_url"`
	SiteRoot    string `yaml:"site_root"`
	UserAgent   string `yaml:"user_agent"`
	OutputPath  string `yaml:"output_path"`
	Crawl       struct {
		MaxConcurrency     int     `yaml:"max_concurrency"`
		TimeoutSec         int     `yaml:"timeout_sec"`
		MaxRetries         int     `yaml:"max_retries"`
		RateLimitPerSecond float64 `yaml:"rate_limit_per_second"`
		PageOffset         *int    `yaml:"page_offset"`
		StrictPagination   *bool   `yaml:"strict_pagination"`
	} `yaml:"crawl"`
	Fields map[string]string `yaml:"fields"`
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	return &Config{
		CategoryURL:          getEnv("CATEGORY_URL", "https://www.ss.com/lv/transport/cars/bmw/"),
		SiteRoot:             getEnv("SITE_ROOT", "https://www.ss.com"),
		UserAgent:            getEnv("USER_AGENT", ""),
		OutputPath:           getEnv("OUTPUT_PATH", "./output/CarData.csv"),
		FailureLogPath:       getEnv("FAILURE_LOG_PATH", "./output/failed_listings.log"),
		MaxConcurrency:       clamp(getEnvInt("MAX_CONCURRENCY", 8), minConcurrency, maxConcurrency),
		RequestTimeout:       time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 20)) * time.Second,
		MaxRetries:           getEnvInt("MAX_RETRIES", 3),
		RetryBaseDelay:       time.Duration(getEnvInt("RETRY_BASE_DELAY_MS", 500)) * time.Millisecond,
		RateLimitPerSecond:   getEnvFloat("RATE_LIMIT_PER_SECOND", 4),
		RateLimitBlock:       time.Duration(getEnvInt("RATE_LIMIT_BLOCK_SECONDS", 300)) * time.Second,
		PageOffset:           getEnvInt("PAGE_OFFSET", 0),
		StrictPagination:     getEnvBool("STRICT_PAGINATION", false),
		DedupListings:        getEnvBool("DEDUP_LISTINGS", false),
		ScrapeInterval:       time.Duration(getEnvInt("SCRAPE_INTERVAL_SECONDS", 0)) * time.Second,
		FieldSelectors:       map[string]string{},
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		PageCacheTTL:         time.Duration(getEnvInt("PAGE_CACHE_TTL_SECONDS", 0)) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "listings"),
		RedisStreamCount:     getEnvInt("REDIS_STREAM_COUNT", 1),
		RedisStreamMaxLength: getEnvInt("REDIS_STREAM_MAX_LENGTH", 10000),
		Environment:          getEnv("CARCRAWLER_ENVIRONMENT", "development"),
	}
}

// ApplyFile overlays values from a YAML file onto the config.
// Zero values in the file leave the current value untouched.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewConfiguration("read config file "+path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return apperrors.NewConfiguration("parse config file "+path, err)
	}

	if fc.CategoryURL != "" {
		c.CategoryURL = fc.CategoryURL
	}
	if fc.SiteRoot != "" {
		c.SiteRoot = fc.SiteRoot
	}
	if fc.UserAgent != "" {
		c.UserAgent = fc.UserAgent
	}
	if fc.OutputPath != "" {
		c.OutputPath = fc.OutputPath
	}
	if fc.Crawl.MaxConcurrency > 0 {
		c.MaxConcurrency = clamp(fc.Crawl.MaxConcurrency, minConcurrency, maxConcurrency)
	}
	if fc.Crawl.TimeoutSec > 0 {
		c.RequestTimeout = time.Duration(fc.Crawl.TimeoutSec) * time.Second
	}
	if fc.Crawl.MaxRetries > 0 {
		c.MaxRetries = fc.Crawl.MaxRetries
	}
	if fc.Crawl.RateLimitPerSecond > 0 {
		c.RateLimitPerSecond = fc.Crawl.RateLimitPerSecond
	}
	if fc.Crawl.PageOffset != nil {
		c.PageOffset = *fc.Crawl.PageOffset
	}
	if fc.Crawl.StrictPagination != nil {
		c.StrictPagination = *fc.Crawl.StrictPagination
	}

	if c.FieldSelectors == nil {
		c.FieldSelectors = map[string]string{}
	}
	for field, id := range fc.Fields {
		c.FieldSelectors[field] = strings.TrimPrefix(strings.TrimSpace(id), "#")
	}

	return nil
}

// Validate checks the configuration for structural errors
func (c *Config) Validate() error {
	if err := validateHTTPURL("CATEGORY_URL", c.CategoryURL); err != nil {
		return err
	}
	if err := validateHTTPURL("SITE_ROOT", c.SiteRoot); err != nil {
		return err
	}
	if c.OutputPath == "" {
		return apperrors.NewConfiguration("OUTPUT_PATH must not be empty", nil)
	}
	if c.RequestTimeout <= 0 {
		return apperrors.NewConfiguration("REQUEST_TIMEOUT_SECONDS must be positive", nil)
	}
	if c.MaxRetries < 1 {
		return apperrors.NewConfiguration("MAX_RETRIES must be at least 1", nil)
	}
	if c.RateLimitPerSecond < 0 {
		return apperrors.NewConfiguration("RATE_LIMIT_PER_SECOND must not be negative", nil)
	}
	if c.RedisAddr != "" && c.RedisStreamCount < 1 {
		return apperrors.NewConfiguration("REDIS_STREAM_COUNT must be at least 1", nil)
	}
	return nil
}

func validateHTTPURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return apperrors.NewConfiguration(name+" is not a valid URL", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return apperrors.NewConfiguration(fmt.Sprintf("%s must be an http(s) URL, got %q", name, raw), nil)
	}
	if u.Host == "" {
		return apperrors.NewConfiguration(fmt.Sprintf("%s has no host: %q", name, raw), nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
