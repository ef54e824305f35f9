package crawler

import (
	"context"
	"time"

	"sjsage522/carcrawler/internal/dataset"
)

// Field names of a raw listing
const (
	FieldModel        = dataset.ColumnModel
	FieldYear         = dataset.ColumnYear
	FieldMotorType    = dataset.ColumnMotorType
	FieldTransmission = dataset.ColumnTransmission
	FieldMileage      = dataset.ColumnMileage
	FieldColor        = dataset.ColumnColor
	FieldBodyType     = dataset.ColumnBodyType
	FieldPrice        = dataset.ColumnPrice
)

// NotAvailable replaces a field whose element is absent from the page
const NotAvailable = dataset.NotAvailable

// FieldOrder is the order of the eight extracted fields
var FieldOrder = []string{
	FieldModel, FieldYear, FieldMotorType, FieldTransmission,
	FieldMileage, FieldColor, FieldBodyType, FieldPrice,
}

// DefaultFieldIDs maps each field to the element id holding it on an ss.com
// advertisement page
var DefaultFieldIDs = map[string]string{
	FieldModel:        "tdo_31",
	FieldYear:         "tdo_18",
	FieldMotorType:    "tdo_15",
	FieldTransmission: "tdo_35",
	FieldMileage:      "tdo_16",
	FieldColor:        "tdo_17",
	FieldBodyType:     "tdo_32",
	FieldPrice:        "tdo_8",
}

// RawListing is one advertisement as extracted, before normalization.
// Every field is either trimmed text or NotAvailable.
type RawListing struct {
	URL          string `json:"url"`
	Model        string `json:"model"`
	Year         string `json:"year"`
	MotorType    string `json:"motor_type"`
	Transmission string `json:"transmission"`
	Mileage      string `json:"mileage"`
	Color        string `json:"color"`
	BodyType     string `json:"body_type"`
	Price        string `json:"price"`
}

// Values returns the eight fields in FieldOrder
func (r RawListing) Values() []string {
	return []string{r.Model, r.Year, r.MotorType, r.Transmission, r.Mileage, r.Color, r.BodyType, r.Price}
}

// Failure records a listing that could not be extracted
type Failure struct {
	URL string
	Err error
}

// BuildResult is the outcome of BuildDataset
type BuildResult struct {
	// Listings holds the successful listings in input order
	Listings []RawListing
	// Failures holds the listings that could not be fetched, in input order
	Failures []Failure
	// Table is the raw dataset, one row per listing
	Table *dataset.Table
}

// Crawler interface defines the contract of a listings crawler
type Crawler interface {
	// LastPage returns the number of index pages in a category
	LastPage(ctx context.Context, baseURL string) (int, error)

	// CollectListingURLs returns every advertisement URL on the given pages
	CollectListingURLs(ctx context.Context, pageURLs []string) ([]string, error)

	// BuildDataset extracts every listing and assembles the raw dataset
	BuildDataset(ctx context.Context, categoryURL string, listingURLs []string) (*BuildResult, error)

	// GetName returns the crawler's name for logging and identification
	GetName() string
}

// PageFetcher fetches a URL and returns its UTF-8 body
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Selectors contains the markup anchors used on the listings site
type Selectors struct {
	// PrevPage matches the "previous page" pagination link
	PrevPage string
	// ListingLink matches advertisement links on an index page
	ListingLink string
	// FieldIDs maps field name to element id on a listing page
	FieldIDs map[string]string
}

// DefaultSelectors returns the ss.com selectors
func DefaultSelectors() Selectors {
	ids := make(map[string]string, len(DefaultFieldIDs))
	for k, v := range DefaultFieldIDs {
		ids[k] = v
	}
	return Selectors{
		PrevPage:    "a.navi[rel=prev]",
		ListingLink: "a.am",
		FieldIDs:    ids,
	}
}

// CrawlerConfig contains configuration for a crawler
type CrawlerConfig struct {
	SiteRoot       string
	MaxConcurrency int
	// RateLimit is the number of requests per second; zero disables it
	RateLimit float64
	// BlockTime is how long a host is left alone after it rate limits us
	BlockTime time.Duration
	// CacheTTL enables page body caching when positive
	CacheTTL time.Duration
	// PageOffset is added to the page number read off the pagination link
	PageOffset int
	// StrictPagination fails LastPage on an unparseable pagination link
	// instead of assuming a single page
	StrictPagination bool
	Selectors        Selectors
}
