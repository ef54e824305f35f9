package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sjsage522/carcrawler/helpers"
	"sjsage522/carcrawler/internal/analytics"
	"sjsage522/carcrawler/internal/crawler"
	"sjsage522/carcrawler/internal/dataset"
	"sjsage522/carcrawler/logger"
	"sjsage522/carcrawler/services/publisher"
	"sjsage522/carcrawler/services/storage"
)

// Options controls a pipeline run
type Options struct {
	CategoryURL string
	// Dedup drops repeated listing URLs before extraction
	Dedup bool
	// Interval between runs in Start; zero runs once
	Interval    time.Duration
	Environment string
}

// Report summarizes one run
type Report struct {
	Pages    int
	URLs     int
	Rows     int
	Failures []crawler.Failure
	Duration time.Duration
}

// Pipeline handles the crawling, cleaning and publishing process
type Pipeline struct {
	crawler   crawler.Crawler
	writer    storage.DatasetWriter
	publisher publisher.Publisher
	logger    helpers.LoggerInterface
	opts      Options
}

// NewPipeline creates a new pipeline. pub may be nil.
func NewPipeline(
	c crawler.Crawler,
	writer storage.DatasetWriter,
	pub publisher.Publisher,
	logger helpers.LoggerInterface,
	opts Options,
) *Pipeline {
	return &Pipeline{
		crawler:   c,
		writer:    writer,
		publisher: pub,
		logger:    logger,
		opts:      opts,
	}
}

// Start runs the pipeline, then keeps running it every Interval until ctx is done
func (p *Pipeline) Start(ctx context.Context) error {
	for {
		report, err := p.Run(ctx)
		if err == nil && p.opts.Environment != "production" {
			p.logger.LogInfo("Scrape took %s (%d rows, %d failures)", report.Duration, report.Rows, len(report.Failures))
		}
		if p.opts.Interval <= 0 {
			return err
		}
		if err != nil {
			logger.ForWorker().Error().Err(err).Msg("Run failed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(p.opts.Interval):
		}
	}
}

// Run scrapes the category once and writes the cleaned dataset.
// Listing failures are reported, not returned; structural failures abort.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	log := logger.ForWorker()
	report := &Report{}

	last, err := p.crawler.LastPage(ctx, p.opts.CategoryURL)
	if err != nil {
		return nil, fmt.Errorf("discover pages of %s: %w", p.opts.CategoryURL, err)
	}
	pages := crawler.GeneratePageURLs(p.opts.CategoryURL, last)
	report.Pages = len(pages)

	urls, err := p.crawler.CollectListingURLs(ctx, pages)
	if err != nil {
		return nil, fmt.Errorf("collect listing urls: %w", err)
	}
	if p.opts.Dedup {
		urls = DedupURLs(urls)
	}
	report.URLs = len(urls)

	log.Info().
		Int("pages", report.Pages).
		Int("listings", report.URLs).
		Msg("Collected listings")

	result, err := p.crawler.BuildDataset(ctx, p.opts.CategoryURL, urls)
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}
	report.Failures = result.Failures
	for _, f := range result.Failures {
		p.logger.LogError(f.URL, f.Err)
	}

	table := dataset.Normalize(result.Table)
	report.Rows = table.Len()

	if err := p.writer.Write(table); err != nil {
		return nil, fmt.Errorf("write dataset: %w", err)
	}

	records := table.Records()
	if p.publisher != nil {
		p.publish(records)
	}
	if p.opts.Environment != "production" {
		p.summarize(records)
	}

	report.Duration = time.Since(start)
	log.Info().
		Int("rows", report.Rows).
		Int("failures", len(report.Failures)).
		Dur("duration", report.Duration).
		Msg("Run finished")

	return report, nil
}

// publish sends every record to its stream, then trims the streams
func (p *Pipeline) publish(records []dataset.CleanedListing) {
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			p.logger.LogError("Publisher", err)
			continue
		}
		if err := p.publisher.Publish(r.URL, data); err != nil {
			p.logger.LogError("Publisher", err)
		}
	}

	// Trim all streams after publishing
	if err := p.publisher.TrimStreams(); err != nil {
		p.logger.LogError("StreamTrimming", err)
	}
}

// summarize logs a few aggregates of the run
func (p *Pipeline) summarize(records []dataset.CleanedListing) {
	event := logger.ForWorker().Debug().Int("records", len(records))

	if body, err := analytics.Mode(records, analytics.ByBodyType); err == nil {
		event = event.Str("top_body_type", body)
	}
	if means, err := analytics.MeanBy(records, analytics.ByModel, analytics.Price); err == nil {
		event = event.Interface("mean_price_by_model", means)
	}
	if cheapest, priciest, err := analytics.MinMaxPrice(records); err == nil {
		event = event.
			Float64("min_price", *cheapest.PriceAmount).
			Float64("max_price", *priciest.PriceAmount)
	}

	event.Msg("Dataset summary")
}

// DedupURLs drops repeated URLs, keeping the first occurrence
func DedupURLs(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
