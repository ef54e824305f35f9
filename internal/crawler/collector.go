package crawler

import (
	"context"
	"strings"

	"sjsage522/carcrawler/logger"

	"github.com/PuerkitoBio/goquery"
)

// CollectListingURLs fetches every index page and returns the advertisement
// URLs found on them in page order, then document order. Any page failure
// fails the whole collection.
func (c *SSCrawler) CollectListingURLs(ctx context.Context, pageURLs []string) ([]string, error) {
	perPage := make([][]string, len(pageURLs))

	err := c.forEach(ctx, len(pageURLs), func(ctx context.Context, i int) error {
		doc, err := c.fetchDocument(ctx, pageURLs[i])
		if err != nil {
			return err
		}
		perPage[i] = ListingURLsFromPage(doc, c.Selectors.ListingLink, c.SiteRoot)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var urls []string
	for _, page := range perPage {
		urls = append(urls, page...)
	}

	logger.ForCrawler(c.GetName()).Debug().
		Int("pages", len(pageURLs)).
		Int("listings", len(urls)).
		Msg("Collected listing URLs")

	return urls, nil
}

// ListingURLsFromPage joins siteRoot with the href of every advertisement
// link in doc. Links without an href are skipped.
func ListingURLsFromPage(doc *goquery.Document, selector, siteRoot string) []string {
	var urls []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}
		urls = append(urls, siteRoot+href)
	})
	return urls
}
