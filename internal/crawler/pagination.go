package crawler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"sjsage522/carcrawler/helpers"
	"sjsage522/carcrawler/logger"
	apperrors "sjsage522/carcrawler/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

// LastPage fetches the first index page of a category and reads the page
// count off its "previous page" link. A category without pagination has one
// page.
func (c *SSCrawler) LastPage(ctx context.Context, baseURL string) (int, error) {
	doc, err := c.fetchDocument(ctx, baseURL)
	if err != nil {
		return 0, err
	}
	return c.lastPageFromDocument(baseURL, doc)
}

func (c *SSCrawler) lastPageFromDocument(baseURL string, doc *goquery.Document) (int, error) {
	link := doc.Find(c.Selectors.PrevPage).First()
	if link.Length() == 0 {
		return 1, nil
	}

	href, _ := link.Attr("href")
	n, err := ParsePageNumber(href)
	if err != nil {
		perr := apperrors.NewPagination(baseURL, fmt.Sprintf("malformed pagination link %q", href), err)
		if c.StrictPagination {
			return 0, perr
		}
		logger.ForCrawler(c.GetName()).Warn().Err(perr).Msg("Assuming a single page")
		return 1, nil
	}

	n += c.PageOffset
	if n < 1 {
		n = 1
	}
	return n, nil
}

// ParsePageNumber extracts N from an href ending in "pageN.html"
func ParsePageNumber(href string) (int, error) {
	tail := helpers.LastSplitPart(href, "page")
	if tail == href || !strings.HasSuffix(tail, ".html") {
		return 0, fmt.Errorf("no page number in %q", href)
	}
	digits, err := helpers.GetSplitPart(tail, ".html", 0)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(digits)
}

// GeneratePageURLs returns base+"page1.html" .. base+"pageN.html"
func GeneratePageURLs(baseURL string, n int) []string {
	urls := make([]string, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		urls = append(urls, baseURL+"page"+strconv.Itoa(i)+".html")
	}
	return urls
}
