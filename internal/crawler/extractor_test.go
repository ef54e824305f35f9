package crawler

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractFields(t *testing.T) {
	doc := docFrom(t, listingPage(listingFixture{
		model:        "320",
		year:         "2015 05",
		motor:        "2.0 Benzīns",
		transmission: "Automāts",
		mileage:      "245 000",
		color:        "Melns metālika",
		body:         "Sedans",
		price:        "15 000 €",
	}))

	fields := ExtractFields(doc, DefaultFieldIDs)
	assert.Equal(t, map[string]string{
		FieldModel:        "320",
		FieldYear:         "2015 05",
		FieldMotorType:    "2.0 Benzīns",
		FieldTransmission: "Automāts",
		FieldMileage:      "245 000",
		FieldColor:        "Melns",
		FieldBodyType:     "Sedans",
		FieldPrice:        "15 000 €",
	}, fields)
}

func TestExtractFieldsMissingMarkup(t *testing.T) {
	doc := docFrom(t, listingPage(listingFixture{model: "X5", color: "Balts"}))

	fields := ExtractFields(doc, DefaultFieldIDs)
	require.Len(t, fields, 8)
	assert.Equal(t, "X5", fields[FieldModel])
	assert.Equal(t, "Balts", fields[FieldColor])
	for _, f := range []string{FieldYear, FieldMotorType, FieldTransmission, FieldMileage, FieldBodyType, FieldPrice} {
		assert.Equal(t, NotAvailable, fields[f], f)
	}

	empty := ExtractFields(docFrom(t, "<html></html>"), DefaultFieldIDs)
	for _, f := range FieldOrder {
		assert.Equal(t, NotAvailable, empty[f])
	}
}

func TestExtractFieldsNormalizesText(t *testing.T) {
	// Decomposed "i" + combining macron must come out as a single "ī"
	doc := docFrom(t, "<table><tr><td id=\"tdo_15\">  2.0\n\t\tBenzi\u0304ns </td><td id=\"tdo_17\">   </td></tr></table>")

	fields := ExtractFields(doc, DefaultFieldIDs)
	assert.Equal(t, "2.0 Benz\u012bns", fields[FieldMotorType])
	assert.Equal(t, NotAvailable, fields[FieldColor], "blank text is not available")
}

func TestExtractFieldsCustomIDs(t *testing.T) {
	doc := docFrom(t, `<span id="price-box">9 999 €</span>`)

	fields := ExtractFields(doc, map[string]string{FieldPrice: "price-box"})
	assert.Equal(t, "9 999 €", fields[FieldPrice])
	assert.Equal(t, NotAvailable, fields[FieldModel])
}

func TestExtractListing(t *testing.T) {
	const url = testSiteRoot + "/msg/lv/transport/cars/bmw/abc.html"
	fetcher := NewMockFetcher(map[string]string{
		url: listingPage(listingFixture{model: "320", price: "7 500 €"}),
	})
	crawler := newTestCrawler(fetcher, nil)

	listing, err := crawler.ExtractListing(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, url, listing.URL)
	assert.Equal(t, "320", listing.Model)
	assert.Equal(t, "7 500 €", listing.Price)
	assert.Equal(t, NotAvailable, listing.Mileage)
}
