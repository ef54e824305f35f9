package crawler

import (
	"context"
	"strings"

	"sjsage522/carcrawler/helpers"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// ExtractListing fetches one advertisement page and reads its fields
func (c *SSCrawler) ExtractListing(ctx context.Context, listingURL string) (RawListing, error) {
	doc, err := c.fetchDocument(ctx, listingURL)
	if err != nil {
		return RawListing{}, err
	}

	fields := ExtractFields(doc, c.Selectors.FieldIDs)
	return RawListing{
		URL:          listingURL,
		Model:        fields[FieldModel],
		Year:         fields[FieldYear],
		MotorType:    fields[FieldMotorType],
		Transmission: fields[FieldTransmission],
		Mileage:      fields[FieldMileage],
		Color:        fields[FieldColor],
		BodyType:     fields[FieldBodyType],
		Price:        fields[FieldPrice],
	}, nil
}

// ExtractFields reads every field of FieldOrder from the element with the
// mapped id. It never fails: absent or empty elements yield NotAvailable.
func ExtractFields(doc *goquery.Document, ids map[string]string) map[string]string {
	fields := make(map[string]string, len(FieldOrder))
	for _, field := range FieldOrder {
		fields[field] = NotAvailable

		id := ids[field]
		if id == "" {
			continue
		}
		sel := doc.Find("#" + id).First()
		if sel.Length() == 0 {
			continue
		}

		text := helpers.CollapseSpaces(norm.NFC.String(sel.Text()))
		if field == FieldColor {
			// Finish ("metālika") is dropped
			text, _, _ = strings.Cut(text, " ")
		}
		if text != "" {
			fields[field] = text
		}
	}
	return fields
}
