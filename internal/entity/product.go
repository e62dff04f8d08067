package entity

import "time"

// DefaultProductTitle is used when no title pattern matches a product page.
const DefaultProductTitle = "Flipkart Product"

// ProductSnapshot is the result of one price lookup. It is built once and
// never modified afterwards.
type ProductSnapshot struct {
	Price string
	Title string
	// Image is nil when no image pattern matched.
	Image *string
	// CanonicalURL is the page's <link rel="canonical"> target, if any.
	CanonicalURL string
	// PricePattern names the price pattern that produced Price.
	PricePattern string
	CapturedAt   time.Time
}

// Timestamp renders CapturedAt as a wall-clock time of day.
func (p *ProductSnapshot) Timestamp() string {
	return p.CapturedAt.Format("3:04:05 PM")
}
