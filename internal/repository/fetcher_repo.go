package repository

import "context"

// PageFetcher retrieves the raw HTML of a product page.
type PageFetcher interface {
	// Fetch returns the page body. A non-2xx response yields an error that
	// matches scrape.ErrFetchFailed.
	Fetch(ctx context.Context, url string) (string, error)
}
