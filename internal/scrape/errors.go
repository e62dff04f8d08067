package scrape

import (
	"errors"
	"fmt"
)

// The three terminal failure kinds of a price lookup. Their messages are
// shown to the user as-is.
var (
	ErrFetchFailed   = errors.New("Failed to fetch product details. Please check the URL or try again later.")
	ErrPriceNotFound = errors.New("Found the product, but couldn't extract the price. Flipkart might have changed its layout.")
	ErrUnexpected    = errors.New("An unexpected error occurred while tracking the price.")
)

// StatusError reports an upstream response that did not carry a 2xx status.
// It unwraps to ErrFetchFailed.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: received status code %d", e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrFetchFailed
}

// Unexpected wraps err so that it matches ErrUnexpected while keeping the
// cause for logs.
func Unexpected(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnexpected) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnexpected, err)
}

// UserMessage returns the user-facing text for a lookup failure. Errors that
// are not one of the known kinds map to the generic message.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrFetchFailed):
		return ErrFetchFailed.Error()
	case errors.Is(err, ErrPriceNotFound):
		return ErrPriceNotFound.Error()
	default:
		return ErrUnexpected.Error()
	}
}
