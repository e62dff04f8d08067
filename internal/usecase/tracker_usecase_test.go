package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/price-tracker/internal/scrape"
	"github.com/user/price-tracker/pkg/utils"
)

const productPage = `<html><head><title>Great Phone Buy Now</title>` +
	`<link rel="canonical" href="https://www.flipkart.com/great-phone/p/itm1"></head><body>` +
	`<img class="DByo_b _53J4C-" alt="phone" src="//rukminim2.flixcart.com/image/416/416/phone.jpeg">` +
	`<div class="Nx9bqj _4b5DiR">₹12,999</div></body></html>`

func TestTrack_Success(t *testing.T) {
	fetcher := &fakeFetcher{html: productPage}
	tracker := NewTrackerUseCase(fetcher, "fake", zap.NewNop())

	snap, err := tracker.Track(context.Background(), "  https://www.flipkart.com/great-phone/p/itm1?pid=X  ")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://www.flipkart.com/great-phone/p/itm1?pid=X"}, fetcher.calls)
	assert.Equal(t, "12,999", snap.Price)
	assert.Equal(t, "Great Phone", snap.Title)
	require.NotNil(t, snap.Image)
	assert.Equal(t, "https://rukminim2.flixcart.com/image/416/416/phone.jpeg", *snap.Image)
	assert.Equal(t, "https://www.flipkart.com/great-phone/p/itm1", snap.CanonicalURL)
	assert.Equal(t, "price-nx9bqj", snap.PricePattern)
	assert.False(t, snap.CapturedAt.IsZero())
}

func TestTrack_FetchFailedPassesThrough(t *testing.T) {
	fetcher := &fakeFetcher{err: &scrape.StatusError{URL: "https://www.flipkart.com/x", StatusCode: 404}}
	tracker := NewTrackerUseCase(fetcher, "fake", zap.NewNop())

	snap, err := tracker.Track(context.Background(), "https://www.flipkart.com/x")
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, scrape.ErrFetchFailed)
	assert.NotErrorIs(t, err, scrape.ErrUnexpected)
	assert.Len(t, fetcher.calls, 1)
}

func TestTrack_TransportErrorIsUnexpected(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	tracker := NewTrackerUseCase(&fakeFetcher{err: cause}, "fake", zap.NewNop())

	_, err := tracker.Track(context.Background(), "https://www.flipkart.com/x")
	assert.ErrorIs(t, err, scrape.ErrUnexpected)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, scrape.ErrFetchFailed)
}

func TestTrack_PriceNotFound(t *testing.T) {
	tracker := NewTrackerUseCase(&fakeFetcher{html: `<title>Great Phone</title>`}, "fake", zap.NewNop())

	snap, err := tracker.Track(context.Background(), "https://www.flipkart.com/x")
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, scrape.ErrPriceNotFound)
}

func TestTrack_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "ftp://www.flipkart.com/x", "file:///etc/passwd"} {
		fetcher := &fakeFetcher{html: productPage}
		tracker := NewTrackerUseCase(fetcher, "fake", zap.NewNop())

		_, err := tracker.Track(context.Background(), raw)
		assert.ErrorIs(t, err, scrape.ErrUnexpected, raw)
		assert.ErrorIs(t, err, utils.ErrInvalidURL, raw)
		assert.Empty(t, fetcher.calls, raw)
	}
}

func TestTrack_AbsoluteImageUnchanged(t *testing.T) {
	const image = "https://rukminim2.flixcart.com/image/a/../b%2Fc.jpeg?q=70"
	html := `<img class="_396cs4 x" src="` + image + `"><div class="Nx9W0j">₹799</div>`
	tracker := NewTrackerUseCase(&fakeFetcher{html: html}, "fake", zap.NewNop())

	snap, err := tracker.Track(context.Background(), "https://www.flipkart.com/x")
	require.NoError(t, err)
	require.NotNil(t, snap.Image)
	assert.Equal(t, image, *snap.Image)
	assert.Empty(t, snap.CanonicalURL)
}
