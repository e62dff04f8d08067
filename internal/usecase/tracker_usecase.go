package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/user/price-tracker/internal/entity"
	"github.com/user/price-tracker/internal/repository"
	"github.com/user/price-tracker/internal/scrape"
	"github.com/user/price-tracker/pkg/metrics"
	"github.com/user/price-tracker/pkg/utils"
)

// Tracker looks up the current listing of a product page.
type Tracker interface {
	// Track fetches rawURL once and extracts its price, title and image.
	// Errors match scrape.ErrFetchFailed, scrape.ErrPriceNotFound or
	// scrape.ErrUnexpected.
	Track(ctx context.Context, rawURL string) (*entity.ProductSnapshot, error)
}

type trackerUseCase struct {
	fetcher     repository.PageFetcher
	fetcherName string
	extractor   *scrape.Extractor
	logger      *zap.Logger
}

// NewTrackerUseCase creates a Tracker. fetcherName labels fetch metrics.
func NewTrackerUseCase(fetcher repository.PageFetcher, fetcherName string, logger *zap.Logger) Tracker {
	return &trackerUseCase{
		fetcher:     fetcher,
		fetcherName: fetcherName,
		extractor:   scrape.NewExtractor(),
		logger:      logger,
	}
}

func (uc *trackerUseCase) Track(ctx context.Context, rawURL string) (*entity.ProductSnapshot, error) {
	pageURL, err := utils.ParseHTTPURL(rawURL)
	if err != nil {
		metrics.TracksTotal.WithLabelValues("unexpected", "").Inc()
		return nil, scrape.Unexpected(err)
	}

	start := time.Now()
	html, err := uc.fetcher.Fetch(ctx, pageURL.String())
	metrics.FetchDuration.WithLabelValues(uc.fetcherName).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, scrape.ErrFetchFailed) {
			metrics.TracksTotal.WithLabelValues("fetch_failed", "").Inc()
			uc.logger.Warn("product fetch failed", zap.String("url", pageURL.String()), zap.Error(err))
			return nil, err
		}
		metrics.TracksTotal.WithLabelValues("unexpected", "").Inc()
		uc.logger.Error("product fetch errored", zap.String("url", pageURL.String()), zap.Error(err))
		return nil, scrape.Unexpected(err)
	}

	snap, err := uc.extractor.ExtractPage(pageURL, html)
	if err != nil {
		if errors.Is(err, scrape.ErrPriceNotFound) {
			metrics.TracksTotal.WithLabelValues("price_not_found", "").Inc()
			uc.logger.Warn("no price pattern matched, layout may have changed",
				zap.String("url", pageURL.String()), zap.Int("html_bytes", len(html)))
			return nil, err
		}
		metrics.TracksTotal.WithLabelValues("unexpected", "").Inc()
		uc.logger.Error("extraction failed", zap.String("url", pageURL.String()), zap.Error(err))
		return nil, scrape.Unexpected(err)
	}

	metrics.TracksTotal.WithLabelValues("success", snap.PricePattern).Inc()
	uc.logger.Info("tracked product price",
		zap.String("url", pageURL.String()),
		zap.String("price", snap.Price),
		zap.String("pattern", snap.PricePattern))
	return snap, nil
}
