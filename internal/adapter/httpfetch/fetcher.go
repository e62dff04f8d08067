package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/user/price-tracker/internal/repository"
	"github.com/user/price-tracker/internal/scrape"
	"github.com/user/price-tracker/pkg/utils"
)

// maxBodyBytes caps how much of a product page is read.
const maxBodyBytes = 8 << 20

// Options configures a Fetcher.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	// RatePerSecond limits outbound requests across all callers. Zero
	// disables limiting.
	RatePerSecond float64
	Burst         int
}

// Fetcher retrieves product pages with a browser-like GET request.
type Fetcher struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewFetcher creates a new PageFetcher backed by net/http.
func NewFetcher(opts Options, logger *zap.Logger) repository.PageFetcher {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	return &Fetcher{
		client:    &http.Client{Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
		limiter:   limiter,
		logger:    logger,
	}
}

// Fetch issues a single GET for url. There is no retry.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if _, err := utils.ParseHTTPURL(url); err != nil {
		return "", err
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	for k, v := range BrowserHeaders(f.userAgent) {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		f.logger.Warn("product page returned non-success status",
			zap.String("url", url), zap.Int("status", resp.StatusCode))
		return "", &scrape.StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", url, err)
	}
	return string(body), nil
}

// BrowserHeaders are sent with every product page request so that the site
// serves the same markup a desktop browser gets, uncached.
func BrowserHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
		"Cache-Control":   "no-cache",
		"Pragma":          "no-cache",
	}
}
