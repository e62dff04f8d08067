package chromedp_fetcher

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/price-tracker/internal/adapter/httpfetch"
	"github.com/user/price-tracker/internal/repository"
	"github.com/user/price-tracker/internal/scrape"
	"github.com/user/price-tracker/pkg/utils"
)

// ChromedpFetcher renders product pages in headless Chrome. It is used when
// the plain HTTP response lacks the price markup that client-side scripts
// would insert.
type ChromedpFetcher struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	userAgent   string
	timeout     time.Duration
	wait        time.Duration
	logger      *zap.Logger
}

// NewChromedpFetcher starts a browser allocator shared by all fetches.
// Close must be called to release it.
func NewChromedpFetcher(userAgent string, timeout, wait time.Duration, logger *zap.Logger) *ChromedpFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpFetcher{
		allocCtx:    allocCtx,
		cancelAlloc: cancel,
		userAgent:   userAgent,
		timeout:     timeout,
		wait:        wait,
		logger:      logger,
	}
}

var _ repository.PageFetcher = (*ChromedpFetcher)(nil)

// Fetch navigates to url and returns the rendered document.
func (c *ChromedpFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if _, err := utils.ParseHTTPURL(url); err != nil {
		return "", err
	}

	taskCtx, cancel := chromedp.NewContext(c.allocCtx, chromedp.WithLogf(c.logger.Sugar().Debugf))
	defer cancel()

	taskCtx, cancel = context.WithTimeout(taskCtx, c.timeout)
	defer cancel()

	// Abandon the browser tab when the caller goes away.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	headers := network.Headers{}
	for k, v := range httpfetch.BrowserHeaders(c.userAgent) {
		if k != "User-Agent" {
			headers[k] = v
		}
	}

	// Status of the first document response, i.e. the page itself.
	var status atomic.Int64
	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		if e, ok := ev.(*network.EventResponseReceived); ok && e.Type == network.ResourceTypeDocument {
			status.CompareAndSwap(0, e.Response.Status)
		}
	})

	var html string
	start := time.Now()
	err := chromedp.Run(taskCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
		network.SetCacheDisabled(true),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(c.wait),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}

	statusCode := status.Load()
	if statusCode != 0 && (statusCode < 200 || statusCode > 299) {
		return "", &scrape.StatusError{URL: url, StatusCode: int(statusCode)}
	}

	c.logger.Debug("rendered product page",
		zap.String("url", url),
		zap.Int64("status", statusCode),
		zap.Duration("duration", time.Since(start)))
	return html, nil
}

// Close shuts down the browser.
func (c *ChromedpFetcher) Close() {
	c.cancelAlloc()
}
