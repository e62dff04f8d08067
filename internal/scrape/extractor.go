package scrape

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/user/price-tracker/internal/entity"
	"github.com/user/price-tracker/pkg/utils"
)

// titleMarketingMarker starts the sales suffix Flipkart appends to page titles,
// e.g. "Great Phone Buy Online at Best Price".
const titleMarketingMarker = "Buy"

type pattern struct {
	name string
	re   *regexp.Regexp
}

// Patterns are ordered most specific first. The first one that matches wins.
var (
	pricePatterns = []pattern{
		{"price-nx9bqj", regexp.MustCompile(`class="Nx9bqj _4b5DiR">₹([^<]+)<`)},
		{"price-30jeq3", regexp.MustCompile(`class="_30jeq3 _16Jk6d">₹([^<]+)<`)},
		{"price-nx9w0j", regexp.MustCompile(`class="Nx9W0j">₹([^<]+)<`)},
		{"generic", regexp.MustCompile(`₹([\d,]+)`)},
	}

	titlePatterns = []pattern{
		{"title-vuz7g", regexp.MustCompile(`class="VU-Z7G">([^<]+)<`)},
		{"title-bnuci", regexp.MustCompile(`class="B_NuCI">([^<]+)<`)},
		{"title-yhb1nd", regexp.MustCompile(`class="yhB1nd">([^<]+)<`)},
		{"document-title", regexp.MustCompile(`<title>([^<]+)</title>`)},
	}

	imagePatterns = []pattern{
		{"image-dbyob", regexp.MustCompile(`class="DByo_b[^>]+src="([^"]+)"`)},
		{"image-396cs4", regexp.MustCompile(`class="_396cs4[^>]+src="([^"]+)"`)},
		{"image-host", regexp.MustCompile(`src="([^"]+flipkart\.com/image/[^"]+)"`)},
	}
)

// firstMatch runs patterns in order and returns the first capture group of
// the first pattern that matches.
func firstMatch(patterns []pattern, html string) (value, name string, ok bool) {
	for _, p := range patterns {
		if m := p.re.FindStringSubmatch(html); m != nil {
			return m[1], p.name, true
		}
	}
	return "", "", false
}

// Extractor pulls price, title and image out of a product page.
type Extractor struct {
	now func() time.Time
}

// NewExtractor returns an Extractor stamping results with the wall clock.
func NewExtractor() *Extractor {
	return &Extractor{now: time.Now}
}

// Extract runs the price, title and image cascades over html. Price is
// mandatory: without it Extract returns ErrPriceNotFound and no snapshot.
// Title and image fall back to DefaultProductTitle and nil.
func (e *Extractor) Extract(html string) (*entity.ProductSnapshot, error) {
	return e.extract(nil, html)
}

// ExtractPage is Extract for a page fetched from pageURL. Relative image
// URLs are resolved against pageURL and the canonical URL is recorded.
func (e *Extractor) ExtractPage(pageURL *url.URL, html string) (*entity.ProductSnapshot, error) {
	return e.extract(pageURL, html)
}

func (e *Extractor) extract(pageURL *url.URL, html string) (snap *entity.ProductSnapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			snap = nil
			err = Unexpected(fmt.Errorf("extract panicked: %v", r))
		}
	}()

	rawPrice, pricePattern, _ := firstMatch(pricePatterns, html)
	price := strings.TrimSpace(rawPrice)

	title := entity.DefaultProductTitle
	if raw, _, ok := firstMatch(titlePatterns, html); ok {
		if t := cleanTitle(raw); t != "" {
			title = t
		}
	}

	var image *string
	if raw, _, ok := firstMatch(imagePatterns, html); ok {
		raw = resolveImage(pageURL, raw)
		image = &raw
	}

	// A whitespace-only capture still ends the cascade.
	if price == "" {
		return nil, ErrPriceNotFound
	}

	var canonical string
	if pageURL != nil {
		canonical = CanonicalURL(html)
	}

	return &entity.ProductSnapshot{
		Price:        price,
		Title:        title,
		Image:        image,
		CanonicalURL: canonical,
		PricePattern: pricePattern,
		CapturedAt:   e.now(),
	}, nil
}

// resolveImage leaves absolute captures untouched.
func resolveImage(pageURL *url.URL, raw string) string {
	if pageURL == nil {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() {
		return raw
	}
	if abs, err := utils.ToAbsoluteURL(pageURL, raw); err == nil {
		return abs
	}
	return raw
}

func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	if before, _, ok := strings.Cut(title, titleMarketingMarker); ok {
		title = strings.TrimSpace(before)
	}
	return title
}

var defaultExtractor = NewExtractor()

// Extract runs the default Extractor.
func Extract(html string) (*entity.ProductSnapshot, error) {
	return defaultExtractor.Extract(html)
}
