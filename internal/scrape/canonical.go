package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CanonicalURL returns the href of the page's <link rel="canonical">, or ""
// when the page has none or cannot be parsed.
func CanonicalURL(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	href, _ := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	return strings.TrimSpace(href)
}
