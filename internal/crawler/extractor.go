// Package crawler turns rendered career pages into job records.
package crawler

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/careerscan/internal/entity"
	"github.com/user/careerscan/internal/repository"
)

// ExtractAnchors parses the rendered DOM and returns every anchor that has an href,
// in document order. Anchor text is trimmed and inner whitespace collapsed.
func ExtractAnchors(page *entity.RenderedPage) ([]entity.Anchor, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", repository.ErrExtractionFailed, page.OwnURL, err)
	}

	anchors := make([]entity.Anchor, 0)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists {
			return
		}
		anchors = append(anchors, entity.Anchor{
			Text: strings.Join(strings.Fields(s.Text()), " "),
			Href: href,
		})
	})
	return anchors, nil
}

// SubFrameURLs returns the distinct frame URLs of page other than the page's own URL,
// keeping first-seen order.
func SubFrameURLs(page *entity.RenderedPage, requestedURL string) []string {
	seen := map[string]struct{}{
		page.OwnURL:  {},
		requestedURL: {},
	}
	urls := make([]string, 0, len(page.FrameURLs))
	for _, u := range page.FrameURLs {
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls
}
