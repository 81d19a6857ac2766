package crawler

import (
	"github.com/user/careerscan/internal/entity"
	"github.com/user/careerscan/pkg/utils"
)

// Classify returns a job record for anchor when its text satisfies policy.
// The apply link is made absolute against the origin of pageURL.
func Classify(anchor entity.Anchor, organization, pageURL string, policy entity.KeywordPolicy) (entity.JobRecord, bool) {
	if anchor.Text == "" || !policy.Matches(anchor.Text) {
		return entity.JobRecord{}, false
	}
	return entity.JobRecord{
		Organization: organization,
		Title:        anchor.Text,
		ApplyLink:    utils.ToAbsoluteURL(pageURL, anchor.Href),
	}, true
}

// Process extracts and classifies one rendered page into a successful CrawlResult.
func Process(entry entity.FrontierEntry, page *entity.RenderedPage, policy entity.KeywordPolicy) (entity.CrawlResult, error) {
	anchors, err := ExtractAnchors(page)
	if err != nil {
		return entity.CrawlResult{}, err
	}

	pageURL := page.OwnURL
	if pageURL == "" {
		pageURL = entry.URL
	}

	jobs := make([]entity.JobRecord, 0)
	for _, a := range anchors {
		if job, ok := Classify(a, entry.Organization, pageURL, policy); ok {
			jobs = append(jobs, job)
		}
	}

	return entity.CrawlResult{
		Organization:   entry.Organization,
		URL:            entry.URL,
		DiscoveredURLs: SubFrameURLs(page, entry.URL),
		Jobs:           jobs,
	}, nil
}
