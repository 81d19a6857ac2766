package entity

// Anchor is an <a href> element found on a rendered page.
type Anchor struct {
	Text string
	Href string
}

// RenderedPage is what the renderer hands back after a page has settled.
type RenderedPage struct {
	// OwnURL is the page's location after redirects.
	OwnURL string
	// FrameURLs are the URLs of every frame in the page's frame tree, in tree order.
	FrameURLs []string
	// HTML is the serialized DOM of the top-level document.
	HTML string
}

// CrawlResult is the outcome of fetching a single frontier entry.
type CrawlResult struct {
	Organization string
	URL          string
	// DiscoveredURLs holds the distinct sub-frame URLs on success, or exactly URL on failure.
	DiscoveredURLs []string
	Jobs           []JobRecord
	// Err is a *FetchError when the fetch or extraction failed.
	Err error
}

// Failed reports whether the entry could not be fetched or extracted.
func (r CrawlResult) Failed() bool { return r.Err != nil }

// FailedResult builds the result for an entry whose fetch failed: no jobs, and its own
// URL rediscovered so the next round retries it once.
func FailedResult(entry FrontierEntry, err error) CrawlResult {
	return CrawlResult{
		Organization:   entry.Organization,
		URL:            entry.URL,
		DiscoveredURLs: []string{entry.URL},
		Err:            err,
	}
}
