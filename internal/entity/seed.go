package entity

// SeedEntry is one (organization, career page) pair supplied by the caller.
type SeedEntry struct {
	Organization string `json:"organization" validate:"required"`
	URL          string `json:"url" validate:"required,url"`
}

// FrontierEntry is a page scheduled for fetching in the current round.
type FrontierEntry struct {
	Organization string
	URL          string
}

// Frontier converts seeds to round-0 frontier entries, collapsing duplicate
// (organization, url) pairs while keeping first-seen order.
func Frontier(seeds []SeedEntry) []FrontierEntry {
	seen := make(map[FrontierEntry]struct{}, len(seeds))
	frontier := make([]FrontierEntry, 0, len(seeds))
	for _, s := range seeds {
		e := FrontierEntry{Organization: s.Organization, URL: s.URL}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		frontier = append(frontier, e)
	}
	return frontier
}
