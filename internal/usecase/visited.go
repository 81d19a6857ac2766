package usecase

// visitedSet holds every URL placed into a frontier during one crawl. It only grows.
type visitedSet map[string]struct{}

func (v visitedSet) Has(url string) bool {
	_, ok := v[url]
	return ok
}

// Add reports whether url was newly added.
func (v visitedSet) Add(url string) bool {
	if v.Has(url) {
		return false
	}
	v[url] = struct{}{}
	return true
}
