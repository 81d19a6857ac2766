package usecase

import (
	"cmp"
	"slices"

	"github.com/user/careerscan/internal/entity"
)

// Finalize deduplicates records by full equality and sorts them by organization,
// then title, then apply link. The input is left untouched.
func Finalize(records []entity.JobRecord) []entity.JobRecord {
	seen := make(map[entity.JobRecord]struct{}, len(records))
	out := make([]entity.JobRecord, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}

	slices.SortFunc(out, func(a, b entity.JobRecord) int {
		return cmp.Or(
			cmp.Compare(a.Organization, b.Organization),
			cmp.Compare(a.Title, b.Title),
			cmp.Compare(a.ApplyLink, b.ApplyLink),
		)
	})
	return out
}
