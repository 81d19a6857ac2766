package request

import "github.com/user/careerscan/internal/entity"

// SubmitSearchRequest is the JSON body of POST /api/search.
type SubmitSearchRequest struct {
	Seeds   []entity.SeedEntry `json:"seeds"`
	Include []string           `json:"include,omitempty"`
	Exclude []string           `json:"exclude,omitempty"`
}
