package entity

// JobRecord is a classified job posting. It mirrors the `job_records` PostgreSQL table.
type JobRecord struct {
	Organization string `json:"organization"`
	Title        string `json:"title"`
	ApplyLink    string `json:"apply_link"`
}
