package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToAbsoluteURL(t *testing.T) {
	tests := []struct {
		name    string
		pageURL string
		href    string
		want    string
	}{
		{"root relative", "https://acme.example/jobs", "/careers/123", "https://acme.example/careers/123"},
		{"absolute unchanged", "https://acme.example/jobs", "https://boards.example/acme/1", "https://boards.example/acme/1"},
		{"other scheme unchanged", "https://acme.example/jobs", "mailto:jobs@acme.example", "mailto:jobs@acme.example"},
		{"scheme relative", "https://acme.example/jobs", "//cdn.example/apply", "https://cdn.example/apply"},
		{"bare relative resolves against origin", "https://acme.example/jobs/list", "apply/7", "https://acme.example/apply/7"},
		{"query kept", "http://acme.example:8080/a/b", "/apply?id=3", "http://acme.example:8080/apply?id=3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToAbsoluteURL(tt.pageURL, tt.href))
		})
	}
}

func TestToAbsoluteURL_UnparseablePage(t *testing.T) {
	assert.Equal(t, "/apply", ToAbsoluteURL("not a url", "/apply"))
}

func TestOriginAndHostname(t *testing.T) {
	assert.Equal(t, "https://acme.example", Origin("https://acme.example/jobs?x=1"))
	assert.Equal(t, "", Origin("/relative"))
	assert.Equal(t, "acme.example", Hostname("https://ACME.example:443/jobs"))
	assert.Equal(t, "unknown", Hostname("::"))
}

func TestContainsAny(t *testing.T) {
	patterns := []string{"recaptcha", "paypal", ""}
	assert.True(t, ContainsAny("https://www.google.com/recaptcha/api2/anchor", patterns))
	assert.False(t, ContainsAny("https://acme.example/jobs", patterns))
	assert.False(t, ContainsAny("https://acme.example/jobs", nil))
}
