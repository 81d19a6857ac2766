package utils

import (
	"net/url"
	"strings"
)

// Origin returns scheme://host of rawURL, or "" when rawURL has no scheme or host.
func Origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Hostname returns the lower-cased host of rawURL without port, or "unknown".
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// ToAbsoluteURL makes href absolute for a link found on pageURL.
// Hrefs that already carry a scheme are returned unchanged; anything else
// (scheme-relative, root-relative or bare relative) is resolved against the
// origin of pageURL.
func ToAbsoluteURL(pageURL, href string) string {
	href = strings.TrimSpace(href)
	ref, err := url.Parse(href)
	if err == nil && ref.Scheme != "" {
		return href
	}

	origin := Origin(pageURL)
	if origin == "" {
		return href
	}
	base, _ := url.Parse(origin + "/")
	if err != nil {
		return origin + "/" + strings.TrimPrefix(href, "/")
	}
	return base.ResolveReference(ref).String()
}

// ContainsAny reports whether s contains any of the non-empty patterns.
func ContainsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(s, p) {
			return true
		}
	}
	return false
}
