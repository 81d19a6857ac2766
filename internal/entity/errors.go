package entity

import (
	"fmt"
	"strings"
)

// FailureKind classifies a per-page failure.
type FailureKind string

const (
	FailureTimeout    FailureKind = "timeout"
	FailureNavigation FailureKind = "navigation"
	FailureExtraction FailureKind = "extraction"
)

// FetchError is the per-entry failure recorded in a CrawlResult.
type FetchError struct {
	URL   string
	Kind  FailureKind
	Cause error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failure for %s: %v", e.Kind, e.URL, e.Cause)
	}
	return fmt.Sprintf("%s failure for %s", e.Kind, e.URL)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// ConfigError reports invalid crawl configuration or a malformed seed list.
// A crawl never starts when one is returned.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}
