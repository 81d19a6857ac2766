package repository

import "errors"

var (
	ErrNavigationTimeout = errors.New("navigation timed out")
	ErrNavigationFailed  = errors.New("navigation failed")
	ErrExtractionFailed  = errors.New("extraction failed")
	ErrRunNotFound       = errors.New("search run not found")
)
