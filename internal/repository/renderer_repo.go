package repository

import (
	"context"

	"github.com/user/careerscan/internal/entity"
)

// Renderer loads a page in a fresh headless browsing context.
type Renderer interface {
	// Navigate renders url and returns the settled DOM together with the page's frame URLs.
	// Failures are reported as *entity.FetchError.
	Navigate(ctx context.Context, url string) (*entity.RenderedPage, error)
}
