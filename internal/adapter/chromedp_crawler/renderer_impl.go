package chromedp_crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/user/careerscan/internal/entity"
	"github.com/user/careerscan/internal/repository"
)

const defaultNavigationTimeout = 20 * time.Second

// Options configures the headless browser.
type Options struct {
	ExecPath          string
	Headless          bool
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
	UserAgents        []string
}

// ChromedpRenderer renders pages in a single headless Chrome, opening a fresh
// browser context (separate cookies and cache) for every navigation.
type ChromedpRenderer struct {
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc

	navigationTimeout time.Duration
	settleDelay       time.Duration
	agents            *userAgentRotator
	logger            *slog.Logger
}

var _ repository.Renderer = (*ChromedpRenderer)(nil)

// NewChromedpRenderer launches the browser. Call Close to shut it down.
func NewChromedpRenderer(opts Options, logger *slog.Logger) (*ChromedpRenderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = defaultNavigationTimeout
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(debugLogf(logger)))

	// An empty Run starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.Info("Headless browser started", "headless", opts.Headless)

	return &ChromedpRenderer{
		browserCtx:        browserCtx,
		cancelBrowser:     cancelBrowser,
		cancelAlloc:       cancelAlloc,
		navigationTimeout: opts.NavigationTimeout,
		settleDelay:       opts.SettleDelay,
		agents:            newUserAgentRotator(opts.UserAgents),
		logger:            logger,
	}, nil
}

// Close shuts the browser down.
func (r *ChromedpRenderer) Close() {
	r.cancelBrowser()
	r.cancelAlloc()
}

// Navigate loads url, waits for the network to go idle (at most the settle delay
// after load) and returns the DOM and frame tree.
func (r *ChromedpRenderer) Navigate(ctx context.Context, url string) (*entity.RenderedPage, error) {
	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx, chromedp.WithNewBrowserContext())
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	navCtx, cancel := context.WithTimeout(tabCtx, r.navigationTimeout)
	defer cancel()

	var armed atomic.Bool
	idle := make(chan struct{}, 1)
	chromedp.ListenTarget(navCtx, func(ev interface{}) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" && armed.Load() {
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	})

	err := chromedp.Run(navCtx,
		emulation.SetUserAgentOverride(r.agents.Next()),
		page.SetLifecycleEventsEnabled(true),
		chromedp.ActionFunc(func(context.Context) error {
			armed.Store(true)
			return nil
		}),
		chromedp.Navigate(url),
	)
	if err != nil {
		return nil, r.navigationError(url, navCtx, err)
	}

	settle := time.NewTimer(r.settleDelay)
	defer settle.Stop()
	select {
	case <-idle:
	case <-settle.C:
		r.logger.Debug("Network not idle within settle delay, continuing", "url", url)
	case <-navCtx.Done():
		return nil, r.navigationError(url, navCtx, navCtx.Err())
	}

	rendered := &entity.RenderedPage{}
	err = chromedp.Run(navCtx,
		chromedp.Location(&rendered.OwnURL),
		chromedp.OuterHTML("html", &rendered.HTML, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			rendered.FrameURLs = frameURLs(tree)
			return nil
		}),
	)
	if err != nil {
		return nil, &entity.FetchError{
			URL:   url,
			Kind:  entity.FailureExtraction,
			Cause: fmt.Errorf("%w: %v", repository.ErrExtractionFailed, err),
		}
	}

	return rendered, nil
}

func (r *ChromedpRenderer) navigationError(url string, navCtx context.Context, err error) error {
	if errors.Is(navCtx.Err(), context.DeadlineExceeded) {
		return &entity.FetchError{
			URL:   url,
			Kind:  entity.FailureTimeout,
			Cause: fmt.Errorf("%w after %s: %v", repository.ErrNavigationTimeout, r.navigationTimeout, err),
		}
	}
	return &entity.FetchError{
		URL:   url,
		Kind:  entity.FailureNavigation,
		Cause: fmt.Errorf("%w: %v", repository.ErrNavigationFailed, err),
	}
}

// frameURLs flattens the frame tree depth-first, main frame first.
func frameURLs(tree *page.FrameTree) []string {
	if tree == nil || tree.Frame == nil {
		return nil
	}
	urls := []string{tree.Frame.URL + tree.Frame.URLFragment}
	for _, child := range tree.ChildFrames {
		urls = append(urls, frameURLs(child)...)
	}
	return urls
}

func debugLogf(logger *slog.Logger) func(string, ...interface{}) {
	return func(format string, args ...interface{}) {
		logger.Debug(fmt.Sprintf(format, args...), "component", "chromedp")
	}
}
