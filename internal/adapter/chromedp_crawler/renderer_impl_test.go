package chromedp_crawler

import (
	"sync"
	"testing"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/stretchr/testify/assert"
)

func TestFrameURLs(t *testing.T) {
	tree := &page.FrameTree{
		Frame: &cdp.Frame{URL: "https://acme.example/jobs"},
		ChildFrames: []*page.FrameTree{
			{
				Frame: &cdp.Frame{URL: "https://boards.example/embed", URLFragment: "#list"},
				ChildFrames: []*page.FrameTree{
					{Frame: &cdp.Frame{URL: "about:blank"}},
				},
			},
			{Frame: &cdp.Frame{URL: "https://www.google.com/recaptcha/api2/anchor"}},
		},
	}

	assert.Equal(t, []string{
		"https://acme.example/jobs",
		"https://boards.example/embed#list",
		"about:blank",
		"https://www.google.com/recaptcha/api2/anchor",
	}, frameURLs(tree))
	assert.Nil(t, frameURLs(nil))
}

func TestUserAgentRotator(t *testing.T) {
	r := newUserAgentRotator([]string{"a", "b"})
	assert.Equal(t, "a", r.Next())
	assert.Equal(t, "b", r.Next())
	assert.Equal(t, "a", r.Next())

	def := newUserAgentRotator(nil)
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Contains(t, defaultUserAgents, def.Next())
		}()
	}
	wg.Wait()
}
