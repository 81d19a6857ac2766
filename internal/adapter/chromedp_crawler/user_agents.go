package chromedp_crawler

import "sync"

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// userAgentRotator hands out desktop user agents in round-robin order.
type userAgentRotator struct {
	agents []string
	mu     sync.Mutex
	index  int
}

func newUserAgentRotator(agents []string) *userAgentRotator {
	if len(agents) == 0 {
		agents = defaultUserAgents
	}
	return &userAgentRotator{agents: agents}
}

// Next returns the next user agent.
func (r *userAgentRotator) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	agent := r.agents[r.index]
	r.index = (r.index + 1) % len(r.agents)
	return agent
}
