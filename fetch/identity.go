package fetch

import (
	"math/rand"
	"net/http"
	"sync"
	"time"
)

const (
	acceptHeader         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguageHeader = "fr,fr-FR;q=0.8,en-US;q=0.5,en;q=0.3"
)

// UserAgents is the fixed pool rotated from the second attempt. The first
// entry is the default identity.
var UserAgents = [4]string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:123.0) Gecko/20100101 Firefox/123.0",
}

// Referers is the allow-list sent from the second attempt.
var Referers = []string{
	"https://www.google.com/",
	"https://www.bing.com/",
	"https://duckduckgo.com/",
	"https://www.qwant.com/",
}

// Identity is the browser a request pretends to come from.
type Identity struct {
	UserAgent string
	Referer   string
}

// Header builds the request headers for the identity.
func (id Identity) Header() http.Header {
	h := make(http.Header)
	h.Set("User-Agent", id.UserAgent)
	h.Set("Accept", acceptHeader)
	h.Set("Accept-Language", acceptLanguageHeader)
	h.Set("Cache-Control", "no-cache")
	if id.Referer != "" {
		h.Set("Referer", id.Referer)
	}
	return h
}

type rotator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newRotator(seed int64) *rotator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &rotator{rnd: rand.New(rand.NewSource(seed))}
}

// For returns the identity of the given 1-based attempt.
func (r *rotator) For(attempt int) Identity {
	if attempt <= 1 {
		return Identity{UserAgent: UserAgents[0]}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return Identity{
		UserAgent: UserAgents[r.rnd.Intn(len(UserAgents))],
		Referer:   Referers[r.rnd.Intn(len(Referers))],
	}
}
