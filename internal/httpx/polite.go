package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/corpix/uarand"
	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

// PoliteClient is a plain GET client that honors robots.txt and per-host
// rate limits. It backs the fallback web search, which scrapes a public
// HTML endpoint rather than calling an API.
type PoliteClient struct {
	client      *http.Client
	limiters    map[string]*rate.Limiter
	robotsCache map[string]*robotstxt.RobotsData
	mu          sync.Mutex
}

func NewPoliteClient(timeout time.Duration) *PoliteClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PoliteClient{
		client:      &http.Client{Timeout: timeout},
		limiters:    map[string]*rate.Limiter{},
		robotsCache: map[string]*robotstxt.RobotsData{},
	}
}

// Get fetches the URL with a rotated User-Agent, or fails if robots.txt
// disallows the path. Robots lookups fail open.
func (p *PoliteClient) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	if rawURL == "" {
		return nil, errors.New("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}

	ua := uarand.GetRandom()
	if !p.allowed(ctx, u, ua) {
		return nil, fmt.Errorf("blocked by robots.txt: %s", u)
	}

	if err := p.limiterFor(u.Hostname()).Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", languageHeader)
	req.Header.Set("Referer", refererHeader)

	return p.client.Do(req)
}

func (p *PoliteClient) limiterFor(host string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(time.Second), 2)
	p.limiters[host] = l
	return l
}

func (p *PoliteClient) allowed(ctx context.Context, u *url.URL, ua string) bool {
	data, err := p.robotsFor(ctx, u)
	if err != nil {
		return true
	}
	group := data.FindGroup(ua)
	if group == nil {
		group = data.FindGroup("*")
	}
	if group == nil {
		return true
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return group.Test(path)
}

func (p *PoliteClient) robotsFor(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	host := u.Hostname()
	p.mu.Lock()
	if data, ok := p.robotsCache[host]; ok {
		p.mu.Unlock()
		return data, nil
	}
	p.mu.Unlock()

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}

	if err := p.limiterFor(host).Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.robotsCache[host] = data
	p.mu.Unlock()
	return data, nil
}
