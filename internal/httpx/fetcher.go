// Package httpx provides polite HTTP fetching for contact-page scraping
// and fallback search: per-host rate limits, rotated client identity,
// bounded timeouts and retry on throttling statuses.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/corpix/uarand"
	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"
)

const (
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	languageHeader = "en-US,en;q=0.5"
	refererHeader  = "https://www.google.com/"
)

// FetchError carries the HTTP status of a failed fetch so callers can
// classify it.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch error (status %d)", e.Status)
	}
	return fmt.Sprintf("fetch error (status %d): %v", e.Status, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher wraps Colly for page fetching. Each request goes out with a
// freshly drawn User-Agent and a small fixed header set, throttled per
// host.
type Fetcher struct {
	timeout      time.Duration
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
	hosts        map[string]*rate.Limiter
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		timeout:      timeout,
		defaultRate:  rate.Every(time.Second),
		defaultBurst: 2,
		hosts:        make(map[string]*rate.Limiter),
	}
}

// FetchBytes GETs the URL and returns the response body. Non-2xx
// statuses and transport faults come back as *FetchError.
func (f *Fetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	target, err := normalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	if err := f.limiterFor(hostKey(target)).Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		body, status, err := f.fetchOnce(ctx, target)
		if err == nil {
			return body, nil
		}
		lastErr = &FetchError{Status: status, Err: err}
		if !retryableStatus(status) {
			return nil, lastErr
		}
		delay := time.Duration(500*(1<<attempt)) * time.Millisecond
		if err := sleepWithContext(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, target string) ([]byte, int, error) {
	c := colly.NewCollector(colly.UserAgent(uarand.GetRandom()))
	c.SetRequestTimeout(f.timeout)

	var (
		body   []byte
		status int
		reqErr error
	)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("Accept", acceptHeader)
		r.Headers.Set("Accept-Language", languageHeader)
		r.Headers.Set("Referer", refererHeader)
	})
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		reqErr = err
	})

	if err := c.Visit(target); err != nil {
		return nil, status, err
	}
	if err := ctx.Err(); err != nil {
		return nil, status, err
	}
	if reqErr != nil {
		return nil, status, reqErr
	}
	if status >= 300 {
		return nil, status, fmt.Errorf("status %d", status)
	}
	return body, status, nil
}

func (f *Fetcher) limiterFor(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.hosts[host]; ok {
		return l
	}
	l := rate.NewLimiter(f.defaultRate, f.defaultBurst)
	f.hosts[host] = l
	return l
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status <= 599)
}

func normalizeURL(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errors.New("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	return u.String(), nil
}

func hostKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "default"
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
