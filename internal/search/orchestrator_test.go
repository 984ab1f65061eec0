package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/baxromumarov/intern-scout/internal/serp"
)

type fakeProvider struct {
	jobs      []serp.RawJob
	jobsErr   error
	failTimes int
	jobCalls  int

	links     []string
	linksErr  error
	linkCalls int
}

func (f *fakeProvider) SearchJobs(ctx context.Context, query string, num int, locale string) ([]serp.RawJob, error) {
	f.jobCalls++
	if f.jobsErr != nil && (f.failTimes == 0 || f.jobCalls <= f.failTimes) {
		return nil, f.jobsErr
	}
	return f.jobs, nil
}

func (f *fakeProvider) SearchLinks(ctx context.Context, query string, num int) ([]string, error) {
	f.linkCalls++
	return f.links, f.linksErr
}

func newTestOrchestrator(p Provider, filter FilterConfig, attempts int) *Orchestrator {
	return NewOrchestrator(p, filter, attempts, time.Millisecond, "en", nil)
}

func TestSearchJobsSuccessRunsPipeline(t *testing.T) {
	p := &fakeProvider{jobs: []serp.RawJob{
		{CompanyName: "Acme", Title: "Backend Intern", RelatedLinks: []serp.RelatedLink{{Link: "https://acme.com/j/1"}}},
		{CompanyName: "Acme", Title: "Backend Intern", RelatedLinks: []serp.RelatedLink{{Link: "https://acme.com/j/1"}}},
		{CompanyName: "Shady Agency", Title: "Backend Intern"},
	}}
	o := newTestOrchestrator(p, FilterConfig{CompanyExcludeKeywords: []string{"agency"}}, 3)

	jobs := o.SearchJobs(context.Background(), "golang intern", 10)
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1 after filter and dedup", len(jobs))
	}
	if p.jobCalls != 1 {
		t.Errorf("success must terminate the retry loop, got %d calls", p.jobCalls)
	}
}

func TestSearchJobsRetriesThenSucceeds(t *testing.T) {
	p := &fakeProvider{
		jobs:      []serp.RawJob{{CompanyName: "Acme", Title: "Intern"}},
		jobsErr:   errors.New("transient"),
		failTimes: 2,
	}
	o := newTestOrchestrator(p, FilterConfig{}, 3)

	jobs := o.SearchJobs(context.Background(), "q", 5)
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1 after recovery", len(jobs))
	}
	if p.jobCalls != 3 {
		t.Errorf("got %d provider calls, want 3", p.jobCalls)
	}
}

func TestSearchJobsExhaustionDegradesToEmpty(t *testing.T) {
	p := &fakeProvider{jobsErr: errors.New("provider down")}
	o := newTestOrchestrator(p, FilterConfig{}, 3)

	jobs := o.SearchJobs(context.Background(), "q", 5)
	if len(jobs) != 0 {
		t.Fatalf("got %d jobs, want 0 on exhaustion", len(jobs))
	}
	if p.jobCalls != 3 {
		t.Errorf("got %d provider calls, want 3", p.jobCalls)
	}
}

func TestSearchGeneralDedupsAndCaches(t *testing.T) {
	p := &fakeProvider{links: []string{"https://a.com", "https://b.com", "https://a.com"}}
	o := newTestOrchestrator(p, FilterConfig{}, 1)

	links := o.SearchGeneral(context.Background(), "acme careers", 3)
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2 after dedup", len(links))
	}

	o.SearchGeneral(context.Background(), "acme careers", 3)
	if p.linkCalls != 1 {
		t.Errorf("got %d provider calls, want 1 (cache hit)", p.linkCalls)
	}

	o.SearchGeneral(context.Background(), "acme careers", 5)
	if p.linkCalls != 2 {
		t.Errorf("different num must miss the cache, got %d calls", p.linkCalls)
	}
}

type staticFallback struct {
	links []string
	calls int
}

func (s *staticFallback) Links(ctx context.Context, query string, limit int) []string {
	s.calls++
	return s.links
}

func TestSearchGeneralFallsBack(t *testing.T) {
	p := &fakeProvider{linksErr: errors.New("provider down")}
	fb := &staticFallback{links: []string{"https://fallback.com/careers"}}
	o := newTestOrchestrator(p, FilterConfig{}, 1).WithFallback(fb)

	links := o.SearchGeneral(context.Background(), "acme contact", 3)
	if len(links) != 1 || links[0] != "https://fallback.com/careers" {
		t.Fatalf("fallback links not used: %v", links)
	}
	if fb.calls != 1 {
		t.Errorf("fallback called %d times, want 1", fb.calls)
	}
}
