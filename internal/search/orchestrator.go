package search

import (
	"context"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/baxromumarov/intern-scout/internal/backoff"
	"github.com/baxromumarov/intern-scout/internal/observability"
	"github.com/baxromumarov/intern-scout/internal/serp"
)

const (
	DefaultRetryAttempts = 3
	generalCacheSize     = 128
)

// Provider is the external search service consumed by the orchestrator.
type Provider interface {
	SearchJobs(ctx context.Context, query string, num int, locale string) ([]serp.RawJob, error)
	SearchLinks(ctx context.Context, query string, num int) ([]string, error)
}

// FallbackSearcher resolves general queries when the provider is down.
type FallbackSearcher interface {
	Links(ctx context.Context, query string, limit int) []string
}

type generalKey struct {
	query string
	num   int
}

// Orchestrator drives provider calls with retry and backoff, then runs
// normalization, filtering and de-duplication over the results.
type Orchestrator struct {
	provider Provider
	fallback FallbackSearcher
	backoff  *backoff.Scheduler
	attempts int
	locale   string
	filter   FilterConfig
	logger   *slog.Logger
	general  *lru.Cache[generalKey, []string]
}

func NewOrchestrator(provider Provider, filter FilterConfig, attempts int, base time.Duration, locale string, logger *slog.Logger) *Orchestrator {
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	cache, _ := lru.New[generalKey, []string](generalCacheSize)
	return &Orchestrator{
		provider: provider,
		backoff:  backoff.New(base),
		attempts: attempts,
		locale:   locale,
		filter:   filter,
		logger:   logger,
		general:  cache,
	}
}

// WithFallback installs a fallback searcher for general queries.
func (o *Orchestrator) WithFallback(f FallbackSearcher) *Orchestrator {
	o.fallback = f
	return o
}

// SearchJobs runs one jobs query with up to the configured number of
// attempts. Exhausting all attempts degrades to an empty result; the run
// is never aborted by a provider fault.
func (o *Orchestrator) SearchJobs(ctx context.Context, query string, num int) []JobRecord {
	o.logger.Info("searching for jobs", "query", query, "num", num)
	observability.IncQueriesRun()

	for attempt := 1; attempt <= o.attempts; attempt++ {
		raw, err := o.provider.SearchJobs(ctx, query, num, o.locale)
		if err == nil {
			return o.pipeline(query, raw)
		}

		observability.IncError(observability.ErrorProvider, "search")
		o.logger.Warn("job search attempt failed", "query", query, "attempt", attempt, "error", err)

		if attempt == o.attempts {
			break
		}
		delay := o.backoff.Delay(attempt)
		o.logger.Debug("backing off before retry", "delay", delay)
		select {
		case <-ctx.Done():
			o.logger.Warn("job search cancelled", "query", query, "error", ctx.Err())
			return nil
		case <-time.After(delay):
		}
	}

	o.logger.Error("all job search attempts failed", "query", query, "attempts", o.attempts)
	return nil
}

func (o *Orchestrator) pipeline(query string, raw []serp.RawJob) []JobRecord {
	o.logger.Info("provider returned raw jobs", "query", query, "count", len(raw))
	observability.AddJobsFound(len(raw))

	jobs := make([]JobRecord, 0, len(raw))
	for _, r := range raw {
		job := Normalize(r)
		ok, reason := o.filter.IsValid(job)
		if !ok {
			o.logger.Debug("job filtered out", "title", job.Title, "company", job.Company, "reason", reason)
			continue
		}
		jobs = append(jobs, job)
	}

	jobs = Dedup(jobs)
	observability.AddJobsKept(len(jobs))
	o.logger.Info("jobs after filter and dedup", "query", query, "count", len(jobs))
	return jobs
}

// SearchGeneral performs a single, non-retried general lookup and returns
// result URLs deduplicated by exact equality. Results are memoized in a
// bounded cache keyed by (query, num); the cache is advisory only.
func (o *Orchestrator) SearchGeneral(ctx context.Context, query string, num int) []string {
	key := generalKey{query: query, num: num}
	if cached, ok := o.general.Get(key); ok {
		return cached
	}

	links, err := o.provider.SearchLinks(ctx, query, num)
	if err != nil {
		observability.IncError(observability.ErrorProvider, "search_general")
		o.logger.Warn("general search failed", "query", query, "error", err)
		if o.fallback != nil {
			links = o.fallback.Links(ctx, query, num)
		}
	}

	links = dedupStrings(links)
	o.general.Add(key, links)
	o.logger.Info("general search resolved", "query", query, "count", len(links))
	return links
}

func dedupStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
