// Package backoff computes retry delays for transient provider failures.
package backoff

import (
	"math/rand"
	"time"
)

const DefaultBase = 2 * time.Second

// Scheduler produces exponential delays with random jitter. Attempt
// numbering starts at 1; no upper cap is applied, callers bound the
// number of attempts instead.
type Scheduler struct {
	base time.Duration
}

func New(base time.Duration) *Scheduler {
	if base <= 0 {
		base = DefaultBase
	}
	return &Scheduler{base: base}
}

// Delay returns base * 2^(attempt-1) plus a uniform jitter in [0, 1s).
func (s *Scheduler) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	exp := s.base << (attempt - 1)
	jitter := time.Duration(rand.Float64() * float64(time.Second))
	return exp + jitter
}
