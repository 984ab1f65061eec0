// Package observability tracks process-wide counters for the run summary
// and the status API.
package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	QueriesRun        uint64            `json:"queries_run"`
	JobsFound         uint64            `json:"jobs_found"`
	JobsKept          uint64            `json:"jobs_kept"`
	PagesFetched      uint64            `json:"pages_fetched"`
	EmailsExtracted   uint64            `json:"emails_extracted"`
	EmailsValidated   uint64            `json:"emails_validated"`
	EmailsGenerated   uint64            `json:"emails_generated"`
	SendsOK           uint64            `json:"sends_ok"`
	SendsFailed       uint64            `json:"sends_failed"`
	ErrorsTotal       uint64            `json:"errors_total"`
	ErrorsByType      map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	queriesRun      uint64
	jobsFound       uint64
	jobsKept        uint64
	pagesFetched    uint64
	emailsExtracted uint64
	emailsValidated uint64
	emailsGenerated uint64
	sendsOK         uint64
	sendsFailed     uint64
	errorsTotal     uint64

	statsMu           sync.Mutex
	errorsByType      = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
)

func IncQueriesRun()     { atomic.AddUint64(&queriesRun, 1) }
func IncPagesFetched()   { atomic.AddUint64(&pagesFetched, 1) }
func IncEmailGenerated() { atomic.AddUint64(&emailsGenerated, 1) }

func AddJobsFound(n int) {
	if n > 0 {
		atomic.AddUint64(&jobsFound, uint64(n))
	}
}

func AddJobsKept(n int) {
	if n > 0 {
		atomic.AddUint64(&jobsKept, uint64(n))
	}
}

func AddEmailsExtracted(n int) {
	if n > 0 {
		atomic.AddUint64(&emailsExtracted, uint64(n))
	}
}

func AddEmailsValidated(n int) {
	if n > 0 {
		atomic.AddUint64(&emailsValidated, uint64(n))
	}
}

func IncSend(ok bool) {
	if ok {
		atomic.AddUint64(&sendsOK, 1)
	} else {
		atomic.AddUint64(&sendsFailed, 1)
	}
}

func IncError(errType, component string) {
	if errType == "" {
		errType = "unknown"
	}
	if component == "" {
		component = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsByComponent[component]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	errorsTypeCopy := copyMap(errorsByType)
	errorsComponentCopy := copyMap(errorsByComponent)
	statsMu.Unlock()

	return StatsSnapshot{
		QueriesRun:        atomic.LoadUint64(&queriesRun),
		JobsFound:         atomic.LoadUint64(&jobsFound),
		JobsKept:          atomic.LoadUint64(&jobsKept),
		PagesFetched:      atomic.LoadUint64(&pagesFetched),
		EmailsExtracted:   atomic.LoadUint64(&emailsExtracted),
		EmailsValidated:   atomic.LoadUint64(&emailsValidated),
		EmailsGenerated:   atomic.LoadUint64(&emailsGenerated),
		SendsOK:           atomic.LoadUint64(&sendsOK),
		SendsFailed:       atomic.LoadUint64(&sendsFailed),
		ErrorsTotal:       atomic.LoadUint64(&errorsTotal),
		ErrorsByType:      errorsTypeCopy,
		ErrorsByComponent: errorsComponentCopy,
	}
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
