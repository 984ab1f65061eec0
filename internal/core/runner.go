// Package core wires the pipeline end to end: search, contact
// extraction, email generation, delivery and the rate ledger.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/baxromumarov/intern-scout/internal/ai"
	"github.com/baxromumarov/intern-scout/internal/config"
	"github.com/baxromumarov/intern-scout/internal/contact"
	"github.com/baxromumarov/intern-scout/internal/ledger"
	"github.com/baxromumarov/intern-scout/internal/observability"
	"github.com/baxromumarov/intern-scout/internal/search"
)

const auxiliaryLinkCount = 3

type Searcher interface {
	SearchJobs(ctx context.Context, query string, num int) []search.JobRecord
	SearchGeneral(ctx context.Context, query string, num int) []string
}

type EmailExtractor interface {
	ExtractEmails(ctx context.Context, pageURL string) []string
}

type Sender interface {
	Send(to, subject, body, attachmentPath string) bool
}

// Archiver persists jobs and outreach attempts; it is optional and its
// failures never stop the run.
type Archiver interface {
	SaveJob(ctx context.Context, query string, job search.JobRecord) error
	SaveOutreach(ctx context.Context, e ledger.Entry) error
}

// Runner executes one full outreach cycle. Everything past startup is
// degrade-and-continue: a bad job, page or send moves on to the next job.
type Runner struct {
	cfg        *config.Config
	searcher   Searcher
	extractor  EmailExtractor
	generator  ai.Generator
	sender     Sender
	ledger     *ledger.Ledger
	archive    Archiver
	resumeText string
	logger     *slog.Logger
}

func NewRunner(cfg *config.Config, searcher Searcher, extractor EmailExtractor, generator ai.Generator, sender Sender, led *ledger.Ledger, resumeText string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:        cfg,
		searcher:   searcher,
		extractor:  extractor,
		generator:  generator,
		sender:     sender,
		ledger:     led,
		resumeText: resumeText,
		logger:     logger,
	}
}

// WithArchive attaches an optional persistence backend.
func (r *Runner) WithArchive(a Archiver) *Runner {
	r.archive = a
	return r
}

// Run performs one cycle. It returns an error only for context
// cancellation; an exhausted rate cap or zero results is a normal
// completion.
func (r *Runner) Run(ctx context.Context) error {
	limit := r.cfg.EmailSending.RateLimitPerDay
	if sent := r.ledger.CountToday(); sent >= limit {
		r.logger.Warn("daily email limit already reached", "sent", sent, "cap", limit)
		return nil
	}

	var all []search.JobRecord
	for _, keyword := range r.cfg.Search.Keywords {
		if err := ctx.Err(); err != nil {
			return err
		}
		all = append(all, r.searcher.SearchJobs(ctx, keyword, r.cfg.Search.MaxResults)...)
	}
	all = search.Dedup(all)
	r.logger.Info("total jobs found", "count", len(all))

	for _, job := range all {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.ledger.CountToday() >= limit {
			r.logger.Warn("daily limit reached during run, stopping", "cap", limit)
			break
		}
		r.processJob(ctx, job)
	}

	snap := observability.Snapshot()
	r.logger.Info("workflow completed",
		"queries", snap.QueriesRun,
		"jobs_kept", snap.JobsKept,
		"sends_ok", snap.SendsOK,
		"sends_failed", snap.SendsFailed,
		"errors", snap.ErrorsTotal,
	)
	return nil
}

func (r *Runner) processJob(ctx context.Context, job search.JobRecord) {
	if !job.HasLink() {
		r.logger.Debug("job has no usable link, skipping", "title", job.Title, "company", job.Company)
		return
	}
	r.logger.Info("processing job", "title", job.Title, "company", job.Company)

	if r.archive != nil {
		if err := r.archive.SaveJob(ctx, job.Title, job); err != nil {
			observability.IncError(observability.ErrorStore, "runner")
			r.logger.Warn("failed to archive job", "error", err)
		}
	}

	link := job.BestLink()
	candidates := r.extractor.ExtractEmails(ctx, link)
	if len(candidates) == 0 && job.Company != "" {
		candidates = r.auxiliaryDiscovery(ctx, job.Company)
	}

	valid := contact.FilterEmails(candidates, r.cfg.Safety.AllowedPrefixes, hostFromURL(link))
	target, ok := contact.Pick(valid)
	if !ok {
		r.logger.Info("no valid contact email found, skipping", "company", job.Company)
		return
	}
	r.logger.Info("found target email", "email", target)

	details := ai.JobDetails{Company: job.Company, Title: job.Title, Description: job.Description}
	body, err := r.generator.GenerateEmail(ctx, details, r.resumeText, r.cfg.EmailGeneration.Template)
	if err != nil {
		observability.IncError(observability.ErrorAI, "runner")
		r.logger.Error("failed to generate email body", "company", job.Company, "error", err)
		return
	}
	observability.IncEmailGenerated()

	subject, body := splitSubject(body, defaultSubject(job))
	sent := r.sender.Send(target, subject, body, r.cfg.Paths.Resume)
	observability.IncSend(sent)

	entry := ledger.Entry{
		Company:   job.Company,
		Role:      job.Title,
		Recipient: target,
		Status:    ledger.StatusFailed,
	}
	if sent {
		entry.Status = ledger.StatusSent
	}
	if err := r.ledger.Append(entry); err != nil {
		observability.IncError(observability.ErrorStore, "runner")
		r.logger.Error("failed to append ledger entry", "error", err)
	}
	if r.archive != nil {
		if err := r.archive.SaveOutreach(ctx, entry); err != nil {
			observability.IncError(observability.ErrorStore, "runner")
			r.logger.Warn("failed to archive outreach", "error", err)
		}
	}
}

// auxiliaryDiscovery runs a general search for the company's contact
// pages and scrapes the first page that yields any candidate.
func (r *Runner) auxiliaryDiscovery(ctx context.Context, company string) []string {
	query := company + " careers contact email"
	for _, link := range r.searcher.SearchGeneral(ctx, query, auxiliaryLinkCount) {
		if found := r.extractor.ExtractEmails(ctx, link); len(found) > 0 {
			return found
		}
	}
	return nil
}

// splitSubject honors a generated leading "Subject:" line, otherwise
// falls back to the provided default.
func splitSubject(body, fallback string) (string, string) {
	if !strings.HasPrefix(body, "Subject:") {
		return fallback, body
	}
	lines := strings.SplitN(body, "\n", 2)
	subject := strings.TrimSpace(strings.TrimPrefix(lines[0], "Subject:"))
	rest := ""
	if len(lines) > 1 {
		rest = strings.TrimSpace(lines[1])
	}
	if subject == "" {
		subject = fallback
	}
	return subject, rest
}

func defaultSubject(job search.JobRecord) string {
	title := job.Title
	if title == "" {
		title = "Internship"
	}
	return fmt.Sprintf("Application for %s", title)
}

func hostFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
