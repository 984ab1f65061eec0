// Package contact discovers and validates employer contact emails from
// job posting pages.
package contact

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/baxromumarov/intern-scout/internal/httpx"
	"github.com/baxromumarov/intern-scout/internal/observability"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Anchor texts worth following when the primary page has no emails.
var secondaryHints = []string{"contact", "career", "about"}

const maxSecondaryLinks = 2

// Extractor scrapes candidate email addresses from a page: visible text
// and mailto links, with a bounded one-level follow of contact-style
// links when the primary page comes up empty.
type Extractor struct {
	primary   *httpx.Fetcher
	secondary *httpx.Fetcher
	logger    *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		primary:   httpx.NewFetcher(15 * time.Second),
		secondary: httpx.NewFetcher(10 * time.Second),
		logger:    logger,
	}
}

// ExtractEmails fetches the page and returns every candidate address
// found, sorted for determinism. Any transport fault or bad status
// yields an empty result; the caller moves on to the next job.
func (e *Extractor) ExtractEmails(ctx context.Context, pageURL string) []string {
	if pageURL == "" {
		return nil
	}

	e.logger.Info("scraping page for emails", "url", pageURL)
	doc, err := e.fetchDoc(ctx, e.primary, pageURL)
	if err != nil {
		observability.IncError(observability.ClassifyFetchError(err), "contact_extractor")
		e.logger.Warn("failed to fetch page", "url", pageURL, "error", err)
		return nil
	}

	emails := make(map[string]struct{})
	collectEmails(doc, emails)

	if len(emails) == 0 {
		e.logger.Info("no emails on primary page, following contact links", "url", pageURL)
		for _, link := range secondaryLinks(doc, pageURL) {
			sub, err := e.fetchDoc(ctx, e.secondary, link)
			if err != nil {
				// Secondary failures never abort the others.
				observability.IncError(observability.ClassifyFetchError(err), "contact_extractor")
				e.logger.Warn("failed to fetch contact link", "url", link, "error", err)
				continue
			}
			collectEmails(sub, emails)
		}
	}

	out := make([]string, 0, len(emails))
	for email := range emails {
		out = append(out, email)
	}
	sort.Strings(out)

	observability.AddEmailsExtracted(len(out))
	e.logger.Info("email extraction finished", "url", pageURL, "count", len(out))
	return out
}

func (e *Extractor) fetchDoc(ctx context.Context, f *httpx.Fetcher, pageURL string) (*goquery.Document, error) {
	body, err := f.FetchBytes(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	observability.IncPagesFetched()
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// collectEmails adds pattern matches from the visible text plus every
// mailto target (scheme stripped, query dropped).
func collectEmails(doc *goquery.Document, into map[string]struct{}) {
	for _, m := range emailPattern.FindAllString(doc.Text(), -1) {
		into[m] = struct{}{}
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.HasPrefix(href, "mailto:") {
			return
		}
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.Index(addr, "?"); i >= 0 {
			addr = addr[:i]
		}
		addr = strings.TrimSpace(addr)
		if addr != "" {
			into[addr] = struct{}{}
		}
	})
}

// secondaryLinks returns up to maxSecondaryLinks absolute http(s) URLs
// whose anchor text hints at a contact, careers or about page, in
// document order.
func secondaryLinks(doc *goquery.Document, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if len(links) >= maxSecondaryLinks {
			return
		}
		text := strings.ToLower(a.Text())
		if !containsHint(text) {
			return
		}
		href, _ := a.Attr("href")
		if href == "" || strings.HasPrefix(href, "mailto:") {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		if base != nil {
			u = base.ResolveReference(u)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return
		}
		resolved := u.String()
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})
	return links
}

func containsHint(text string) bool {
	for _, hint := range secondaryHints {
		if strings.Contains(text, hint) {
			return true
		}
	}
	return false
}
