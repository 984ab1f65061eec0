package search

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/baxromumarov/intern-scout/internal/httpx"
)

// DuckDuckGo scrapes the DuckDuckGo html endpoint as a last-resort
// general search when the provider is unreachable.
type DuckDuckGo struct {
	client *httpx.PoliteClient
	logger *slog.Logger
}

func NewDuckDuckGo(logger *slog.Logger) *DuckDuckGo {
	if logger == nil {
		logger = slog.Default()
	}
	return &DuckDuckGo{
		client: httpx.NewPoliteClient(15 * time.Second),
		logger: logger,
	}
}

func (d *DuckDuckGo) Links(ctx context.Context, query string, limit int) []string {
	reqURL := "https://duckduckgo.com/html/?q=" + url.QueryEscape(query)

	resp, err := d.client.Get(ctx, reqURL)
	if err != nil {
		d.logger.Warn("fallback search failed", "query", query, "error", err)
		return nil
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil
	}

	var urls []string
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		if limit > 0 && len(urls) >= limit {
			return
		}
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}

		// DuckDuckGo rewrites result links as /l/?uddg=<encoded>.
		if strings.Contains(href, "duckduckgo.com/l/?uddg=") {
			if decoded := decodeDDGLink(href); decoded != "" {
				href = decoded
			}
		}

		if !strings.HasPrefix(href, "http") || strings.Contains(href, "duckduckgo.com") {
			return
		}
		urls = append(urls, href)
	})

	return urls
}

func decodeDDGLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if v := u.Query().Get("uddg"); v != "" {
		if decoded, err := url.QueryUnescape(v); err == nil {
			return decoded
		}
	}
	return ""
}
