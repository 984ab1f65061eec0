package search

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/baxromumarov/intern-scout/internal/serp"
)

// Normalize maps one raw provider record onto a JobRecord. Every source
// field is optional; absence yields an empty value, never an error. The
// first related link and the first apply option win.
func Normalize(raw serp.RawJob) JobRecord {
	job := JobRecord{
		Company:     strings.TrimSpace(raw.CompanyName),
		Title:       strings.TrimSpace(raw.Title),
		Location:    strings.TrimSpace(raw.Location),
		Description: normalizeDescription(raw.Description),
		Via:         strings.TrimSpace(raw.Via),
	}

	if len(raw.RelatedLinks) > 0 {
		job.Link = strings.TrimSpace(raw.RelatedLinks[0].Link)
	}
	if len(raw.ApplyOptions) > 0 {
		job.ApplyLink = strings.TrimSpace(raw.ApplyOptions[0].Link)
	}
	if len(raw.DetectedExtensions) > 0 {
		job.Extensions = raw.DetectedExtensions
	}

	if job.Title == "" {
		job.Title = titleFromPath(job.BestLink())
	}
	return job
}

// normalizeDescription strips any markup the provider left in the
// description and collapses whitespace.
func normalizeDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ""
	}
	if !strings.Contains(desc, "<") {
		return strings.Join(strings.Fields(desc), " ")
	}
	doc, err := html.Parse(strings.NewReader(desc))
	if err != nil {
		return strings.Join(strings.Fields(desc), " ")
	}
	return strings.Join(strings.Fields(extractText(doc)), " ")
}

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(extractText(c))
		sb.WriteString(" ")
	}
	return sb.String()
}

// titleFromPath derives a readable title from the last URL path segment.
func titleFromPath(u string) string {
	u = strings.SplitN(u, "?", 2)[0]
	parts := strings.Split(u, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		p := strings.TrimSpace(parts[i])
		if p == "" || strings.HasSuffix(p, ":") || (strings.Contains(p, ".") && i < 3) {
			continue
		}
		p = strings.ReplaceAll(p, "-", " ")
		p = strings.ReplaceAll(p, "_", " ")
		return cases.Title(language.Und).String(p)
	}
	return ""
}
