// Package search drives the job discovery pipeline: provider queries with
// retry, normalization of raw provider records, validity filtering and
// de-duplication.
package search

import "strings"

// JobRecord is the canonical posting produced by the normalizer. Records
// are treated as immutable once created.
type JobRecord struct {
	Company     string         `json:"company"`
	Title       string         `json:"title"`
	Location    string         `json:"location"`
	Description string         `json:"description"`
	Link        string         `json:"link,omitempty"`
	ApplyLink   string         `json:"apply_link,omitempty"`
	Via         string         `json:"via,omitempty"`
	Extensions  map[string]any `json:"extensions,omitempty"`
}

// HasLink reports whether the record carries any usable URL. A record
// without one cannot reach contact extraction.
func (j JobRecord) HasLink() bool {
	return j.Link != "" || j.ApplyLink != ""
}

// BestLink returns the primary link, falling back to the apply link.
func (j JobRecord) BestLink() string {
	if j.Link != "" {
		return j.Link
	}
	return j.ApplyLink
}

// DedupKey identifies a posting: two records with the same case-folded
// title and company are the same posting.
func (j JobRecord) DedupKey() string {
	return strings.ToLower(j.Title) + "\x00" + strings.ToLower(j.Company)
}
