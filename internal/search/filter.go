package search

import "strings"

// FilterConfig holds the per-run inclusion and exclusion rules. Empty
// lists are no-ops for their rule.
type FilterConfig struct {
	CompanyExcludeKeywords []string `yaml:"company_exclude_keywords"`
	IncludeKeywords        []string `yaml:"include_keywords"`
	RemoteOnly             bool     `yaml:"remote_only"`
	AllowedLocations       []string `yaml:"locations"`
	ExcludeSeniorityLevels []string `yaml:"exclude_seniority_levels"`
}

// IsValid applies the configured predicates to a single job, in a fixed
// order, short-circuiting on the first failure. The returned reason names
// the failing rule for debug logging; it is empty when the job passes.
// All matches are case-insensitive substring checks.
func (c FilterConfig) IsValid(job JobRecord) (bool, string) {
	company := strings.ToLower(job.Company)
	title := strings.ToLower(job.Title)
	location := strings.ToLower(job.Location)
	description := strings.ToLower(job.Description)

	for _, kw := range c.CompanyExcludeKeywords {
		if kw != "" && strings.Contains(company, strings.ToLower(kw)) {
			return false, "company_exclude:" + kw
		}
	}

	if len(c.IncludeKeywords) > 0 {
		haystack := title + " " + description
		if !containsAny(haystack, c.IncludeKeywords) {
			return false, "no_include_keyword"
		}
	}

	remotePass := false
	if c.RemoteOnly {
		if !strings.Contains(location, "remote") &&
			!strings.Contains(title, "remote") &&
			!strings.Contains(description, "remote") {
			return false, "not_remote"
		}
		remotePass = true
	}

	// Location allow-list does not apply once the remote rule passed, so
	// remote postings are not double-constrained.
	if len(c.AllowedLocations) > 0 && !remotePass {
		if !containsAny(location, c.AllowedLocations) {
			return false, "location_not_allowed"
		}
	}

	for _, level := range c.ExcludeSeniorityLevels {
		if level != "" && strings.Contains(title, strings.ToLower(level)) {
			return false, "seniority_exclude:" + level
		}
	}

	return true, ""
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
