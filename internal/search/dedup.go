package search

// Dedup removes repeat postings keyed by case-folded (title, company).
// The first occurrence wins and input order is preserved among retained
// records.
func Dedup(jobs []JobRecord) []JobRecord {
	if len(jobs) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(jobs))
	out := make([]JobRecord, 0, len(jobs))
	for _, job := range jobs {
		key := job.DedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, job)
	}
	return out
}
