package search

import "testing"

func job(company, title, location, description string) JobRecord {
	return JobRecord{
		Company:     company,
		Title:       title,
		Location:    location,
		Description: description,
		Link:        "https://example.com/job",
	}
}

func TestCompanyExcludeSubstring(t *testing.T) {
	cfg := FilterConfig{CompanyExcludeKeywords: []string{"agency"}}
	ok, reason := cfg.IsValid(job("Acme Staffing Agency", "Intern", "Berlin", ""))
	if ok {
		t.Fatal("exclude keyword matching a company substring must reject the job")
	}
	if reason != "company_exclude:agency" {
		t.Errorf("reason = %q", reason)
	}
	if ok, _ := cfg.IsValid(job("Acme", "Intern", "Berlin", "")); !ok {
		t.Error("non-matching company must pass")
	}
}

func TestIncludeKeywords(t *testing.T) {
	cfg := FilterConfig{IncludeKeywords: []string{"golang", "backend"}}
	if ok, _ := cfg.IsValid(job("Acme", "Marketing Intern", "Berlin", "social media")); ok {
		t.Error("job without any include keyword must be rejected")
	}
	if ok, _ := cfg.IsValid(job("Acme", "Intern", "Berlin", "We use GoLang daily")); !ok {
		t.Error("case-insensitive keyword in description must pass")
	}
}

func TestRemoteOnly(t *testing.T) {
	cfg := FilterConfig{RemoteOnly: true}
	if ok, _ := cfg.IsValid(job("Acme", "Intern", "Berlin", "on-site only")); ok {
		t.Error("non-remote job must be rejected when remote_only is set")
	}
	if ok, _ := cfg.IsValid(job("Acme", "Remote Intern", "", "")); !ok {
		t.Error("remote in title must pass")
	}
}

func TestAllowedLocationsSkippedWhenRemoteOnlyPassed(t *testing.T) {
	cfg := FilterConfig{RemoteOnly: true, AllowedLocations: []string{"Berlin"}}
	if ok, _ := cfg.IsValid(job("Acme", "Intern", "Remote - Lisbon", "")); !ok {
		t.Error("location allow-list must not apply once the remote rule passed")
	}

	cfg = FilterConfig{AllowedLocations: []string{"Berlin"}}
	if ok, _ := cfg.IsValid(job("Acme", "Intern", "Munich", "")); ok {
		t.Error("location outside allow-list must be rejected")
	}
	if ok, _ := cfg.IsValid(job("Acme", "Intern", "Berlin, Germany", "")); !ok {
		t.Error("allowed location substring must pass")
	}
}

func TestSeniorityExclude(t *testing.T) {
	cfg := FilterConfig{ExcludeSeniorityLevels: []string{"senior", "staff"}}
	if ok, _ := cfg.IsValid(job("Acme", "Senior Backend Engineer", "Berlin", "")); ok {
		t.Error("excluded seniority in title must reject")
	}
	if ok, _ := cfg.IsValid(job("Acme", "Backend Intern", "Berlin", "")); !ok {
		t.Error("title without excluded seniority must pass")
	}
}

func TestEmptyConfigPermitsEverything(t *testing.T) {
	cfg := FilterConfig{}
	if ok, reason := cfg.IsValid(job("", "", "", "")); !ok {
		t.Errorf("empty config must permit everything, got reason %q", reason)
	}
}

// The filter carries no cross-job state: filtering a batch must equal
// filtering each job on its own.
func TestFilterPointwiseIndependence(t *testing.T) {
	cfg := FilterConfig{
		CompanyExcludeKeywords: []string{"agency"},
		IncludeKeywords:        []string{"intern"},
	}
	jobs := []JobRecord{
		job("Acme", "Backend Intern", "Berlin", ""),
		job("Hire Agency", "Backend Intern", "Berlin", ""),
		job("Acme", "Senior Engineer", "Berlin", ""),
	}

	var batch []bool
	for _, j := range jobs {
		ok, _ := cfg.IsValid(j)
		batch = append(batch, ok)
	}
	for i, j := range jobs {
		ok, _ := cfg.IsValid(j)
		if ok != batch[i] {
			t.Errorf("job %d: pointwise result %v != batch result %v", i, ok, batch[i])
		}
	}
}
