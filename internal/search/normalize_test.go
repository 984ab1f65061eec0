package search

import (
	"testing"

	"github.com/baxromumarov/intern-scout/internal/serp"
)

func TestNormalizeEmptyRecord(t *testing.T) {
	job := Normalize(serp.RawJob{})
	if job.Company != "" || job.Title != "" || job.Location != "" || job.Description != "" {
		t.Errorf("empty record must normalize to empty fields, got %+v", job)
	}
	if job.HasLink() {
		t.Error("empty record must not report a link")
	}
}

func TestNormalizeFirstLinkWins(t *testing.T) {
	raw := serp.RawJob{
		CompanyName: "Acme",
		Title:       "Backend Intern",
		RelatedLinks: []serp.RelatedLink{
			{Link: "https://acme.com/jobs/1"},
			{Link: "https://acme.com/jobs/2"},
		},
		ApplyOptions: []serp.ApplyOption{
			{Link: "https://apply.acme.com/1"},
		},
	}
	job := Normalize(raw)
	if job.Link != "https://acme.com/jobs/1" {
		t.Errorf("Link = %q, want first related link", job.Link)
	}
	if job.ApplyLink != "https://apply.acme.com/1" {
		t.Errorf("ApplyLink = %q, want first apply option", job.ApplyLink)
	}
	if job.BestLink() != job.Link {
		t.Errorf("BestLink = %q, want primary link", job.BestLink())
	}
}

func TestNormalizeStripsMarkup(t *testing.T) {
	raw := serp.RawJob{
		Title:       "Intern",
		Description: "<p>Build   <b>Go</b> services</p>",
	}
	job := Normalize(raw)
	if job.Description != "Build Go services" {
		t.Errorf("Description = %q, want markup stripped and whitespace collapsed", job.Description)
	}
}

func TestNormalizeBackfillsTitleFromLink(t *testing.T) {
	raw := serp.RawJob{
		RelatedLinks: []serp.RelatedLink{{Link: "https://acme.com/jobs/backend-intern"}},
	}
	job := Normalize(raw)
	if job.Title != "Backend Intern" {
		t.Errorf("Title = %q, want derived from link path", job.Title)
	}
}
