// Package ai generates personalized outreach emails through a language
// model. The collaborator contract is narrow: structured job data plus a
// résumé excerpt and a template go in, email text or an explicit failure
// comes out, never a partial string.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// JobDetails is the slice of a job record the generator needs.
type JobDetails struct {
	Company     string
	Title       string
	Description string
}

type Generator interface {
	GenerateEmail(ctx context.Context, job JobDetails, resumeText, template string) (string, error)
}

// Params configures the model call and prompt assembly.
type Params struct {
	Model                string
	Temperature          float64
	MaxTokens            int
	SystemPrompt         string
	IncludeResumeSummary bool
}

func (p Params) withDefaults() Params {
	if p.Model == "" {
		p.Model = "gpt-4o-mini"
	}
	if p.Temperature == 0 {
		p.Temperature = 0.7
	}
	if p.MaxTokens == 0 {
		p.MaxTokens = 600
	}
	if p.SystemPrompt == "" {
		p.SystemPrompt = "You are a helpful assistant writing professional job application emails."
	}
	return p
}

// NewGenerator picks the OpenAI-backed generator when an API key is
// present and falls back to the mock otherwise.
func NewGenerator(apiKey string, params Params, logger *slog.Logger) Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if apiKey == "" {
		logger.Warn("no model API key set, using mock generator")
		return NewMockGenerator()
	}
	gen, err := NewOpenAIGenerator(apiKey, params, logger)
	if err != nil {
		logger.Warn("failed to init model client, using mock generator", "error", err)
		return NewMockGenerator()
	}
	return gen
}

const (
	maxResumeChars      = 2000
	maxDescriptionChars = 500
)

// buildPrompt assembles the user prompt from job data, the résumé
// excerpt and the configured template.
func buildPrompt(job JobDetails, resumeText, template string, includeResume bool) string {
	company := job.Company
	if company == "" {
		company = "the company"
	}
	role := job.Title
	if role == "" {
		role = "the role"
	}
	description := job.Description
	if description == "" {
		description = "N/A"
	}

	resumeContext := "Resume attached."
	if includeResume && resumeText != "" {
		resumeContext = "My Resume Content:\n" + truncate(resumeText, maxResumeChars)
	}

	return fmt.Sprintf(`Task: Write a cold email applying for an internship.

Job Details:
Role: %s
Company: %s
Description: %s

%s

Instructions:
- Use the following template structure but personalize the content:
%s
- Keep it professional, concise, and polite.
- Highlight relevant skills from the resume that match the job description.
- Genericize placeholders like {recipient_name} when the name is unknown.`,
		role, company, truncate(description, maxDescriptionChars), resumeContext, template)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// MockGenerator produces a deterministic email without any network call.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) GenerateEmail(_ context.Context, job JobDetails, _, _ string) (string, error) {
	company := job.Company
	if company == "" {
		company = "your company"
	}
	role := job.Title
	if role == "" {
		role = "the internship"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Subject: Application for %s\n\n", role)
	fmt.Fprintf(&sb, "Dear Hiring Team,\n\nI am writing to apply for %s at %s. ", role, company)
	sb.WriteString("My background matches the posted requirements and my resume is attached.\n\nBest regards")
	return sb.String(), nil
}
