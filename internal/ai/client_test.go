package ai

import (
	"context"
	"strings"
	"testing"
)

func TestNewGeneratorWithoutKeyReturnsMock(t *testing.T) {
	gen := NewGenerator("", Params{}, nil)
	if _, ok := gen.(*MockGenerator); !ok {
		t.Fatalf("expected mock generator without an API key, got %T", gen)
	}
}

func TestMockGeneratorEmail(t *testing.T) {
	gen := NewMockGenerator()
	body, err := gen.GenerateEmail(context.Background(), JobDetails{Company: "Acme", Title: "Backend Intern"}, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(body, "Subject: Application for Backend Intern\n") {
		t.Errorf("missing subject line, got %q", body)
	}
	if !strings.Contains(body, "Backend Intern at Acme") {
		t.Errorf("body does not mention role and company: %q", body)
	}

	again, err := gen.GenerateEmail(context.Background(), JobDetails{Company: "Acme", Title: "Backend Intern"}, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if body != again {
		t.Error("mock output must be deterministic")
	}
}

func TestBuildPromptTruncatesResume(t *testing.T) {
	long := strings.Repeat("x", maxResumeChars+100)
	prompt := buildPrompt(JobDetails{Company: "Acme", Title: "Intern"}, long, "template", true)
	if strings.Contains(prompt, long) {
		t.Error("resume must be truncated in the prompt")
	}
	if !strings.Contains(prompt, strings.Repeat("x", maxResumeChars)+"...") {
		t.Error("truncated resume must keep an ellipsis marker")
	}
}

func TestBuildPromptResumeExcluded(t *testing.T) {
	prompt := buildPrompt(JobDetails{Company: "Acme", Title: "Intern"}, "resume body", "template", false)
	if strings.Contains(prompt, "resume body") {
		t.Error("resume text must be omitted when disabled")
	}
	if !strings.Contains(prompt, "Resume attached.") {
		t.Error("disabled resume still points at the attachment")
	}
}

func TestBuildPromptEmptyFields(t *testing.T) {
	prompt := buildPrompt(JobDetails{}, "", "t", true)
	for _, want := range []string{"the company", "the role", "N/A"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing placeholder %q", want)
		}
	}
}
