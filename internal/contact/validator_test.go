package contact

import "testing"

func TestFilterEmailsPrefixPolicy(t *testing.T) {
	candidates := []string{"careers@acme.com", "bob@acme.com", "HR@Acme.com"}
	got := FilterEmails(candidates, []string{"careers@", "hr@"}, "")

	want := map[string]bool{"careers@acme.com": true, "HR@Acme.com": true}
	if len(got) != len(want) {
		t.Fatalf("admitted %v, want exactly %v", got, want)
	}
	for _, e := range got {
		if !want[e.Address] {
			t.Errorf("unexpected admission %q", e.Address)
		}
	}
}

func TestFilterEmailsRejectsInvalidSyntax(t *testing.T) {
	candidates := []string{"careers@", "careers@@acme.com", "careers acme.com", "careers@acme.com"}
	got := FilterEmails(candidates, []string{"careers@"}, "")
	if len(got) != 1 || got[0].Address != "careers@acme.com" {
		t.Fatalf("got %v, want only the well-formed address", got)
	}
}

func TestFilterEmailsDomainMismatchDoesNotReject(t *testing.T) {
	got := FilterEmails([]string{"hr@otherco.com"}, []string{"hr@"}, "acme.com")
	if len(got) != 1 {
		t.Fatal("domain mismatch must not reject a candidate")
	}
	if got[0].DomainMatch {
		t.Error("mismatched domain must not be marked as a match")
	}
}

func TestFilterEmailsDedup(t *testing.T) {
	got := FilterEmails([]string{"hr@acme.com", "hr@acme.com", "HR@ACME.COM"}, []string{"hr@"}, "")
	if len(got) != 1 {
		t.Fatalf("got %v, want one address after dedup", got)
	}
}

func TestPickPrefersDomainAffinityThenLexicographic(t *testing.T) {
	emails := []ValidatedEmail{
		{Address: "careers@agency.com"},
		{Address: "jobs@acme.com", DomainMatch: true},
		{Address: "careers@acme.com", DomainMatch: true},
	}
	addr, ok := Pick(emails)
	if !ok {
		t.Fatal("Pick must find an address")
	}
	if addr != "careers@acme.com" {
		t.Errorf("Pick = %q, want careers@acme.com", addr)
	}

	if _, ok := Pick(nil); ok {
		t.Error("Pick on empty input must report no address")
	}
}
