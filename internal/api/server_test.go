package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/baxromumarov/intern-scout/internal/ledger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	led := ledger.New(filepath.Join(t.TempDir(), "sent_log.csv"), nil)
	return NewServer(led, 10)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestSentToday(t *testing.T) {
	srv := newTestServer(t)
	if err := srv.ledger.Append(ledger.Entry{Company: "Acme", Role: "Intern", Recipient: "hr@acme.com", Status: ledger.StatusSent}); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sent/today", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["sent_today"] != 1 || body["daily_cap"] != 10 {
		t.Errorf("body = %v, want sent_today=1 daily_cap=10", body)
	}
}

func TestStatsShape(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("stats response is not JSON: %v", err)
	}
	if _, ok := body["queries_run"]; !ok {
		t.Error("stats missing queries_run")
	}
}
