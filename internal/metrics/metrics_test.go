package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestMiddleware_UsesMuxPattern(t *testing.T) {
	m := New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := m.Middleware(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/items/42", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	out := scrape(t, m)
	if !strings.Contains(out, `http_requests_total{route="GET /api/items/{id}",status="418"} 1`) {
		t.Errorf("missing routed sample:\n%s", out)
	}
	if !strings.Contains(out, `http_requests_total{route="unmatched",status="404"} 1`) {
		t.Errorf("missing unmatched sample:\n%s", out)
	}
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.LeadSubmitted()
	m.LeadEmail(EmailSent)
	m.LeadEmail(EmailFailed)
	m.UploadRows(3, 2, 1)

	out := scrape(t, m)
	for _, want := range []string{
		"leads_submitted_total 1",
		`lead_emails_total{result="sent"} 1`,
		`lead_emails_total{result="failed"} 1`,
		`cost_rate_upload_rows_total{outcome="created"} 3`,
		`cost_rate_upload_rows_total{outcome="updated"} 2`,
		`cost_rate_upload_rows_total{outcome="failed"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.LeadSubmitted()
	m.LeadEmail(EmailSkipped)
	m.UploadRows(1, 1, 1)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	m.Middleware(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("nil Metrics should pass requests through")
	}
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("nil Handler status = %d", rec.Code)
	}
}
