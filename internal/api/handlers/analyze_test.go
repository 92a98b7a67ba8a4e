package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"guardian-lab/internal/config"
	"guardian-lab/internal/domain/models"
	"guardian-lab/internal/domain/rules"
	"guardian-lab/internal/domain/services"
	"guardian-lab/pkg/logger"
)

func newTestHandler() *AnalyzeHandler {
	cfg := config.AnalysisConfig{
		SuspiciousThreshold: 5,
		DangerousThreshold:  10,
		MaxMessageLength:    10000,
		NetworkTimeout:      2 * time.Second,
		TLSTimeout:          2 * time.Second,
	}
	analyzer := services.NewMessageAnalyzer(cfg, rules.NewDefaultCatalog(), nil, nil, logger.NewDefault())
	return NewAnalyzeHandler(analyzer, nil, cfg.MaxMessageLength, logger.NewDefault())
}

func TestTruncateMessage(t *testing.T) {
	cases := []struct {
		name    string
		message string
		max     int
		want    string
	}{
		{"under limit", "hello", 10, "hello"},
		{"at limit", "hello", 5, "hello"},
		{"over limit", "hello world", 5, "hello"},
		{"no limit", "hello", 0, "hello"},
		{"rune boundary", "ab₹cd", 4, "ab"}, // ₹ is 3 bytes; never split mid-rune
	}
	for _, tc := range cases {
		if got := truncateMessage(tc.message, tc.max); got != tc.want {
			t.Errorf("%s: truncateMessage(%q, %d) = %q, want %q", tc.name, tc.message, tc.max, got, tc.want)
		}
	}
}

func TestAnalyzeEndpointBoundsMessageSize(t *testing.T) {
	handler := newTestHandler()
	handler.maxMessage = 40

	// The scoring keyword sits past the cutoff, so the bounded request
	// must come back clean.
	message := strings.Repeat("a", 40) + " send your otp"
	body, _ := json.Marshal(AnalyzeRequest{Message: message})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages/analyze", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()

	handler.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var verdict models.Verdict
	if err := json.Unmarshal(rec.Body.Bytes(), &verdict); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if verdict.Score != 0 {
		t.Errorf("score = %d, want 0 for content past the bound (%v)", verdict.Score, verdict.Reasons)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	handler := newTestHandler()

	body := strings.NewReader(`{"message": "URGENT! Send your OTP now!!!"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages/analyze", body)
	rec := httptest.NewRecorder()

	handler.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var verdict models.Verdict
	if err := json.Unmarshal(rec.Body.Bytes(), &verdict); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if verdict.Level != models.RiskLevelDangerous {
		t.Errorf("level = %s, want Dangerous", verdict.Level)
	}
	if len(verdict.Reasons) == 0 {
		t.Error("expected reasons in response")
	}
}

func TestAnalyzeEndpointRejectsEmptyMessage(t *testing.T) {
	handler := newTestHandler()

	cases := []string{
		`{"message": ""}`,
		`{}`,
		`not json`,
	}
	for _, payload := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/messages/analyze", strings.NewReader(payload))
		rec := httptest.NewRecorder()

		handler.Analyze(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("payload %q: status = %d, want 400", payload, rec.Code)
		}
	}
}

func TestHistoryWithoutAudit(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/history", nil)
	rec := httptest.NewRecorder()

	handler.History(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when audit log is not configured", rec.Code)
	}
}
