package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"guardian-lab/internal/config"
	"guardian-lab/internal/domain/models"
	"guardian-lab/internal/domain/rules"
	"guardian-lab/pkg/logger"
)

func testAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		SuspiciousThreshold: 5,
		DangerousThreshold:  10,
		MaxMessageLength:    10000,
		NetworkTimeout:      2 * time.Second,
		TLSTimeout:          2 * time.Second,
	}
}

func newLinkAnalyzer(reputation ReputationClient) *LinkAnalyzer {
	return NewLinkAnalyzer(testAnalysisConfig(), rules.NewDefaultCatalog(), reputation, logger.NewDefault())
}

func TestAnalyzeIPLiteralDomain(t *testing.T) {
	analyzer := newLinkAnalyzer(nil)

	result := analyzer.Analyze(context.Background(), "http://192.168.1.1/login")
	if result.Score < 8 {
		t.Errorf("IP-as-domain should add the fixed penalty, got score %d", result.Score)
	}
	found := false
	for _, reason := range result.Reasons {
		if strings.Contains(reason, "IP") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected IP reason, got %v", result.Reasons)
	}
}

func TestAnalyzeMaliciousDomain(t *testing.T) {
	analyzer := newLinkAnalyzer(nil)

	result := analyzer.Analyze(context.Background(), "http://verify-account-update.com/login")
	if result.Score < 15 {
		t.Errorf("known malicious domain should add 15, got %d", result.Score)
	}
}

func TestAnalyzeMaliciousSubdomain(t *testing.T) {
	analyzer := newLinkAnalyzer(nil)

	// eTLD+1 lookup catches the registrable domain behind a subdomain.
	result := analyzer.Analyze(context.Background(), "http://login.verify-account-update.com/x")
	if result.Score < 15 {
		t.Errorf("malicious registrable domain should be caught, got %d", result.Score)
	}
}

func TestAnalyzeOfficialDomainExonerated(t *testing.T) {
	analyzer := newLinkAnalyzer(nil)

	result := analyzer.Analyze(context.Background(), "http://incometax.gov.in/refund")
	if result.Score != 0 {
		t.Errorf("official domain should score 0, got %d (%v)", result.Score, result.Reasons)
	}
	if len(result.Reasons) != 0 {
		t.Errorf("official domain should carry no reasons, got %v", result.Reasons)
	}
}

func TestAnalyzeTyposquattedDomain(t *testing.T) {
	analyzer := newLinkAnalyzer(nil)

	result := analyzer.Analyze(context.Background(), "http://g00gle.com/login")
	if result.Score <= 0 {
		t.Errorf("typosquatted domain should score positive, got %d", result.Score)
	}
}

func TestAnalyzeUsesReputation(t *testing.T) {
	analyzer := newLinkAnalyzer(stubReputation{result: models.ReputationResult{InDatabase: true, Verified: true}})

	result := analyzer.Analyze(context.Background(), "http://some-random-site.example/x")
	if result.Score < 20 {
		t.Errorf("verified phishing entry should add 20, got %d", result.Score)
	}
}

func TestAnalyzeReputationFailureIsNotASignal(t *testing.T) {
	analyzer := newLinkAnalyzer(stubReputation{err: context.DeadlineExceeded})

	result := analyzer.Analyze(context.Background(), "http://some-random-site.example/x")
	if result.Score != 0 {
		t.Errorf("unreachable reputation service must not score, got %d (%v)", result.Score, result.Reasons)
	}
}

type stubReputation struct {
	result models.ReputationResult
	err    error
}

func (s stubReputation) Check(ctx context.Context, url string) (models.ReputationResult, error) {
	return s.result, s.err
}

func TestAnalyzeUnresolvedShortenerStopsAnalysis(t *testing.T) {
	// Even a verified reputation hit must not score: an unresolvable
	// short link ends the analysis after its own penalty.
	analyzer := newLinkAnalyzer(stubReputation{result: models.ReputationResult{InDatabase: true, Verified: true}})
	analyzer.resolve = func(ctx context.Context, link string) (string, error) {
		return "", context.DeadlineExceeded
	}

	link := "http://bit.ly/3xK9zQ"
	result := analyzer.Analyze(context.Background(), link)

	if result.Score != 4 {
		t.Errorf("score = %d, want exactly the shortener penalty 4 (%v)", result.Score, result.Reasons)
	}
	if len(result.Reasons) != 1 || result.Reasons[0] != rules.ReasonUnresolvedShortener(link) {
		t.Errorf("reasons = %v, want only the unresolved-shortener reason", result.Reasons)
	}
	if result.FinalDomain != "bit.ly" {
		t.Errorf("final domain = %q, want the shortener host itself", result.FinalDomain)
	}
}

func TestAnalyzeResolvedShortenerInspectsDestination(t *testing.T) {
	analyzer := newLinkAnalyzer(nil)
	analyzer.resolve = func(ctx context.Context, link string) (string, error) {
		return "http://verify-account-update.com/login", nil
	}

	result := analyzer.Analyze(context.Background(), "http://bit.ly/3xK9zQ")

	if result.Score < 15 {
		t.Errorf("malicious destination behind a shortener should score, got %d (%v)", result.Score, result.Reasons)
	}
	if result.FinalDomain != "verify-account-update.com" {
		t.Errorf("final domain = %q, want the resolved destination host", result.FinalDomain)
	}
	found := false
	for _, reason := range result.Reasons {
		if strings.Contains(reason, "redirects to") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a redirect reason, got %v", result.Reasons)
	}
}

func TestResolveRedirect(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer final.Close()

	hop := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL+"/landing", http.StatusFound)
	}))
	defer hop.Close()

	analyzer := newLinkAnalyzer(nil)
	got, err := analyzer.resolveRedirect(context.Background(), hop.URL)
	if err != nil {
		t.Fatalf("resolveRedirect: %v", err)
	}
	if got != final.URL+"/landing" {
		t.Errorf("final URL = %q, want %q", got, final.URL+"/landing")
	}
}

func TestResolveRedirectFailure(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	analyzer := newLinkAnalyzer(nil)
	if _, err := analyzer.resolveRedirect(context.Background(), dead.URL); err == nil {
		t.Error("expected error resolving against a closed server")
	}
}
