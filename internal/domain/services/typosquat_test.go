package services

import (
	"strings"
	"testing"

	"guardian-lab/internal/domain/rules"
)

func newDetector() *TyposquatDetector {
	return NewTyposquatDetector(rules.NewDefaultCatalog().KnownTypos)
}

func TestDetectDigitSubstitution(t *testing.T) {
	detector := newDetector()

	score, reasons := detector.Detect("g00gle.com", []string{"google.com"})
	if score <= 0 {
		t.Fatalf("expected positive score for g00gle.com, got %d", score)
	}
	found := false
	for _, reason := range reasons {
		if strings.Contains(reason, "g00gle") && strings.Contains(reason, "google") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a reason naming both g00gle and google, got %v", reasons)
	}
}

func TestDetectExactBrandIsNotTyposquatting(t *testing.T) {
	detector := newDetector()

	score, reasons := detector.Detect("google.com", []string{"google.com"})
	if score != 0 {
		t.Errorf("expected score 0 for exact brand match, got %d (%v)", score, reasons)
	}
}

func TestDetectAccumulatesAcrossTechniques(t *testing.T) {
	detector := newDetector()

	// g00gle.com fires normalization (12), trigram substitution (6), and
	// the known-typo dictionary (10).
	score, reasons := detector.Detect("g00gle.com", []string{"google.com"})
	if score < 28 {
		t.Errorf("expected accumulated score >= 28, got %d (%v)", score, reasons)
	}
	if len(reasons) < 3 {
		t.Errorf("expected one reason per firing, got %d: %v", len(reasons), reasons)
	}
}

func TestDetectKnownTypoVariants(t *testing.T) {
	detector := newDetector()

	cases := []struct {
		domain string
		brand  string
	}{
		{"paypa1.com", "paypal.com"},
		{"app1e-support.net", "apple.com"},
		{"faceb00k.xyz", "facebook.com"},
		{"netf1ix-login.com", "netflix.com"},
	}
	for _, tc := range cases {
		score, _ := detector.Detect(tc.domain, []string{tc.brand})
		if score <= 0 {
			t.Errorf("Detect(%q, [%q]) = %d, want positive", tc.domain, tc.brand, score)
		}
	}
}

func TestDetectUnrelatedDomain(t *testing.T) {
	detector := newDetector()

	score, reasons := detector.Detect("example.org", []string{"google.com", "paypal.com"})
	if score != 0 {
		t.Errorf("expected score 0 for unrelated domain, got %d (%v)", score, reasons)
	}
}

func TestDetectEvaluatesAllBrands(t *testing.T) {
	detector := newDetector()

	// The brand list order must not matter: a later brand still fires.
	score, _ := detector.Detect("paypa1.com", []string{"google.com", "amazon.com", "paypal.com"})
	if score <= 0 {
		t.Errorf("expected positive score with brand late in list, got %d", score)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"google", "googel", 2},
		{"paypal", "paypa1", 1},
		{"same", "same", 0},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNormalizeDigits(t *testing.T) {
	forms := normalizeDigits("netf1ix")
	found := false
	for _, form := range forms {
		if form == "netfiix" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 1->i form among %v", forms)
	}

	forms = normalizeDigits("app1e")
	found = false
	for _, form := range forms {
		if form == "apple" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 1->l form among %v", forms)
	}
}
