package services

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"guardian-lab/internal/domain/models"
	"guardian-lab/internal/domain/rules"
	"guardian-lab/pkg/logger"
)

func newAnalyzer() *MessageAnalyzer {
	return NewMessageAnalyzer(testAnalysisConfig(), rules.NewDefaultCatalog(), nil, nil, logger.NewDefault())
}

func TestAnalyzeDangerousMessage(t *testing.T) {
	analyzer := newAnalyzer()

	verdict := analyzer.Analyze(context.Background(),
		"URGENT! Your account is suspended. Click here and send your OTP now!!!")

	if verdict.Level != models.RiskLevelDangerous {
		t.Errorf("level = %s, want Dangerous (score %d, reasons %v)", verdict.Level, verdict.Score, verdict.Reasons)
	}
	if verdict.Score < 10 {
		t.Errorf("score = %d, want >= dangerous threshold", verdict.Score)
	}

	wantFragments := []string{"urgent", "otp", "private info", "punctuation"}
	joined := strings.ToLower(strings.Join(verdict.Reasons, " | "))
	for _, fragment := range wantFragments {
		if !strings.Contains(joined, fragment) {
			t.Errorf("reasons missing %q: %v", fragment, verdict.Reasons)
		}
	}
}

func TestAnalyzeBenignMessage(t *testing.T) {
	analyzer := newAnalyzer()

	verdict := analyzer.Analyze(context.Background(), "Hi, are we still meeting for lunch tomorrow?")

	if verdict.Level != models.RiskLevelSafe {
		t.Errorf("level = %s, want Safe (score %d, reasons %v)", verdict.Level, verdict.Score, verdict.Reasons)
	}
	if verdict.Score != 0 {
		t.Errorf("score = %d, want 0", verdict.Score)
	}
	if len(verdict.Reasons) == 0 {
		t.Error("expected a default reason for a clean message")
	}
}

func TestAnalyzeOfficialSenderOverride(t *testing.T) {
	analyzer := newAnalyzer()

	verdict := analyzer.Analyze(context.Background(), "GV-GOVIND: Your tax refund is ready")

	if verdict.Level != models.RiskLevelSafe || verdict.Score != 0 {
		t.Errorf("got level=%s score=%d, want Safe/0", verdict.Level, verdict.Score)
	}
	if len(verdict.Reasons) != 1 {
		t.Errorf("override should produce exactly one reason, got %v", verdict.Reasons)
	}
}

func TestAnalyzeScoreNeverNegative(t *testing.T) {
	analyzer := newAnalyzer()

	// Pure safe keywords would otherwise sum below zero.
	verdict := analyzer.Analyze(context.Background(), "your amazon order number and tracking id from the university office")
	if verdict.Score < 0 {
		t.Errorf("score = %d, want clamped to >= 0", verdict.Score)
	}
	if verdict.Level != models.RiskLevelSafe {
		t.Errorf("level = %s, want Safe", verdict.Level)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	analyzer := newAnalyzer()
	text := "Congratulations! You won a lottery prize. Claim now: send your bank details"

	first := analyzer.Analyze(context.Background(), text)
	second := analyzer.Analyze(context.Background(), text)

	if first.Level != second.Level || first.Score != second.Score {
		t.Errorf("verdicts differ across runs: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(first.Reasons, second.Reasons) {
		t.Errorf("reason order not stable:\n%v\n%v", first.Reasons, second.Reasons)
	}
}

func TestAnalyzeMonotonicity(t *testing.T) {
	analyzer := newAnalyzer()

	base := analyzer.Analyze(context.Background(), "See you at the cafe later")
	withKeyword := analyzer.Analyze(context.Background(), "See you at the cafe later lottery")

	if withKeyword.Score < base.Score {
		t.Errorf("adding a scam keyword lowered the score: %d -> %d", base.Score, withKeyword.Score)
	}
}

func TestAnalyzeSafeKeywordSuppression(t *testing.T) {
	analyzer := newAnalyzer()

	// A known malicious link must not be discounted by the e-commerce
	// safe keyword riding along in the same message.
	verdict := analyzer.Analyze(context.Background(),
		"Check amazon deal http://verify-account-update.com/login")

	if verdict.Level == models.RiskLevelSafe {
		t.Errorf("malicious link must not classify Safe, got score %d (%v)", verdict.Score, verdict.Reasons)
	}
	if verdict.Score < 5 {
		t.Errorf("score = %d, want >= suspicious threshold", verdict.Score)
	}
}

func TestAnalyzeHighThreatBlocksSafeKeywords(t *testing.T) {
	analyzer := newAnalyzer()

	withSafe := analyzer.Analyze(context.Background(), "amazon alert: send your otp to verify now")
	without := analyzer.Analyze(context.Background(), "alert: send your otp to verify now")

	// The personal-info-request pattern fires in both, so the 'amazon'
	// safe keyword must not reduce the first score.
	if withSafe.Score < without.Score {
		t.Errorf("safe keyword applied despite high-threat pattern: %d < %d", withSafe.Score, without.Score)
	}
}

func TestAnalyzeReportsLinks(t *testing.T) {
	analyzer := newAnalyzer()

	verdict := analyzer.Analyze(context.Background(),
		"Claim at http://192.168.1.1/win and http://10.0.0.1/confirm")

	if len(verdict.Links) != 2 {
		t.Fatalf("links = %v, want 2 entries", verdict.Links)
	}
	found := false
	for _, reason := range verdict.Reasons {
		if strings.Contains(reason, "2 link(s)") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected link-count summary reason, got %v", verdict.Reasons)
	}
}

func TestAnalyzeScoresFullInput(t *testing.T) {
	// The size bound is the caller's job: the engine scores whatever it
	// is handed, even past the configured maximum.
	cfg := testAnalysisConfig()
	cfg.MaxMessageLength = 40
	analyzer := NewMessageAnalyzer(cfg, rules.NewDefaultCatalog(), nil, nil, logger.NewDefault())

	text := strings.Repeat("a", 40) + " send your otp"
	verdict := analyzer.Analyze(context.Background(), text)
	if verdict.Score == 0 {
		t.Errorf("engine must score content past the caller-side bound, got %d (%v)", verdict.Score, verdict.Reasons)
	}
}

func TestAnalyzeMatchOnlyLinkPattern(t *testing.T) {
	// Link-scoped patterns may carry a code matcher instead of a regex,
	// like the text-scoped number pattern does. The link pass must honor
	// both forms without tripping on a nil regex.
	catalog := rules.NewDefaultCatalog()
	catalog.Patterns = append(catalog.Patterns, rules.WeightedPattern{
		Name:       "LOGIN_PATH",
		Weight:     2,
		Reason:     "Link points straight at a login page.",
		LinkScoped: true,
		Match: func(link string) bool {
			return strings.Contains(link, "/login")
		},
	})
	analyzer := NewMessageAnalyzer(testAnalysisConfig(), catalog, nil, nil, logger.NewDefault())

	verdict := analyzer.Analyze(context.Background(), "win at http://192.168.1.1/login now")
	if verdict == nil {
		t.Fatal("expected a verdict")
	}
	found := false
	for _, reason := range verdict.Reasons {
		if reason == "Link points straight at a login page." {
			found = true
		}
	}
	if !found {
		t.Errorf("match-only link pattern did not fire: %v", verdict.Reasons)
	}
}

func TestAnalyzeLinkPanicStillReturnsVerdict(t *testing.T) {
	// A panic inside per-link inspection, including inside the worker
	// goroutines, degrades to a diagnostic reason instead of taking the
	// process down.
	cfg := testAnalysisConfig()
	cfg.ConcurrentLinks = true
	analyzer := NewMessageAnalyzer(cfg, rules.NewDefaultCatalog(), nil, nil, logger.NewDefault())
	analyzer.links.resolve = func(ctx context.Context, link string) (string, error) {
		panic("resolver blew up")
	}

	verdict := analyzer.Analyze(context.Background(),
		"check http://bit.ly/3xK9zQ and http://t.co/abc")
	if verdict == nil {
		t.Fatal("expected a verdict")
	}
	found := 0
	for _, reason := range verdict.Reasons {
		if reason == "An error occurred during link analysis" {
			found++
		}
	}
	if found != 2 {
		t.Errorf("want a diagnostic reason per failed link, got %d (%v)", found, verdict.Reasons)
	}
}

type fixedClassifier struct {
	probability float64
}

func (f fixedClassifier) Predict(ctx context.Context, text string) (float64, error) {
	return f.probability, nil
}

func TestAnalyzeClassifierBlend(t *testing.T) {
	catalog := rules.NewDefaultCatalog()

	base := NewMessageAnalyzer(testAnalysisConfig(), catalog, nil, nil, logger.NewDefault())
	high := NewMessageAnalyzer(testAnalysisConfig(), catalog, nil, fixedClassifier{probability: 0.95}, logger.NewDefault())
	moderate := NewMessageAnalyzer(testAnalysisConfig(), catalog, nil, fixedClassifier{probability: 0.7}, logger.NewDefault())

	text := "You won a lottery prize"
	baseScore := base.Analyze(context.Background(), text).Score
	if got := high.Analyze(context.Background(), text).Score; got != baseScore+6 {
		t.Errorf("high-confidence blend = %d, want %d", got, baseScore+6)
	}
	if got := moderate.Analyze(context.Background(), text).Score; got != baseScore+3 {
		t.Errorf("moderate blend = %d, want %d", got, baseScore+3)
	}
}

func TestAnalyzeClassifierIsTieBreakerOnly(t *testing.T) {
	analyzer := NewMessageAnalyzer(testAnalysisConfig(), rules.NewDefaultCatalog(), nil,
		fixedClassifier{probability: 0.99}, logger.NewDefault())

	verdict := analyzer.Analyze(context.Background(), "Hi, are we still meeting for lunch tomorrow?")
	if verdict.Score != 0 {
		t.Errorf("classifier must not trigger on a zero-score message, got %d", verdict.Score)
	}
}
