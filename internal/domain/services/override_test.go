package services

import (
	"testing"

	"guardian-lab/internal/domain/models"
	"guardian-lab/internal/domain/rules"
)

func TestOverrideOfficialSender(t *testing.T) {
	checker := NewOverrideChecker(rules.NewDefaultCatalog())

	text := "GV-GOVIND: Your tax refund is ready"
	verdict, ok := checker.Check(text, nil)
	if !ok {
		t.Fatal("expected override for official sender")
	}
	if verdict.Level != models.RiskLevelSafe {
		t.Errorf("level = %s, want Safe", verdict.Level)
	}
	if verdict.Score != 0 {
		t.Errorf("score = %d, want 0", verdict.Score)
	}
	if len(verdict.Reasons) != 1 {
		t.Errorf("reasons = %v, want exactly one entry", verdict.Reasons)
	}
}

func TestOverrideSenderCaseInsensitive(t *testing.T) {
	checker := NewOverrideChecker(rules.NewDefaultCatalog())

	_, ok := checker.Check("VM-hdfcbk: Your statement is ready", nil)
	if !ok {
		t.Error("expected override regardless of sender ID case")
	}
}

func TestOverrideOfficialDomainLink(t *testing.T) {
	checker := NewOverrideChecker(rules.NewDefaultCatalog())

	text := "Pay your tax at https://incometax.gov.in/portal"
	links := ExtractLinks(text)
	verdict, ok := checker.Check(text, links)
	if !ok {
		t.Fatal("expected override for official domain link")
	}
	if verdict.Level != models.RiskLevelSafe || verdict.Score != 0 {
		t.Errorf("got level=%s score=%d, want Safe/0", verdict.Level, verdict.Score)
	}
}

func TestOverrideDoesNotApply(t *testing.T) {
	checker := NewOverrideChecker(rules.NewDefaultCatalog())

	cases := []string{
		"XY-RANDOM: You won a prize",
		"GOVIND: missing the two-letter prefix",
		"Click http://verify-account-update.com/login",
		"Plain message with no sender marker",
	}
	for _, text := range cases {
		if _, ok := checker.Check(text, ExtractLinks(text)); ok {
			t.Errorf("unexpected override for %q", text)
		}
	}
}
