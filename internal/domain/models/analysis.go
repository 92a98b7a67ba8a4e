package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel represents the categorical verdict for a message
type RiskLevel string

const (
	RiskLevelSafe       RiskLevel = "Safe"
	RiskLevelSuspicious RiskLevel = "Suspicious"
	RiskLevelDangerous  RiskLevel = "Dangerous"
)

// SignalSource identifies the detection technique that produced a signal
type SignalSource string

const (
	SignalSourceKeyword           SignalSource = "keyword"
	SignalSourceSemanticPattern   SignalSource = "semantic_pattern"
	SignalSourceBehavioralPattern SignalSource = "behavioral_pattern"
	SignalSourceRegexPattern      SignalSource = "regex_pattern"
	SignalSourceLinkAnalysis      SignalSource = "link_analysis"
	SignalSourceClassifier        SignalSource = "classifier"
	SignalSourceSafeKeyword       SignalSource = "safe_keyword"
)

// Signal is a single weighted, explainable risk indicator.
// Weight may be negative only for negated keywords and safe keywords.
type Signal struct {
	Source SignalSource `json:"source"`
	Weight int          `json:"weight"`
	Reason string       `json:"reason"`
}

// Verdict is the final result of analyzing one message
type Verdict struct {
	Level   RiskLevel `json:"level"`
	Score   int       `json:"score"`
	Reasons []string  `json:"reasons"`
	Links   []string  `json:"links"`
}

// LinkResult holds the outcome of deep analysis of a single link
type LinkResult struct {
	URL         string   `json:"url"`
	Domain      string   `json:"domain"`
	FinalURL    string   `json:"final_url,omitempty"`
	FinalDomain string   `json:"final_domain,omitempty"`
	Score       int      `json:"score"`
	Reasons     []string `json:"reasons,omitempty"`
}

// ReputationResult is the answer from the external URL reputation service
type ReputationResult struct {
	InDatabase bool `json:"in_database"`
	Verified   bool `json:"verified"`
}

// AuditRecord is the persisted trace of one analysis
type AuditRecord struct {
	ID         uuid.UUID `json:"id"`
	Message    string    `json:"message"`
	Level      RiskLevel `json:"level"`
	Score      int       `json:"score"`
	Reasons    []string  `json:"reasons"`
	Links      []string  `json:"links"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}
