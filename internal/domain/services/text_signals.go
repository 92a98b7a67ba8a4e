package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"guardian-lab/internal/domain/models"
	"guardian-lab/internal/domain/rules"
)

var moneyAmountRe = regexp.MustCompile(`[$₹£€]\s*\d+`)

// TextSignalExtractor produces weighted signals from message text with
// links already stripped out. Each extraction pass is independent so the
// pipeline can guard them individually.
type TextSignalExtractor struct {
	catalog *rules.Catalog
}

func NewTextSignalExtractor(catalog *rules.Catalog) *TextSignalExtractor {
	return &TextSignalExtractor{catalog: catalog}
}

// Keywords matches the weighted scam keyword table against the lowercased
// link-stripped text. A sliding window of three tokens on either side of
// the keyword adjusts the weight: negation inverts and halves it, each
// emphasis word in the window adds one.
func (e *TextSignalExtractor) Keywords(strippedLower string) []models.Signal {
	var signals []models.Signal
	tokens := strings.Fields(strippedLower)

	for _, kw := range e.catalog.ScamKeywords {
		if !strings.Contains(strippedLower, kw.Keyword) {
			continue
		}
		weight := kw.Weight
		reason := fmt.Sprintf("Detected suspicious keyword: '%s'", kw.Keyword)

		window := e.contextWindow(tokens, kw.Keyword)
		if window != nil {
			if containsAny(window, e.catalog.NegationWords) {
				negated := weight / 2
				if negated == 0 && weight > 0 {
					negated = 1
				}
				weight = -negated
				reason = fmt.Sprintf("Keyword '%s' appears in a negated context", kw.Keyword)
			}
			for _, emph := range e.catalog.EmphasisWords {
				if containsToken(window, emph) {
					weight++
				}
			}
		}

		signals = append(signals, models.Signal{
			Source: models.SignalSourceKeyword,
			Weight: weight,
			Reason: reason,
		})
	}
	return signals
}

// contextWindow returns the tokens within three positions of the keyword's
// first token, or nil when the keyword does not align on a token boundary.
func (e *TextSignalExtractor) contextWindow(tokens []string, keyword string) []string {
	first := strings.Fields(keyword)
	if len(first) == 0 {
		return nil
	}
	for i, tok := range tokens {
		if tok == first[0] || strings.Contains(tok, first[0]) {
			lo := i - 3
			if lo < 0 {
				lo = 0
			}
			hi := i + 4
			if hi > len(tokens) {
				hi = len(tokens)
			}
			return tokens[lo:hi]
		}
	}
	return nil
}

func containsAny(window []string, words []string) bool {
	for _, w := range words {
		if containsToken(window, w) {
			return true
		}
	}
	return false
}

func containsToken(window []string, word string) bool {
	for _, tok := range window {
		if strings.Trim(tok, ".,!?:;'\"") == word {
			return true
		}
	}
	return false
}

// Semantic counts phrase-family occurrences in the lowercased link-stripped
// text. Each family yields at most one signal, weighted by the number of
// distinct phrases found.
func (e *TextSignalExtractor) Semantic(strippedLower string) []models.Signal {
	var signals []models.Signal
	for _, family := range e.catalog.SemanticFamilies {
		count := 0
		for _, phrase := range family.Phrases {
			if strings.Contains(strippedLower, phrase) {
				count++
			}
		}
		if count > 0 {
			signals = append(signals, models.Signal{
				Source: models.SignalSourceSemanticPattern,
				Weight: count * family.Weight,
				Reason: fmt.Sprintf("Semantic: %s detected (%d indicators)", family.Name, count),
			})
		}
	}
	return signals
}

// Behavioral inspects the raw text's structure: exclamation marks,
// capitalization ratio, and currency mentions.
func (e *TextSignalExtractor) Behavioral(raw string) []models.Signal {
	var signals []models.Signal

	exclamations := strings.Count(raw, "!")
	if exclamations > 3 {
		signals = append(signals, models.Signal{
			Source: models.SignalSourceBehavioralPattern,
			Weight: 1,
			Reason: fmt.Sprintf("Behavioral: Excessive punctuation (%d exclamation marks)", exclamations),
		})
	}

	if ratio := capsRatio(raw); ratio > 0.3 {
		signals = append(signals, models.Signal{
			Source: models.SignalSourceBehavioralPattern,
			Weight: 2,
			Reason: fmt.Sprintf("Behavioral: Excessive capitalization (%.0f%% of text)", ratio*100),
		})
	}

	if money := len(moneyAmountRe.FindAllString(raw, -1)); money > 0 {
		signals = append(signals, models.Signal{
			Source: models.SignalSourceBehavioralPattern,
			Weight: money * 2,
			Reason: fmt.Sprintf("Behavioral: Money amounts mentioned (%d instances)", money),
		})
	}

	return signals
}

func capsRatio(text string) float64 {
	if text == "" {
		return 0
	}
	upper, total := 0, 0
	for _, r := range text {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(total)
}

// PatternResult carries the regex pass outcome along with whether a
// high-threat pattern fired, which later gates the safe-keyword discount.
type PatternResult struct {
	Signals    []models.Signal
	HighThreat bool
}

// Patterns evaluates the text-scoped weighted regex table against the
// case-preserving link-stripped text. Case folding is the pattern's own
// business: most embed (?i), but the capitalization pattern must see the
// original casing.
func (e *TextSignalExtractor) Patterns(stripped string) PatternResult {
	var result PatternResult
	for _, p := range e.catalog.TextPatterns() {
		matched := false
		if p.Match != nil {
			matched = p.Match(stripped)
		} else if p.Regex != nil {
			matched = p.Regex.MatchString(stripped)
		}
		if !matched {
			continue
		}
		result.Signals = append(result.Signals, models.Signal{
			Source: models.SignalSourceRegexPattern,
			Weight: p.Weight,
			Reason: p.Reason,
		})
		if p.HighThreat {
			result.HighThreat = true
		}
	}
	return result
}
