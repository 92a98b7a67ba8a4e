package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"guardian-lab/internal/config"
	"guardian-lab/internal/domain/models"
	"guardian-lab/internal/domain/rules"
	"guardian-lab/pkg/logger"
)

// MessageAnalyzer orchestrates the full pipeline: link extraction,
// contextual override, text signal extraction, per-link analysis, and
// score aggregation into a verdict.
type MessageAnalyzer struct {
	cfg        config.AnalysisConfig
	catalog    *rules.Catalog
	override   *OverrideChecker
	text       *TextSignalExtractor
	links      *LinkAnalyzer
	classifier Classifier
	logger     *logger.Logger
}

func NewMessageAnalyzer(cfg config.AnalysisConfig, catalog *rules.Catalog, reputation ReputationClient, classifier Classifier, log *logger.Logger) *MessageAnalyzer {
	return &MessageAnalyzer{
		cfg:        cfg,
		catalog:    catalog,
		override:   NewOverrideChecker(catalog),
		text:       NewTextSignalExtractor(catalog),
		links:      NewLinkAnalyzer(cfg, catalog, reputation, log),
		classifier: classifier,
		logger:     log.WithComponent("analyzer"),
	}
}

// ReloadMaliciousDomains re-reads the external domain list and atomically
// swaps it in. In-flight analyses keep the set they started with.
func (a *MessageAnalyzer) ReloadMaliciousDomains() error {
	if a.cfg.MaliciousDomainsFile == "" {
		return nil
	}
	return a.catalog.MaliciousDomains.LoadExternal(a.cfg.MaliciousDomainsFile)
}

// Analyze assesses a single message and returns a verdict. It never
// returns an error: a failing signal step degrades to a diagnostic reason
// so one bad rule cannot take the whole engine down.
func (a *MessageAnalyzer) Analyze(ctx context.Context, text string) *models.Verdict {
	links := ExtractLinks(text)

	if verdict, ok := a.override.Check(text, links); ok {
		a.logger.Info().Str("level", string(verdict.Level)).Msg("contextual override applied")
		return verdict
	}

	stripped := stripLinks(text, links)
	strippedLower := strings.ToLower(stripped)

	var signals []models.Signal
	highThreat := false

	a.guard("keywords", &signals, func() []models.Signal {
		return a.text.Keywords(strippedLower)
	})
	a.guard("semantic", &signals, func() []models.Signal {
		return a.text.Semantic(strippedLower)
	})
	a.guard("behavioral", &signals, func() []models.Signal {
		return a.text.Behavioral(text)
	})
	a.guard("patterns", &signals, func() []models.Signal {
		result := a.text.Patterns(stripped)
		if result.HighThreat {
			highThreat = true
		}
		return result.Signals
	})

	if len(links) > 0 {
		signals = append(signals, models.Signal{
			Source: models.SignalSourceLinkAnalysis,
			Weight: 0,
			Reason: fmt.Sprintf("Message contains %d link(s): %s", len(links), strings.Join(links, ", ")),
		})
		a.guard("link", &signals, func() []models.Signal {
			return a.analyzeLinks(ctx, links)
		})
	}

	score := 0
	reasons := make([]string, 0, len(signals))
	for _, s := range signals {
		score += s.Weight
		if s.Reason != "" {
			reasons = append(reasons, s.Reason)
		}
	}

	// Safe keywords must not mask a confirmed attack signature.
	if !highThreat && !mentionsImpersonation(reasons) {
		for _, kw := range a.catalog.SafeKeywords {
			if strings.Contains(strippedLower, kw.Keyword) {
				score += kw.Weight
				reasons = append(reasons, fmt.Sprintf("Message contains a known safe keyword: '%s' (score adjusted)", kw.Keyword))
			}
		}
	}

	// The classifier is a tie-breaker: it only amplifies an existing
	// positive score, never triggers on its own.
	if a.classifier != nil && score > 0 {
		if probability, err := a.classifier.Predict(ctx, strippedLower); err != nil {
			a.logger.Warn().Err(err).Msg("classifier prediction failed")
		} else if probability > 0.8 {
			score += 6
			reasons = append(reasons, rules.ReasonClassifierHigh)
		} else if probability > 0.6 {
			score += 3
			reasons = append(reasons, rules.ReasonClassifierModerate)
		}
	}

	if score < 0 {
		score = 0
	}

	level := models.RiskLevelSafe
	switch {
	case score >= a.cfg.DangerousThreshold:
		level = models.RiskLevelDangerous
	case score >= a.cfg.SuspiciousThreshold:
		level = models.RiskLevelSuspicious
	}

	if len(reasons) == 0 {
		if score > 0 {
			reasons = append(reasons, "Multiple risk factors detected")
		} else {
			reasons = append(reasons, "No significant risk factors detected")
		}
	}

	a.logger.Info().
		Str("level", string(level)).
		Int("score", score).
		Int("reasons", len(reasons)).
		Int("links", len(links)).
		Msg("analysis complete")

	return &models.Verdict{
		Level:   level,
		Score:   score,
		Reasons: reasons,
		Links:   links,
	}
}

// analyzeLinks runs the per-link pipeline, optionally in parallel, and
// merges results back in extraction order so reasons stay deterministic.
func (a *MessageAnalyzer) analyzeLinks(ctx context.Context, links []string) []models.Signal {
	results := make([]models.LinkResult, len(links))
	if a.cfg.ConcurrentLinks && len(links) > 1 {
		var wg sync.WaitGroup
		for i, link := range links {
			wg.Add(1)
			go func(i int, link string) {
				defer wg.Done()
				results[i] = a.analyzeLink(ctx, link)
			}(i, link)
		}
		wg.Wait()
	} else {
		for i, link := range links {
			results[i] = a.analyzeLink(ctx, link)
		}
	}

	var signals []models.Signal
	for i, link := range links {
		// Cheap link-scoped patterns run against the raw link string.
		for _, p := range a.catalog.Patterns {
			if !p.LinkScoped {
				continue
			}
			matched := false
			if p.Match != nil {
				matched = p.Match(link)
			} else if p.Regex != nil {
				matched = p.Regex.MatchString(link)
			}
			if matched {
				signals = append(signals, models.Signal{
					Source: models.SignalSourceRegexPattern,
					Weight: p.Weight,
					Reason: p.Reason,
				})
			}
		}
		signals = append(signals, models.Signal{
			Source: models.SignalSourceLinkAnalysis,
			Weight: results[i].Score,
		})
		for _, reason := range results[i].Reasons {
			signals = append(signals, models.Signal{
				Source: models.SignalSourceLinkAnalysis,
				Weight: 0,
				Reason: reason,
			})
		}
	}
	return signals
}

// analyzeLink inspects one link with the same panic containment as the
// text passes. It runs inside worker goroutines, so the recover has to
// live here: a panic that escapes a goroutine cannot be caught upstream.
func (a *MessageAnalyzer) analyzeLink(ctx context.Context, link string) (result models.LinkResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().Interface("panic", r).Str("link", link).Msg("link analysis failed")
			result = models.LinkResult{
				URL:     link,
				Reasons: []string{"An error occurred during link analysis"},
			}
		}
	}()
	return a.links.Analyze(ctx, link)
}

// guard runs one signal step and converts a panic into a diagnostic,
// zero-weight signal.
func (a *MessageAnalyzer) guard(step string, signals *[]models.Signal, fn func() []models.Signal) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().Interface("panic", r).Str("step", step).Msg("signal step failed")
			*signals = append(*signals, models.Signal{
				Source: models.SignalSourceRegexPattern,
				Weight: 0,
				Reason: fmt.Sprintf("An error occurred during %s analysis", step),
			})
		}
	}()
	*signals = append(*signals, fn()...)
}

func mentionsImpersonation(reasons []string) bool {
	for _, reason := range reasons {
		lower := strings.ToLower(reason)
		if strings.Contains(lower, "typosquatting") || strings.Contains(lower, "impersonat") {
			return true
		}
	}
	return false
}
