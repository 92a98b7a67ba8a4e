package rules

import (
	"regexp"
)

// WeightedKeyword is a case-normalized substring with a risk weight.
// Safe keywords carry negative weights.
type WeightedKeyword struct {
	Keyword string
	Weight  int
}

// WeightedPattern is a named regular expression with a risk weight and a
// user-facing reason. LinkScoped patterns are evaluated against extracted
// links rather than message text.
type WeightedPattern struct {
	Name       string
	Regex      *regexp.Regexp
	Weight     int
	Reason     string
	LinkScoped bool
	HighThreat bool
	// Match overrides Regex when set. RE2 has no lookahead, so patterns
	// that need one (year-like number prefixes) filter in code instead.
	Match func(text string) bool
}

// SemanticFamily groups related phrases with a fixed per-occurrence weight
type SemanticFamily struct {
	Name    string
	Phrases []string
	Weight  int
}

// Catalog is the read-only rule set consulted by every analysis.
// It is populated once at startup and never mutated afterwards; concurrent
// reads from many analyses require no locking.
type Catalog struct {
	ScamKeywords     []WeightedKeyword
	SafeKeywords     []WeightedKeyword
	Patterns         []WeightedPattern
	SemanticFamilies []SemanticFamily

	NegationWords []string
	EmphasisWords []string

	OfficialSenderIDs      []string
	OfficialDomainSuffixes []string
	BrandDomains           []string
	KnownTypos             map[string][]string

	MaliciousDomains *MaliciousDomainSet
}

// NewDefaultCatalog builds the catalog from the built-in rule tables
func NewDefaultCatalog() *Catalog {
	return &Catalog{
		ScamKeywords:     defaultScamKeywords(),
		SafeKeywords:     defaultSafeKeywords(),
		Patterns:         defaultPatterns(),
		SemanticFamilies: defaultSemanticFamilies(),

		NegationWords: []string{"not", "never", "no", "don't", "avoid"},
		EmphasisWords: []string{"urgent", "important", "critical", "immediately"},

		OfficialSenderIDs:      defaultOfficialSenderIDs(),
		OfficialDomainSuffixes: defaultOfficialDomainSuffixes(),
		BrandDomains:           defaultBrandDomains(),
		KnownTypos:             defaultKnownTypos(),

		MaliciousDomains: NewMaliciousDomainSet(defaultMaliciousDomains()),
	}
}

// Pattern returns the named pattern, or nil if not in the catalog
func (c *Catalog) Pattern(name string) *WeightedPattern {
	for i := range c.Patterns {
		if c.Patterns[i].Name == name {
			return &c.Patterns[i]
		}
	}
	return nil
}

// TextPatterns returns patterns evaluated against message text, in catalog order
func (c *Catalog) TextPatterns() []WeightedPattern {
	out := make([]WeightedPattern, 0, len(c.Patterns))
	for _, p := range c.Patterns {
		if !p.LinkScoped {
			out = append(out, p)
		}
	}
	return out
}
