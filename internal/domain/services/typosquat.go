package services

import (
	"fmt"
	"strings"
)

// digitSubstitutions maps look-alike digits to the letters they commonly
// stand in for in typosquatted domains.
var digitSubstitutions = map[byte][]byte{
	'0': {'o'},
	'1': {'i', 'l'},
	'2': {'z'},
	'3': {'e'},
	'4': {'a'},
	'5': {'s'},
	'6': {'g'},
	'7': {'t'},
	'8': {'b'},
	'9': {'g'},
}

// substitutionDigits is the iteration order for the map above, kept fixed
// so reason output is deterministic.
var substitutionDigits = []byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}

// TyposquatDetector scores how closely a candidate domain mimics a set of
// brand domains. Every technique is evaluated against every brand so that
// evidence accumulates; a technique fires at most once per brand.
type TyposquatDetector struct {
	knownTypos map[string][]string
}

func NewTyposquatDetector(knownTypos map[string][]string) *TyposquatDetector {
	return &TyposquatDetector{knownTypos: knownTypos}
}

// Detect returns the accumulated typosquatting score for the domain against
// all brand domains, with one reason per technique that fired.
func (d *TyposquatDetector) Detect(domain string, brandDomains []string) (int, []string) {
	domainLower := strings.ToLower(domain)
	score := 0
	var reasons []string

	for _, brandDomain := range brandDomains {
		brand := strings.ToLower(strings.SplitN(brandDomain, ".", 2)[0])
		if brand == "" {
			continue
		}

		// 1. Digit-for-letter normalization.
		if !strings.Contains(domainLower, brand) {
			for _, normalized := range normalizeDigits(domainLower) {
				if strings.Contains(normalized, brand) {
					score += 12
					reasons = append(reasons, fmt.Sprintf("Domain '%s' uses number substitution to impersonate '%s'", domain, brand))
					break
				}
			}
		}

		// 2. Templated digit patterns: suffix, prefix, and first-character
		// substitution. First match wins per brand.
		if pattern, desc := matchDigitPattern(domainLower, brand); pattern != "" {
			score += 10
			reasons = append(reasons, fmt.Sprintf("Domain '%s' appears to be typosquatting: %s", domain, desc))
		}

		// 3. Bounded edit distance.
		if levenshtein(brand, domainLower) <= 2 && !strings.Contains(domainLower, brand) {
			score += 8
			reasons = append(reasons, fmt.Sprintf("Domain '%s' is very similar to '%s' (typosquatting)", domain, brand))
		}

		// 4. Length-bounded containment of the brand or a brand trigram.
		if len(domainLower) >= len(brand)-1 && len(domainLower) <= len(brand)+2 {
			if strings.Contains(domainLower, brand) || containsTrigram(domainLower, brand) {
				score += 6
				reasons = append(reasons, fmt.Sprintf("Domain '%s' suspiciously similar to '%s'", domain, brand))
			}
		}

		// 5. Positional single-character substitution, scanned in both
		// directions.
		if digit, letter, ok := positionalSubstitution(domainLower, brand); ok {
			score += 8
			reasons = append(reasons, fmt.Sprintf("Domain '%s' uses '%c' instead of '%c' to impersonate '%s'", domain, digit, letter, brand))
		}

		// 6. Fuzzy trigram scan for a single substituted character.
		if trigramSubstitution(domainLower, brand) {
			score += 6
			reasons = append(reasons, fmt.Sprintf("Domain '%s' appears to substitute characters to mimic '%s'", domain, brand))
		}

		// 7. Character-substitution coverage heuristic.
		if coverageSubstitution(domainLower, brand) {
			score += 7
			reasons = append(reasons, fmt.Sprintf("Domain '%s' appears to be typosquatting '%s' with character substitutions", domain, brand))
		}

		// 8. Known-typo dictionary.
		for _, typo := range d.knownTypos[brand] {
			if strings.Contains(domainLower, typo) {
				score += 10
				reasons = append(reasons, fmt.Sprintf("Domain '%s' uses common typosquatting pattern '%s' to impersonate '%s'", domain, typo, brand))
				break
			}
		}
	}

	return score, reasons
}

// normalizeDigits replaces every digit in s with its look-alike letters,
// producing one candidate string per combination of ambiguous digits. The
// only ambiguous digit is '1' (i or l), so at most two forms come back.
func normalizeDigits(s string) []string {
	forms := []string{s}
	for _, digit := range substitutionDigits {
		letters := digitSubstitutions[digit]
		var next []string
		for _, form := range forms {
			if !strings.Contains(form, string(digit)) {
				next = append(next, form)
				continue
			}
			for _, letter := range letters {
				next = append(next, strings.ReplaceAll(form, string(digit), string(letter)))
			}
		}
		forms = next
	}
	return forms
}

// matchDigitPattern checks brand+digit, digit+brand and first-character
// digit substitution templates against the domain.
func matchDigitPattern(domain, brand string) (pattern, description string) {
	for _, digit := range substitutionDigits {
		for _, letter := range digitSubstitutions[digit] {
			candidates := []struct {
				pattern string
				desc    string
			}{
				{brand + string(digit), fmt.Sprintf("%s with %c instead of %c", brand, digit, letter)},
				{string(digit) + brand, fmt.Sprintf("%c instead of %c in %s", digit, letter, brand)},
			}
			if len(brand) > 1 {
				candidates = append(candidates, struct {
					pattern string
					desc    string
				}{string(brand[0]) + string(digit) + brand[1:], fmt.Sprintf("%s with %c instead of %c", brand, digit, letter)})
			}
			for _, c := range candidates {
				if strings.Contains(domain, c.pattern) {
					return c.pattern, c.desc
				}
			}
		}
	}
	return "", ""
}

// containsTrigram reports whether any 3-character substring of the brand
// appears in the domain.
func containsTrigram(domain, brand string) bool {
	for i := 0; i+3 <= len(brand); i++ {
		if strings.Contains(domain, brand[i:i+3]) {
			return true
		}
	}
	return false
}

// positionalSubstitution finds a single digit-for-letter swap at position i
// that turns the domain into the brand, or a letter-for-digit swap that
// turns the brand into the domain.
func positionalSubstitution(domain, brand string) (digit, letter byte, ok bool) {
	for i := 0; i < len(brand) && i < len(domain); i++ {
		for _, d := range substitutionDigits {
			for _, l := range digitSubstitutions[d] {
				if brand[i] == l && domain[i] == d && domain[:i]+string(l)+domain[i+1:] == brand {
					return d, l, true
				}
				if domain[i] == l && brand[i] == d && brand[:i]+string(l)+brand[i+1:] == domain {
					return d, l, true
				}
			}
		}
	}
	return 0, 0, false
}

// trigramSubstitution slides a 3-character window over both strings looking
// for a window pair that differs in exactly one position, where the
// differing pair is a known digit/letter substitution.
func trigramSubstitution(domain, brand string) bool {
	if len(domain) < 3 || len(brand) < 3 {
		return false
	}
	for i := 0; i+3 <= len(brand); i++ {
		bw := brand[i : i+3]
		for j := 0; j+3 <= len(domain); j++ {
			dw := domain[j : j+3]
			diff := -1
			for k := 0; k < 3; k++ {
				if bw[k] != dw[k] {
					if diff >= 0 {
						diff = -2
						break
					}
					diff = k
				}
			}
			if diff < 0 {
				continue
			}
			if isSubstitutionPair(bw[diff], dw[diff]) {
				return true
			}
		}
	}
	return false
}

func isSubstitutionPair(a, b byte) bool {
	for _, digit := range substitutionDigits {
		for _, letter := range digitSubstitutions[digit] {
			if (a == letter && b == digit) || (a == digit && b == letter) {
				return true
			}
		}
	}
	return false
}

// coverageSubstitution checks whether substitution-map entries connect the
// brand and domain character sets, the lengths are within 2, and at least
// 60% of the brand's characters appear somewhere in the domain.
func coverageSubstitution(domain, brand string) bool {
	if len(domain) < 4 || len(brand) < 4 {
		return false
	}
	connections := 0
	for _, digit := range substitutionDigits {
		for _, letter := range digitSubstitutions[digit] {
			if strings.IndexByte(brand, letter) >= 0 && strings.IndexByte(domain, digit) >= 0 {
				connections++
			}
			if strings.IndexByte(brand, digit) >= 0 && strings.IndexByte(domain, letter) >= 0 {
				connections++
			}
		}
	}
	if connections == 0 {
		return false
	}
	lenDiff := len(domain) - len(brand)
	if lenDiff < -2 || lenDiff > 2 {
		return false
	}
	present := 0
	for i := 0; i < len(brand); i++ {
		if strings.IndexByte(domain, brand[i]) >= 0 {
			present++
		}
	}
	return float64(present) >= float64(len(brand))*0.6
}

// levenshtein computes edit distance with the classic two-row dynamic
// program.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 0; i < len(a); i++ {
		curr[0] = i + 1
		for j := 0; j < len(b); j++ {
			cost := 1
			if a[i] == b[j] {
				cost = 0
			}
			curr[j+1] = min(curr[j]+1, min(prev[j+1]+1, prev[j]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
