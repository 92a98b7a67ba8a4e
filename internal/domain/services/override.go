package services

import (
	"fmt"
	"regexp"
	"strings"

	"guardian-lab/internal/domain/models"
	"guardian-lab/internal/domain/rules"
)

// senderIDPattern matches a DLT-style sender header such as "VM-HDFCBK:"
// at the very start of the message.
var senderIDPattern = regexp.MustCompile(`^[a-zA-Z]{2}-([a-zA-Z0-9_]+):`)

// OverrideChecker short-circuits analysis for messages that carry a
// trusted sender identity or link exclusively to official domains.
type OverrideChecker struct {
	catalog *rules.Catalog
}

func NewOverrideChecker(catalog *rules.Catalog) *OverrideChecker {
	return &OverrideChecker{catalog: catalog}
}

// Check returns a Safe verdict when the message starts with a registered
// official sender ID, or when one of its links resolves to an official
// domain suffix. The boolean reports whether an override applied.
func (c *OverrideChecker) Check(text string, links []string) (*models.Verdict, bool) {
	if m := senderIDPattern.FindStringSubmatch(text); m != nil {
		sender := m[1]
		for _, official := range c.catalog.OfficialSenderIDs {
			if strings.EqualFold(sender, official) {
				return &models.Verdict{
					Level:   models.RiskLevelSafe,
					Score:   0,
					Reasons: []string{fmt.Sprintf("Message from verified official sender: %s", sender)},
					Links:   links,
				}, true
			}
		}
	}

	for _, link := range links {
		domain := strings.ToLower(domainOf(link))
		if domain == "" {
			continue
		}
		for _, suffix := range c.catalog.OfficialDomainSuffixes {
			if strings.HasSuffix(domain, suffix) {
				return &models.Verdict{
					Level:   models.RiskLevelSafe,
					Score:   0,
					Reasons: []string{fmt.Sprintf("Message links to official domain: %s", domain)},
					Links:   links,
				}, true
			}
		}
	}

	return nil, false
}
