package rules

import (
	"regexp"
	"strings"
)

// Reason templates for link analysis findings that are not tied to a
// catalog pattern. Kept here so all user-facing wording lives in one place.
const (
	ReasonIPAsDomain          = "Link goes to a number (IP) instead of a name like google.com. Very fishy."
	ReasonInsecureProtocol    = "Site uses old security. Real sites keep things safe and updated."
	ReasonExpiredCert         = "Site's safety badge is out of date. Legit sites renew this."
	ReasonInvalidCert         = "Site's safety is broken. Connection isn't secure - don't trust it."
	ReasonClassifierHigh      = "Our smart AI thinks this looks exactly like scam messages it's seen before."
	ReasonClassifierModerate  = "Statistical model suggests this resembles known scam content."
	ReasonReputationConfirmed = "This link is confirmed as a phishing site by the reputation service."
	ReasonReputationReported  = "This link is reported as suspicious by the reputation service."
)

// ReasonMaliciousDomain formats the known-malicious-domain reason
func ReasonMaliciousDomain(domain string) string {
	return "Link '" + domain + "' is known for being bad. Stay away!"
}

// ReasonUnresolvedShortener formats the unresolved-shortener reason
func ReasonUnresolvedShortener(link string) string {
	return "Short link '" + link + "' won't open. Probably hiding something bad."
}

// ReasonPunycodeImpersonation formats the punycode homograph reason
func ReasonPunycodeImpersonation(brand, domain string) string {
	return "Domain uses punycode to impersonate '" + brand + "': " + domain
}

var suspiciousNumberRe = regexp.MustCompile(`\b\d{5,}\b`)

// matchSuspiciousNumbers flags long digit runs while skipping year-like
// prefixes, which RE2 cannot express without lookahead.
func matchSuspiciousNumbers(text string) bool {
	for _, m := range suspiciousNumberRe.FindAllString(text, -1) {
		if len(m) >= 7 {
			return true
		}
		if strings.HasPrefix(m, "19") || strings.HasPrefix(m, "20") {
			continue
		}
		return true
	}
	return false
}

// defaultPatterns returns the weighted named regex table. Order is catalog
// order; signals follow it. Patterns whose name references URL or DOMAIN are
// link-scoped and skipped during text scanning.
func defaultPatterns() []WeightedPattern {
	return []WeightedPattern{
		// High-risk patterns
		{
			Name:       "PERSONAL_INFO_REQUEST",
			Regex:      regexp.MustCompile(`(?i)(send|share|enter|provide)\s+(your|the)?\s+(otp|one time password|password|pin|ssn|social security number|bank details|aadhaar|pan|card number)`),
			Weight:     8,
			Reason:     "Message asks for private info like passwords or OTPs - big warning sign!",
			HighThreat: true,
		},
		{
			Name:   "GIFT_CARD_REQUEST",
			Regex:  regexp.MustCompile(`(?i)(buy|get|send)\s+(me|us)?\s*(a|an)?\s*(google play|amazon|steam|apple|walmart)\s+gift card`),
			Weight: 7,
			Reason: "Asks you to buy gift cards. Scammers love this because it's hard to track.",
		},

		// Medium-risk patterns
		{
			Name:       "SHORTENED_URL",
			Regex:      regexp.MustCompile(`(?i)\b(bit\.ly|t\.co|shorturl|tinyurl|goo\.gl|ow\.ly)\b`),
			Weight:     4,
			Reason:     "Link is shortened (like bit.ly). It hides where it really goes.",
			LinkScoped: true,
		},
		{
			Name:       "SUSPICIOUS_DOMAIN_TLD",
			Regex:      regexp.MustCompile(`(?i)\b[a-zA-Z0-9.-]+\.(tk|ml|ga|cf|gq|xyz|top|buzz|live|club|win|loan|work|click|download|verify|update)\b`),
			Weight:     4,
			Reason:     "Link ends with weird stuff like .xyz. Fake sites often use these.",
			LinkScoped: true,
		},
		{
			Name:   "URGENCY_PATTERN",
			Regex:  regexp.MustCompile(`(?i)\b(urgent|immediate|asap|right now|this instant|hurry|quick|fast)\b`),
			Weight: 3,
			Reason: "Tries to rush you with words like 'urgent' or 'now'. Don't panic!",
		},

		// Low-risk patterns: context indicators, not dangerous alone
		{
			Name:   "EXCESSIVE_CAPS",
			Regex:  regexp.MustCompile(`(\b[A-Z]{4,}\b\s*){4,}`),
			Weight: 1,
			Reason: "Lots of BIG LETTERS. Scammers shout to scare you.",
		},
		{
			Name:   "EXCESSIVE_PUNCTUATION",
			Regex:  regexp.MustCompile(`[!]{3,}|[?]{3,}`),
			Weight: 1,
			Reason: "Too many !!! or ???. Looks unprofessional, like a scam.",
		},
		{
			Name:   "PHONE_NUMBER",
			Regex:  regexp.MustCompile(`\b(?:(?:\+91|91|0)\s*-?\s*)?[6-9]\d{9}\b|\b0\d{2,4}\s*-?\s*\d{6,8}\b`),
			Weight: 0,
			Reason: "Message contains a phone number.",
		},
		{
			Name:   "SUSPICIOUS_NUMBERS",
			Match:  matchSuspiciousNumbers,
			Weight: 1,
			Reason: "Message contains unusually long numbers.",
		},
		{
			Name:   "PAN_CARD",
			Regex:  regexp.MustCompile(`(?i)\bpan\b`),
			Weight: 2,
			Reason: "Mentions PAN card details - be careful who you share these with.",
		},
		{
			Name:   "MONEY_AMOUNT",
			Regex:  regexp.MustCompile(`[₹$€£]\s*\d+`),
			Weight: 1,
			Reason: "Message mentions specific money amounts.",
		},

		// Typosquatting patterns
		{
			Name:       "TYPOSQUATTING_DOMAIN",
			Regex:      regexp.MustCompile(`(?i)\b[a-zA-Z0-9.-]*[0-9][a-zA-Z0-9.-]*\.(com|net|org|info|biz|co|in|tk|ml|ga|cf|gq|xyz|top|buzz|live|club|win|loan|work|click|download|verify|update)\b`),
			Weight:     3,
			Reason:     "Domain has numbers mixed in - scammers use this to trick you!",
			LinkScoped: true,
		},
		{
			Name:   "NUMBER_SUBSTITUTION",
			Regex:  regexp.MustCompile(`(?i)\b(g00gle|g0ogle|go0gle|amaz0n|amz0n|faceb00k|faceb0ok|app1e|micr0s0ft|micr0soft|netf1ix|netf1x|paypa1|payp4l|1nstagram|inst4gram|tw1tter|tw1ter|1inkedin|linked1n)\b`),
			Weight: 4,
			Reason: "Domain uses numbers instead of letters to look like a real site. Classic scam trick!",
		},
		{
			Name:       "DOMAIN_IMPERSONATION",
			Regex:      regexp.MustCompile(`(?i)\b[a-zA-Z0-9.-]*(google|facebook|amazon|apple|microsoft|netflix|paypal|instagram|twitter|linkedin)[a-zA-Z0-9.-]*\.(tk|ml|ga|cf|gq|xyz|top|buzz|live|club|win|loan|work|click|download|verify|update)\b`),
			Weight:     5,
			Reason:     "Domain tries to copy a famous brand name. Don't fall for it!",
			LinkScoped: true,
		},
	}
}
