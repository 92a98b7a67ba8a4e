package rules

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
)

// MaliciousDomainSet is the union of the built-in malicious domain list and
// an optionally loaded external list. Membership tests are lock-free; a
// reload swaps the whole set atomically so in-flight analyses never observe
// a partially updated set.
type MaliciousDomainSet struct {
	static  []string
	current atomic.Pointer[map[string]struct{}]
}

// NewMaliciousDomainSet builds a set from the static built-in list
func NewMaliciousDomainSet(static []string) *MaliciousDomainSet {
	s := &MaliciousDomainSet{static: static}
	s.swap(nil)
	return s
}

// Contains reports whether the domain is in the malicious set
func (s *MaliciousDomainSet) Contains(domain string) bool {
	m := *s.current.Load()
	_, ok := m[strings.ToLower(domain)]
	return ok
}

// Len returns the number of domains currently in the set
func (s *MaliciousDomainSet) Len() int {
	return len(*s.current.Load())
}

// LoadExternal merges a newline-delimited domain file into the static list
// and atomically replaces the active set. The previous set remains visible
// to readers until the swap completes.
func (s *MaliciousDomainSet) LoadExternal(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open malicious domains file: %w", err)
	}
	defer f.Close()

	var external []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		external = append(external, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read malicious domains file: %w", err)
	}

	s.swap(external)
	return nil
}

func (s *MaliciousDomainSet) swap(external []string) {
	m := make(map[string]struct{}, len(s.static)+len(external))
	for _, d := range s.static {
		m[strings.ToLower(d)] = struct{}{}
	}
	for _, d := range external {
		m[strings.ToLower(d)] = struct{}{}
	}
	s.current.Store(&m)
}

// defaultOfficialSenderIDs lists alphanumeric sender IDs that mark a message
// as coming from a verified organization. Compared case-insensitively.
func defaultOfficialSenderIDs() []string {
	return []string{
		// Banks
		"HDFCBK", "ICICIB", "SBIBNK", "AXISBK", "KOTAKB",
		// Telecom
		"JIOINFO", "AIRTEL", "ViCARE",
		// Delivery & e-commerce
		"FLPKRT", "AMZIND", "MYNTRA", "ZOMATO", "SWIGGY",
		// Government & utilities
		"GOVIND", "BSEB", "MSEB",
		// Others
		"Google", "Verify",
	}
}

// defaultOfficialDomainSuffixes lists domain suffixes that indicate an
// official institution. Used for contextual overrides and link exoneration.
func defaultOfficialDomainSuffixes() []string {
	return []string{
		".gov.in", ".gov",
		".edu.in", ".edu",
		".ac.in", ".ac.uk",
	}
}

// defaultBrandDomains lists popular brand domains checked for impersonation
func defaultBrandDomains() []string {
	return []string{
		// Tech giants
		"google.com", "facebook.com", "instagram.com", "whatsapp.com",
		"twitter.com", "linkedin.com", "youtube.com", "tiktok.com",

		// E-commerce
		"amazon.com", "flipkart.com", "myntra.com", "snapdeal.com",
		"paytm.com", "phonepe.com", "gpay.com",

		// Streaming & entertainment
		"netflix.com", "spotify.com", "primevideo.com", "hotstar.com",

		// Banking & finance
		"hdfcbank.com", "icicibank.com", "onlinesbi.sbi", "axisbank.com",
		"paypal.com", "razorpay.com",

		// Tech companies
		"apple.com", "microsoft.com", "adobe.com", "oracle.com",

		// Food & delivery
		"zomato.com", "swiggy.com", "ubereats.com", "dominos.com",

		// Travel & transport
		"makemytrip.com", "goibibo.com", "uber.com", "ola.com",

		// Government & official
		"gov.in", "uidai.gov.in", "incometax.gov.in",

		// Social & communication
		"telegram.org", "discord.com", "zoom.us", "skype.com",
	}
}

// defaultKnownTypos maps brand names to commonly observed misspellings
func defaultKnownTypos() map[string][]string {
	return map[string][]string{
		"amazon":    {"amzan", "amaz0n", "amz0n"},
		"google":    {"g00gle", "g0ogle", "go0gle"},
		"facebook":  {"faceb00k", "faceb0ok"},
		"apple":     {"app1e"},
		"microsoft": {"micr0s0ft", "micr0soft"},
		"netflix":   {"netf1ix", "netf1x"},
		"paypal":    {"paypa1", "payp4l"},
		"instagram": {"1nstagram", "inst4gram"},
		"twitter":   {"tw1tter", "tw1ter"},
		"linkedin":  {"1inkedin", "linked1n"},
	}
}

// defaultMaliciousDomains is the static built-in malicious domain list
func defaultMaliciousDomains() []string {
	return []string{
		// Fake banking domains
		"verify-account-update.com",
		"secure-login-portal.net",
		"bank-support-service.com",
		"bank-security-update.net",
		"account-verification-now.com",
		"banking-security-alert.org",
		"secure-bank-login.net",
		"online-banking-support.org",
		"bank-resolve-issue.com",
		"bank-account-verify.com",

		// Lottery and prize scams
		"free-money-now.org",
		"claim-your-prize-today.info",
		"lottery-winner-claim.net",
		"prize-claim-now.com",
		"free-prize-claim.org",
		"lottery-verification.net",
		"winner-claim-portal.com",
		"instant-win-online.com",
		"claim-your-winnings.net",

		// Job scam domains
		"easy-money-jobs.net",
		"work-from-home-scam.com",
		"guaranteed-income-now.org",
		"quick-cash-jobs.net",
		"online-earning-scam.com",
		"remote-work-offer.net",
		"easy-job-apply.com",

		// Crypto and investment scams
		"crypto-airdrop-free.net",
		"bitcoin-investment-scam.com",
		"crypto-trading-scam.org",
		"investment-opportunity-scam.net",
		"crypto-giveaway-scam.com",
		"free-bitcoin-now.org",
		"guaranteed-crypto-returns.com",

		// Delivery and shipping scams
		"delivery-fee-payment.net",
		"package-release-fee.com",
		"customs-fee-payment.org",
		"shipping-fee-scam.net",
		"delivery-charge-scam.org",
		"track-your-parcel-scam.com",
		"dhl-express-update.net",

		// Social media and dating scams
		"facebook-verification-scam.com",
		"facebo0k.com",
		"instagram-account-verify.net",
		"whatsapp-verification-scam.org",
		"dating-site-verification.net",
		"social-media-verification-scam.com",

		// Government and authority scams
		"irs-tax-refund-scam.net",
		"government-benefit-scam.com",
		"court-notice-scam.org",
		"police-verification-scam.net",
		"tax-payment-due.com",
		"official-gov-service.org",
		"legal-notice-scam.com",

		// Tech support scams
		"microsoft-support-scam.net",
		"apple-support-scam.com",
		"windows-update-scam.org",
		"tech-support-scam.net",
		"computer-virus-scam.com",
		"pc-cleaner-scam.com",
		"antivirus-renewal-scam.net",

		// Generic scam domains
		"free-gift-claim.net",
		"survey-reward-scam.com",
		"free-trial-scam.org",
		"subscription-scam.net",
		"verification-scam.com",

		// Suspicious TLDs often used for scams
		"secure-login.click",
		"account-update.link",
		"verify-identity.xyz",
		"bank-support.top",
		"package-tracking.buzz",
		"free-money.club",
		"crypto-giveaway.live",

		// Common phishing patterns
		"login-apple-id.com",
		"microsoft-secure.net",
		"amazon-support-service.org",
		"netflix-account-update.info",
		"paypal-secure-payment.com",
		"your-bank-security.com",
		"dhl-delivery-update.com",

		// Typosquatting examples
		"amaz0n-support.com",
		"g00gle-security.net",
		"microsft-support.org",
	}
}
