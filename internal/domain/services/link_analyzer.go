package services

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"

	"guardian-lab/internal/config"
	"guardian-lab/internal/domain/models"
	"guardian-lab/internal/domain/rules"
	"guardian-lab/pkg/logger"
)

// ReputationClient answers whether a URL is known to an external
// reputation database. A failed lookup is reported as an error, never as
// a clean result, so the caller can distinguish "unknown" from "offline".
type ReputationClient interface {
	Check(ctx context.Context, url string) (models.ReputationResult, error)
}

// LinkAnalyzer performs deep per-link inspection: shortener resolution,
// punycode decoding, IP-literal detection, malicious-domain lookup,
// typosquatting scoring, reputation lookup, and TLS inspection.
type LinkAnalyzer struct {
	catalog    *rules.Catalog
	typosquat  *TyposquatDetector
	reputation ReputationClient
	httpClient *http.Client
	tlsTimeout time.Duration
	logger     *logger.Logger

	// resolve follows a shortener to its destination. Swappable in tests
	// so the unresolved-shortener branch can be driven without a network.
	resolve func(ctx context.Context, link string) (string, error)
}

func NewLinkAnalyzer(cfg config.AnalysisConfig, catalog *rules.Catalog, reputation ReputationClient, log *logger.Logger) *LinkAnalyzer {
	a := &LinkAnalyzer{
		catalog:    catalog,
		typosquat:  NewTyposquatDetector(catalog.KnownTypos),
		reputation: reputation,
		httpClient: &http.Client{Timeout: cfg.NetworkTimeout},
		tlsTimeout: cfg.TLSTimeout,
		logger:     log.WithComponent("link_analyzer"),
	}
	a.resolve = a.resolveRedirect
	return a
}

// Analyze inspects a single extracted link. Network failures downgrade to
// the absence of a signal rather than an error: an unreachable reputation
// service or TLS endpoint must never block a verdict.
func (a *LinkAnalyzer) Analyze(ctx context.Context, link string) models.LinkResult {
	result := models.LinkResult{
		URL:      link,
		Domain:   strings.ToLower(domainOf(link)),
		FinalURL: normalizeURL(link),
	}

	// Shortener resolution. An unresolvable short link is itself a signal
	// and ends the analysis: there is no destination to inspect.
	if shortener := a.catalog.Pattern("SHORTENED_URL"); shortener != nil && shortener.Regex != nil && shortener.Regex.MatchString(result.Domain) {
		finalURL, err := a.resolve(ctx, result.FinalURL)
		if err != nil {
			a.logger.Debug().Err(err).Str("link", link).Msg("shortener did not resolve")
			result.Score += 4
			result.Reasons = append(result.Reasons, rules.ReasonUnresolvedShortener(link))
			result.FinalDomain = result.Domain
			return result
		}
		result.FinalURL = finalURL
		result.Reasons = append(result.Reasons, "URL shortener '"+link+"' redirects to: "+finalURL)
	}

	result.FinalDomain = strings.ToLower(domainOf(result.FinalURL))
	decoded := decodePunycode(result.FinalDomain)

	// Official domains are exonerated outright.
	for _, suffix := range a.catalog.OfficialDomainSuffixes {
		if strings.HasSuffix(decoded, suffix) {
			return models.LinkResult{
				URL:         link,
				Domain:      result.Domain,
				FinalURL:    result.FinalURL,
				FinalDomain: result.FinalDomain,
			}
		}
	}

	if a.reputation != nil {
		rep, err := a.reputation.Check(ctx, result.FinalURL)
		if err != nil {
			a.logger.Warn().Err(err).Str("link", link).Msg("reputation lookup failed")
		} else if rep.InDatabase {
			if rep.Verified {
				result.Score += 20
				result.Reasons = append(result.Reasons, rules.ReasonReputationConfirmed)
			} else {
				result.Score += 10
				result.Reasons = append(result.Reasons, rules.ReasonReputationReported)
			}
		}
	}

	host := hostWithoutPort(result.FinalDomain)
	if net.ParseIP(host) != nil {
		result.Score += 8
		result.Reasons = append(result.Reasons, rules.ReasonIPAsDomain)
	}

	if a.isMalicious(decoded) || a.isMalicious(result.FinalDomain) {
		result.Score += 15
		result.Reasons = append(result.Reasons, rules.ReasonMaliciousDomain(result.FinalDomain))
	}

	// Homograph: a punycode host whose decoded form embeds a brand name.
	if result.FinalDomain != decoded {
		for _, brand := range a.catalog.BrandDomains {
			if strings.Contains(decoded, brand) {
				result.Score += 15
				result.Reasons = append(result.Reasons, rules.ReasonPunycodeImpersonation(brand, result.FinalDomain))
				break
			}
		}
	}

	typoScore, typoReasons := a.typosquat.Detect(result.FinalDomain, a.catalog.BrandDomains)
	result.Score += typoScore
	result.Reasons = append(result.Reasons, typoReasons...)

	if strings.HasPrefix(result.FinalURL, "https://") {
		tlsScore, tlsReason := a.inspectTLS(host)
		if tlsScore > 0 {
			result.Score += tlsScore
			result.Reasons = append(result.Reasons, tlsReason)
		}
	}

	return result
}

// resolveRedirect follows a short link to its destination with a HEAD
// request and returns the final URL.
func (a *LinkAnalyzer) resolveRedirect(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	return resp.Request.URL.String(), nil
}

// isMalicious checks the domain and its registrable (eTLD+1) form against
// the known-malicious set.
func (a *LinkAnalyzer) isMalicious(domain string) bool {
	host := hostWithoutPort(domain)
	if a.catalog.MaliciousDomains.Contains(host) {
		return true
	}
	if registrable, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil && registrable != host {
		return a.catalog.MaliciousDomains.Contains(registrable)
	}
	return false
}

// decodePunycode converts an IDNA host to its Unicode form. On any
// decoding error the original host is kept.
func decodePunycode(host string) string {
	decoded, err := idna.Lookup.ToUnicode(host)
	if err != nil || decoded == "" {
		return host
	}
	return decoded
}

// inspectTLS connects to the host and checks protocol version, certificate
// expiry, and chain validity. The handshake deliberately skips built-in
// verification so an invalid chain can still be examined and scored.
// A host that cannot be reached at all is inconclusive and scores zero.
func (a *LinkAnalyzer) inspectTLS(host string) (int, string) {
	dialer := &net.Dialer{Timeout: a.tlsTimeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", host+":443", &tls.Config{
		ServerName:         host,
		InsecureSkipVerify: true,
	})
	if err != nil {
		a.logger.Debug().Err(err).Str("host", host).Msg("tls inspection inconclusive")
		return 0, ""
	}
	defer conn.Close()

	state := conn.ConnectionState()
	if state.Version < tls.VersionTLS12 {
		return 5, rules.ReasonInsecureProtocol
	}
	if len(state.PeerCertificates) == 0 {
		return 0, ""
	}

	leaf := state.PeerCertificates[0]
	if time.Now().After(leaf.NotAfter) {
		return 8, rules.ReasonExpiredCert
	}

	intermediates := x509.NewCertPool()
	for _, cert := range state.PeerCertificates[1:] {
		intermediates.AddCert(cert)
	}
	if _, err := leaf.Verify(x509.VerifyOptions{DNSName: host, Intermediates: intermediates}); err != nil {
		return 8, rules.ReasonInvalidCert
	}

	return 0, ""
}
