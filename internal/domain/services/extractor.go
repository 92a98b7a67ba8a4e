package services

import (
	"net"
	"net/url"
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+|www\.[^\s<>"{}|\\^` + "`" + `\[\]]+`)

// ExtractLinks returns all URLs found in the text, in first-occurrence
// order. Duplicates are kept: each occurrence is analyzed on its own.
func ExtractLinks(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

// normalizeURL prefixes a scheme when the link was written without one
func normalizeURL(raw string) string {
	if strings.HasPrefix(raw, "www.") {
		return "https://" + raw
	}
	return raw
}

// domainOf extracts the host portion of a link, without port
func domainOf(link string) string {
	parsed, err := url.Parse(normalizeURL(link))
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

// hostWithoutPort strips a trailing :port from a host string
func hostWithoutPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// stripLinks replaces every extracted link in the text with a space so that
// text-level rules do not fire on URL substrings
func stripLinks(text string, links []string) string {
	stripped := text
	for _, link := range links {
		stripped = strings.ReplaceAll(stripped, link, " ")
	}
	return stripped
}
