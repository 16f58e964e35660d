package enrichment

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// ExtractDomain reduces a website URL to a bare domain suitable for email
// discovery: scheme and leading "www." are stripped, and internationalized
// hostnames are converted to their ASCII form.
func ExtractDomain(website string) string {
	raw := strings.TrimSpace(website)
	if raw == "" {
		return ""
	}

	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Host == "" {
		return strings.TrimPrefix(raw, "www.")
	}

	host := strings.ToLower(parsed.Host)
	if idx := strings.IndexByte(host, ':'); idx >= 0 {
		host = host[:idx]
	}
	host = strings.TrimPrefix(host, "www.")

	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		return ascii
	}
	return host
}
