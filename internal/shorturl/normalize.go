package shorturl

import (
	"net/url"
	"strings"
)

// NormalizeOriginalURL ensures the URL carries a scheme, prefixing https://
// when none is present, and validates that the result parses with a host.
// Normalizing an already-normalized URL is a no-op.
func NormalizeOriginalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}

	if !hasHTTPScheme(raw) {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", ErrInvalidURL
	}

	return raw, nil
}

func hasHTTPScheme(raw string) bool {
	lower := strings.ToLower(raw)

	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
