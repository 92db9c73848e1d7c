package enrich

import "strings"

// Browser labels for user agents that cannot be classified.
const (
	BrowserUnknown = "Unknown"
	BrowserOther   = "Other"
)

// browserTokens are matched in order; first match wins. Chrome must come
// before Safari because Chrome user agents also contain "Safari".
var browserTokens = []string{"Chrome", "Firefox", "Safari"}

// Browser classifies a user agent string by substring match. An empty user
// agent yields BrowserUnknown; an unrecognized one yields BrowserOther.
func Browser(userAgent string) string {
	if userAgent == "" {
		return BrowserUnknown
	}

	for _, token := range browserTokens {
		if strings.Contains(userAgent, token) {
			return token
		}
	}

	return BrowserOther
}
