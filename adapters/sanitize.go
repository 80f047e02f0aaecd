package adapters

import (
	"net/url"
	"strings"
)

// sensitiveParams contains query parameter names that are redacted from
// logs. They are matched case-insensitively as substrings.
var sensitiveParams = []string{
	"api_key",
	"api_sig",
	"auth_token",
	"oauth_token",
	"oauth_signature",
	"oauth_verifier",
	"secret",
}

// sanitizeURL redacts sensitive query parameters from u.
func sanitizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	q := u.Query()
	for param := range q {
		if isSensitiveParam(param) {
			q.Set(param, "[REDACTED]")
		}
	}

	safe := *u
	safe.RawQuery = q.Encode()
	return safe.String()
}

func isSensitiveParam(param string) bool {
	lower := strings.ToLower(param)
	for _, sensitive := range sensitiveParams {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}
