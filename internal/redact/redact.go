// Package redact scrubs sensitive values from strings before they reach logs
// or error responses. Provider errors in particular like to echo the request
// URL back, which carries lookup API keys as query parameters.
package redact

import "regexp"

// Redaction placeholders.
const (
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

var (
	// API keys passed as query parameters (key=..., apikey=..., token=...).
	queryKeyRegex = regexp.MustCompile(`(?i)([?&](?:api[_-]?key|apikey|key|token|access_token)=)[A-Za-z0-9_\-.~%]+`)

	// Google-style API keys.
	googleKeyRegex = regexp.MustCompile(`\bAIza[A-Za-z0-9_\-]{10,}\b`)

	// Bearer tokens in header dumps.
	bearerRegex = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9_\-.~+/=]{8,}`)

	// JWTs (three base64url segments).
	jwtRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Credentials embedded in connection URLs.
	connURLRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql|redis|amqp)://[^@\s]+@`)

	// Email addresses.
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// String redacts sensitive values from the input.
func String(input string) string {
	if input == "" {
		return input
	}

	out := queryKeyRegex.ReplaceAllString(input, "${1}"+RedactedKeyPlaceholder)
	out = googleKeyRegex.ReplaceAllString(out, RedactedKeyPlaceholder)
	out = bearerRegex.ReplaceAllString(out, "${1}"+RedactedKeyPlaceholder)
	out = jwtRegex.ReplaceAllString(out, RedactedKeyPlaceholder)
	out = connURLRegex.ReplaceAllString(out, "${1}://"+RedactedCredentialPlaceholder+"@")
	out = emailRegex.ReplaceAllString(out, RedactedEmailPlaceholder)
	return out
}

// Error redacts sensitive values from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
