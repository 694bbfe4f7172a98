// Package redact scrubs sensitive information from strings before they are
// logged. Error messages in this service can carry bearer tokens, email
// addresses, password fragments, and database connection strings; none of
// those may reach the log stream verbatim.
package redact

import "regexp"

// Redaction placeholders.
const (
	RedactedCredential = "[REDACTED_CREDENTIAL]"
	RedactedToken      = "[REDACTED_TOKEN]"
	RedactedEmail      = "[REDACTED_EMAIL]"
)

var (
	// Signed session tokens: three dot-separated base64url segments.
	tokenRegex = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)

	// Database connection strings with inline credentials.
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql)://[^@\s]+@`)

	// password=..., pwd: ... style fragments.
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:]\s?['"]?)[^'"&\s]{3,}`)

	// Email addresses.
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := tokenRegex.ReplaceAllString(input, RedactedToken)
	result = dbConnRegex.ReplaceAllString(result, RedactedCredential+"@")
	result = passwordRegex.ReplaceAllString(result, "$1$2"+RedactedCredential)
	result = emailRegex.ReplaceAllString(result, RedactedEmail)

	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
