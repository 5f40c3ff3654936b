// Package redact scrubs secrets and personal data from error text before it
// is logged. It knows the shapes this service leaks in practice: connection
// URLs for Postgres, Redis, RabbitMQ and SMTP, session tokens, bcrypt hashes,
// configured secrets, employee email addresses and GORM's SQL echoes.
package redact

import (
	"regexp"
	"strings"
)

// Placeholders substituted for redacted text.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedHashPlaceholder       = "[REDACTED_HASH]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules run in order. Credentials inside URLs go first so that the later
// email rule never sees "user:password@host".
var rules = []rule{
	// user:password@ in the URLs the service dials
	{
		regexp.MustCompile(`(?i)\b((?:postgres(?:ql)?|rediss?|amqps?|smtps?)://)[^@\s/]+@`),
		"${1}" + RedactedCredentialPlaceholder + "@",
	},
	// session JWTs, with or without a Bearer prefix
	{
		regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/=-]+`),
		"Bearer " + RedactedTokenPlaceholder,
	},
	{
		regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		RedactedTokenPlaceholder,
	},
	// stored password hashes
	{
		regexp.MustCompile(`\$2[abxy]?\$\d{2}\$[./A-Za-z0-9]{53}`),
		RedactedHashPlaceholder,
	},
	// key=value secrets such as jwt_secret, smtp_password, redis_password
	{
		regexp.MustCompile(`(?i)\b(\w*(?:password|passwd|pwd|secret|api[_-]?key|token))(\s*[=:]\s*)["']?[^"'&\s,;]+`),
		"${1}${2}" + RedactedCredentialPlaceholder,
	},
	// GORM errors echo the statement, including the values
	{
		regexp.MustCompile(`(?i)\b(?:SELECT .+? FROM|INSERT INTO|UPDATE \S+ SET|DELETE FROM)\b[^;\n]*`),
		RedactedSQLPlaceholder,
	},
	{
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		RedactedEmailPlaceholder,
	},
	// filesystem locations, e.g. the rotated log file
	{
		regexp.MustCompile(`(?:/[\w.-]+){3,}`),
		RedactedPathPlaceholder,
	},
}

// String redacts sensitive information from input.
func String(input string) string {
	if input == "" {
		return input
	}
	for _, r := range rules {
		input = r.pattern.ReplaceAllString(input, r.replacement)
	}
	return input
}

// Error redacts sensitive information from err.Error().
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Email masks an address for logging, keeping the first character of the
// local part and the domain: "grace@example.com" becomes "g***@example.com".
// Input that is not an address is fully redacted.
func Email(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at < 1 || at == len(addr)-1 {
		if addr == "" {
			return ""
		}
		return RedactionPlaceholder
	}
	return addr[:1] + "***" + addr[at:]
}
