// Package redact scrubs API keys and tokens from diagnostics and config dumps.
package redact

import (
	"regexp"
	"sort"
	"strings"
)

const (
	// RedactedPlaceholder is the default placeholder for redacted content.
	RedactedPlaceholder = "[REDACTED]"

	// RedactedPartialPrefix shows the first few characters.
	RedactedPartialPrefix = 4

	// RedactedPartialSuffix shows the last few characters.
	RedactedPartialSuffix = 4
)

// Redactor replaces secrets with a placeholder or a partially masked form.
type Redactor struct {
	placeholder string
	showPartial bool
	prefixLen   int
	suffixLen   int
	patterns    []*regexp.Regexp
	secrets     []string
}

// Option configures the redactor.
type Option func(*Redactor)

// WithPartialDisplay shows first and last characters of the secret.
func WithPartialDisplay(prefixLen, suffixLen int) Option {
	return func(r *Redactor) {
		r.showPartial = true
		r.prefixLen = prefixLen
		r.suffixLen = suffixLen
	}
}

// WithSecrets registers literal secret values, typically the configured
// API keys, to be scrubbed wherever they appear. Empty values are ignored.
func WithSecrets(secrets ...string) Option {
	return func(r *Redactor) {
		for _, s := range secrets {
			if s != "" {
				r.secrets = append(r.secrets, s)
			}
		}
	}
}

// New creates a new Redactor with the given options.
func New(opts ...Option) *Redactor {
	r := &Redactor{
		placeholder: RedactedPlaceholder,
		prefixLen:   RedactedPartialPrefix,
		suffixLen:   RedactedPartialSuffix,
		patterns:    defaultPatterns(),
	}
	for _, opt := range opts {
		opt(r)
	}
	// Longest first so a secret containing another is replaced whole.
	sort.SliceStable(r.secrets, func(i, j int) bool { return len(r.secrets[i]) > len(r.secrets[j]) })
	return r
}

func defaultPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		// Polaris Api-token header
		regexp.MustCompile(`(?i)api-token['":\s]*[=:\s]\s*['"]?[A-Za-z0-9_.+/=-]{8,}['"]?`),
		// Bearer tokens
		regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_.+/=-]{8,}`),
		// Generic API key assignments
		regexp.MustCompile(`(?i)(api[_-]?key|apikey)['":\s]*[=:\s]['"]?([A-Za-z0-9_-]{20,})['"]?`),
		// JWT tokens
		regexp.MustCompile(`eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*`),
		// Private key headers
		regexp.MustCompile(`-----BEGIN (RSA |EC |DSA |OPENSSH |PGP |)PRIVATE KEY-----`),
	}
}

// Redact replaces a secret value with a redacted version.
func (r *Redactor) Redact(secret string) string {
	if secret == "" {
		return ""
	}
	if r.showPartial {
		return r.partialRedact(secret)
	}
	return r.placeholder
}

func (r *Redactor) partialRedact(secret string) string {
	length := len(secret)
	if length <= r.prefixLen+r.suffixLen {
		return r.placeholder
	}
	middle := strings.Repeat("*", length-r.prefixLen-r.suffixLen)
	return secret[:r.prefixLen] + middle + secret[length-r.suffixLen:]
}

// RedactString scrubs registered secrets and pattern matches from input.
// Registered secrets are always fully replaced.
func (r *Redactor) RedactString(input string) string {
	result := input
	for _, s := range r.secrets {
		result = strings.ReplaceAll(result, s, r.placeholder)
	}
	for _, pattern := range r.patterns {
		result = pattern.ReplaceAllStringFunc(result, r.Redact)
	}
	return result
}

// Default is a pre-configured redactor with partial display.
var Default = New(WithPartialDisplay(4, 4))

// Redact uses the default redactor to redact a secret.
func Redact(secret string) string {
	return Default.Redact(secret)
}

// RedactFull completely redacts a secret without showing partial content.
func RedactFull(secret string) string {
	return New().Redact(secret)
}

// RedactString uses the default redactor to scan and redact secrets.
func RedactString(input string) string {
	return Default.RedactString(input)
}
