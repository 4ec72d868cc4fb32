package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// PIILevel defines the level of PII sanitization
type PIILevel string

const (
	// PIILevelNone redacts all user content
	PIILevelNone PIILevel = "none"
	// PIILevelHashed hashes PII with a deployment salt
	PIILevelHashed PIILevel = "hashed"
	// PIILevelFull performs no sanitization
	PIILevelFull PIILevel = "full"
)

// searchParams are the query-string keys that carry free text typed by dashboard users.
var searchParams = []string{"q"}

// Sanitizer masks contact details (names, phones, emails) before they reach logs or spans.
type Sanitizer struct {
	level PIILevel
	salt  string

	emailPattern *regexp.Regexp
	phonePattern *regexp.Regexp
}

// NewSanitizer creates a new PII sanitizer with a deployment-specific salt
func NewSanitizer(level PIILevel, salt string) *Sanitizer {
	return &Sanitizer{
		level:        level,
		salt:         salt,
		emailPattern: regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		phonePattern: regexp.MustCompile(`\+?\d[\d\s().-]{6,}\d`),
	}
}

// Level returns the configured sanitization level.
func (s *Sanitizer) Level() PIILevel {
	return s.level
}

// SanitizeSearchTerm masks a search term. Emails and phone numbers keep their kind so logs stay
// useful; anything else (typically a person's name) is hashed as a whole.
func (s *Sanitizer) SanitizeSearchTerm(term string) string {
	if term == "" {
		return ""
	}

	switch s.level {
	case PIILevelFull:
		return term
	case PIILevelNone:
		return "[REDACTED]"
	}

	trimmed := strings.TrimSpace(term)
	switch {
	case s.emailPattern.MatchString(trimmed):
		return s.emailPattern.ReplaceAllStringFunc(trimmed, func(match string) string {
			return fmt.Sprintf("[EMAIL:%s]", s.hash(strings.ToLower(match)))
		})
	case s.phonePattern.MatchString(trimmed):
		return s.phonePattern.ReplaceAllStringFunc(trimmed, func(match string) string {
			return fmt.Sprintf("[PHONE:%s]", s.hash(digitsOnly(match)))
		})
	default:
		return fmt.Sprintf("[TERM:%s]", s.hash(strings.ToLower(trimmed)))
	}
}

// SanitizeRawQuery masks search parameters in an encoded query string and leaves paging
// parameters readable.
func (s *Sanitizer) SanitizeRawQuery(raw string) string {
	if raw == "" || s.level == PIILevelFull {
		return raw
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return "[UNPARSEABLE]"
	}

	changed := false
	for _, key := range searchParams {
		terms, ok := values[key]
		if !ok {
			continue
		}
		for i := range terms {
			terms[i] = s.SanitizeSearchTerm(terms[i])
		}
		changed = true
	}
	if !changed {
		return raw
	}
	return values.Encode()
}

// SanitizeURL returns u as a string with its search parameters masked.
func (s *Sanitizer) SanitizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	clone := *u
	clone.RawQuery = s.SanitizeRawQuery(u.RawQuery)
	return clone.String()
}

// hash creates a SHA-256 hash with the configured salt
func (s *Sanitizer) hash(data string) string {
	h := sha256.New()
	h.Write([]byte(data + s.salt))
	// First 8 hex chars are enough to correlate log lines.
	return hex.EncodeToString(h.Sum(nil))[:8]
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
