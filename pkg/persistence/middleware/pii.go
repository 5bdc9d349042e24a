package middleware

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/ports"
)

// Mask replaces redacted argument values.
const Mask = "***"

// DefaultRedactPatterns match argument keys that commonly carry credentials.
var DefaultRedactPatterns = []string{"(?i)password", "(?i)secret", "(?i)token", "(?i)api_?key"}

type piiMiddleware struct {
	next     ports.Journal
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks argument values whose keys match
// the patterns before the entry is stored. Invalid patterns are reported by CompilePatterns.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.Journal) ports.Journal {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

// CompilePatterns validates redaction patterns ahead of NewPIIMiddleware.
func CompilePatterns(patternStrings []string) error {
	for _, p := range patternStrings {
		if _, err := regexp.Compile(p); err != nil {
			return err
		}
	}
	return nil
}

func (m *piiMiddleware) Append(ctx context.Context, entry domain.JournalEntry) error {
	// entry is a copy; only the argument text is rewritten.
	entry.Arguments = m.redact(entry.Arguments)
	return m.next.Append(ctx, entry)
}

func (m *piiMiddleware) List(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	return m.next.List(ctx, limit)
}

// redact masks matching keys of a JSON object. Anything else is stored as given.
func (m *piiMiddleware) redact(arguments string) string {
	if arguments == "" {
		return arguments
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return arguments
	}
	if !maskMap(args, m.patterns) {
		return arguments
	}
	data, err := json.Marshal(args)
	if err != nil {
		return arguments
	}
	return string(data)
}

// maskMap reports whether anything was masked.
func maskMap(m map[string]any, patterns []*regexp.Regexp) bool {
	masked := false
	for k, v := range m {
		hit := false
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				hit, masked = true, true
				break
			}
		}
		if hit {
			continue
		}

		// Recurse if map
		if subMap, ok := v.(map[string]any); ok && maskMap(subMap, patterns) {
			masked = true
		}
	}
	return masked
}
