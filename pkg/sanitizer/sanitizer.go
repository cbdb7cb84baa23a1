package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// TrimAndNormalize trims the string and collapses internal whitespace
// runs to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName cleans a person or resource display name.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeLabel cleans a free-text label (site, reason, company) and
// lowercases it for consistent matching.
func NormalizeLabel(label string) string {
	p := Pipeline{TrimAndNormalize, strings.ToLower}
	return p.Apply(label)
}
