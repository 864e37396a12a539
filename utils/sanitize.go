// Package utils provides query sanitization for the search surface.
package utils

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultMaxQueryLength bounds free-text query size.
const DefaultMaxQueryLength = 1000

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// QuerySanitizer normalizes free-text queries before they reach either search
// path. The surface is a browsing UI, so problems are clamped away rather
// than rejected: tags and control characters are stripped, whitespace is
// collapsed, and oversized input is truncated.
type QuerySanitizer struct {
	maxLength int
}

func NewQuerySanitizer(maxLength int) *QuerySanitizer {
	if maxLength <= 0 {
		maxLength = DefaultMaxQueryLength
	}
	return &QuerySanitizer{maxLength: maxLength}
}

// Sanitize returns the cleaned query. An empty result means the input carried
// no usable text.
func (s *QuerySanitizer) Sanitize(query string) string {
	query = htmlTagRegex.ReplaceAllString(query, "")

	var b strings.Builder
	b.Grow(len(query))
	for _, r := range query {
		if unicode.IsControl(r) || isZeroWidth(r) {
			continue
		}
		b.WriteRune(r)
	}
	query = b.String()

	query = whitespaceRegex.ReplaceAllString(query, " ")
	query = strings.TrimSpace(query)

	if len(query) > s.maxLength {
		query = query[:s.maxLength]
	}
	return query
}

func isZeroWidth(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\ufeff':
		return true
	}
	return false
}
