package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// SearchFilters narrows a search to a speaker and/or a set of tags. Empty
// values mean "no constraint".
type SearchFilters struct {
	Speaker string
	Tags    []string
}

// IsZero reports whether no filter is set.
func (f SearchFilters) IsZero() bool {
	return f.Speaker == "" && len(f.Tags) == 0
}

var validFilterValueRegex = regexp.MustCompile(`^[\p{L}\p{N}\s\-_.,':]+$`)

// Validate checks filter values for size and character-set constraints before
// they reach the engine's filter clauses or the fallback scan.
func (f SearchFilters) Validate() error {
	if len(f.Tags) > 10 {
		return fmt.Errorf("too many filter tags: maximum 10 allowed, got %d", len(f.Tags))
	}

	if f.Speaker != "" {
		if err := validateFilterValue("speaker", f.Speaker); err != nil {
			return err
		}
	}

	for _, tag := range f.Tags {
		if err := validateFilterValue("tag", tag); err != nil {
			return err
		}
	}

	return nil
}

func validateFilterValue(kind, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("empty or whitespace-only %s not allowed", kind)
	}

	if len(value) > 100 {
		return fmt.Errorf("%s too long: maximum 100 characters, got %d", kind, len(value))
	}

	if !validFilterValueRegex.MatchString(value) {
		return fmt.Errorf("invalid characters in %s: %s", kind, value)
	}

	for _, r := range value {
		if unicode.IsControl(r) {
			return fmt.Errorf("control characters not allowed in %s: %s", kind, value)
		}
	}

	return nil
}
