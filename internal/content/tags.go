package content

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeTag case-folds a tag for comparison.
func NormalizeTag(tag string) string {
	return cases.Fold().String(strings.TrimSpace(tag))
}

// TagSet is a set of normalized tags.
type TagSet map[string]struct{}

// NewTagSet folds every tag into a set, skipping blanks.
func NewTagSet(tags []string) TagSet {
	set := make(TagSet, len(tags))
	for _, t := range tags {
		if n := NormalizeTag(t); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Has reports whether tag (folded) is in the set.
func (s TagSet) Has(tag string) bool {
	_, ok := s[NormalizeTag(tag)]
	return ok
}

// Intersects reports whether any member of other is also in s.
func (s TagSet) Intersects(other TagSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for t := range small {
		if _, ok := large[t]; ok {
			return true
		}
	}
	return false
}

// AnyOf reports whether any of tags is in the set.
func (s TagSet) AnyOf(tags []string) bool {
	for _, t := range tags {
		if s.Has(t) {
			return true
		}
	}
	return false
}
