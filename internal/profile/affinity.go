package profile

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/danielpatrickdp/episode-engine/internal/content"
)

// #region extractor
// TagExtractor derives the affinity tag set used to bias selection toward
// episodes matching what the user does and likes.
type TagExtractor interface {
	Tags(p Profile) []string
}

// TagExtractorFunc adapts a plain function to TagExtractor.
type TagExtractorFunc func(p Profile) []string

// Tags calls f(p).
func (f TagExtractorFunc) Tags(p Profile) []string { return f(p) }

// #endregion extractor

// #region keyword-buckets
// Bucket expands a profession matching Pattern into extra tags.
type Bucket struct {
	Name    string
	Pattern *regexp.Regexp
	Tags    []string
}

// wordPattern matches any of words as a whole word. RE2's \b is ASCII-only,
// so boundaries are spelled out to work for Cyrillic professions too.
func wordPattern(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(?:` + strings.Join(quoted, "|") + `)(?:$|[^\p{L}\p{N}_])`)
}

// DefaultBuckets returns the built-in profession expansions.
func DefaultBuckets() []Bucket {
	return []Bucket{
		{
			Name: "tech",
			Pattern: wordPattern("dev", "developer", "engineer", "programmer", "coder", "it", "software",
				"программист", "инженер", "разработчик"),
			Tags: []string{"tech", "coding", "career"},
		},
		{
			Name: "creative",
			Pattern: wordPattern("design", "designer", "artist", "art", "illustrator", "musician", "music",
				"дизайнер", "дизайн", "художник", "музыкант"),
			Tags: []string{"creative", "social"},
		},
		{
			Name: "business",
			Pattern: wordPattern("marketing", "marketer", "sales", "pm", "manager", "product manager",
				"маркетолог", "маркетинг", "продажи", "менеджер"),
			Tags: []string{"career", "social"},
		},
	}
}

// #endregion keyword-buckets

// #region keyword-extractor
// KeywordExtractor tokenizes profession, hobbies and interests and adds the
// tags of every bucket whose pattern matches the profession.
type KeywordExtractor struct {
	Buckets []Bucket
}

// NewKeywordExtractor returns an extractor using DefaultBuckets.
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{Buckets: DefaultBuckets()}
}

// Tags returns the sorted, de-duplicated affinity tags for p.
func (k *KeywordExtractor) Tags(p Profile) []string {
	set := content.TagSet{}
	add := func(s string) {
		for _, tok := range Tokenize(s) {
			set[tok] = struct{}{}
		}
	}
	add(p.Profession)
	for _, h := range p.Hobbies {
		add(h)
	}
	for _, i := range p.Interests {
		add(i)
	}

	for _, b := range k.Buckets {
		if b.Pattern != nil && b.Pattern.MatchString(p.Profession) {
			for _, t := range b.Tags {
				set[content.NormalizeTag(t)] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Tokenize folds s and splits it on anything that is not a letter, digit or
// underscore.
func Tokenize(s string) []string {
	return strings.FieldsFunc(content.NormalizeTag(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// #endregion keyword-extractor
