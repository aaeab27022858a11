package knowledge

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minKeywordLen is exclusive: only tokens longer than this gate relevance.
const minKeywordLen = 3

// ExtractKeywords normalizes a document text (strip non-word runes,
// lowercase, split on whitespace) and returns the tokens longer than
// three runes. Duplicates are kept; callers union into a set.
func ExtractKeywords(text string) []string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	words := strings.Fields(clean)
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) > minKeywordLen {
			keywords = append(keywords, w)
		}
	}
	return keywords
}
