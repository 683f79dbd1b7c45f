// Package text provides the bag-of-words tokenizer used to vectorize track
// metadata.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize lower-cases text, splits it on every rune that is not a letter,
// digit or underscore, and drops stop words and single-rune tokens.
// Token order is preserved and repeated tokens are kept.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	raw := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	var tokens []string
	for _, t := range raw {
		if utf8.RuneCountInString(t) < 2 || stopWords[t] {
			continue
		}
		tokens = append(tokens, t)
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// TermCounts returns raw occurrence counts per token.
func TermCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}
