package leverage

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Tokenize splits text into the same word units used for WordCount.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// normalizeTokens folds case, applies NFKC and strips surrounding punctuation
// so "Tablet," and "tablet" compare equal.
func normalizeTokens(tokens []string) []string {
	folder := cases.Fold()
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		t := norm.NFKC.String(tok)
		t = strings.TrimFunc(t, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		out[i] = folder.String(t)
	}
	return out
}
