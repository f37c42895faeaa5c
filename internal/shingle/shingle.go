package shingle

import (
	"regexp"
	"strings"
)

const (
	// ShortTextTokens is the token count below which the narrower shingle
	// width is used; short submissions need higher sensitivity.
	ShortTextTokens = 50

	ShortK   = 3
	DefaultK = 5
)

var wordFinder = regexp.MustCompile(`[a-z0-9']+`)

// Tokenize lower-cases the text and returns its word tokens.
func Tokenize(text string) []string {
	return wordFinder.FindAllString(strings.ToLower(text), -1)
}

// K returns the shingle width for a document of the given token count.
func K(tokenCount int) int {
	if tokenCount < ShortTextTokens {
		return ShortK
	}
	return DefaultK
}

// Set builds the set of space-joined k-word shingles for the text.
// Documents shorter than k tokens produce a single shingle of all tokens;
// empty text produces an empty set.
func Set(text string) map[string]struct{} {
	tokens := Tokenize(text)
	out := make(map[string]struct{})
	if len(tokens) == 0 {
		return out
	}
	k := K(len(tokens))
	if len(tokens) < k {
		out[strings.Join(tokens, " ")] = struct{}{}
		return out
	}
	for i := 0; i+k <= len(tokens); i++ {
		out[strings.Join(tokens[i:i+k], " ")] = struct{}{}
	}
	return out
}
