package utils

import (
	"strconv"
	"strings"
	"unicode"
)

// minTokenLen drops single-char noise like "a" or stray punctuation runs.
const minTokenLen = 2

// Tokenize splits text into lowercase alphanumeric runs.
// Anything shorter than two runes is discarded.
func Tokenize(text string) []string {
	var tokens []string
	var b strings.Builder

	flush := func() {
		if b.Len() > 0 {
			tok := b.String()
			if len([]rune(tok)) >= minTokenLen {
				tokens = append(tokens, tok)
			}
			b.Reset()
		}
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// UniqueTokens tokenizes text and removes duplicates, keeping first-seen order.
func UniqueTokens(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range Tokenize(text) {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// ContainsFold reports whether s contains substr, case-insensitively.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// HasPrefixFold reports whether s starts with prefix, case-insensitively.
func HasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}

// EqualsFold is a tiny alias so call sites read uniformly with the
// other fold helpers.
func EqualsFold(a, b string) bool {
	return strings.EqualFold(a, b)
}

// FormatWithCommas renders n with thousands separators for log output.
func FormatWithCommas(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
