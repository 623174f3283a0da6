package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize turns raw text into the canonical token sequence used for
// segmentation and catalog matching.
//
// Text is NFC-composed and lowercased, whitespace runs collapse to a single
// separator, and every rune that is neither a letter, a number nor whitespace
// is dropped without splitting the word it sits in ("rock'n'roll" becomes
// "rocknroll").
func Normalize(text string) []string {
	if text == "" {
		return []string{}
	}

	var b strings.Builder
	b.Grow(len(text))

	for _, r := range norm.NFC.String(text) {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(unicode.ToLower(r))
		}
	}

	// Fields drops the empty chunks left where punctuation stood alone
	// between two spaces ("a - b").
	tokens := strings.Fields(b.String())
	if tokens == nil {
		return []string{}
	}
	return tokens
}

// Join renders tokens as a phrase separated by single spaces.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}

// Canonical returns the normalized phrase form of text. Catalog titles are
// compared against query phrases in this form.
func Canonical(text string) string {
	return Join(Normalize(text))
}
