// Package morse translates between Latin text and Morse code.
//
// Translation is lossy and never fails: characters and tokens that have
// no table entry become Placeholder.
package morse

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// Placeholder replaces anything the table does not know.
	Placeholder = "?"
	// WordSeparator is the code for the space character.
	WordSeparator = "/"

	tokenSep = " "
)

// Upper applies full Unicode uppercasing, which may change the number of
// runes: "ß" becomes "SS" and the ligature "ﬁ" becomes "FI".
func Upper(text string) string {
	// A Caser keeps state, so each call gets its own.
	return cases.Upper(language.Und).String(text)
}

// Encode converts text to space-separated Morse tokens, one per rune of
// Upper(text).
func Encode(text string) string {
	upper := Upper(text)
	tokens := make([]string, 0, len(upper))
	for _, r := range upper {
		code, ok := lookup(r)
		if !ok {
			code = Placeholder
		}
		tokens = append(tokens, code)
	}
	return strings.Join(tokens, tokenSep)
}

// Decode converts space-separated Morse tokens back to text. Every space
// delimits a token, so runs of spaces produce empty tokens, and those
// decode to Placeholder like any other unknown token. Decode("") is "?".
func Decode(code string) string {
	var b strings.Builder
	for _, tok := range strings.Split(code, tokenSep) {
		r, ok := reverseLookup(tok)
		if !ok {
			b.WriteString(Placeholder)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
