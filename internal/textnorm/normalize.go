// Package textnorm normalizes user and oracle text before diffing so that
// cosmetic Unicode differences (curly quotes, long dashes, the ellipsis
// character) never count as billable edits.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// punctMap maps common "smart" punctuation variants to ASCII equivalents.
var punctMap = map[string]string{
	// quotes
	"‘": "'",   // left single quotation mark
	"’": "'",   // right single quotation mark
	"“": `"`,   // left double quotation mark
	"”": `"`,   // right double quotation mark
	"«": `"`,   // left-pointing guillemet
	"»": `"`,   // right-pointing guillemet

	// dashes
	"–": "-", // en dash
	"—": "-", // em dash

	// ellipsis
	"…": "...",

	// spaces
	" ": " ", // non-breaking space

	// bullets, daggers
	"•": "*",
	"†": "+",
}

var punctRe = func() *regexp.Regexp {
	keys := make([]string, 0, len(punctMap))
	for k := range punctMap {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	return regexp.MustCompile(strings.Join(keys, "|"))
}()

// nonWordRe strips everything except letters, digits and underscore.
var nonWordRe = regexp.MustCompile(`\W+`)

// Punctuation replaces known Unicode punctuation with ASCII equivalents and
// then applies Unicode compatibility normalization (NFKC) for the rest,
// e.g. the ligature "ﬁ" becomes "fi".
func Punctuation(text string) string {
	text = punctRe.ReplaceAllStringFunc(text, func(m string) string {
		return punctMap[m]
	})
	return norm.NFKC.String(text)
}

// Word reduces a single word to its canonical blacklist form: non-word
// characters removed, lowercased. The same function is applied when a word
// is suggested for the blacklist and when oracle output is moderated, so
// both sides always agree.
func Word(w string) string {
	return strings.ToLower(nonWordRe.ReplaceAllString(w, ""))
}
