// Package pricing converts text and alignments into token prices.
//
// Two distinct metrics coexist and must never be conflated: the literal
// word count of the raw submission prices the up-front LLM-correction
// charge, while the alignment-based edit cost prices the post-review
// "confirm edits" step and the self-correction flow.
package pricing

import (
	"strings"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/textdiff"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/textnorm"
)

// WordCount is the literal count of whitespace-delimited tokens in the raw
// submitted text. It prices the base per-submission LLM correction charge.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// EditCost aligns the normalized original against the normalized final text
// word by word, line by line, and sums the price of every non-Equal edit:
// a Delete costs the original-side words removed, a Replace or Insert costs
// the final-side words introduced. Cosmetic Unicode punctuation differences
// are erased by normalization before alignment and therefore cost nothing.
func EditCost(original, final string) int {
	original = textnorm.Punctuation(original)
	final = textnorm.Punctuation(final)

	cost := 0
	for _, pair := range textdiff.Segment(original, final) {
		for _, op := range textdiff.Align(pair.Orig, pair.Cand) {
			switch op.Tag {
			case textdiff.Delete:
				cost += op.O2 - op.O1
			case textdiff.Replace, textdiff.Insert:
				cost += op.C2 - op.C1
			}
		}
	}
	return cost
}

// SelfCorrectCost prices a self-correction at half the equivalent
// LLM-assisted edit cost, rounded up.
func SelfCorrectCost(original, final string) int {
	return (EditCost(original, final) + 1) / 2
}
