// Package guard screens submissions for instruction-like input before they
// reach the correction oracle. It is a cheap heuristic layered in front of
// the oracle's own system instruction, not a security boundary: long texts
// that merely mention a command phrase pass through and rely on the oracle
// contract instead.
package guard

import "strings"

// wordThreshold is the maximum length, in whitespace-delimited words, at
// which a text can still read as a bare command rather than prose.
const wordThreshold = 12

// commandPhrases are lowercase fragments that typically open or constitute
// prompt-injection attempts against a grammar corrector.
var commandPhrases = []string{
	"output only",
	"do not explain",
	"don't explain",
	"fix spelling",
	"correct the following",
	"ignore previous",
	"ignore all previous",
	"disregard the above",
	"you are now",
	"act as",
	"pretend to be",
	"respond with",
	"answer the question",
	"solve the equation",
	"solve this",
	"translate this",
	"write a",
	"give me",
	"repeat after me",
	"say the word",
	"system prompt",
}

// IsInstructionLike reports whether the text is short enough and
// command-shaped enough to be rejected before any oracle call or debit.
func IsInstructionLike(text string) bool {
	words := strings.Fields(text)
	if len(words) == 0 || len(words) >= wordThreshold {
		return false
	}

	lower := strings.ToLower(strings.Join(words, " "))
	for _, phrase := range commandPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
