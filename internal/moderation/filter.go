// Package moderation masks blacklisted terms in corrected output and reports
// the distinct words that were masked so the caller can log them.
package moderation

import (
	"sort"
	"strings"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/common"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/textnorm"
)

// Result holds the moderated text and the set of distinct masked words, in
// their normalized blacklist form. MaskedWords is deduplicated: a word that
// appears five times in the output shows up here once.
type Result struct {
	Text        string
	MaskedWords []string
}

// Filter checks words against an approved blacklist. The zero set masks
// nothing. Lookup uses the same normalization (textnorm.Word) that is
// applied when a word enters the blacklist, so both sides always agree.
type Filter struct {
	approved map[string]struct{}
}

// NewFilter builds a Filter from the approved blacklist words. The input is
// normalized defensively; repository rows are expected to be normalized
// already.
func NewFilter(approved []string) *Filter {
	set := make(map[string]struct{}, len(approved))
	for _, w := range approved {
		if n := textnorm.Word(w); n != "" {
			set[n] = struct{}{}
		}
	}
	return &Filter{approved: set}
}

// Apply masks every word whose normalized form matches an approved entry,
// preserving line and paragraph structure. Masking is deterministic: the
// same input against the same blacklist always yields the same output and
// the same masked-word set.
func (f *Filter) Apply(text string) Result {
	if len(f.approved) == 0 {
		return Result{Text: text}
	}

	seen := make(map[string]struct{})
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		words := strings.Fields(line)
		hit := false
		for j, w := range words {
			n := textnorm.Word(w)
			if n == "" {
				continue
			}
			if _, ok := f.approved[n]; ok {
				words[j] = common.MaskToken
				seen[n] = struct{}{}
				hit = true
			}
		}
		if hit {
			lines[i] = strings.Join(words, " ")
		}
	}

	masked := make([]string, 0, len(seen))
	for w := range seen {
		masked = append(masked, w)
	}
	sort.Strings(masked)

	return Result{Text: strings.Join(lines, "\n"), MaskedWords: masked}
}
