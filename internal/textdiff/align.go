// Package textdiff computes word-level edit scripts between an original text
// and a corrected candidate. It is the basis for both the token cost model
// and the per-word highlight structure handed to the rendering layer.
//
// Matching follows difflib SequenceMatcher semantics: greedy matching of the
// longest matching block, applied recursively to the gaps, with ties broken
// toward the earliest block. The tie-break decides both the billed cost and
// which spans get blamed for a change, so the engine wraps
// pmezard/go-difflib rather than a minimal-edit-distance implementation.
package textdiff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Tag classifies a single edit operation.
type Tag int

const (
	Equal Tag = iota
	Replace
	Insert
	Delete
)

func (t Tag) String() string {
	switch t {
	case Equal:
		return "equal"
	case Replace:
		return "replace"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Op is one edit operation covering original words [O1:O2) and candidate
// words [C1:C2).
type Op struct {
	Tag        Tag
	O1, O2 int
	C1, C2 int
}

// Align produces the ordered edit script between two word sequences.
// Aligning a sequence against itself yields a single Equal op spanning
// the whole sequence.
func Align(orig, cand []string) []Op {
	m := difflib.NewMatcher(orig, cand)
	codes := m.GetOpCodes()
	ops := make([]Op, 0, len(codes))
	for _, c := range codes {
		var tag Tag
		switch c.Tag {
		case 'e':
			tag = Equal
		case 'r':
			tag = Replace
		case 'i':
			tag = Insert
		case 'd':
			tag = Delete
		default:
			continue
		}
		ops = append(ops, Op{Tag: tag, O1: c.I1, O2: c.I2, C1: c.J1, C2: c.J2})
	}
	return ops
}

// LinePair holds the word sequences of one original/candidate line pair.
type LinePair struct {
	Orig []string
	Cand []string
}

// Segment splits both texts into blank-line-delimited paragraphs and then
// into lines, pairing them positionally. Alignment runs independently per
// line: this bounds diff cost and avoids spurious cross-line matches. When
// paragraph or line counts differ, only the overlapping prefix is paired;
// trailing unmatched lines are dropped, never an error.
func Segment(orig, cand string) []LinePair {
	origParas := splitParagraphs(orig)
	candParas := splitParagraphs(cand)

	var pairs []LinePair
	for p := 0; p < len(origParas) && p < len(candParas); p++ {
		origLines := strings.Split(origParas[p], "\n")
		candLines := strings.Split(candParas[p], "\n")
		for l := 0; l < len(origLines) && l < len(candLines); l++ {
			pairs = append(pairs, LinePair{
				Orig: strings.Fields(origLines[l]),
				Cand: strings.Fields(candLines[l]),
			})
		}
	}
	return pairs
}

func splitParagraphs(text string) []string {
	return strings.Split(strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n")), "\n\n")
}

// Span is one element of the highlight structure consumed by the rendering
// layer. Changed spans carry the original text they replaced; the core never
// renders markup itself.
type Span struct {
	Text     string `json:"text"`
	Changed  bool   `json:"changed"`
	Original string `json:"original,omitempty"`
}

// Highlight aligns the corrected text against the original line by line and
// returns the flat span sequence, with "\n" spans between lines of one
// paragraph and "\n\n" spans between paragraphs.
func Highlight(orig, cand string) []Span {
	pairs := Segment(orig, cand)

	// Recover paragraph boundaries so break spans can be emitted.
	origParas := splitParagraphs(orig)
	candParas := splitParagraphs(cand)
	nParas := min(len(origParas), len(candParas))

	var spans []Span
	idx := 0
	for p := 0; p < nParas; p++ {
		if p > 0 {
			spans = append(spans, Span{Text: "\n\n"})
		}
		nLines := min(
			len(strings.Split(origParas[p], "\n")),
			len(strings.Split(candParas[p], "\n")),
		)
		for l := 0; l < nLines; l++ {
			if l > 0 {
				spans = append(spans, Span{Text: "\n"})
			}
			pair := pairs[idx]
			idx++
			for _, op := range Align(pair.Orig, pair.Cand) {
				switch op.Tag {
				case Equal:
					spans = append(spans, Span{
						Text: strings.Join(pair.Cand[op.C1:op.C2], " "),
					})
				default:
					spans = append(spans, Span{
						Text:     strings.Join(pair.Cand[op.C1:op.C2], " "),
						Changed:  true,
						Original: strings.Join(pair.Orig[op.O1:op.O2], " "),
					})
				}
			}
		}
	}
	return spans
}
