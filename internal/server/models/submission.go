package models

import "time"

// Submission is one completed correction kept for account history.
// HasGrammarError records whether the final text differs from the original.
type Submission struct {
	ID              int64
	ClientID        string
	OriginalText    string
	CorrectedText   string
	HasGrammarError bool
	TokensCharged   int64
	CreatedAt       time.Time
}
