package models

import "time"

// BlacklistStatus is the review state of a blacklist entry. Only approved
// entries participate in masking.
type BlacklistStatus string

const (
	BlacklistPending  BlacklistStatus = "pending"
	BlacklistApproved BlacklistStatus = "approved"
)

type BlacklistEntry struct {
	Word      string
	Status    BlacklistStatus
	CreatedAt time.Time
}

// CensorLogEntry records one masked word for one correction event. A word
// masked several times in the same text yields a single entry.
type CensorLogEntry struct {
	ID        int64
	ClientID  string
	Word      string
	CreatedAt time.Time
}
