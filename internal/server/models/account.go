// Package models defines server-side data models persisted in the database.
package models

import "time"

// Tier is the service level of an account, stored as a single-letter code.
type Tier string

const (
	TierFree  Tier = "F"
	TierPaid  Tier = "P"
	TierSuper Tier = "S"
)

// Valid reports whether t is one of the known tier codes.
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierPaid, TierSuper:
		return true
	}
	return false
}

type Account struct {
	ClientID     string
	PasswordHash string
	Tier         Tier
	CreatedAt    time.Time
}
