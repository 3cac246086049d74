package models

import "time"

// UpgradeRequest is a pending request to move an account to a higher tier.
// Requests are resolved by an administrator and then removed.
type UpgradeRequest struct {
	ID            int64
	ClientID      string
	RequestedTier Tier
	CreatedAt     time.Time
}
