package models

// TokenBalance tracks spendable and consumed tokens for one account.
// Available never goes below zero; Used only grows.
type TokenBalance struct {
	ClientID  string
	Available int64
	Used      int64
}
