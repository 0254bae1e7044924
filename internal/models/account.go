package models

import "strings"

// AccountStatus represents whether an account is currently traded.
type AccountStatus string

const (
	AccountActive   AccountStatus = "Active"
	AccountInactive AccountStatus = "Inactive"
)

// AccountType represents the kind of brokerage account.
type AccountType string

const (
	AccountLive   AccountType = "Live"
	AccountFunded AccountType = "Funded"
	AccountDemo   AccountType = "Demo"
)

// Account represents a brokerage account owning trade records.
type Account struct {
	ID             string
	Name           string
	InitialBalance float64
	Status         AccountStatus
	Type           AccountType
	Phase          string
}

// mainAccountMarker is the user convention for naming the primary account.
// Copies of a trade found on an account whose name carries this marker are
// preferred as group masters.
const mainAccountMarker = "hlavní"

// IsMain reports whether the account is the user's designated main account.
// The match is a case-insensitive substring test on the account name.
func (a *Account) IsMain() bool {
	return strings.Contains(strings.ToLower(a.Name), mainAccountMarker)
}
