// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"tradejournal/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Accounts
	SaveAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	GetAccounts(ctx context.Context, filter AccountFilter) ([]models.Account, error)

	// Trades
	SaveTrade(ctx context.Context, trade *models.Trade) error
	SaveTrades(ctx context.Context, trades []models.Trade) error
	GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error)
	DeleteTrade(ctx context.Context, accountID, id string) error

	// Notes
	SaveNote(ctx context.Context, note *models.Note) error
	GetNotes(ctx context.Context, filter NoteFilter) ([]models.Note, error)

	// Lifecycle
	Close() error
}

// TradeFilter represents filters for querying trades.
type TradeFilter struct {
	AccountID  string
	Instrument string
	Direction  string
	Status     string
	StartDate  time.Time
	EndDate    time.Time
	Limit      int
}

// AccountFilter represents filters for querying accounts.
type AccountFilter struct {
	Status string
	Type   string
}

// NoteFilter represents filters for querying notes.
type NoteFilter struct {
	TradeID   string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}
