package models

import "time"

// Note is a free-form journal note, optionally attached to a trade.
type Note struct {
	ID        string
	TradeID   string
	Date      time.Time
	Content   string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
