package pointlog

import (
	"context"
	"time"
)

// Entry is one immutable change to a player's achievement or betting balance.
type Entry struct {
	ID           int64
	PlayerID     int64
	AchieveDelta int
	BettingDelta int
	Reason       string
	CreatedAt    time.Time
}

func (e Entry) IsZero() bool {
	return e.AchieveDelta == 0 && e.BettingDelta == 0
}

// Ledger reasons that other operations look up again later.
const (
	ReasonBettingDay        = "betting day bonus"
	ReasonBettingDayRevoked = "betting day bonus revoked"
	ReasonManual            = "manual adjustment"
)

// Repository describes point log persistence needs from use cases.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	ListByPlayer(ctx context.Context, playerID int64, limit int) ([]Entry, error)
	// ExistsBetween reports whether playerID has an entry with reason in [from, to).
	ExistsBetween(ctx context.Context, playerID int64, reason string, from, to time.Time) (bool, error)
	DeleteByPlayer(ctx context.Context, playerID int64) error
}
