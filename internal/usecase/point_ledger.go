package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/pingpong-club/internal/domain/match"
	"github.com/riskibarqy/pingpong-club/internal/domain/pointlog"
)

// PointLedger appends point log entries. It never reads balances; callers
// move the player's counters by the same delta in the same transaction.
type PointLedger struct {
	now func() time.Time
}

func NewPointLedger() *PointLedger {
	return &PointLedger{now: time.Now}
}

// Record appends entry. Entries with both deltas zero are dropped.
func (l *PointLedger) Record(ctx context.Context, repos Repositories, entry pointlog.Entry) error {
	if entry.IsZero() {
		return nil
	}
	if entry.PlayerID <= 0 {
		return fmt.Errorf("%w: point log player is required", ErrInvalidInput)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = l.now().UTC()
	}
	if err := repos.PointLogs().Append(ctx, &entry); err != nil {
		return fmt.Errorf("append point log player=%d: %w", entry.PlayerID, err)
	}
	return nil
}

// RecordCredits logs every credit of a rule pass for playerID.
func (l *PointLedger) RecordCredits(ctx context.Context, repos Repositories, playerID int64, credits []match.Credit) error {
	for _, c := range credits {
		entry := pointlog.Entry{
			PlayerID:     playerID,
			AchieveDelta: c.Achieve,
			BettingDelta: c.Betting,
			Reason:       c.Reason,
		}
		if err := l.Record(ctx, repos, entry); err != nil {
			return err
		}
	}
	return nil
}

// History lists the newest entries of a player.
func (l *PointLedger) History(ctx context.Context, repos Repositories, playerID int64, limit int) ([]pointlog.Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	entries, err := repos.PointLogs().ListByPlayer(ctx, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list point logs player=%d: %w", playerID, err)
	}
	return entries, nil
}
