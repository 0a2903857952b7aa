package match

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Match is a played game between two players. It is created pending and
// approved at most once; rejection is deletion.
type Match struct {
	ID         int64
	WinnerID   int64
	WinnerName string
	LoserID    int64
	LoserName  string
	Score      string
	PlayedAt   time.Time
	Approved   bool
	Bonus      AppliedBonus
}

// AppliedBonus records the date-dependent bonuses granted on approval so
// that deleting the match takes back the same amounts.
type AppliedBonus struct {
	Partner bool
	Weekday bool
}

func (m Match) Validate() error {
	if m.WinnerID <= 0 || m.LoserID <= 0 {
		return fmt.Errorf("match players are required")
	}
	if m.WinnerID == m.LoserID {
		return fmt.Errorf("winner and loser must be different players")
	}
	if strings.TrimSpace(m.Score) == "" {
		return fmt.Errorf("match score is required")
	}
	return nil
}

// Involves reports whether playerID played in m.
func (m Match) Involves(playerID int64) bool {
	return m.WinnerID == playerID || m.LoserID == playerID
}

// Opponent returns the other side of m for playerID.
func (m Match) Opponent(playerID int64) int64 {
	if m.WinnerID == playerID {
		return m.LoserID
	}
	return m.WinnerID
}

// ListFilter narrows match listings. A nil Approved lists both states.
type ListFilter struct {
	IDs      []int64
	Approved *bool
	PlayerID int64
	Limit    int
}

// Repository describes match persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, id int64) (Match, bool, error)
	List(ctx context.Context, filter ListFilter) ([]Match, error)
	Create(ctx context.Context, m *Match) error
	// MarkApproved flips a pending match to approved and stores bonus with it.
	// It returns false when the match is missing or was already approved.
	MarkApproved(ctx context.Context, id int64, bonus AppliedBonus) (bool, error)
	// Delete removes the match only while its approved flag still equals
	// approved. It returns false when no row was removed.
	Delete(ctx context.Context, id int64, approved bool) (bool, error)
	// CountOpponents counts distinct opponents over approved matches.
	CountOpponents(ctx context.Context, playerID int64) (int, error)
	DeleteByPlayer(ctx context.Context, playerID int64) error
}
