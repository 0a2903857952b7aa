package betting

import (
	"context"
	"fmt"
	"time"
)

// Status is the derived lifecycle state of a Betting.
type Status string

const (
	StatusOpen      Status = "open"
	StatusClosed    Status = "closed"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
)

// Betting is a wager on a real match between two principals.
type Betting struct {
	ID            int64
	P1ID          int64
	P1Name        string
	P2ID          int64
	P2Name        string
	Point         int
	Closed        bool
	Submitted     bool
	Approved      bool
	ResultMatchID *int64
	// BettingDayPlayers lists who received the weekday bonus on approval.
	BettingDayPlayers []int64
	CreatedAt         time.Time
}

func (b Betting) Status() Status {
	switch {
	case b.Approved:
		return StatusApproved
	case b.Submitted:
		return StatusSubmitted
	case b.Closed:
		return StatusClosed
	default:
		return StatusOpen
	}
}

func (b Betting) IsPrincipal(playerID int64) bool {
	return playerID == b.P1ID || playerID == b.P2ID
}

// Other returns the principal facing playerID.
func (b Betting) Other(playerID int64) (int64, string, bool) {
	switch playerID {
	case b.P1ID:
		return b.P2ID, b.P2Name, true
	case b.P2ID:
		return b.P1ID, b.P1Name, true
	default:
		return 0, "", false
	}
}

func (b Betting) NameOf(playerID int64) string {
	switch playerID {
	case b.P1ID:
		return b.P1Name
	case b.P2ID:
		return b.P2Name
	default:
		return ""
	}
}

func (b Betting) Validate() error {
	if b.P1ID <= 0 || b.P2ID <= 0 {
		return fmt.Errorf("betting requires two players")
	}
	if b.P1ID == b.P2ID {
		return fmt.Errorf("betting players must be different")
	}
	if b.Point <= 0 {
		return fmt.Errorf("betting point must be greater than zero")
	}
	return nil
}

// Participant is a third-party prediction. A nil WinnerID means the guess
// has not been placed yet.
type Participant struct {
	ID         int64
	BettingID  int64
	PlayerID   int64
	PlayerName string
	WinnerID   *int64
}

// ListFilter narrows betting listings.
type ListFilter struct {
	IDs       []int64
	Approved  *bool
	Submitted *bool
	PlayerID  int64
}

// Repository describes betting persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, id int64) (Betting, bool, error)
	List(ctx context.Context, filter ListFilter) ([]Betting, error)
	Create(ctx context.Context, b *Betting) error
	Update(ctx context.Context, b Betting) error
	// MarkApproved flips an unapproved betting and stores the bonus recipients.
	// It returns false when the betting is missing or already approved.
	MarkApproved(ctx context.Context, id int64, bettingDayPlayers []int64) (bool, error)
	// Delete removes the betting only while its approved flag still equals
	// approved. It returns false when no row was removed.
	Delete(ctx context.Context, id int64, approved bool) (bool, error)
	ClearResults(ctx context.Context, matchIDs []int64) error
	ListByPrincipal(ctx context.Context, playerID int64) ([]Betting, error)

	ListParticipants(ctx context.Context, bettingID int64) ([]Participant, error)
	// UpsertParticipant inserts or updates the record of (betting, player).
	UpsertParticipant(ctx context.Context, p *Participant) error
	DeleteParticipants(ctx context.Context, bettingID int64, playerIDs []int64) (int, error)
	DeleteAllParticipants(ctx context.Context, bettingID int64) error
	// DeleteParticipantRowsFor removes rows where playerID is the bettor or the guess.
	DeleteParticipantRowsFor(ctx context.Context, playerID int64) error
}
