package partner

import (
	"context"
	"time"
)

// Pairing is an admin-assigned "today's partner" pair.
type Pairing struct {
	ID        int64
	P1ID      int64
	P1Name    string
	P2ID      int64
	P2Name    string
	Submitted bool
	CreatedAt time.Time
}

// Pair is a proposed pairing by name before it is saved.
type Pair struct {
	P1Name string `json:"p1_name"`
	P2Name string `json:"p2_name"`
}

// Propose pairs every newcomer with a veteran, cycling through the veterans.
func Propose(veterans, newcomers []string) []Pair {
	if len(veterans) == 0 {
		return nil
	}
	out := make([]Pair, 0, len(newcomers))
	for i, name := range newcomers {
		out = append(out, Pair{P1Name: veterans[i%len(veterans)], P2Name: name})
	}
	return out
}

// Repository describes pairing persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, p *Pairing) error
	List(ctx context.Context) ([]Pairing, error)
	// Latest returns the newest pairing of the two players in either order
	// created in [from, to), optionally filtered by its submitted flag.
	Latest(ctx context.Context, a, b int64, submitted *bool, from, to time.Time) (Pairing, bool, error)
	SetSubmitted(ctx context.Context, id int64, submitted bool) error
	DeleteAll(ctx context.Context) (int, error)
	DeleteByPlayer(ctx context.Context, playerID int64) error
}
