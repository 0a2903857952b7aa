package tournament

import (
	"context"
	"time"
)

// Status is the tournament lifecycle state.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
)

// Tournament is a titled single-elimination bracket.
type Tournament struct {
	ID        int64
	Title     string
	Status    Status
	Bracket   Bracket
	CreatedAt time.Time
}

// Repository describes tournament persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, id int64) (Tournament, bool, error)
	List(ctx context.Context) ([]Tournament, error)
	Create(ctx context.Context, t *Tournament) error
	Update(ctx context.Context, t Tournament) error
	Delete(ctx context.Context, id int64) (bool, error)
}
