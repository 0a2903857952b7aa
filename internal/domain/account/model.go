package account

import (
	"context"
	"strings"
	"time"
)

// MinPasswordLength is the shortest password accepted on change or reset.
const MinPasswordLength = 4

// User is a login bound to at most one player.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsAdmin      bool
	PlayerID     *int64
	CreatedAt    time.Time
}

// Principal is the authenticated caller carried through a request.
type Principal struct {
	UserID   int64
	Username string
	IsAdmin  bool
	PlayerID *int64
}

func (u User) Principal() Principal {
	return Principal{UserID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin, PlayerID: u.PlayerID}
}

// NormalizeUsername trims surrounding whitespace. Usernames are case sensitive.
func NormalizeUsername(v string) string {
	return strings.TrimSpace(v)
}

// Repository describes account persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, id int64) (User, bool, error)
	GetByUsername(ctx context.Context, username string) (User, bool, error)
	GetByPlayer(ctx context.Context, playerID int64) (User, bool, error)
	Create(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id int64, hash string) (bool, error)
	DeleteByPlayer(ctx context.Context, playerID int64) error
}
