package usecase

import (
	"context"

	"github.com/riskibarqy/pingpong-club/internal/domain/account"
	"github.com/riskibarqy/pingpong-club/internal/domain/betting"
	"github.com/riskibarqy/pingpong-club/internal/domain/division"
	"github.com/riskibarqy/pingpong-club/internal/domain/league"
	"github.com/riskibarqy/pingpong-club/internal/domain/match"
	"github.com/riskibarqy/pingpong-club/internal/domain/partner"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/domain/pointlog"
	"github.com/riskibarqy/pingpong-club/internal/domain/tournament"
)

// Repositories groups every repository bound to the same connection or
// transaction.
type Repositories interface {
	Players() player.Repository
	Matches() match.Repository
	PointLogs() pointlog.Repository
	Bettings() betting.Repository
	Partners() partner.Repository
	Leagues() league.Repository
	Tournaments() tournament.Repository
	UpdateLogs() division.Repository
	Users() account.Repository
}

// Store hands out repositories outside a transaction and runs fn inside one.
// A non-nil error from fn rolls every write back.
type Store interface {
	Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
