package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/pingpong-club/internal/domain/account"
	"github.com/riskibarqy/pingpong-club/internal/domain/betting"
	"github.com/riskibarqy/pingpong-club/internal/domain/division"
	"github.com/riskibarqy/pingpong-club/internal/domain/league"
	"github.com/riskibarqy/pingpong-club/internal/domain/match"
	"github.com/riskibarqy/pingpong-club/internal/domain/partner"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/domain/pointlog"
	"github.com/riskibarqy/pingpong-club/internal/domain/tournament"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

// repositories binds every repository to one queryer, either the pool or an
// open transaction.
type repositories struct {
	q queryer
}

func (r repositories) Players() player.Repository         { return &PlayerRepository{q: r.q} }
func (r repositories) Matches() match.Repository          { return &MatchRepository{q: r.q} }
func (r repositories) PointLogs() pointlog.Repository     { return &PointLogRepository{q: r.q} }
func (r repositories) Bettings() betting.Repository       { return &BettingRepository{q: r.q} }
func (r repositories) Partners() partner.Repository       { return &PartnerRepository{q: r.q} }
func (r repositories) Leagues() league.Repository         { return &LeagueRepository{q: r.q} }
func (r repositories) Tournaments() tournament.Repository { return &TournamentRepository{q: r.q} }
func (r repositories) UpdateLogs() division.Repository    { return &UpdateLogRepository{q: r.q} }
func (r repositories) Users() account.Repository          { return &UserRepository{q: r.q} }

// Store runs repositories against PostgreSQL.
type Store struct {
	repositories
	db *sqlx.DB
}

var _ usecase.Store = (*Store)(nil)

func NewStore(db *sqlx.DB) *Store {
	return &Store{repositories: repositories{q: db}, db: db}
}

// WithinTx runs fn in a read-committed transaction. Any error from fn or
// from commit rolls the transaction back.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos usecase.Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, repositories{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Ping checks the connection for health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
