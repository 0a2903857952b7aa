package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/riskibarqy/pingpong-club/internal/domain/account"
	qb "github.com/riskibarqy/pingpong-club/internal/platform/querybuilder"
)

type userTableModel struct {
	ID           int64         `db:"id"`
	Username     string        `db:"username"`
	PasswordHash string        `db:"password_hash"`
	IsAdmin      bool          `db:"is_admin"`
	PlayerID     sql.NullInt64 `db:"player_id"`
	CreatedAt    time.Time     `db:"created_at"`
}

func userFromRow(row userTableModel) account.User {
	return account.User{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		IsAdmin:      row.IsAdmin,
		PlayerID:     int64Ptr(row.PlayerID),
		CreatedAt:    row.CreatedAt,
	}
}

type UserRepository struct {
	q queryer
}

func userSelect() *qb.SelectBuilder {
	return qb.Select(qb.ColumnsOf(userTableModel{})...).From("users")
}

func (r *UserRepository) Get(ctx context.Context, id int64) (account.User, bool, error) {
	return r.getBy(ctx, qb.Eq("id", id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (account.User, bool, error) {
	return r.getBy(ctx, qb.Eq("username", account.NormalizeUsername(username)))
}

func (r *UserRepository) GetByPlayer(ctx context.Context, playerID int64) (account.User, bool, error) {
	return r.getBy(ctx, qb.Eq("player_id", playerID))
}

func (r *UserRepository) getBy(ctx context.Context, cond qb.Condition) (account.User, bool, error) {
	query, args, err := userSelect().Where(cond).Limit(1).ToSQL()
	if err != nil {
		return account.User{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return account.User{}, false, nil
		}
		return account.User{}, false, fmt.Errorf("get user: %w", err)
	}
	return userFromRow(row), true, nil
}

func (r *UserRepository) Create(ctx context.Context, u *account.User) error {
	row := userTableModel{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		PlayerID:     nullInt64(u.PlayerID),
		CreatedAt:    u.CreatedAt,
	}
	query, args, err := qb.InsertModel("users", row, "RETURNING id", "id")
	if err != nil {
		return fmt.Errorf("build insert user query: %w", err)
	}
	if err := r.q.GetContext(ctx, &u.ID, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username %q already exists: %w", u.Username, err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) (bool, error) {
	query, args, err := qb.Update("users").Set("password_hash", hash).Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update password query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update password: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("update password rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *UserRepository) DeleteByPlayer(ctx context.Context, playerID int64) error {
	query, args, err := qb.DeleteFrom("users").Where(qb.Eq("player_id", playerID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete users by player query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete users by player: %w", err)
	}
	return nil
}
