package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/pingpong-club/internal/domain/match"
	qb "github.com/riskibarqy/pingpong-club/internal/platform/querybuilder"
)

type matchTableModel struct {
	ID           int64     `db:"id"`
	WinnerID     int64     `db:"winner_id"`
	WinnerName   string    `db:"winner_name"`
	LoserID      int64     `db:"loser_id"`
	LoserName    string    `db:"loser_name"`
	Score        string    `db:"score"`
	PlayedAt     time.Time `db:"played_at"`
	Approved     bool      `db:"approved"`
	PartnerBonus bool      `db:"partner_bonus"`
	WeekdayBonus bool      `db:"weekday_bonus"`
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:         row.ID,
		WinnerID:   row.WinnerID,
		WinnerName: row.WinnerName,
		LoserID:    row.LoserID,
		LoserName:  row.LoserName,
		Score:      row.Score,
		PlayedAt:   row.PlayedAt,
		Approved:   row.Approved,
		Bonus:      match.AppliedBonus{Partner: row.PartnerBonus, Weekday: row.WeekdayBonus},
	}
}

type MatchRepository struct {
	q queryer
}

func matchSelect() *qb.SelectBuilder {
	return qb.Select(qb.ColumnsOf(matchTableModel{})...).From("matches")
}

func involves(playerID int64) qb.Condition {
	return qb.Or(qb.Eq("winner_id", playerID), qb.Eq("loser_id", playerID))
}

func (r *MatchRepository) Get(ctx context.Context, id int64) (match.Match, bool, error) {
	query, args, err := matchSelect().Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}
	return matchFromRow(row), true, nil
}

// List returns the newest matches first.
func (r *MatchRepository) List(ctx context.Context, filter match.ListFilter) ([]match.Match, error) {
	builder := matchSelect()
	if len(filter.IDs) > 0 {
		builder.Where(qb.Any("id", pq.Array(filter.IDs)))
	}
	if filter.Approved != nil {
		builder.Where(qb.Eq("approved", *filter.Approved))
	}
	if filter.PlayerID > 0 {
		builder.Where(involves(filter.PlayerID))
	}
	query, args, err := builder.OrderBy("played_at DESC", "id DESC").Limit(filter.Limit).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) Create(ctx context.Context, m *match.Match) error {
	row := matchTableModel{
		WinnerID:     m.WinnerID,
		WinnerName:   m.WinnerName,
		LoserID:      m.LoserID,
		LoserName:    m.LoserName,
		Score:        m.Score,
		PlayedAt:     m.PlayedAt,
		Approved:     m.Approved,
		PartnerBonus: m.Bonus.Partner,
		WeekdayBonus: m.Bonus.Weekday,
	}
	query, args, err := qb.InsertModel("matches", row, "RETURNING id", "id")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if err := r.q.GetContext(ctx, &m.ID, query, args...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

// MarkApproved flips a pending match. It reports false when the match is
// missing or already approved, so each match is applied once.
func (r *MatchRepository) MarkApproved(ctx context.Context, id int64, bonus match.AppliedBonus) (bool, error) {
	query, args, err := qb.Update("matches").
		Set("approved", true).
		Set("partner_bonus", bonus.Partner).
		Set("weekday_bonus", bonus.Weekday).
		Where(qb.Eq("id", id), qb.Eq("approved", false)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build approve match query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("approve match: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("approve match rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *MatchRepository) Delete(ctx context.Context, id int64, approved bool) (bool, error) {
	query, args, err := qb.DeleteFrom("matches").Where(qb.Eq("id", id), qb.Eq("approved", approved)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete match query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete match: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("delete match rows affected: %w", err)
	}
	return n == 1, nil
}

const countOpponentsQuery = `
SELECT COUNT(DISTINCT CASE WHEN winner_id = $1 THEN loser_id ELSE winner_id END)
FROM matches
WHERE approved AND (winner_id = $1 OR loser_id = $1)`

func (r *MatchRepository) CountOpponents(ctx context.Context, playerID int64) (int, error) {
	var n int
	if err := r.q.GetContext(ctx, &n, countOpponentsQuery, playerID); err != nil {
		return 0, fmt.Errorf("count opponents: %w", err)
	}
	return n, nil
}

func (r *MatchRepository) DeleteByPlayer(ctx context.Context, playerID int64) error {
	query, args, err := qb.DeleteFrom("matches").Where(involves(playerID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete matches by player query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete matches by player: %w", err)
	}
	return nil
}
