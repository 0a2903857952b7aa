package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	qb "github.com/riskibarqy/pingpong-club/internal/platform/querybuilder"
)

type PlayerRepository struct {
	q queryer
}

func playerSelect() *qb.SelectBuilder {
	return qb.Select(qb.ColumnsOf(playerTableModel{})...).From("players")
}

func (r *PlayerRepository) Get(ctx context.Context, id int64) (player.Player, bool, error) {
	query, args, err := playerSelect().Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}
	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) GetByName(ctx context.Context, name string) (player.Player, bool, error) {
	name = strings.TrimSpace(name)
	query, args, err := playerSelect().Where(qb.Eq("name", name)).ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by name query: %w", err)
	}

	var row playerTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.getByNameLiteral(ctx, name)
		}
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by name: %w", err)
	}
	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) getByNameLiteral(ctx context.Context, name string) (player.Player, bool, error) {
	query, args, err := playerSelect().Where(qb.EqLiteral("name", name)).ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by name literal fallback query: %w", err)
	}

	var row playerTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by name literal fallback: %w", err)
	}
	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) List(ctx context.Context, filter player.ListFilter) ([]player.Player, error) {
	builder := playerSelect()
	if filter.ValidOnly {
		builder.Where(qb.Eq("is_valid", true))
	}
	if filter.MinMatches > 0 {
		builder.Where(qb.Gte("match_count", filter.MinMatches))
	}
	if prefix := strings.TrimSpace(filter.NamePrefix); prefix != "" {
		builder.Where(qb.Expr("name LIKE ? || '%'", prefix))
	}
	if len(filter.IDs) > 0 {
		builder.Where(qb.Any("id", pq.Array(filter.IDs)))
	}
	if filter.OrderByRate {
		builder.OrderBy("rate_count DESC")
	}
	query, args, err := builder.OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) Create(ctx context.Context, p *player.Player) error {
	query, args, err := qb.InsertModel("players", playerToRow(*p), "RETURNING id", "id")
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}
	if err := r.q.GetContext(ctx, &p.ID, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("player name %q already exists: %w", p.Name, err)
		}
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

func (r *PlayerRepository) Update(ctx context.Context, p player.Player) error {
	row := playerToRow(p)
	query, args, err := qb.Update("players").
		Set("name", row.Name).
		Set("is_valid", row.IsValid).
		Set("gender", row.Gender).
		Set("cohort", row.Cohort).
		Set("rank", row.Rank).
		Set("match_count", row.MatchCount).
		Set("win_count", row.WinCount).
		Set("loss_count", row.LossCount).
		Set("rate_count", row.RateCount).
		Set("opponent_count", row.OpponentCount).
		Set("achieve_points", row.AchievePoints).
		Set("betting_points", row.BettingPoints).
		Where(qb.Eq("id", p.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	if n, err := rowsAffected(res); err != nil {
		return fmt.Errorf("update player rows affected: %w", err)
	} else if n == 0 {
		return fmt.Errorf("player=%d not found", p.ID)
	}
	return nil
}

func (r *PlayerRepository) UpdateOrders(ctx context.Context, playerID int64, orders player.Orders) error {
	query, args, err := qb.Update("players").
		Set("win_order", nullInt(orders.Win)).
		Set("loss_order", nullInt(orders.Loss)).
		Set("match_order", nullInt(orders.Match)).
		Set("rate_order", nullInt(orders.Rate)).
		Set("opponent_order", nullInt(orders.Opponent)).
		Set("achieve_order", nullInt(orders.Achieve)).
		Set("betting_order", nullInt(orders.Betting)).
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player orders query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update player orders: %w", err)
	}
	return nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := qb.DeleteFrom("players").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete player query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	return nil
}
