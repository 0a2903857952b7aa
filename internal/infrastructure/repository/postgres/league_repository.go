package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/riskibarqy/pingpong-club/internal/domain/league"
	qb "github.com/riskibarqy/pingpong-club/internal/platform/querybuilder"
)

// LeagueRepository keeps the roster in leagues and one row per decided cell
// in league_results. A unique index on the unordered slot pair makes a second
// result for the same pairing impossible.
type LeagueRepository struct {
	q queryer
}

func leagueSelect() *qb.SelectBuilder {
	return qb.Select(qb.ColumnsOf(leagueTableModel{})...).From("leagues")
}

func (r *LeagueRepository) Get(ctx context.Context, id int64) (league.League, bool, error) {
	query, args, err := leagueSelect().Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	results, err := r.results(ctx, []int64{id})
	if err != nil {
		return league.League{}, false, err
	}
	return leagueFromRow(row, results[id]), true, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := leagueSelect().OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	results, err := r.results(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row, results[row.ID]))
	}
	return out, nil
}

func (r *LeagueRepository) results(ctx context.Context, leagueIDs []int64) (map[int64][]leagueResultTableModel, error) {
	query, args, err := qb.Select(qb.ColumnsOf(leagueResultTableModel{})...).
		From("league_results").
		Where(qb.Any("league_id", pq.Array(leagueIDs))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league results query: %w", err)
	}

	var rows []leagueResultTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list league results: %w", err)
	}
	out := make(map[int64][]leagueResultTableModel, len(leagueIDs))
	for _, row := range rows {
		out[row.LeagueID] = append(out[row.LeagueID], row)
	}
	return out, nil
}

func (r *LeagueRepository) Count(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("leagues").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count leagues query: %w", err)
	}
	var n int
	if err := r.q.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count leagues: %w", err)
	}
	return n, nil
}

func (r *LeagueRepository) Create(ctx context.Context, l *league.League) error {
	row := leagueTableModel{
		Name:      l.Name,
		Players:   pq.StringArray(l.Players[:]),
		CreatedAt: l.CreatedAt,
	}
	query, args, err := qb.InsertModel("leagues", row, "RETURNING id", "id")
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}
	if err := r.q.GetContext(ctx, &l.ID, query, args...); err != nil {
		return fmt.Errorf("insert league: %w", err)
	}
	for _, c := range l.Results.Cells() {
		if _, err := r.InsertResult(ctx, l.ID, c); err != nil {
			return err
		}
	}
	return nil
}

// InsertResult reports false when the pairing already has a result in either
// direction.
func (r *LeagueRepository) InsertResult(ctx context.Context, leagueID int64, c league.Cell) (bool, error) {
	query, args, err := qb.InsertInto("league_results").
		Columns("league_id", "winner_slot", "loser_slot").
		Values(leagueID, c.Winner, c.Loser).
		Suffix("ON CONFLICT DO NOTHING").
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build insert league result query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert league result: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("insert league result rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *LeagueRepository) DeleteResult(ctx context.Context, leagueID int64, c league.Cell) (bool, error) {
	query, args, err := qb.DeleteFrom("league_results").
		Where(qb.Eq("league_id", leagueID), qb.Eq("winner_slot", c.Winner), qb.Eq("loser_slot", c.Loser)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete league result query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete league result: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("delete league result rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *LeagueRepository) ReplaceResults(ctx context.Context, leagueID int64, results league.Results) error {
	query, args, err := qb.DeleteFrom("league_results").Where(qb.Eq("league_id", leagueID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build clear league results query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear league results: %w", err)
	}
	for _, c := range results.Cells() {
		inserted, err := r.InsertResult(ctx, leagueID, c)
		if err != nil {
			return err
		}
		if !inserted {
			return fmt.Errorf("league=%d has both directions of slots %d and %d", leagueID, c.Winner, c.Loser)
		}
	}
	return nil
}

func (r *LeagueRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query, args, err := qb.DeleteFrom("league_results").Where(qb.Eq("league_id", id)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete league results query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("delete league results: %w", err)
	}

	query, args, err = qb.DeleteFrom("leagues").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete league query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete league: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("delete league rows affected: %w", err)
	}
	return n == 1, nil
}
