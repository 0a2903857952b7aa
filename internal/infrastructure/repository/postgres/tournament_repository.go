package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/pingpong-club/internal/domain/tournament"
	qb "github.com/riskibarqy/pingpong-club/internal/platform/querybuilder"
)

type tournamentTableModel struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Status    string    `db:"status"`
	Bracket   []byte    `db:"bracket"`
	CreatedAt time.Time `db:"created_at"`
}

func tournamentFromRow(row tournamentTableModel) (tournament.Tournament, error) {
	out := tournament.Tournament{
		ID:        row.ID,
		Title:     row.Title,
		Status:    tournament.Status(row.Status),
		CreatedAt: row.CreatedAt,
	}
	if len(row.Bracket) > 0 {
		if err := sonic.Unmarshal(row.Bracket, &out.Bracket); err != nil {
			return tournament.Tournament{}, fmt.Errorf("decode bracket tournament=%d: %w", row.ID, err)
		}
	}
	return out, nil
}

// TournamentRepository stores the whole bracket as one JSONB document.
type TournamentRepository struct {
	q queryer
}

func tournamentSelect() *qb.SelectBuilder {
	return qb.Select(qb.ColumnsOf(tournamentTableModel{})...).From("tournaments")
}

func (r *TournamentRepository) Get(ctx context.Context, id int64) (tournament.Tournament, bool, error) {
	query, args, err := tournamentSelect().Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build get tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get tournament: %w", err)
	}
	out, err := tournamentFromRow(row)
	if err != nil {
		return tournament.Tournament{}, false, err
	}
	return out, true, nil
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	query, args, err := tournamentSelect().OrderBy("created_at DESC", "id DESC").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		item, err := tournamentFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *TournamentRepository) Create(ctx context.Context, t *tournament.Tournament) error {
	bracket, err := sonic.Marshal(t.Bracket)
	if err != nil {
		return fmt.Errorf("encode bracket: %w", err)
	}
	row := tournamentTableModel{
		Title:     t.Title,
		Status:    string(t.Status),
		Bracket:   bracket,
		CreatedAt: t.CreatedAt,
	}
	query, args, err := qb.InsertModel("tournaments", row, "RETURNING id", "id")
	if err != nil {
		return fmt.Errorf("build insert tournament query: %w", err)
	}
	if err := r.q.GetContext(ctx, &t.ID, query, args...); err != nil {
		return fmt.Errorf("insert tournament: %w", err)
	}
	return nil
}

func (r *TournamentRepository) Update(ctx context.Context, t tournament.Tournament) error {
	bracket, err := sonic.Marshal(t.Bracket)
	if err != nil {
		return fmt.Errorf("encode bracket: %w", err)
	}
	query, args, err := qb.Update("tournaments").
		Set("title", t.Title).
		Set("status", string(t.Status)).
		Set("bracket", bracket).
		Where(qb.Eq("id", t.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update tournament query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update tournament: %w", err)
	}
	if n, err := rowsAffected(res); err != nil {
		return fmt.Errorf("update tournament rows affected: %w", err)
	} else if n == 0 {
		return fmt.Errorf("tournament=%d not found", t.ID)
	}
	return nil
}

func (r *TournamentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query, args, err := qb.DeleteFrom("tournaments").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete tournament query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete tournament: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("delete tournament rows affected: %w", err)
	}
	return n == 1, nil
}
