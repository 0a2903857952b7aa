package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/pingpong-club/internal/domain/division"
	qb "github.com/riskibarqy/pingpong-club/internal/platform/querybuilder"
)

type updateLogTableModel struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Kind      string    `db:"kind"`
	Rows      []byte    `db:"rows"`
	HTML      string    `db:"html"`
	CreatedAt time.Time `db:"created_at"`
}

func updateLogFromRow(row updateLogTableModel) (division.UpdateLog, error) {
	out := division.UpdateLog{
		ID:        row.ID,
		Title:     row.Title,
		Kind:      division.Kind(row.Kind),
		HTML:      row.HTML,
		CreatedAt: row.CreatedAt,
	}
	if len(row.Rows) > 0 {
		if err := sonic.Unmarshal(row.Rows, &out.Rows); err != nil {
			return division.UpdateLog{}, fmt.Errorf("decode update log rows id=%d: %w", row.ID, err)
		}
	}
	return out, nil
}

type UpdateLogRepository struct {
	q queryer
}

func updateLogSelect() *qb.SelectBuilder {
	return qb.Select(qb.ColumnsOf(updateLogTableModel{})...).From("division_update_logs")
}

func (r *UpdateLogRepository) Create(ctx context.Context, log *division.UpdateLog) error {
	rows, err := sonic.Marshal(log.Rows)
	if err != nil {
		return fmt.Errorf("encode update log rows: %w", err)
	}
	row := updateLogTableModel{
		Title:     log.Title,
		Kind:      string(log.Kind),
		Rows:      rows,
		HTML:      log.HTML,
		CreatedAt: log.CreatedAt,
	}
	query, args, err := qb.InsertModel("division_update_logs", row, "RETURNING id", "id")
	if err != nil {
		return fmt.Errorf("build insert update log query: %w", err)
	}
	if err := r.q.GetContext(ctx, &log.ID, query, args...); err != nil {
		return fmt.Errorf("insert update log: %w", err)
	}
	return nil
}

func (r *UpdateLogRepository) Get(ctx context.Context, id int64) (division.UpdateLog, bool, error) {
	query, args, err := updateLogSelect().Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return division.UpdateLog{}, false, fmt.Errorf("build get update log query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *UpdateLogRepository) Latest(ctx context.Context, kind division.Kind) (division.UpdateLog, bool, error) {
	query, args, err := updateLogSelect().
		Where(qb.Eq("kind", string(kind))).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return division.UpdateLog{}, false, fmt.Errorf("build latest update log query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *UpdateLogRepository) getOne(ctx context.Context, query string, args []any) (division.UpdateLog, bool, error) {
	var row updateLogTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return division.UpdateLog{}, false, nil
		}
		return division.UpdateLog{}, false, fmt.Errorf("get update log: %w", err)
	}
	out, err := updateLogFromRow(row)
	if err != nil {
		return division.UpdateLog{}, false, err
	}
	return out, true, nil
}

func (r *UpdateLogRepository) List(ctx context.Context, limit int) ([]division.UpdateLog, error) {
	query, args, err := updateLogSelect().OrderBy("created_at DESC", "id DESC").Limit(limit).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list update logs query: %w", err)
	}

	var rows []updateLogTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list update logs: %w", err)
	}
	out := make([]division.UpdateLog, 0, len(rows))
	for _, row := range rows {
		item, err := updateLogFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *UpdateLogRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query, args, err := qb.DeleteFrom("division_update_logs").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete update log query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete update log: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("delete update log rows affected: %w", err)
	}
	return n == 1, nil
}
