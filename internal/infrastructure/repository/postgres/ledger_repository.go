package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/pingpong-club/internal/domain/partner"
	"github.com/riskibarqy/pingpong-club/internal/domain/pointlog"
	qb "github.com/riskibarqy/pingpong-club/internal/platform/querybuilder"
)

type pointLogTableModel struct {
	ID           int64     `db:"id"`
	PlayerID     int64     `db:"player_id"`
	AchieveDelta int       `db:"achieve_delta"`
	BettingDelta int       `db:"betting_delta"`
	Reason       string    `db:"reason"`
	CreatedAt    time.Time `db:"created_at"`
}

type PointLogRepository struct {
	q queryer
}

func (r *PointLogRepository) Append(ctx context.Context, entry *pointlog.Entry) error {
	row := pointLogTableModel{
		PlayerID:     entry.PlayerID,
		AchieveDelta: entry.AchieveDelta,
		BettingDelta: entry.BettingDelta,
		Reason:       entry.Reason,
		CreatedAt:    entry.CreatedAt,
	}
	query, args, err := qb.InsertModel("point_logs", row, "RETURNING id", "id")
	if err != nil {
		return fmt.Errorf("build insert point log query: %w", err)
	}
	if err := r.q.GetContext(ctx, &entry.ID, query, args...); err != nil {
		return fmt.Errorf("insert point log: %w", err)
	}
	return nil
}

func (r *PointLogRepository) ListByPlayer(ctx context.Context, playerID int64, limit int) ([]pointlog.Entry, error) {
	query, args, err := qb.Select(qb.ColumnsOf(pointLogTableModel{})...).
		From("point_logs").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list point logs query: %w", err)
	}

	var rows []pointLogTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list point logs: %w", err)
	}
	out := make([]pointlog.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, pointlog.Entry{
			ID:           row.ID,
			PlayerID:     row.PlayerID,
			AchieveDelta: row.AchieveDelta,
			BettingDelta: row.BettingDelta,
			Reason:       row.Reason,
			CreatedAt:    row.CreatedAt,
		})
	}
	return out, nil
}

func (r *PointLogRepository) ExistsBetween(ctx context.Context, playerID int64, reason string, from, to time.Time) (bool, error) {
	query, args, err := qb.Select("EXISTS (SELECT 1 FROM point_logs WHERE player_id = $1 AND reason = $2 AND created_at >= $3 AND created_at < $4)").
		From("(SELECT 1) AS one").
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build point log exists query: %w", err)
	}
	args = append(args, playerID, reason, from, to)

	var exists bool
	if err := r.q.GetContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("check point log exists: %w", err)
	}
	return exists, nil
}

func (r *PointLogRepository) DeleteByPlayer(ctx context.Context, playerID int64) error {
	query, args, err := qb.DeleteFrom("point_logs").Where(qb.Eq("player_id", playerID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete point logs query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete point logs: %w", err)
	}
	return nil
}

type pairingTableModel struct {
	ID        int64     `db:"id"`
	P1ID      int64     `db:"p1_id"`
	P1Name    string    `db:"p1_name"`
	P2ID      int64     `db:"p2_id"`
	P2Name    string    `db:"p2_name"`
	Submitted bool      `db:"submitted"`
	CreatedAt time.Time `db:"created_at"`
}

func pairingFromRow(row pairingTableModel) partner.Pairing {
	return partner.Pairing{
		ID:        row.ID,
		P1ID:      row.P1ID,
		P1Name:    row.P1Name,
		P2ID:      row.P2ID,
		P2Name:    row.P2Name,
		Submitted: row.Submitted,
		CreatedAt: row.CreatedAt,
	}
}

type PartnerRepository struct {
	q queryer
}

func pairingSelect() *qb.SelectBuilder {
	return qb.Select(qb.ColumnsOf(pairingTableModel{})...).From("pairings")
}

func (r *PartnerRepository) Create(ctx context.Context, p *partner.Pairing) error {
	row := pairingTableModel{
		P1ID:      p.P1ID,
		P1Name:    p.P1Name,
		P2ID:      p.P2ID,
		P2Name:    p.P2Name,
		Submitted: p.Submitted,
		CreatedAt: p.CreatedAt,
	}
	query, args, err := qb.InsertModel("pairings", row, "RETURNING id", "id")
	if err != nil {
		return fmt.Errorf("build insert pairing query: %w", err)
	}
	if err := r.q.GetContext(ctx, &p.ID, query, args...); err != nil {
		return fmt.Errorf("insert pairing: %w", err)
	}
	return nil
}

func (r *PartnerRepository) List(ctx context.Context) ([]partner.Pairing, error) {
	query, args, err := pairingSelect().OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pairings query: %w", err)
	}

	var rows []pairingTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pairings: %w", err)
	}
	out := make([]partner.Pairing, 0, len(rows))
	for _, row := range rows {
		out = append(out, pairingFromRow(row))
	}
	return out, nil
}

func (r *PartnerRepository) Latest(ctx context.Context, a, b int64, submitted *bool, from, to time.Time) (partner.Pairing, bool, error) {
	builder := pairingSelect().Where(
		qb.Or(
			qb.And(qb.Eq("p1_id", a), qb.Eq("p2_id", b)),
			qb.And(qb.Eq("p1_id", b), qb.Eq("p2_id", a)),
		),
		qb.Gte("created_at", from),
		qb.Lt("created_at", to),
	)
	if submitted != nil {
		builder.Where(qb.Eq("submitted", *submitted))
	}
	query, args, err := builder.OrderBy("created_at DESC", "id DESC").Limit(1).ToSQL()
	if err != nil {
		return partner.Pairing{}, false, fmt.Errorf("build latest pairing query: %w", err)
	}

	var row pairingTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return partner.Pairing{}, false, nil
		}
		return partner.Pairing{}, false, fmt.Errorf("get latest pairing: %w", err)
	}
	return pairingFromRow(row), true, nil
}

func (r *PartnerRepository) SetSubmitted(ctx context.Context, id int64, submitted bool) error {
	query, args, err := qb.Update("pairings").Set("submitted", submitted).Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build set pairing submitted query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set pairing submitted: %w", err)
	}
	return nil
}

func (r *PartnerRepository) DeleteAll(ctx context.Context) (int, error) {
	query, args, err := qb.DeleteFrom("pairings").Where(qb.Expr("TRUE")).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete pairings query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete pairings: %w", err)
	}
	return rowsAffected(res)
}

func (r *PartnerRepository) DeleteByPlayer(ctx context.Context, playerID int64) error {
	query, args, err := qb.DeleteFrom("pairings").
		Where(qb.Or(qb.Eq("p1_id", playerID), qb.Eq("p2_id", playerID))).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete pairings by player query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete pairings by player: %w", err)
	}
	return nil
}
