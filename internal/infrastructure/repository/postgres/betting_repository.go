package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/pingpong-club/internal/domain/betting"
	qb "github.com/riskibarqy/pingpong-club/internal/platform/querybuilder"
)

type bettingTableModel struct {
	ID                int64         `db:"id"`
	P1ID              int64         `db:"p1_id"`
	P1Name            string        `db:"p1_name"`
	P2ID              int64         `db:"p2_id"`
	P2Name            string        `db:"p2_name"`
	Point             int           `db:"point"`
	Closed            bool          `db:"closed"`
	Submitted         bool          `db:"submitted"`
	Approved          bool          `db:"approved"`
	ResultMatchID     sql.NullInt64 `db:"result_match_id"`
	BettingDayPlayers pq.Int64Array `db:"betting_day_players"`
	CreatedAt         time.Time     `db:"created_at"`
}

type participantTableModel struct {
	ID         int64         `db:"id"`
	BettingID  int64         `db:"betting_id"`
	PlayerID   int64         `db:"player_id"`
	PlayerName string        `db:"player_name"`
	WinnerID   sql.NullInt64 `db:"winner_id"`
}

func bettingToRow(b betting.Betting) bettingTableModel {
	players := pq.Int64Array(b.BettingDayPlayers)
	if players == nil {
		players = pq.Int64Array{}
	}
	return bettingTableModel{
		ID:                b.ID,
		P1ID:              b.P1ID,
		P1Name:            b.P1Name,
		P2ID:              b.P2ID,
		P2Name:            b.P2Name,
		Point:             b.Point,
		Closed:            b.Closed,
		Submitted:         b.Submitted,
		Approved:          b.Approved,
		ResultMatchID:     nullInt64(b.ResultMatchID),
		BettingDayPlayers: players,
		CreatedAt:         b.CreatedAt,
	}
}

func bettingFromRow(row bettingTableModel) betting.Betting {
	var players []int64
	if len(row.BettingDayPlayers) > 0 {
		players = append(players, row.BettingDayPlayers...)
	}
	return betting.Betting{
		ID:                row.ID,
		P1ID:              row.P1ID,
		P1Name:            row.P1Name,
		P2ID:              row.P2ID,
		P2Name:            row.P2Name,
		Point:             row.Point,
		Closed:            row.Closed,
		Submitted:         row.Submitted,
		Approved:          row.Approved,
		ResultMatchID:     int64Ptr(row.ResultMatchID),
		BettingDayPlayers: players,
		CreatedAt:         row.CreatedAt,
	}
}

type BettingRepository struct {
	q queryer
}

func bettingSelect() *qb.SelectBuilder {
	return qb.Select(qb.ColumnsOf(bettingTableModel{})...).From("bettings")
}

func (r *BettingRepository) Get(ctx context.Context, id int64) (betting.Betting, bool, error) {
	query, args, err := bettingSelect().Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return betting.Betting{}, false, fmt.Errorf("build get betting query: %w", err)
	}

	var row bettingTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return betting.Betting{}, false, nil
		}
		return betting.Betting{}, false, fmt.Errorf("get betting: %w", err)
	}
	return bettingFromRow(row), true, nil
}

func (r *BettingRepository) List(ctx context.Context, filter betting.ListFilter) ([]betting.Betting, error) {
	builder := bettingSelect()
	if len(filter.IDs) > 0 {
		builder.Where(qb.Any("id", pq.Array(filter.IDs)))
	}
	if filter.Approved != nil {
		builder.Where(qb.Eq("approved", *filter.Approved))
	}
	if filter.Submitted != nil {
		builder.Where(qb.Eq("submitted", *filter.Submitted))
	}
	if filter.PlayerID > 0 {
		builder.Where(qb.Or(
			qb.Eq("p1_id", filter.PlayerID),
			qb.Eq("p2_id", filter.PlayerID),
			qb.Expr("EXISTS (SELECT 1 FROM betting_participants bp WHERE bp.betting_id = bettings.id AND bp.player_id = ?)", filter.PlayerID),
		))
	}
	query, args, err := builder.OrderBy("id DESC").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list bettings query: %w", err)
	}
	return r.selectBettings(ctx, query, args)
}

func (r *BettingRepository) ListByPrincipal(ctx context.Context, playerID int64) ([]betting.Betting, error) {
	query, args, err := bettingSelect().
		Where(qb.Or(qb.Eq("p1_id", playerID), qb.Eq("p2_id", playerID))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list bettings by principal query: %w", err)
	}
	return r.selectBettings(ctx, query, args)
}

func (r *BettingRepository) selectBettings(ctx context.Context, query string, args []any) ([]betting.Betting, error) {
	var rows []bettingTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list bettings: %w", err)
	}
	out := make([]betting.Betting, 0, len(rows))
	for _, row := range rows {
		out = append(out, bettingFromRow(row))
	}
	return out, nil
}

func (r *BettingRepository) Create(ctx context.Context, b *betting.Betting) error {
	query, args, err := qb.InsertModel("bettings", bettingToRow(*b), "RETURNING id", "id")
	if err != nil {
		return fmt.Errorf("build insert betting query: %w", err)
	}
	if err := r.q.GetContext(ctx, &b.ID, query, args...); err != nil {
		return fmt.Errorf("insert betting: %w", err)
	}
	return nil
}

func (r *BettingRepository) Update(ctx context.Context, b betting.Betting) error {
	row := bettingToRow(b)
	query, args, err := qb.Update("bettings").
		Set("point", row.Point).
		Set("closed", row.Closed).
		Set("submitted", row.Submitted).
		Set("approved", row.Approved).
		Set("result_match_id", row.ResultMatchID).
		Set("betting_day_players", row.BettingDayPlayers).
		Where(qb.Eq("id", b.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update betting query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update betting: %w", err)
	}
	if n, err := rowsAffected(res); err != nil {
		return fmt.Errorf("update betting rows affected: %w", err)
	} else if n == 0 {
		return fmt.Errorf("betting=%d not found", b.ID)
	}
	return nil
}

// MarkApproved settles a betting once; a second call reports false.
func (r *BettingRepository) MarkApproved(ctx context.Context, id int64, bettingDayPlayers []int64) (bool, error) {
	players := pq.Int64Array(bettingDayPlayers)
	if players == nil {
		players = pq.Int64Array{}
	}
	query, args, err := qb.Update("bettings").
		Set("approved", true).
		Set("betting_day_players", players).
		Where(qb.Eq("id", id), qb.Eq("approved", false)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build approve betting query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("approve betting: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("approve betting rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *BettingRepository) Delete(ctx context.Context, id int64, approved bool) (bool, error) {
	query, args, err := qb.DeleteFrom("bettings").Where(qb.Eq("id", id), qb.Eq("approved", approved)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete betting query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete betting: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("delete betting rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *BettingRepository) ClearResults(ctx context.Context, matchIDs []int64) error {
	if len(matchIDs) == 0 {
		return nil
	}
	query, args, err := qb.Update("bettings").
		Set("result_match_id", nil).
		Where(qb.Any("result_match_id", pq.Array(matchIDs))).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear betting results query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear betting results: %w", err)
	}
	return nil
}

func (r *BettingRepository) ListParticipants(ctx context.Context, bettingID int64) ([]betting.Participant, error) {
	query, args, err := qb.Select(qb.ColumnsOf(participantTableModel{})...).
		From("betting_participants").
		Where(qb.Eq("betting_id", bettingID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list participants query: %w", err)
	}

	var rows []participantTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	out := make([]betting.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, betting.Participant{
			ID:         row.ID,
			BettingID:  row.BettingID,
			PlayerID:   row.PlayerID,
			PlayerName: row.PlayerName,
			WinnerID:   int64Ptr(row.WinnerID),
		})
	}
	return out, nil
}

func (r *BettingRepository) UpsertParticipant(ctx context.Context, p *betting.Participant) error {
	row := participantTableModel{
		BettingID:  p.BettingID,
		PlayerID:   p.PlayerID,
		PlayerName: p.PlayerName,
		WinnerID:   nullInt64(p.WinnerID),
	}
	const suffix = `ON CONFLICT (betting_id, player_id) DO UPDATE SET
    player_name = EXCLUDED.player_name,
    winner_id = EXCLUDED.winner_id
RETURNING id`
	query, args, err := qb.InsertModel("betting_participants", row, suffix, "id")
	if err != nil {
		return fmt.Errorf("build upsert participant query: %w", err)
	}
	if err := r.q.GetContext(ctx, &p.ID, query, args...); err != nil {
		return fmt.Errorf("upsert participant: %w", err)
	}
	return nil
}

func (r *BettingRepository) DeleteParticipants(ctx context.Context, bettingID int64, playerIDs []int64) (int, error) {
	if len(playerIDs) == 0 {
		return 0, nil
	}
	query, args, err := qb.DeleteFrom("betting_participants").
		Where(qb.Eq("betting_id", bettingID), qb.Any("player_id", pq.Array(playerIDs))).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete participants query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete participants: %w", err)
	}
	return rowsAffected(res)
}

func (r *BettingRepository) DeleteAllParticipants(ctx context.Context, bettingID int64) error {
	query, args, err := qb.DeleteFrom("betting_participants").Where(qb.Eq("betting_id", bettingID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete all participants query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete all participants: %w", err)
	}
	return nil
}

// DeleteParticipantRowsFor removes rows where the player bet or was bet on.
func (r *BettingRepository) DeleteParticipantRowsFor(ctx context.Context, playerID int64) error {
	query, args, err := qb.DeleteFrom("betting_participants").
		Where(qb.Or(qb.Eq("player_id", playerID), qb.Eq("winner_id", playerID))).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete participant rows query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete participant rows: %w", err)
	}
	return nil
}
