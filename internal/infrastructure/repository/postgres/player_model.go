package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/pingpong-club/internal/domain/player"
)

type playerTableModel struct {
	ID            int64         `db:"id"`
	Name          string        `db:"name"`
	IsValid       bool          `db:"is_valid"`
	Gender        string        `db:"gender"`
	Cohort        string        `db:"cohort"`
	Rank          sql.NullInt32 `db:"rank"`
	MatchCount    int           `db:"match_count"`
	WinCount      int           `db:"win_count"`
	LossCount     int           `db:"loss_count"`
	RateCount     float64       `db:"rate_count"`
	OpponentCount int           `db:"opponent_count"`
	AchievePoints int           `db:"achieve_points"`
	BettingPoints int           `db:"betting_points"`
	WinOrder      sql.NullInt32 `db:"win_order"`
	LossOrder     sql.NullInt32 `db:"loss_order"`
	MatchOrder    sql.NullInt32 `db:"match_order"`
	RateOrder     sql.NullInt32 `db:"rate_order"`
	OpponentOrder sql.NullInt32 `db:"opponent_order"`
	AchieveOrder  sql.NullInt32 `db:"achieve_order"`
	BettingOrder  sql.NullInt32 `db:"betting_order"`
	CreatedAt     time.Time     `db:"created_at"`
}

func playerToRow(p player.Player) playerTableModel {
	return playerTableModel{
		ID:            p.ID,
		Name:          p.Name,
		IsValid:       p.IsValid,
		Gender:        string(p.Gender),
		Cohort:        string(p.Cohort),
		Rank:          nullInt(p.Rank),
		MatchCount:    p.MatchCount,
		WinCount:      p.WinCount,
		LossCount:     p.LossCount,
		RateCount:     p.RateCount,
		OpponentCount: p.OpponentCount,
		AchievePoints: p.AchievePoints,
		BettingPoints: p.BettingPoints,
		WinOrder:      nullInt(p.Orders.Win),
		LossOrder:     nullInt(p.Orders.Loss),
		MatchOrder:    nullInt(p.Orders.Match),
		RateOrder:     nullInt(p.Orders.Rate),
		OpponentOrder: nullInt(p.Orders.Opponent),
		AchieveOrder:  nullInt(p.Orders.Achieve),
		BettingOrder:  nullInt(p.Orders.Betting),
		CreatedAt:     p.CreatedAt,
	}
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:            row.ID,
		Name:          row.Name,
		IsValid:       row.IsValid,
		Gender:        player.Gender(row.Gender),
		Cohort:        player.Cohort(row.Cohort),
		Rank:          intPtr(row.Rank),
		MatchCount:    row.MatchCount,
		WinCount:      row.WinCount,
		LossCount:     row.LossCount,
		RateCount:     row.RateCount,
		OpponentCount: row.OpponentCount,
		AchievePoints: row.AchievePoints,
		BettingPoints: row.BettingPoints,
		Orders: player.Orders{
			Win:      intPtr(row.WinOrder),
			Loss:     intPtr(row.LossOrder),
			Match:    intPtr(row.MatchOrder),
			Rate:     intPtr(row.RateOrder),
			Opponent: intPtr(row.OpponentOrder),
			Achieve:  intPtr(row.AchieveOrder),
			Betting:  intPtr(row.BettingOrder),
		},
		CreatedAt: row.CreatedAt,
	}
}
