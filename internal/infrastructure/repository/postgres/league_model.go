package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/pingpong-club/internal/domain/league"
)

type leagueTableModel struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	Players   pq.StringArray `db:"players"`
	CreatedAt time.Time      `db:"created_at"`
}

type leagueResultTableModel struct {
	LeagueID   int64 `db:"league_id"`
	WinnerSlot int   `db:"winner_slot"`
	LoserSlot  int   `db:"loser_slot"`
}

func leagueFromRow(row leagueTableModel, results []leagueResultTableModel) league.League {
	out := league.League{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt}
	copy(out.Players[:], row.Players)
	for _, r := range results {
		c := league.Cell{Winner: r.WinnerSlot, Loser: r.LoserSlot}
		if c.Winner >= 0 && c.Winner < league.Size && c.Loser >= 0 && c.Loser < league.Size && c.Winner != c.Loser {
			out.Results[c.Winner][c.Loser] = true
		}
	}
	return out
}
