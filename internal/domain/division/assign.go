package division

import (
	"sort"

	"github.com/riskibarqy/pingpong-club/internal/domain/player"
)

const (
	// MinMatches is the approved match count needed to enter the update.
	MinMatches = 5
	// Lowest is the division given to everyone below the last boundary.
	Lowest = 7
	// FreshmanMatches is how many matches a freshman needs before being
	// re-bucketed.
	FreshmanMatches = 16
)

// Boundaries are cumulative fractions of the ranked field; boundary k marks
// the last position of division k+1.
var Boundaries = [...]float64{0.03, 0.13, 0.30, 0.55, 0.75, 0.90}

// Row is one player's line in an update.
type Row struct {
	PlayerID     int64           `json:"player_id"`
	Name         string          `json:"name"`
	PreviousRank *int            `json:"previous_rank"`
	NewRank      *int            `json:"new_rank"`
	WinRate      float64         `json:"win_rate"`
	Movement     player.Movement `json:"movement"`
	Held         bool            `json:"held,omitempty"`
}

// Sort orders candidates the way the update ranks them.
func Sort(players []player.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].RateCount != players[j].RateCount {
			return players[i].RateCount > players[j].RateCount
		}
		if players[i].MatchCount != players[j].MatchCount {
			return players[i].MatchCount > players[j].MatchCount
		}
		return players[i].ID < players[j].ID
	})
}

// Assign buckets players by position. Players below MinMatches are ignored.
// Freshmen short of FreshmanMatches keep their position in the field but
// hold their current division.
func Assign(players []player.Player) []Row {
	field := make([]player.Player, 0, len(players))
	for _, p := range players {
		if p.MatchCount >= MinMatches {
			field = append(field, p)
		}
	}
	Sort(field)

	total := len(field)
	var cutoffs [len(Boundaries)]int
	for k, fraction := range Boundaries {
		cutoffs[k] = int(float64(total) * fraction)
	}

	rows := make([]Row, 0, total)
	for i, p := range field {
		row := Row{
			PlayerID:     p.ID,
			Name:         p.Name,
			PreviousRank: copyRank(p.Rank),
			WinRate:      p.RateCount,
		}
		if p.IsFreshman() && p.MatchCount < FreshmanMatches {
			row.NewRank = copyRank(p.Rank)
			row.Held = true
		} else {
			row.NewRank = player.IntPtr(divisionAt(i+1, cutoffs[:]))
		}
		row.Movement = player.MovementOf(row.PreviousRank, row.NewRank)
		rows = append(rows, row)
	}
	return rows
}

func divisionAt(position int, cutoffs []int) int {
	for k, last := range cutoffs {
		if position <= last {
			return k + 1
		}
	}
	return Lowest
}

func copyRank(rank *int) *int {
	if rank == nil {
		return nil
	}
	return player.IntPtr(*rank)
}

// Reverse swaps previous and new ranks of rows for a revert log.
func Reverse(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.Held {
			continue
		}
		back := Row{
			PlayerID:     row.PlayerID,
			Name:         row.Name,
			PreviousRank: copyRank(row.NewRank),
			NewRank:      copyRank(row.PreviousRank),
			WinRate:      row.WinRate,
		}
		back.Movement = player.MovementOf(back.PreviousRank, back.NewRank)
		out = append(out, back)
	}
	return out
}
