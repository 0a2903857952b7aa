package ranking

import (
	"sort"

	"github.com/riskibarqy/pingpong-club/internal/domain/player"
)

// Dense ranks values that are already sorted best-first. Equal neighbours
// share a rank; a new value takes its 1-based position, so
// [10 10 7 5 5 5] ranks as [1 1 3 4 4 4].
func Dense(sorted []float64) []int {
	ranks := make([]int, len(sorted))
	for i, v := range sorted {
		if i > 0 && v == sorted[i-1] {
			ranks[i] = ranks[i-1]
			continue
		}
		ranks[i] = i + 1
	}
	return ranks
}

// Assign sorts players by category descending and returns the dense rank of
// each player id. Ties keep id order only to make the output deterministic.
func Assign(players []player.Player, c Category) map[int64]int {
	sorted := append([]player.Player(nil), players...)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi, vj := c.Value(sorted[i]), c.Value(sorted[j])
		if vi != vj {
			return vi > vj
		}
		return sorted[i].ID < sorted[j].ID
	})

	values := make([]float64, len(sorted))
	for i, p := range sorted {
		values[i] = c.Value(p)
	}
	ranks := Dense(values)

	out := make(map[int64]int, len(sorted))
	for i, p := range sorted {
		out[p.ID] = ranks[i]
	}
	return out
}

// Recompute returns fresh orders for every player across the group's
// categories. Categories outside the group keep their stored value.
func Recompute(players []player.Player, group Group) map[int64]player.Orders {
	out := make(map[int64]player.Orders, len(players))
	for _, p := range players {
		out[p.ID] = p.Orders
	}
	for _, c := range group.Categories() {
		for id, rank := range Assign(players, c) {
			orders := out[id]
			c.SetOrder(&orders, rank)
			out[id] = orders
		}
	}
	return out
}
