package division

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/pingpong-club/internal/domain/player"
)

func regular(id int64, rate float64, matches int, rank int) player.Player {
	return player.Player{
		ID:         id,
		Name:       fmt.Sprintf("p%d", id),
		IsValid:    true,
		Gender:     player.GenderMale,
		Cohort:     player.CohortRegular,
		Rank:       player.IntPtr(rank),
		MatchCount: matches,
		RateCount:  rate,
	}
}

func TestAssign_BucketsByPosition(t *testing.T) {
	t.Parallel()

	// 34 ranked players: cutoffs 1, 4, 10, 18, 25, 30.
	players := make([]player.Player, 0, 36)
	for i := 1; i <= 34; i++ {
		players = append(players, regular(int64(i), float64(100-i), 10, 4))
	}
	players = append(players, regular(99, 100, 4, 4))

	rows := Assign(players)
	require.Len(t, rows, 34)

	want := map[int]int{1: 1, 2: 2, 4: 2, 5: 3, 10: 3, 11: 4, 18: 4, 19: 5, 25: 5, 26: 6, 30: 6, 31: 7, 34: 7}
	for position, division := range want {
		row := rows[position-1]
		require.Equal(t, division, *row.NewRank, "position %d", position)
	}
	require.Equal(t, player.MovementUp, rows[0].Movement)
	require.Equal(t, player.MovementNone, rows[10].Movement)
	require.Equal(t, player.MovementDown, rows[33].Movement)
}

func TestAssign_TieBreaksOnMatches(t *testing.T) {
	t.Parallel()

	rows := Assign([]player.Player{
		regular(1, 50, 6, 4),
		regular(2, 50, 9, 4),
	})
	require.Equal(t, int64(2), rows[0].PlayerID)
}

func TestAssign_HoldsYoungFreshmen(t *testing.T) {
	t.Parallel()

	fresh := regular(1, 90, 12, 8)
	fresh.Cohort = player.CohortFreshman
	veteran := regular(2, 10, 20, 0)

	rows := Assign([]player.Player{fresh, veteran})
	require.True(t, rows[0].Held)
	require.Equal(t, 8, *rows[0].NewRank)
	require.Equal(t, player.MovementNone, rows[0].Movement)

	require.Equal(t, Lowest, *rows[1].NewRank)
	require.Equal(t, player.MovementNew, rows[1].Movement)
}

func TestReverse_SkipsHeldRows(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{PlayerID: 1, PreviousRank: player.IntPtr(3), NewRank: player.IntPtr(2), Movement: player.MovementUp},
		{PlayerID: 2, PreviousRank: player.IntPtr(8), NewRank: player.IntPtr(8), Held: true},
	}
	back := Reverse(rows)
	require.Len(t, back, 1)
	require.Equal(t, 2, *back[0].PreviousRank)
	require.Equal(t, 3, *back[0].NewRank)
	require.Equal(t, player.MovementDown, back[0].Movement)
}

func TestRenderHTML_EscapesNames(t *testing.T) {
	t.Parallel()

	out := RenderHTML([]Row{{Name: "<b>kim</b>", NewRank: player.IntPtr(2), WinRate: 66.67, Movement: player.MovementNew}})
	require.Contains(t, out, "&lt;b&gt;kim&lt;/b&gt;")
	require.Contains(t, out, "66.67%")
	require.Contains(t, out, ">1 players<")
	require.Equal(t, 1, strings.Count(out, "<tbody>"))
}
