package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/pingpong-club/internal/domain/betting"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/domain/pointlog"
	"github.com/riskibarqy/pingpong-club/internal/domain/ranking"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

func TestPlayerService_RegisterSkipsExistingAndIncomplete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)

	added, err := env.players.Register(ctx, []usecase.RegisterPlayerInput{
		{Name: "kim", Gender: "M", Freshman: "N"},
		{Name: "lee", Gender: "F", Freshman: "N"},
		{Name: "park", Gender: "M", Freshman: "Y"},
		{Name: "choi", Gender: "", Freshman: "N"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, added)

	lee, ok, err := env.store.Players().GetByName(ctx, "lee")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 6, *lee.Rank)
	park, _, _ := env.store.Players().GetByName(ctx, "park")
	require.Equal(t, 8, *park.Rank)

	_, err = env.players.Register(ctx, []usecase.RegisterPlayerInput{{Name: "x", Gender: "Q", Freshman: "N"}})
	require.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestPlayerService_PointEditsAreLogged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	kim := env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)
	lee := env.addPlayer(t, "lee", player.GenderFemale, player.CohortRegular)

	achieve, bet := 12, 90
	updated, err := env.players.SetPoints(ctx, kim.ID, &achieve, &bet)
	require.NoError(t, err)
	require.Equal(t, 12, updated.AchievePoints)
	require.Equal(t, 90, updated.BettingPoints)

	changed, err := env.players.AddPoints(ctx, []int64{kim.ID, lee.ID, kim.ID}, 1, 5)
	require.NoError(t, err)
	require.Equal(t, 2, changed)

	logs, err := env.store.PointLogs().ListByPlayer(ctx, kim.ID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, pointlog.Entry{ID: logs[1].ID, PlayerID: kim.ID, AchieveDelta: 12, BettingDelta: -10, Reason: pointlog.ReasonManual, CreatedAt: logs[1].CreatedAt}, logs[1])

	got := env.player(t, kim.ID)
	require.Equal(t, 13, got.AchievePoints)
	require.Equal(t, 95, got.BettingPoints)
	require.Equal(t, 1, *got.Orders.Achieve)
	// lee has 105 betting points, kim 95
	require.Equal(t, 2, *got.Orders.Betting)

	_, err = env.players.SetRank(ctx, kim.ID, 9)
	require.ErrorIs(t, err, usecase.ErrInvalidInput)
	ranked, err := env.players.SetRank(ctx, kim.ID, 0)
	require.NoError(t, err)
	require.Equal(t, 0, *ranked.Rank)
}

func TestPlayerService_ToggleValidityRanksOnlyValidPlayers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	kim := env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)
	lee := env.addPlayer(t, "lee", player.GenderFemale, player.CohortRegular)
	env.approvedMatch(t, lee, kim)

	toggled, err := env.players.ToggleValidity(ctx, []int64{lee.ID})
	require.NoError(t, err)
	require.Equal(t, 1, toggled)
	got := env.player(t, kim.ID)
	require.Equal(t, 1, *got.Orders.Win)

	board, err := env.players.Leaderboard(ctx, ranking.CategoryWins, 10)
	require.NoError(t, err)
	require.Len(t, board, 1)
	require.Equal(t, "kim", board[0].Name)
}

func TestPlayerService_PurgeRemovesEveryReference(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	kim := env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)
	lee := env.addPlayer(t, "lee", player.GenderFemale, player.CohortRegular)
	park := env.addPlayer(t, "park", player.GenderMale, player.CohortRegular)
	env.approvedMatch(t, kim, lee)
	env.approvedMatch(t, park, lee)

	hosted, err := env.bettings.Create(ctx, usecase.CreateBettingInput{P1ID: kim.ID, P2ID: park.ID, Point: 5, ParticipantIDs: []int64{lee.ID}})
	require.NoError(t, err)
	other, err := env.bettings.Create(ctx, usecase.CreateBettingInput{P1ID: lee.ID, P2ID: park.ID, Point: 5, ParticipantIDs: []int64{kim.ID}})
	require.NoError(t, err)

	require.NoError(t, env.players.Purge(ctx, kim.ID))

	_, ok, err := env.store.Players().Get(ctx, kim.ID)
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, _ = env.store.Bettings().Get(ctx, hosted.ID)
	require.False(t, ok, "hosted betting should be removed")
	participants, err := env.store.Bettings().ListParticipants(ctx, other.ID)
	require.NoError(t, err)
	require.Empty(t, participants)
	remaining, err := env.store.Bettings().List(ctx, betting.ListFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)

	logs, err := env.store.PointLogs().ListByPlayer(ctx, kim.ID, 0)
	require.NoError(t, err)
	require.Empty(t, logs)

	// lee's stats are rebuilt without the purged match
	got := env.player(t, lee.ID)
	require.Equal(t, 1, got.MatchCount)
	require.Equal(t, 1, got.OpponentCount)

	require.True(t, errors.Is(env.players.Purge(ctx, kim.ID), usecase.ErrNotFound))
}

func TestPlayerService_SummaryAppendsViewerOutsideTop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	var last player.Player
	for i := range 7 {
		p := env.addPlayer(t, fmt.Sprintf("p%d", i), player.GenderMale, player.CohortRegular)
		p.WinCount = 10 - i
		p.MatchCount = p.WinCount
		p.BettingPoints = 100 + i
		require.NoError(t, env.store.Players().Update(ctx, p))
		last = p
	}
	require.NoError(t, env.ranking.RecomputeAll(ctx))

	boards, err := env.players.Summary(ctx, last.ID)
	require.NoError(t, err)
	require.Len(t, boards, len(usecase.SummaryCategories))

	wins := boards[0]
	require.Equal(t, ranking.CategoryWins, wins.Category)
	require.Len(t, wins.Entries, 5)
	require.Equal(t, "p0", wins.Entries[0].Name)
	require.NotNil(t, wins.Viewer)
	require.Equal(t, 7, wins.Viewer.Rank)

	bets := boards[3]
	require.Equal(t, ranking.CategoryBetting, bets.Category)
	require.Equal(t, "p6", bets.Entries[0].Name)
	require.Nil(t, bets.Viewer)
}
