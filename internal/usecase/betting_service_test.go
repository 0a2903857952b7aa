package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/pingpong-club/internal/domain/betting"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

type bettingFixture struct {
	env                  *testEnv
	kim, lee, park, choi player.Player
	b                    betting.Betting
}

func newBettingFixture(t *testing.T, env *testEnv) bettingFixture {
	t.Helper()

	ctx := context.Background()
	f := bettingFixture{env: env}
	f.kim = env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)
	f.lee = env.addPlayer(t, "lee", player.GenderFemale, player.CohortRegular)
	f.park = env.addPlayer(t, "park", player.GenderMale, player.CohortRegular)
	f.choi = env.addPlayer(t, "choi", player.GenderFemale, player.CohortRegular)

	b, err := env.bettings.Create(ctx, usecase.CreateBettingInput{
		P1ID:           f.kim.ID,
		P2ID:           f.lee.ID,
		Point:          10,
		ParticipantIDs: []int64{f.kim.ID, f.park.ID, f.choi.ID, 404},
	})
	require.NoError(t, err)
	f.b = b

	_, err = env.bettings.PlaceBet(ctx, f.park.ID, b.ID, f.kim.ID)
	require.NoError(t, err)
	_, err = env.bettings.PlaceBet(ctx, f.choi.ID, b.ID, f.lee.ID)
	require.NoError(t, err)
	return f
}

func TestBettingService_CreateSkipsPrincipalsAndUnknownIDs(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, wednesday)
	f := newBettingFixture(t, env)

	view, err := env.bettings.Get(context.Background(), f.b.ID)
	require.NoError(t, err)
	require.Len(t, view.Participants, 2)
	for _, p := range view.Participants {
		require.NotNil(t, p.WinnerID)
	}
}

func TestBettingService_PlaceBetRules(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	f := newBettingFixture(t, env)

	_, err := env.bettings.PlaceBet(ctx, f.kim.ID, f.b.ID, f.lee.ID)
	require.ErrorIs(t, err, usecase.ErrForbidden)

	_, err = env.bettings.PlaceBet(ctx, f.park.ID, f.b.ID, f.choi.ID)
	require.ErrorIs(t, err, usecase.ErrInvalidInput)

	// a second bet by the same player replaces the first
	_, err = env.bettings.PlaceBet(ctx, f.park.ID, f.b.ID, f.lee.ID)
	require.NoError(t, err)
	participants, err := env.store.Bettings().ListParticipants(ctx, f.b.ID)
	require.NoError(t, err)
	require.Len(t, participants, 2)

	_, err = env.bettings.ToggleClose(ctx, f.b.ID)
	require.NoError(t, err)
	_, err = env.bettings.PlaceBet(ctx, f.park.ID, f.b.ID, f.kim.ID)
	require.ErrorIs(t, err, usecase.ErrConflict)
}

func TestBettingService_SubmitPreviewMovesNoPoints(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	f := newBettingFixture(t, env)

	preview, err := env.bettings.SubmitResult(ctx, usecase.SubmitBettingResultInput{BettingID: f.b.ID, WinnerName: "kim", Score: "2:1"})
	require.NoError(t, err)
	require.Equal(t, "kim", preview.WinnerName)
	require.Equal(t, "lee", preview.LoserName)
	require.Equal(t, []string{"park"}, preview.WinParticipants)
	require.Equal(t, []string{"choi"}, preview.LoseParticipants)
	require.Equal(t, 20, preview.DistributedPoints)
	require.Equal(t, player.DefaultBettingPoints, env.player(t, f.kim.ID).BettingPoints)

	_, err = env.bettings.SubmitResult(ctx, usecase.SubmitBettingResultInput{BettingID: f.b.ID, WinnerName: "kim", Score: "2:1"})
	require.ErrorIs(t, err, usecase.ErrConflict)
}

func TestBettingService_ApproveOnBettingDayAndDeleteRestores(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, friday)
	f := newBettingFixture(t, env)

	_, err := env.bettings.SubmitResult(ctx, usecase.SubmitBettingResultInput{BettingID: f.b.ID, WinnerName: "kim", Score: "2:0"})
	require.NoError(t, err)

	got, err := env.bettings.Approve(ctx, []int64{f.b.ID})
	require.NoError(t, err)
	require.Equal(t, 1, got.Processed)

	// stake 10 each, pot 40, share 40/(1+1)=20, betting day +10
	require.Equal(t, 120, env.player(t, f.kim.ID).BettingPoints)
	require.Equal(t, 100, env.player(t, f.lee.ID).BettingPoints)
	require.Equal(t, 120, env.player(t, f.park.ID).BettingPoints)
	require.Equal(t, 100, env.player(t, f.choi.ID).BettingPoints)

	stored, _, err := env.store.Bettings().Get(ctx, f.b.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{f.kim.ID, f.lee.ID, f.park.ID, f.choi.ID}, stored.BettingDayPlayers)

	again, err := env.bettings.Approve(ctx, []int64{f.b.ID})
	require.NoError(t, err)
	require.Zero(t, again.Processed)

	deleted, err := env.bettings.Delete(ctx, []int64{f.b.ID})
	require.NoError(t, err)
	require.Equal(t, 1, deleted.Processed)
	for _, p := range []player.Player{f.kim, f.lee, f.park, f.choi} {
		require.Equal(t, player.DefaultBettingPoints, env.player(t, p.ID).BettingPoints, p.Name)
	}
	participants, err := env.store.Bettings().ListParticipants(ctx, f.b.ID)
	require.NoError(t, err)
	require.Empty(t, participants)
}

func TestBettingService_DeleteAfterResultMatchRemoved(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, friday)
	f := newBettingFixture(t, env)

	_, err := env.bettings.SubmitResult(ctx, usecase.SubmitBettingResultInput{BettingID: f.b.ID, WinnerName: "kim", Score: "2:0"})
	require.NoError(t, err)
	_, err = env.bettings.Approve(ctx, []int64{f.b.ID})
	require.NoError(t, err)

	stored, _, err := env.store.Bettings().Get(ctx, f.b.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResultMatchID)
	_, err = env.matches.Delete(ctx, []int64{*stored.ResultMatchID})
	require.NoError(t, err)

	before := map[int64]int{}
	for _, p := range []player.Player{f.kim, f.lee, f.park, f.choi} {
		before[p.ID] = env.player(t, p.ID).BettingPoints
	}

	got, err := env.bettings.Delete(ctx, []int64{f.b.ID})
	require.NoError(t, err)
	require.Equal(t, usecase.BettingBatchResult{Processed: 1, Unreversed: 1}, got)

	_, ok, err := env.store.Bettings().Get(ctx, f.b.ID)
	require.NoError(t, err)
	require.False(t, ok, "betting should be removed")
	participants, err := env.store.Bettings().ListParticipants(ctx, f.b.ID)
	require.NoError(t, err)
	require.Empty(t, participants)

	// the settlement stays, only the betting day bonus is taken back
	for _, p := range []player.Player{f.kim, f.lee, f.park, f.choi} {
		require.Equal(t, before[p.ID]-usecase.BettingDayBonus, env.player(t, p.ID).BettingPoints, p.Name)
	}
	require.Equal(t, 110, env.player(t, f.kim.ID).BettingPoints)

	again, err := env.bettings.Delete(ctx, []int64{f.b.ID})
	require.NoError(t, err)
	require.Zero(t, again.Processed)
}

func TestBettingService_BettingDayBonusOncePerDay(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, friday)
	f := newBettingFixture(t, env)

	second, err := env.bettings.Create(ctx, usecase.CreateBettingInput{P1ID: f.park.ID, P2ID: f.choi.ID, Point: 5})
	require.NoError(t, err)

	for _, item := range []struct {
		id     int64
		winner string
	}{{f.b.ID, "kim"}, {second.ID, "park"}} {
		_, err := env.bettings.SubmitResult(ctx, usecase.SubmitBettingResultInput{BettingID: item.id, WinnerName: item.winner, Score: "2:0"})
		require.NoError(t, err)
	}
	_, err = env.bettings.Approve(ctx, []int64{f.b.ID})
	require.NoError(t, err)
	_, err = env.bettings.Approve(ctx, []int64{second.ID})
	require.NoError(t, err)

	stored, _, err := env.store.Bettings().Get(ctx, second.ID)
	require.NoError(t, err)
	require.Empty(t, stored.BettingDayPlayers)
}

func TestBettingService_UpdateParticipantsKeepsSavedGuesses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	f := newBettingFixture(t, env)

	err := env.bettings.UpdateParticipants(ctx, f.b.ID, []usecase.ParticipantInput{
		{PlayerID: f.park.ID, WinnerID: &f.lee.ID},
	})
	if !errors.Is(err, usecase.ErrConflict) {
		t.Fatalf("expected conflict when changing a saved guess, got %v", err)
	}

	err = env.bettings.UpdateParticipants(ctx, f.b.ID, []usecase.ParticipantInput{
		{PlayerID: f.park.ID, WinnerID: &f.kim.ID},
	})
	require.NoError(t, err)
	participants, err := env.store.Bettings().ListParticipants(ctx, f.b.ID)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	require.Equal(t, f.park.ID, participants[0].PlayerID)
}
