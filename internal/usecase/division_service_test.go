package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/pingpong-club/internal/domain/division"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

type recordingNotifier struct {
	sent []usecase.Announcement
	err  error
}

func (n *recordingNotifier) Announce(_ context.Context, a usecase.Announcement) error {
	n.sent = append(n.sent, a)
	return n.err
}

// seedField adds ten players with five or more matches, best first.
func seedField(t *testing.T, env *testEnv) []player.Player {
	t.Helper()

	ctx := context.Background()
	out := make([]player.Player, 0, 10)
	for i := range 10 {
		p := env.addPlayer(t, fmt.Sprintf("p%02d", i), player.GenderMale, player.CohortRegular)
		p.MatchCount = 10
		p.WinCount = 10 - i
		p.LossCount = i
		p.RecomputeRate()
		require.NoError(t, env.store.Players().Update(ctx, p))
		out = append(out, p)
	}
	return out
}

func TestDivisionService_UpdateAndRevert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	field := seedField(t, env)
	freshman := env.addPlayer(t, "newbie", player.GenderFemale, player.CohortFreshman)
	freshman.MatchCount, freshman.WinCount = 6, 6
	freshman.RecomputeRate()
	require.NoError(t, env.store.Players().Update(ctx, freshman))

	notifier := &recordingNotifier{err: errors.New("webhook down")}
	svc := usecase.NewDivisionService(env.store, notifier, seoul, logging.NewNop(), env.recorder)
	svc.SetClock(func() time.Time { return wednesday })

	log, err := svc.Update(ctx)
	require.NoError(t, err, "announcement failures must not fail the update")
	require.Equal(t, division.KindUpdate, log.Kind)
	require.Equal(t, "Division update - 2026-10-14", log.Title)
	require.Len(t, log.Rows, 11)
	require.Len(t, notifier.sent, 1)
	require.True(t, strings.Contains(notifier.sent[0].HTML, "11 players"))
	require.Equal(t, 11, env.recorder.events["division_update"])

	require.Equal(t, 2, *env.player(t, field[0].ID).Rank)
	require.Equal(t, 7, *env.player(t, field[9].ID).Rank)
	require.Equal(t, 8, *env.player(t, freshman.ID).Rank, "short freshman keeps division")

	reverted, err := svc.RevertLatest(ctx)
	require.NoError(t, err)
	require.Equal(t, division.KindRevert, reverted.Kind)
	require.Len(t, reverted.Rows, 10)
	for _, p := range field {
		require.Equal(t, 4, *env.player(t, p.ID).Rank, p.Name)
	}

	logs, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
}

func TestDivisionService_UpdateNeedsEligiblePlayers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)
	svc := usecase.NewDivisionService(env.store, nil, seoul, logging.NewNop(), nil)

	_, err := svc.Update(ctx)
	require.ErrorIs(t, err, usecase.ErrInvalidInput)
	_, err = svc.RevertLatest(ctx)
	require.ErrorIs(t, err, usecase.ErrNotFound)
}
