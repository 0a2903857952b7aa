package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/pingpong-club/internal/domain/partner"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

func TestPartnerService_ProposeSaveAndReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	for _, name := range []string{"kim", "lee", "park", "choi", "jung"} {
		env.addPlayer(t, name, player.GenderMale, player.CohortRegular)
	}
	svc := usecase.NewPartnerService(env.store, logging.NewNop())
	svc.SetClock(func() time.Time { return wednesday })

	_, err := svc.Propose(ctx, []string{" "}, []string{"park"})
	require.ErrorIs(t, err, usecase.ErrInvalidInput)

	pairs, err := svc.Propose(ctx, []string{"kim", "lee"}, []string{"park", " choi ", "jung"})
	require.NoError(t, err)
	require.Equal(t, []partner.Pair{
		{P1Name: "kim", P2Name: "park"},
		{P1Name: "lee", P2Name: "choi"},
		{P1Name: "kim", P2Name: "jung"},
	}, pairs)

	_, err = svc.Save(ctx, append(pairs, partner.Pair{P1Name: "kim", P2Name: "ghost"}))
	require.ErrorIs(t, err, usecase.ErrNotFound)
	saved, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, saved, "a rejected batch stores nothing")

	count, err := svc.Save(ctx, pairs)
	require.NoError(t, err)
	require.Equal(t, 3, count)
	saved, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 3)
	require.False(t, saved[0].Submitted)

	removed, err := svc.Reset(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, removed)
}
