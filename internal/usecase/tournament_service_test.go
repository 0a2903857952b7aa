package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/pingpong-club/internal/domain/match"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/domain/tournament"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

func newTournamentService(env *testEnv) *usecase.TournamentService {
	svc := usecase.NewTournamentService(env.store, seoul, logging.NewNop())
	svc.SetClock(func() time.Time { return wednesday })
	svc.SetShuffle(func([]string) {})
	return svc
}

func TestTournamentService_PlaysThroughToChampion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	env.addPlayer(t, "Ana", player.GenderFemale, player.CohortRegular)
	env.addPlayer(t, "Bo", player.GenderMale, player.CohortRegular)
	env.addPlayer(t, "Cy", player.GenderMale, player.CohortRegular)
	svc := newTournamentService(env)

	created, err := svc.Generate(ctx, " Autumn Cup ", []string{"Ana", "Bo", "Cy"})
	require.NoError(t, err)
	require.Equal(t, "Autumn Cup", created.Title)
	require.Equal(t, tournament.StatusInProgress, created.Status)
	// Ana's bye is advanced straight away.
	require.Equal(t, "Ana", created.Bracket.Rounds[1][0].P1)

	first, err := svc.SubmitResults(ctx, created.ID, []usecase.TournamentResultInput{{MatchID: "R1M2", Winner: "Cy"}})
	require.NoError(t, err)
	require.Equal(t, 1, first.Recorded)
	require.Equal(t, 1, first.Queued)
	require.Equal(t, "Cy", first.Tournament.Bracket.Rounds[1][0].P2)

	final, err := svc.SubmitResults(ctx, created.ID, []usecase.TournamentResultInput{{MatchID: "R2M1", Winner: "Ana", Score: "3:1"}})
	require.NoError(t, err)
	require.Equal(t, tournament.StatusComplete, final.Tournament.Status)

	pending := false
	matches, err := env.matches.ListMatches(ctx, match.ListFilter{Approved: &pending})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	scores := map[string]string{}
	for _, m := range matches {
		scores[m.WinnerName] = m.Score
	}
	require.Equal(t, usecase.DefaultTournamentScore, scores["Cy"])
	require.Equal(t, "3:1", scores["Ana"])

	_, err = svc.SubmitResults(ctx, created.ID, []usecase.TournamentResultInput{{MatchID: "R2M1", Winner: "Cy"}})
	require.True(t, errors.Is(err, usecase.ErrConflict))
}

func TestTournamentService_UnknownNamesAreRecordedWithoutMatches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	svc := newTournamentService(env)

	created, err := svc.Generate(ctx, "Guests", []string{"Guest A", "Guest B"})
	require.NoError(t, err)

	out, err := svc.SubmitResults(ctx, created.ID, []usecase.TournamentResultInput{
		{MatchID: "R9M9", Winner: "Guest A"},
		{MatchID: "R1M1", Winner: "Guest B"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Recorded)
	require.Equal(t, 0, out.Queued)
	require.Equal(t, tournament.StatusComplete, out.Tournament.Status)
}

func TestTournamentService_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	svc := newTournamentService(env)

	_, err := svc.Generate(ctx, "", []string{"a", "b"})
	require.True(t, errors.Is(err, usecase.ErrInvalidInput))

	_, err = svc.Generate(ctx, "Solo", []string{"a"})
	require.True(t, errors.Is(err, usecase.ErrInvalidInput))

	_, err = svc.Get(ctx, 404)
	require.True(t, errors.Is(err, usecase.ErrNotFound))
	require.True(t, errors.Is(svc.Delete(ctx, 404), usecase.ErrNotFound))
}
