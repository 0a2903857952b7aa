package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/pingpong-club/internal/domain/match"
	"github.com/riskibarqy/pingpong-club/internal/domain/partner"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

func TestMatchService_ApproveAppliesCountersOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	kim := env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)
	lee := env.addPlayer(t, "lee", player.GenderFemale, player.CohortRegular)

	m, err := env.matches.SubmitDirect(ctx, usecase.SubmitMatchInput{Winner: " kim ", Loser: "lee", Score: "2:0"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if m.Approved {
		t.Fatalf("submitted match must be pending")
	}

	got, err := env.matches.Approve(ctx, []int64{m.ID, m.ID, 999})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Approved != 1 || got.Skipped != 0 {
		t.Fatalf("unexpected approve result: %+v", got)
	}

	again, err := env.matches.Approve(ctx, []int64{m.ID})
	if err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if again.Approved != 0 {
		t.Fatalf("match approved twice: %+v", again)
	}

	winner := env.player(t, kim.ID)
	loser := env.player(t, lee.ID)
	if winner.MatchCount != 1 || winner.WinCount != 1 || winner.RateCount != 100 || winner.OpponentCount != 1 {
		t.Fatalf("unexpected winner counters: %+v", winner)
	}
	if loser.MatchCount != 1 || loser.LossCount != 1 || loser.RateCount != 0 {
		t.Fatalf("unexpected loser counters: %+v", loser)
	}
	if winner.BettingPoints != player.DefaultBettingPoints+1 || loser.BettingPoints != player.DefaultBettingPoints+1 {
		t.Fatalf("participation bonus not applied: winner=%d loser=%d", winner.BettingPoints, loser.BettingPoints)
	}
	if winner.Orders.Win == nil || *winner.Orders.Win != 1 || loser.Orders.Win == nil || *loser.Orders.Win != 2 {
		t.Fatalf("win orders not recomputed: winner=%v loser=%v", winner.Orders.Win, loser.Orders.Win)
	}
	if env.recorder.events["match_approved"] != 1 {
		t.Fatalf("approval not recorded: %+v", env.recorder.events)
	}
}

func TestMatchService_SubmitDirectValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)

	if _, err := env.matches.SubmitDirect(ctx, usecase.SubmitMatchInput{Winner: "kim", Loser: "kim", Score: "2:0"}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input for self match, got %v", err)
	}
	if _, err := env.matches.SubmitDirect(ctx, usecase.SubmitMatchInput{Winner: "kim", Loser: "ghost", Score: "2:0"}); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected not found for unknown loser, got %v", err)
	}
	if _, err := env.matches.SubmitDirect(ctx, usecase.SubmitMatchInput{Winner: "kim", Loser: "ghost"}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing score, got %v", err)
	}
}

func TestMatchService_SundayAndPartnerBonusesAreReversedOnDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, sunday)
	kim := env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)
	lee := env.addPlayer(t, "lee", player.GenderFemale, player.CohortRegular)

	pairing := partner.Pairing{P1ID: kim.ID, P1Name: kim.Name, P2ID: lee.ID, P2Name: lee.Name, CreatedAt: sunday.Add(-time.Hour)}
	if err := env.store.Partners().Create(ctx, &pairing); err != nil {
		t.Fatalf("create pairing: %v", err)
	}

	m := env.approvedMatch(t, kim, lee)
	stored, _, _ := env.store.Matches().Get(ctx, m.ID)
	if !stored.Bonus.Partner || !stored.Bonus.Weekday {
		t.Fatalf("applied bonus not stored: %+v", stored.Bonus)
	}

	winner := env.player(t, kim.ID)
	// participation 1 + partner 5 + sunday 3
	if winner.BettingPoints != player.DefaultBettingPoints+9 || winner.AchievePoints != 2 {
		t.Fatalf("unexpected bonus balances: betting=%d achieve=%d", winner.BettingPoints, winner.AchievePoints)
	}

	got, err := env.matches.Delete(ctx, []int64{m.ID})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got.ApprovedDeleted != 1 || got.PendingDeleted != 0 {
		t.Fatalf("unexpected delete result: %+v", got)
	}
	winner = env.player(t, kim.ID)
	loser := env.player(t, lee.ID)
	if winner.BettingPoints != player.DefaultBettingPoints || winner.AchievePoints != 0 || winner.MatchCount != 0 {
		t.Fatalf("winner not restored: %+v", winner)
	}
	if loser.BettingPoints != player.DefaultBettingPoints || loser.OpponentCount != 0 {
		t.Fatalf("loser not restored: %+v", loser)
	}
}

type ledgerTotals struct {
	achieve, betting int
}

func (e *testEnv) ledgerTotals(t *testing.T, id int64) ledgerTotals {
	t.Helper()

	logs, err := e.store.PointLogs().ListByPlayer(context.Background(), id, 0)
	if err != nil {
		t.Fatalf("list point logs player=%d: %v", id, err)
	}
	var out ledgerTotals
	for _, entry := range logs {
		out.achieve += entry.AchieveDelta
		out.betting += entry.BettingDelta
	}
	return out
}

func TestMatchService_ApproveThenDeleteRestoresOrdersAndLedger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, sunday)
	kim := env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)
	lee := env.addPlayer(t, "lee", player.GenderFemale, player.CohortRegular)
	park := env.addPlayer(t, "park", player.GenderMale, player.CohortRegular)
	env.approvedMatch(t, park, lee)

	m, err := env.matches.SubmitDirect(ctx, usecase.SubmitMatchInput{Winner: "kim", Loser: "lee", Score: "2:1"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := env.ranking.RecomputeAll(ctx); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	everyone := []player.Player{kim, lee, park}
	orders := map[int64]player.Orders{}
	totals := map[int64]ledgerTotals{}
	for _, p := range everyone {
		orders[p.ID] = env.player(t, p.ID).Orders
		totals[p.ID] = env.ledgerTotals(t, p.ID)
	}

	if _, err := env.matches.Approve(ctx, []int64{m.ID}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if env.ledgerTotals(t, kim.ID) == totals[kim.ID] {
		t.Fatalf("approval should credit the winner")
	}
	if got, err := env.matches.Delete(ctx, []int64{m.ID}); err != nil || got.ApprovedDeleted != 1 {
		t.Fatalf("delete: result=%+v err=%v", got, err)
	}

	for _, p := range everyone {
		require.Equal(t, orders[p.ID], env.player(t, p.ID).Orders, "orders of %s", p.Name)
		require.Equal(t, totals[p.ID], env.ledgerTotals(t, p.ID), "ledger of %s", p.Name)
	}
}

func TestMatchService_DeletePendingReleasesPairing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	kim := env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)
	lee := env.addPlayer(t, "lee", player.GenderFemale, player.CohortRegular)

	pairing := partner.Pairing{P1ID: kim.ID, P1Name: kim.Name, P2ID: lee.ID, P2Name: lee.Name, CreatedAt: wednesday.Add(-time.Hour)}
	if err := env.store.Partners().Create(ctx, &pairing); err != nil {
		t.Fatalf("create pairing: %v", err)
	}
	m, err := env.matches.SubmitDirect(ctx, usecase.SubmitMatchInput{Winner: "lee", Loser: "kim", Score: "2:1"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	pairings, _ := env.store.Partners().List(ctx)
	if !pairings[0].Submitted {
		t.Fatalf("pairing should be marked submitted")
	}

	got, err := env.matches.Delete(ctx, []int64{m.ID})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got.PendingDeleted != 1 {
		t.Fatalf("unexpected delete result: %+v", got)
	}
	pairings, _ = env.store.Partners().List(ctx)
	if pairings[0].Submitted {
		t.Fatalf("pairing should be released")
	}
	if _, ok, _ := env.store.Matches().Get(ctx, m.ID); ok {
		t.Fatalf("pending match should be removed")
	}
}

func TestCreatePendingMatch_RejectsInvalidMatches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	kim := env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)
	lee := env.addPlayer(t, "lee", player.GenderFemale, player.CohortRegular)

	cases := []struct {
		name          string
		winner, loser player.Player
		score         string
	}{
		{"same player", kim, kim, "2:0"},
		{"blank score", kim, lee, "  "},
		{"unsaved player", kim, player.Player{Name: "ghost"}, "2:0"},
	}
	for _, tc := range cases {
		err := env.store.WithinTx(ctx, func(ctx context.Context, repos usecase.Repositories) error {
			_, err := usecase.CreatePendingMatch(ctx, repos, tc.winner, tc.loser, tc.score, wednesday)
			return err
		})
		if !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", tc.name, err)
		}
	}

	items, err := env.store.Matches().List(ctx, match.ListFilter{})
	require.NoError(t, err)
	require.Empty(t, items)

	var created match.Match
	err = env.store.WithinTx(ctx, func(ctx context.Context, repos usecase.Repositories) error {
		m, err := usecase.CreatePendingMatch(ctx, repos, kim, lee, " 2:1 ", wednesday)
		created = m
		return err
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "2:1", created.Score)
	require.False(t, created.Approved)
}

func TestMatchService_FreshmanGraduatesAndReturns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	park := env.addPlayer(t, "park", player.GenderFemale, player.CohortFreshman)
	kim := env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)

	var last int64
	for range 16 {
		last = env.approvedMatch(t, park, kim).ID
	}
	graduate := env.player(t, park.ID)
	if graduate.Rank == nil || *graduate.Rank != 7 {
		t.Fatalf("female freshman should graduate to 7, got %v", graduate.Rank)
	}

	if _, err := env.matches.Delete(ctx, []int64{last}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	back := env.player(t, park.ID)
	if back.Rank == nil || *back.Rank != 8 {
		t.Fatalf("freshman should return to division 8, got %v", back.Rank)
	}
}

func TestMatchService_SubmitBatchSkipsAndCreditsLeagueWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	kim := env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)
	env.addPlayer(t, "lee", player.GenderFemale, player.CohortRegular)

	created, err := env.matches.SubmitBatch(ctx, []usecase.BatchMatchInput{
		{Winner: "kim", Loser: "lee", Score: "2:0", League: true},
		{Winner: "kim", Loser: "ghost", Score: "2:0"},
		{Winner: "lee", Loser: "kim"},
	})
	if err != nil {
		t.Fatalf("submit batch: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected one created match, got %d", created)
	}
	if got := env.player(t, kim.ID).BettingPoints; got != player.DefaultBettingPoints+usecase.LeagueWinBonus.Betting {
		t.Fatalf("league bonus not credited: %d", got)
	}
}

func TestMatchService_RebuildStatsRecountsCounters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	kim := env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)
	lee := env.addPlayer(t, "lee", player.GenderFemale, player.CohortRegular)
	env.approvedMatch(t, kim, lee)
	env.approvedMatch(t, lee, kim)

	broken := env.player(t, kim.ID)
	broken.WinCount, broken.LossCount, broken.MatchCount = 9, 9, 18
	if err := env.store.Players().Update(ctx, broken); err != nil {
		t.Fatalf("corrupt player: %v", err)
	}

	got, err := env.matches.RebuildStats(ctx)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if got.Players != 2 || got.Matches != 2 {
		t.Fatalf("unexpected rebuild result: %+v", got)
	}
	fixed := env.player(t, kim.ID)
	if fixed.WinCount != 1 || fixed.LossCount != 1 || fixed.MatchCount != 2 || fixed.RateCount != 50 {
		t.Fatalf("counters not rebuilt: %+v", fixed)
	}
}
