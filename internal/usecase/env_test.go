package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/pingpong-club/internal/domain/match"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

var seoul = time.FixedZone("KST", 9*60*60)

// wednesday is an ordinary club day; sunday is the match bonus day and
// friday the betting day.
var (
	wednesday = time.Date(2026, time.October, 14, 19, 0, 0, 0, seoul)
	friday    = time.Date(2026, time.October, 16, 19, 0, 0, 0, seoul)
	sunday    = time.Date(2026, time.October, 18, 19, 0, 0, 0, seoul)
)

type countingRecorder struct {
	events map[string]int
}

func (r *countingRecorder) Record(event string, count int) {
	if r.events == nil {
		r.events = make(map[string]int)
	}
	r.events[event] += count
}

type testEnv struct {
	store    *memory.Store
	ranking  *usecase.RankingService
	matches  *usecase.MatchService
	bettings *usecase.BettingService
	players  *usecase.PlayerService
	recorder *countingRecorder
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	logger := logging.NewNop()
	store := memory.NewStore()
	ledger := usecase.NewPointLedger()
	rankingSvc := usecase.NewRankingService(store, logger)
	recorder := &countingRecorder{}

	rules := match.DefaultRules()
	rules.Location = seoul

	matches := usecase.NewMatchService(store, rankingSvc, ledger, rules, 2, logger, recorder)
	matches.SetClock(func() time.Time { return now })
	bettings := usecase.NewBettingService(store, rankingSvc, ledger, time.Friday, seoul, logger, recorder)
	bettings.SetClock(func() time.Time { return now })
	players := usecase.NewPlayerService(store, rankingSvc, ledger, matches, player.DefaultInitialRanks(), logger)
	players.SetClock(func() time.Time { return now })

	return &testEnv{
		store:    store,
		ranking:  rankingSvc,
		matches:  matches,
		bettings: bettings,
		players:  players,
		recorder: recorder,
	}
}

func (e *testEnv) addPlayer(t *testing.T, name string, gender player.Gender, cohort player.Cohort) player.Player {
	t.Helper()

	p := player.New(name, gender, cohort, player.DefaultInitialRanks(), wednesday)
	if err := e.store.Players().Create(context.Background(), &p); err != nil {
		t.Fatalf("create player %s: %v", name, err)
	}
	return p
}

func (e *testEnv) player(t *testing.T, id int64) player.Player {
	t.Helper()

	p, ok, err := e.store.Players().Get(context.Background(), id)
	if err != nil || !ok {
		t.Fatalf("get player=%d: ok=%v err=%v", id, ok, err)
	}
	return p
}

func (e *testEnv) approvedMatch(t *testing.T, winner, loser player.Player) match.Match {
	t.Helper()

	ctx := context.Background()
	m, err := e.matches.SubmitDirect(ctx, usecase.SubmitMatchInput{Winner: winner.Name, Loser: loser.Name, Score: "2:1"})
	if err != nil {
		t.Fatalf("submit match: %v", err)
	}
	if _, err := e.matches.Approve(ctx, []int64{m.ID}); err != nil {
		t.Fatalf("approve match: %v", err)
	}
	return m
}
