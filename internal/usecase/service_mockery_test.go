package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/pingpong-club/internal/domain/division"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/domain/ranking"
	"github.com/riskibarqy/pingpong-club/internal/infrastructure/repository/memory"
	divisionmock "github.com/riskibarqy/pingpong-club/internal/mocks/domain/division"
	playermock "github.com/riskibarqy/pingpong-club/internal/mocks/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

type traceKey struct{}

// mockedStore serves reads outside a transaction from mocks.
type mockedStore struct {
	*memory.Store
	players player.Repository
	logs    division.Repository
}

func (s mockedStore) Players() player.Repository {
	if s.players != nil {
		return s.players
	}
	return s.Store.Players()
}

func (s mockedStore) UpdateLogs() division.Repository {
	if s.logs != nil {
		return s.logs
	}
	return s.Store.UpdateLogs()
}

func tracedContext() (context.Context, func(context.Context) bool) {
	ctx := context.WithValue(context.Background(), traceKey{}, "trace-456")
	return ctx, func(v context.Context) bool { return v.Value(traceKey{}) == "trace-456" }
}

func TestPlayerService_Leaderboard_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx, sameTrace := tracedContext()
	playerRepo := playermock.NewRepository(t)
	store := mockedStore{Store: memory.NewStore(), players: playerRepo}
	service := usecase.NewPlayerService(store, nil, usecase.NewPointLedger(), nil, player.DefaultInitialRanks(), logging.NewNop())

	playerRepo.
		On("List", mock.MatchedBy(sameTrace), player.ListFilter{ValidOnly: true}).
		Return([]player.Player{
			{ID: 1, Name: "kim", WinCount: 3, Orders: player.Orders{Win: player.IntPtr(2)}},
			{ID: 2, Name: "lee", WinCount: 5, Orders: player.Orders{Win: player.IntPtr(1)}},
			{ID: 3, Name: "park", WinCount: 3, Orders: player.Orders{Win: player.IntPtr(2)}},
			{ID: 4, Name: "choi"},
		}, nil).
		Once()

	got, err := service.Leaderboard(ctx, ranking.CategoryWins, 2)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected entry count: got=%d want=2", len(got))
	}
	if got[0].Name != "lee" || got[0].Value != 5 {
		t.Fatalf("unexpected leader: %+v", got[0])
	}
	if got[1].Name != "kim" || got[1].Rank != 2 {
		t.Fatalf("tie should break by name: %+v", got[1])
	}
}

func TestPlayerService_Leaderboard_RepositoryErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx, sameTrace := tracedContext()
	playerRepo := playermock.NewRepository(t)
	store := mockedStore{Store: memory.NewStore(), players: playerRepo}
	service := usecase.NewPlayerService(store, nil, usecase.NewPointLedger(), nil, player.DefaultInitialRanks(), logging.NewNop())

	boom := errors.New("connection reset")
	playerRepo.
		On("List", mock.MatchedBy(sameTrace), player.ListFilter{ValidOnly: true}).
		Return(nil, boom).
		Once()

	if _, err := service.Leaderboard(ctx, ranking.CategoryBetting, 0); !errors.Is(err, boom) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestDivisionService_GetAndDelete_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx, sameTrace := tracedContext()
	logRepo := divisionmock.NewRepository(t)
	store := mockedStore{Store: memory.NewStore(), logs: logRepo}
	service := usecase.NewDivisionService(store, nil, seoul, logging.NewNop(), nil)

	logRepo.
		On("Get", mock.MatchedBy(sameTrace), int64(7)).
		Return(division.UpdateLog{ID: 7, Kind: division.KindUpdate, Title: "Division update - 2026-10-14"}, true, nil).
		Once()
	logRepo.
		On("Get", mock.MatchedBy(sameTrace), int64(8)).
		Return(division.UpdateLog{}, false, nil).
		Once()
	logRepo.
		On("Delete", mock.MatchedBy(sameTrace), int64(8)).
		Return(false, nil).
		Once()
	logRepo.
		On("List", mock.MatchedBy(sameTrace), 20).
		Return([]division.UpdateLog{{ID: 7}}, nil).
		Once()

	got, err := service.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get log: %v", err)
	}
	if got.Kind != division.KindUpdate {
		t.Fatalf("unexpected log kind: %s", got.Kind)
	}
	if _, err := service.Get(ctx, 8); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := service.Delete(ctx, 8); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
	items, err := service.List(ctx, 500)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("unexpected log count: %d", len(items))
	}
}
