package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/pingpong-club/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/pingpong-club/internal/platform/cache"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

func TestStore_CommitDropsCachedPlayers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inner := memory.NewStore()
	store := cache.NewStore(inner, basecache.NewStore(time.Minute))

	seed := player.New("Mina", player.GenderFemale, player.CohortRegular, player.DefaultInitialRanks(), time.Now())
	if err := inner.Players().Create(ctx, &seed); err != nil {
		t.Fatalf("seed player: %v", err)
	}

	before, err := store.Players().List(ctx, player.ListFilter{ValidOnly: true})
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(before) != 1 {
		t.Fatalf("expected 1 player, got %d", len(before))
	}

	// A write that bypasses the decorator stays invisible until a commit.
	other := player.New("Joon", player.GenderMale, player.CohortRegular, player.DefaultInitialRanks(), time.Now())
	if err := inner.Players().Create(ctx, &other); err != nil {
		t.Fatalf("seed player: %v", err)
	}
	cached, _ := store.Players().List(ctx, player.ListFilter{ValidOnly: true})
	if len(cached) != 1 {
		t.Fatalf("expected cached list of 1, got %d", len(cached))
	}

	err = store.WithinTx(ctx, func(ctx context.Context, repos usecase.Repositories) error {
		p, _, err := repos.Players().Get(ctx, seed.ID)
		if err != nil {
			return err
		}
		p.BettingPoints += 5
		return repos.Players().Update(ctx, p)
	})
	if err != nil {
		t.Fatalf("within tx: %v", err)
	}

	after, _ := store.Players().List(ctx, player.ListFilter{ValidOnly: true})
	if len(after) != 2 {
		t.Fatalf("expected fresh list of 2, got %d", len(after))
	}
	got, ok, _ := store.Players().Get(ctx, seed.ID)
	if !ok || got.BettingPoints != player.DefaultBettingPoints+5 {
		t.Fatalf("expected updated balance, got %+v", got)
	}
}
