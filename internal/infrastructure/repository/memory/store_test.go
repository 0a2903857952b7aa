package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/pingpong-club/internal/domain/betting"
	"github.com/riskibarqy/pingpong-club/internal/domain/match"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/domain/pointlog"
	"github.com/riskibarqy/pingpong-club/internal/domain/tournament"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

func TestStore_WithinTxRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore()
	kim := player.New("kim", player.GenderMale, player.CohortRegular, player.DefaultInitialRanks(), time.Now())
	if err := store.Players().Create(ctx, &kim); err != nil {
		t.Fatalf("create player: %v", err)
	}

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context, repos usecase.Repositories) error {
		lee := player.New("lee", player.GenderFemale, player.CohortRegular, player.DefaultInitialRanks(), time.Now())
		if err := repos.Players().Create(ctx, &lee); err != nil {
			return err
		}
		kim.BettingPoints = 0
		if err := repos.Players().Update(ctx, kim); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	players, err := store.Players().List(ctx, player.ListFilter{})
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 1 || players[0].BettingPoints != player.DefaultBettingPoints {
		t.Fatalf("rollback did not restore players: %+v", players)
	}
}

func TestStore_TournamentBracketIsCopied(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore()
	bracket, err := tournament.Generate([]string{"a", "b"}, func([]string) {})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	item := tournament.Tournament{Title: "cup", Status: tournament.StatusInProgress, Bracket: bracket}
	if err := store.Tournaments().Create(ctx, &item); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, _, _ := store.Tournaments().Get(ctx, item.ID)
	got.Bracket.Rounds[0][0].Winner = "a"

	again, _, _ := store.Tournaments().Get(ctx, item.ID)
	if again.Bracket.Rounds[0][0].Winner != "" {
		t.Fatalf("stored bracket was mutated through a read copy")
	}
}

func TestPointLogRepository_ListNewestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore()
	for _, reason := range []string{"first", "second", "third"} {
		entry := &pointlog.Entry{PlayerID: 7, BettingDelta: 1, Reason: reason}
		if err := store.PointLogs().Append(ctx, entry); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got, err := store.PointLogs().ListByPlayer(ctx, 7, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Reason != "third" || got[1].Reason != "second" {
		t.Fatalf("unexpected logs: %+v", got)
	}
}

func TestStore_DeleteKeepsRowsWhoseApprovalChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore()

	m := match.Match{WinnerID: 1, LoserID: 2, Score: "2:0", PlayedAt: time.Now()}
	if err := store.Matches().Create(ctx, &m); err != nil {
		t.Fatalf("create match: %v", err)
	}
	if ok, err := store.Matches().MarkApproved(ctx, m.ID, match.AppliedBonus{}); err != nil || !ok {
		t.Fatalf("approve match: ok=%v err=%v", ok, err)
	}
	// a caller still holding the pending copy must not remove it
	if removed, err := store.Matches().Delete(ctx, m.ID, false); err != nil || removed {
		t.Fatalf("pending delete of approved match: removed=%v err=%v", removed, err)
	}
	if _, ok, _ := store.Matches().Get(ctx, m.ID); !ok {
		t.Fatalf("approved match should survive")
	}
	if removed, err := store.Matches().Delete(ctx, m.ID, true); err != nil || !removed {
		t.Fatalf("approved delete: removed=%v err=%v", removed, err)
	}

	b := betting.Betting{P1ID: 1, P2ID: 2, Point: 10}
	if err := store.Bettings().Create(ctx, &b); err != nil {
		t.Fatalf("create betting: %v", err)
	}
	if removed, err := store.Bettings().Delete(ctx, b.ID, true); err != nil || removed {
		t.Fatalf("approved delete of pending betting: removed=%v err=%v", removed, err)
	}
	if _, ok, _ := store.Bettings().Get(ctx, b.ID); !ok {
		t.Fatalf("pending betting should survive")
	}
	if removed, err := store.Bettings().Delete(ctx, b.ID, false); err != nil || !removed {
		t.Fatalf("pending delete: removed=%v err=%v", removed, err)
	}
}
