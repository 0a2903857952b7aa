package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/domain/ranking"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
)

// RankingService rewrites the stored dense orders of every valid player.
type RankingService struct {
	store  Store
	logger *logging.Logger
}

func NewRankingService(store Store, logger *logging.Logger) *RankingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RankingService{store: store, logger: logger}
}

// RecomputeAll refreshes both ranking groups in one transaction.
func (s *RankingService) RecomputeAll(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.RecomputeAll")
	defer span.End()

	return s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		return s.Recompute(ctx, repos, ranking.GroupMatch, ranking.GroupPoint)
	})
}

// Recompute refreshes groups using repos. Invalid players keep their stale
// orders.
func (s *RankingService) Recompute(ctx context.Context, repos Repositories, groups ...ranking.Group) error {
	if len(groups) == 0 {
		return nil
	}
	players, err := repos.Players().List(ctx, player.ListFilter{ValidOnly: true})
	if err != nil {
		return fmt.Errorf("list players for ranking: %w", err)
	}

	orders := make(map[int64]player.Orders, len(players))
	for _, p := range players {
		orders[p.ID] = p.Orders
	}
	for _, group := range groups {
		fresh := ranking.Recompute(withOrders(players, orders), group)
		for id, o := range fresh {
			orders[id] = o
		}
	}

	for _, p := range players {
		if err := repos.Players().UpdateOrders(ctx, p.ID, orders[p.ID]); err != nil {
			return fmt.Errorf("update orders player=%d: %w", p.ID, err)
		}
	}
	s.logger.DebugContext(ctx, "ranking orders recomputed", "players", len(players), "groups", len(groups))
	return nil
}

func withOrders(players []player.Player, orders map[int64]player.Orders) []player.Player {
	out := make([]player.Player, len(players))
	for i, p := range players {
		p.Orders = orders[p.ID]
		out[i] = p
	}
	return out
}
