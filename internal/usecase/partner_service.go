package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/pingpong-club/internal/domain/partner"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
)

// PartnerService manages the admin-assigned daily pairings.
type PartnerService struct {
	store  Store
	logger *logging.Logger
	now    func() time.Time
}

func NewPartnerService(store Store, logger *logging.Logger) *PartnerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PartnerService{store: store, logger: logger, now: time.Now}
}

// Propose pairs newcomers with veterans without saving anything.
func (s *PartnerService) Propose(ctx context.Context, veterans, newcomers []string) ([]partner.Pair, error) {
	_, span := startUsecaseSpan(ctx, "usecase.PartnerService.Propose")
	defer span.End()

	veterans = trimNames(veterans)
	newcomers = trimNames(newcomers)
	if len(veterans) == 0 || len(newcomers) == 0 {
		return nil, fmt.Errorf("%w: both player lists are required", ErrInvalidInput)
	}
	return partner.Propose(veterans, newcomers), nil
}

// Save stores every pair. One unknown name rejects the whole batch.
func (s *PartnerService) Save(ctx context.Context, pairs []partner.Pair) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PartnerService.Save")
	defer span.End()

	if len(pairs) == 0 {
		return 0, fmt.Errorf("%w: pairs are required", ErrInvalidInput)
	}
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		for _, pair := range pairs {
			p1, ok, err := repos.Players().GetByName(ctx, strings.TrimSpace(pair.P1Name))
			if err != nil {
				return fmt.Errorf("get player %q: %w", pair.P1Name, err)
			}
			if !ok {
				return fmt.Errorf("%w: player %q", ErrNotFound, pair.P1Name)
			}
			p2, ok, err := repos.Players().GetByName(ctx, strings.TrimSpace(pair.P2Name))
			if err != nil {
				return fmt.Errorf("get player %q: %w", pair.P2Name, err)
			}
			if !ok {
				return fmt.Errorf("%w: player %q", ErrNotFound, pair.P2Name)
			}
			item := partner.Pairing{
				P1ID:      p1.ID,
				P1Name:    p1.Name,
				P2ID:      p2.ID,
				P2Name:    p2.Name,
				CreatedAt: s.now().UTC(),
			}
			if err := repos.Partners().Create(ctx, &item); err != nil {
				return fmt.Errorf("create pairing %s/%s: %w", p1.Name, p2.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "pairings saved", "count", len(pairs))
	return len(pairs), nil
}

func (s *PartnerService) List(ctx context.Context) ([]partner.Pairing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PartnerService.List")
	defer span.End()

	items, err := s.store.Partners().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pairings: %w", err)
	}
	return items, nil
}

// Reset removes every pairing.
func (s *PartnerService) Reset(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PartnerService.Reset")
	defer span.End()

	removed, err := s.store.Partners().DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("reset pairings: %w", err)
	}
	s.logger.InfoContext(ctx, "pairings reset", "removed", removed)
	return removed, nil
}
