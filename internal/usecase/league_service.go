package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/pingpong-club/internal/domain/league"
	"github.com/riskibarqy/pingpong-club/internal/domain/match"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
)

type SubmitLeagueMatchInput struct {
	LeagueID int64
	Me       string
	Opponent string
	Winner   string
	Score    string
}

// LeagueDetail is the league page for one viewer. History is only filled
// for admins; Fixtures only when the viewer plays in the league.
type LeagueDetail struct {
	League    league.League
	Standings []league.Standing
	Fixtures  []league.Fixture
	History   []league.Result
}

type LeagueService struct {
	store    Store
	location *time.Location
	logger   *logging.Logger
	now      func() time.Time
}

func NewLeagueService(store Store, location *time.Location, logger *logging.Logger) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}
	if location == nil {
		location = time.UTC
	}
	return &LeagueService{store: store, location: location, logger: logger, now: time.Now}
}

func (s *LeagueService) List(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.List")
	defer span.End()

	items, err := s.store.Leagues().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return items, nil
}

// Create opens a league for five distinct valid players.
func (s *LeagueService) Create(ctx context.Context, names []string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Create")
	defer span.End()

	roster, err := league.NewRoster(names)
	if err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var created league.League
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		for _, name := range roster {
			if _, err := validPlayerByName(ctx, repos, name); err != nil {
				return err
			}
		}
		count, err := repos.Leagues().Count(ctx)
		if err != nil {
			return fmt.Errorf("count leagues: %w", err)
		}
		created = league.League{
			Name:      league.NameFor(count),
			Players:   roster,
			CreatedAt: s.now().UTC(),
		}
		if err := repos.Leagues().Create(ctx, &created); err != nil {
			return fmt.Errorf("create league: %w", err)
		}
		return nil
	})
	if err != nil {
		return league.League{}, err
	}

	s.logger.InfoContext(ctx, "league created", "league_id", created.ID, "name", created.Name)
	return created, nil
}

func (s *LeagueService) Detail(ctx context.Context, id int64, viewer string, isAdmin bool) (LeagueDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Detail")
	defer span.End()

	l, err := getLeague(ctx, s.store, id)
	if err != nil {
		return LeagueDetail{}, err
	}
	detail := LeagueDetail{League: l, Standings: l.Standings()}
	if fixtures, ok := l.FixturesFor(viewer); ok {
		detail.Fixtures = fixtures
	}
	if isAdmin {
		detail.History = l.History()
	}
	return detail, nil
}

// SubmitMatch records a league result for an undecided pair and queues the
// match for approval.
func (s *LeagueService) SubmitMatch(ctx context.Context, input SubmitLeagueMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.SubmitMatch")
	defer span.End()

	input.Me = strings.TrimSpace(input.Me)
	input.Opponent = strings.TrimSpace(input.Opponent)
	input.Winner = strings.TrimSpace(input.Winner)
	input.Score = strings.TrimSpace(input.Score)
	if input.Score == "" {
		return match.Match{}, fmt.Errorf("%w: score is required", ErrInvalidInput)
	}
	if input.Winner != input.Me && input.Winner != input.Opponent {
		return match.Match{}, fmt.Errorf("%w: winner must be one of the two players", ErrInvalidInput)
	}
	loserName := input.Opponent
	if input.Winner == input.Opponent {
		loserName = input.Me
	}

	var created match.Match
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		l, err := getLeague(ctx, repos, input.LeagueID)
		if err != nil {
			return err
		}
		cell, err := l.CellFor(input.Winner, loserName)
		if err != nil {
			return mapLeagueError(err)
		}
		if l.Results.PairDecided(cell.Winner, cell.Loser) {
			return fmt.Errorf("%w: %s vs %s was already submitted", ErrConflict, input.Winner, loserName)
		}

		inserted, err := repos.Leagues().InsertResult(ctx, l.ID, cell)
		if err != nil {
			return fmt.Errorf("insert league result: %w", err)
		}
		if !inserted {
			return fmt.Errorf("%w: %s vs %s was already submitted", ErrConflict, input.Winner, loserName)
		}

		winner, err := validPlayerByName(ctx, repos, input.Winner)
		if err != nil {
			return err
		}
		loser, err := validPlayerByName(ctx, repos, loserName)
		if err != nil {
			return err
		}
		created, err = createPendingMatch(ctx, repos, winner, loser, input.Score, s.now().In(s.location))
		if err != nil {
			return fmt.Errorf("create league match: %w", err)
		}
		return nil
	})
	if err != nil {
		return match.Match{}, err
	}

	s.logger.InfoContext(ctx, "league match submitted", "league_id", input.LeagueID, "winner", input.Winner, "loser", loserName)
	return created, nil
}

// Revert clears one recorded cell.
func (s *LeagueService) Revert(ctx context.Context, leagueID int64, winner, loser string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Revert")
	defer span.End()

	return s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		l, err := getLeague(ctx, repos, leagueID)
		if err != nil {
			return err
		}
		cell, err := l.CellFor(winner, loser)
		if err != nil {
			return mapLeagueError(err)
		}
		removed, err := repos.Leagues().DeleteResult(ctx, l.ID, cell)
		if err != nil {
			return fmt.Errorf("delete league result: %w", err)
		}
		if !removed {
			return fmt.Errorf("%w: %s vs %s has no result", ErrNotFound, strings.TrimSpace(winner), strings.TrimSpace(loser))
		}
		return nil
	})
}

// SetCells replaces the result matrix. A pair may be decided in one
// direction only.
func (s *LeagueService) SetCells(ctx context.Context, leagueID int64, cells []league.Cell) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.SetCells")
	defer span.End()

	var updated league.League
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		l, err := getLeague(ctx, repos, leagueID)
		if err != nil {
			return err
		}
		l.Results = league.Results{}
		for _, c := range cells {
			if err := l.Record(c); err != nil {
				return mapLeagueError(err)
			}
		}
		if err := repos.Leagues().ReplaceResults(ctx, l.ID, l.Results); err != nil {
			return fmt.Errorf("replace league results: %w", err)
		}
		updated = l
		return nil
	})
	return updated, err
}

func (s *LeagueService) Delete(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Delete")
	defer span.End()

	removed, err := s.store.Leagues().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete league=%d: %w", id, err)
	}
	if !removed {
		return fmt.Errorf("%w: league=%d", ErrNotFound, id)
	}
	return nil
}

func getLeague(ctx context.Context, repos Repositories, id int64) (league.League, error) {
	l, ok, err := repos.Leagues().Get(ctx, id)
	if err != nil {
		return league.League{}, fmt.Errorf("get league=%d: %w", id, err)
	}
	if !ok {
		return league.League{}, fmt.Errorf("%w: league=%d", ErrNotFound, id)
	}
	return l, nil
}

func mapLeagueError(err error) error {
	switch {
	case errors.Is(err, league.ErrCellDecided):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, league.ErrUnknownSlot), errors.Is(err, league.ErrSameSlot), errors.Is(err, league.ErrInvalidRoster):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return err
	}
}
