package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/pingpong-club/internal/domain/tournament"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
)

// DefaultTournamentScore is used when a bracket result comes without a score.
const DefaultTournamentScore = "2:0"

type TournamentResultInput struct {
	MatchID string
	Winner  string
	Score   string
}

type TournamentSubmitResult struct {
	Tournament tournament.Tournament `json:"-"`
	Recorded   int                   `json:"recorded"`
	Queued     int                   `json:"queued"`
}

type TournamentService struct {
	store    Store
	shuffle  func([]string)
	location *time.Location
	logger   *logging.Logger
	now      func() time.Time
}

func NewTournamentService(store Store, location *time.Location, logger *logging.Logger) *TournamentService {
	if logger == nil {
		logger = logging.Default()
	}
	if location == nil {
		location = time.UTC
	}
	return &TournamentService{
		store: store,
		shuffle: func(names []string) {
			rand.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
		},
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *TournamentService) List(ctx context.Context) ([]tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.List")
	defer span.End()

	items, err := s.store.Tournaments().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	return items, nil
}

func (s *TournamentService) Get(ctx context.Context, id int64) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Get")
	defer span.End()

	return getTournament(ctx, s.store, id)
}

// Generate seeds a shuffled bracket and advances the bye winners.
func (s *TournamentService) Generate(ctx context.Context, title string, names []string) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Generate")
	defer span.End()

	title = strings.TrimSpace(title)
	if title == "" {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament title is required", ErrInvalidInput)
	}
	bracket, err := tournament.Generate(names, s.shuffle)
	if err != nil {
		return tournament.Tournament{}, mapTournamentError(err)
	}
	bracket.Advance()

	t := tournament.Tournament{
		Title:     title,
		Status:    tournament.StatusInProgress,
		Bracket:   bracket,
		CreatedAt: s.now().UTC(),
	}
	if bracket.Complete() {
		t.Status = tournament.StatusComplete
	}
	if err := s.store.Tournaments().Create(ctx, &t); err != nil {
		return tournament.Tournament{}, fmt.Errorf("create tournament: %w", err)
	}

	s.logger.InfoContext(ctx, "tournament generated", "tournament_id", t.ID, "title", t.Title, "rounds", len(bracket.Rounds))
	return t, nil
}

// SubmitResults records bracket winners, queues a pending match for every
// result between two known players, and advances the bracket one pass.
func (s *TournamentService) SubmitResults(ctx context.Context, id int64, results []TournamentResultInput) (TournamentSubmitResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.SubmitResults")
	defer span.End()

	var out TournamentSubmitResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		out = TournamentSubmitResult{}
		t, err := getTournament(ctx, repos, id)
		if err != nil {
			return err
		}
		if t.Status == tournament.StatusComplete {
			return fmt.Errorf("%w: tournament is already complete", ErrConflict)
		}

		now := s.now().In(s.location)
		for _, r := range results {
			if strings.TrimSpace(r.Winner) == "" {
				continue
			}
			outcome, err := t.Bracket.Record(strings.TrimSpace(r.MatchID), r.Winner)
			if err != nil {
				s.logger.WarnContext(ctx, "skip tournament result", "tournament_id", t.ID, "match", r.MatchID, "error", err)
				continue
			}
			out.Recorded++

			winner, okW, err := repos.Players().GetByName(ctx, outcome.Winner)
			if err != nil {
				return fmt.Errorf("get winner %q: %w", outcome.Winner, err)
			}
			loser, okL, err := repos.Players().GetByName(ctx, outcome.Loser)
			if err != nil {
				return fmt.Errorf("get loser %q: %w", outcome.Loser, err)
			}
			if !okW || !okL {
				continue
			}
			score := strings.TrimSpace(r.Score)
			if score == "" {
				score = DefaultTournamentScore
			}
			if _, err := createPendingMatch(ctx, repos, winner, loser, score, now); err != nil {
				return fmt.Errorf("create tournament match: %w", err)
			}
			out.Queued++
		}

		t.Bracket.Advance()
		if t.Bracket.Complete() {
			t.Status = tournament.StatusComplete
		}
		if err := repos.Tournaments().Update(ctx, t); err != nil {
			return fmt.Errorf("update tournament=%d: %w", t.ID, err)
		}
		out.Tournament = t
		return nil
	})
	if err != nil {
		return TournamentSubmitResult{}, err
	}

	s.logger.InfoContext(ctx, "tournament results submitted", "tournament_id", id, "recorded", out.Recorded, "queued", out.Queued, "status", out.Tournament.Status)
	return out, nil
}

func (s *TournamentService) Delete(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Delete")
	defer span.End()

	removed, err := s.store.Tournaments().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete tournament=%d: %w", id, err)
	}
	if !removed {
		return fmt.Errorf("%w: tournament=%d", ErrNotFound, id)
	}
	return nil
}

func getTournament(ctx context.Context, repos Repositories, id int64) (tournament.Tournament, error) {
	t, ok, err := repos.Tournaments().Get(ctx, id)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament=%d: %w", id, err)
	}
	if !ok {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%d", ErrNotFound, id)
	}
	return t, nil
}

func mapTournamentError(err error) error {
	switch {
	case errors.Is(err, tournament.ErrUnknownMatch):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, tournament.ErrMatchDecided):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
}
