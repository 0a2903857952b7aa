package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/pingpong-club/internal/domain/match"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/domain/pointlog"
	"github.com/riskibarqy/pingpong-club/internal/domain/ranking"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
)

// SummaryCategories are the boards shown on the home page.
var SummaryCategories = []ranking.Category{
	ranking.CategoryWins,
	ranking.CategoryWinRate,
	ranking.CategoryMatches,
	ranking.CategoryBetting,
}

const summaryTop = 5

// MaxDivision is the highest division number an admin can assign;
// 0 clears the division.
const MaxDivision = 8

type RegisterPlayerInput struct {
	Name     string
	Gender   string
	Freshman string
}

type PointAssignment struct {
	PlayerID int64
	Rank     *int
	Achieve  *int
	Betting  *int
}

type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	PlayerID int64   `json:"player_id"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
}

// Leaderboard is one category board. Viewer is set when the viewer ranks
// outside the listed entries.
type Leaderboard struct {
	Category ranking.Category
	Entries  []LeaderboardEntry
	Viewer   *LeaderboardEntry
}

type PlayerDetail struct {
	Player player.Player
	Logs   []pointlog.Entry
}

type statsRebuilder interface {
	RebuildStats(ctx context.Context) (RebuildStatsResult, error)
}

type PlayerService struct {
	store   Store
	ranking *RankingService
	ledger  *PointLedger
	stats   statsRebuilder
	ranks   player.InitialRanks
	logger  *logging.Logger
	now     func() time.Time
}

func NewPlayerService(
	store Store,
	rankingSvc *RankingService,
	ledger *PointLedger,
	stats statsRebuilder,
	ranks player.InitialRanks,
	logger *logging.Logger,
) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerService{
		store:   store,
		ranking: rankingSvc,
		ledger:  ledger,
		stats:   stats,
		ranks:   ranks,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *PlayerService) List(ctx context.Context, filter player.ListFilter) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	items, err := s.store.Players().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return items, nil
}

func (s *PlayerService) Get(ctx context.Context, id int64) (PlayerDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Get")
	defer span.End()

	p, ok, err := s.store.Players().Get(ctx, id)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("get player=%d: %w", id, err)
	}
	if !ok {
		return PlayerDetail{}, fmt.Errorf("%w: player=%d", ErrNotFound, id)
	}
	logs, err := s.ledger.History(ctx, s.store, id, 50)
	if err != nil {
		return PlayerDetail{}, err
	}
	return PlayerDetail{Player: p, Logs: logs}, nil
}

// Register adds every new, complete entry and skips names already taken.
func (s *PlayerService) Register(ctx context.Context, inputs []RegisterPlayerInput) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Register")
	defer span.End()

	type parsed struct {
		name   string
		gender player.Gender
		cohort player.Cohort
	}
	candidates := make([]parsed, 0, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" || strings.TrimSpace(in.Gender) == "" || strings.TrimSpace(in.Freshman) == "" {
			continue
		}
		gender, err := player.ParseGender(in.Gender)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		cohort, err := player.ParseCohort(in.Freshman)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		candidates = append(candidates, parsed{name: name, gender: gender, cohort: cohort})
	}

	added := 0
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		added = 0
		for _, c := range candidates {
			_, exists, err := repos.Players().GetByName(ctx, c.name)
			if err != nil {
				return fmt.Errorf("get player %q: %w", c.name, err)
			}
			if exists {
				continue
			}
			p := player.New(c.name, c.gender, c.cohort, s.ranks, s.now().UTC())
			if err := repos.Players().Create(ctx, &p); err != nil {
				return fmt.Errorf("create player %q: %w", c.name, err)
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "players registered", "added", added, "requested", len(inputs))
	return added, nil
}

// ToggleValidity flips the active flag of every id and re-ranks everyone.
func (s *PlayerService) ToggleValidity(ctx context.Context, ids []int64) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ToggleValidity")
	defer span.End()

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: player ids are required", ErrInvalidInput)
	}
	toggled := 0
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		toggled = 0
		players, err := repos.Players().List(ctx, player.ListFilter{IDs: ids})
		if err != nil {
			return fmt.Errorf("list players for toggle: %w", err)
		}
		for _, p := range players {
			p.IsValid = !p.IsValid
			if err := repos.Players().Update(ctx, p); err != nil {
				return fmt.Errorf("toggle player=%d: %w", p.ID, err)
			}
			toggled++
		}
		return s.ranking.Recompute(ctx, repos, ranking.GroupMatch, ranking.GroupPoint)
	})
	return toggled, err
}

// Purge removes a player with everything that references them, then
// recounts everyone's match statistics.
func (s *PlayerService) Purge(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Purge")
	defer span.End()

	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		p, ok, err := repos.Players().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get player=%d: %w", id, err)
		}
		if !ok {
			return fmt.Errorf("%w: player=%d", ErrNotFound, id)
		}

		if err := repos.Bettings().DeleteParticipantRowsFor(ctx, p.ID); err != nil {
			return fmt.Errorf("delete participant rows player=%d: %w", p.ID, err)
		}
		hosted, err := repos.Bettings().ListByPrincipal(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("list hosted bettings player=%d: %w", p.ID, err)
		}
		for _, b := range hosted {
			if err := repos.Bettings().DeleteAllParticipants(ctx, b.ID); err != nil {
				return fmt.Errorf("delete participants betting=%d: %w", b.ID, err)
			}
			if _, err := repos.Bettings().Delete(ctx, b.ID, b.Approved); err != nil {
				return fmt.Errorf("delete betting=%d: %w", b.ID, err)
			}
		}

		played, err := repos.Matches().List(ctx, match.ListFilter{PlayerID: p.ID})
		if err != nil {
			return fmt.Errorf("list matches player=%d: %w", p.ID, err)
		}
		matchIDs := make([]int64, 0, len(played))
		for _, m := range played {
			matchIDs = append(matchIDs, m.ID)
		}
		if err := repos.Bettings().ClearResults(ctx, matchIDs); err != nil {
			return fmt.Errorf("clear betting results player=%d: %w", p.ID, err)
		}
		if err := repos.Matches().DeleteByPlayer(ctx, p.ID); err != nil {
			return fmt.Errorf("delete matches player=%d: %w", p.ID, err)
		}
		if err := repos.PointLogs().DeleteByPlayer(ctx, p.ID); err != nil {
			return fmt.Errorf("delete point logs player=%d: %w", p.ID, err)
		}
		if err := repos.Partners().DeleteByPlayer(ctx, p.ID); err != nil {
			return fmt.Errorf("delete pairings player=%d: %w", p.ID, err)
		}
		if err := repos.Users().DeleteByPlayer(ctx, p.ID); err != nil {
			return fmt.Errorf("delete account player=%d: %w", p.ID, err)
		}
		if err := repos.Players().Delete(ctx, p.ID); err != nil {
			return fmt.Errorf("delete player=%d: %w", p.ID, err)
		}
		s.logger.InfoContext(ctx, "player purged", "player_id", p.ID, "name", p.Name, "matches", len(matchIDs), "bettings", len(hosted))
		return nil
	})
	if err != nil {
		return err
	}
	if s.stats == nil {
		return nil
	}
	if _, err := s.stats.RebuildStats(ctx); err != nil {
		return fmt.Errorf("rebuild stats after purge: %w", err)
	}
	return nil
}

// SetPoints sets absolute balances and logs the difference.
func (s *PlayerService) SetPoints(ctx context.Context, id int64, achieve, betting *int) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.SetPoints")
	defer span.End()

	var updated player.Player
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		updated, err = s.assign(ctx, repos, PointAssignment{PlayerID: id, Achieve: achieve, Betting: betting})
		if err != nil {
			return err
		}
		return s.ranking.Recompute(ctx, repos, ranking.GroupPoint)
	})
	return updated, err
}

// AddPoints moves the balances of every id by the same deltas.
func (s *PlayerService) AddPoints(ctx context.Context, ids []int64, achieveDelta, bettingDelta int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.AddPoints")
	defer span.End()

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: player ids are required", ErrInvalidInput)
	}
	if achieveDelta == 0 && bettingDelta == 0 {
		return 0, fmt.Errorf("%w: at least one delta is required", ErrInvalidInput)
	}

	changed := 0
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		changed = 0
		players, err := repos.Players().List(ctx, player.ListFilter{IDs: ids})
		if err != nil {
			return fmt.Errorf("list players for points: %w", err)
		}
		for _, p := range players {
			p.AchievePoints += achieveDelta
			p.BettingPoints += bettingDelta
			if err := repos.Players().Update(ctx, p); err != nil {
				return fmt.Errorf("update points player=%d: %w", p.ID, err)
			}
			entry := pointlog.Entry{PlayerID: p.ID, AchieveDelta: achieveDelta, BettingDelta: bettingDelta, Reason: pointlog.ReasonManual}
			if err := s.ledger.Record(ctx, repos, entry); err != nil {
				return err
			}
			changed++
		}
		return s.ranking.Recompute(ctx, repos, ranking.GroupPoint)
	})
	return changed, err
}

// SaveAssignments applies division and point edits for many players.
func (s *PlayerService) SaveAssignments(ctx context.Context, items []PointAssignment) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.SaveAssignments")
	defer span.End()

	if len(items) == 0 {
		return 0, fmt.Errorf("%w: assignments are required", ErrInvalidInput)
	}
	saved := 0
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		saved = 0
		for _, item := range items {
			if _, err := s.assign(ctx, repos, item); err != nil {
				return err
			}
			saved++
		}
		return s.ranking.Recompute(ctx, repos, ranking.GroupPoint)
	})
	return saved, err
}

func (s *PlayerService) SetRank(ctx context.Context, id int64, rank int) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.SetRank")
	defer span.End()

	var updated player.Player
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		updated, err = s.assign(ctx, repos, PointAssignment{PlayerID: id, Rank: &rank})
		return err
	})
	return updated, err
}

func (s *PlayerService) assign(ctx context.Context, repos Repositories, a PointAssignment) (player.Player, error) {
	if a.Rank != nil && (*a.Rank < 0 || *a.Rank > MaxDivision) {
		return player.Player{}, fmt.Errorf("%w: division must be between 0 and %d", ErrInvalidInput, MaxDivision)
	}
	p, ok, err := repos.Players().Get(ctx, a.PlayerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player=%d: %w", a.PlayerID, err)
	}
	if !ok {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, a.PlayerID)
	}

	entry := pointlog.Entry{PlayerID: p.ID, Reason: pointlog.ReasonManual}
	if a.Rank != nil {
		p.Rank = player.IntPtr(*a.Rank)
	}
	if a.Achieve != nil {
		entry.AchieveDelta = *a.Achieve - p.AchievePoints
		p.AchievePoints = *a.Achieve
	}
	if a.Betting != nil {
		entry.BettingDelta = *a.Betting - p.BettingPoints
		p.BettingPoints = *a.Betting
	}
	if err := repos.Players().Update(ctx, p); err != nil {
		return player.Player{}, fmt.Errorf("update player=%d: %w", p.ID, err)
	}
	if err := s.ledger.Record(ctx, repos, entry); err != nil {
		return player.Player{}, err
	}
	return p, nil
}

// Leaderboard lists valid players by the stored dense order of category.
func (s *PlayerService) Leaderboard(ctx context.Context, category ranking.Category, limit int) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Leaderboard")
	defer span.End()

	players, err := s.store.Players().List(ctx, player.ListFilter{ValidOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list players for leaderboard: %w", err)
	}
	entries := boardOf(players, category)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Summary loads the home page boards concurrently. viewerID may be zero.
func (s *PlayerService) Summary(ctx context.Context, viewerID int64) ([]Leaderboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Summary")
	defer span.End()

	p := pool.NewWithResults[Leaderboard]().WithContext(ctx).WithCancelOnError()
	for _, c := range SummaryCategories {
		p.Go(func(ctx context.Context) (Leaderboard, error) {
			all, err := s.Leaderboard(ctx, c, 0)
			if err != nil {
				return Leaderboard{}, err
			}
			board := Leaderboard{Category: c, Entries: all}
			if len(all) > summaryTop {
				board.Entries = all[:summaryTop]
			}
			for i, e := range all {
				if e.PlayerID == viewerID && i >= summaryTop {
					viewer := all[i]
					board.Viewer = &viewer
					break
				}
			}
			return board, nil
		})
	}
	boards, err := p.Wait()
	if err != nil {
		return nil, fmt.Errorf("load leaderboard summary: %w", err)
	}

	position := make(map[ranking.Category]int, len(SummaryCategories))
	for i, c := range SummaryCategories {
		position[c] = i
	}
	sort.Slice(boards, func(i, j int) bool { return position[boards[i].Category] < position[boards[j].Category] })
	return boards, nil
}

func boardOf(players []player.Player, c ranking.Category) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(players))
	for _, p := range players {
		order := c.Order(p.Orders)
		if order == nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{Rank: *order, PlayerID: p.ID, Name: p.Name, Value: c.Value(p)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Rank != entries[j].Rank {
			return entries[i].Rank < entries[j].Rank
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}
