package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/pingpong-club/internal/domain/match"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/domain/pointlog"
	"github.com/riskibarqy/pingpong-club/internal/domain/ranking"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
)

// LeagueWinBonus is credited to the winner of a league match submitted in a batch.
var LeagueWinBonus = match.Award{Betting: 3}

type SubmitMatchInput struct {
	Winner string
	Loser  string
	Score  string
}

type BatchMatchInput struct {
	Winner string
	Loser  string
	Score  string
	League bool
}

type ApproveMatchesResult struct {
	Approved int `json:"approved"`
	Skipped  int `json:"skipped"`
}

type DeleteMatchesResult struct {
	ApprovedDeleted int `json:"approved_deleted"`
	PendingDeleted  int `json:"pending_deleted"`
}

type RebuildStatsResult struct {
	Players int `json:"players"`
	Matches int `json:"matches"`
}

type MatchService struct {
	store    Store
	ranking  *RankingService
	ledger   *PointLedger
	rules    match.Rules
	workers  int
	logger   *logging.Logger
	recorder Recorder
	now      func() time.Time
}

func NewMatchService(
	store Store,
	rankingSvc *RankingService,
	ledger *PointLedger,
	rules match.Rules,
	workers int,
	logger *logging.Logger,
	recorder Recorder,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &MatchService{
		store:    store,
		ranking:  rankingSvc,
		ledger:   ledger,
		rules:    rules,
		workers:  workers,
		logger:   logger,
		recorder: recorderOrNop(recorder),
		now:      time.Now,
	}
}

func (s *MatchService) ListMatches(ctx context.Context, filter match.ListFilter) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListMatches")
	defer span.End()

	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 200
	}
	items, err := s.store.Matches().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return items, nil
}

// SubmitDirect records a pending result between two valid players and marks
// their pairing of the day as played.
func (s *MatchService) SubmitDirect(ctx context.Context, input SubmitMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SubmitDirect")
	defer span.End()

	input.Winner = strings.TrimSpace(input.Winner)
	input.Loser = strings.TrimSpace(input.Loser)
	input.Score = strings.TrimSpace(input.Score)
	if input.Winner == "" || input.Loser == "" || input.Score == "" {
		return match.Match{}, fmt.Errorf("%w: winner, loser and score are required", ErrInvalidInput)
	}
	if input.Winner == input.Loser {
		return match.Match{}, fmt.Errorf("%w: winner and loser must be different players", ErrInvalidInput)
	}

	var created match.Match
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		winner, err := validPlayerByName(ctx, repos, input.Winner)
		if err != nil {
			return err
		}
		loser, err := validPlayerByName(ctx, repos, input.Loser)
		if err != nil {
			return err
		}

		now := s.now().In(s.rules.Location)
		from, to := dayRange(now, s.rules.Location)
		pairing, ok, err := repos.Partners().Latest(ctx, winner.ID, loser.ID, nil, from, to)
		if err != nil {
			return fmt.Errorf("get today's pairing: %w", err)
		}
		if ok && !pairing.Submitted {
			if err := repos.Partners().SetSubmitted(ctx, pairing.ID, true); err != nil {
				return fmt.Errorf("mark pairing submitted: %w", err)
			}
		}

		created, err = createPendingMatch(ctx, repos, winner, loser, input.Score, now)
		if err != nil {
			return fmt.Errorf("create match: %w", err)
		}
		return nil
	})
	if err != nil {
		return match.Match{}, err
	}

	s.logger.InfoContext(ctx, "match submitted", "match_id", created.ID, "winner", created.WinnerName, "loser", created.LoserName)
	return created, nil
}

// SubmitBatch records every well-formed item and skips the rest. League
// items credit the winner immediately.
func (s *MatchService) SubmitBatch(ctx context.Context, items []BatchMatchInput) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SubmitBatch")
	defer span.End()

	if len(items) == 0 {
		return 0, fmt.Errorf("%w: no matches to submit", ErrInvalidInput)
	}

	created := 0
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		now := s.now().In(s.rules.Location)
		leagueWins := false
		for i, item := range items {
			winnerName := strings.TrimSpace(item.Winner)
			loserName := strings.TrimSpace(item.Loser)
			score := strings.TrimSpace(item.Score)
			if winnerName == "" || loserName == "" || score == "" || winnerName == loserName {
				s.logger.WarnContext(ctx, "skip malformed batch match", "index", i)
				continue
			}
			winner, okW, err := repos.Players().GetByName(ctx, winnerName)
			if err != nil {
				return fmt.Errorf("get winner %q: %w", winnerName, err)
			}
			loser, okL, err := repos.Players().GetByName(ctx, loserName)
			if err != nil {
				return fmt.Errorf("get loser %q: %w", loserName, err)
			}
			if !okW || !okL {
				s.logger.WarnContext(ctx, "skip batch match with unknown player", "index", i, "winner", winnerName, "loser", loserName)
				continue
			}

			if _, err := createPendingMatch(ctx, repos, winner, loser, score, now); err != nil {
				return fmt.Errorf("create batch match: %w", err)
			}
			created++

			if item.League {
				winner.BettingPoints += LeagueWinBonus.Betting
				winner.AchievePoints += LeagueWinBonus.Achieve
				if err := repos.Players().Update(ctx, winner); err != nil {
					return fmt.Errorf("credit league winner=%d: %w", winner.ID, err)
				}
				entry := pointlog.Entry{
					PlayerID:     winner.ID,
					BettingDelta: LeagueWinBonus.Betting,
					AchieveDelta: LeagueWinBonus.Achieve,
					Reason:       "league match win",
				}
				if err := s.ledger.Record(ctx, repos, entry); err != nil {
					return err
				}
				leagueWins = true
			}
		}
		if leagueWins {
			return s.ranking.Recompute(ctx, repos, ranking.GroupPoint)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// Approve applies every pending match in ids exactly once.
func (s *MatchService) Approve(ctx context.Context, ids []int64) (ApproveMatchesResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Approve", batchSizeAttr(ids))
	defer span.End()

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return ApproveMatchesResult{}, fmt.Errorf("%w: match ids are required", ErrInvalidInput)
	}

	var result ApproveMatchesResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		result = ApproveMatchesResult{}
		pending, err := repos.Matches().List(ctx, match.ListFilter{IDs: ids, Approved: boolPtr(false)})
		if err != nil {
			return fmt.Errorf("list pending matches: %w", err)
		}
		for _, m := range pending {
			approved, err := s.approveOne(ctx, repos, m)
			if err != nil {
				return err
			}
			if approved {
				result.Approved++
			} else {
				result.Skipped++
			}
		}
		return s.ranking.Recompute(ctx, repos, ranking.GroupMatch, ranking.GroupPoint)
	})
	if err != nil {
		failSpan(span, err)
		return ApproveMatchesResult{}, err
	}

	s.recorder.Record("match_approved", result.Approved)
	s.logger.InfoContext(ctx, "matches approved", "approved", result.Approved, "skipped", result.Skipped)
	return result, nil
}

func (s *MatchService) approveOne(ctx context.Context, repos Repositories, m match.Match) (bool, error) {
	winner, okW, err := repos.Players().Get(ctx, m.WinnerID)
	if err != nil {
		return false, fmt.Errorf("get winner=%d: %w", m.WinnerID, err)
	}
	loser, okL, err := repos.Players().Get(ctx, m.LoserID)
	if err != nil {
		return false, fmt.Errorf("get loser=%d: %w", m.LoserID, err)
	}
	if !okW || !okL {
		s.logger.WarnContext(ctx, "skip approval with missing player", "match_id", m.ID)
		return false, nil
	}

	bonus := match.AppliedBonus{Weekday: s.rules.IsBonusDay(m.PlayedAt)}
	from, to := dayRange(m.PlayedAt, s.rules.Location)
	_, bonus.Partner, err = repos.Partners().Latest(ctx, m.WinnerID, m.LoserID, boolPtr(true), from, to)
	if err != nil {
		return false, fmt.Errorf("get partner pairing match=%d: %w", m.ID, err)
	}

	gated, err := repos.Matches().MarkApproved(ctx, m.ID, bonus)
	if err != nil {
		return false, fmt.Errorf("approve match=%d: %w", m.ID, err)
	}
	if !gated {
		return false, nil
	}

	sides := []struct {
		p    player.Player
		side match.Side
	}{{winner, match.SideWinner}, {loser, match.SideLoser}}
	for _, item := range sides {
		opponents, err := repos.Matches().CountOpponents(ctx, item.p.ID)
		if err != nil {
			return false, fmt.Errorf("count opponents player=%d: %w", item.p.ID, err)
		}
		effect := s.rules.Apply(item.p, item.side, opponents, bonus)
		if err := s.persistEffect(ctx, repos, effect); err != nil {
			return false, err
		}
		if effect.Graduated {
			s.logger.InfoContext(ctx, "freshman graduated", "player_id", item.p.ID, "rank", *effect.Player.Rank)
		}
	}
	return true, nil
}

// Delete removes matches one by one. Approved matches are reversed; pending
// ones release their pairing.
func (s *MatchService) Delete(ctx context.Context, ids []int64) (DeleteMatchesResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete", batchSizeAttr(ids))
	defer span.End()

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return DeleteMatchesResult{}, fmt.Errorf("%w: match ids are required", ErrInvalidInput)
	}

	var result DeleteMatchesResult
	for _, id := range ids {
		var (
			removed  bool
			approved bool
		)
		err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
			// Branch on the state read in this transaction; the delete
			// itself is gated on it as well.
			m, ok, err := repos.Matches().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("get match=%d for delete: %w", id, err)
			}
			if !ok {
				return nil
			}
			approved = m.Approved
			if approved {
				removed, err = s.deleteApproved(ctx, repos, m)
			} else {
				removed, err = s.deletePending(ctx, repos, m)
			}
			return err
		})
		if err != nil {
			failSpan(span, err)
			return result, err
		}
		switch {
		case !removed:
			s.logger.WarnContext(ctx, "skip match delete, row changed or missing", "match_id", id)
		case approved:
			result.ApprovedDeleted++
		default:
			result.PendingDeleted++
		}
	}

	if err := s.ranking.RecomputeAll(ctx); err != nil {
		return result, err
	}
	s.recorder.Record("match_deleted", result.ApprovedDeleted+result.PendingDeleted)
	s.logger.InfoContext(ctx, "matches deleted", "approved", result.ApprovedDeleted, "pending", result.PendingDeleted)
	return result, nil
}

func (s *MatchService) deletePending(ctx context.Context, repos Repositories, m match.Match) (bool, error) {
	removed, err := repos.Matches().Delete(ctx, m.ID, false)
	if err != nil {
		return false, fmt.Errorf("delete pending match=%d: %w", m.ID, err)
	}
	if !removed {
		return false, nil
	}
	if err := repos.Bettings().ClearResults(ctx, []int64{m.ID}); err != nil {
		return false, fmt.Errorf("clear betting results match=%d: %w", m.ID, err)
	}

	from, to := dayRange(m.PlayedAt, s.rules.Location)
	pairing, ok, err := repos.Partners().Latest(ctx, m.WinnerID, m.LoserID, boolPtr(true), from, to)
	if err != nil {
		return false, fmt.Errorf("get pairing for pending match=%d: %w", m.ID, err)
	}
	if ok {
		if err := repos.Partners().SetSubmitted(ctx, pairing.ID, false); err != nil {
			return false, fmt.Errorf("reset pairing=%d: %w", pairing.ID, err)
		}
	}
	return true, nil
}

func (s *MatchService) deleteApproved(ctx context.Context, repos Repositories, m match.Match) (bool, error) {
	removed, err := repos.Matches().Delete(ctx, m.ID, true)
	if err != nil {
		return false, fmt.Errorf("delete approved match=%d: %w", m.ID, err)
	}
	if !removed {
		return false, nil
	}
	if err := repos.Bettings().ClearResults(ctx, []int64{m.ID}); err != nil {
		return false, fmt.Errorf("clear betting results match=%d: %w", m.ID, err)
	}

	winner, okW, err := repos.Players().Get(ctx, m.WinnerID)
	if err != nil {
		return false, fmt.Errorf("get winner=%d: %w", m.WinnerID, err)
	}
	loser, okL, err := repos.Players().Get(ctx, m.LoserID)
	if err != nil {
		return false, fmt.Errorf("get loser=%d: %w", m.LoserID, err)
	}
	if !okW || !okL {
		s.logger.WarnContext(ctx, "deleted match without reversal, player missing", "match_id", m.ID)
		return true, nil
	}

	sides := []struct {
		p    player.Player
		side match.Side
	}{{winner, match.SideWinner}, {loser, match.SideLoser}}
	for _, item := range sides {
		opponents, err := repos.Matches().CountOpponents(ctx, item.p.ID)
		if err != nil {
			return false, fmt.Errorf("count opponents player=%d: %w", item.p.ID, err)
		}
		effect := s.rules.Revert(item.p, item.side, opponents, m.Bonus)
		if err := s.persistEffect(ctx, repos, effect); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *MatchService) persistEffect(ctx context.Context, repos Repositories, effect match.Effect) error {
	if err := repos.Players().Update(ctx, effect.Player); err != nil {
		return fmt.Errorf("update player=%d: %w", effect.Player.ID, err)
	}
	return s.ledger.RecordCredits(ctx, repos, effect.Player.ID, effect.Credits)
}

type playerStats struct {
	id        int64
	wins      int
	losses    int
	opponents int
	err       error
}

// RebuildStats recounts every valid player's match counters from approved
// matches. Reads fan out over a worker pool; writes happen in one transaction.
func (s *MatchService) RebuildStats(ctx context.Context) (RebuildStatsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RebuildStats")
	defer span.End()

	players, err := s.store.Players().List(ctx, player.ListFilter{ValidOnly: true})
	if err != nil {
		return RebuildStatsResult{}, fmt.Errorf("list players for rebuild: %w", err)
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return RebuildStatsResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	stats := make([]playerStats, len(players))
	var workers sync.WaitGroup
	for i, p := range players {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			stats[i] = s.countStats(ctx, p.ID)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return RebuildStatsResult{}, fmt.Errorf("submit rebuild task: %w", err)
		}
	}
	workers.Wait()

	result := RebuildStatsResult{Players: len(players)}
	byID := make(map[int64]playerStats, len(stats))
	for _, st := range stats {
		if st.err != nil {
			return RebuildStatsResult{}, st.err
		}
		byID[st.id] = st
		result.Matches += st.wins
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		for _, p := range players {
			st := byID[p.ID]
			p.WinCount = st.wins
			p.LossCount = st.losses
			p.MatchCount = st.wins + st.losses
			p.OpponentCount = st.opponents
			p.RecomputeRate()
			if err := repos.Players().Update(ctx, p); err != nil {
				return fmt.Errorf("update rebuilt player=%d: %w", p.ID, err)
			}
		}
		return s.ranking.Recompute(ctx, repos, ranking.GroupMatch)
	})
	if err != nil {
		return RebuildStatsResult{}, err
	}

	s.logger.InfoContext(ctx, "player stats rebuilt", "players", result.Players)
	return result, nil
}

func (s *MatchService) countStats(ctx context.Context, playerID int64) playerStats {
	out := playerStats{id: playerID}
	matches, err := s.store.Matches().List(ctx, match.ListFilter{PlayerID: playerID, Approved: boolPtr(true)})
	if err != nil {
		out.err = fmt.Errorf("list approved matches player=%d: %w", playerID, err)
		return out
	}
	for _, m := range matches {
		if m.WinnerID == playerID {
			out.wins++
		} else {
			out.losses++
		}
	}
	out.opponents, err = s.store.Matches().CountOpponents(ctx, playerID)
	if err != nil {
		out.err = fmt.Errorf("count opponents player=%d: %w", playerID, err)
	}
	return out
}

// createPendingMatch stores an unapproved match between winner and loser.
func createPendingMatch(ctx context.Context, repos Repositories, winner, loser player.Player, score string, playedAt time.Time) (match.Match, error) {
	m := match.Match{
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
		LoserID:    loser.ID,
		LoserName:  loser.Name,
		Score:      strings.TrimSpace(score),
		PlayedAt:   playedAt,
	}
	if err := m.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := repos.Matches().Create(ctx, &m); err != nil {
		return match.Match{}, err
	}
	return m, nil
}

func validPlayerByName(ctx context.Context, repos Repositories, name string) (player.Player, error) {
	p, ok, err := repos.Players().GetByName(ctx, name)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player %q: %w", name, err)
	}
	if !ok {
		return player.Player{}, fmt.Errorf("%w: player %q", ErrNotFound, name)
	}
	if !p.IsValid {
		return player.Player{}, fmt.Errorf("%w: player %q is not active", ErrInvalidInput, name)
	}
	return p, nil
}
