package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/pingpong-club/internal/domain/betting"
	"github.com/riskibarqy/pingpong-club/internal/domain/match"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/domain/pointlog"
	"github.com/riskibarqy/pingpong-club/internal/domain/ranking"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
)

// BettingDayBonus is credited once per club day to everyone involved in an
// approved betting on the betting day.
const BettingDayBonus = 10

type CreateBettingInput struct {
	P1ID           int64
	P2ID           int64
	Point          int
	ParticipantIDs []int64
}

type ParticipantInput struct {
	PlayerID int64
	WinnerID *int64
}

type SubmitBettingResultInput struct {
	BettingID  int64
	WinnerName string
	Score      string
}

// BettingPreview is what a submitted result would pay once approved.
type BettingPreview struct {
	MatchID           int64    `json:"match_id"`
	WinnerName        string   `json:"winner_name"`
	LoserName         string   `json:"loser_name"`
	WinParticipants   []string `json:"win_participants"`
	LoseParticipants  []string `json:"lose_participants"`
	DistributedPoints int      `json:"distributed_points"`
}

// BettingView is a betting with its participants and result match.
type BettingView struct {
	Betting      betting.Betting
	Participants []betting.Participant
	Match        *match.Match
}

type BettingBatchResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	// Unreversed counts approved bettings deleted while their settlement
	// could not be reversed.
	Unreversed int `json:"unreversed,omitempty"`
}

type BettingService struct {
	store      Store
	ranking    *RankingService
	ledger     *PointLedger
	bettingDay time.Weekday
	location   *time.Location
	logger     *logging.Logger
	recorder   Recorder
	now        func() time.Time
}

func NewBettingService(
	store Store,
	rankingSvc *RankingService,
	ledger *PointLedger,
	bettingDay time.Weekday,
	location *time.Location,
	logger *logging.Logger,
	recorder Recorder,
) *BettingService {
	if logger == nil {
		logger = logging.Default()
	}
	if location == nil {
		location = time.UTC
	}
	return &BettingService{
		store:      store,
		ranking:    rankingSvc,
		ledger:     ledger,
		bettingDay: bettingDay,
		location:   location,
		logger:     logger,
		recorder:   recorderOrNop(recorder),
		now:        time.Now,
	}
}

func (s *BettingService) List(ctx context.Context, filter betting.ListFilter) ([]betting.Betting, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BettingService.List")
	defer span.End()

	items, err := s.store.Bettings().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bettings: %w", err)
	}
	return items, nil
}

func (s *BettingService) Get(ctx context.Context, id int64) (BettingView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BettingService.Get")
	defer span.End()

	b, err := getBetting(ctx, s.store, id)
	if err != nil {
		return BettingView{}, err
	}
	participants, err := s.store.Bettings().ListParticipants(ctx, id)
	if err != nil {
		return BettingView{}, fmt.Errorf("list participants betting=%d: %w", id, err)
	}
	view := BettingView{Betting: b, Participants: participants}
	if b.ResultMatchID != nil {
		m, ok, err := s.store.Matches().Get(ctx, *b.ResultMatchID)
		if err != nil {
			return BettingView{}, fmt.Errorf("get result match betting=%d: %w", id, err)
		}
		if ok {
			view.Match = &m
		}
	}
	return view, nil
}

func (s *BettingService) Create(ctx context.Context, input CreateBettingInput) (betting.Betting, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BettingService.Create")
	defer span.End()

	if input.P1ID == input.P2ID {
		return betting.Betting{}, fmt.Errorf("%w: betting players must be different", ErrInvalidInput)
	}
	if input.Point <= 0 {
		return betting.Betting{}, fmt.Errorf("%w: betting point must be greater than zero", ErrInvalidInput)
	}

	var created betting.Betting
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		p1, err := validPlayerByID(ctx, repos, input.P1ID)
		if err != nil {
			return err
		}
		p2, err := validPlayerByID(ctx, repos, input.P2ID)
		if err != nil {
			return err
		}

		created = betting.Betting{
			P1ID:      p1.ID,
			P1Name:    p1.Name,
			P2ID:      p2.ID,
			P2Name:    p2.Name,
			Point:     input.Point,
			CreatedAt: s.now().UTC(),
		}
		if err := created.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := repos.Bettings().Create(ctx, &created); err != nil {
			return fmt.Errorf("create betting: %w", err)
		}
		_, err = s.addParticipants(ctx, repos, created, input.ParticipantIDs)
		return err
	})
	if err != nil {
		return betting.Betting{}, err
	}

	s.logger.InfoContext(ctx, "betting created", "betting_id", created.ID, "p1", created.P1Name, "p2", created.P2Name, "point", created.Point)
	return created, nil
}

// addParticipants adds players without a guess, skipping principals,
// unknown ids and existing participants.
func (s *BettingService) addParticipants(ctx context.Context, repos Repositories, b betting.Betting, ids []int64) (int, error) {
	existing, err := repos.Bettings().ListParticipants(ctx, b.ID)
	if err != nil {
		return 0, fmt.Errorf("list participants betting=%d: %w", b.ID, err)
	}
	present := make(map[int64]struct{}, len(existing))
	for _, p := range existing {
		present[p.PlayerID] = struct{}{}
	}

	added := 0
	for _, id := range uniqueIDs(ids) {
		if b.IsPrincipal(id) {
			continue
		}
		if _, ok := present[id]; ok {
			continue
		}
		p, ok, err := repos.Players().Get(ctx, id)
		if err != nil {
			return added, fmt.Errorf("get participant player=%d: %w", id, err)
		}
		if !ok {
			continue
		}
		row := betting.Participant{BettingID: b.ID, PlayerID: p.ID, PlayerName: p.Name}
		if err := repos.Bettings().UpsertParticipant(ctx, &row); err != nil {
			return added, fmt.Errorf("add participant player=%d: %w", id, err)
		}
		added++
	}
	return added, nil
}

// PlaceBet records or changes bettorID's guess while the betting is open.
func (s *BettingService) PlaceBet(ctx context.Context, bettorID, bettingID, guessID int64) (betting.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BettingService.PlaceBet")
	defer span.End()

	var placed betting.Participant
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		b, err := getBetting(ctx, repos, bettingID)
		if err != nil {
			return err
		}
		switch {
		case b.Submitted:
			return fmt.Errorf("%w: betting result was already submitted", ErrConflict)
		case b.Closed:
			return fmt.Errorf("%w: betting is closed", ErrConflict)
		case b.IsPrincipal(bettorID):
			return fmt.Errorf("%w: players cannot bet on their own match", ErrForbidden)
		case !b.IsPrincipal(guessID):
			return fmt.Errorf("%w: guess must be one of the two players", ErrInvalidInput)
		}

		bettor, ok, err := repos.Players().Get(ctx, bettorID)
		if err != nil {
			return fmt.Errorf("get bettor=%d: %w", bettorID, err)
		}
		if !ok {
			return fmt.Errorf("%w: bettor=%d", ErrNotFound, bettorID)
		}

		guess := guessID
		placed = betting.Participant{BettingID: b.ID, PlayerID: bettor.ID, PlayerName: bettor.Name, WinnerID: &guess}
		if err := repos.Bettings().UpsertParticipant(ctx, &placed); err != nil {
			return fmt.Errorf("place bet betting=%d: %w", b.ID, err)
		}
		return nil
	})
	if err != nil {
		return betting.Participant{}, err
	}
	return placed, nil
}

func (s *BettingService) AddParticipants(ctx context.Context, bettingID int64, playerIDs []int64) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BettingService.AddParticipants")
	defer span.End()

	if len(playerIDs) == 0 {
		return 0, fmt.Errorf("%w: player ids are required", ErrInvalidInput)
	}
	var added int
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		b, err := editableBetting(ctx, repos, bettingID)
		if err != nil {
			return err
		}
		added, err = s.addParticipants(ctx, repos, b, playerIDs)
		return err
	})
	return added, err
}

func (s *BettingService) RemoveParticipants(ctx context.Context, bettingID int64, playerIDs []int64) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BettingService.RemoveParticipants")
	defer span.End()

	playerIDs = uniqueIDs(playerIDs)
	if len(playerIDs) == 0 {
		return 0, fmt.Errorf("%w: player ids are required", ErrInvalidInput)
	}
	var removed int
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		if _, err := editableBetting(ctx, repos, bettingID); err != nil {
			return err
		}
		var err error
		removed, err = repos.Bettings().DeleteParticipants(ctx, bettingID, playerIDs)
		if err != nil {
			return fmt.Errorf("remove participants betting=%d: %w", bettingID, err)
		}
		if removed == 0 {
			return fmt.Errorf("%w: no matching participants", ErrNotFound)
		}
		return nil
	})
	return removed, err
}

// UpdateParticipants replaces the participant set. Guesses already placed
// cannot be changed; an empty guess can be filled in.
func (s *BettingService) UpdateParticipants(ctx context.Context, bettingID int64, inputs []ParticipantInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BettingService.UpdateParticipants")
	defer span.End()

	return s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		b, err := editableBetting(ctx, repos, bettingID)
		if err != nil {
			return err
		}
		existing, err := repos.Bettings().ListParticipants(ctx, b.ID)
		if err != nil {
			return fmt.Errorf("list participants betting=%d: %w", b.ID, err)
		}
		current := make(map[int64]betting.Participant, len(existing))
		for _, p := range existing {
			current[p.PlayerID] = p
		}

		wanted := make(map[int64]struct{}, len(inputs))
		for _, in := range inputs {
			wanted[in.PlayerID] = struct{}{}
		}
		var drop []int64
		for id := range current {
			if _, keep := wanted[id]; !keep {
				drop = append(drop, id)
			}
		}
		if len(drop) > 0 {
			if _, err := repos.Bettings().DeleteParticipants(ctx, b.ID, drop); err != nil {
				return fmt.Errorf("remove participants betting=%d: %w", b.ID, err)
			}
		}

		for _, in := range inputs {
			if b.IsPrincipal(in.PlayerID) {
				continue
			}
			if in.WinnerID != nil && !b.IsPrincipal(*in.WinnerID) {
				return fmt.Errorf("%w: guess of player=%d must be one of the two players", ErrInvalidInput, in.PlayerID)
			}
			row, ok := current[in.PlayerID]
			if ok {
				if row.WinnerID != nil {
					if in.WinnerID == nil || *in.WinnerID != *row.WinnerID {
						return fmt.Errorf("%w: prediction of %s is already saved", ErrConflict, row.PlayerName)
					}
					continue
				}
				if in.WinnerID == nil {
					continue
				}
				row.WinnerID = in.WinnerID
			} else {
				p, found, err := repos.Players().Get(ctx, in.PlayerID)
				if err != nil {
					return fmt.Errorf("get participant player=%d: %w", in.PlayerID, err)
				}
				if !found {
					continue
				}
				row = betting.Participant{BettingID: b.ID, PlayerID: p.ID, PlayerName: p.Name, WinnerID: in.WinnerID}
			}
			if err := repos.Bettings().UpsertParticipant(ctx, &row); err != nil {
				return fmt.Errorf("save participant player=%d: %w", in.PlayerID, err)
			}
		}
		return nil
	})
}

func (s *BettingService) ToggleClose(ctx context.Context, bettingID int64) (betting.Betting, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BettingService.ToggleClose")
	defer span.End()

	var updated betting.Betting
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		b, err := getBetting(ctx, repos, bettingID)
		if err != nil {
			return err
		}
		if b.Submitted {
			return fmt.Errorf("%w: betting result was already submitted", ErrConflict)
		}
		b.Closed = !b.Closed
		if err := repos.Bettings().Update(ctx, b); err != nil {
			return fmt.Errorf("update betting=%d: %w", b.ID, err)
		}
		updated = b
		return nil
	})
	return updated, err
}

// SubmitResult creates the pending match of a betting and closes it. Points
// move only on approval.
func (s *BettingService) SubmitResult(ctx context.Context, input SubmitBettingResultInput) (BettingPreview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BettingService.SubmitResult")
	defer span.End()

	input.WinnerName = strings.TrimSpace(input.WinnerName)
	input.Score = strings.TrimSpace(input.Score)
	if input.BettingID <= 0 || input.WinnerName == "" || input.Score == "" {
		return BettingPreview{}, fmt.Errorf("%w: betting, winner and score are required", ErrInvalidInput)
	}

	var preview BettingPreview
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		b, err := getBetting(ctx, repos, input.BettingID)
		if err != nil {
			return err
		}
		if b.Submitted {
			return fmt.Errorf("%w: betting result was already submitted", ErrConflict)
		}

		var winnerID int64
		switch input.WinnerName {
		case b.P1Name:
			winnerID = b.P1ID
		case b.P2Name:
			winnerID = b.P2ID
		default:
			return fmt.Errorf("%w: %q is not playing in this betting", ErrInvalidInput, input.WinnerName)
		}
		loserID, _, _ := b.Other(winnerID)

		winner, ok, err := repos.Players().Get(ctx, winnerID)
		if err != nil {
			return fmt.Errorf("get winner=%d: %w", winnerID, err)
		}
		loser, okL, err := repos.Players().Get(ctx, loserID)
		if err != nil {
			return fmt.Errorf("get loser=%d: %w", loserID, err)
		}
		if !ok || !okL {
			return fmt.Errorf("%w: betting players no longer exist", ErrNotFound)
		}

		m, err := createPendingMatch(ctx, repos, winner, loser, input.Score, s.now().In(s.location))
		if err != nil {
			return fmt.Errorf("create betting match: %w", err)
		}
		b.ResultMatchID = &m.ID
		b.Submitted = true
		b.Closed = true
		if err := repos.Bettings().Update(ctx, b); err != nil {
			return fmt.Errorf("update betting=%d: %w", b.ID, err)
		}

		participants, err := repos.Bettings().ListParticipants(ctx, b.ID)
		if err != nil {
			return fmt.Errorf("list participants betting=%d: %w", b.ID, err)
		}
		settlement := betting.Settle(b, participants, winner.ID)
		preview = BettingPreview{
			MatchID:           m.ID,
			WinnerName:        winner.Name,
			LoserName:         loser.Name,
			WinParticipants:   []string{},
			LoseParticipants:  []string{},
			DistributedPoints: settlement.Share,
		}
		for _, p := range participants {
			switch {
			case p.WinnerID == nil:
			case *p.WinnerID == winner.ID:
				preview.WinParticipants = append(preview.WinParticipants, p.PlayerName)
			default:
				preview.LoseParticipants = append(preview.LoseParticipants, p.PlayerName)
			}
		}
		return nil
	})
	if err != nil {
		return BettingPreview{}, err
	}
	return preview, nil
}

// Approve settles every unapproved betting in ids exactly once.
func (s *BettingService) Approve(ctx context.Context, ids []int64) (BettingBatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BettingService.Approve", batchSizeAttr(ids))
	defer span.End()

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return BettingBatchResult{}, fmt.Errorf("%w: betting ids are required", ErrInvalidInput)
	}

	var result BettingBatchResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		result = BettingBatchResult{}
		items, err := repos.Bettings().List(ctx, betting.ListFilter{IDs: ids, Approved: boolPtr(false)})
		if err != nil {
			return fmt.Errorf("list unapproved bettings: %w", err)
		}
		for _, b := range items {
			ok, err := s.approveOne(ctx, repos, b)
			if err != nil {
				return err
			}
			if ok {
				result.Processed++
			} else {
				result.Skipped++
			}
		}
		return s.ranking.Recompute(ctx, repos, ranking.GroupPoint)
	})
	if err != nil {
		failSpan(span, err)
		return BettingBatchResult{}, err
	}

	s.recorder.Record("betting_settled", result.Processed)
	s.logger.InfoContext(ctx, "bettings approved", "approved", result.Processed, "skipped", result.Skipped)
	return result, nil
}

// settlementPlan is a settlement resolved against existing rows.
type settlementPlan struct {
	settlement betting.Settlement
	reason     string
}

func (s *BettingService) plan(ctx context.Context, repos Repositories, b betting.Betting) (settlementPlan, bool, error) {
	if b.ResultMatchID == nil {
		return settlementPlan{}, false, nil
	}
	m, ok, err := repos.Matches().Get(ctx, *b.ResultMatchID)
	if err != nil {
		return settlementPlan{}, false, fmt.Errorf("get result match betting=%d: %w", b.ID, err)
	}
	if !ok {
		return settlementPlan{}, false, nil
	}
	for _, id := range []int64{m.WinnerID, m.LoserID} {
		_, exists, err := repos.Players().Get(ctx, id)
		if err != nil {
			return settlementPlan{}, false, fmt.Errorf("get principal=%d: %w", id, err)
		}
		if !exists {
			return settlementPlan{}, false, nil
		}
	}
	participants, err := repos.Bettings().ListParticipants(ctx, b.ID)
	if err != nil {
		return settlementPlan{}, false, fmt.Errorf("list participants betting=%d: %w", b.ID, err)
	}
	plan := settlementPlan{
		settlement: betting.Settle(b, participants, m.WinnerID),
		reason:     fmt.Sprintf("%s vs %s betting", m.WinnerName, m.LoserName),
	}
	return plan, true, nil
}

func (s *BettingService) approveOne(ctx context.Context, repos Repositories, b betting.Betting) (bool, error) {
	plan, ok, err := s.plan(ctx, repos, b)
	if err != nil {
		return false, err
	}
	if !ok {
		s.logger.WarnContext(ctx, "skip betting approval, result or player missing", "betting_id", b.ID)
		return false, nil
	}

	now := s.now().In(s.location)
	var awarded []int64
	if now.Weekday() == s.bettingDay {
		from, to := dayRange(now, s.location)
		for _, id := range uniqueIDs(plan.settlement.Payers) {
			had, err := repos.PointLogs().ExistsBetween(ctx, id, pointlog.ReasonBettingDay, from, to)
			if err != nil {
				return false, fmt.Errorf("check betting day bonus player=%d: %w", id, err)
			}
			if !had {
				awarded = append(awarded, id)
			}
		}
	}

	gated, err := repos.Bettings().MarkApproved(ctx, b.ID, awarded)
	if err != nil {
		return false, fmt.Errorf("approve betting=%d: %w", b.ID, err)
	}
	if !gated {
		return false, nil
	}

	st := plan.settlement
	principalReason := plan.reason + " hosted"
	for _, id := range st.Payers {
		reason := plan.reason + " participated"
		if b.IsPrincipal(id) {
			reason = principalReason
		}
		if err := s.move(ctx, repos, id, -st.Stake, reason); err != nil {
			return false, err
		}
	}
	for _, id := range st.Correct {
		if err := s.move(ctx, repos, id, st.Share, plan.reason+" won"); err != nil {
			return false, err
		}
	}
	if err := s.move(ctx, repos, st.WinnerID, st.Share, plan.reason+" match win"); err != nil {
		return false, err
	}
	for _, id := range awarded {
		if err := s.move(ctx, repos, id, BettingDayBonus, pointlog.ReasonBettingDay); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Delete removes bettings. Approved ones have their settlement and betting
// day bonuses reversed. When the result match or a principal is gone the
// settlement stays in place and the betting is still removed.
func (s *BettingService) Delete(ctx context.Context, ids []int64) (BettingBatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BettingService.Delete", batchSizeAttr(ids))
	defer span.End()

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return BettingBatchResult{}, fmt.Errorf("%w: betting ids are required", ErrInvalidInput)
	}

	var result BettingBatchResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		result = BettingBatchResult{}
		items, err := repos.Bettings().List(ctx, betting.ListFilter{IDs: ids})
		if err != nil {
			return fmt.Errorf("list bettings for delete: %w", err)
		}
		for _, b := range items {
			var (
				plan       settlementPlan
				reversible bool
			)
			if b.Approved {
				// Participants are read before the row goes away.
				plan, reversible, err = s.plan(ctx, repos, b)
				if err != nil {
					return err
				}
			}
			removed, err := repos.Bettings().Delete(ctx, b.ID, b.Approved)
			if err != nil {
				return fmt.Errorf("delete betting=%d: %w", b.ID, err)
			}
			if !removed {
				s.logger.WarnContext(ctx, "skip betting delete, row changed or missing", "betting_id", b.ID)
				result.Skipped++
				continue
			}
			if err := repos.Bettings().DeleteAllParticipants(ctx, b.ID); err != nil {
				return fmt.Errorf("delete participants betting=%d: %w", b.ID, err)
			}
			if b.Approved {
				if err := s.reverse(ctx, repos, b, plan, reversible); err != nil {
					return err
				}
				if !reversible {
					s.logger.WarnContext(ctx, "betting deleted without settlement reversal, result or player missing", "betting_id", b.ID)
					result.Unreversed++
				}
			}
			result.Processed++
		}
		return s.ranking.Recompute(ctx, repos, ranking.GroupPoint)
	})
	if err != nil {
		failSpan(span, err)
		return BettingBatchResult{}, err
	}
	s.logger.InfoContext(ctx, "bettings deleted", "deleted", result.Processed, "skipped", result.Skipped, "unreversed", result.Unreversed)
	return result, nil
}

// reverse undoes an approved betting. The settlement is only moved back
// when settle is set; betting day bonuses are always revoked.
func (s *BettingService) reverse(ctx context.Context, repos Repositories, b betting.Betting, plan settlementPlan, settle bool) error {
	if settle {
		st := plan.settlement
		for _, id := range st.Receivers() {
			if err := s.move(ctx, repos, id, -st.Share, plan.reason+" revoked"); err != nil {
				return err
			}
		}
		for _, id := range st.Payers {
			if err := s.move(ctx, repos, id, st.Stake, plan.reason+" refund"); err != nil {
				return err
			}
		}
	}
	for _, id := range b.BettingDayPlayers {
		if err := s.move(ctx, repos, id, -BettingDayBonus, pointlog.ReasonBettingDayRevoked); err != nil {
			return err
		}
	}
	return nil
}

// move changes a player's betting balance and logs it. Missing players are
// skipped since participants may have been purged.
func (s *BettingService) move(ctx context.Context, repos Repositories, playerID int64, delta int, reason string) error {
	p, ok, err := repos.Players().Get(ctx, playerID)
	if err != nil {
		return fmt.Errorf("get player=%d: %w", playerID, err)
	}
	if !ok {
		return nil
	}
	p.BettingPoints += delta
	if err := repos.Players().Update(ctx, p); err != nil {
		return fmt.Errorf("update betting points player=%d: %w", playerID, err)
	}
	entry := pointlog.Entry{PlayerID: playerID, BettingDelta: delta, Reason: reason, CreatedAt: s.now().UTC()}
	return s.ledger.Record(ctx, repos, entry)
}

func getBetting(ctx context.Context, repos Repositories, id int64) (betting.Betting, error) {
	if id <= 0 {
		return betting.Betting{}, fmt.Errorf("%w: betting id is required", ErrInvalidInput)
	}
	b, ok, err := repos.Bettings().Get(ctx, id)
	if err != nil {
		return betting.Betting{}, fmt.Errorf("get betting=%d: %w", id, err)
	}
	if !ok {
		return betting.Betting{}, fmt.Errorf("%w: betting=%d", ErrNotFound, id)
	}
	return b, nil
}

func editableBetting(ctx context.Context, repos Repositories, id int64) (betting.Betting, error) {
	b, err := getBetting(ctx, repos, id)
	if err != nil {
		return betting.Betting{}, err
	}
	if b.Submitted {
		return betting.Betting{}, fmt.Errorf("%w: betting result was already submitted", ErrConflict)
	}
	return b, nil
}

func validPlayerByID(ctx context.Context, repos Repositories, id int64) (player.Player, error) {
	p, ok, err := repos.Players().Get(ctx, id)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player=%d: %w", id, err)
	}
	if !ok {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, id)
	}
	if !p.IsValid {
		return player.Player{}, fmt.Errorf("%w: player %q is not active", ErrInvalidInput, p.Name)
	}
	return p, nil
}
