package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/pingpong-club/internal/domain/account"
	"github.com/riskibarqy/pingpong-club/internal/domain/betting"
	"github.com/riskibarqy/pingpong-club/internal/domain/division"
	"github.com/riskibarqy/pingpong-club/internal/domain/league"
	"github.com/riskibarqy/pingpong-club/internal/domain/match"
	"github.com/riskibarqy/pingpong-club/internal/domain/partner"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/domain/pointlog"
	"github.com/riskibarqy/pingpong-club/internal/domain/tournament"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

type state struct {
	seq          int64
	players      map[int64]player.Player
	matches      map[int64]match.Match
	logs         []pointlog.Entry
	bettings     map[int64]betting.Betting
	participants map[int64]betting.Participant
	pairings     map[int64]partner.Pairing
	leagues      map[int64]league.League
	tournaments  map[int64]tournament.Tournament
	updateLogs   map[int64]division.UpdateLog
	users        map[int64]account.User
}

func newState() *state {
	return &state{
		players:      make(map[int64]player.Player),
		matches:      make(map[int64]match.Match),
		bettings:     make(map[int64]betting.Betting),
		participants: make(map[int64]betting.Participant),
		pairings:     make(map[int64]partner.Pairing),
		leagues:      make(map[int64]league.League),
		tournaments:  make(map[int64]tournament.Tournament),
		updateLogs:   make(map[int64]division.UpdateLog),
		users:        make(map[int64]account.User),
	}
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *state) clone() *state {
	out := newState()
	out.seq = s.seq
	out.logs = append([]pointlog.Entry(nil), s.logs...)
	for k, v := range s.players {
		out.players[k] = v
	}
	for k, v := range s.matches {
		out.matches[k] = v
	}
	for k, v := range s.bettings {
		out.bettings[k] = copyBetting(v)
	}
	for k, v := range s.participants {
		out.participants[k] = v
	}
	for k, v := range s.pairings {
		out.pairings[k] = v
	}
	for k, v := range s.leagues {
		out.leagues[k] = v
	}
	for k, v := range s.tournaments {
		out.tournaments[k] = copyTournament(v)
	}
	for k, v := range s.updateLogs {
		out.updateLogs[k] = copyUpdateLog(v)
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	return out
}

// Store keeps every table in process memory. Transactions are serialized
// and roll back by restoring a snapshot taken when they began.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	st   *state
}

var _ usecase.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos usecase.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.st.clone()
	s.mu.RUnlock()

	if err := fn(ctx, s); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Players() player.Repository         { return &PlayerRepository{s: s} }
func (s *Store) Matches() match.Repository          { return &MatchRepository{s: s} }
func (s *Store) PointLogs() pointlog.Repository     { return &PointLogRepository{s: s} }
func (s *Store) Bettings() betting.Repository       { return &BettingRepository{s: s} }
func (s *Store) Partners() partner.Repository       { return &PartnerRepository{s: s} }
func (s *Store) Leagues() league.Repository         { return &LeagueRepository{s: s} }
func (s *Store) Tournaments() tournament.Repository { return &TournamentRepository{s: s} }
func (s *Store) UpdateLogs() division.Repository    { return &UpdateLogRepository{s: s} }
func (s *Store) Users() account.Repository          { return &UserRepository{s: s} }

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

func (s *Store) write(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.st)
}

func copyBetting(b betting.Betting) betting.Betting {
	b.BettingDayPlayers = append([]int64(nil), b.BettingDayPlayers...)
	if b.ResultMatchID != nil {
		id := *b.ResultMatchID
		b.ResultMatchID = &id
	}
	return b
}

func copyTournament(t tournament.Tournament) tournament.Tournament {
	rounds := make([][]tournament.Match, len(t.Bracket.Rounds))
	for i, round := range t.Bracket.Rounds {
		rounds[i] = append([]tournament.Match(nil), round...)
	}
	t.Bracket.Rounds = rounds
	return t
}

func copyUpdateLog(l division.UpdateLog) division.UpdateLog {
	l.Rows = append([]division.Row(nil), l.Rows...)
	return l
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
