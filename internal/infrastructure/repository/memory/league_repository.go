package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/pingpong-club/internal/domain/division"
	"github.com/riskibarqy/pingpong-club/internal/domain/league"
	"github.com/riskibarqy/pingpong-club/internal/domain/tournament"
)

type LeagueRepository struct {
	s *Store
}

func (r *LeagueRepository) Get(_ context.Context, id int64) (league.League, bool, error) {
	var (
		l  league.League
		ok bool
	)
	r.s.read(func(st *state) {
		l, ok = st.leagues[id]
	})
	return l, ok, nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	var out []league.League
	r.s.read(func(st *state) {
		out = make([]league.League, 0, len(st.leagues))
		for _, l := range st.leagues {
			out = append(out, l)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LeagueRepository) Count(_ context.Context) (int, error) {
	var n int
	r.s.read(func(st *state) {
		n = len(st.leagues)
	})
	return n, nil
}

func (r *LeagueRepository) Create(_ context.Context, l *league.League) error {
	r.s.write(func(st *state) {
		l.ID = st.nextID()
		st.leagues[l.ID] = *l
	})
	return nil
}

func (r *LeagueRepository) InsertResult(_ context.Context, leagueID int64, c league.Cell) (bool, error) {
	var (
		inserted bool
		err      error
	)
	r.s.write(func(st *state) {
		l, ok := st.leagues[leagueID]
		if !ok {
			err = fmt.Errorf("league=%d not found", leagueID)
			return
		}
		if l.Record(c) != nil {
			return
		}
		st.leagues[leagueID] = l
		inserted = true
	})
	return inserted, err
}

func (r *LeagueRepository) DeleteResult(_ context.Context, leagueID int64, c league.Cell) (bool, error) {
	var removed bool
	r.s.write(func(st *state) {
		l, ok := st.leagues[leagueID]
		if !ok || !l.Results.Decided(c) {
			return
		}
		l.Results[c.Winner][c.Loser] = false
		st.leagues[leagueID] = l
		removed = true
	})
	return removed, nil
}

func (r *LeagueRepository) ReplaceResults(_ context.Context, leagueID int64, results league.Results) error {
	var err error
	r.s.write(func(st *state) {
		l, ok := st.leagues[leagueID]
		if !ok {
			err = fmt.Errorf("league=%d not found", leagueID)
			return
		}
		l.Results = results
		st.leagues[leagueID] = l
	})
	return err
}

func (r *LeagueRepository) Delete(_ context.Context, id int64) (bool, error) {
	var removed bool
	r.s.write(func(st *state) {
		if _, ok := st.leagues[id]; ok {
			delete(st.leagues, id)
			removed = true
		}
	})
	return removed, nil
}

type TournamentRepository struct {
	s *Store
}

func (r *TournamentRepository) Get(_ context.Context, id int64) (tournament.Tournament, bool, error) {
	var (
		t  tournament.Tournament
		ok bool
	)
	r.s.read(func(st *state) {
		t, ok = st.tournaments[id]
		t = copyTournament(t)
	})
	return t, ok, nil
}

func (r *TournamentRepository) List(_ context.Context) ([]tournament.Tournament, error) {
	var out []tournament.Tournament
	r.s.read(func(st *state) {
		for _, t := range st.tournaments {
			out = append(out, copyTournament(t))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *TournamentRepository) Create(_ context.Context, t *tournament.Tournament) error {
	r.s.write(func(st *state) {
		t.ID = st.nextID()
		st.tournaments[t.ID] = copyTournament(*t)
	})
	return nil
}

func (r *TournamentRepository) Update(_ context.Context, t tournament.Tournament) error {
	var err error
	r.s.write(func(st *state) {
		if _, ok := st.tournaments[t.ID]; !ok {
			err = fmt.Errorf("tournament=%d not found", t.ID)
			return
		}
		st.tournaments[t.ID] = copyTournament(t)
	})
	return err
}

func (r *TournamentRepository) Delete(_ context.Context, id int64) (bool, error) {
	var removed bool
	r.s.write(func(st *state) {
		if _, ok := st.tournaments[id]; ok {
			delete(st.tournaments, id)
			removed = true
		}
	})
	return removed, nil
}

type UpdateLogRepository struct {
	s *Store
}

func (r *UpdateLogRepository) Create(_ context.Context, log *division.UpdateLog) error {
	r.s.write(func(st *state) {
		log.ID = st.nextID()
		st.updateLogs[log.ID] = copyUpdateLog(*log)
	})
	return nil
}

func (r *UpdateLogRepository) Get(_ context.Context, id int64) (division.UpdateLog, bool, error) {
	var (
		log division.UpdateLog
		ok  bool
	)
	r.s.read(func(st *state) {
		log, ok = st.updateLogs[id]
		log = copyUpdateLog(log)
	})
	return log, ok, nil
}

func (r *UpdateLogRepository) Latest(_ context.Context, kind division.Kind) (division.UpdateLog, bool, error) {
	var (
		out   division.UpdateLog
		found bool
	)
	r.s.read(func(st *state) {
		for _, log := range st.updateLogs {
			if log.Kind != kind {
				continue
			}
			if !found || log.ID > out.ID {
				out, found = log, true
			}
		}
		out = copyUpdateLog(out)
	})
	return out, found, nil
}

func (r *UpdateLogRepository) List(_ context.Context, limit int) ([]division.UpdateLog, error) {
	var out []division.UpdateLog
	r.s.read(func(st *state) {
		for _, log := range st.updateLogs {
			out = append(out, copyUpdateLog(log))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *UpdateLogRepository) Delete(_ context.Context, id int64) (bool, error) {
	var removed bool
	r.s.write(func(st *state) {
		if _, ok := st.updateLogs[id]; ok {
			delete(st.updateLogs, id)
			removed = true
		}
	})
	return removed, nil
}
