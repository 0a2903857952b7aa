package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/pingpong-club/internal/domain/betting"
)

type BettingRepository struct {
	s *Store
}

func (r *BettingRepository) Get(_ context.Context, id int64) (betting.Betting, bool, error) {
	var (
		b  betting.Betting
		ok bool
	)
	r.s.read(func(st *state) {
		b, ok = st.bettings[id]
		b = copyBetting(b)
	})
	return b, ok, nil
}

func (r *BettingRepository) List(_ context.Context, filter betting.ListFilter) ([]betting.Betting, error) {
	var out []betting.Betting
	r.s.read(func(st *state) {
		for _, b := range st.bettings {
			if len(filter.IDs) > 0 && !containsID(filter.IDs, b.ID) {
				continue
			}
			if filter.Approved != nil && b.Approved != *filter.Approved {
				continue
			}
			if filter.Submitted != nil && b.Submitted != *filter.Submitted {
				continue
			}
			if filter.PlayerID > 0 && !b.IsPrincipal(filter.PlayerID) && !participates(st, b.ID, filter.PlayerID) {
				continue
			}
			out = append(out, copyBetting(b))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func participates(st *state, bettingID, playerID int64) bool {
	for _, p := range st.participants {
		if p.BettingID == bettingID && p.PlayerID == playerID {
			return true
		}
	}
	return false
}

func (r *BettingRepository) Create(_ context.Context, b *betting.Betting) error {
	r.s.write(func(st *state) {
		b.ID = st.nextID()
		st.bettings[b.ID] = copyBetting(*b)
	})
	return nil
}

func (r *BettingRepository) Update(_ context.Context, b betting.Betting) error {
	var err error
	r.s.write(func(st *state) {
		if _, ok := st.bettings[b.ID]; !ok {
			err = fmt.Errorf("betting=%d not found", b.ID)
			return
		}
		st.bettings[b.ID] = copyBetting(b)
	})
	return err
}

func (r *BettingRepository) MarkApproved(_ context.Context, id int64, bettingDayPlayers []int64) (bool, error) {
	var flipped bool
	r.s.write(func(st *state) {
		b, ok := st.bettings[id]
		if !ok || b.Approved {
			return
		}
		b.Approved = true
		b.BettingDayPlayers = append([]int64(nil), bettingDayPlayers...)
		st.bettings[id] = b
		flipped = true
	})
	return flipped, nil
}

func (r *BettingRepository) Delete(_ context.Context, id int64, approved bool) (bool, error) {
	var removed bool
	r.s.write(func(st *state) {
		if item, ok := st.bettings[id]; ok && item.Approved == approved {
			delete(st.bettings, id)
			removed = true
		}
	})
	return removed, nil
}

func (r *BettingRepository) ClearResults(_ context.Context, matchIDs []int64) error {
	if len(matchIDs) == 0 {
		return nil
	}
	r.s.write(func(st *state) {
		for id, b := range st.bettings {
			if b.ResultMatchID != nil && containsID(matchIDs, *b.ResultMatchID) {
				b.ResultMatchID = nil
				st.bettings[id] = b
			}
		}
	})
	return nil
}

func (r *BettingRepository) ListByPrincipal(_ context.Context, playerID int64) ([]betting.Betting, error) {
	var out []betting.Betting
	r.s.read(func(st *state) {
		for _, b := range st.bettings {
			if b.IsPrincipal(playerID) {
				out = append(out, copyBetting(b))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *BettingRepository) ListParticipants(_ context.Context, bettingID int64) ([]betting.Participant, error) {
	var out []betting.Participant
	r.s.read(func(st *state) {
		for _, p := range st.participants {
			if p.BettingID == bettingID {
				out = append(out, p)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *BettingRepository) UpsertParticipant(_ context.Context, p *betting.Participant) error {
	r.s.write(func(st *state) {
		for id, existing := range st.participants {
			if existing.BettingID == p.BettingID && existing.PlayerID == p.PlayerID {
				p.ID = id
				st.participants[id] = *p
				return
			}
		}
		p.ID = st.nextID()
		st.participants[p.ID] = *p
	})
	return nil
}

func (r *BettingRepository) DeleteParticipants(_ context.Context, bettingID int64, playerIDs []int64) (int, error) {
	removed := 0
	r.s.write(func(st *state) {
		for id, p := range st.participants {
			if p.BettingID == bettingID && containsID(playerIDs, p.PlayerID) {
				delete(st.participants, id)
				removed++
			}
		}
	})
	return removed, nil
}

func (r *BettingRepository) DeleteAllParticipants(_ context.Context, bettingID int64) error {
	r.s.write(func(st *state) {
		for id, p := range st.participants {
			if p.BettingID == bettingID {
				delete(st.participants, id)
			}
		}
	})
	return nil
}

func (r *BettingRepository) DeleteParticipantRowsFor(_ context.Context, playerID int64) error {
	r.s.write(func(st *state) {
		for id, p := range st.participants {
			if p.PlayerID == playerID || (p.WinnerID != nil && *p.WinnerID == playerID) {
				delete(st.participants, id)
			}
		}
	})
	return nil
}
