package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/pingpong-club/internal/domain/match"
)

type MatchRepository struct {
	s *Store
}

func (r *MatchRepository) Get(_ context.Context, id int64) (match.Match, bool, error) {
	var (
		m  match.Match
		ok bool
	)
	r.s.read(func(st *state) {
		m, ok = st.matches[id]
	})
	return m, ok, nil
}

// List returns the newest matches first.
func (r *MatchRepository) List(_ context.Context, filter match.ListFilter) ([]match.Match, error) {
	var out []match.Match
	r.s.read(func(st *state) {
		for _, m := range st.matches {
			if len(filter.IDs) > 0 && !containsID(filter.IDs, m.ID) {
				continue
			}
			if filter.Approved != nil && m.Approved != *filter.Approved {
				continue
			}
			if filter.PlayerID > 0 && !m.Involves(filter.PlayerID) {
				continue
			}
			out = append(out, m)
		}
	})

	sort.Slice(out, func(i, j int) bool {
		if !out[i].PlayedAt.Equal(out[j].PlayedAt) {
			return out[i].PlayedAt.After(out[j].PlayedAt)
		}
		return out[i].ID > out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MatchRepository) Create(_ context.Context, m *match.Match) error {
	r.s.write(func(st *state) {
		m.ID = st.nextID()
		st.matches[m.ID] = *m
	})
	return nil
}

func (r *MatchRepository) MarkApproved(_ context.Context, id int64, bonus match.AppliedBonus) (bool, error) {
	var flipped bool
	r.s.write(func(st *state) {
		m, ok := st.matches[id]
		if !ok || m.Approved {
			return
		}
		m.Approved = true
		m.Bonus = bonus
		st.matches[id] = m
		flipped = true
	})
	return flipped, nil
}

func (r *MatchRepository) Delete(_ context.Context, id int64, approved bool) (bool, error) {
	var removed bool
	r.s.write(func(st *state) {
		if item, ok := st.matches[id]; ok && item.Approved == approved {
			delete(st.matches, id)
			removed = true
		}
	})
	return removed, nil
}

func (r *MatchRepository) CountOpponents(_ context.Context, playerID int64) (int, error) {
	seen := make(map[int64]struct{})
	r.s.read(func(st *state) {
		for _, m := range st.matches {
			if m.Approved && m.Involves(playerID) {
				seen[m.Opponent(playerID)] = struct{}{}
			}
		}
	})
	return len(seen), nil
}

func (r *MatchRepository) DeleteByPlayer(_ context.Context, playerID int64) error {
	r.s.write(func(st *state) {
		for id, m := range st.matches {
			if m.Involves(playerID) {
				delete(st.matches, id)
			}
		}
	})
	return nil
}
