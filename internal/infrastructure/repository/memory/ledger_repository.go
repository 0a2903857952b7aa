package memory

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/pingpong-club/internal/domain/partner"
	"github.com/riskibarqy/pingpong-club/internal/domain/pointlog"
)

type PointLogRepository struct {
	s *Store
}

func (r *PointLogRepository) Append(_ context.Context, entry *pointlog.Entry) error {
	r.s.write(func(st *state) {
		entry.ID = st.nextID()
		st.logs = append(st.logs, *entry)
	})
	return nil
}

func (r *PointLogRepository) ListByPlayer(_ context.Context, playerID int64, limit int) ([]pointlog.Entry, error) {
	var out []pointlog.Entry
	r.s.read(func(st *state) {
		for i := len(st.logs) - 1; i >= 0; i-- {
			if st.logs[i].PlayerID != playerID {
				continue
			}
			out = append(out, st.logs[i])
			if limit > 0 && len(out) == limit {
				return
			}
		}
	})
	return out, nil
}

func (r *PointLogRepository) ExistsBetween(_ context.Context, playerID int64, reason string, from, to time.Time) (bool, error) {
	var found bool
	r.s.read(func(st *state) {
		for _, e := range st.logs {
			if e.PlayerID == playerID && e.Reason == reason && !e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
				found = true
				return
			}
		}
	})
	return found, nil
}

func (r *PointLogRepository) DeleteByPlayer(_ context.Context, playerID int64) error {
	r.s.write(func(st *state) {
		kept := st.logs[:0]
		for _, e := range st.logs {
			if e.PlayerID != playerID {
				kept = append(kept, e)
			}
		}
		st.logs = kept
	})
	return nil
}

type PartnerRepository struct {
	s *Store
}

func (r *PartnerRepository) Create(_ context.Context, p *partner.Pairing) error {
	r.s.write(func(st *state) {
		p.ID = st.nextID()
		st.pairings[p.ID] = *p
	})
	return nil
}

func (r *PartnerRepository) List(_ context.Context) ([]partner.Pairing, error) {
	var out []partner.Pairing
	r.s.read(func(st *state) {
		for _, p := range st.pairings {
			out = append(out, p)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PartnerRepository) Latest(_ context.Context, a, b int64, submitted *bool, from, to time.Time) (partner.Pairing, bool, error) {
	var (
		out   partner.Pairing
		found bool
	)
	r.s.read(func(st *state) {
		for _, p := range st.pairings {
			if !((p.P1ID == a && p.P2ID == b) || (p.P1ID == b && p.P2ID == a)) {
				continue
			}
			if submitted != nil && p.Submitted != *submitted {
				continue
			}
			if p.CreatedAt.Before(from) || !p.CreatedAt.Before(to) {
				continue
			}
			if !found || p.CreatedAt.After(out.CreatedAt) || (p.CreatedAt.Equal(out.CreatedAt) && p.ID > out.ID) {
				out, found = p, true
			}
		}
	})
	return out, found, nil
}

func (r *PartnerRepository) SetSubmitted(_ context.Context, id int64, submitted bool) error {
	r.s.write(func(st *state) {
		if p, ok := st.pairings[id]; ok {
			p.Submitted = submitted
			st.pairings[id] = p
		}
	})
	return nil
}

func (r *PartnerRepository) DeleteAll(_ context.Context) (int, error) {
	var removed int
	r.s.write(func(st *state) {
		removed = len(st.pairings)
		st.pairings = make(map[int64]partner.Pairing)
	})
	return removed, nil
}

func (r *PartnerRepository) DeleteByPlayer(_ context.Context, playerID int64) error {
	r.s.write(func(st *state) {
		for id, p := range st.pairings {
			if p.P1ID == playerID || p.P2ID == playerID {
				delete(st.pairings, id)
			}
		}
	})
	return nil
}
