package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/pingpong-club/internal/domain/player"
)

type PlayerRepository struct {
	s *Store
}

func (r *PlayerRepository) Get(_ context.Context, id int64) (player.Player, bool, error) {
	var (
		p  player.Player
		ok bool
	)
	r.s.read(func(st *state) {
		p, ok = st.players[id]
	})
	return p, ok, nil
}

func (r *PlayerRepository) GetByName(_ context.Context, name string) (player.Player, bool, error) {
	name = strings.TrimSpace(name)
	var (
		out player.Player
		ok  bool
	)
	r.s.read(func(st *state) {
		for _, p := range st.players {
			if p.Name == name {
				out, ok = p, true
				return
			}
		}
	})
	return out, ok, nil
}

func (r *PlayerRepository) List(_ context.Context, filter player.ListFilter) ([]player.Player, error) {
	var out []player.Player
	r.s.read(func(st *state) {
		out = make([]player.Player, 0, len(st.players))
		for _, p := range st.players {
			if filter.ValidOnly && !p.IsValid {
				continue
			}
			if p.MatchCount < filter.MinMatches {
				continue
			}
			if filter.NamePrefix != "" && !strings.HasPrefix(p.Name, filter.NamePrefix) {
				continue
			}
			if len(filter.IDs) > 0 && !containsID(filter.IDs, p.ID) {
				continue
			}
			out = append(out, p)
		}
	})

	sort.Slice(out, func(i, j int) bool {
		if filter.OrderByRate && out[i].RateCount != out[j].RateCount {
			return out[i].RateCount > out[j].RateCount
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PlayerRepository) Create(_ context.Context, p *player.Player) error {
	var err error
	r.s.write(func(st *state) {
		for _, existing := range st.players {
			if existing.Name == p.Name {
				err = fmt.Errorf("player name %q already exists", p.Name)
				return
			}
		}
		p.ID = st.nextID()
		st.players[p.ID] = *p
	})
	return err
}

func (r *PlayerRepository) Update(_ context.Context, p player.Player) error {
	var err error
	r.s.write(func(st *state) {
		if _, ok := st.players[p.ID]; !ok {
			err = fmt.Errorf("player=%d not found", p.ID)
			return
		}
		st.players[p.ID] = p
	})
	return err
}

func (r *PlayerRepository) UpdateOrders(_ context.Context, playerID int64, orders player.Orders) error {
	r.s.write(func(st *state) {
		p, ok := st.players[playerID]
		if !ok {
			return
		}
		p.Orders = orders
		st.players[playerID] = p
	})
	return nil
}

func (r *PlayerRepository) Delete(_ context.Context, id int64) error {
	r.s.write(func(st *state) {
		delete(st.players, id)
	})
	return nil
}
