package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/pingpong-club/internal/domain/account"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Get(_ context.Context, id int64) (account.User, bool, error) {
	var (
		u  account.User
		ok bool
	)
	r.s.read(func(st *state) {
		u, ok = st.users[id]
	})
	return u, ok, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (account.User, bool, error) {
	return r.find(func(u account.User) bool { return u.Username == username })
}

func (r *UserRepository) GetByPlayer(_ context.Context, playerID int64) (account.User, bool, error) {
	return r.find(func(u account.User) bool { return u.PlayerID != nil && *u.PlayerID == playerID })
}

func (r *UserRepository) find(match func(account.User) bool) (account.User, bool, error) {
	var (
		out account.User
		ok  bool
	)
	r.s.read(func(st *state) {
		for _, u := range st.users {
			if match(u) {
				out, ok = u, true
				return
			}
		}
	})
	return out, ok, nil
}

func (r *UserRepository) Create(_ context.Context, u *account.User) error {
	var err error
	r.s.write(func(st *state) {
		for _, existing := range st.users {
			if existing.Username == u.Username {
				err = fmt.Errorf("username %q already exists", u.Username)
				return
			}
		}
		u.ID = st.nextID()
		st.users[u.ID] = *u
	})
	return err
}

func (r *UserRepository) UpdatePassword(_ context.Context, id int64, hash string) (bool, error) {
	var updated bool
	r.s.write(func(st *state) {
		u, ok := st.users[id]
		if !ok {
			return
		}
		u.PasswordHash = hash
		st.users[id] = u
		updated = true
	})
	return updated, nil
}

func (r *UserRepository) DeleteByPlayer(_ context.Context, playerID int64) error {
	r.s.write(func(st *state) {
		for id, u := range st.users {
			if u.PlayerID != nil && *u.PlayerID == playerID {
				delete(st.users, id)
			}
		}
	})
	return nil
}
