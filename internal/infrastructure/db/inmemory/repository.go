// Package inmemory keeps users in process memory. The whole store is
// guarded by one mutex, so the live-login check and the write that follows
// it are atomic.
package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lkhorasandzhian/aton-web-api/internal/domain/user"
)

type Repository struct {
	mu    sync.RWMutex
	users []user.User
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) FetchUserByID(_ context.Context, id user.UUID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, nil
	}

	return clone(&r.users[idx]), nil
}

func (r *Repository) FetchUserByLogin(_ context.Context, login string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *user.User
	for i := range r.users {
		u := &r.users[i]
		if u.Login != login {
			continue
		}
		if u.IsActive() {
			return clone(u), nil
		}
		if found == nil || u.Created.At.After(found.Created.At) {
			found = u
		}
	}
	if found == nil {
		return nil, nil
	}

	return clone(found), nil
}

func (r *Repository) FetchUserByLoginAndPassword(ctx context.Context, login, password string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *user.User
	for i := range r.users {
		u := &r.users[i]
		if u.Login != login || u.Password != password {
			continue
		}
		if u.IsActive() {
			return clone(u), nil
		}
		if found == nil || u.Created.At.After(found.Created.At) {
			found = u
		}
	}
	if found == nil {
		return nil, nil
	}

	return clone(found), nil
}

func (r *Repository) FetchUsers(_ context.Context) (user.Users, error) {
	return r.filter(func(*user.User) bool { return true }), nil
}

func (r *Repository) FetchActiveUsers(_ context.Context) (user.Users, error) {
	return r.filter(func(u *user.User) bool { return u.IsActive() }), nil
}

func (r *Repository) FetchUsersBornBefore(_ context.Context, cutoff time.Time) (user.Users, error) {
	return r.filter(func(u *user.User) bool {
		return u.Birthday != nil && u.Birthday.Before(cutoff)
	}), nil
}

func (r *Repository) HasLiveUserWithLogin(_ context.Context, login string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.liveLoginTaken(login, user.UUID{}), nil
}

func (r *Repository) CreateUser(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.IsActive() && r.liveLoginTaken(u.Login, u.ID) {
		return user.ErrLoginTaken
	}
	r.users = append(r.users, *clone(&u))

	return nil
}

func (r *Repository) UpdateUser(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(u.ID)
	if idx < 0 {
		return user.ErrNotFound
	}
	if u.IsActive() && r.liveLoginTaken(u.Login, u.ID) {
		return user.ErrLoginTaken
	}
	r.users[idx] = *clone(&u)

	return nil
}

func (r *Repository) DeleteUser(_ context.Context, id user.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return user.ErrNotFound
	}
	r.users = append(r.users[:idx], r.users[idx+1:]...)

	return nil
}

// liveLoginTaken must be called with mu held.
func (r *Repository) liveLoginTaken(login string, except user.UUID) bool {
	for i := range r.users {
		u := &r.users[i]
		if u.ID != except && u.Login == login && u.IsActive() {
			return true
		}
	}
	return false
}

func (r *Repository) indexOf(id user.UUID) int {
	for i := range r.users {
		if r.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) filter(keep func(*user.User) bool) user.Users {
	r.mu.RLock()
	defer r.mu.RUnlock()

	us := make(user.Users, 0, len(r.users))
	for i := range r.users {
		if keep(&r.users[i]) {
			us = append(us, clone(&r.users[i]))
		}
	}
	sort.SliceStable(us, func(i, j int) bool {
		return us[i].Created.At.Before(us[j].Created.At)
	})

	return us
}

func clone(u *user.User) *user.User {
	c := *u
	if u.Birthday != nil {
		b := *u.Birthday
		c.Birthday = &b
	}
	if u.Modified != nil {
		m := *u.Modified
		c.Modified = &m
	}
	if u.Revoked != nil {
		rv := *u.Revoked
		c.Revoked = &rv
	}
	return &c
}
