// Package usertest provides an in-memory user.Repository for tests.
package usertest

import (
	"context"
	"strings"
	"sync"
	"time"

	"inventory-auth-api/internal/domain/user"
)

type record struct {
	u         user.User
	token     string
	expiresAt *time.Time
}

type Repository struct {
	mu     sync.Mutex
	nextID user.ID
	rows   map[user.ID]*record

	// Err, when set, is returned by every call.
	Err error
}

func NewRepository() *Repository {
	return &Repository{nextID: 1, rows: make(map[user.ID]*record)}
}

var _ user.Repository = (*Repository)(nil)

// Seed inserts u as is and returns its id.
func (r *Repository) Seed(u user.User) user.ID {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.ID = r.nextID
	r.nextID++
	r.rows[u.ID] = &record{u: u}
	return u.ID
}

// RecoveryToken exposes the stored token columns of id.
func (r *Repository) RecoveryToken(id user.ID) (string, *time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.rows[id]
	if !ok {
		return "", nil
	}
	return rec.token, rec.expiresAt
}

func (r *Repository) FetchUserByID(_ context.Context, id user.ID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	rec, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	u := rec.u
	return &u, nil
}

func (r *Repository) FetchUserByDocumento(_ context.Context, documento string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.Documento == documento })
}

func (r *Repository) FetchActiveUserByDocumento(_ context.Context, documento string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.Documento == documento && u.IsActive() })
}

func (r *Repository) FetchUserByEmail(_ context.Context, email string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.Correo == email })
}

func (r *Repository) FetchUsers(_ context.Context) (user.Users, error) {
	return r.filter(func(*user.User) bool { return true })
}

func (r *Repository) SearchUsers(_ context.Context, term string) (user.Users, error) {
	term = strings.ToLower(term)
	return r.filter(func(u *user.User) bool {
		for _, f := range []string{u.Nombre, u.Apellido, u.Correo, u.Documento} {
			if strings.Contains(strings.ToLower(f), term) {
				return true
			}
		}
		return false
	})
}

func (r *Repository) CreateUser(_ context.Context, req user.User) (user.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}

	for _, rec := range r.rows {
		if rec.u.Documento == req.Documento {
			return 0, user.ErrDocumentoTaken
		}
		if rec.u.Correo == req.Correo {
			return 0, user.ErrEmailTaken
		}
	}

	req.ID = r.nextID
	r.nextID++
	r.rows[req.ID] = &record{u: req}
	return req.ID, nil
}

func (r *Repository) UpdateUser(_ context.Context, req user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	rec, ok := r.rows[req.ID]
	if !ok {
		return nil, nil
	}
	for id, other := range r.rows {
		if id == req.ID {
			continue
		}
		if other.u.Documento == req.Documento {
			return nil, user.ErrDocumentoTaken
		}
		if other.u.Correo == req.Correo {
			return nil, user.ErrEmailTaken
		}
	}
	rec.u = req
	u := rec.u
	return &u, nil
}

func (r *Repository) UpdatePassword(_ context.Context, id user.ID, hash string) (bool, error) {
	return r.mutate(id, func(rec *record) { rec.u.PasswordHash = hash })
}

func (r *Repository) DeleteUser(_ context.Context, id user.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}

	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

func (r *Repository) SetRecoveryToken(_ context.Context, t user.RecoveryToken) (bool, error) {
	return r.mutate(t.UserID, func(rec *record) {
		exp := t.ExpiresAt
		rec.token = t.Token
		rec.expiresAt = &exp
	})
}

func (r *Repository) FetchUserIDByRecoveryToken(_ context.Context, token string, now time.Time) (user.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}

	for id, rec := range r.rows {
		if rec.token != "" && rec.token == token && rec.expiresAt != nil && rec.expiresAt.After(now) {
			return id, nil
		}
	}
	return 0, nil
}

func (r *Repository) ResetPassword(_ context.Context, id user.ID, token, hash string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}

	rec, ok := r.rows[id]
	if !ok || rec.token == "" || rec.token != token || rec.expiresAt == nil || !rec.expiresAt.After(now) {
		return false, nil
	}
	rec.u.PasswordHash = hash
	rec.token = ""
	rec.expiresAt = nil

	return true, nil
}

func (r *Repository) find(match func(*user.User) bool) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	for _, rec := range r.rows {
		if match(&rec.u) {
			u := rec.u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *Repository) filter(match func(*user.User) bool) (user.Users, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	var us user.Users
	for id := user.ID(1); id < r.nextID; id++ {
		rec, ok := r.rows[id]
		if !ok || !match(&rec.u) {
			continue
		}
		u := rec.u
		us = append(us, &u)
	}
	return us, nil
}

func (r *Repository) mutate(id user.ID, fn func(*record)) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}

	rec, ok := r.rows[id]
	if !ok {
		return false, nil
	}
	fn(rec)
	return true, nil
}
