// Package session keeps per-request key-value state between requests.
package session

import (
	"context"
	"maps"
	"net/http"
	"time"
)

const (
	RememberCookieName = "recordar_sesion"
	RememberCookieTTL  = 30 * 24 * time.Hour
)

// Session holds per-request session data.
type Session struct {
	ID        string
	staleID   string
	values    map[string]string
	dirty     bool
	destroyed bool
}

// Store loads a session from a request and commits it to a response.
type Store interface {
	Load(ctx context.Context, r *http.Request) (*Session, error)
	Commit(ctx context.Context, w http.ResponseWriter, sess *Session) error
}

type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

func New() *Session {
	return &Session{values: make(map[string]string)}
}

func (s *Session) Get(key string) string {
	return s.values[key]
}

func (s *Session) Set(key, value string) {
	if s.destroyed {
		// a destroyed session never comes back under the old id
		s.destroyed = false
		s.staleID, s.ID = s.ID, ""
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	s.dirty = true
}

func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.dirty = true
}

// Renew moves the values to a fresh id on the next commit and drops the old
// one. Login calls it so an id handed out before authentication never
// carries a user.
func (s *Session) Renew() {
	if s.ID != "" {
		s.staleID, s.ID = s.ID, ""
	}
	s.dirty = true
}

// Destroy drops every value; the store removes the session on commit.
func (s *Session) Destroy() {
	s.values = make(map[string]string)
	s.destroyed = true
	s.dirty = true
}

func (s *Session) Destroyed() bool { return s.destroyed }

func (s *Session) Dirty() bool { return s.dirty }

// Values returns a copy of the stored values.
func (s *Session) Values() map[string]string {
	return maps.Clone(s.values)
}

func (o Options) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     o.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(o.TTL.Seconds()),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (o Options) expiredCookie() *http.Cookie {
	c := o.cookie("")
	c.MaxAge = -1
	return c
}

// RememberCookie carries the remember-me token for 30 days.
func RememberCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     RememberCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(RememberCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func ExpiredRememberCookie(secure bool) *http.Cookie {
	c := RememberCookie("", secure)
	c.MaxAge = -1
	return c
}
