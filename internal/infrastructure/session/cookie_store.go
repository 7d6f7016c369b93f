package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"inventory-auth-api/internal/infrastructure/jwt"
)

// CookieStore keeps the whole session inside a signed cookie.
type CookieStore struct {
	signer *jwt.Service
	opts   Options
}

func NewCookieStore(signer *jwt.Service, opts Options) *CookieStore {
	return &CookieStore{signer: signer, opts: opts}
}

// Load never fails on a bad cookie: tampered or expired cookies start a
// fresh session.
func (cs *CookieStore) Load(_ context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(cs.opts.CookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return New(), nil
		}
		return nil, err
	}

	claims, err := cs.signer.Parse(cookie.Value)
	if err != nil {
		return New(), nil
	}

	sess := New()
	sess.values = claims.Values
	return sess, nil
}

func (cs *CookieStore) Commit(_ context.Context, w http.ResponseWriter, sess *Session) error {
	if sess == nil || !sess.dirty {
		return nil
	}
	if sess.destroyed || len(sess.values) == 0 {
		http.SetCookie(w, cs.opts.expiredCookie())
		sess.dirty = false
		return nil
	}

	token, err := cs.signer.Sign(sess.values, cs.opts.TTL)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	http.SetCookie(w, cs.opts.cookie(token))
	sess.dirty = false

	return nil
}
