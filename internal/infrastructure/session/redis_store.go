package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session values in a Redis hash; the cookie only carries
// the session id.
type RedisStore struct {
	client redis.UniversalClient
	opts   Options
}

func NewRedisStore(client redis.UniversalClient, opts Options) *RedisStore {
	return &RedisStore{client: client, opts: opts}
}

// Load ignores ids Redis does not know, so a client cannot pick its own id.
func (rs *RedisStore) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(rs.opts.CookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return New(), nil
		}
		return nil, err
	}
	if _, err = uuid.Parse(cookie.Value); err != nil {
		return New(), nil
	}

	values, err := rs.client.HGetAll(ctx, redisKey(cookie.Value)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(values) == 0 {
		return New(), nil
	}

	sess := New()
	sess.ID = cookie.Value
	sess.values = values
	return sess, nil
}

func (rs *RedisStore) Commit(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess == nil || !sess.dirty {
		return nil
	}

	if sess.destroyed || len(sess.values) == 0 {
		if sess.ID != "" {
			if err := rs.client.Del(ctx, redisKey(sess.ID)).Err(); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
		http.SetCookie(w, rs.opts.expiredCookie())
		sess.dirty = false
		return nil
	}

	if sess.staleID != "" {
		if err := rs.client.Del(ctx, redisKey(sess.staleID)).Err(); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		sess.staleID = ""
	}
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	key := redisKey(sess.ID)
	fields := make([]any, 0, 2*len(sess.values))
	for k, v := range sess.values {
		fields = append(fields, k, v)
	}

	if _, err := rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields...)
		pipe.Expire(ctx, key, rs.opts.TTL)
		return nil
	}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	http.SetCookie(w, rs.opts.cookie(sess.ID))
	sess.dirty = false

	return nil
}

func redisKey(id string) string {
	return "session:" + id
}
