package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, testOptions()), mr
}

func TestRedisStore_CommitAndLoad(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	sess := roundTrip(t, store, nil)
	sess.Set("user_id", "7")
	sess.Set("user_rol", "1")

	w := httptest.NewRecorder()
	require.NoError(t, store.Commit(ctx, w, sess))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	id := cookies[0].Value
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, sess.ID)

	key := "session:" + id
	assert.True(t, mr.Exists(key))
	assert.Equal(t, "7", mr.HGet(key, "user_id"))
	assert.Equal(t, time.Hour, mr.TTL(key))

	loaded := roundTrip(t, store, cookies)
	assert.Equal(t, id, loaded.ID)
	assert.Equal(t, map[string]string{"user_id": "7", "user_rol": "1"}, loaded.Values())
}

func TestRedisStore_DeletedKeyIsRewritten(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	sess := New()
	sess.Set("user_id", "7")
	sess.Set("user_rol", "1")
	require.NoError(t, store.Commit(ctx, httptest.NewRecorder(), sess))

	sess.Delete("user_rol")
	require.NoError(t, store.Commit(ctx, httptest.NewRecorder(), sess))

	keys, err := mr.HKeys("session:" + sess.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user_id"}, keys)
}

func TestRedisStore_UnknownIDStartsFresh(t *testing.T) {
	store, _ := newRedisStore(t)

	for _, value := range []string{uuid.NewString(), "not-a-uuid"} {
		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(testOptions().cookie(value))

		sess, err := store.Load(context.Background(), r)
		require.NoError(t, err)
		assert.Equal(t, "", sess.ID)
		assert.Empty(t, sess.Values())
	}
}

func TestRedisStore_Destroy(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	sess := New()
	sess.Set("user_id", "7")
	require.NoError(t, store.Commit(ctx, httptest.NewRecorder(), sess))
	key := "session:" + sess.ID
	require.True(t, mr.Exists(key))

	sess.Destroy()
	w := httptest.NewRecorder()
	require.NoError(t, store.Commit(ctx, w, sess))

	assert.False(t, mr.Exists(key))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestRedisStore_LoginAfterLogoutRotatesID(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	sess := New()
	sess.Set("user_id", "7")
	require.NoError(t, store.Commit(ctx, httptest.NewRecorder(), sess))
	oldID := sess.ID

	sess.Destroy()
	sess.Set("user_id", "8")
	require.NoError(t, store.Commit(ctx, httptest.NewRecorder(), sess))

	assert.NotEqual(t, oldID, sess.ID)
	assert.False(t, mr.Exists("session:"+oldID))
	assert.Equal(t, "8", mr.HGet("session:"+sess.ID, "user_id"))
}

func TestRedisStore_RenewMovesValuesToFreshID(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	sess := New()
	sess.Set("csrf", "x")
	require.NoError(t, store.Commit(ctx, httptest.NewRecorder(), sess))
	plantedID := sess.ID

	loaded := roundTrip(t, store, []*http.Cookie{{Name: testOptions().CookieName, Value: plantedID}})
	require.Equal(t, plantedID, loaded.ID)

	loaded.Renew()
	loaded.Set("user_id", "7")
	w := httptest.NewRecorder()
	require.NoError(t, store.Commit(ctx, w, loaded))

	assert.NotEqual(t, plantedID, loaded.ID)
	assert.False(t, mr.Exists("session:"+plantedID))
	assert.Equal(t, "7", mr.HGet("session:"+loaded.ID, "user_id"))
	assert.Equal(t, "x", mr.HGet("session:"+loaded.ID, "csrf"))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, loaded.ID, cookies[0].Value)
}
