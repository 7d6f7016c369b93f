package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"inventory-auth-api/internal/application/ports"
	"inventory-auth-api/internal/domain/user"
	"inventory-auth-api/internal/infrastructure/jwt"
	"inventory-auth-api/internal/infrastructure/metrics"
	"inventory-auth-api/internal/infrastructure/session"
)

func init() { gin.SetMode(gin.TestMode) }

// sessionAuth reads the login from the session and the role from roles,
// keyed by user id, the way the real service re-reads the account.
type sessionAuth struct {
	ports.AuthService
	roles map[string]user.ID
}

var errLookup = errors.New("db down")

func (sessionAuth) IsAuthenticated(sess ports.Session) bool { return sess.Get("user_id") != "" }
func (a sessionAuth) HasRole(_ context.Context, sess ports.Session, roleID user.ID) (bool, error) {
	id := sess.Get("user_id")
	if id == "500" {
		return false, errLookup
	}
	rol, ok := a.roles[id]
	return ok && rol == roleID, nil
}

func newStore() *session.CookieStore {
	return session.NewCookieStore(jwt.New("test-secret"), session.Options{
		CookieName: "inventario_session",
		TTL:        time.Hour,
	})
}

func sessionCookie(t *testing.T, store session.Store, values map[string]string) *http.Cookie {
	t.Helper()
	sess := session.New()
	for k, v := range values {
		sess.Set(k, v)
	}
	rr := httptest.NewRecorder()
	require.NoError(t, store.Commit(context.Background(), rr, sess))
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestSession_CommitsBeforeBody(t *testing.T) {
	store := newStore()
	r := gin.New()
	r.Use(Session(store, zap.NewNop()))
	r.POST("/login", func(c *gin.Context) {
		SessionFrom(c).Set("user_id", "7")
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.POST("/noop", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.POST("/logout", func(c *gin.Context) {
		SessionFrom(c).Destroy()
		c.Status(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "inventario_session", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)

	req := httptest.NewRequest(http.MethodPost, "/noop", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Empty(t, rr.Result().Cookies(), "clean session is not rewritten")

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Len(t, rr.Result().Cookies(), 1)
	assert.Equal(t, -1, rr.Result().Cookies()[0].MaxAge)
}

func TestGates(t *testing.T) {
	store := newStore()
	auth := sessionAuth{roles: map[string]user.ID{"1": 1, "2": 2, "3": 2}}

	r := gin.New()
	r.Use(Session(store, zap.NewNop()))
	r.GET("/login", RequireAnonymous(auth, "/"), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/", RequireAuthenticated(auth, "/login"), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api", RequireAPIAuth(auth), RequireRole(auth, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	admin := sessionCookie(t, store, map[string]string{"user_id": "1", "user_rol": "1"})
	employee := sessionCookie(t, store, map[string]string{"user_id": "2", "user_rol": "2"})
	demoted := sessionCookie(t, store, map[string]string{"user_id": "3", "user_rol": "1"})
	deleted := sessionCookie(t, store, map[string]string{"user_id": "4", "user_rol": "1"})
	broken := sessionCookie(t, store, map[string]string{"user_id": "500", "user_rol": "1"})

	tests := []struct {
		name         string
		path         string
		cookie       *http.Cookie
		wantStatus   int
		wantLocation string
	}{
		{name: "anonymous login page", path: "/login", wantStatus: http.StatusOK},
		{name: "logged in login page", path: "/login", cookie: employee, wantStatus: http.StatusFound, wantLocation: "/"},
		{name: "anonymous home", path: "/", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "logged in home", path: "/", cookie: employee, wantStatus: http.StatusOK},
		{name: "api anonymous", path: "/api", wantStatus: http.StatusUnauthorized},
		{name: "api employee", path: "/api", cookie: employee, wantStatus: http.StatusForbidden},
		{name: "api admin", path: "/api", cookie: admin, wantStatus: http.StatusOK},
		{name: "api admin demoted after login", path: "/api", cookie: demoted, wantStatus: http.StatusForbidden},
		{name: "api admin deleted after login", path: "/api", cookie: deleted, wantStatus: http.StatusForbidden},
		{name: "api role lookup fails", path: "/api", cookie: broken, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantLocation, rr.Header().Get("Location"))
		})
	}
}

func TestSecureHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecureHeaders(SecureOptions(false)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rr.Header().Get("Content-Security-Policy"))
}

func TestRequestLogGin_MasksPasswords(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	counter := metrics.NewCounter(prometheus.NewRegistry())

	r := gin.New()
	r.Use(RequestLogGin(zap.New(core), counter))
	r.POST("/login", func(c *gin.Context) {
		require.NoError(t, c.Request.ParseForm())
		assert.Equal(t, "secret1", c.Request.PostForm.Get("contrasena"), "handler still sees the body")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("documento=123&contrasena=secret1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	body := logs.All()[0].ContextMap()["body"].(string)
	assert.Contains(t, body, "documento=123")
	assert.NotContains(t, body, "secret1")
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues(metrics.RequestsTotal)))
}

func TestMaskBody(t *testing.T) {
	tests := []struct {
		name string
		ct   string
		raw  string
		want string
	}{
		{name: "empty", ct: "application/json", raw: "", want: ""},
		{name: "json", ct: "application/json", raw: `{"documento":"1","nueva_contrasena":"x"}`, want: `{"documento":"1","nueva_contrasena":"***"}`},
		{name: "broken json", ct: "application/json", raw: `{"contrasena":`, want: "<unparsed body omitted>"},
		{name: "form", ct: "application/x-www-form-urlencoded", raw: "token=abc&x=1", want: "token=%2A%2A%2A&x=1"},
		{name: "other", ct: "text/plain", raw: "hi", want: "<text/plain body omitted>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskBody(tt.ct, []byte(tt.raw)))
		})
	}
}
