package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-auth-api/internal/application/ports"
	"inventory-auth-api/internal/application/services"
	domain "inventory-auth-api/internal/domain/user"
	"inventory-auth-api/internal/domain/user/usertest"
	"inventory-auth-api/internal/infrastructure/jwt"
	"inventory-auth-api/internal/infrastructure/mailer"
	"inventory-auth-api/internal/infrastructure/metrics"
	"inventory-auth-api/internal/infrastructure/session"
	"inventory-auth-api/internal/interface/api/rest/middleware"
	"inventory-auth-api/internal/interface/api/rest/validator"
)

const (
	testCookieName = "inventario_session"
	testResetURL   = "http://localhost:8080/reset_password.php"
	adminRoleID    = 1
)

func init() { gin.SetMode(gin.TestMode) }

type recMailer struct {
	mu   sync.Mutex
	Sent []mailer.Message
	Err  error
}

func (m *recMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// testServer wires the real services over the in-memory repository.
type testServer struct {
	router *gin.Engine
	repo   *usertest.Repository
	mailer *recMailer
}

func newStore() session.Store {
	return session.NewCookieStore(jwt.New("test-secret"), session.Options{
		CookieName: testCookieName,
		TTL:        time.Hour,
	})
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Session(newStore(), zap.NewNop()))
	return r
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	srv := &testServer{
		router: newRouter(),
		repo:   usertest.NewRepository(),
		mailer: &recMailer{},
	}
	counter := metrics.NewCounter(prometheus.NewRegistry())
	authService := services.NewAuthService(
		srv.repo,
		srv.mailer,
		services.AuthConfig{MailFrom: "noreply@gestorinventario.com", ResetURL: testResetURL},
		zap.NewNop(),
		counter,
	)
	userService := services.NewUserService(srv.repo, zap.NewNop(), counter)

	NewAuthController(srv.router, zap.NewNop(), authService, userService, false)
	NewUserController(srv.router, userService, authService, zap.NewNop(), adminRoleID, false)
	NewPageController(srv.router, zap.NewNop(), authService, RoutePageLogin, RoutePageHome)

	return srv
}

// seed stores an active account whose password is password.
func (s *testServer) seed(t *testing.T, documento, correo string, rol domain.ID, password string) domain.ID {
	t.Helper()
	hash, err := services.HashPassword(password)
	require.NoError(t, err)

	return s.repo.Seed(domain.User{
		Nombre:          "Usuario " + documento,
		Apellido:        "Prueba",
		Correo:          correo,
		Documento:       documento,
		TipoDocumentoID: 1,
		RolID:           rol,
		EstadoID:        domain.StatusActive,
		PasswordHash:    hash,
	})
}

// client replays the cookies it receives, like a browser.
type client struct {
	t       *testing.T
	r       *gin.Engine
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, r *gin.Engine) *client {
	return &client{t: t, r: r, cookies: make(map[string]*http.Cookie)}
}

// do sends url.Values as a form, strings as raw JSON and anything else
// marshalled to JSON.
func (cl *client) do(method, path string, body any) *httptest.ResponseRecorder {
	cl.t.Helper()

	var (
		rd io.Reader
		ct string
	)
	switch v := body.(type) {
	case nil:
	case url.Values:
		rd, ct = strings.NewReader(v.Encode()), "application/x-www-form-urlencoded"
	case string:
		rd, ct = strings.NewReader(v), "application/json"
	default:
		b, err := json.Marshal(v)
		require.NoError(cl.t, err)
		rd, ct = bytes.NewReader(b), "application/json"
	}

	req := httptest.NewRequest(method, path, rd)
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	cl.r.ServeHTTP(rr, req)

	for _, c := range rr.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(cl.cookies, c.Name)
			continue
		}
		cl.cookies[c.Name] = c
	}

	return rr
}

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Errors  []string               `json:"errors"`
	Fields  []validator.FieldError `json:"fields"`
	Data    json.RawMessage        `json:"data"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

type FakeAuthService struct {
	Authenticated bool
	Admin         bool

	AuthenticateFunc         func(ctx context.Context, sess ports.Session, documento, password string, remember bool) (*ports.LoginResult, error)
	CurrentUserFunc          func(ctx context.Context, sess ports.Session) (*domain.User, error)
	RequestPasswordResetFunc func(ctx context.Context, documento string) error
	ValidateResetTokenFunc   func(ctx context.Context, token string) (domain.ID, error)
	ResetPasswordFunc        func(ctx context.Context, id domain.ID, token, newPassword string) error
}

func (f *FakeAuthService) Authenticate(ctx context.Context, sess ports.Session, documento, password string, remember bool) (*ports.LoginResult, error) {
	if f.AuthenticateFunc == nil {
		return nil, errors.New("not used")
	}
	return f.AuthenticateFunc(ctx, sess, documento, password, remember)
}
func (f *FakeAuthService) Logout(sess ports.Session)          { sess.Destroy() }
func (f *FakeAuthService) IsAuthenticated(ports.Session) bool { return f.Authenticated }
func (f *FakeAuthService) HasRole(context.Context, ports.Session, domain.ID) (bool, error) {
	return f.Admin, nil
}
func (f *FakeAuthService) CurrentUser(ctx context.Context, sess ports.Session) (*domain.User, error) {
	if f.CurrentUserFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CurrentUserFunc(ctx, sess)
}
func (f *FakeAuthService) RequestPasswordReset(ctx context.Context, documento string) error {
	if f.RequestPasswordResetFunc == nil {
		return errors.New("not used")
	}
	return f.RequestPasswordResetFunc(ctx, documento)
}
func (f *FakeAuthService) ValidateResetToken(ctx context.Context, token string) (domain.ID, error) {
	if f.ValidateResetTokenFunc == nil {
		return 0, errors.New("not used")
	}
	return f.ValidateResetTokenFunc(ctx, token)
}
func (f *FakeAuthService) ResetPassword(ctx context.Context, id domain.ID, token, newPassword string) error {
	if f.ResetPasswordFunc == nil {
		return errors.New("not used")
	}
	return f.ResetPasswordFunc(ctx, id, token, newPassword)
}

type FakeUserService struct {
	FindUserByIDFunc   func(ctx context.Context, id domain.ID) (*domain.User, error)
	SearchUsersFunc    func(ctx context.Context, term string) (domain.Users, error)
	CreateUserFunc     func(ctx context.Context, u domain.User, password string) (*domain.User, error)
	UpdateUserFunc     func(ctx context.Context, id domain.ID, ch domain.Changes) (*domain.User, error)
	UpdatePasswordFunc func(ctx context.Context, id domain.ID, password string) error
	DeleteUserFunc     func(ctx context.Context, id domain.ID) error
}

func (f *FakeUserService) FindUserByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	if f.FindUserByIDFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FindUserByIDFunc(ctx, id)
}
func (f *FakeUserService) FindByDocumento(context.Context, string) (*domain.User, error) {
	return nil, errors.New("not used")
}
func (f *FakeUserService) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, errors.New("not used")
}
func (f *FakeUserService) FindUsers(ctx context.Context) (domain.Users, error) {
	return f.SearchUsers(ctx, "")
}
func (f *FakeUserService) SearchUsers(ctx context.Context, term string) (domain.Users, error) {
	if f.SearchUsersFunc == nil {
		return nil, errors.New("not used")
	}
	return f.SearchUsersFunc(ctx, term)
}
func (f *FakeUserService) CreateUser(ctx context.Context, u domain.User, password string) (*domain.User, error) {
	if f.CreateUserFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CreateUserFunc(ctx, u, password)
}
func (f *FakeUserService) UpdateUser(ctx context.Context, id domain.ID, ch domain.Changes) (*domain.User, error) {
	if f.UpdateUserFunc == nil {
		return nil, errors.New("not used")
	}
	return f.UpdateUserFunc(ctx, id, ch)
}
func (f *FakeUserService) UpdatePassword(ctx context.Context, id domain.ID, password string) error {
	if f.UpdatePasswordFunc == nil {
		return errors.New("not used")
	}
	return f.UpdatePasswordFunc(ctx, id, password)
}
func (f *FakeUserService) DeleteUser(ctx context.Context, id domain.ID) error {
	if f.DeleteUserFunc == nil {
		return errors.New("not used")
	}
	return f.DeleteUserFunc(ctx, id)
}

func someDomainUser() *domain.User {
	return &domain.User{
		ID:              7,
		Nombre:          "Ana",
		Apellido:        "Diaz",
		Correo:          "ana@x.com",
		Documento:       "123",
		TipoDocumentoID: 1,
		RolID:           2,
		EstadoID:        domain.StatusActive,
		RolNombre:       "Empleado",
	}
}
