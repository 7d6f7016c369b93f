package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"inventory-auth-api/internal/application/ports"
	"inventory-auth-api/internal/domain/user"
	"inventory-auth-api/internal/infrastructure/mailer"
	"inventory-auth-api/internal/infrastructure/metrics"
)

// Session keys written on login.
const (
	SessionUserID        = "user_id"
	SessionUserNombre    = "user_nombre"
	SessionUserApellido  = "user_apellido"
	SessionUserCorreo    = "user_correo"
	SessionUserDocumento = "user_documento"
	SessionUserRol       = "user_rol"
)

const (
	RecoveryTokenTTL = time.Hour
	RecoverySubject  = "Recuperación de contraseña - Gestor de Inventario"
)

type AuthConfig struct {
	MailFrom string
	// ResetURL is the page the recovery link points at; the token is
	// appended as the "token" query parameter.
	ResetURL string
}

type AuthService struct {
	userRepository user.Repository
	mailer         ports.Mailer
	cfg            AuthConfig
	logger         *zap.Logger
	mCounter       *prometheus.CounterVec
	now            func() time.Time
}

func NewAuthService(
	userRepository user.Repository,
	mailer ports.Mailer,
	cfg AuthConfig,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.AuthService {
	return &AuthService{
		userRepository: userRepository,
		mailer:         mailer,
		cfg:            cfg,
		logger:         logger,
		mCounter:       mCounter,
		now:            time.Now,
	}
}

// Authenticate verifies documento and password against an active account
// and fills the session. Missing or inactive accounts yield
// user.ErrNotFound, a wrong password user.ErrInvalidCredential.
func (as *AuthService) Authenticate(
	ctx context.Context,
	sess ports.Session,
	documento, password string,
	remember bool,
) (*ports.LoginResult, error) {
	u, err := as.userRepository.FetchActiveUserByDocumento(ctx, strings.TrimSpace(documento))
	if err != nil {
		as.logger.Error("fetch user for login failed", zap.Error(err))
		return nil, err
	}
	if u == nil {
		as.mCounter.WithLabelValues(metrics.LoginFailureTotal).Inc()
		return nil, user.ErrNotFound
	}
	if !CheckPassword(u.PasswordHash, password) {
		as.mCounter.WithLabelValues(metrics.LoginFailureTotal).Inc()
		return nil, user.ErrInvalidCredential
	}

	sess.Renew()
	sess.Set(SessionUserID, strconv.FormatInt(u.ID, 10))
	sess.Set(SessionUserNombre, u.FullName())
	sess.Set(SessionUserApellido, u.Apellido)
	sess.Set(SessionUserCorreo, u.Correo)
	sess.Set(SessionUserDocumento, u.Documento)
	sess.Set(SessionUserRol, strconv.FormatInt(u.RolID, 10))

	res := &ports.LoginResult{User: u}
	if remember {
		if res.RememberToken, err = NewToken(); err != nil {
			return nil, err
		}
	}

	as.mCounter.WithLabelValues(metrics.LoginSuccessTotal).Inc()

	return res, nil
}

func (as *AuthService) Logout(sess ports.Session) {
	sess.Destroy()
}

func (as *AuthService) IsAuthenticated(sess ports.Session) bool {
	return sess.Get(SessionUserID) != ""
}

// CurrentUser re-reads the logged in account. It returns nil without error
// when nobody is logged in or the account no longer exists.
func (as *AuthService) CurrentUser(ctx context.Context, sess ports.Session) (*user.User, error) {
	id, err := strconv.ParseInt(sess.Get(SessionUserID), 10, 64)
	if err != nil {
		return nil, nil
	}

	return as.userRepository.FetchUserByID(ctx, id)
}

// HasRole checks the role of the account as stored now, not the one copied
// into the session at login. A deleted account has no role.
func (as *AuthService) HasRole(ctx context.Context, sess ports.Session, roleID user.ID) (bool, error) {
	u, err := as.CurrentUser(ctx, sess)
	if err != nil {
		as.logger.Error("fetch user for role check failed", zap.Error(err))
		return false, err
	}
	if u == nil {
		return false, nil
	}

	return u.RolID == roleID, nil
}

// RequestPasswordReset opens a one hour recovery window for the account with
// documento, whatever its status, and mails the link. A mail failure fails
// the request; the stored token stays valid until it expires.
func (as *AuthService) RequestPasswordReset(ctx context.Context, documento string) error {
	u, err := as.userRepository.FetchUserByDocumento(ctx, strings.TrimSpace(documento))
	if err != nil {
		as.logger.Error("fetch user for recovery failed", zap.Error(err))
		return err
	}
	if u == nil {
		return user.ErrNotFound
	}

	token, err := NewToken()
	if err != nil {
		return err
	}

	ok, err := as.userRepository.SetRecoveryToken(ctx, user.RecoveryToken{
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: as.now().Add(RecoveryTokenTTL),
	})
	if err != nil {
		as.logger.Error("store recovery token failed", zap.Int64("user_id", u.ID), zap.Error(err))
		return err
	}
	if !ok {
		return fmt.Errorf("store recovery token of user %d: %w", u.ID, user.ErrPersistence)
	}

	msg := mailer.Message{
		ID:      uuid.NewString(),
		From:    as.cfg.MailFrom,
		To:      u.Correo,
		Subject: RecoverySubject,
		Body:    recoveryBody(u.Nombre, as.resetLink(token)),
	}
	if err = as.mailer.Send(ctx, msg); err != nil {
		as.logger.Error("send recovery mail failed", zap.Int64("user_id", u.ID), zap.Error(err))
		return fmt.Errorf("send recovery mail: %w", err)
	}

	as.mCounter.WithLabelValues(metrics.PasswordResetRequestedTotal).Inc()

	return nil
}

// ValidateResetToken returns the account owning an unexpired token.
func (as *AuthService) ValidateResetToken(ctx context.Context, token string) (user.ID, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, user.ErrTokenInvalidOrExpired
	}

	id, err := as.userRepository.FetchUserIDByRecoveryToken(ctx, token, as.now())
	if err != nil {
		as.logger.Error("lookup recovery token failed", zap.Error(err))
		return 0, err
	}
	if id == 0 {
		return 0, user.ErrTokenInvalidOrExpired
	}

	return id, nil
}

// ResetPassword stores the new hash and consumes the recovery token in the
// same statement. A token spent by a concurrent reset, or expired since it
// was validated, yields user.ErrTokenInvalidOrExpired.
func (as *AuthService) ResetPassword(ctx context.Context, id user.ID, token, newPassword string) error {
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	ok, err := as.userRepository.ResetPassword(ctx, id, strings.TrimSpace(token), hash, as.now())
	if err != nil {
		as.logger.Error("reset password failed", zap.Int64("user_id", id), zap.Error(err))
		return err
	}
	if !ok {
		return user.ErrTokenInvalidOrExpired
	}

	as.mCounter.WithLabelValues(metrics.PasswordResetCompletedTotal).Inc()

	return nil
}

func (as *AuthService) resetLink(token string) string {
	return as.cfg.ResetURL + "?token=" + token
}

func recoveryBody(nombre, link string) string {
	var b strings.Builder
	b.WriteString("Hola " + nombre + ",\n\n")
	b.WriteString("Has solicitado restablecer tu contraseña. Haz clic en el siguiente enlace para crear una nueva contraseña:\n\n")
	b.WriteString(link + "\n\n")
	b.WriteString("Este enlace expirará en 1 hora.\n\n")
	b.WriteString("Si no solicitaste este cambio, puedes ignorar este correo.\n\n")
	b.WriteString("Saludos,\nEquipo Gestor de Inventario")

	return b.String()
}
