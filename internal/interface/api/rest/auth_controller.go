package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inventory-auth-api/internal/application/ports"
	domain "inventory-auth-api/internal/domain/user"
	"inventory-auth-api/internal/infrastructure/session"
	"inventory-auth-api/internal/interface/api/rest/dto/auth"
	"inventory-auth-api/internal/interface/api/rest/middleware"
	"inventory-auth-api/internal/interface/api/rest/validator"
)

// Values of the accion field posted by the login page forms.
const (
	AccionIniciarSesion       = "iniciar_sesion"
	AccionCerrarSesion        = "cerrar_sesion"
	AccionRegistrarUsuario    = "registrar_usuario"
	AccionRecuperarContrasena = "recuperar_contrasena"
	AccionCambiarContrasena   = "cambiar_contrasena"
)

const (
	msgInternal        = "Error interno del servidor"
	msgAccionInvalida  = "Acción no válida"
	msgLoginOK         = "Inicio de sesión exitoso"
	msgLoginFailed     = "Documento o contraseña incorrectos, o usuario inactivo"
	msgLogoutOK        = "Sesión cerrada exitosamente"
	msgRegisterOK      = "Usuario registrado correctamente"
	msgRegisterDup     = "No se pudo registrar el usuario. El documento o correo ya existe."
	msgRecoveryOK      = "Se ha enviado un correo con instrucciones para recuperar la contraseña"
	msgRecoveryUnknown = "No se encontró un usuario con ese documento"
	msgRecoveryMail    = "No se pudo enviar el correo de recuperación"
	msgTokenInvalid    = "El token es inválido o ha expirado"
	msgResetOK         = "Contraseña cambiada correctamente"
	msgResetFailed     = "No se pudo cambiar la contraseña"
	msgUserNotFound    = "Usuario no encontrado"
)

// AuthController serves the login page forms. Business failures answer 200
// with success=false; only unreadable bodies get 400.
type AuthController struct {
	logger        *zap.Logger
	authService   ports.AuthService
	userService   ports.UserService
	secureCookies bool
}

func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	authService ports.AuthService,
	userService ports.UserService,
	secureCookies bool,
) *AuthController {
	ac := &AuthController{
		logger:        logger,
		authService:   authService,
		userService:   userService,
		secureCookies: secureCookies,
	}

	r.POST(RouteAuth, ac.ActionHandler)
	r.POST(RouteLogin, ac.LoginHandler)
	r.POST(RouteLogout, ac.LogoutHandler)
	r.POST(RouteRegister, ac.RegisterHandler)
	r.POST(RoutePasswordRecovery, ac.RecoveryHandler)
	r.POST(RoutePasswordReset, ac.ResetHandler)
	r.GET(RouteMe, middleware.RequireAPIAuth(authService), ac.MeHandler)

	return ac
}

// ActionHandler dispatches on the accion field, the way the login page posts
// every form to a single endpoint.
func (ac *AuthController) ActionHandler(c *gin.Context) {
	var req auth.ActionRequest
	if err := bind(c, &req); err != nil {
		badRequest(c)
		return
	}

	switch req.Accion {
	case AccionIniciarSesion:
		ac.LoginHandler(c)
	case AccionCerrarSesion:
		ac.LogoutHandler(c)
	case AccionRegistrarUsuario:
		ac.RegisterHandler(c)
	case AccionRecuperarContrasena:
		ac.RecoveryHandler(c)
	case AccionCambiarContrasena:
		ac.ResetHandler(c)
	default:
		respondFail(c, http.StatusBadRequest, msgAccionInvalida)
	}
}

func (ac *AuthController) LoginHandler(c *gin.Context) {
	var req auth.LoginRequest
	if err := bind(c, &req); err != nil {
		badRequest(c)
		return
	}
	if errs := validator.ValidateLogin(req); errs != nil {
		respondInvalid(c, http.StatusOK, errs)
		return
	}

	res, err := ac.authService.Authenticate(
		c.Request.Context(),
		middleware.SessionFrom(c),
		validator.Normalize(req.Documento.String()),
		req.Contrasena,
		req.Recordar.Checked(),
	)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidCredential) {
			respondFail(c, http.StatusOK, msgLoginFailed)
			return
		}
		ac.logger.Error("Authenticate() error", zap.Error(err))
		respondFail(c, http.StatusInternalServerError, msgInternal)
		return
	}

	if res.RememberToken != "" {
		http.SetCookie(c.Writer, session.RememberCookie(res.RememberToken, ac.secureCookies))
	}

	respondOK(c, http.StatusOK, msgLoginOK, auth.ToLoginUser(*res.User))
}

// LogoutHandler is idempotent: logging out without a session still succeeds.
func (ac *AuthController) LogoutHandler(c *gin.Context) {
	ac.authService.Logout(middleware.SessionFrom(c))
	http.SetCookie(c.Writer, session.ExpiredRememberCookie(ac.secureCookies))

	respondOK(c, http.StatusOK, msgLogoutOK, nil)
}

func (ac *AuthController) RegisterHandler(c *gin.Context) {
	var req auth.RegisterRequest
	if err := bind(c, &req); err != nil {
		badRequest(c)
		return
	}
	if errs := validator.ValidateRegistration(req); errs != nil {
		respondInvalid(c, http.StatusOK, errs)
		return
	}

	_, err := ac.userService.CreateUser(c.Request.Context(), auth.ToDomainUser(req), req.Contrasena)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			respondFail(c, http.StatusOK, msgRegisterDup)
			return
		}
		if respondRejected(c, http.StatusOK, err) {
			return
		}
		ac.logger.Error("CreateUser() error", zap.Error(err))
		respondFail(c, http.StatusInternalServerError, msgInternal)
		return
	}

	respondOK(c, http.StatusOK, msgRegisterOK, nil)
}

func (ac *AuthController) RecoveryHandler(c *gin.Context) {
	var req auth.RecoveryRequest
	if err := bind(c, &req); err != nil {
		badRequest(c)
		return
	}
	if errs := validator.ValidateRecovery(req); errs != nil {
		respondInvalid(c, http.StatusOK, errs)
		return
	}

	err := ac.authService.RequestPasswordReset(c.Request.Context(), validator.Normalize(req.Documento.String()))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondFail(c, http.StatusOK, msgRecoveryUnknown)
			return
		}
		ac.logger.Error("RequestPasswordReset() error", zap.Error(err))
		respondFail(c, http.StatusOK, msgRecoveryMail)
		return
	}

	respondOK(c, http.StatusOK, msgRecoveryOK, nil)
}

func (ac *AuthController) ResetHandler(c *gin.Context) {
	var req auth.ResetRequest
	if err := bind(c, &req); err != nil {
		badRequest(c)
		return
	}
	if errs := validator.ValidateReset(req); errs != nil {
		respondInvalid(c, http.StatusOK, errs)
		return
	}

	ctx := c.Request.Context()
	id, err := ac.authService.ValidateResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalidOrExpired) {
			respondFail(c, http.StatusOK, msgTokenInvalid)
			return
		}
		ac.logger.Error("ValidateResetToken() error", zap.Error(err))
		respondFail(c, http.StatusInternalServerError, msgInternal)
		return
	}

	if err = ac.authService.ResetPassword(ctx, id, req.Token, req.NuevaContrasena); err != nil {
		if errors.Is(err, domain.ErrTokenInvalidOrExpired) {
			respondFail(c, http.StatusOK, msgTokenInvalid)
			return
		}
		ac.logger.Error("ResetPassword() error", zap.Int64("user_id", id), zap.Error(err))
		respondFail(c, http.StatusOK, msgResetFailed)
		return
	}

	respondOK(c, http.StatusOK, msgResetOK, nil)
}

func (ac *AuthController) MeHandler(c *gin.Context) {
	u, err := ac.authService.CurrentUser(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		ac.logger.Error("CurrentUser() error", zap.Error(err))
		respondFail(c, http.StatusInternalServerError, msgInternal)
		return
	}
	if u == nil {
		respondFail(c, http.StatusNotFound, msgUserNotFound)
		return
	}

	respondOK(c, http.StatusOK, "", auth.ToMe(*u))
}
