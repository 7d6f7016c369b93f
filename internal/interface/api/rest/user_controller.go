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
	"inventory-auth-api/internal/interface/api/rest/dto/user"
	"inventory-auth-api/internal/interface/api/rest/middleware"
	"inventory-auth-api/internal/interface/api/rest/validator"
)

const (
	msgInvalidID          = "ID no válido"
	msgUserCreated        = "Usuario creado exitosamente"
	msgUserCreateDup      = "No se pudo crear el usuario. El correo o documento ya existe."
	msgUserUpdated        = "Usuario actualizado exitosamente"
	msgUserUpdateDup      = "No se pudo actualizar el usuario. Verifique que el correo o documento no estén en uso."
	msgPasswordUpdated    = "Contraseña actualizada exitosamente"
	msgPasswordFailed     = "No se pudo actualizar la contraseña"
	msgUserDeleted        = "Usuario eliminado exitosamente"
	msgUserDeleteFailed   = "No se pudo eliminar el usuario"
	msgInvalidCredentials = "Credenciales inválidas"
)

// UserController is the administrative surface. Everything under /users
// requires a session whose role is adminRoleID.
type UserController struct {
	userService   ports.UserService
	authService   ports.AuthService
	logger        *zap.Logger
	secureCookies bool
}

func NewUserController(
	r *gin.Engine,
	userService ports.UserService,
	authService ports.AuthService,
	logger *zap.Logger,
	adminRoleID domain.ID,
	secureCookies bool,
) *UserController {
	uc := &UserController{
		userService:   userService,
		authService:   authService,
		logger:        logger,
		secureCookies: secureCookies,
	}

	admin := r.Group("",
		middleware.RequireAPIAuth(authService),
		middleware.RequireRole(authService, adminRoleID),
	)
	admin.GET(RouteUsers, uc.GetUsersHandler)
	admin.GET(RouteUser, uc.GetUserHandler)
	admin.POST(RouteUsers, uc.CreateUserHandler)
	admin.PUT(RouteUser, uc.UpdateUserHandler)
	admin.PUT(RouteUserPassword, uc.UpdatePasswordHandler)
	admin.DELETE(RouteUser, uc.DeleteUserHandler)

	r.POST(RouteSession, uc.CreateSessionHandler)
	r.DELETE(RouteSession, uc.DeleteSessionHandler)

	return uc
}

// GetUsersHandler lists everybody, or the matches of ?q= when given.
func (uc *UserController) GetUsersHandler(c *gin.Context) {
	users, err := uc.userService.SearchUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		uc.logger.Error("SearchUsers() error", zap.Error(err))
		respondFail(c, http.StatusInternalServerError, msgInternal)
		return
	}

	respondOK(c, http.StatusOK, "", user.ToResponseUsers(users))
}

func (uc *UserController) GetUserHandler(c *gin.Context) {
	id, ok := validator.ParseID(c.Param("user_id"))
	if !ok {
		respondFail(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	u, err := uc.userService.FindUserByID(c.Request.Context(), id)
	if err != nil {
		uc.logger.Error("FindUserByID() error", zap.Error(err))
		respondFail(c, http.StatusInternalServerError, msgInternal)
		return
	}
	if u == nil {
		respondFail(c, http.StatusNotFound, msgUserNotFound)
		return
	}

	respondOK(c, http.StatusOK, "", user.ToResponseUser(*u))
}

func (uc *UserController) CreateUserHandler(c *gin.Context) {
	var req user.CreateRequest
	if err := bind(c, &req); err != nil {
		badRequest(c)
		return
	}
	if errs := validator.ValidateUserCreate(req); errs != nil {
		respondInvalid(c, http.StatusBadRequest, errs)
		return
	}

	u, err := uc.userService.CreateUser(c.Request.Context(), user.ToDomainUser(req), req.Contrasena)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			respondFail(c, http.StatusConflict, msgUserCreateDup)
			return
		}
		if respondRejected(c, http.StatusBadRequest, err) {
			return
		}
		uc.logger.Error("CreateUser() error", zap.Error(err))
		respondFail(c, http.StatusInternalServerError, msgInternal)
		return
	}

	respondOK(c, http.StatusCreated, msgUserCreated, user.ToResponseUser(*u))
}

func (uc *UserController) UpdateUserHandler(c *gin.Context) {
	id, ok := validator.ParseID(c.Param("user_id"))
	if !ok {
		respondFail(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req user.UpdateRequest
	if err := bind(c, &req); err != nil {
		badRequest(c)
		return
	}
	if errs := validator.ValidateUserUpdate(req); errs != nil {
		respondInvalid(c, http.StatusBadRequest, errs)
		return
	}

	u, err := uc.userService.UpdateUser(c.Request.Context(), id, user.ToDomainChanges(req))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			respondFail(c, http.StatusNotFound, msgUserNotFound)
		case errors.Is(err, domain.ErrConflict):
			respondFail(c, http.StatusConflict, msgUserUpdateDup)
		default:
			if respondRejected(c, http.StatusBadRequest, err) {
				return
			}
			uc.logger.Error("UpdateUser() error", zap.Int64("user_id", id), zap.Error(err))
			respondFail(c, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	respondOK(c, http.StatusOK, msgUserUpdated, user.ToResponseUser(*u))
}

func (uc *UserController) UpdatePasswordHandler(c *gin.Context) {
	id, ok := validator.ParseID(c.Param("user_id"))
	if !ok {
		respondFail(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req user.PasswordRequest
	if err := bind(c, &req); err != nil {
		badRequest(c)
		return
	}
	if errs := validator.ValidateAdminPassword(req); errs != nil {
		respondInvalid(c, http.StatusBadRequest, errs)
		return
	}

	if err := uc.userService.UpdatePassword(c.Request.Context(), id, req.Contrasena); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondFail(c, http.StatusNotFound, msgUserNotFound)
			return
		}
		uc.logger.Error("UpdatePassword() error", zap.Int64("user_id", id), zap.Error(err))
		respondFail(c, http.StatusInternalServerError, msgPasswordFailed)
		return
	}

	respondOK(c, http.StatusOK, msgPasswordUpdated, nil)
}

func (uc *UserController) DeleteUserHandler(c *gin.Context) {
	id, ok := validator.ParseID(c.Param("user_id"))
	if !ok {
		respondFail(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	if err := uc.userService.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondFail(c, http.StatusNotFound, msgUserNotFound)
			return
		}
		uc.logger.Error("DeleteUser() error", zap.Int64("user_id", id), zap.Error(err))
		respondFail(c, http.StatusInternalServerError, msgUserDeleteFailed)
		return
	}

	respondOK(c, http.StatusOK, msgUserDeleted, nil)
}

// CreateSessionHandler is the JSON login of the admin client.
func (uc *UserController) CreateSessionHandler(c *gin.Context) {
	var req auth.LoginRequest
	if err := bind(c, &req); err != nil {
		badRequest(c)
		return
	}
	if errs := validator.ValidateLogin(req); errs != nil {
		respondInvalid(c, http.StatusBadRequest, errs)
		return
	}

	res, err := uc.authService.Authenticate(
		c.Request.Context(),
		middleware.SessionFrom(c),
		validator.Normalize(req.Documento.String()),
		req.Contrasena,
		req.Recordar.Checked(),
	)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidCredential) {
			respondFail(c, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		uc.logger.Error("Authenticate() error", zap.Error(err))
		respondFail(c, http.StatusInternalServerError, msgInternal)
		return
	}

	if res.RememberToken != "" {
		http.SetCookie(c.Writer, session.RememberCookie(res.RememberToken, uc.secureCookies))
	}

	respondOK(c, http.StatusOK, msgLoginOK, user.ToResponseUser(*res.User))
}

func (uc *UserController) DeleteSessionHandler(c *gin.Context) {
	uc.authService.Logout(middleware.SessionFrom(c))
	http.SetCookie(c.Writer, session.ExpiredRememberCookie(uc.secureCookies))

	respondOK(c, http.StatusOK, msgLogoutOK, nil)
}
