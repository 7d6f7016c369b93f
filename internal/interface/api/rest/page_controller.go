package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inventory-auth-api/internal/application/ports"
	domain "inventory-auth-api/internal/domain/user"
	"inventory-auth-api/internal/interface/api/rest/dto/auth"
	"inventory-auth-api/internal/interface/api/rest/middleware"
)

// PageController guards the pages of the web front end. Markup is served
// elsewhere; these handlers only decide who may see a page.
type PageController struct {
	logger      *zap.Logger
	authService ports.AuthService
}

func NewPageController(
	r *gin.Engine,
	logger *zap.Logger,
	authService ports.AuthService,
	loginURL, landingURL string,
) *PageController {
	pc := &PageController{
		logger:      logger,
		authService: authService,
	}

	r.GET(RoutePageLogin, middleware.RequireAnonymous(authService, landingURL), pc.LoginPageHandler)
	r.GET(RoutePageHome, middleware.RequireAuthenticated(authService, loginURL), pc.HomePageHandler)
	r.GET(RoutePageResetPassword, pc.ResetPasswordPageHandler)

	return pc
}

func (pc *PageController) LoginPageHandler(c *gin.Context) {
	respondOK(c, http.StatusOK, "", gin.H{"page": "login"})
}

// HomePageHandler keeps serving the page when the account behind the session
// was deleted; the user simply shows up empty.
func (pc *PageController) HomePageHandler(c *gin.Context) {
	u, err := pc.authService.CurrentUser(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		pc.logger.Error("CurrentUser() error", zap.Error(err))
		respondFail(c, http.StatusInternalServerError, msgInternal)
		return
	}

	var me *auth.Me
	if u != nil {
		m := auth.ToMe(*u)
		me = &m
	}

	respondOK(c, http.StatusOK, "", gin.H{"page": "home", "usuario": me})
}

func (pc *PageController) ResetPasswordPageHandler(c *gin.Context) {
	token := c.Query("token")
	if _, err := pc.authService.ValidateResetToken(c.Request.Context(), token); err != nil {
		if !errors.Is(err, domain.ErrTokenInvalidOrExpired) {
			pc.logger.Error("ValidateResetToken() error", zap.Error(err))
			respondFail(c, http.StatusInternalServerError, msgInternal)
			return
		}
		respondFail(c, http.StatusOK, msgTokenInvalid)
		return
	}

	respondOK(c, http.StatusOK, "", gin.H{"page": "reset_password", "token": token})
}
