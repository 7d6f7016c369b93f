package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory-auth-api/internal/application/ports"
	"inventory-auth-api/internal/domain/user"
)

// RequireAuthenticated sends visitors without a session to loginURL.
func RequireAuthenticated(authService ports.AuthService, loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authService.IsAuthenticated(SessionFrom(c)) {
			c.Redirect(http.StatusFound, loginURL)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAnonymous sends logged in users to landingURL.
func RequireAnonymous(authService ports.AuthService, landingURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authService.IsAuthenticated(SessionFrom(c)) {
			c.Redirect(http.StatusFound, landingURL)
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireAPIAuth(authService ports.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authService.IsAuthenticated(SessionFrom(c)) {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"success": false, "message": "No autenticado"},
			)
			return
		}
		c.Next()
	}
}

// RequireRole must run after RequireAPIAuth. The role is read from the
// account, so a demoted or deleted user loses access on the next request.
func RequireRole(authService ports.AuthService, roleID user.ID) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := authService.HasRole(c.Request.Context(), SessionFrom(c), roleID)
		if err != nil {
			c.AbortWithStatusJSON(
				http.StatusInternalServerError,
				gin.H{"success": false, "message": "Error interno del servidor"},
			)
			return
		}
		if !ok {
			c.AbortWithStatusJSON(
				http.StatusForbidden,
				gin.H{"success": false, "message": "Acceso denegado"},
			)
			return
		}
		c.Next()
	}
}
