package ports

import (
	"context"

	"inventory-auth-api/internal/domain/user"
)

// LoginResult is a successful login. RememberToken is set only when the
// caller asked to be remembered.
type LoginResult struct {
	User          *user.User
	RememberToken string
}

type AuthService interface {
	Authenticate(ctx context.Context, sess Session, documento, password string, remember bool) (*LoginResult, error)
	Logout(sess Session)
	IsAuthenticated(sess Session) bool
	CurrentUser(ctx context.Context, sess Session) (*user.User, error)
	HasRole(ctx context.Context, sess Session, roleID user.ID) (bool, error)

	RequestPasswordReset(ctx context.Context, documento string) error
	ValidateResetToken(ctx context.Context, token string) (user.ID, error)
	ResetPassword(ctx context.Context, id user.ID, token, newPassword string) error
}
