package ports

import (
	"context"

	"inventory-auth-api/internal/domain/user"
)

type UserService interface {
	FindUserByID(ctx context.Context, id user.ID) (*user.User, error)
	FindByDocumento(ctx context.Context, documento string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindUsers(ctx context.Context) (user.Users, error)
	SearchUsers(ctx context.Context, term string) (user.Users, error)
	CreateUser(ctx context.Context, u user.User, password string) (*user.User, error)
	UpdateUser(ctx context.Context, id user.ID, ch user.Changes) (*user.User, error)
	UpdatePassword(ctx context.Context, id user.ID, password string) error
	DeleteUser(ctx context.Context, id user.ID) error
}
