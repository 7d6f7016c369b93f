package user

import (
	"context"
	"time"
)

// Repository reads return (nil, nil) when the row does not exist.
type Repository interface {
	FetchUserByID(ctx context.Context, id ID) (*User, error)
	FetchUserByDocumento(ctx context.Context, documento string) (*User, error)
	FetchActiveUserByDocumento(ctx context.Context, documento string) (*User, error)
	FetchUserByEmail(ctx context.Context, email string) (*User, error)
	FetchUsers(ctx context.Context) (Users, error)
	SearchUsers(ctx context.Context, term string) (Users, error)
	CreateUser(ctx context.Context, req User) (ID, error)
	UpdateUser(ctx context.Context, req User) (*User, error)
	UpdatePassword(ctx context.Context, id ID, hash string) (bool, error)
	DeleteUser(ctx context.Context, id ID) (bool, error)

	SetRecoveryToken(ctx context.Context, t RecoveryToken) (bool, error)
	FetchUserIDByRecoveryToken(ctx context.Context, token string, now time.Time) (ID, error)
	ResetPassword(ctx context.Context, id ID, token, hash string, now time.Time) (bool, error)
}
