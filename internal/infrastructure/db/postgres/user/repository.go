package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"inventory-auth-api/internal/domain/user"
	"inventory-auth-api/internal/infrastructure/db/postgres"
)

const (
	documentoConstraint = "usuarios_documento_key"
	correoConstraint    = "usuarios_correo_key"

	tipoDocumentoFK = "usuarios_id_tipo_documento_fkey"
	rolFK           = "usuarios_id_rol_fkey"
	estadoFK        = "usuarios_id_estado_fkey"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user.Repository {
	return &Repository{db: db}
}

func scanUser(row pgx.Row) (*User, error) {
	u := new(User)
	if err := row.Scan(
		&u.ID,
		&u.Nombre,
		&u.Apellido,
		&u.Correo,
		&u.Documento,
		&u.TipoDocumentoID,
		&u.RolID,
		&u.EstadoID,
		&u.Contrasena,

		&u.TipoDocumento,
		&u.Rol,
		&u.Estado,
	); err != nil {
		return nil, err
	}

	return u, nil
}

func (r *Repository) fetchOne(ctx context.Context, query string, args ...any) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) fetchMany(ctx context.Context, query string, args ...any) (user.Users, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	us := Users{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		us = append(us, u)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&us), nil
}

func (r *Repository) FetchUserByID(ctx context.Context, id user.ID) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByID, id)
}

func (r *Repository) FetchUserByDocumento(ctx context.Context, documento string) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByDocumento, documento)
}

func (r *Repository) FetchActiveUserByDocumento(ctx context.Context, documento string) (*user.User, error) {
	return r.fetchOne(ctx, SelectActiveUserByDocumento, documento, user.StatusActive)
}

func (r *Repository) FetchUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByEmail, email)
}

func (r *Repository) FetchUsers(ctx context.Context) (user.Users, error) {
	return r.fetchMany(ctx, SelectUsers)
}

func (r *Repository) SearchUsers(ctx context.Context, term string) (user.Users, error) {
	return r.fetchMany(ctx, SearchUsers, likePattern(term))
}

func (r *Repository) CreateUser(ctx context.Context, req user.User) (user.ID, error) {
	var id int64
	err := r.db.QueryRow(
		ctx,
		InsertUser,
		req.Nombre, req.Apellido, req.Correo, req.Documento,
		req.TipoDocumentoID, req.RolID, req.PasswordHash, req.EstadoID,
	).Scan(&id)
	if err != nil {
		return 0, writeErr(err)
	}

	return id, nil
}

func (r *Repository) UpdateUser(ctx context.Context, req user.User) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, UpdateUserByID,
		req.Nombre, req.Apellido, req.Correo, req.Documento,
		req.TipoDocumentoID, req.RolID, req.EstadoID, req.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, writeErr(err)
	}

	return fromDBModel(u), nil
}

func (r *Repository) UpdatePassword(ctx context.Context, id user.ID, hash string) (bool, error) {
	return r.exec(ctx, UpdatePasswordByID, hash, id)
}

func (r *Repository) DeleteUser(ctx context.Context, id user.ID) (bool, error) {
	return r.exec(ctx, DeleteUserByID, id)
}

func (r *Repository) SetRecoveryToken(ctx context.Context, t user.RecoveryToken) (bool, error) {
	return r.exec(ctx, SetRecoveryTokenByID, t.Token, t.ExpiresAt, t.UserID)
}

func (r *Repository) FetchUserIDByRecoveryToken(ctx context.Context, token string, now time.Time) (user.ID, error) {
	var id int64
	if err := r.db.QueryRow(ctx, SelectIDByRecoveryToken, token, now).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	return id, nil
}

// ResetPassword consumes token. It reports false when the token is no
// longer the account's live one, so a token cannot be spent twice.
func (r *Repository) ResetPassword(ctx context.Context, id user.ID, token, hash string, now time.Time) (bool, error) {
	return r.exec(ctx, ResetPasswordByID, hash, id, token, now)
}

func (r *Repository) exec(ctx context.Context, query string, args ...any) (bool, error) {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// writeErr turns constraint failures caused by the submitted row into
// domain errors.
func writeErr(err error) error {
	switch {
	case postgres.IsPgUniqueViolation(err):
		switch postgres.UniqueConstraint(err) {
		case documentoConstraint:
			return user.ErrDocumentoTaken
		case correoConstraint:
			return user.ErrEmailTaken
		default:
			return user.ErrConflict
		}
	case postgres.IsPgForeignKeyViolation(err):
		switch postgres.ForeignKeyConstraint(err) {
		case tipoDocumentoFK:
			return user.ErrUnknownTipoDocumento
		case rolFK:
			return user.ErrUnknownRol
		case estadoFK:
			return user.ErrUnknownEstado
		default:
			return user.ErrInvalidReference
		}
	case postgres.IsPgStringTooLong(err):
		return user.ErrValueTooLong
	default:
		return err
	}
}
