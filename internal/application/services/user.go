package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"inventory-auth-api/internal/application/ports"
	domain "inventory-auth-api/internal/domain/user"
	"inventory-auth-api/internal/infrastructure/metrics"
)

type UserService struct {
	userRepository domain.Repository
	logger         *zap.Logger
	mCounter       *prometheus.CounterVec
}

func NewUserService(
	userRepository domain.Repository,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.UserService {
	return &UserService{
		userRepository: userRepository,
		logger:         logger,
		mCounter:       mCounter,
	}
}

func (us *UserService) FindUserByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	u, err := us.userRepository.FetchUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (us *UserService) FindByDocumento(ctx context.Context, documento string) (*domain.User, error) {
	u, err := us.userRepository.FetchUserByDocumento(ctx, documento)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (us *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := us.userRepository.FetchUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (us *UserService) FindUsers(ctx context.Context) (domain.Users, error) {
	users, err := us.userRepository.FetchUsers(ctx)
	if err != nil {
		return nil, err
	}

	return users, nil
}

// SearchUsers matches term against nombre, apellido, correo and documento.
// A blank term lists everybody.
func (us *UserService) SearchUsers(ctx context.Context, term string) (domain.Users, error) {
	term = strings.TrimSpace(norm.NFC.String(term))
	if term == "" {
		return us.FindUsers(ctx)
	}

	users, err := us.userRepository.SearchUsers(ctx, term)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (us *UserService) CreateUser(ctx context.Context, u domain.User, password string) (*domain.User, error) {
	if err := us.ensureUnique(ctx, 0, u.Documento, u.Correo); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash
	if u.EstadoID == 0 {
		u.EstadoID = domain.StatusActive
	}

	id, err := us.userRepository.CreateUser(ctx, u)
	if err != nil {
		if !rejectedInput(err) {
			us.logger.Error("create user failed", zap.String("documento", u.Documento), zap.Error(err))
		}
		return nil, err
	}

	uRet, err := us.userRepository.FetchUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if uRet == nil {
		return nil, fmt.Errorf("user %d missing after insert: %w", id, domain.ErrPersistence)
	}

	us.mCounter.WithLabelValues(metrics.UserCreatedTotal).Inc()

	return uRet, nil
}

// UpdateUser applies the non-nil fields of ch. A nil or empty password keeps
// the stored hash.
func (us *UserService) UpdateUser(ctx context.Context, id domain.ID, ch domain.Changes) (*domain.User, error) {
	current, err := us.userRepository.FetchUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	merged := current.Apply(ch)
	if err = us.ensureUnique(ctx, id, changed(current.Documento, merged.Documento), changed(current.Correo, merged.Correo)); err != nil {
		return nil, err
	}

	uRet, err := us.userRepository.UpdateUser(ctx, merged)
	if err != nil {
		if !rejectedInput(err) {
			us.logger.Error("update user failed", zap.Int64("user_id", id), zap.Error(err))
		}
		return nil, err
	}
	if uRet == nil {
		return nil, domain.ErrNotFound
	}

	if ch.Password != nil && *ch.Password != "" {
		if err = us.setPassword(ctx, id, *ch.Password); err != nil {
			return nil, err
		}
	}

	us.mCounter.WithLabelValues(metrics.UserUpdatedTotal).Inc()

	return uRet, nil
}

func (us *UserService) UpdatePassword(ctx context.Context, id domain.ID, password string) error {
	u, err := us.userRepository.FetchUserByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrNotFound
	}

	return us.setPassword(ctx, id, password)
}

func (us *UserService) DeleteUser(ctx context.Context, id domain.ID) error {
	u, err := us.userRepository.FetchUserByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrNotFound
	}

	ok, err := us.userRepository.DeleteUser(ctx, id)
	if err != nil {
		us.logger.Error("delete user failed", zap.Int64("user_id", id), zap.Error(err))
		return err
	}
	if !ok {
		return fmt.Errorf("delete user %d: %w", id, domain.ErrPersistence)
	}

	us.mCounter.WithLabelValues(metrics.UserDeletedTotal).Inc()

	return nil
}

func (us *UserService) setPassword(ctx context.Context, id domain.ID, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	ok, err := us.userRepository.UpdatePassword(ctx, id, hash)
	if err != nil {
		us.logger.Error("update password failed", zap.Int64("user_id", id), zap.Error(err))
		return err
	}
	if !ok {
		return fmt.Errorf("update password of user %d: %w", id, domain.ErrPersistence)
	}

	return nil
}

// ensureUnique rejects a documento or correo held by a user other than self.
// Empty values are not checked.
func (us *UserService) ensureUnique(ctx context.Context, self domain.ID, documento, correo string) error {
	if documento != "" {
		other, err := us.userRepository.FetchUserByDocumento(ctx, documento)
		if err != nil {
			return err
		}
		if other != nil && other.ID != self {
			return domain.ErrDocumentoTaken
		}
	}
	if correo != "" {
		other, err := us.userRepository.FetchUserByEmail(ctx, correo)
		if err != nil {
			return err
		}
		if other != nil && other.ID != self {
			return domain.ErrEmailTaken
		}
	}

	return nil
}

func changed(before, after string) string {
	if before == after {
		return ""
	}
	return after
}

// rejectedInput reports store failures caused by the submitted values rather
// than by the store itself.
func rejectedInput(err error) bool {
	return errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrInvalidReference) ||
		errors.Is(err, domain.ErrValueTooLong)
}
