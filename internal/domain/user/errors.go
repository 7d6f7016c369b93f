package user

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("user not found")
	ErrConflict              = errors.New("documento or correo already in use")
	ErrDocumentoTaken        = fmt.Errorf("%w: documento", ErrConflict)
	ErrEmailTaken            = fmt.Errorf("%w: correo", ErrConflict)
	ErrInvalidCredential     = errors.New("invalid credentials")
	ErrTokenInvalidOrExpired = errors.New("recovery token is invalid or expired")
	ErrPersistence           = errors.New("store operation had no effect")

	// ErrInvalidReference is a catalog id (tipo de documento, rol, estado)
	// with no row behind it.
	ErrInvalidReference     = errors.New("referenced catalog entry does not exist")
	ErrUnknownTipoDocumento = fmt.Errorf("%w: id_tipo_documento", ErrInvalidReference)
	ErrUnknownRol           = fmt.Errorf("%w: id_rol", ErrInvalidReference)
	ErrUnknownEstado        = fmt.Errorf("%w: id_estado", ErrInvalidReference)
	ErrValueTooLong         = errors.New("value longer than the column allows")
)
