package user

import "time"

// StatusActive is the only estado allowed to authenticate.
const StatusActive ID = 1

type (
	ID   = int64
	User struct {
		ID              ID
		Nombre          string
		Apellido        string
		Correo          string
		Documento       string
		TipoDocumentoID ID
		RolID           ID
		EstadoID        ID
		PasswordHash    string

		// filled by read queries joining the lookup tables
		TipoDocumentoNombre string
		RolNombre           string
		EstadoNombre        string
	}
	Users []*User

	// Changes is a partial update: nil fields keep the stored value.
	Changes struct {
		Nombre          *string
		Apellido        *string
		Correo          *string
		Documento       *string
		TipoDocumentoID *ID
		RolID           *ID
		EstadoID        *ID
		Password        *string
	}

	// RecoveryToken is an open password-reset window.
	RecoveryToken struct {
		UserID    ID
		Token     string
		ExpiresAt time.Time
	}
)

func (u *User) IsActive() bool { return u.EstadoID == StatusActive }

func (u *User) FullName() string {
	if u.Apellido == "" {
		return u.Nombre
	}
	return u.Nombre + " " + u.Apellido
}

// Apply merges the non-nil fields of ch into a copy of u. The password is
// not part of the copy: callers hash it separately.
func (u User) Apply(ch Changes) User {
	if ch.Nombre != nil {
		u.Nombre = *ch.Nombre
	}
	if ch.Apellido != nil {
		u.Apellido = *ch.Apellido
	}
	if ch.Correo != nil {
		u.Correo = *ch.Correo
	}
	if ch.Documento != nil {
		u.Documento = *ch.Documento
	}
	if ch.TipoDocumentoID != nil {
		u.TipoDocumentoID = *ch.TipoDocumentoID
	}
	if ch.RolID != nil {
		u.RolID = *ch.RolID
	}
	if ch.EstadoID != nil {
		u.EstadoID = *ch.EstadoID
	}

	return u
}
