package auth

import "inventory-auth-api/internal/domain/user"

// LoginUser is the public summary returned after a login.
type LoginUser struct {
	ID       int64  `json:"id"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Rol      int64  `json:"rol"`
}

func ToLoginUser(u user.User) LoginUser {
	return LoginUser{
		ID:       u.ID,
		Nombre:   u.Nombre,
		Apellido: u.Apellido,
		Rol:      u.RolID,
	}
}

// Me is the session view of the logged in account.
type Me struct {
	ID        int64  `json:"id"`
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	Correo    string `json:"correo"`
	Documento string `json:"documento"`
	Rol       int64  `json:"rol"`
	RolNombre string `json:"rol_nombre,omitempty"`
}

func ToMe(u user.User) Me {
	return Me{
		ID:        u.ID,
		Nombre:    u.Nombre,
		Apellido:  u.Apellido,
		Correo:    u.Correo,
		Documento: u.Documento,
		Rol:       u.RolID,
		RolNombre: u.RolNombre,
	}
}
