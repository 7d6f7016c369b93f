package user

import (
	domain "inventory-auth-api/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	var u = &domain.User{
		ID:              model.ID,
		Nombre:          model.Nombre,
		Apellido:        model.Apellido,
		Correo:          model.Correo,
		Documento:       model.Documento,
		TipoDocumentoID: model.TipoDocumentoID,
		RolID:           model.RolID,
		EstadoID:        model.EstadoID,
		PasswordHash:    model.Contrasena,

		TipoDocumentoNombre: model.TipoDocumento,
		RolNombre:           model.Rol,
		EstadoNombre:        model.Estado,
	}

	return u
}

func fromDBModels(models *Users) domain.Users {
	us := make(domain.Users, len(*models))
	for idx, u := range *models {
		us[idx] = fromDBModel(u)
	}

	return us
}

// likePattern wraps term for a substring ILIKE, escaping its wildcards.
func likePattern(term string) string {
	r := []rune(term)
	out := make([]rune, 0, len(r)+2)
	out = append(out, '%')
	for _, c := range r {
		if c == '%' || c == '_' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(append(out, '%'))
}
