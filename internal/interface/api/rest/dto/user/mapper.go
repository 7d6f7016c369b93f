package user

import (
	"strconv"
	"strings"

	domain "inventory-auth-api/internal/domain/user"
	"inventory-auth-api/internal/interface/api/rest/dto/form"
)

func ToResponseUser(uDomain domain.User) User {
	var u = User{
		ID:              uDomain.ID,
		Nombre:          uDomain.Nombre,
		Apellido:        uDomain.Apellido,
		Correo:          uDomain.Correo,
		Documento:       uDomain.Documento,
		IDTipoDocumento: uDomain.TipoDocumentoID,
		TipoDocumento:   uDomain.TipoDocumentoNombre,
		IDRol:           uDomain.RolID,
		Rol:             uDomain.RolNombre,
		IDEstado:        uDomain.EstadoID,
		Estado:          uDomain.EstadoNombre,
	}

	return u
}

func ToResponseUsers(usDomain domain.Users) Users {
	us := make(Users, len(usDomain))
	for idx, u := range usDomain {
		us[idx] = ToResponseUser(*u)
	}

	return us
}

// ToDomainUser expects a validated request.
func ToDomainUser(r CreateRequest) domain.User {
	return domain.User{
		Nombre:          strings.TrimSpace(r.Nombre),
		Apellido:        strings.TrimSpace(r.Apellido),
		Correo:          strings.TrimSpace(r.Correo),
		Documento:       strings.TrimSpace(r.Documento.String()),
		TipoDocumentoID: toID(r.IDTipoDocumento.String()),
		RolID:           toID(r.IDRol.String()),
		EstadoID:        toID(r.IDEstado.String()),
	}
}

// ToDomainChanges expects a validated request.
func ToDomainChanges(r UpdateRequest) domain.Changes {
	return domain.Changes{
		Nombre:          trimmed(r.Nombre),
		Apellido:        trimmed(r.Apellido),
		Correo:          trimmed(r.Correo),
		Documento:       trimmed(r.Documento),
		TipoDocumentoID: idPtr(r.IDTipoDocumento),
		RolID:           idPtr(r.IDRol),
		EstadoID:        idPtr(r.IDEstado),
		Password:        form.Ptr(r.Contrasena),
	}
}

func trimmed(v *form.Value) *string {
	s := form.Ptr(v)
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
	return s
}

func idPtr(v *form.Value) *domain.ID {
	if v == nil {
		return nil
	}
	id := toID(v.String())
	return &id
}

func toID(s string) domain.ID {
	id, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return id
}
