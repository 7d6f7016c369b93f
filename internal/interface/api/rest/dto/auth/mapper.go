package auth

import (
	"strconv"
	"strings"

	"inventory-auth-api/internal/domain/user"
)

// ToDomainUser expects a validated request. New accounts start active.
func ToDomainUser(r RegisterRequest) user.User {
	tipo, _ := strconv.ParseInt(strings.TrimSpace(r.IDTipoDocumento.String()), 10, 64)
	rol, _ := strconv.ParseInt(strings.TrimSpace(r.IDRol.String()), 10, 64)

	return user.User{
		Nombre:          strings.TrimSpace(r.Nombre),
		Apellido:        strings.TrimSpace(r.Apellido),
		Correo:          strings.TrimSpace(r.Correo),
		Documento:       strings.TrimSpace(r.Documento.String()),
		TipoDocumentoID: tipo,
		RolID:           rol,
		EstadoID:        user.StatusActive,
	}
}
