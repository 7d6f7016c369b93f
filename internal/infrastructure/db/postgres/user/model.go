package user

type (
	User struct {
		ID              int64
		Nombre          string
		Apellido        string
		Correo          string
		Documento       string
		TipoDocumentoID int64
		RolID           int64
		EstadoID        int64
		Contrasena      string

		TipoDocumento string
		Rol           string
		Estado        string
	}
	Users []*User
)
