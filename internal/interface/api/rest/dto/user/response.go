package user

type (
	User struct {
		ID              int64  `json:"id"`
		Nombre          string `json:"nombre"`
		Apellido        string `json:"apellido"`
		Correo          string `json:"correo"`
		Documento       string `json:"documento"`
		IDTipoDocumento int64  `json:"id_tipo_documento"`
		TipoDocumento   string `json:"tipo_documento,omitempty"`
		IDRol           int64  `json:"id_rol"`
		Rol             string `json:"rol,omitempty"`
		IDEstado        int64  `json:"id_estado"`
		Estado          string `json:"estado,omitempty"`
	}
	Users []User
)
