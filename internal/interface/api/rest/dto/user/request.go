package user

import "inventory-auth-api/internal/interface/api/rest/dto/form"

type (
	CreateRequest struct {
		Nombre          string     `form:"nombre" json:"nombre"`
		Apellido        string     `form:"apellido" json:"apellido"`
		Correo          string     `form:"correo" json:"correo"`
		Documento       form.Value `form:"documento" json:"documento"`
		IDTipoDocumento form.Value `form:"id_tipo_documento" json:"id_tipo_documento"`
		IDRol           form.Value `form:"id_rol" json:"id_rol"`
		IDEstado        form.Value `form:"id_estado" json:"id_estado"`
		Contrasena      string     `form:"contrasena" json:"contrasena"`
	}
	// UpdateRequest is partial: absent fields keep their stored value.
	UpdateRequest struct {
		Nombre          *form.Value `form:"nombre" json:"nombre"`
		Apellido        *form.Value `form:"apellido" json:"apellido"`
		Correo          *form.Value `form:"correo" json:"correo"`
		Documento       *form.Value `form:"documento" json:"documento"`
		IDTipoDocumento *form.Value `form:"id_tipo_documento" json:"id_tipo_documento"`
		IDRol           *form.Value `form:"id_rol" json:"id_rol"`
		IDEstado        *form.Value `form:"id_estado" json:"id_estado"`
		Contrasena      *form.Value `form:"contrasena" json:"contrasena"`
	}
	PasswordRequest struct {
		Contrasena string `form:"contrasena" json:"contrasena"`
	}
)
