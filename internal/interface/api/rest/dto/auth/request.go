package auth

import "inventory-auth-api/internal/interface/api/rest/dto/form"

type (
	// ActionRequest selects the handler of the legacy single-endpoint form.
	ActionRequest struct {
		Accion string `form:"accion" json:"accion"`
	}
	LoginRequest struct {
		Documento  form.Value `form:"documento" json:"documento"`
		Contrasena string     `form:"contrasena" json:"contrasena"`
		Recordar   form.Value `form:"recordar" json:"recordar"`
	}
	RegisterRequest struct {
		Nombre              string     `form:"nombre" json:"nombre"`
		Apellido            string     `form:"apellido" json:"apellido"`
		Correo              string     `form:"correo" json:"correo"`
		Documento           form.Value `form:"documento" json:"documento"`
		IDTipoDocumento     form.Value `form:"id_tipo_documento" json:"id_tipo_documento"`
		IDRol               form.Value `form:"id_rol" json:"id_rol"`
		Contrasena          string     `form:"contrasena" json:"contrasena"`
		ConfirmarContrasena string     `form:"confirmar_contrasena" json:"confirmar_contrasena"`
	}
	RecoveryRequest struct {
		Documento form.Value `form:"documento" json:"documento"`
	}
	ResetRequest struct {
		Token               string `form:"token" json:"token"`
		NuevaContrasena     string `form:"nueva_contrasena" json:"nueva_contrasena"`
		ConfirmarContrasena string `form:"confirmar_contrasena" json:"confirmar_contrasena"`
	}
)
