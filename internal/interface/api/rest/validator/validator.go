package validator

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	playground "github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	domain "inventory-auth-api/internal/domain/user"
	"inventory-auth-api/internal/interface/api/rest/dto/auth"
	"inventory-auth-api/internal/interface/api/rest/dto/form"
	"inventory-auth-api/internal/interface/api/rest/dto/user"
)

// Upper bounds follow the usuarios columns; passwords stop at the bcrypt
// input limit.
const (
	minPasswordLen   = 6
	maxPasswordBytes = 72
	maxNameLen       = 100
	maxCorreoLen     = 150
	maxDocumentoLen  = 20
)

const (
	msgNombreLargo     = "El nombre no puede superar 100 caracteres"
	msgApellidoLargo   = "El apellido no puede superar 100 caracteres"
	msgCorreoLargo     = "El correo no puede superar 150 caracteres"
	msgDocumentoLargo  = "El número de documento no puede superar 20 dígitos"
	msgContrasenaLarga = "La contraseña no puede superar 72 caracteres"
	msgContrasenaCorta = "La contraseña debe tener al menos 6 caracteres"
)

var validate = playground.New()

type (
	FieldError struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	// Errors keeps failures in the order the fields were checked.
	Errors []FieldError
)

func (e *Errors) add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

func (e Errors) Messages() []string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return msgs
}

func (e Errors) orNil() Errors {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Normalize trims s and brings it to NFC so composed and decomposed accents
// compare equal.
func Normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// ParseID accepts a positive decimal id.
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func isEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// isDocumento accepts digits only with a value above zero.
func isDocumento(s string) bool {
	if validate.Var(s, "required,number") != nil {
		return false
	}
	return strings.TrimLeft(s, "0") != ""
}

func longEnough(password string) bool {
	return utf8.RuneCountInString(password) >= minPasswordLen
}

func tooLong(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}

// checkPassword reports the first length problem of a non-empty password.
func checkPassword(errs *Errors, field, password string) {
	switch {
	case !longEnough(password):
		errs.add(field, msgContrasenaCorta)
	case len(password) > maxPasswordBytes:
		errs.add(field, msgContrasenaLarga)
	}
}

// checkNames validates nombre and apellido when present.
func checkNames(errs *Errors, nombre, apellido *string) {
	if nombre != nil {
		if n := Normalize(*nombre); n == "" {
			errs.add("nombre", "El nombre es obligatorio")
		} else if tooLong(n, maxNameLen) {
			errs.add("nombre", msgNombreLargo)
		}
	}
	if apellido != nil {
		if a := Normalize(*apellido); a == "" {
			errs.add("apellido", "El apellido es obligatorio")
		} else if tooLong(a, maxNameLen) {
			errs.add("apellido", msgApellidoLargo)
		}
	}
}

func checkCorreo(errs *Errors, correo, invalid string) {
	correo = Normalize(correo)
	switch {
	case correo == "":
		errs.add("correo", "El correo es obligatorio")
	case tooLong(correo, maxCorreoLen):
		errs.add("correo", msgCorreoLargo)
	case !isEmail(correo):
		errs.add("correo", invalid)
	}
}

func checkDocumento(errs *Errors, documento string) {
	documento = Normalize(documento)
	switch {
	case documento == "":
		errs.add("documento", "El número de documento es obligatorio")
	case !isDocumento(documento):
		errs.add("documento", "El número de documento debe ser un número entero positivo")
	case tooLong(documento, maxDocumentoLen):
		errs.add("documento", msgDocumentoLargo)
	}
}

func ValidateLogin(r auth.LoginRequest) Errors {
	var errs Errors

	if Normalize(r.Documento.String()) == "" {
		errs.add("documento", "El número de documento es obligatorio")
	}
	if strings.TrimSpace(r.Contrasena) == "" {
		errs.add("contrasena", "La contraseña es obligatoria")
	}

	return errs.orNil()
}

func ValidateRegistration(r auth.RegisterRequest) Errors {
	var errs Errors

	checkNames(&errs, &r.Nombre, &r.Apellido)
	checkCorreo(&errs, r.Correo, "El correo no es válido")
	checkDocumento(&errs, r.Documento.String())

	requiredID(&errs, "id_tipo_documento", r.IDTipoDocumento, "El tipo de documento es obligatorio", "El tipo de documento no es válido")
	requiredID(&errs, "id_rol", r.IDRol, "El rol es obligatorio", "El rol no es válido")

	if r.Contrasena == "" {
		errs.add("contrasena", "La contraseña es obligatoria")
	} else {
		checkPassword(&errs, "contrasena", r.Contrasena)
	}
	if r.Contrasena != r.ConfirmarContrasena {
		errs.add("confirmar_contrasena", "Las contraseñas no coinciden")
	}

	return errs.orNil()
}

func ValidateRecovery(r auth.RecoveryRequest) Errors {
	var errs Errors
	if Normalize(r.Documento.String()) == "" {
		errs.add("documento", "El documento es obligatorio")
	}
	return errs.orNil()
}

func ValidateReset(r auth.ResetRequest) Errors {
	var errs Errors

	if strings.TrimSpace(r.Token) == "" {
		errs.add("token", "El token es obligatorio")
	}
	if r.NuevaContrasena == "" {
		errs.add("nueva_contrasena", "La nueva contraseña es obligatoria")
	} else {
		checkPassword(&errs, "nueva_contrasena", r.NuevaContrasena)
	}
	if r.NuevaContrasena != r.ConfirmarContrasena {
		errs.add("confirmar_contrasena", "Las contraseñas no coinciden")
	}

	return errs.orNil()
}

// ValidateUserCreate checks an administrative create. id_estado is optional
// and defaults to active.
func ValidateUserCreate(r user.CreateRequest) Errors {
	var errs Errors

	checkNames(&errs, &r.Nombre, &r.Apellido)
	checkCorreo(&errs, r.Correo, "El formato del correo electrónico no es válido")
	checkDocumento(&errs, r.Documento.String())

	requiredID(&errs, "id_tipo_documento", r.IDTipoDocumento, "El tipo de documento es obligatorio", "El tipo de documento no es válido")
	requiredID(&errs, "id_rol", r.IDRol, "El rol es obligatorio", "El rol no es válido")
	if strings.TrimSpace(r.IDEstado.String()) != "" {
		if _, ok := ParseID(r.IDEstado.String()); !ok {
			errs.add("id_estado", "El estado no es válido")
		}
	}

	if r.Contrasena == "" {
		errs.add("contrasena", "La contraseña es obligatoria")
	} else {
		checkPassword(&errs, "contrasena", r.Contrasena)
	}

	return errs.orNil()
}

// ValidateUserUpdate checks only the submitted fields. An empty contrasena
// means "keep the current one".
func ValidateUserUpdate(r user.UpdateRequest) Errors {
	var errs Errors

	checkNames(&errs, form.Ptr(r.Nombre), form.Ptr(r.Apellido))
	if r.Correo != nil {
		checkCorreo(&errs, r.Correo.String(), "El formato del correo electrónico no es válido")
	}
	if r.Documento != nil {
		checkDocumento(&errs, r.Documento.String())
	}
	if r.IDTipoDocumento != nil {
		requiredID(&errs, "id_tipo_documento", *r.IDTipoDocumento, "El tipo de documento es obligatorio", "El tipo de documento no es válido")
	}
	if r.IDRol != nil {
		requiredID(&errs, "id_rol", *r.IDRol, "El rol es obligatorio", "El rol no es válido")
	}
	if r.IDEstado != nil {
		requiredID(&errs, "id_estado", *r.IDEstado, "El estado es obligatorio", "El estado no es válido")
	}
	if r.Contrasena != nil && *r.Contrasena != "" {
		checkPassword(&errs, "contrasena", r.Contrasena.String())
	}

	return errs.orNil()
}

func ValidateAdminPassword(r user.PasswordRequest) Errors {
	var errs Errors
	if r.Contrasena == "" {
		errs.add("contrasena", "La nueva contraseña es requerida")
	} else {
		checkPassword(&errs, "contrasena", r.Contrasena)
	}
	return errs.orNil()
}

func requiredID(errs *Errors, field string, v form.Value, missing, invalid string) {
	s := strings.TrimSpace(v.String())
	if s == "" {
		errs.add(field, missing)
		return
	}
	if _, ok := ParseID(s); !ok {
		errs.add(field, invalid)
	}
}

// StoreErrors reports catalog ids the store rejected as field errors, the
// same way an invalid id is reported. It returns nil for any other error.
func StoreErrors(err error) Errors {
	var errs Errors
	switch {
	case errors.Is(err, domain.ErrUnknownTipoDocumento):
		errs.add("id_tipo_documento", "El tipo de documento no es válido")
	case errors.Is(err, domain.ErrUnknownRol):
		errs.add("id_rol", "El rol no es válido")
	case errors.Is(err, domain.ErrUnknownEstado):
		errs.add("id_estado", "El estado no es válido")
	}
	return errs.orNil()
}
