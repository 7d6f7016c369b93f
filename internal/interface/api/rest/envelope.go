package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	domain "inventory-auth-api/internal/domain/user"
	"inventory-auth-api/internal/interface/api/rest/validator"
)

const (
	msgBadRequest   = "Datos de solicitud no válidos"
	msgValueTooLong = "Uno de los campos supera la longitud permitida"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Errors  []string         `json:"errors,omitempty"`
	Fields  validator.Errors `json:"fields,omitempty"`
	Data    any              `json:"data,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func respondFail(c *gin.Context, status int, messages ...string) {
	env := Envelope{Errors: messages}
	if len(messages) > 0 {
		env.Message = messages[0]
	}
	c.JSON(status, env)
}

func respondInvalid(c *gin.Context, status int, errs validator.Errors) {
	msgs := errs.Messages()
	c.JSON(status, Envelope{Message: msgs[0], Errors: msgs, Fields: errs})
}

// bind decodes JSON or form bodies. JSON bodies are cached on the context so
// a request can be bound more than once.
func bind(c *gin.Context, obj any) error {
	if c.ContentType() == binding.MIMEJSON {
		return c.ShouldBindBodyWith(obj, binding.JSON)
	}
	return c.ShouldBind(obj)
}

func badRequest(c *gin.Context) {
	respondFail(c, http.StatusBadRequest, msgBadRequest)
}

// respondRejected answers a write the store refused because of the submitted
// values. It reports false for any other error.
func respondRejected(c *gin.Context, status int, err error) bool {
	if errs := validator.StoreErrors(err); errs != nil {
		respondInvalid(c, status, errs)
		return true
	}
	if errors.Is(err, domain.ErrInvalidReference) || errors.Is(err, domain.ErrValueTooLong) {
		respondFail(c, status, msgValueTooLong)
		return true
	}
	return false
}
