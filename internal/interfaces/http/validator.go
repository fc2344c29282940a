package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores usan el nombre json o query del campo.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})
	return v
}

// validationError convierte los errores del validador en la respuesta de error.
func validationError(err error) dto.ErrorResponse {
	resp := dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			resp.Details = append(resp.Details, dto.ValidationDetail{Field: fe.Field(), Message: validationMessage(fe)})
		}
	}
	return resp
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo requerido"
	case "uuid":
		return "UUID inválido"
	case "min", "gte":
		return "debe ser mayor o igual a " + fe.Param()
	case "max", "lte":
		return "debe ser menor o igual a " + fe.Param()
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "number", "numeric":
		return "debe ser numérico"
	case "datetime":
		return "formato de fecha esperado " + fe.Param()
	default:
		return "valor inválido"
	}
}
