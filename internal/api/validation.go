package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator создает валидатор, который в сообщениях об ошибках
// использует имена полей из json-тегов, а не имена полей Go.
func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// fieldErrors раскладывает ошибку валидатора в карту поле → сообщение.
// Ошибки, не являющиеся validator.ValidationErrors, сводятся к общей
// записи.
func fieldErrors(err error) map[string]string {
	result := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		result["non_field_errors"] = err.Error()
		return result
	}

	for _, fieldErr := range validationErrs {
		switch fieldErr.Tag() {
		case "required":
			result[fieldErr.Field()] = "this field is required"
		case "min":
			result[fieldErr.Field()] = fmt.Sprintf("must be at least %s characters long", fieldErr.Param())
		case "max":
			result[fieldErr.Field()] = fmt.Sprintf("must be at most %s characters long", fieldErr.Param())
		case "email":
			result[fieldErr.Field()] = "must be a valid email address"
		case "oneof":
			result[fieldErr.Field()] = fmt.Sprintf("must be one of: %s", fieldErr.Param())
		case "datetime":
			result[fieldErr.Field()] = fmt.Sprintf("must be a date in format %s", fieldErr.Param())
		case "gt":
			result[fieldErr.Field()] = fmt.Sprintf("must be greater than %s", fieldErr.Param())
		default:
			result[fieldErr.Field()] = fmt.Sprintf("failed validation on '%s'", fieldErr.Tag())
		}
	}
	return result
}
