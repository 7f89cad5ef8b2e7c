package validator

import (
	"errors"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"oneof":    "{field} must be one of {param}",
	"max":      "{field} must be less than or equal to {param}",
	"min":      "{field} must be greater than or equal to {param}",
	"email":    "{field} must be a valid email address",
	"uuid":     "{field} must be a valid UUID",
	"datetime": "{field} must match the format {param}",
	"nonblank": "{field} must not be blank",
}

// layoutNames replaces Go reference layouts with names clients recognise.
var layoutNames = map[string]string{
	time.RFC3339: "RFC3339 (2006-01-02T15:04:05Z07:00)",
}

func fieldMessage(fieldErr val.FieldError) string {
	template, ok := messages[fieldErr.Tag()]
	if !ok {
		return fieldErr.Error()
	}

	param := fieldErr.Param()
	if name, ok := layoutNames[param]; ok {
		param = name
	}

	return strings.NewReplacer("{field}", fieldErr.Field(), "{param}", param).Replace(template)
}

// message lists every failed field, in struct order, separated by "; ".
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	parts := make([]string, len(valErrors))
	for i, fieldErr := range valErrors {
		parts[i] = fieldMessage(fieldErr)
	}

	return strings.Join(parts, "; ")
}
