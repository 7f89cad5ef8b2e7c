// Package validator decodes request bodies and checks them against their
// `validate` tags. Every rejection is a failure.ErrValidation.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"roombook/shared/failure"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var validate = newValidate()

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("nonblank", nonBlank); err != nil {
		panic(err)
	}

	return v
}

// nonBlank rejects strings that are empty once surrounding whitespace is removed.
func nonBlank(field val.FieldLevel) bool {
	str, ok := field.Field().Interface().(string)

	return ok && strings.TrimSpace(str) != ""
}

// jsonFieldName reports fields by their JSON name so messages match the payload.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

// Validate decodes one JSON document from r into data and validates it.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		if errors.Is(err, io.EOF) {
			return failure.BadRequestFromString("request body is required")
		}

		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err))
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err))
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err))
	}

	return nil
}
