package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func messageForFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must not exceed %s characters", fe.Param())
	case "url":
		return "Invalid URL format"
	default:
		return "Invalid value"
	}
}

// jsonFieldName resolves the wire name of a struct field from its json tag.
func jsonFieldName(structType reflect.Type, fieldName string) string {
	if structType == nil || structType.Kind() != reflect.Struct {
		return fieldName
	}

	field, found := structType.FieldByName(fieldName)
	if !found {
		return fieldName
	}

	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fieldName
	}
	return name
}

// FormatValidationErrors turns binding failures into per-field messages.
// It returns nil for errors that are neither type mismatches nor
// validation failures, such as malformed JSON.
func FormatValidationErrors(err error, model any) []ValidationErrorResponse {
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []ValidationErrorResponse{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Invalid type for field %s. Expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value),
		}}
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	var structType reflect.Type
	if model != nil {
		structType = reflect.TypeOf(model)
		if structType.Kind() == reflect.Ptr {
			structType = structType.Elem()
		}
	}

	result := make([]ValidationErrorResponse, len(validationErrors))
	for i, fe := range validationErrors {
		result[i] = ValidationErrorResponse{
			Field:   jsonFieldName(structType, fe.Field()),
			Message: messageForFieldError(fe),
		}
	}
	return result
}
