package inventory

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fieldstock/backend/internal/domain/shared"
)

// requestValidator enforces the binding tags on request DTOs before any
// domain logic runs. Field names in errors use the JSON tag so callers see
// the wire name, not the Go field.
var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest validates a request DTO against its binding tags and maps
// failures onto the validation error code
func validateRequest(req interface{}) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return shared.NewValidationError("Request validation failed")
	}

	domainErr := shared.NewValidationError("Request validation failed")
	for _, e := range validationErrors {
		domainErr = domainErr.WithDetail(e.Field(), validationMessage(e))
	}
	return domainErr
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}
