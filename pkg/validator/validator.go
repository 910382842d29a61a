package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// dateLayout is the only datetime layout request DTOs declare
const dateLayout = "2006-01-02"

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports fields under their JSON names, so error details
// line up with the request body the client sent
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors
	}

	for _, e := range validationErrors {
		errors[e.Field()] = message(e)
	}
	return errors
}

func message(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		if field == "version" {
			return "version is required, send the version returned by the last read"
		}
		return field + " is required"
	case "uuid":
		return field + " must be a valid UUID"
	case "datetime":
		if e.Param() == dateLayout {
			return field + " must be a date in YYYY-MM-DD format"
		}
		return field + " must use the format " + e.Param()
	case "max":
		return field + " must be at most " + e.Param() + " characters"
	case "gte":
		if e.Param() == "0" {
			return field + " must not be negative"
		}
		return field + " must be greater than or equal to " + e.Param()
	default:
		return field + " is invalid"
	}
}
