package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct checks validate tags and flattens the failures into a
// single human-readable message, the way store validation errors surface.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	msgs := make([]string, len(ve))
	for i, fe := range ve {
		switch fe.Tag() {
		case "required":
			msgs[i] = fmt.Sprintf("%s is required", fe.Field())
		case "email":
			msgs[i] = fmt.Sprintf("%s must be a valid email address", fe.Field())
		case "url":
			msgs[i] = fmt.Sprintf("%s must be a valid URL", fe.Field())
		case "min":
			msgs[i] = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "max":
			msgs[i] = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		case "oneof":
			msgs[i] = fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param())
		default:
			msgs[i] = fmt.Sprintf("validation failed on field '%s' for tag '%s'", fe.Field(), fe.Tag())
		}
	}
	return errors.New(strings.Join(msgs, ", "))
}
