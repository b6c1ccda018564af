package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs struct-tag validation and converts failures into a
// ValidationError carrying per-field messages.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	details := map[string]any{}
	if ok := asValidationErrors(err, &verrs); ok {
		for _, fe := range verrs {
			details[fieldName(fe)] = fieldMessage(fe)
		}
	}
	return apperrors.NewValidationError("validation failed", details)
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "value is below the minimum of " + fe.Param()
	case "max":
		return "value exceeds the maximum of " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "invalid value"
	}
}
