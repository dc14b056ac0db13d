package handlers

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/marcusw/leadclaim/pkg/httpx"
)

// Global validator instance (reused across all handlers)
var validate = validator.New()

// ValidateRequest validates a request struct using go-playground/validator
// and returns field-level details for the error envelope, or nil if the
// request is valid.
func ValidateRequest(req interface{}) []httpx.FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []httpx.FieldError{{Field: "request", Message: "invalid request"}}
	}

	fieldErrors := make([]httpx.FieldError, 0, len(ve))
	for _, fieldError := range ve {
		fieldErrors = append(fieldErrors, httpx.FieldError{
			Field:   lowerFirst(fieldError.Field()),
			Message: formatValidationError(fieldError),
		})
	}

	return fieldErrors
}

// formatValidationError converts a validator FieldError to a user-friendly message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must have a minimum of %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

// lowerFirst maps struct field names to their JSON spelling (CourseInterest
// -> courseInterest)
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
