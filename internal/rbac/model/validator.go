package model

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
)

var (
	validate *validator.Validate
	once     sync.Once
	folder   = cases.Fold()
)

func GetValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

// FormatValidationError converts validator errors to ErrorDetail.
// Only the first failing field is reported.
func FormatValidationError(err error) *ErrorDetail {
	if err == nil {
		return nil
	}

	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		e := validationErrors[0]
		return &ErrorDetail{
			Code:    "bad_request",
			Message: "Field validation for '" + e.Field() + "' failed on the '" + e.Tag() + "' tag",
		}
	}

	return &ErrorDetail{
		Code:    "bad_request",
		Message: err.Error(),
	}
}

// NameKey folds a display name into the key used for case-insensitive
// uniqueness of role and category names.
func NameKey(name string) string {
	return folder.String(strings.Join(strings.Fields(name), " "))
}

func badRequest(msg string) *ErrorDetail {
	return &ErrorDetail{Code: "bad_request", Message: msg}
}
