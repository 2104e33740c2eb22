package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":    "{field} is required",
	"notblank":    "{field} must not be blank",
	"gte":         "{field} must be greater than or equal to {param}",
	"lte":         "{field} must be less than or equal to {param}",
	"oneof":       "{field} must be one of {param}",
	"max":         "{field} must be at most {param} characters",
	"min":         "{field} must be at least {param}",
	"email":       "{field} must be a valid email address",
	"url":         "{field} must be a valid URL",
	"uuid":        "{field} must be a valid id",
	"datetime":    "{field} must be a date in the format {param}",
	"mimetypes":   "{field} must be one of {param}",
	"maxfilesize": "{field} must not exceed {param} MB",
}

// message renders the first violation that has a readable template.
func message(err error) string {
	var violations val.ValidationErrors
	if !errors.As(err, &violations) {
		return err.Error()
	}

	for _, violation := range violations {
		if template, ok := messages[violation.Tag()]; ok {
			return strings.NewReplacer("{field}", violation.Field(), "{param}", violation.Param()).Replace(template)
		}
	}

	return violations.Error()
}
