package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"slices"
	"stayfinder/shared/base64"
	"stayfinder/shared/failure"
	"strconv"
	"strings"

	val "github.com/go-playground/validator/v10"
)

const bytesPerMB = 1024 * 1024

var validate *val.Validate

// rules are the tags this service adds on top of the built-in ones.
var rules = map[string]val.Func{
	"notblank":    notBlank,
	"mimetypes":   dataURLMimeType,
	"maxfilesize": dataURLMaxSize,
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonTagName)

	for tag, rule := range rules {
		if err := validate.RegisterValidation(tag, rule); err != nil {
			panic(err)
		}
	}
}

func notBlank(field val.FieldLevel) bool {
	if str, ok := field.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}

	return !field.Field().IsZero()
}

// dataURLMimeType accepts a base64 data URL whose declared type is one of the space separated params.
func dataURLMimeType(field val.FieldLevel) bool {
	contentType := base64.GetContentType(field.Field().String())
	if contentType == "" {
		return false
	}

	return slices.Contains(strings.Fields(field.Param()), contentType)
}

// dataURLMaxSize bounds the decoded payload, three quarters of the encoded length, in MB.
func dataURLMaxSize(field val.FieldLevel) bool {
	maxMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	decoded := len(field.Field().String()) * 3 / 4

	return float64(decoded) <= maxMB*bytesPerMB
}

// jsonTagName reports fields by their JSON name so messages match the request body.
func jsonTagName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return field.Name
	}

	return name
}

// Validate decodes a JSON body into data and validates the result.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	return asFailure(validate.Struct(data))
}

func ValidateVar(field any, tag string) error {
	return asFailure(validate.Var(field, tag))
}

func asFailure(err error) error {
	if err == nil {
		return nil
	}

	return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
}
