package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/formrequest/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CustomValidationError is a single rule violation that cannot be expressed
// with validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is returned from Validatable.Validate.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// StructEngine validates `validate:"..."` struct tags with
// go-playground/validator and then any Validatable rules on the target.
//
// Fields are reported by their json (or param/query) tag name so they match
// the keys the client sent.
type StructEngine struct {
	validate *validator.Validate
}

// NewStructEngine creates a StructEngine with the custom tags used by the
// API registered.
func NewStructEngine() *StructEngine {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)

	// uuidList: comma-separated list of UUIDs, empty allowed.
	_ = v.RegisterValidation("uuidList", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}

		for _, part := range strings.Split(value, ",") {
			if !IsValidUUID(strings.TrimSpace(part)) {
				return false
			}
		}

		return true
	})

	return &StructEngine{validate: v}
}

// Validate implements Engine.
func (e *StructEngine) Validate(ctx context.Context, target Target) (*Result, error) {
	var fieldErrors []errs.FieldError

	if err := e.validate.StructCtx(ctx, target); err != nil {
		translated, ok := translateValidationError(err)
		if !ok {
			return nil, err
		}

		fieldErrors = append(fieldErrors, translated...)
	}

	if v, ok := target.(Validatable); ok {
		if err := v.Validate(); err != nil {
			translated, ok := translateValidationError(err)
			if !ok {
				return nil, fmt.Errorf("custom validation: %w", err)
			}

			fieldErrors = append(fieldErrors, translated...)
		}
	}

	return NewResult(fieldErrors), nil
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "param", "query", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}

		if name != "" {
			return name
		}
	}

	return strings.ToLower(fld.Name)
}

// translateValidationError converts the two error shapes a payload can fail
// with into field errors. It reports false for anything else.
func translateValidationError(err error) ([]errs.FieldError, bool) {
	var custom CustomValidationErrors
	if errors.As(err, &custom) {
		fieldErrors := make([]errs.FieldError, 0, len(custom))
		for _, ce := range custom {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: ce.Field,
				Error: ce.Message,
			})
		}

		return fieldErrors, true
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, false
	}

	fieldErrors := make([]errs.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: fe.Field(),
			Error: messageFor(fe),
		})
	}

	return fieldErrors, true
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with", "required_without", "required_if":
		return "is required"

	case "min":
		// min/max mean length for strings, slices and maps, value for numbers.
		if unit := lengthUnit(fe.Kind()); unit != "" {
			return fmt.Sprintf("must be at least %s %s", fe.Param(), unit)
		}
		return fmt.Sprintf("must be at least %s", fe.Param())

	case "max":
		if unit := lengthUnit(fe.Kind()); unit != "" {
			return fmt.Sprintf("must not exceed %s %s", fe.Param(), unit)
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())

	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())

	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())

	case "email":
		return "must be a valid email address"

	case "e164":
		return "must be a valid phone number with country code"

	case "url", "http_url":
		return "must be a valid URL"

	case "uuid", "uuid4":
		return "must be a valid UUID"

	case "uuidList":
		return "must be a comma-separated list of valid UUIDs"

	case "unique":
		return "must not contain duplicates"

	case "dive":
		return "some items are invalid"

	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s: %s", fe.Field(), fe.Tag())
	}
}

func lengthUnit(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return "characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return "items"
	default:
		return ""
	}
}

// IsValidUUID reports whether value parses as a UUID.
func IsValidUUID(value string) bool {
	return uuid.Validate(value) == nil
}
