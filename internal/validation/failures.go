package validation

import (
	"errors"
	"fmt"

	"github.com/deppfellow/formrequest/internal/errs"
)

const (
	messageUnauthorized  = "This action is unauthorized."
	messageUnprocessable = "The request contains input that cannot be filled."
	messageInvalid       = "Validation failed"
)

// AuthorizationError means the payload's Authorize returned false.
type AuthorizationError struct{}

func (e *AuthorizationError) Error() string {
	return "validation: request is not authorized"
}

// UnprocessableInputError means the payload carried a key outside its
// fillable list. Key is the first such key in input order.
type UnprocessableInputError struct {
	Key      string
	Fillable []string
}

func (e *UnprocessableInputError) Error() string {
	return fmt.Sprintf("validation: input key %q is not fillable", e.Key)
}

// ValidationError means the engine rejected one or more fields.
type ValidationError struct {
	Errors []errs.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %d field error(s)", len(e.Errors))
}

// Messages groups the field errors by field.
func (e *ValidationError) Messages() map[string][]string {
	return groupMessages(e.Errors)
}

// ToHTTPError converts a validation failure into the HTTP error returned to
// the client. It reports false for any other error.
//
//   - *AuthorizationError     -> 403 FORBIDDEN
//   - *UnprocessableInputError -> 422 UNPROCESSABLE_ENTITY
//   - *ValidationError        -> 422 VALIDATION_FAILED
func ToHTTPError(err error) (*errs.HTTPError, bool) {
	var authErr *AuthorizationError
	if errors.As(err, &authErr) {
		return errs.NewForbiddenError(messageUnauthorized, false), true
	}

	var fillErr *UnprocessableInputError
	if errors.As(err, &fillErr) {
		return errs.NewUnprocessableEntityError(messageUnprocessable, false, []errs.FieldError{
			{Field: fillErr.Key, Error: "is not allowed"},
		}), true
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return errs.NewValidationFailedError(messageInvalid, validationErr.Errors), true
	}

	return nil, false
}
