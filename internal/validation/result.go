package validation

import "github.com/deppfellow/formrequest/internal/errs"

// Result is what an Engine reports for one target. A nil *Result passes.
type Result struct {
	errors []errs.FieldError
}

// NewResult wraps the given field errors. No errors means the target passed.
func NewResult(fieldErrors []errs.FieldError) *Result {
	return &Result{errors: fieldErrors}
}

// Fails reports whether any field error was recorded.
func (r *Result) Fails() bool {
	return r != nil && len(r.errors) > 0
}

// Errors returns the field errors in the order the engine reported them.
func (r *Result) Errors() []errs.FieldError {
	if r == nil {
		return nil
	}

	return r.errors
}

// Messages groups the field errors by field, keeping report order within
// each field.
func (r *Result) Messages() map[string][]string {
	return groupMessages(r.Errors())
}

func groupMessages(fieldErrors []errs.FieldError) map[string][]string {
	messages := make(map[string][]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages[fe.Field] = append(messages[fe.Field], fe.Error)
	}

	return messages
}
