package validation

import "context"

// Target is a request payload that can be run through the validation hook.
type Target interface {
	// InputKeys returns the keys present in the incoming payload, in a stable
	// order.
	InputKeys() []string

	// FillableKeys returns the keys the payload accepts. An empty list means
	// any key is accepted.
	FillableKeys() []string
}

// InputRecorder is implemented by targets that want the binder to record
// the raw request input. Embedding Input provides it.
type InputRecorder interface {
	RecordInput(keys []string, raw []byte)
}

// Authorizer is the optional authorization capability. Targets that do not
// implement it are always authorized.
type Authorizer interface {
	Authorize(ctx context.Context) bool
}

// Preparer lets a target normalize itself before any check runs.
type Preparer interface {
	PrepareForValidation(ctx context.Context)
}

// PassedHandler is called on a target once it has passed every check.
type PassedHandler interface {
	PassedValidation(ctx context.Context)
}

// EngineProvider lets a target replace the hook's engine with its own.
type EngineProvider interface {
	ValidationEngine() Engine
}

// Validatable is implemented by payloads that carry rules which cannot be
// expressed with struct tags. Validate should return CustomValidationErrors
// (or validator.ValidationErrors) when the payload is invalid.
type Validatable interface {
	Validate() error
}

// SchemaTarget is implemented by payloads validated against a JSON Schema.
type SchemaTarget interface {
	JSONSchema() string
}

// Input is embedded in request payloads. It stores what the binder saw so
// that the fillable check and schema validation can work on the raw input
// rather than on the decoded struct.
//
//	type CreateUserPayload struct {
//		validation.Input
//		Name string `json:"name" validate:"required"`
//	}
//
//	func (p *CreateUserPayload) FillableKeys() []string { return []string{"name"} }
type Input struct {
	keys []string
	raw  []byte
}

// RecordInput stores the payload's input keys and raw body.
func (in *Input) RecordInput(keys []string, raw []byte) {
	in.keys = keys
	in.raw = raw
}

// InputKeys returns the recorded input keys.
func (in *Input) InputKeys() []string {
	return in.keys
}

// RawInput returns the recorded raw body, or nil when there was none.
func (in *Input) RawInput() []byte {
	return in.raw
}

// FillableKeys returns nil: no restriction. Payloads declare their own.
func (in *Input) FillableKeys() []string {
	return nil
}
