package validation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/deppfellow/formrequest/internal/errs"
	"github.com/xeipuuv/gojsonschema"
)

const schemaRootContext = "(root)"

// RawInputProvider exposes the raw request body recorded by the binder.
// Input implements it.
type RawInputProvider interface {
	RawInput() []byte
}

// SchemaEngine validates the raw body of SchemaTarget payloads against the
// JSON Schema they declare. Targets without a schema pass untouched.
//
// Compiled schemas are cached by their source text, so payload types should
// return a constant schema.
type SchemaEngine struct {
	mu      sync.RWMutex
	schemas map[string]*gojsonschema.Schema
}

// NewSchemaEngine creates an empty SchemaEngine.
func NewSchemaEngine() *SchemaEngine {
	return &SchemaEngine{
		schemas: make(map[string]*gojsonschema.Schema),
	}
}

// Validate implements Engine.
func (e *SchemaEngine) Validate(_ context.Context, target Target) (*Result, error) {
	st, ok := target.(SchemaTarget)
	if !ok {
		return NewResult(nil), nil
	}

	schema, err := e.compile(st.JSONSchema())
	if err != nil {
		return nil, err
	}

	raw := []byte("null")
	if p, ok := target.(RawInputProvider); ok && len(p.RawInput()) > 0 {
		raw = p.RawInput()
	}

	res, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validating against json schema: %w", err)
	}

	if res.Valid() {
		return NewResult(nil), nil
	}

	fieldErrors := make([]errs.FieldError, 0, len(res.Errors()))
	for _, re := range res.Errors() {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: schemaField(re),
			Error: re.Description(),
		})
	}

	return NewResult(fieldErrors), nil
}

func (e *SchemaEngine) compile(source string) (*gojsonschema.Schema, error) {
	e.mu.RLock()
	schema, ok := e.schemas[source]
	e.mu.RUnlock()

	if ok {
		return schema, nil
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		return nil, fmt.Errorf("compiling json schema: %w", err)
	}

	e.mu.Lock()
	e.schemas[source] = schema
	e.mu.Unlock()

	return schema, nil
}

// schemaField names the input key a schema error belongs to. Errors about a
// missing property are reported against the property itself.
func schemaField(re gojsonschema.ResultError) string {
	field := re.Field()
	if field == schemaRootContext {
		field = ""
	}

	if re.Type() == "required" {
		if property, ok := re.Details()["property"].(string); ok && property != "" {
			if field == "" {
				return property
			}
			return field + "." + property
		}
	}

	return strings.TrimPrefix(field, schemaRootContext+".")
}
