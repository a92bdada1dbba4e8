package validation

import (
	"context"

	"github.com/deppfellow/formrequest/internal/errs"
)

// Engine evaluates field-level rules for a target. A non-nil error means the
// engine itself could not run; rule violations are reported in the Result.
type Engine interface {
	Validate(ctx context.Context, target Target) (*Result, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, target Target) (*Result, error)

// Validate calls f.
func (f EngineFunc) Validate(ctx context.Context, target Target) (*Result, error) {
	return f(ctx, target)
}

// Chain runs every engine in order and merges their field errors.
func Chain(engines ...Engine) Engine {
	return chain(engines)
}

type chain []Engine

func (c chain) Validate(ctx context.Context, target Target) (*Result, error) {
	var fieldErrors []errs.FieldError

	for _, engine := range c {
		result, err := engine.Validate(ctx, target)
		if err != nil {
			return nil, err
		}

		fieldErrors = append(fieldErrors, result.Errors()...)
	}

	return NewResult(fieldErrors), nil
}
