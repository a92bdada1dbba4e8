package validation

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoEngine is returned when neither the hook nor the target provides an
// Engine.
var ErrNoEngine = errors.New("validation: no engine configured")

// PrepareFunc runs before authorization. It may mutate the target.
type PrepareFunc func(ctx context.Context, target Target)

// PassedFunc runs after the target passed every check.
type PassedFunc func(ctx context.Context, target Target)

// Option configures a Hook.
type Option func(*Hook)

// WithPrepare adds a callback run at the start of every validation.
func WithPrepare(fn PrepareFunc) Option {
	return func(h *Hook) {
		if fn != nil {
			h.prepare = append(h.prepare, fn)
		}
	}
}

// WithPassed adds a callback run when a target passes validation.
func WithPassed(fn PassedFunc) Option {
	return func(h *Hook) {
		if fn != nil {
			h.passed = append(h.passed, fn)
		}
	}
}

// Hook runs the validation lifecycle for resolved request payloads. A Hook
// holds no per-request state and can be shared between goroutines as long as
// its engine and callbacks can.
type Hook struct {
	engine  Engine
	prepare []PrepareFunc
	passed  []PassedFunc
}

// NewHook creates a hook that validates targets with engine.
func NewHook(engine Engine, opts ...Option) *Hook {
	h := &Hook{engine: engine}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// ValidateResolved validates target and returns nil if it may proceed to
// the handler. Steps run in a fixed order and the first failure is returned
// without running the rest.
func (h *Hook) ValidateResolved(ctx context.Context, target Target) error {
	h.prepareForValidation(ctx, target)

	if !passesAuthorization(ctx, target) {
		return &AuthorizationError{}
	}

	if key, ok := firstUnfillableKey(target); !ok {
		return &UnprocessableInputError{Key: key, Fillable: target.FillableKeys()}
	}

	engine := h.engineFor(target)
	if engine == nil {
		return ErrNoEngine
	}

	result, err := engine.Validate(ctx, target)
	if err != nil {
		return fmt.Errorf("validation engine: %w", err)
	}

	if result.Fails() {
		return &ValidationError{Errors: result.Errors()}
	}

	h.passedValidation(ctx, target)

	return nil
}

func (h *Hook) prepareForValidation(ctx context.Context, target Target) {
	for _, fn := range h.prepare {
		fn(ctx, target)
	}

	if p, ok := target.(Preparer); ok {
		p.PrepareForValidation(ctx)
	}
}

func (h *Hook) passedValidation(ctx context.Context, target Target) {
	for _, fn := range h.passed {
		fn(ctx, target)
	}

	if p, ok := target.(PassedHandler); ok {
		p.PassedValidation(ctx)
	}
}

func (h *Hook) engineFor(target Target) Engine {
	if p, ok := target.(EngineProvider); ok {
		if engine := p.ValidationEngine(); engine != nil {
			return engine
		}
	}

	return h.engine
}

func passesAuthorization(ctx context.Context, target Target) bool {
	if a, ok := target.(Authorizer); ok {
		return a.Authorize(ctx)
	}

	return true
}

// PassesFillable reports whether every input key of target is fillable.
func PassesFillable(target Target) bool {
	_, ok := firstUnfillableKey(target)
	return ok
}

// firstUnfillableKey returns the first input key, in input order, that is
// missing from the fillable list.
func firstUnfillableKey(target Target) (string, bool) {
	fillable := target.FillableKeys()
	if len(fillable) == 0 {
		return "", true
	}

	allowed := make(map[string]struct{}, len(fillable))
	for _, key := range fillable {
		allowed[key] = struct{}{}
	}

	for _, key := range target.InputKeys() {
		if _, ok := allowed[key]; !ok {
			return key, false
		}
	}

	return "", true
}
