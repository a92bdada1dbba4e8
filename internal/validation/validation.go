// Package validation validates request payloads at the moment they are
// resolved for a handler.
//
// A payload (a Target) goes through a fixed five-step lifecycle run by
// Hook.ValidateResolved:
//
//  1. prepare: hook-level PrepareFunc callbacks, then the payload's own
//     PrepareForValidation if it implements Preparer.
//  2. authorize: if the payload implements Authorizer its answer is final,
//     otherwise the request is allowed.
//  3. fillable: every input key must appear in FillableKeys, unless that
//     list is empty.
//  4. engine: the validation Engine (struct tags via go-playground/validator,
//     JSON Schema via gojsonschema, or both chained) reports field errors.
//  5. passed: hook-level PassedFunc callbacks, then the payload's own
//     PassedValidation if it implements PassedHandler.
//
// The first failing step stops the lifecycle and returns one of
// *AuthorizationError, *UnprocessableInputError or *ValidationError.
// ToHTTPError turns those into the errs.HTTPError the API returns.
package validation
