// Package errs defines the error shapes returned to API clients.
//
// Every failure that reaches the HTTP layer is eventually rendered as an
// *HTTPError: a status, a stable machine-readable code, a message, and
// optionally a list of FieldError values describing which input keys were
// rejected and why.
//
//   - Return consistent JSON error bodies.
//   - Carry field-level details produced by request validation.
//   - Play nicely with errors.Is / errors.As.
package errs
