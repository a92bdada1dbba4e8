// Package middleware holds the global and route-level Echo middleware:
// request ids, request-scoped loggers, Clerk authentication, New Relic
// tracing, rate limiting and the error handler that renders every failure
// as an errs.HTTPError body.
package middleware
