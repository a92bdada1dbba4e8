// Package service holds the business logic between the handlers and the
// repositories. Handlers pass it payloads that already passed validation.
package service
