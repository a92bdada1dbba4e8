// Package lib holds modules that do not fit strictly into another layer:
// background jobs (asynq), the email client (Resend) and the request context
// helpers shared by middleware and payloads.
package lib
