// Package handler is the HTTP layer. Every endpoint receives a payload that
// the server's validation hook already prepared, authorized and validated,
// and hands it to the service layer.
package handler
