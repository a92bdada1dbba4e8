package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// RequestIDHeader carries the correlation id in both directions.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the Echo context key holding the id.
	RequestIDKey = "request_id"
)

// RequestID makes sure every request has a correlation id.
//
// Behavior:
//   - An X-Request-ID sent by the caller or a proxy is reused as is.
//   - Otherwise a random UUID is generated.
//   - The id is stored under RequestIDKey for loggers and handlers.
//   - The id is set on the response so clients can quote it in reports.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(RequestIDHeader)

			// Not provided upstream.
			if requestID == "" {
				requestID = uuid.New().String()
			}

			c.Set(RequestIDKey, requestID)
			c.Response().Header().Set(RequestIDHeader, requestID)

			return next(c)
		}
	}
}

// GetRequestID returns the id stored by RequestID, or "" when the middleware
// did not run.
func GetRequestID(c echo.Context) string {
	if requestID, ok := c.Get(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
