package middleware

import (
	"context"

	"github.com/deppfellow/formrequest/internal/logger"
	"github.com/deppfellow/formrequest/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const (
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"
	LoggerKey   = "logger"
)

type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext stores a request-scoped logger carrying the request id,
// route, trace ids and, on authenticated routes, the user.
//
// It runs globally before RequireAuth, so RequireAuth refreshes the logger
// once the user is known.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			setLogger(c, withUser(c, contextLogger))

			return next(c)
		}
	}
}

func withUser(c echo.Context, l zerolog.Logger) zerolog.Logger {
	if userID := GetUserID(c); userID != "" {
		l = l.With().Str("user_id", userID).Logger()
	}

	if userRole, ok := c.Get(UserRoleKey).(string); ok && userRole != "" {
		l = l.With().Str("user_role", userRole).Logger()
	}

	return l
}

type loggerCtxKey struct{}

func setLogger(c echo.Context, l zerolog.Logger) {
	c.Set(LoggerKey, &l)
	c.SetRequest(c.Request().WithContext(context.WithValue(c.Request().Context(), loggerCtxKey{}, &l)))
}

func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetLogger returns the request logger, or a no-op logger if EnhanceContext
// did not run.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}

	l := zerolog.Nop()
	return &l
}

// LoggerFromContext returns the request logger for code that only sees a
// context.Context.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*zerolog.Logger); ok {
		return l
	}

	l := zerolog.Nop()
	return &l
}
