package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/formrequest/internal/middleware"
	"github.com/deppfellow/formrequest/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthCheckTimeout bounds each dependency ping.
const HealthCheckTimeout = 5 * time.Second

type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]checkResult `json:"checks"`
}

// CheckHealth pings PostgreSQL and Redis. The database is required and a
// failed ping answers 503. Redis only degrades rate limiting and job
// delivery, so its failure is reported but the service stays healthy.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]checkResult),
	}

	if err := h.check(c.Request().Context(), response.Checks, "database", h.server.DB.Pool.Ping); err != nil {
		response.Status = "unhealthy"
		logger.Error().Err(err).Msg("database health check failed")
	}

	if h.server.Redis != nil {
		ping := func(ctx context.Context) error { return h.server.Redis.Ping(ctx).Err() }
		if err := h.check(c.Request().Context(), response.Checks, "redis", ping); err != nil {
			logger.Error().Err(err).Msg("redis health check failed")
		}
	}

	status := http.StatusOK
	if response.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	logger.Info().
		Str("status", response.Status).
		Dur("total_duration", time.Since(start)).
		Msg("health check finished")

	return c.JSON(status, response)
}

func (h *HealthHandler) check(parent context.Context, checks map[string]checkResult, name string, ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, HealthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	elapsed := time.Since(start)

	if err == nil {
		checks[name] = checkResult{Status: "healthy", ResponseTime: elapsed.String()}
		return nil
	}

	checks[name] = checkResult{Status: "unhealthy", ResponseTime: elapsed.String(), Error: err.Error()}

	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", map[string]any{
			"check_type":       name,
			"operation":        "health_check",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
	}

	return err
}
