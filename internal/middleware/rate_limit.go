package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/formrequest/internal/errs"
	"github.com/deppfellow/formrequest/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const rateLimitKeyPrefix = "formrequest:ratelimit"

type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit allows each client RequestsPerWindow requests per window on route.
// Clients are keyed by user id when RequireAuth ran first, otherwise by IP.
// Counters live in Redis so every instance shares them; while Redis is
// unreachable each instance limits on its own.
func (r *RateLimitMiddleware) Limit(route string) echo.MiddlewareFunc {
	cfg := r.server.Config.Server.RateLimit
	if cfg.RequestsPerWindow <= 0 || cfg.WindowSeconds <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	window := time.Duration(cfg.WindowSeconds) * time.Second

	var store middleware.RateLimiterStore = newMemoryStore(cfg.RequestsPerWindow, window)
	if r.server.Redis != nil {
		store = &redisWindowStore{
			client:   r.server.Redis,
			prefix:   rateLimitKeyPrefix + ":" + route,
			limit:    cfg.RequestsPerWindow,
			window:   window,
			fallback: store,
			onError: func(err error) {
				r.server.Logger.Warn().Err(err).Str("route", route).Msg("rate limit store unavailable, limiting in memory")
			},
		}
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if userID := GetUserID(c); userID != "" {
				return "user:" + userID, nil
			}
			return "ip:" + c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewForbiddenError("Could not identify client", false)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(route)
			return errs.NewTooManyRequestsError("Too many requests")
		},
	})
}

// RecordRateLimitHit counts a rejected request in Prometheus and, when New
// Relic is enabled, as a custom event.
func (r *RateLimitMiddleware) RecordRateLimitHit(route string) {
	if r.server.Metrics != nil {
		r.server.Metrics.RecordRateLimitHit(route)
	}

	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint": route,
		})
	}
}

func newMemoryStore(requests int, window time.Duration) middleware.RateLimiterStore {
	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(requests) / window.Seconds()),
		Burst:     requests,
		ExpiresIn: 2 * window,
	})
}

// redisWindowStore counts requests per identifier in fixed windows.
type redisWindowStore struct {
	client   redis.Cmdable
	prefix   string
	limit    int
	window   time.Duration
	fallback middleware.RateLimiterStore
	onError  func(error)
	now      func() time.Time
}

func (s *redisWindowStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	key := s.key(identifier)

	pipe := s.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.window)

	if _, err := pipe.Exec(ctx); err != nil {
		if s.onError != nil {
			s.onError(err)
		}
		return s.fallback.Allow(identifier)
	}

	return count.Val() <= int64(s.limit), nil
}

func (s *redisWindowStore) key(identifier string) string {
	now := time.Now
	if s.now != nil {
		now = s.now
	}

	bucket := now().Unix() / int64(s.window/time.Second)

	return fmt.Sprintf("%s:%s:%d", s.prefix, identifier, bucket)
}
