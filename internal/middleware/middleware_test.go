package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deppfellow/formrequest/internal/config"
	"github.com/deppfellow/formrequest/internal/errs"
	"github.com/deppfellow/formrequest/internal/lib/requestctx"
	"github.com/deppfellow/formrequest/internal/metrics"
	"github.com/deppfellow/formrequest/internal/server"
	"github.com/deppfellow/formrequest/internal/sqlerr"
	"github.com/deppfellow/formrequest/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(rateLimit config.RateLimitConfig) *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Server: config.ServerConfig{RateLimit: rateLimit, BodyLimit: "1K"},
		},
		Logger:  &logger,
		Metrics: metrics.NewCollector(),
	}
}

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequestID(t *testing.T) {
	handler := RequestID()(func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates one", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/")

		require.NoError(t, handler(c))
		assert.NotEmpty(t, rec.Body.String())
		assert.Equal(t, rec.Body.String(), rec.Header().Get(RequestIDHeader))
	})

	t.Run("reuses the caller's", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/")
		c.Request().Header.Set(RequestIDHeader, "req-42")

		require.NoError(t, handler(c))
		assert.Equal(t, "req-42", rec.Body.String())
		assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
	})
}

func TestSetUser(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/")

	SetUser(c, "user_1", "org:admin")

	assert.Equal(t, "user_1", GetUserID(c))
	assert.Equal(t, "org:admin", c.Get(UserRoleKey))

	userID, ok := requestctx.UserID(c.Request().Context())
	assert.True(t, ok)
	assert.Equal(t, "user_1", userID)
}

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"http error passes through", errs.NewBadRequestError("bad", false, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"authorization", &validation.AuthorizationError{}, http.StatusForbidden, "FORBIDDEN"},
		{"fillable", &validation.UnprocessableInputError{Key: "ownerId"}, http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY"},
		{"rules", &validation.ValidationError{Errors: []errs.FieldError{{Field: "name", Error: "is required"}}}, http.StatusUnprocessableEntity, errs.CodeValidationFailed},
		{"unknown route", echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"body too large", echo.ErrStatusRequestEntityTooLarge, http.StatusRequestEntityTooLarge, "REQUEST_ENTITY_TOO_LARGE"},
		{"missing row", sqlerr.WithTable("contacts", pgx.ErrNoRows), http.StatusNotFound, "CONTACT_NOT_FOUND"},
		{"engine failure", fmt.Errorf("validation engine: %w", validation.ErrNoEngine), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := ToHTTPError(tt.err)

			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.code, httpErr.Code)
		})
	}
}

func TestGlobalErrorHandler(t *testing.T) {
	global := NewGlobalMiddlewares(newTestServer(config.RateLimitConfig{}))

	t.Run("writes the error body", func(t *testing.T) {
		c, rec := newContext(http.MethodPost, "/api/v1/contacts")

		global.GlobalErrorHandler(&validation.UnprocessableInputError{Key: "ownerId"}, c)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var body errs.HTTPError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "UNPROCESSABLE_ENTITY", body.Code)
		assert.Equal(t, []errs.FieldError{{Field: "ownerId", Error: "is not allowed"}}, body.Errors)
	})

	t.Run("head requests get no body", func(t *testing.T) {
		c, rec := newContext(http.MethodHead, "/missing")

		global.GlobalErrorHandler(echo.ErrNotFound, c)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("committed responses are left alone", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/")
		require.NoError(t, c.String(http.StatusOK, "done"))

		global.GlobalErrorHandler(errs.NewInternalServerError(), c)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "done", rec.Body.String())
	})
}

func TestRateLimit(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	t.Run("disabled", func(t *testing.T) {
		limited := NewRateLimitMiddleware(newTestServer(config.RateLimitConfig{})).Limit("/contacts")(ok)

		for range 5 {
			c, _ := newContext(http.MethodGet, "/contacts")
			require.NoError(t, limited(c))
		}
	})

	t.Run("denies past the limit", func(t *testing.T) {
		srv := newTestServer(config.RateLimitConfig{RequestsPerWindow: 2, WindowSeconds: 60})

		e := echo.New()
		e.HTTPErrorHandler = NewGlobalMiddlewares(srv).GlobalErrorHandler
		e.GET("/contacts", ok, func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				SetUser(c, c.Request().Header.Get("X-Test-User"), "")
				return next(c)
			}
		}, NewRateLimitMiddleware(srv).Limit("/contacts"))

		do := func(userID string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
			req.Header.Set("X-Test-User", userID)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			return rec
		}

		for range 2 {
			assert.Equal(t, http.StatusNoContent, do("user_1").Code)
		}

		rec := do("user_1")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)

		var body errs.HTTPError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "TOO_MANY_REQUESTS", body.Code)

		assert.Equal(t, http.StatusNoContent, do("user_2").Code)
	})
}

func TestRedisWindowStore(t *testing.T) {
	t.Run("falls back when redis is unreachable", func(t *testing.T) {
		client := redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 100 * time.Millisecond,
			MaxRetries:  -1,
		})
		defer client.Close()

		var storeErrs int
		store := &redisWindowStore{
			client:   client,
			prefix:   rateLimitKeyPrefix,
			limit:    1,
			window:   time.Minute,
			fallback: newMemoryStore(1, time.Minute),
			onError:  func(error) { storeErrs++ },
		}

		allowed, err := store.Allow("ip:10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = store.Allow("ip:10.0.0.1")
		require.NoError(t, err)
		assert.False(t, allowed)

		assert.Equal(t, 2, storeErrs)
	})

	t.Run("keys by fixed window", func(t *testing.T) {
		store := &redisWindowStore{
			prefix: rateLimitKeyPrefix + ":/contacts",
			window: time.Minute,
			now:    func() time.Time { return time.Unix(125, 0) },
		}

		assert.Equal(t, "formrequest:ratelimit:/contacts:user:1:2", store.key("user:1"))
	})
}
