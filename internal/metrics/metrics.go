// Package metrics exposes Prometheus counters for request validation and
// rate limiting.
package metrics

import (
	"errors"
	"time"

	"github.com/deppfellow/formrequest/internal/errs"
	"github.com/deppfellow/formrequest/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Validation outcomes.
const (
	OutcomePassed        = "passed"
	OutcomeUnauthorized  = "unauthorized"
	OutcomeUnprocessable = "unprocessable"
	OutcomeInvalid       = "invalid"
	OutcomeBadRequest    = "bad_request"
	OutcomeError         = "error"
)

var (
	validationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formrequest_validations_total",
			Help: "Total number of request payloads run through validation",
		},
		[]string{"route", "outcome"},
	)

	validationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "formrequest_validation_duration_seconds",
			Help:    "Time spent binding and validating a request payload",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"route"},
	)

	rateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formrequest_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"route"},
	)
)

// Collector records metrics. The zero value is ready to use.
type Collector struct{}

func NewCollector() *Collector {
	return &Collector{}
}

// RecordValidation counts one validation of route and observes how long it
// took. err is the error BindAndValidate returned.
func (c *Collector) RecordValidation(route string, err error, duration time.Duration) {
	validationsTotal.WithLabelValues(route, Outcome(err)).Inc()
	validationDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (c *Collector) RecordRateLimitHit(route string) {
	rateLimitHits.WithLabelValues(route).Inc()
}

// Outcome classifies a validation error.
func Outcome(err error) string {
	var (
		authErr    *validation.AuthorizationError
		fillErr    *validation.UnprocessableInputError
		invalidErr *validation.ValidationError
		httpErr    *errs.HTTPError
	)

	switch {
	case err == nil:
		return OutcomePassed
	case errors.As(err, &authErr):
		return OutcomeUnauthorized
	case errors.As(err, &fillErr):
		return OutcomeUnprocessable
	case errors.As(err, &invalidErr):
		return OutcomeInvalid
	case errors.As(err, &httpErr) && httpErr.Status < 500:
		return OutcomeBadRequest
	default:
		return OutcomeError
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
