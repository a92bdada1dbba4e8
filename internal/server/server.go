// Package server holds the shared resources of the API process and owns
// their lifecycle.
//
// Server is not the HTTP handler itself. It carries configuration, loggers,
// the database pool, the Redis client, the job service and the validation
// hook every handler runs payloads through.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/formrequest/internal/config"
	"github.com/deppfellow/formrequest/internal/database"
	"github.com/deppfellow/formrequest/internal/lib/job"
	"github.com/deppfellow/formrequest/internal/metrics"
	"github.com/deppfellow/formrequest/internal/validation"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/formrequest/internal/logger"
)

// RedisPingTimeout bounds the startup ping.
const RedisPingTimeout = 5 * time.Second

type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService
	DB            *database.Database
	Redis         *redis.Client
	Job           *job.JobService
	Metrics       *metrics.Collector

	// Validator runs the validation lifecycle for every bound payload.
	Validator *validation.Hook

	httpServer *http.Server
}

// New connects to PostgreSQL and Redis, starts the job workers and builds
// the validation hook. A Redis ping failure is logged and startup continues;
// the rate limiter falls back to memory and jobs are retried by Asynq once
// Redis is back.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})

	if loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), RedisPingTimeout)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without Redis")
	}

	jobService := job.NewJobService(logger, cfg)
	jobService.InitHandlers(cfg, logger)

	if err := jobService.Start(); err != nil {
		return nil, fmt.Errorf("failed to start job server: %w", err)
	}

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Redis:         redisClient,
		Job:           jobService,
		Metrics:       metrics.NewCollector(),
		Validator:     NewValidator(),
	}, nil
}

// NewValidator builds the hook shared by all handlers. Payloads with a JSON
// Schema are checked against it before their struct rules run.
func NewValidator() *validation.Hook {
	return validation.NewHook(
		validation.Chain(validation.NewSchemaEngine(), validation.NewStructEngine()),
		validation.WithPassed(annotateTransaction),
	)
}

// annotateTransaction tags the New Relic transaction with the payload that
// passed validation.
func annotateTransaction(ctx context.Context, target validation.Target) {
	if txn := newrelic.FromContext(ctx); txn != nil {
		txn.AddAttribute("validation.payload", fmt.Sprintf("%T", target))
		txn.AddAttribute("validation.passed", true)
	}
}

// SetupHTTPServer wraps handler in a net/http server using the configured
// timeouts, which are in seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP. Call SetupHTTPServer first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests, then releases the pool, the job
// workers and the Redis client.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}

	return nil
}
