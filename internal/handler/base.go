package handler

import (
	"fmt"
	"reflect"
	"time"

	"github.com/deppfellow/formrequest/internal/metrics"
	"github.com/deppfellow/formrequest/internal/middleware"
	"github.com/deppfellow/formrequest/internal/server"
	"github.com/deppfellow/formrequest/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler carries the shared dependencies every concrete handler embeds.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is an endpoint that receives a payload which already passed
// validation. Req is a pointer to a payload struct.
type HandlerFunc[Req validation.Target, Res any] func(c echo.Context, req Req) (Res, error)

// HandlerFuncNoContent is an endpoint without a response body.
type HandlerFuncNoContent[Req validation.Target] func(c echo.Context, req Req) error

// ResponseHandler writes a successful result.
type ResponseHandler interface {
	Handle(c echo.Context, result any) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result any)
}

type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(*newrelic.Transaction, any) {}

type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, _ any) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "handler_no_content"
}

func (h NoContentResponseHandler) AddAttributes(*newrelic.Transaction, any) {}

// HTMLResponseHandler writes a string result as an HTML page.
type HTMLResponseHandler struct {
	status int
}

func (h HTMLResponseHandler) Handle(c echo.Context, result any) error {
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.HTML(h.status, result.(string))
}

func (h HTMLResponseHandler) GetOperation() string {
	return "handler_html"
}

func (h HTMLResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	if html, ok := result.(string); ok && txn != nil {
		txn.AddAttribute("html.size_bytes", len(html))
	}
}

// newPayload allocates the struct Req points to. Each request gets its own
// payload because binding and preparation mutate it.
func newPayload[Req validation.Target]() Req {
	var zero Req

	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("handler: payload type %T must be a pointer to a struct", zero))
	}

	return reflect.New(t.Elem()).Interface().(Req)
}

// handleRequest binds and validates a fresh payload through the server's
// validation hook, runs the endpoint and writes its result. Every failure is
// returned for GlobalErrorHandler to render.
func handleRequest[Req validation.Target](
	c echo.Context,
	hook *validation.Hook,
	collector *metrics.Collector,
	handler func(c echo.Context, req Req) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	req := newPayload[Req]()

	validationStart := time.Now()
	err := validation.BindAndValidate(c, hook, req)
	validationDuration := time.Since(validationStart)

	outcome := metrics.Outcome(err)
	if collector != nil {
		collector.RecordValidation(route, err, validationDuration)
	}

	if txn != nil {
		txn.AddAttribute("validation.outcome", outcome)
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	if err != nil {
		event := logger.Warn()
		if outcome == metrics.OutcomeError {
			event = logger.Error()
		}

		event.
			Err(err).
			Str("outcome", outcome).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		return err
	}

	logger.Debug().
		Dur("validation_duration", validationDuration).
		Msg("request validation successful")

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if txn != nil {
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
	}

	if err != nil {
		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
		}

		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle registers an endpoint that answers with status and its result as
// JSON.
//
//	contacts.POST("", handler.Handle(h.Handler, h.CreateContact, http.StatusCreated))
func Handle[Req validation.Target, Res any](h Handler, handler HandlerFunc[Req, Res], status int) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, h.server.Validator, h.server.Metrics, func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleNoContent registers an endpoint without a response body.
func HandleNoContent[Req validation.Target](h Handler, handler HandlerFuncNoContent[Req], status int) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, h.server.Validator, h.server.Metrics, func(c echo.Context, req Req) (any, error) {
			return nil, handler(c, req)
		}, NoContentResponseHandler{status: status})
	}
}

// HandleHTML registers an endpoint that renders an HTML page.
func HandleHTML[Req validation.Target](h Handler, handler HandlerFunc[Req, string], status int) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, h.server.Validator, h.server.Metrics, func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, HTMLResponseHandler{status: status})
	}
}
