package handler

import (
	"fmt"
	"net/http"
	"os"

	"github.com/deppfellow/formrequest/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPIUIPath is the docs page, relative to the working directory.
const OpenAPIUIPath = "static/openapi.html"

// OpenAPIHandler serves the API reference page, which loads
// /static/openapi.json.
type OpenAPIHandler struct {
	Handler
}

// NewOpenAPIHandler creates the docs handler.
func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPIUI writes the reference page at GET /docs.
//
// The page is read on every request so edits show up without a restart, and
// Cache-Control: no-cache keeps browsers from holding a stale copy. A missing
// file is returned as an error and becomes a 500 in the global error handler.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := os.ReadFile(OpenAPIUIPath)
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err := c.HTML(http.StatusOK, string(page)); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
