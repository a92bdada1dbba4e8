package handler

import (
	"github.com/deppfellow/formrequest/internal/lib/email"
	"github.com/deppfellow/formrequest/internal/server"
	"github.com/labstack/echo/v4"

	emailModel "github.com/deppfellow/formrequest/internal/model/email"
)

// EmailHandler renders email templates with sample data so they can be
// checked in a browser. It is only routed outside production.
type EmailHandler struct {
	Handler
	client *email.Client
}

func NewEmailHandler(s *server.Server) *EmailHandler {
	return &EmailHandler{
		Handler: NewHandler(s),
		client:  email.NewClient(s.Config, s.Logger),
	}
}

func (h *EmailHandler) PreviewEmail(c echo.Context, payload *emailModel.PreviewEmailPayload) (string, error) {
	name := email.Template(payload.Template)
	return h.client.Render(name, email.PreviewData[name])
}
