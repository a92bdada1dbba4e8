package router

import (
	"net/http"

	"github.com/deppfellow/formrequest/internal/handler"
	"github.com/deppfellow/formrequest/internal/middleware"
	"github.com/labstack/echo/v4"
)

const contactsRoute = "/api/v1/contacts"

func registerContactRoutes(r *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	contacts := r.Group("/contacts", m.Auth.RequireAuth, m.RateLimit.Limit(contactsRoute))

	contacts.GET("", handler.Handle(h.Contact.Handler, h.Contact.ListContacts, http.StatusOK))
	contacts.POST("", handler.Handle(h.Contact.Handler, h.Contact.CreateContact, http.StatusCreated))
	contacts.POST("/import", handler.Handle(h.Contact.Handler, h.Contact.ImportContacts, http.StatusCreated))
	contacts.GET("/:id", handler.Handle(h.Contact.Handler, h.Contact.GetContact, http.StatusOK))
}

func registerEmailRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/emails/:template/preview", handler.HandleHTML(h.Email.Handler, h.Email.PreviewEmail, http.StatusOK))
}
