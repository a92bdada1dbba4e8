package handler

import (
	"context"

	"github.com/deppfellow/formrequest/internal/middleware"
	"github.com/deppfellow/formrequest/internal/model/contact"
	"github.com/deppfellow/formrequest/internal/server"
	"github.com/labstack/echo/v4"
)

type contactService interface {
	CreateContact(ctx context.Context, ownerID string, payload *contact.CreateContactPayload) (*contact.Contact, error)
	ImportContacts(ctx context.Context, ownerID string, payload *contact.ImportContactsPayload) (*contact.ImportResult, error)
	GetContact(ctx context.Context, ownerID string, payload *contact.GetContactPayload) (*contact.Contact, error)
	ListContacts(ctx context.Context, ownerID string, payload *contact.ListContactsPayload) ([]*contact.Contact, error)
}

type ContactHandler struct {
	Handler
	contactService contactService
}

func NewContactHandler(s *server.Server, contactService contactService) *ContactHandler {
	return &ContactHandler{
		Handler:        NewHandler(s),
		contactService: contactService,
	}
}

func (h *ContactHandler) CreateContact(c echo.Context, payload *contact.CreateContactPayload) (*contact.Contact, error) {
	return h.contactService.CreateContact(c.Request().Context(), middleware.GetUserID(c), payload)
}

func (h *ContactHandler) ImportContacts(c echo.Context, payload *contact.ImportContactsPayload) (*contact.ImportResult, error) {
	return h.contactService.ImportContacts(c.Request().Context(), middleware.GetUserID(c), payload)
}

func (h *ContactHandler) GetContact(c echo.Context, payload *contact.GetContactPayload) (*contact.Contact, error) {
	return h.contactService.GetContact(c.Request().Context(), middleware.GetUserID(c), payload)
}

func (h *ContactHandler) ListContacts(c echo.Context, payload *contact.ListContactsPayload) ([]*contact.Contact, error) {
	return h.contactService.ListContacts(c.Request().Context(), middleware.GetUserID(c), payload)
}
