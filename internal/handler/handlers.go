package handler

import (
	"github.com/deppfellow/formrequest/internal/server"
	"github.com/deppfellow/formrequest/internal/service"
)

type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Contact *ContactHandler
	Email   *EmailHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Contact: NewContactHandler(s, services.Contact),
		Email:   NewEmailHandler(s),
	}
}
