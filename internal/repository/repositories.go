package repository

import (
	"github.com/deppfellow/formrequest/internal/server"
)

// Repositories groups every repository so services receive one value.
type Repositories struct {
	Contact *ContactRepository
}

// NewRepositories builds the repositories on the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Contact: NewContactRepository(s.DB.Pool),
	}
}
