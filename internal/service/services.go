package service

import (
	"github.com/deppfellow/formrequest/internal/lib/job"
	"github.com/deppfellow/formrequest/internal/repository"
	"github.com/deppfellow/formrequest/internal/server"
)

type Services struct {
	Auth    *AuthService
	Job     *job.JobService
	Contact *ContactService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Auth:    NewAuthService(s),
		Job:     s.Job,
		Contact: NewContactService(s, repos.Contact),
	}, nil
}
