package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/formrequest/internal/server"
)

// AuthService configures the Clerk SDK used by the RequireAuth middleware.
type AuthService struct {
	server *server.Server
}

func NewAuthService(s *server.Server) *AuthService {
	clerk.SetKey(s.Config.Auth.SecretKey)
	return &AuthService{
		server: s,
	}
}
