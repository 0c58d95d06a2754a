package auth

import (
	"context"
	"time"

	"github.com/solmak-erp/solmak-erp/internal/users"
)

// UserPort exposes the authentication entry point of the users module.
type UserPort interface {
	Authenticate(ctx context.Context, tenantID, email, password string) (users.User, error)
}

// SessionRepository persists session metadata.
type SessionRepository interface {
	CreateSession(ctx context.Context, id, userID, tenantID string, expiresAt time.Time, ip, userAgent string) error
	DeleteSession(ctx context.Context, id string) error
}

// Service wraps authentication business rules.
type Service struct {
	userPort UserPort
	sessions SessionRepository
}

// NewService constructs a new Service.
func NewService(userPort UserPort, sessions SessionRepository) *Service {
	return &Service{userPort: userPort, sessions: sessions}
}

// Authenticate validates tenant-scoped email/password credentials.
func (s *Service) Authenticate(ctx context.Context, tenantID, email, password string) (users.User, error) {
	return s.userPort.Authenticate(ctx, tenantID, email, password)
}

// RegisterSession persists the session metadata.
func (s *Service) RegisterSession(ctx context.Context, id, userID, tenantID string, expiresAt time.Time, ip, ua string) error {
	return s.sessions.CreateSession(ctx, id, userID, tenantID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.sessions.DeleteSession(ctx, id)
}
