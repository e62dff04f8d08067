package repository

import (
	"context"
	"time"

	"github.com/user/price-tracker/internal/entity"
)

// SessionRepository defines the interface for login sessions.
type SessionRepository interface {
	// Save stores the session until ttl elapses.
	Save(ctx context.Context, session *entity.Session, ttl time.Duration) error
	// Find returns ErrNotFound for unknown or expired tokens.
	Find(ctx context.Context, token string) (*entity.Session, error)
	Delete(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}
