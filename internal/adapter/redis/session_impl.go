package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/price-tracker/internal/entity"
	"github.com/user/price-tracker/internal/repository"
	"github.com/user/price-tracker/pkg/utils"
)

const sessionKeyPrefix = "session:"

// SessionRepoImpl provides a concrete implementation for the SessionRepository interface using Redis.
type SessionRepoImpl struct {
	client redis.Cmdable
}

// NewSessionRepo creates a new instance of SessionRepoImpl.
func NewSessionRepo(client redis.Cmdable) *SessionRepoImpl {
	return &SessionRepoImpl{client: client}
}

var _ repository.SessionRepository = (*SessionRepoImpl)(nil)

// generateKey hashes the token so raw tokens never appear in Redis.
func (r *SessionRepoImpl) generateKey(token string) string {
	return fmt.Sprintf("%s%s", sessionKeyPrefix, utils.HashKey(token))
}

// Save stores the session as JSON with an expiry.
func (r *SessionRepoImpl) Save(ctx context.Context, session *entity.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.SetEx(ctx, r.generateKey(session.Token), data, ttl).Err()
}

// Find loads a session by token.
func (r *SessionRepoImpl) Find(ctx context.Context, token string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.generateKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// Delete removes a session. Deleting an unknown token is not an error.
func (r *SessionRepoImpl) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.generateKey(token)).Err()
}

// Ping checks the Redis connection.
func (r *SessionRepoImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
