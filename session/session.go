package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"Gin_postgres_redis_asset_lending/models"
)

// ErrNotFound 会话不存在或已过期
var ErrNotFound = errors.New("session not found")

// Session is the authenticated context of one login. It is created by Login,
// carried through the request context and destroyed by Logout.
type Session struct {
	ID        string          `json:"sid"`
	UserID    string          `json:"uid"`
	Username  string          `json:"username"`
	Role      models.UserRole `json:"role"`
	IssuedAt  int64           `json:"iat"`
	ExpiresAt int64           `json:"exp"`
}

func (s *Session) IsAdmin() bool { return s.Role == models.RoleAdmin }

// Store persists sessions between requests.
type Store interface {
	Create(ctx context.Context, u *models.User) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

func newSession(u *models.User, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Username:  u.Username,
		Role:      u.Role,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
}
