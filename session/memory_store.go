package session

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"Gin_postgres_redis_asset_lending/models"
)

const memorySessionLimit = 1024

// MemoryStore keeps sessions in process, for deployments without Redis.
// Sessions are lost on restart.
type MemoryStore struct {
	cache *expirable.LRU[string, Session]
	ttl   time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: expirable.NewLRU[string, Session](memorySessionLimit, nil, ttl),
		ttl:   ttl,
	}
}

func (s *MemoryStore) Create(_ context.Context, u *models.User) (*Session, error) {
	sess := newSession(u, s.ttl)
	s.cache.Add(sess.ID, *sess)
	return sess, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	sess, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.cache.Remove(id)
	return nil
}

func (s *MemoryStore) RevokeAllForUser(_ context.Context, userID string) error {
	for _, id := range s.cache.Keys() {
		if sess, ok := s.cache.Peek(id); ok && sess.UserID == userID {
			s.cache.Remove(id)
		}
	}
	return nil
}
