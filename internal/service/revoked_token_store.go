package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevokedTokenStore guarda jti de tokens revocados hasta su expiración natural.
// El logout revoca el jti del token presentado; Verify consulta este set.
type RevokedTokenStore interface {
	Revoke(jti string, ttl time.Duration) error
	IsRevoked(jti string) (bool, error)
}

type memoryRevokedTokenStore struct {
	mu    sync.Mutex
	items map[string]time.Time
}

func NewMemoryRevokedTokenStore() RevokedTokenStore {
	return &memoryRevokedTokenStore{
		items: make(map[string]time.Time),
	}
}

func (s *memoryRevokedTokenStore) Revoke(jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	s.items[jti] = time.Now().UTC().Add(ttl)
	return nil
}

func (s *memoryRevokedTokenStore) IsRevoked(jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.items[jti]
	if !ok {
		return false, nil
	}
	if time.Now().UTC().After(exp) {
		delete(s.items, jti)
		return false, nil
	}
	return true, nil
}

type redisRevokedTokenStore struct {
	client *redis.Client
	prefix string
}

func NewRedisRevokedTokenStore(client *redis.Client) RevokedTokenStore {
	if client == nil {
		return nil
	}
	return &redisRevokedTokenStore{
		client: client,
		prefix: "auth:revoked:",
	}
}

func (s *redisRevokedTokenStore) Revoke(jti string, ttl time.Duration) error {
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.prefix+jti, "1", ttl).Err()
}

func (s *redisRevokedTokenStore) IsRevoked(jti string) (bool, error) {
	if strings.TrimSpace(jti) == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	n, err := s.client.Exists(ctx, s.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
