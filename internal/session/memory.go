package session

import (
	"context"
	"sync"
	"time"
)

type MemoryTokenRepository struct {
	tokens     sync.Map
	rateLimits sync.Map
}

type tokenEntry struct {
	userID    int64
	expiresAt time.Time
}

func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{}
}

func (r *MemoryTokenRepository) SaveToken(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	r.tokens.Store(token, &tokenEntry{userID: userID, expiresAt: time.Now().Add(ttl)})
	return nil
}

func (r *MemoryTokenRepository) ResolveToken(ctx context.Context, token string) (int64, error) {
	val, ok := r.tokens.Load(token)
	if !ok {
		return 0, nil
	}

	entry := val.(*tokenEntry)
	if time.Now().After(entry.expiresAt) {
		r.tokens.Delete(token)
		return 0, nil
	}
	return entry.userID, nil
}

func (r *MemoryTokenRepository) RevokeToken(ctx context.Context, token string) error {
	r.tokens.Delete(token)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryTokenRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, ok := r.rateLimits.Load(key)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(window),
		}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(key, entry)
	return entry.count <= limit, nil
}
