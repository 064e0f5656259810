package session

import (
	"context"
	"sync/atomic"
	"time"

	"peregovorka/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverTokenRepository degrades from the primary (redis) store to the
// fallback (memory) store when the primary errors, and probes the primary
// again after a recovery interval. Sessions issued while degraded live only
// in process memory.
type FailoverTokenRepository struct {
	primary   domain.TokenRepository
	fallback  domain.TokenRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64

	recoveryInterval time.Duration
}

func NewFailoverTokenRepository(primary, fallback domain.TokenRepository, logger *zerolog.Logger) *FailoverTokenRepository {
	return &FailoverTokenRepository{
		primary:          primary,
		fallback:         fallback,
		logger:           logger,
		recoveryInterval: time.Minute,
	}
}

func (r *FailoverTokenRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("primary token repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

// shouldProbe reports whether enough time has passed to retry the primary.
func (r *FailoverTokenRepository) shouldProbe() bool {
	return time.Since(time.Unix(0, r.lastCheck.Load())) > r.recoveryInterval
}

func (r *FailoverTokenRepository) SaveToken(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	if !r.isDown.Load() {
		if err := r.primary.SaveToken(ctx, token, userID, ttl); err == nil {
			return nil
		} else {
			r.markDown(err)
		}
	}
	return r.fallback.SaveToken(ctx, token, userID, ttl)
}

func (r *FailoverTokenRepository) ResolveToken(ctx context.Context, token string) (int64, error) {
	if !r.isDown.Load() {
		userID, err := r.primary.ResolveToken(ctx, token)
		if err == nil {
			return userID, nil
		}
		r.markDown(err)
	} else if r.shouldProbe() {
		userID, err := r.primary.ResolveToken(ctx, token)
		if err == nil {
			r.isDown.Store(false)
			return userID, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.ResolveToken(ctx, token)
}

func (r *FailoverTokenRepository) RevokeToken(ctx context.Context, token string) error {
	if !r.isDown.Load() {
		if err := r.primary.RevokeToken(ctx, token); err == nil {
			return r.fallback.RevokeToken(ctx, token)
		} else {
			r.markDown(err)
		}
	}
	return r.fallback.RevokeToken(ctx, token)
}

func (r *FailoverTokenRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}
	return r.fallback.CheckRateLimit(ctx, key, limit, window)
}
