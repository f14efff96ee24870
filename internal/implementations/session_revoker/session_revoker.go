package sessionrevoker

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/user"
	"context"
	"time"

	"github.com/go-redis/redis/v9"
)

const KEY_PREFIX = "revoked-session::"

// Redis keeps revoked token IDs until the tokens would have expired anyway.
type Redis struct {
	redisClient *redis.Client
	now         func() time.Time
}

func NewRedis(redisClient *redis.Client, now func() time.Time) *Redis {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Redis{redisClient: redisClient, now: now}
}

func (r *Redis) Revoke(ctx context.Context, session user.Session) error {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.redisClient.Set(ctx, key(session), string(session.UserID), ttl).Err()
}

func (r *Redis) IsRevoked(ctx context.Context, session user.Session) (bool, error) {
	count, err := r.redisClient.Exists(ctx, key(session)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func key(session user.Session) string {
	return KEY_PREFIX + session.TokenID
}
