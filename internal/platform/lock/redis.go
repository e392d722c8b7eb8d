// Package lock implements the settlement LockManager, either in Redis for
// multi-instance deployments or in process.
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	portssvc "github.com/SscSPs/sett_auction/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// unlockLua deletes the lock key only if it still holds the caller's token,
// so a holder whose TTL lapsed cannot release a successor's lock.
const unlockLua = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`

// RedisConfig holds connection parameters for the lock's Redis client.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisLockManager uses SET NX with a TTL and a Lua conditional unlock.
type RedisLockManager struct {
	rdb      *redis.Client
	unlockSc *redis.Script
}

// NewRedisLockManager connects to Redis and verifies the connection.
func NewRedisLockManager(ctx context.Context, cfg RedisConfig) (*RedisLockManager, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &RedisLockManager{rdb: rdb, unlockSc: redis.NewScript(unlockLua)}, nil
}

// Close releases the underlying connection pool.
func (lm *RedisLockManager) Close() error {
	return lm.rdb.Close()
}

func redisKey(key string) string {
	return "lock:" + key
}

// Acquire obtains the lock for key or returns domain.ErrLockHeld.
func (lm *RedisLockManager) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	lk := redisKey(key)

	ok, err := lm.rdb.SetNX(ctx, lk, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, domain.ErrLockHeld
	}

	var once sync.Once
	unlock := func() {
		once.Do(func() {
			// Background context so the lock is released even when the caller's
			// context is already cancelled.
			unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = lm.unlockSc.Run(unlockCtx, lm.rdb, []string{lk}, token).Err()
		})
	}
	return unlock, nil
}

var _ portssvc.LockManager = (*RedisLockManager)(nil)
