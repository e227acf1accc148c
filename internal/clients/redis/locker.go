package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/pathways-backend/internal/data/aggregates"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

const (
	DefaultLockTTL  = 10 * time.Second
	DefaultLockWait = 5 * time.Second
	lockKeyPrefix   = "pathways:lock:"
	retryInterval   = 25 * time.Millisecond
)

// Only the holder's token may release the key.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type LockerOptions struct {
	TTL  time.Duration
	Wait time.Duration
}

// Locker is a SET NX PX lease per key shared by every API replica. The lease
// TTL bounds how long a crashed holder can block a user.
type Locker struct {
	rdb  goredis.UniversalClient
	log  *logger.Logger
	ttl  time.Duration
	wait time.Duration
}

var _ aggregates.UserLocker = (*Locker)(nil)

func NewLocker(rdb goredis.UniversalClient, log *logger.Logger, opts LockerOptions) *Locker {
	if opts.TTL <= 0 {
		opts.TTL = DefaultLockTTL
	}
	if opts.Wait <= 0 {
		opts.Wait = DefaultLockWait
	}
	return &Locker{
		rdb:  rdb,
		log:  logger.OrNop(log).With("service", "RedisLocker"),
		ttl:  opts.TTL,
		wait: opts.Wait,
	}
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if l == nil || l.rdb == nil {
		return nil, errors.New("redis locker not initialized")
	}
	redisKey := lockKeyPrefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.rdb.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			return l.releaser(redisKey, token), nil
		}
		if !time.Now().Before(deadline) {
			return nil, aggregates.RetryableError("lock wait exceeded for " + key)
		}
		timer := time.NewTimer(retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *Locker) releaser(redisKey, token string) func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true
		// Release even when the request context is already cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{redisKey}, token).Err(); err != nil {
			l.log.Warn("redis lock release failed", "key", redisKey, "error", err)
		}
	}
}
