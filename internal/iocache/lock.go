package iocache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/schema"
	"github.com/redis/go-redis/v9"
)

// lockKeyPrefix namespaces lock keys in shared Redis instances.
const lockKeyPrefix = "maturity:lock:"

// NewLocker returns the PlanLocker for the configured backend.
func NewLocker(opts LockOptions) (contract.PlanLocker, error) {
	switch opts.Backend {
	case "", schema.MemoryLock:
		return NewMemoryLocker(), nil
	case schema.RedisLock:
		return NewRedisLocker(context.Background(), &redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
	default:
		return nil, fmt.Errorf("unsupported lock backend: %s", opts.Backend)
	}
}

// closeLocker releases resources held by lockers that own a connection.
func closeLocker(l contract.PlanLocker) {
	if c, ok := l.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}

// MemoryLocker serializes runs within a single process.
type MemoryLocker struct {
	mu      sync.Mutex
	holders map[string]memoryHold
}

type memoryHold struct {
	token   string
	expires time.Time
}

var _ contract.PlanLocker = &MemoryLocker{} // Compile-time check

// NewMemoryLocker creates an empty in-process locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{holders: make(map[string]memoryHold)}
}

// Acquire takes the lock for key until released or until ttl passes.
func (m *MemoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if hold, ok := m.holders[key]; ok && now.Before(hold.expires) {
		return nil, fmt.Errorf("%w: %s", contract.ErrLockHeld, key)
	}

	token := uuid.NewString()
	m.holders[key] = memoryHold{token: token, expires: now.Add(ttl)}

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if hold, ok := m.holders[key]; ok && hold.token == token {
			delete(m.holders, key)
		}
	}, nil
}

// releaseScript deletes the lock only when the caller still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker serializes runs across processes that share a Redis instance.
type RedisLocker struct {
	client *redis.Client
}

var _ contract.PlanLocker = &RedisLocker{} // Compile-time check

// NewRedisLocker connects to Redis and verifies the connection.
func NewRedisLocker(ctx context.Context, opts *redis.Options) (*RedisLocker, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return &RedisLocker{client: client}, nil
}

// Acquire sets the lock key with a unique token if it is absent.
func (r *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	fullKey := lockKeyPrefix + key

	ok, err := r.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", contract.ErrLockHeld, key)
	}

	return func() {
		// Release with a fresh context so cancellation of the run still frees the key
		_ = releaseScript.Run(context.Background(), r.client, []string{fullKey}, token).Err()
	}, nil
}

// Close closes the Redis client.
func (r *RedisLocker) Close() error {
	return r.client.Close()
}
