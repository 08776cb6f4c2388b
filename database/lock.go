package database

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// LockManager serializes operations on an exclusive resource identified by
// key: a cashier's session slot, a sequence scope. Acquire blocks briefly
// and retries; it fails once the retry budget is spent.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

const (
	lockMaxRetries = 3
	lockRetryDelay = 200 * time.Millisecond
)

// RedisLockManager implements LockManager on Redis SETNX with a Lua-guarded
// release, so only the holder can release.
type RedisLockManager struct {
	client *redis.Client
}

func NewRedisLockManager(client *redis.Client) *RedisLockManager {
	return &RedisLockManager{client: client}
}

func (m *RedisLockManager) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	value := uuid.New().String()

	var locked bool
	var err error
	for i := 0; i < lockMaxRetries; i++ {
		locked, err = m.client.SetNX(ctx, key, value, ttl).Result()
		if err == nil && locked {
			break
		}
		if i < lockMaxRetries-1 {
			time.Sleep(lockRetryDelay)
		}
	}
	if !locked {
		return nil, fmt.Errorf("failed to acquire lock %s after retries: %w", key, err)
	}

	release := func() {
		if err := m.release(ctx, key, value); err != nil {
			log.Printf("Failed to release lock %s: %v", key, err)
		}
	}
	return release, nil
}

func (m *RedisLockManager) release(ctx context.Context, key, value string) error {
	const releaseLockScript = `
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
	`
	script := redis.NewScript(releaseLockScript)
	result, err := script.Run(ctx, m.client, []string{key}, value).Result()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	if result.(int64) == 0 {
		return fmt.Errorf("lock release failed: not the lock owner")
	}
	return nil
}

// LocalLockManager implements LockManager with per-key in-process mutexes.
// Used in tests and single-node deployments that run without Redis.
type LocalLockManager struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalLockManager() *LocalLockManager {
	return &LocalLockManager{locks: make(map[string]*sync.Mutex)}
}

func (m *LocalLockManager) Acquire(_ context.Context, key string, _ time.Duration) (func(), error) {
	m.mu.Lock()
	lock, ok := m.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[key] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	return lock.Unlock, nil
}
