package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/config"
)

// AttemptStore tracks failed logins per IP+username key.
type AttemptStore interface {
	// Allow reports whether a login attempt may proceed and, if not, when
	// the lockout expires.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
	// RecordFailure counts a failed attempt and reports whether the key is
	// now locked.
	RecordFailure(ctx context.Context, key string) (bool, time.Duration, error)
	// RecordSuccess clears the key.
	RecordSuccess(ctx context.Context, key string) error
}

// RateLimitConfig contains configuration for the attempt stores.
type RateLimitConfig struct {
	MaxAttempts     int           // Maximum attempts before lockout (default: 5)
	WindowDuration  time.Duration // Time window for counting attempts (default: 15m)
	LockoutDuration time.Duration // How long to lock out after max attempts (default: 30m)
	CleanupInterval time.Duration // How often to clean up expired records (default: 5m)
}

// DefaultRateLimitConfig returns sensible defaults for rate limiting.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxAttempts:     5,
		WindowDuration:  15 * time.Minute,
		LockoutDuration: 30 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	d := DefaultRateLimitConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.WindowDuration <= 0 {
		c.WindowDuration = d.WindowDuration
	}
	if c.LockoutDuration <= 0 {
		c.LockoutDuration = d.LockoutDuration
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	return c
}

// RateLimitConfigFrom maps the auth section of the config.
func RateLimitConfigFrom(cfg config.Auth) RateLimitConfig {
	return RateLimitConfig{
		MaxAttempts:     cfg.MaxLoginAttempts,
		WindowDuration:  cfg.RateLimitWindow,
		LockoutDuration: cfg.LockoutDuration,
	}.withDefaults()
}

func attemptKey(ip, username string) string {
	return ip + ":" + username
}

// LockoutError is returned by Login while a key is locked.
type LockoutError struct {
	RetryAfter time.Duration
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("too many login attempts, retry after %s", e.RetryAfter)
}

func (e *LockoutError) Unwrap() error {
	return apperr.RateLimited("Too many login attempts. Please try again later.")
}

// MemoryStore keeps attempts in process memory using a fixed window.
type MemoryStore struct {
	mu          sync.RWMutex
	attempts    map[string]*attemptRecord
	cfg         RateLimitConfig
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// NewMemoryStore creates an in-memory store and starts its cleanup loop.
func NewMemoryStore(cfg RateLimitConfig) *MemoryStore {
	s := &MemoryStore{
		attempts:    make(map[string]*attemptRecord),
		cfg:         cfg.withDefaults(),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

// Stop stops the background cleanup goroutine.
func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCleanup) })
}

func (s *MemoryStore) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := s.now()

	s.mu.RLock()
	record, exists := s.attempts[key]
	s.mu.RUnlock()

	if !exists {
		return true, 0, nil
	}

	if !record.lockedUntil.IsZero() && now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now), nil
	}

	if now.Sub(record.firstAttempt) > s.cfg.WindowDuration {
		return true, 0, nil
	}

	if record.count < s.cfg.MaxAttempts {
		return true, 0, nil
	}

	return false, s.cfg.LockoutDuration, nil
}

func (s *MemoryStore) RecordFailure(_ context.Context, key string) (bool, time.Duration, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.attempts[key]
	if !exists {
		record = &attemptRecord{firstAttempt: now}
		s.attempts[key] = record
	}

	// Reset if window expired
	if now.Sub(record.firstAttempt) > s.cfg.WindowDuration {
		record.count = 0
		record.firstAttempt = now
		record.lockedUntil = time.Time{}
	}

	record.count++

	if record.count >= s.cfg.MaxAttempts {
		record.lockedUntil = now.Add(s.cfg.LockoutDuration)
		return true, s.cfg.LockoutDuration, nil
	}

	return false, 0, nil
}

func (s *MemoryStore) RecordSuccess(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.attempts, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) cleanup() {
	now := s.now()
	expiry := s.cfg.WindowDuration + s.cfg.LockoutDuration

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, record := range s.attempts {
		windowExpired := now.Sub(record.firstAttempt) > expiry
		lockoutExpired := record.lockedUntil.IsZero() || now.After(record.lockedUntil)

		if windowExpired && lockoutExpired {
			delete(s.attempts, key)
		}
	}
}

// RedisStore shares attempt counters between instances. The failure counter
// expires with the window and the lock key with the lockout.
type RedisStore struct {
	client *redis.Client
	cfg    RateLimitConfig
	prefix string
}

func NewRedisStore(client *redis.Client, cfg RateLimitConfig) *RedisStore {
	return &RedisStore{client: client, cfg: cfg.withDefaults(), prefix: "capacity:login:"}
}

func (s *RedisStore) countKey(key string) string { return s.prefix + "count:" + key }
func (s *RedisStore) lockKey(key string) string  { return s.prefix + "lock:" + key }

func (s *RedisStore) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	ttl, err := s.client.PTTL(ctx, s.lockKey(key)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis pttl: %w", err)
	}
	// PTTL is negative when the key is missing or has no expiry.
	if ttl > 0 {
		return false, ttl, nil
	}
	return true, 0, nil
}

func (s *RedisStore) RecordFailure(ctx context.Context, key string) (bool, time.Duration, error) {
	countKey := s.countKey(key)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, countKey)
	pipe.ExpireNX(ctx, countKey, s.cfg.WindowDuration)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("redis incr: %w", err)
	}

	if incr.Val() < int64(s.cfg.MaxAttempts) {
		return false, 0, nil
	}

	pipe = s.client.TxPipeline()
	pipe.Set(ctx, s.lockKey(key), 1, s.cfg.LockoutDuration)
	pipe.Del(ctx, countKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("redis lock: %w", err)
	}
	return true, s.cfg.LockoutDuration, nil
}

func (s *RedisStore) RecordSuccess(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.countKey(key), s.lockKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// NewAttemptStore picks the backend named in the config. The returned stop
// function releases the backend's resources.
func NewAttemptStore(cfg config.Auth, redisCfg config.Redis) (AttemptStore, func(), error) {
	rl := RateLimitConfigFrom(cfg)
	switch cfg.RateLimitBackend {
	case config.RateLimitRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		return NewRedisStore(client, rl), func() { _ = client.Close() }, nil
	case config.RateLimitMemory, "":
		store := NewMemoryStore(rl)
		return store, store.Stop, nil
	default:
		return nil, nil, fmt.Errorf("unknown rate limit backend %q", cfg.RateLimitBackend)
	}
}
