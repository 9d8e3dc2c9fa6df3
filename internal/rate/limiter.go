// Package rate implementa rate limiting fixed-window para endpoints
// sensibles a fuerza bruta (login). Backend redis para multi-instancia,
// memory para desarrollo.
package rate

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	CurrentHits int64
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RedisLimiter: fixed window sencillo (INCR + EXPIRE).
type RedisLimiter struct {
	Client *rdb.Client
	Prefix string
	Max    int64
	Window time.Duration
}

func NewRedisLimiter(client *rdb.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{Client: client, Prefix: prefix, Max: int64(max), Window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.Window)
	redisKey := fmt.Sprintf("%s%s:%d", l.Prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	pipe := l.Client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.TTL(ctx, redisKey)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return Result{}, err
	}

	// setear expiry en el primer hit
	if incr.Val() == 1 {
		_ = l.Client.Expire(ctx, redisKey, l.Window).Err()
		ttl = l.Client.TTL(ctx, redisKey)
	}

	hits := incr.Val()
	allowed := hits <= l.Max
	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}

	res := Result{
		Allowed:     allowed,
		Remaining:   remaining,
		CurrentHits: hits,
	}
	if !allowed {
		res.RetryAfter = ttl.Val()
		if res.RetryAfter < 0 {
			res.RetryAfter = time.Duration(math.Ceil(l.Window.Seconds())) * time.Second
		}
	}
	return res, nil
}

// MemoryLimiter: fixed window in-process. Solo para single-instance/dev.
type MemoryLimiter struct {
	Max    int64
	Window time.Duration

	mu   sync.Mutex
	hits map[string]int64
	win  map[string]int64 // inicio de ventana por key (unix nanos)
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		Max:    int64(max),
		Window: window,
		hits:   make(map[string]int64),
		win:    make(map[string]int64),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	// Nanos: con segundos enteros una ventana sub-segundo nunca rota.
	winStart := now.Truncate(l.Window).UnixNano()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.win[key] != winStart {
		l.win[key] = winStart
		l.hits[key] = 0
	}
	l.hits[key]++
	hits := l.hits[key]

	allowed := hits <= l.Max
	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{Allowed: allowed, Remaining: remaining, CurrentHits: hits}
	if !allowed {
		windowEnd := time.Unix(0, winStart).Add(l.Window)
		res.RetryAfter = windowEnd.Sub(now)
	}
	return res, nil
}
