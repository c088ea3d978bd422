package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/shopcart/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/shopcart/internal/reliability/circuitbreaker"
	"github.com/aryan0dhankhar/shopcart/internal/repository"
)

// guardedKV routes Redis calls through a circuit breaker so an unreachable
// server fails cart calls immediately instead of after every timeout
type guardedKV struct {
	kv repository.KV
	cb *circuitbreaker.CircuitBreaker
}

func newGuardedKV(kv repository.KV, logger *slog.Logger) *guardedKV {
	cb := circuitbreaker.NewCircuitBreaker(5, 2, 10*time.Second)
	cb.SetStateChangeCallback(func(from, to circuitbreaker.State) {
		logger.Warn("redis circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})
	return &guardedKV{kv: kv, cb: cb}
}

func missing(err error) bool {
	return errors.Is(err, redis.ErrNil)
}

func (g *guardedKV) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return g.cb.Do(func() error { return g.kv.Set(ctx, key, value, ttl) }, nil)
}

func (g *guardedKV) Get(ctx context.Context, key string) (v string, err error) {
	err = g.cb.Do(func() error {
		v, err = g.kv.Get(ctx, key)
		return err
	}, missing)
	return v, err
}

func (g *guardedKV) Delete(ctx context.Context, key string) error {
	return g.cb.Do(func() error { return g.kv.Delete(ctx, key) }, nil)
}

func (g *guardedKV) Incr(ctx context.Context, key string) (n int64, err error) {
	err = g.cb.Do(func() error {
		n, err = g.kv.Incr(ctx, key)
		return err
	}, nil)
	return n, err
}

func (g *guardedKV) SAdd(ctx context.Context, key string, members ...interface{}) error {
	return g.cb.Do(func() error { return g.kv.SAdd(ctx, key, members...) }, nil)
}

func (g *guardedKV) SRem(ctx context.Context, key string, members ...interface{}) error {
	return g.cb.Do(func() error { return g.kv.SRem(ctx, key, members...) }, nil)
}

func (g *guardedKV) SMembers(ctx context.Context, key string) (m []string, err error) {
	err = g.cb.Do(func() error {
		m, err = g.kv.SMembers(ctx, key)
		return err
	}, nil)
	return m, err
}
