package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aryan0dhankhar/shopcart/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/shopcart/internal/reliability/circuitbreaker"
)

type downKV struct {
	calls int
	err   error
}

func (d *downKV) Set(context.Context, string, interface{}, time.Duration) error {
	d.calls++
	return d.err
}
func (d *downKV) Get(context.Context, string) (string, error) { d.calls++; return "", d.err }
func (d *downKV) Delete(context.Context, string) error         { d.calls++; return d.err }
func (d *downKV) Incr(context.Context, string) (int64, error)  { d.calls++; return 0, d.err }
func (d *downKV) SAdd(context.Context, string, ...interface{}) error {
	d.calls++
	return d.err
}
func (d *downKV) SRem(context.Context, string, ...interface{}) error {
	d.calls++
	return d.err
}
func (d *downKV) SMembers(context.Context, string) ([]string, error) { d.calls++; return nil, d.err }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGuardedKVTripsOnOutage(t *testing.T) {
	kv := &downKV{err: errors.New("connection refused")}
	g := newGuardedKV(kv, quietLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := g.Incr(ctx, "cart:seq")
		assert.Error(t, err)
	}
	assert.Equal(t, 5, kv.calls)

	_, err := g.Get(ctx, "cart:1")
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Equal(t, 5, kv.calls)
}

func TestGuardedKVIgnoresMissingKeys(t *testing.T) {
	kv := &downKV{err: redis.ErrNil}
	g := newGuardedKV(kv, quietLogger())

	for i := 0; i < 10; i++ {
		_, err := g.Get(context.Background(), "cart:1")
		assert.ErrorIs(t, err, redis.ErrNil)
	}
	assert.Equal(t, 10, kv.calls)
}
