package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/shopcart/internal/repository/memory"
	"github.com/aryan0dhankhar/shopcart/internal/repository/store"
	"github.com/aryan0dhankhar/shopcart/internal/repository/storetest"
)

// fakeKV is an in-process stand-in for the Redis commands used by the cart repository
type fakeKV struct {
	mu       sync.Mutex
	values   map[string]string
	counters map[string]int64
	sets     map[string]map[string]struct{}
	sremErr  error
}

func newFakeKV() *fakeKV {
	return &fakeKV{
		values:   make(map[string]string),
		counters: make(map[string]int64),
		sets:     make(map[string]map[string]struct{}),
	}
}

func (f *fakeKV) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return "", redis.ErrNil
	}
	return v, nil
}

func (f *fakeKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return nil
}

func (f *fakeKV) Incr(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeKV) SAdd(_ context.Context, key string, members ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[key]
	if !ok {
		set = make(map[string]struct{})
		f.sets[key] = set
	}
	for _, m := range members {
		set[fmt.Sprint(m)] = struct{}{}
	}
	return nil
}

func (f *fakeKV) SRem(_ context.Context, key string, members ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sremErr != nil {
		return f.sremErr
	}
	for _, m := range members {
		delete(f.sets[key], fmt.Sprint(m))
	}
	return nil
}

func (f *fakeKV) SMembers(_ context.Context, key string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sets[key]))
	for m := range f.sets[key] {
		out = append(out, m)
	}
	return out, nil
}

func TestRedisCartRepositoryContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) *store.Repositories {
		repos := memory.Open()
		repos.Carts = NewRedisCartRepository(newFakeKV(), nil)
		return repos
	})
}

func TestRedisCartRepositoryCorruptDocument(t *testing.T) {
	kv := newFakeKV()
	repo := NewRedisCartRepository(kv, nil)

	cart := domain.NewCart("0102030400", time.UnixMilli(1700000000000))
	require.NoError(t, repo.Create(cart))
	require.NoError(t, kv.Set(context.Background(), "cart:1", "{not json", 0))

	_, err := repo.GetByCode(1)
	assert.ErrorIs(t, err, domain.ErrCorrupt)
}

func TestRedisCartRepositoryOwnerChange(t *testing.T) {
	repo := NewRedisCartRepository(newFakeKV(), nil)

	cart := domain.NewCart("a", time.UnixMilli(1700000000000))
	require.NoError(t, repo.Create(cart))
	cart.OwnerID = "b"
	require.NoError(t, repo.Update(cart))

	mine, err := repo.ListByOwner("a")
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := repo.ListByOwner("b")
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, 1, theirs[0].Code)
}

func TestRedisCartRepositoryOwnerChangeReportsIndexFailure(t *testing.T) {
	kv := newFakeKV()
	repo := NewRedisCartRepository(kv, nil)

	cart := domain.NewCart("a", time.UnixMilli(1700000000000))
	require.NoError(t, repo.Create(cart))

	down := errors.New("connection reset")
	kv.sremErr = down
	cart.OwnerID = "b"
	err := repo.Update(cart)
	assert.ErrorIs(t, err, down)

	theirs, err := repo.ListByOwner("b")
	require.NoError(t, err)
	assert.Len(t, theirs, 1, "new owner is indexed before the old entry is dropped")

	mine, err := repo.ListByOwner("a")
	require.NoError(t, err)
	assert.Empty(t, mine, "stale owner entries are not listed")
}
