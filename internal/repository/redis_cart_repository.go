package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/infrastructure/redis"
)

const (
	cartSeqKey   = "cart:seq"
	cartIndexKey = "cart:index"
)

// KV is the subset of Redis commands the cart repository uses
type KV interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
	SAdd(ctx context.Context, key string, members ...interface{}) error
	SRem(ctx context.Context, key string, members ...interface{}) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// RedisCartRepository implements domain.CartRepository using Redis.
// Each cart is a JSON document under cart:{code}; codes come from INCR cart:seq.
type RedisCartRepository struct {
	redis   KV
	logger  *slog.Logger
	timeout time.Duration
}

// NewRedisCartRepository creates a new cart repository
func NewRedisCartRepository(kv KV, logger *slog.Logger) *RedisCartRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCartRepository{redis: kv, logger: logger, timeout: 3 * time.Second}
}

var _ KV = (*redis.Client)(nil)

func cartKey(code int) string {
	return fmt.Sprintf("cart:%d", code)
}

func ownerKey(ownerID string) string {
	return fmt.Sprintf("cart:owner:%s", ownerID)
}

// Create assigns the next code and stores the cart
func (r *RedisCartRepository) Create(cart *domain.Cart) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	code, err := r.redis.Incr(ctx, cartSeqKey)
	if err != nil {
		return fmt.Errorf("failed to allocate cart code: %w", err)
	}
	cart.Code = int(code)

	if err := r.put(ctx, cart); err != nil {
		return err
	}
	if err := r.redis.SAdd(ctx, cartIndexKey, cart.Code); err != nil {
		return fmt.Errorf("failed to index cart: %w", err)
	}
	if err := r.redis.SAdd(ctx, ownerKey(cart.OwnerID), cart.Code); err != nil {
		return fmt.Errorf("failed to index cart owner: %w", err)
	}

	r.logger.Debug("cart saved", slog.Int("cart_code", cart.Code))
	return nil
}

// GetByCode retrieves a cart
func (r *RedisCartRepository) GetByCode(code int) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return r.get(ctx, code)
}

// Update overwrites an existing cart
func (r *RedisCartRepository) Update(cart *domain.Cart) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	prev, err := r.get(ctx, cart.Code)
	if err != nil {
		return err
	}
	if err := r.put(ctx, cart); err != nil {
		return err
	}
	if prev.OwnerID != cart.OwnerID {
		if err := r.redis.SAdd(ctx, ownerKey(cart.OwnerID), cart.Code); err != nil {
			return fmt.Errorf("failed to index cart owner: %w", err)
		}
		if err := r.redis.SRem(ctx, ownerKey(prev.OwnerID), cart.Code); err != nil {
			return fmt.Errorf("failed to unindex previous cart owner: %w", err)
		}
	}
	return nil
}

// Delete removes a cart and its index entries
func (r *RedisCartRepository) Delete(code int) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	cart, err := r.get(ctx, code)
	if err != nil {
		return err
	}
	if err := r.redis.Delete(ctx, cartKey(code)); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	if err := r.redis.SRem(ctx, cartIndexKey, code); err != nil {
		return fmt.Errorf("failed to unindex cart: %w", err)
	}
	if err := r.redis.SRem(ctx, ownerKey(cart.OwnerID), code); err != nil {
		return fmt.Errorf("failed to unindex cart owner: %w", err)
	}

	r.logger.Debug("cart deleted", slog.Int("cart_code", code))
	return nil
}

// List returns every cart ordered by code
func (r *RedisCartRepository) List() ([]*domain.Cart, error) {
	return r.members(cartIndexKey, nil)
}

// ListByOwner returns an owner's carts ordered by code
func (r *RedisCartRepository) ListByOwner(ownerID string) ([]*domain.Cart, error) {
	return r.members(ownerKey(ownerID), func(c *domain.Cart) bool { return c.OwnerID == ownerID })
}

func (r *RedisCartRepository) members(set string, keep func(*domain.Cart) bool) ([]*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	raw, err := r.redis.SMembers(ctx, set)
	if err != nil {
		return nil, fmt.Errorf("failed to list carts: %w", err)
	}
	codes := make([]int, 0, len(raw))
	for _, m := range raw {
		code, err := strconv.Atoi(m)
		if err != nil {
			r.logger.Warn("skipping malformed cart index entry", slog.String("member", m))
			continue
		}
		codes = append(codes, code)
	}
	sort.Ints(codes)

	var carts []*domain.Cart
	for _, code := range codes {
		cart, err := r.get(ctx, code)
		if errors.Is(err, domain.ErrNotFound) {
			// index entry outlived its document
			continue
		}
		if err != nil {
			return nil, err
		}
		if keep != nil && !keep(cart) {
			r.logger.Warn("skipping stale cart index entry", slog.String("set", set), slog.Int("code", code))
			continue
		}
		carts = append(carts, cart)
	}
	return carts, nil
}

func (r *RedisCartRepository) get(ctx context.Context, code int) (*domain.Cart, error) {
	data, err := r.redis.Get(ctx, cartKey(code))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return nil, fmt.Errorf("failed to get cart %d: %w", code, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart %d: %w", code, domain.ErrCorrupt)
	}
	return &cart, nil
}

func (r *RedisCartRepository) put(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := r.redis.Set(ctx, cartKey(cart.Code), string(data), 0); err != nil {
		return fmt.Errorf("failed to store cart: %w", err)
	}
	return nil
}
