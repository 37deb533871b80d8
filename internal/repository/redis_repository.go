package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/cartstore-demo/internal/domain"
	"github.com/nikolayk812/cartstore-demo/internal/port"
	"github.com/redis/go-redis/v9"
)

type redisRepository struct {
	client redis.Cmdable
	key    string
}

func NewRedis(client redis.Cmdable, key string) (port.CartStorage, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	return &redisRepository{
		client: client,
		key:    key,
	}, nil
}

func (r *redisRepository) Load(ctx context.Context) (domain.Cart, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("client.Get: %w", err)
	}

	cart, err := UnmarshalCart(data)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("UnmarshalCart: %w", err)
	}

	return cart, nil
}

// Save overwrites the slot without expiration.
func (r *redisRepository) Save(ctx context.Context, cart domain.Cart) error {
	data, err := MarshalCart(cart)
	if err != nil {
		return fmt.Errorf("MarshalCart: %w", err)
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}
