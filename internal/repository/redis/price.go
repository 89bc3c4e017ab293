package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	priceKeyPrefix  = "price"
	DefaultPriceTTL = time.Minute
)

type PriceCacheRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewPriceCache(client *goredis.Client, ttl time.Duration) *PriceCacheRepository {
	if ttl <= 0 {
		ttl = DefaultPriceTTL
	}
	return &PriceCacheRepository{client: client, ttl: ttl}
}

func priceKey(symbol string) string {
	return priceKeyPrefix + ":" + symbol
}

func (r *PriceCacheRepository) Get(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
	val, err := r.client.Get(ctx, priceKey(symbol)).Result()
	if err == goredis.Nil {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("redis GET %s: %w", priceKey(symbol), err)
	}

	out, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse %s: %w", priceKey(symbol), err)
	}

	return out, true, nil
}

func (r *PriceCacheRepository) Set(ctx context.Context, symbol string, price decimal.Decimal) error {
	if err := r.client.Set(ctx, priceKey(symbol), price.String(), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", priceKey(symbol), err)
	}
	return nil
}
