package redis

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockery --case=snake --name=LossRepo
//go:generate mockery --case=snake --name=PriceCache

type LossRepo interface {
	DailyLosses(ctx context.Context, followerIDs []int64, day time.Time) (map[int64]decimal.Decimal, error)
	AddLoss(ctx context.Context, followerID int64, day time.Time, amount decimal.Decimal) (decimal.Decimal, error)
}

type PriceCache interface {
	Get(ctx context.Context, symbol string) (decimal.Decimal, bool, error)
	Set(ctx context.Context, symbol string, price decimal.Decimal) error
}
