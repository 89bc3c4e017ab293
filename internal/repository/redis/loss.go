package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	dailyLossKeyPrefix = "daily_loss"
	dailyLossTTL       = 48 * time.Hour
)

// LossRepository keeps the realized loss of each follower per trading day.
type LossRepository struct {
	client *goredis.Client
}

func NewLossRepository(client *goredis.Client) *LossRepository {
	return &LossRepository{client: client}
}

func DailyLossKey(followerID int64, day time.Time) string {
	return fmt.Sprintf("%s:%s:%d", dailyLossKeyPrefix, day.Format("2006-01-02"), followerID)
}

// DailyLosses reads the losses booked on day for followerIDs in one MGET.
// A missing key means nothing was lost yet; a follower whose stored value
// does not parse is left out of the result.
func (r *LossRepository) DailyLosses(ctx context.Context, followerIDs []int64, day time.Time) (map[int64]decimal.Decimal, error) {
	out := make(map[int64]decimal.Decimal, len(followerIDs))
	if len(followerIDs) == 0 {
		return out, nil
	}

	keys := make([]string, len(followerIDs))
	for i, id := range followerIDs {
		keys[i] = DailyLossKey(id, day)
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis MGET %s: %w", dailyLossKeyPrefix, err)
	}

	for i, v := range vals {
		switch v := v.(type) {
		case nil:
			out[followerIDs[i]] = decimal.Zero
		case string:
			loss, err := decimal.NewFromString(v)
			if err != nil {
				continue
			}
			out[followerIDs[i]] = loss
		}
	}

	return out, nil
}

// AddLoss books amount against followerID on day and returns the new total.
func (r *LossRepository) AddLoss(ctx context.Context, followerID int64, day time.Time, amount decimal.Decimal) (decimal.Decimal, error) {
	key := DailyLossKey(followerID, day)

	pipe := r.client.TxPipeline()
	total := pipe.IncrByFloat(ctx, key, amount.InexactFloat64())
	pipe.Expire(ctx, key, dailyLossTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("redis INCRBYFLOAT %s: %w", key, err)
	}

	return decimal.NewFromFloat(total.Val()), nil
}
