package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CopyStrategy string

const (
	CopyStrategyFixedRatio    CopyStrategy = "FIXED_RATIO"
	CopyStrategyPercentage    CopyStrategy = "PERCENTAGE"
	CopyStrategyFixedQuantity CopyStrategy = "FIXED_QUANTITY"
)

// FollowerRelationship is one master -> follower link. BrokerAccountID and
// Balance are joined from the follower's user row.
type FollowerRelationship struct {
	ID            int64           `db:"id"`
	MasterID      int64           `db:"master_id"`
	FollowerID    int64           `db:"follower_id"`
	CopyStrategy  CopyStrategy    `db:"copy_strategy"`
	Ratio         decimal.Decimal `db:"ratio"`
	Percentage    decimal.Decimal `db:"percentage"`
	FixedQuantity int64           `db:"fixed_quantity"`
	MaxOrderValue decimal.Decimal `db:"max_order_value"`
	MaxDailyLoss  decimal.Decimal `db:"max_daily_loss"`
	IsActive      bool            `db:"is_active"`
	AutoFollow    bool            `db:"auto_follow"`
	FollowedAt    time.Time       `db:"followed_at"`

	BrokerAccountID string          `db:"broker_account_id"`
	Balance         decimal.Decimal `db:"balance"`
}

func (r *FollowerRelationship) Replicable() bool {
	return r.IsActive && r.AutoFollow
}
