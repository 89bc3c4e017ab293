package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReplicationMetrics struct {
	ID                     int64           `db:"id"`
	MasterOrderID          int64           `db:"master_order_id"`
	TotalFollowers         int             `db:"total_followers"`
	SuccessfulReplications int             `db:"successful_replications"`
	FailedReplications     int             `db:"failed_replications"`
	AverageLatencyMs       decimal.Decimal `db:"average_latency_ms"`
	TotalReplicationTimeMs decimal.Decimal `db:"total_replication_time_ms"`
	CreatedAt              time.Time       `db:"created_at"`
}

func (m *ReplicationMetrics) SuccessRate() float64 {
	if m.TotalFollowers == 0 {
		return 0
	}
	return float64(m.SuccessfulReplications) / float64(m.TotalFollowers) * 100
}
