package structs

import (
	"copytrading/models"
)

// Outcome reasons for follower items that did not reach the broker or
// failed there.
const (
	ReasonTimeout            = "TIMEOUT"
	ReasonSessionUnavailable = "SESSION_UNAVAILABLE"
	ReasonRunCancelled       = "RUN_CANCELLED"
	ReasonBrokerError        = "BROKER_ERROR"
	ReasonRiskDataMissing    = "RISK_DATA_UNAVAILABLE"
)

// Outcome is the terminal result of one follower item of a run.
type Outcome struct {
	FollowerID    int64              `json:"follower_id"`
	Quantity      int64              `json:"quantity"`
	Status        models.OrderStatus `json:"status"`
	BrokerOrderID string             `json:"broker_order_id,omitempty"`
	Reason        string             `json:"reason,omitempty"`
	Message       string             `json:"message,omitempty"`
	LatencyMs     float64            `json:"latency_ms"`
}

type ReplicationResult struct {
	RunID                string  `json:"run_id"`
	MasterOrderID        int64   `json:"master_order_id"`
	TotalFollowers       int     `json:"total_followers"`
	SuccessCount         int     `json:"success_count"`
	FailedCount          int     `json:"failed_count"`
	RejectedCount        int     `json:"rejected_count"`
	SkippedCount         int     `json:"skipped_count"`
	AvgLatencyMs         float64 `json:"avg_latency_ms"`
	TotalDurationMs      float64 `json:"total_duration_ms"`
	SucceededFollowerIDs []int64 `json:"succeeded_follower_ids"`
	FailedFollowerIDs    []int64 `json:"failed_follower_ids"`
}

// ReplicationEvent is handed to the notifier once per run.
type ReplicationEvent struct {
	MasterID      int64              `json:"master_id"`
	MasterOrderID int64              `json:"master_order_id"`
	Symbol        string             `json:"symbol"`
	Side          models.Side        `json:"side"`
	Quantity      int64              `json:"quantity"`
	Result        *ReplicationResult `json:"result"`
	Outcomes      []Outcome          `json:"outcomes"`
}

// Message is the envelope pushed to user websocket connections.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	MessageReplicationComplete = "replication_complete"
	MessageOrderReplicated     = "order_replicated"
	MessageOrderUpdate         = "order_update"
)
