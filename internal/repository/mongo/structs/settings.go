package structs

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settings are the runtime replication knobs of one brokerage connection.
type Settings struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	Broker               string             `bson:"broker"`
	MaxConcurrentOrders  int                `bson:"max_concurrent_orders"`
	OrderTimeoutSeconds  int                `bson:"order_timeout_seconds"`
	MinRequestIntervalMs int                `bson:"min_request_interval_ms"`
	EnforceRiskLimits    bool               `bson:"enforce_risk_limits"`
	UpdatedAt            time.Time          `bson:"updated_at"`
}

func (s *Settings) OrderTimeout() time.Duration {
	return time.Duration(s.OrderTimeoutSeconds) * time.Second
}

func (s *Settings) MinRequestInterval() time.Duration {
	return time.Duration(s.MinRequestIntervalMs) * time.Millisecond
}
