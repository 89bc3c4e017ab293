package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

type OrderType string

const (
	OrderTypeMarket     OrderType = "MARKET"
	OrderTypeLimit      OrderType = "LIMIT"
	OrderTypeStop       OrderType = "STOP"
	OrderTypeStopMarket OrderType = "STOP_MARKET"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeMarket, OrderTypeLimit, OrderTypeStop, OrderTypeStopMarket:
		return true
	}
	return false
}

// Priced reports whether orders of this type carry their own limit price.
func (t OrderType) Priced() bool {
	return t == OrderTypeLimit || t == OrderTypeStop
}

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "PENDING"
	OrderStatusRiskChecked     OrderStatus = "RISK_CHECKED"
	OrderStatusSubmitted       OrderStatus = "SUBMITTED"
	OrderStatusFilled          OrderStatus = "FILLED"
	OrderStatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	OrderStatusRejected        OrderStatus = "REJECTED"
	OrderStatusFailed          OrderStatus = "FAILED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
)

func (s OrderStatus) ToString() string {
	return string(s)
}

// Terminal reports whether a follower order in this status is final for a
// replication run. SUBMITTED is final from the engine's point of view.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusSubmitted,
		OrderStatusFilled,
		OrderStatusPartiallyFilled,
		OrderStatusRejected,
		OrderStatusFailed,
		OrderStatusCancelled:
		return true
	}
	return false
}

// Cancellable reports whether a manual cancellation may still move the
// order to CANCELLED.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusSubmitted
}

// Succeeded reports whether the order reached the broker and was accepted.
func (s OrderStatus) Succeeded() bool {
	return s == OrderStatusSubmitted || s == OrderStatusFilled || s == OrderStatusPartiallyFilled
}

type Order struct {
	ID                   int64               `db:"id"`
	UserID               int64               `db:"user_id"`
	MasterOrderID        sql.NullInt64       `db:"master_order_id"`
	IsMasterOrder        bool                `db:"is_master_order"`
	Symbol               string              `db:"symbol"`
	Side                 Side                `db:"side"`
	Type                 OrderType           `db:"order_type"`
	Quantity             int64               `db:"quantity"`
	Price                decimal.NullDecimal `db:"price"`
	FilledQuantity       int64               `db:"filled_quantity"`
	Status               OrderStatus         `db:"status"`
	BrokerOrderID        sql.NullString      `db:"broker_order_id"`
	ErrorMessage         sql.NullString      `db:"error_message"`
	ReplicationLatencyMs sql.NullInt64       `db:"replication_latency_ms"`
	CreatedAt            time.Time           `db:"created_at"`
}

// LimitPrice returns the order's own price when the order type carries one.
func (o *Order) LimitPrice() (decimal.Decimal, bool) {
	if !o.Type.Priced() || !o.Price.Valid || !o.Price.Decimal.IsPositive() {
		return decimal.Zero, false
	}
	return o.Price.Decimal, true
}
