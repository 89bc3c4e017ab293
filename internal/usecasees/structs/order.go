package structs

import (
	"copytrading/models"

	"github.com/shopspring/decimal"
)

type PlaceOrderInput struct {
	UserID   int64               `json:"user_id"`
	Symbol   string              `json:"symbol"`
	Side     models.Side         `json:"side"`
	Type     models.OrderType    `json:"order_type"`
	Quantity int64               `json:"quantity"`
	Price    decimal.NullDecimal `json:"price"`
}

type OrderUpdate struct {
	OrderID  int64              `json:"order_id"`
	Status   models.OrderStatus `json:"status"`
	Symbol   string             `json:"symbol"`
	Quantity int64              `json:"quantity"`
	Error    string             `json:"error,omitempty"`
}
