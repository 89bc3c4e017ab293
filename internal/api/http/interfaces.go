package http

import (
	"context"

	"copytrading/internal/usecasees"
	"copytrading/internal/usecasees/structs"
	"copytrading/internal/ws"
	"copytrading/models"

	"github.com/shopspring/decimal"
)

type OrderService interface {
	PlaceMasterOrder(ctx context.Context, in *structs.PlaceOrderInput) (*models.Order, error)
	GetReplicationStatus(ctx context.Context, masterOrderID int64) (*usecasees.ReplicationStatus, error)
	GetFollowerOrders(ctx context.Context, masterOrderID int64) ([]models.Order, error)
	CancelOrder(ctx context.Context, orderID int64) (*models.Order, error)
}

type PriceService interface {
	Record(ctx context.Context, symbol string, price decimal.Decimal) error
}

type ConnRegistry interface {
	Register(userID int64, conn ws.Conn) func()
}
