package usecasees

import (
	"context"

	"copytrading/internal/broker"
	"copytrading/internal/usecasees/structs"
	"copytrading/models"

	"github.com/shopspring/decimal"
)

//go:generate mockery --case=snake --name=OrderPlacer
//go:generate mockery --case=snake --name=Notifier
//go:generate mockery --case=snake --name=PriceReader
//go:generate mockery --case=snake --name=Replicator
//go:generate mockery --case=snake --name=Enqueuer
//go:generate mockery --case=snake --name=UserPusher

// OrderPlacer is the brokerage session as seen by the engine.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req *broker.PlaceOrderRequest) (*broker.PlaceResult, error)
}

type Notifier interface {
	Publish(ctx context.Context, event *structs.ReplicationEvent) error
	NotifyOrderUpdate(ctx context.Context, userID int64, update *structs.OrderUpdate) error
}

type PriceReader interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, bool, error)
}

type Replicator interface {
	Replicate(ctx context.Context, master *models.Order) (*structs.ReplicationResult, error)
}

type Enqueuer interface {
	Enqueue(master *models.Order) error
}

// UserPusher delivers a payload to every live connection of a user.
type UserPusher interface {
	Send(userID int64, payload []byte) (int, error)
}
