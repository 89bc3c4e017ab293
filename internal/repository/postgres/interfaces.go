package postgres

import (
	"context"

	"copytrading/models"
)

//go:generate mockery --case=snake --name=OrderRepo
//go:generate mockery --case=snake --name=RelationshipRepo
//go:generate mockery --case=snake --name=MetricsRepo
//go:generate mockery --case=snake --name=ScripRepo
//go:generate mockery --case=snake --name=PriceRepo
//go:generate mockery --case=snake --name=UserRepo

type OrderRepo interface {
	Store(ctx context.Context, m *models.Order) (int64, error)
	ClaimFollowerOrders(ctx context.Context, master *models.Order, followerIDs []int64) (map[int64]int64, error)
	CompleteFollowerOrder(ctx context.Context, m *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	GetFollowerOrders(ctx context.Context, masterOrderID int64) ([]models.Order, error)
	SetStatus(ctx context.Context, id int64, status models.OrderStatus, brokerOrderID, errMsg string) error
	Cancel(ctx context.Context, id int64) (bool, error)
}

type RelationshipRepo interface {
	ListActiveFollowers(ctx context.Context, masterID int64) ([]models.FollowerRelationship, error)
}

type MetricsRepo interface {
	Store(ctx context.Context, m *models.ReplicationMetrics) error
	GetByMasterOrderID(ctx context.Context, masterOrderID int64) (*models.ReplicationMetrics, error)
}

type ScripRepo interface {
	GetBySymbol(ctx context.Context, symbol string) (*models.ScripCode, error)
}

type PriceRepo interface {
	Store(ctx context.Context, m *models.Price) error
	GetLast(ctx context.Context, symbol string) (*models.Price, error)
}

type UserRepo interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
