package usecasees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"copytrading/internal/broker"
	"copytrading/internal/repository/postgres"
	"copytrading/internal/usecasees/structs"
	"copytrading/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidOrder     = errors.New("invalid order")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserInactive     = errors.New("user is inactive")
	ErrAccountNotLinked = errors.New("broker account not linked")
	ErrOrderFailed      = errors.New("order placement failed")
	ErrOrderNotFound    = errors.New("order not found")
	ErrNotCancellable   = errors.New("order cannot be cancelled")
)

type PriceRecorder interface {
	Record(ctx context.Context, symbol string, price decimal.Decimal) error
}

type orderUseCase struct {
	userRepo    postgres.UserRepo
	orderRepo   postgres.OrderRepo
	metricsRepo postgres.MetricsRepo
	scrips      *scripResolver

	placer   OrderPlacer
	prices   PriceRecorder
	notifier Notifier
	queue    Enqueuer

	logger *logrus.Logger
}

func NewOrderUseCase(
	userRepo postgres.UserRepo,
	orderRepo postgres.OrderRepo,
	metricsRepo postgres.MetricsRepo,
	scrips *scripResolver,
	placer OrderPlacer,
	prices PriceRecorder,
	notifier Notifier,
	queue Enqueuer,
	logger *logrus.Logger,
) *orderUseCase {
	return &orderUseCase{
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		metricsRepo: metricsRepo,
		scrips:      scrips,
		placer:      placer,
		prices:      prices,
		notifier:    notifier,
		queue:       queue,
		logger:      logger,
	}
}

func validateInput(in *structs.PlaceOrderInput) error {
	switch {
	case strings.TrimSpace(in.Symbol) == "":
		return fmt.Errorf("%w: missing symbol", ErrInvalidOrder)
	case !in.Side.Valid():
		return fmt.Errorf("%w: side %q", ErrInvalidOrder, in.Side)
	case !in.Type.Valid():
		return fmt.Errorf("%w: order type %q", ErrInvalidOrder, in.Type)
	case in.Quantity <= 0:
		return fmt.Errorf("%w: quantity %d", ErrInvalidOrder, in.Quantity)
	case in.Type.Priced() && (!in.Price.Valid || !in.Price.Decimal.IsPositive()):
		return fmt.Errorf("%w: %s order needs a price", ErrInvalidOrder, in.Type)
	}
	return nil
}

// PlaceMasterOrder places the user's own order and, once it is committed
// with its final status, hands master orders over to replication. The
// returned order carries that status even when err is ErrOrderFailed.
func (u *orderUseCase) PlaceMasterOrder(ctx context.Context, in *structs.PlaceOrderInput) (*models.Order, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, in.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", in.UserID, err)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.BrokerAccountID == "" {
		return nil, ErrAccountNotLinked
	}

	order := &models.Order{
		UserID:        user.ID,
		IsMasterOrder: user.IsMaster(),
		Symbol:        strings.ToUpper(in.Symbol),
		Side:          in.Side,
		Type:          in.Type,
		Quantity:      in.Quantity,
		Price:         in.Price,
		Status:        models.OrderStatusPending,
	}
	if !in.Type.Priced() {
		order.Price = decimal.NullDecimal{}
	}

	if _, err := u.orderRepo.Store(ctx, order); err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}

	log := u.logger.WithField("orderID", order.ID).WithField("userID", user.ID)

	scrip := u.scrips.Resolve(ctx, order.Symbol)
	price, _ := order.LimitPrice()

	res, placeErr := u.placer.PlaceOrder(ctx, &broker.PlaceOrderRequest{
		AccountRef:    user.BrokerAccountID,
		Symbol:        order.Symbol,
		ScripCode:     scrip.ScripCode,
		Exchange:      scrip.Exchange,
		ExchangeType:  scrip.ExchangeType,
		Side:          order.Side,
		Quantity:      order.Quantity,
		Price:         price,
		Type:          order.Type,
		RemoteOrderID: fmt.Sprintf("M%d", order.ID),
	})

	// the outcome is persisted even when the caller went away meanwhile
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	if placeErr != nil {
		order.Status = models.OrderStatusFailed
		order.ErrorMessage = sql.NullString{String: placeErr.Error(), Valid: true}

		if err := u.orderRepo.SetStatus(storeCtx, order.ID, order.Status, "", placeErr.Error()); err != nil {
			log.WithError(err).Error("store order failure")
		}

		u.notifyUpdate(storeCtx, log, order)

		log.WithError(placeErr).Warn("order placement failed")

		return order, fmt.Errorf("%w: %v", ErrOrderFailed, placeErr)
	}

	order.Status = brokerStatus(res.Status)
	order.BrokerOrderID = sql.NullString{String: res.BrokerOrderID, Valid: res.BrokerOrderID != ""}

	if err := u.orderRepo.SetStatus(storeCtx, order.ID, order.Status, res.BrokerOrderID, ""); err != nil {
		// replication of an order whose status is not committed is skipped
		log.WithError(err).Error("store order status")
		return order, fmt.Errorf("store order status: %w", err)
	}

	if price.IsPositive() {
		if err := u.prices.Record(storeCtx, order.Symbol, price); err != nil {
			log.WithError(err).Warn("record observed price")
		}
	}

	u.notifyUpdate(storeCtx, log, order)

	if order.IsMasterOrder {
		if err := u.queue.Enqueue(order); err != nil {
			log.WithError(err).Error("enqueue replication")
		}
	}

	log.
		WithField("brokerOrderID", res.BrokerOrderID).
		WithField("master", order.IsMasterOrder).
		Info("order placed")

	return order, nil
}

// CancelOrder moves a PENDING or SUBMITTED order to CANCELLED and pushes
// the update to its owner.
func (u *orderUseCase) CancelOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}
	if !order.Status.Cancellable() {
		return nil, fmt.Errorf("%w: status %s", ErrNotCancellable, order.Status)
	}

	cancelled, err := u.orderRepo.Cancel(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cancel order %d: %w", orderID, err)
	}
	if !cancelled {
		// the status moved on between the read and the update
		return nil, ErrNotCancellable
	}

	order.Status = models.OrderStatusCancelled

	log := u.logger.WithField("orderID", order.ID).WithField("userID", order.UserID)

	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	u.notifyUpdate(storeCtx, log, order)

	log.Info("order cancelled")

	return order, nil
}

func (u *orderUseCase) notifyUpdate(ctx context.Context, log *logrus.Entry, order *models.Order) {
	update := &structs.OrderUpdate{
		OrderID:  order.ID,
		Status:   order.Status,
		Symbol:   order.Symbol,
		Quantity: order.Quantity,
		Error:    order.ErrorMessage.String,
	}

	if err := u.notifier.NotifyOrderUpdate(ctx, order.UserID, update); err != nil {
		log.WithError(err).Warn("order update notification")
	}
}

// ReplicationStatus is the stored outcome of replicating one master order.
type ReplicationStatus struct {
	MasterOrderID          int64   `json:"master_order_id"`
	TotalFollowers         int     `json:"total_followers"`
	SuccessfulReplications int     `json:"successful_replications"`
	FailedReplications     int     `json:"failed_replications"`
	SuccessRate            float64 `json:"success_rate"`
	AverageLatencyMs       float64 `json:"average_latency_ms"`
	TotalReplicationTimeMs float64 `json:"total_replication_time_ms"`
	ReplicationComplete    bool    `json:"replication_complete"`
}

func (u *orderUseCase) GetReplicationStatus(ctx context.Context, masterOrderID int64) (*ReplicationStatus, error) {
	m, err := u.metricsRepo.GetByMasterOrderID(ctx, masterOrderID)
	if errors.Is(err, sql.ErrNoRows) {
		return &ReplicationStatus{MasterOrderID: masterOrderID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load replication metrics: %w", err)
	}

	return &ReplicationStatus{
		MasterOrderID:          m.MasterOrderID,
		TotalFollowers:         m.TotalFollowers,
		SuccessfulReplications: m.SuccessfulReplications,
		FailedReplications:     m.FailedReplications,
		SuccessRate:            m.SuccessRate(),
		AverageLatencyMs:       m.AverageLatencyMs.InexactFloat64(),
		TotalReplicationTimeMs: m.TotalReplicationTimeMs.InexactFloat64(),
		ReplicationComplete:    true,
	}, nil
}

func (u *orderUseCase) GetFollowerOrders(ctx context.Context, masterOrderID int64) ([]models.Order, error) {
	if _, err := u.orderRepo.GetByID(ctx, masterOrderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order %d: %w", masterOrderID, err)
	}

	orders, err := u.orderRepo.GetFollowerOrders(ctx, masterOrderID)
	if err != nil {
		return nil, fmt.Errorf("load follower orders of %d: %w", masterOrderID, err)
	}

	return orders, nil
}
