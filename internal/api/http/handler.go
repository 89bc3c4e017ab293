package http

import (
	"errors"
	"strconv"
	"time"

	"copytrading/internal/usecasees"
	"copytrading/internal/usecasees/structs"
	"copytrading/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	orders OrderService
	prices PriceService
	conns  ConnRegistry
	logger *logrus.Logger
}

func NewHandler(orders OrderService, prices PriceService, conns ConnRegistry, l *logrus.Logger) *Handler {
	return &Handler{
		orders: orders,
		prices: prices,
		conns:  conns,
		logger: l,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type orderResponse struct {
	ID                   int64               `json:"id"`
	UserID               int64               `json:"user_id"`
	MasterOrderID        *int64              `json:"master_order_id,omitempty"`
	IsMasterOrder        bool                `json:"is_master_order"`
	Symbol               string              `json:"symbol"`
	Side                 models.Side         `json:"side"`
	Type                 models.OrderType    `json:"order_type"`
	Quantity             int64               `json:"quantity"`
	Price                decimal.NullDecimal `json:"price"`
	Status               models.OrderStatus  `json:"status"`
	BrokerOrderID        string              `json:"broker_order_id,omitempty"`
	ErrorMessage         string              `json:"error_message,omitempty"`
	ReplicationLatencyMs *int64              `json:"replication_latency_ms,omitempty"`
	CreatedAt            *time.Time          `json:"created_at,omitempty"`
}

func newOrderResponse(o *models.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		IsMasterOrder: o.IsMasterOrder,
		Symbol:        o.Symbol,
		Side:          o.Side,
		Type:          o.Type,
		Quantity:      o.Quantity,
		Price:         o.Price,
		Status:        o.Status,
		BrokerOrderID: o.BrokerOrderID.String,
		ErrorMessage:  o.ErrorMessage.String,
	}
	if o.MasterOrderID.Valid {
		resp.MasterOrderID = &o.MasterOrderID.Int64
	}
	if o.ReplicationLatencyMs.Valid {
		resp.ReplicationLatencyMs = &o.ReplicationLatencyMs.Int64
	}
	if !o.CreatedAt.IsZero() {
		resp.CreatedAt = &o.CreatedAt
	}
	return resp
}

func fail(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(errorResponse{Error: err.Error()})
}

func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	body := struct {
		Status bool `json:"status"`
	}{
		Status: true,
	}

	if err := c.JSON(body); err != nil {
		return err
	}

	return nil
}

func (h *Handler) PlaceOrder(c *fiber.Ctx) error {
	var in structs.PlaceOrderInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}

	order, err := h.orders.PlaceMasterOrder(c.UserContext(), &in)
	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(newOrderResponse(order))
	case errors.Is(err, usecasees.ErrInvalidOrder), errors.Is(err, usecasees.ErrAccountNotLinked):
		return fail(c, fiber.StatusBadRequest, err)
	case errors.Is(err, usecasees.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, err)
	case errors.Is(err, usecasees.ErrUserInactive):
		return fail(c, fiber.StatusForbidden, err)
	case errors.Is(err, usecasees.ErrOrderFailed) && order != nil:
		return c.Status(fiber.StatusBadGateway).JSON(newOrderResponse(order))
	}

	h.logger.WithError(err).WithField("userID", in.UserID).Error("place order")

	return fail(c, fiber.StatusInternalServerError, err)
}

func (h *Handler) CancelOrder(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("orderID"), 10, 64)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}

	_, err = h.orders.CancelOrder(c.UserContext(), id)
	switch {
	case err == nil:
		return c.SendStatus(fiber.StatusNoContent)
	case errors.Is(err, usecasees.ErrOrderNotFound):
		return fail(c, fiber.StatusNotFound, err)
	case errors.Is(err, usecasees.ErrNotCancellable):
		return fail(c, fiber.StatusBadRequest, err)
	}

	h.logger.WithError(err).WithField("orderID", id).Error("cancel order")

	return fail(c, fiber.StatusInternalServerError, err)
}

func (h *Handler) ReplicationMetrics(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("orderID"), 10, 64)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}

	status, err := h.orders.GetReplicationStatus(c.UserContext(), id)
	if err != nil {
		h.logger.WithError(err).WithField("masterOrderID", id).Error("replication metrics")
		return fail(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(status)
}

func (h *Handler) FollowerOrders(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("orderID"), 10, 64)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}

	orders, err := h.orders.GetFollowerOrders(c.UserContext(), id)
	if errors.Is(err, usecasees.ErrOrderNotFound) {
		return fail(c, fiber.StatusNotFound, err)
	}
	if err != nil {
		h.logger.WithError(err).WithField("masterOrderID", id).Error("follower orders")
		return fail(c, fiber.StatusInternalServerError, err)
	}

	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, newOrderResponse(&orders[i]))
	}

	return c.JSON(resp)
}

type priceInput struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

func (h *Handler) RecordPrice(c *fiber.Ctx) error {
	var in priceInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}

	err := h.prices.Record(c.UserContext(), in.Symbol, in.Price)
	if errors.Is(err, usecasees.ErrInvalidPrice) {
		return fail(c, fiber.StatusBadRequest, err)
	}
	if err != nil {
		h.logger.WithError(err).WithField("symbol", in.Symbol).Error("record price")
		return fail(c, fiber.StatusInternalServerError, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Upgrade lets only websocket handshakes through to the push endpoint.
func (h *Handler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if _, err := strconv.ParseInt(c.Params("userID"), 10, 64); err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}
	return c.Next()
}

// Push keeps a user's connection registered until the peer goes away.
// Incoming frames are read and dropped.
func (h *Handler) Push(c *websocket.Conn) {
	userID, _ := strconv.ParseInt(c.Params("userID"), 10, 64)

	unregister := h.conns.Register(userID, c)
	defer unregister()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			h.logger.WithError(err).WithField("userID", userID).Debug("websocket closed")
			return
		}
	}
}
