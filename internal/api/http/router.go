package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func RegisterHTTPEndpoints(f *fiber.App, h *Handler) {
	router := f.Group("api")
	router.Get("/healthcheck", h.HealthCheck)
	router.Post("/orders", h.PlaceOrder)
	router.Delete("/orders/:orderID", h.CancelOrder)
	router.Get("/replication/:orderID/metrics", h.ReplicationMetrics)
	router.Get("/replication/:orderID/orders", h.FollowerOrders)
	router.Post("/prices", h.RecordPrice)

	f.Get("/ws/:userID", h.Upgrade, websocket.New(h.Push))
}
