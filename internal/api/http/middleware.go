package http

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type Middleware struct {
	appName  string
	fiber    *fiber.App
	registry prometheus.Registerer
	logger   *logrus.Logger
}

func NewMiddleware(fiber *fiber.App, appName string, registry prometheus.Registerer, logger *logrus.Logger) *Middleware {
	return &Middleware{
		appName:  appName,
		fiber:    fiber,
		registry: registry,
		logger:   logger,
	}
}

func (m *Middleware) Register() {
	m.useMetrics()
	m.useAccessLog()
}

func (m *Middleware) useMetrics() {
	prometheus := fiberprometheus.NewWithRegistry(m.registry, m.appName, "http", "", nil)
	prometheus.RegisterAt(m.fiber, "/metrics")
	m.fiber.Use(prometheus.Middleware)
}

func (m *Middleware) useAccessLog() {
	m.fiber.Use(func(c *fiber.Ctx) error {
		err := c.Next()

		m.logger.
			WithField("method", c.Method()).
			WithField("path", c.Path()).
			WithField("status", c.Response().StatusCode()).
			Debug("http request")

		return err
	})
}
