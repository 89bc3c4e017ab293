package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"copytrading/internal/usecasees"
)

// initMetrics registers with the default registry, /metrics serves that one.
func (a *App) initMetrics() {
	a.Registry = prometheus.DefaultRegisterer
	a.Metrics = usecasees.NewMetrics(a.Registry)
}
