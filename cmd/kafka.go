package main

import (
	"copytrading/internal/controllers"
)

func (a *App) initKafka() {
	a.Kafka = controllers.NewKafkaController(a.Config.Kafka.Brokers, a.Config.Kafka.Topic)
}
