package main

import (
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ic2hrmk/promtail"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"copytrading/internal/controllers"
	"copytrading/internal/usecasees"
)

type App struct {
	Name       string
	Config     *Config
	Logger     *logrus.Logger
	PromTail   promtail.Client
	HTTPClient *http.Client
	TGM        *tgbotapi.BotAPI
	DB         *sqlx.DB
	Redis      *goredis.Client
	Mongo      *mongo.Client
	Kafka      *controllers.KafkaController
	Registry   prometheus.Registerer
	Metrics    *usecasees.Metrics
	Cron       *cron.Cron
}
