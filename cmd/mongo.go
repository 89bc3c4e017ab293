package main

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongoRepo "copytrading/internal/repository/mongo"
	"copytrading/internal/repository/mongo/structs"
)

func (a *App) initMongo() error {
	credential := options.Credential{
		AuthSource: a.Config.Mongo.DBName,
		Username:   a.Config.Mongo.User,
		Password:   a.Config.Mongo.Password,
	}

	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(a.Config.Mongo.DSN()).SetAuth(credential))
	if err != nil {
		return err
	}

	a.Mongo = client

	return nil
}

// applySettings seeds the broker's replication settings from env on first
// start and afterwards lets the stored document win.
func (a *App) applySettings(ctx context.Context, repo mongoRepo.SettingsRepo) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	r := a.Config.Replication

	settings, err := repo.SetDefault(ctx, structs.Settings{
		Broker:               a.Config.Broker.Name,
		MaxConcurrentOrders:  r.MaxConcurrentOrders,
		OrderTimeoutSeconds:  int(r.OrderTimeout / time.Second),
		MinRequestIntervalMs: int(a.Config.Broker.MinRequestInterval / time.Millisecond),
		EnforceRiskLimits:    r.EnforceRiskLimits,
	})
	if err != nil {
		return err
	}

	if settings.MaxConcurrentOrders > 0 {
		r.MaxConcurrentOrders = settings.MaxConcurrentOrders
	}
	if d := settings.OrderTimeout(); d > 0 {
		r.OrderTimeout = d
	}
	if d := settings.MinRequestInterval(); d > 0 {
		a.Config.Broker.MinRequestInterval = d
	}
	r.EnforceRiskLimits = settings.EnforceRiskLimits

	a.Logger.
		WithField("broker", settings.Broker).
		WithField("maxConcurrentOrders", r.MaxConcurrentOrders).
		WithField("orderTimeout", r.OrderTimeout).
		WithField("enforceRiskLimits", r.EnforceRiskLimits).
		Info("replication settings loaded")

	return nil
}
