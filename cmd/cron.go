package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"copytrading/internal/broker"
)

func (a *App) initCron(ctx context.Context, session *broker.Session) error {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		a.Logger.WithError(err).Warn("market time zone unavailable, cron runs in UTC")
		loc = time.UTC
	}

	a.Cron = cron.New(cron.WithLocation(loc))

	_, err = a.Cron.AddFunc(a.Config.Broker.WarmupCron, func() {
		warmCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		if err := session.Warm(warmCtx); err != nil {
			a.Logger.WithError(err).Error("broker session warm-up")
			return
		}
		a.Logger.WithField("logins", session.Logins()).Info("broker session warmed up")
	})
	if err != nil {
		return err
	}

	a.Cron.Start()

	return nil
}
