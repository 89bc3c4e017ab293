package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	httpApi "copytrading/internal/api/http"
	"copytrading/internal/broker"
	"copytrading/internal/controllers"
	mongoRepo "copytrading/internal/repository/mongo"
	"copytrading/internal/repository/postgres"
	redisRepo "copytrading/internal/repository/redis"
	"copytrading/internal/usecasees"
	"copytrading/internal/ws"
)

func main() {
	var app App
	var confFileName string

	flag.StringVar(&confFileName, "config", ".env", "")
	flag.StringVar(&app.Name, "name", "copytrading", "")
	flag.Parse()

	app.initLogger()

	if err := app.loadConfig(confFileName); err != nil {
		app.Logger.WithError(err).Fatal("load config")
	}
	app.setLogLevel()

	if app.Config.LokiAddr != "" {
		if err := app.initLoki(); err != nil {
			app.Logger.WithError(err).Error("loki unavailable, logging locally only")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.initDB(app.Config.DB); err != nil {
		app.Logger.WithError(err).Fatal("connect postgres")
	}

	if err := app.initRedis(app.Config.Redis); err != nil {
		app.Logger.WithError(err).Fatal("connect redis")
	}

	if app.Config.Mongo != nil {
		if err := app.initMongo(); err != nil {
			app.Logger.WithError(err).Fatal("connect mongo")
		}
		if err := app.applySettings(ctx, mongoRepo.NewSettingsRepository(app.Mongo)); err != nil {
			app.Logger.WithError(err).Error("replication settings unavailable, using env")
		}
	}

	app.initHTTPClient()
	app.initMetrics()

	orderRepo := postgres.NewOrderRepository(app.DB)
	userRepo := postgres.NewUserRepository(app.DB)
	relationshipRepo := postgres.NewRelationshipRepository(app.DB)
	metricsRepo := postgres.NewMetricsRepository(app.DB)
	scripRepo := postgres.NewScripRepository(app.DB)
	priceRepo := postgres.NewPriceRepository(app.DB)

	lossRepo := redisRepo.NewLossRepository(app.Redis)
	priceCache := redisRepo.NewPriceCache(app.Redis, app.Config.Replication.PriceCacheTTL)

	clientController := controllers.NewClientController(
		app.HTTPClient,
		app.Config.Broker.SubscriptionKey,
		app.Logger,
	)
	cryptoController := controllers.NewCryptoController(
		app.Config.Broker.SecretKey,
	)

	session, err := broker.NewSession(
		clientController,
		cryptoController,
		broker.Credentials{
			UserID:   app.Config.Broker.UserID,
			Password: app.Config.Broker.Password,
			APIKey:   app.Config.Broker.ApiKey,
		},
		broker.Config{
			BaseURL:            app.Config.Broker.BaseURL,
			MinRequestInterval: app.Config.Broker.MinRequestInterval,
		},
		app.Logger,
	)
	if err != nil {
		app.Logger.WithError(err).Fatal("broker session")
	}

	hub := ws.NewHub(app.Logger)

	// absent sinks stay untyped nil so the notifier can skip them
	var tgmController controllers.TgmCtrl
	var tgm *controllers.TgmController
	if app.Config.TelegramApiToken != "" {
		if err := app.initTgBot(); err != nil {
			app.Logger.WithError(err).Error("telegram unavailable")
		} else {
			tgm = controllers.NewTgmController(app.TGM, app.Config.TelegramChatID)
			tgmController = tgm
		}
	}

	var publisher controllers.PublisherCtrl
	if app.Config.Kafka != nil {
		app.initKafka()
		publisher = app.Kafka
	}

	scrips := usecasees.NewScripResolver(scripRepo, app.Logger)
	priceUseCase := usecasees.NewPriceUseCase(priceRepo, priceCache, app.Logger)
	notifyUseCase := usecasees.NewNotifyUseCase(hub, tgmController, publisher, app.Logger)

	replicationUseCase := usecasees.NewReplicationUseCase(
		usecasees.NewFollowerResolver(relationshipRepo, app.Logger),
		scrips,
		orderRepo,
		metricsRepo,
		lossRepo,
		priceUseCase,
		session,
		notifyUseCase,
		app.Metrics,
		usecasees.ReplicationConfig{
			MaxConcurrentOrders: app.Config.Replication.MaxConcurrentOrders,
			OrderTimeout:        app.Config.Replication.OrderTimeout,
			EnforceRiskLimits:   app.Config.Replication.EnforceRiskLimits,
		},
		app.Logger,
	)

	queue := usecasees.NewReplicationQueue(
		replicationUseCase,
		app.Config.Replication.QueueSize,
		app.Config.Replication.Workers,
		app.Metrics,
		app.Logger,
	)

	orderUseCase := usecasees.NewOrderUseCase(
		userRepo,
		orderRepo,
		metricsRepo,
		scrips,
		session,
		priceUseCase,
		notifyUseCase,
		queue,
		app.Logger,
	)

	if err := app.initCron(ctx, session); err != nil {
		app.Logger.WithError(err).Fatal("cron")
	}

	f := fiber.New(fiber.Config{DisableStartupMessage: true})
	httpApi.NewMiddleware(f, app.Name, app.Registry, app.Logger).Register()
	httpApi.RegisterHTTPEndpoints(f, httpApi.NewHandler(orderUseCase, priceUseCase, hub, app.Logger))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return queue.Run(gCtx)
	})

	g.Go(func() error {
		app.Logger.WithField("addr", app.Config.HTTPAddr).Info("http server started")
		return f.Listen(app.Config.HTTPAddr)
	})

	g.Go(func() error {
		<-gCtx.Done()
		return f.Shutdown()
	})

	if tgm != nil {
		tgmUseCase := usecasees.NewTgmUseCase(metricsRepo, lossRepo, queue, tgm, app.Logger)
		g.Go(func() error {
			tgmUseCase.CommandProcessor(gCtx, tgm.GetUpdates())
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			tgm.StopUpdates()
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		app.Logger.WithError(err).Error("service stopped")
	}

	hub.Close()
	app.close()
}

func (a *App) close() {
	<-a.Cron.Stop().Done()

	if a.Kafka != nil {
		if err := a.Kafka.Close(); err != nil {
			a.Logger.WithError(err).Error("close kafka writer")
		}
	}

	if a.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Mongo.Disconnect(ctx); err != nil {
			a.Logger.WithError(err).Error("close mongo")
		}
	}

	if err := a.Redis.Close(); err != nil {
		a.Logger.WithError(err).Error("close redis")
	}

	if err := a.DB.Close(); err != nil {
		a.Logger.WithError(err).Error("close postgres")
	}

	a.Logger.Info("service stopped")

	if a.PromTail != nil {
		a.PromTail.Close()
	}
}
