package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel string
	LokiAddr string
	HTTPAddr string

	TelegramApiToken string
	TelegramChatID   int64

	Broker      *Broker
	Replication *Replication
	DB          *DB
	Redis       *Redis
	Mongo       *Mongo
	Kafka       *Kafka
}

type Broker struct {
	Name               string
	BaseURL            string
	UserID             string
	Password           string
	ApiKey             string
	SecretKey          string
	SubscriptionKey    string
	MinRequestInterval time.Duration
	WarmupCron         string
}

type Replication struct {
	MaxConcurrentOrders int
	OrderTimeout        time.Duration
	EnforceRiskLimits   bool
	QueueSize           int
	Workers             int
	PriceCacheTTL       time.Duration
}

type DB struct {
	Host     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Mongo struct {
	Host     string
	User     string
	Password string
	DBName   string
}

type Kafka struct {
	Brokers []string
	Topic   string
}

var ErrEnvNotFound = errors.New("err env not found")

func (a *App) loadConfig(confFileName string) error {
	var cfg Config
	var broker Broker
	var db DB
	var err error

	// a missing file is fine when the environment is set by the runtime
	if err := godotenv.Load(confFileName); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg.LogLevel = cfg.get("LOG_LEVEL", "INFO")
	cfg.LokiAddr = cfg.get("LOKI_ADDR", "")
	cfg.HTTPAddr = cfg.get("HTTP_ADDR", ":8080")

	cfg.TelegramApiToken = cfg.get("TELEGRAM_API_TOKEN", "")
	if cfg.TelegramChatID, err = cfg.getInt64("TELEGRAM_CHAT_ID", 0); err != nil {
		return err
	}

	broker.Name = cfg.get("BROKER_NAME", "5paisa")
	if broker.BaseURL, err = cfg.set("BROKER_BASE_URL"); err != nil {
		return err
	}

	if broker.UserID, err = cfg.set("BROKER_USER_ID"); err != nil {
		return err
	}

	if broker.Password, err = cfg.set("BROKER_PASSWORD"); err != nil {
		return err
	}

	if broker.ApiKey, err = cfg.set("BROKER_API_KEY"); err != nil {
		return err
	}

	if broker.SecretKey, err = cfg.set("BROKER_SECRET_KEY"); err != nil {
		return err
	}

	broker.SubscriptionKey = cfg.get("BROKER_SUBSCRIPTION_KEY", "")
	broker.WarmupCron = cfg.get("BROKER_WARMUP_CRON", "45 8 * * 1-5")

	intervalMs, err := cfg.getInt("BROKER_MIN_REQUEST_INTERVAL_MS", 100)
	if err != nil {
		return err
	}
	broker.MinRequestInterval = time.Duration(intervalMs) * time.Millisecond

	if cfg.Replication, err = cfg.replication(); err != nil {
		return err
	}

	if db.Host, err = cfg.set("PG_HOST"); err != nil {
		return err
	}

	if db.User, err = cfg.set("PG_USER"); err != nil {
		return err
	}

	if db.Password, err = cfg.set("PG_PASSWORD"); err != nil {
		return err
	}

	if db.DBName, err = cfg.set("PG_DBNAME"); err != nil {
		return err
	}

	db.SSLMode = cfg.get("PG_SSL_MODE", "disable")

	redisDB, err := cfg.getInt("REDIS_DB", 0)
	if err != nil {
		return err
	}
	cfg.Redis = &Redis{
		Addr:     cfg.get("REDIS_ADDR", "localhost:6379"),
		Password: cfg.get("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	if host := cfg.get("MONGO_HOST", ""); host != "" {
		cfg.Mongo = &Mongo{
			Host:     host,
			User:     cfg.get("MONGO_USER", ""),
			Password: cfg.get("MONGO_PASSWORD", ""),
			DBName:   cfg.get("MONGO_DBNAME", "admin"),
		}
	}

	if brokers := cfg.get("KAFKA_BROKERS", ""); brokers != "" {
		cfg.Kafka = &Kafka{
			Brokers: strings.Split(brokers, ","),
			Topic:   cfg.get("KAFKA_TOPIC", "replication_events"),
		}
	}

	cfg.Broker = &broker
	cfg.DB = &db

	a.Config = &cfg

	return nil
}

func (c *Config) replication() (*Replication, error) {
	var r Replication
	var err error

	if r.MaxConcurrentOrders, err = c.getInt("MAX_CONCURRENT_ORDERS", 50); err != nil {
		return nil, err
	}

	timeout, err := c.getInt("ORDER_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	r.OrderTimeout = time.Duration(timeout) * time.Second

	if r.EnforceRiskLimits, err = strconv.ParseBool(c.get("ENFORCE_RISK_LIMITS", "true")); err != nil {
		return nil, fmt.Errorf("ENFORCE_RISK_LIMITS: %w", err)
	}

	if r.QueueSize, err = c.getInt("REPLICATION_QUEUE_SIZE", 1024); err != nil {
		return nil, err
	}

	if r.Workers, err = c.getInt("REPLICATION_WORKERS", 4); err != nil {
		return nil, err
	}

	ttl, err := c.getInt("PRICE_CACHE_TTL_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	r.PriceCacheTTL = time.Duration(ttl) * time.Second

	return &r, nil
}

func (d *DB) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.User,
		d.Password,
		d.DBName,
		d.SSLMode)
}

func (m *Mongo) DSN() string {
	return fmt.Sprintf("mongodb://%s", m.Host)
}

func (c *Config) set(key string) (string, error) {
	if os.Getenv(key) == "" {
		return "", fmt.Errorf("%w: %s", ErrEnvNotFound, key)
	}

	return os.Getenv(key), nil
}

func (c *Config) get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (c *Config) getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func (c *Config) getInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
