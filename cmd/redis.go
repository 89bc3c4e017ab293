package main

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func (a *App) initRedis(cfg *Redis) error {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}

	a.Redis = client

	return nil
}
