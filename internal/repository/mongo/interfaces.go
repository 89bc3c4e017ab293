package mongo

import (
	"context"

	"copytrading/internal/repository/mongo/structs"
)

//go:generate mockery --case=snake --name=SettingsRepo

type SettingsRepo interface {
	SetDefault(ctx context.Context, defaults structs.Settings) (*structs.Settings, error)
	Load(ctx context.Context, broker string) (*structs.Settings, error)
}
