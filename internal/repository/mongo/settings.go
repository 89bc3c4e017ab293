package mongo

import (
	"context"
	"errors"
	"time"

	"copytrading/internal/repository/mongo/structs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type SettingsRepository struct {
	conn       *mongo.Client
	collection *mongo.Collection
}

func NewSettingsRepository(conn *mongo.Client) *SettingsRepository {
	collection := conn.Database("settings").Collection("replication")

	return &SettingsRepository{conn: conn, collection: collection}
}

// SetDefault stores defaults for their broker unless a document exists
// already, and returns whatever is stored afterwards.
func (r *SettingsRepository) SetDefault(ctx context.Context, defaults structs.Settings) (*structs.Settings, error) {
	check, err := r.Load(ctx, defaults.Broker)
	if err == nil {
		return check, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	defaults.UpdatedAt = time.Now().UTC()

	res, err := r.collection.InsertOne(ctx, defaults)
	if err != nil {
		return nil, err
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		defaults.ID = id
	}

	return &defaults, nil
}

func (r *SettingsRepository) Load(ctx context.Context, broker string) (*structs.Settings, error) {
	var result structs.Settings

	if err := r.collection.FindOne(ctx, bson.D{{Key: "broker", Value: broker}}).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}
