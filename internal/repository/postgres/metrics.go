package postgres

import (
	"context"
	"errors"

	"copytrading/models"

	"github.com/jmoiron/sqlx"
)

// ErrMetricsExist is returned by Store when the master order already has
// its metrics row.
var ErrMetricsExist = errors.New("replication metrics already stored")

type MetricsRepository struct {
	conn *sqlx.DB
}

func NewMetricsRepository(conn *sqlx.DB) MetricsRepo {
	return &MetricsRepository{
		conn: conn,
	}
}

func (r *MetricsRepository) Store(ctx context.Context, m *models.ReplicationMetrics) error {
	res, err := r.conn.NamedExecContext(ctx, "INSERT INTO replication_metrics (master_order_id,total_followers,successful_replications,failed_replications,average_latency_ms,total_replication_time_ms) VALUES (:master_order_id,:total_followers,:successful_replications,:failed_replications,:average_latency_ms,:total_replication_time_ms) ON CONFLICT (master_order_id) DO NOTHING", m)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMetricsExist
	}

	return nil
}

func (r *MetricsRepository) GetByMasterOrderID(ctx context.Context, masterOrderID int64) (*models.ReplicationMetrics, error) {
	var m models.ReplicationMetrics

	if err := r.conn.QueryRowxContext(ctx, "SELECT * FROM replication_metrics WHERE master_order_id = $1 LIMIT 1", masterOrderID).StructScan(&m); err != nil {
		return nil, err
	}

	return &m, nil
}
