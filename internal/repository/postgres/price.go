package postgres

import (
	"context"

	"copytrading/models"

	"github.com/jmoiron/sqlx"
)

type PriceRepository struct {
	conn *sqlx.DB
}

func NewPriceRepository(conn *sqlx.DB) PriceRepo {
	return &PriceRepository{
		conn: conn,
	}
}

func (r *PriceRepository) Store(ctx context.Context, m *models.Price) error {
	if _, err := r.conn.NamedExecContext(ctx, "INSERT INTO prices (symbol,price) VALUES (:symbol,:price)", m); err != nil {
		return err
	}

	return nil
}

// GetLast returns the most recent observed price of symbol.
func (r *PriceRepository) GetLast(ctx context.Context, symbol string) (*models.Price, error) {
	var price models.Price
	if err := r.conn.QueryRowxContext(ctx, "SELECT * FROM prices WHERE symbol = $1 ORDER BY id DESC LIMIT 1", symbol).StructScan(&price); err != nil {
		return nil, err
	}

	return &price, nil
}
