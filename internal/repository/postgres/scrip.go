package postgres

import (
	"context"

	"copytrading/models"

	"github.com/jmoiron/sqlx"
)

type ScripRepository struct {
	conn *sqlx.DB
}

func NewScripRepository(conn *sqlx.DB) ScripRepo {
	return &ScripRepository{
		conn: conn,
	}
}

func (r *ScripRepository) GetBySymbol(ctx context.Context, symbol string) (*models.ScripCode, error) {
	var out models.ScripCode

	if err := r.conn.QueryRowxContext(ctx, "SELECT * FROM scrip_codes WHERE symbol = $1 AND is_active LIMIT 1", symbol).StructScan(&out); err != nil {
		return nil, err
	}

	return &out, nil
}
