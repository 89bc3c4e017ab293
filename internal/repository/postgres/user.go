package postgres

import (
	"context"

	"copytrading/models"

	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	conn *sqlx.DB
}

func NewUserRepository(conn *sqlx.DB) UserRepo {
	return &UserRepository{
		conn: conn,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User

	if err := r.conn.QueryRowxContext(ctx, "SELECT * FROM users WHERE id = $1", id).StructScan(&u); err != nil {
		return nil, err
	}

	return &u, nil
}
