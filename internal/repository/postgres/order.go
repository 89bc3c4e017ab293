package postgres

import (
	"context"
	"database/sql"

	"copytrading/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type OrderRepository struct {
	conn *sqlx.DB
}

func NewOrderRepository(conn *sqlx.DB) OrderRepo {
	return &OrderRepository{
		conn: conn,
	}
}

// Store inserts a master order and returns its id.
func (r *OrderRepository) Store(ctx context.Context, m *models.Order) (int64, error) {
	var id int64

	if err := r.conn.QueryRowxContext(ctx, "INSERT INTO orders (user_id,is_master_order,symbol,side,order_type,quantity,price,status) VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id",
		m.UserID,
		m.IsMasterOrder,
		m.Symbol,
		m.Side,
		m.Type,
		m.Quantity,
		m.Price,
		m.Status,
	).Scan(&id); err != nil {
		return 0, err
	}

	m.ID = id

	return id, nil
}

// ClaimFollowerOrders inserts a PENDING row for every follower of master in
// one statement. (master_order_id, user_id) is unique, followers that
// already have a row are left out of the returned followerID -> row id map.
func (r *OrderRepository) ClaimFollowerOrders(ctx context.Context, master *models.Order, followerIDs []int64) (map[int64]int64, error) {
	rows, err := r.conn.QueryxContext(ctx, "INSERT INTO orders (user_id,master_order_id,is_master_order,symbol,side,order_type,quantity,price,status) SELECT f.id, $2::bigint, false, $3::text, $4::text, $5::text, 0, $6::numeric, $7::text FROM unnest($1::bigint[]) AS f(id) ON CONFLICT (master_order_id, user_id) DO NOTHING RETURNING user_id, id",
		pq.Array(followerIDs),
		master.ID,
		master.Symbol,
		master.Side,
		master.Type,
		master.Price,
		models.OrderStatusPending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claimed := make(map[int64]int64, len(followerIDs))
	for rows.Next() {
		var userID, id int64
		if err := rows.Scan(&userID, &id); err != nil {
			return nil, err
		}
		claimed[userID] = id
	}

	return claimed, rows.Err()
}

// CompleteFollowerOrder writes the terminal state of a claimed follower row.
func (r *OrderRepository) CompleteFollowerOrder(ctx context.Context, m *models.Order) error {
	res, err := r.conn.NamedExecContext(ctx, "UPDATE orders SET quantity = :quantity, status = :status, broker_order_id = :broker_order_id, error_message = :error_message, replication_latency_ms = :replication_latency_ms WHERE id = :id", m)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order

	if err := r.conn.QueryRowxContext(ctx, "SELECT * FROM orders WHERE id = $1 LIMIT 1", id).StructScan(&order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *OrderRepository) GetFollowerOrders(ctx context.Context, masterOrderID int64) ([]models.Order, error) {
	var orders []models.Order

	if err := r.conn.SelectContext(ctx, &orders, "SELECT * FROM orders WHERE master_order_id = $1 ORDER BY id;", masterOrderID); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrderRepository) SetStatus(ctx context.Context, id int64, status models.OrderStatus, brokerOrderID, errMsg string) error {
	if _, err := r.conn.ExecContext(ctx, "UPDATE orders SET status = $1, broker_order_id = $2, error_message = $3 WHERE id = $4;",
		status,
		nullString(brokerOrderID),
		nullString(errMsg),
		id,
	); err != nil {
		return err
	}

	return nil
}

// Cancel moves the order to CANCELLED unless it already left PENDING and
// SUBMITTED. The returned bool is false when nothing was updated.
func (r *OrderRepository) Cancel(ctx context.Context, id int64) (bool, error) {
	res, err := r.conn.ExecContext(ctx, "UPDATE orders SET status = $1 WHERE id = $2 AND status IN ($3, $4);",
		models.OrderStatusCancelled,
		id,
		models.OrderStatusPending,
		models.OrderStatusSubmitted,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
