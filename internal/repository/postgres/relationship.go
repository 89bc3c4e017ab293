package postgres

import (
	"context"

	"copytrading/models"

	"github.com/jmoiron/sqlx"
)

type RelationshipRepository struct {
	conn *sqlx.DB
}

func NewRelationshipRepository(conn *sqlx.DB) RelationshipRepo {
	return &RelationshipRepository{
		conn: conn,
	}
}

const listActiveFollowersQuery = `SELECT fr.id, fr.master_id, fr.follower_id, fr.copy_strategy, fr.ratio, fr.percentage,
       fr.fixed_quantity, fr.max_order_value, fr.max_daily_loss, fr.is_active, fr.auto_follow, fr.followed_at,
       u.broker_account_id, u.balance
FROM follower_relationships fr
JOIN users u ON u.id = fr.follower_id
WHERE fr.master_id = $1 AND fr.is_active AND fr.auto_follow AND u.is_active
ORDER BY fr.follower_id;`

// ListActiveFollowers reads the followers of masterID in one statement, so a
// replication run works on a single snapshot of the relationships.
func (r *RelationshipRepository) ListActiveFollowers(ctx context.Context, masterID int64) ([]models.FollowerRelationship, error) {
	var out []models.FollowerRelationship

	if err := r.conn.SelectContext(ctx, &out, listActiveFollowersQuery, masterID); err != nil {
		return nil, err
	}

	return out, nil
}
