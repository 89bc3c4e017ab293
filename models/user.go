package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleMaster   Role = "MASTER"
	RoleFollower Role = "FOLLOWER"
	RoleBoth     Role = "BOTH"
)

type User struct {
	ID              int64           `db:"id"`
	Username        string          `db:"username"`
	Role            Role            `db:"role"`
	BrokerAccountID string          `db:"broker_account_id"`
	Balance         decimal.Decimal `db:"balance"`
	IsActive        bool            `db:"is_active"`
	CreatedAt       time.Time       `db:"created_at"`
}

// IsMaster reports whether orders placed by the user are replicated.
func (u *User) IsMaster() bool {
	return u.Role == RoleMaster || u.Role == RoleBoth
}
