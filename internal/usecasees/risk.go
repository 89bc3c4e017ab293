package usecasees

import (
	"fmt"

	"copytrading/models"

	"github.com/shopspring/decimal"
)

const (
	RejectExceedsOrderValue = "EXCEEDS_ORDER_VALUE"
	RejectExceedsDailyLoss  = "EXCEEDS_DAILY_LOSS"
)

type RiskRejection struct {
	Reason string
	Detail string
}

func (e *RiskRejection) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("risk rejected: %s (%s)", e.Reason, e.Detail)
	}
	return "risk rejected: " + e.Reason
}

// EvaluateRisk checks a computed target against the follower's limits. It
// accepts or rejects, it never changes the quantity.
func EvaluateRisk(
	target int64,
	referencePrice decimal.Decimal,
	rel *models.FollowerRelationship,
	dailyLossSoFar decimal.Decimal,
) error {
	if !referencePrice.IsPositive() {
		return &RiskRejection{Reason: RejectPriceUnavailable}
	}

	orderValue := referencePrice.Mul(decimal.NewFromInt(target))
	if orderValue.GreaterThan(rel.MaxOrderValue) {
		return &RiskRejection{Reason: RejectExceedsOrderValue, Detail: fmt.Sprintf("%s > %s", orderValue, rel.MaxOrderValue)}
	}

	if dailyLossSoFar.GreaterThanOrEqual(rel.MaxDailyLoss) {
		return &RiskRejection{Reason: RejectExceedsDailyLoss, Detail: fmt.Sprintf("%s >= %s", dailyLossSoFar, rel.MaxDailyLoss)}
	}

	return nil
}
