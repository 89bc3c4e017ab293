package usecasees

import (
	"fmt"

	"copytrading/models"

	"github.com/shopspring/decimal"
)

const (
	RejectZeroQuantity     = "ZERO_QUANTITY"
	RejectPriceUnavailable = "PRICE_UNAVAILABLE"
	RejectUnknownStrategy  = "UNKNOWN_STRATEGY"
)

var hundred = decimal.NewFromInt(100)

type StrategyRejection struct {
	Reason string
	Detail string
}

func (e *StrategyRejection) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("strategy rejected: %s (%s)", e.Reason, e.Detail)
	}
	return "strategy rejected: " + e.Reason
}

// CalculateTarget returns the follower quantity for the master order under
// the relationship's copy strategy. referenceCapital and referencePrice
// are only used by PERCENTAGE.
func CalculateTarget(
	rel *models.FollowerRelationship,
	order *models.Order,
	referenceCapital decimal.Decimal,
	referencePrice decimal.Decimal,
) (int64, error) {
	switch rel.CopyStrategy {
	case models.CopyStrategyFixedRatio:
		target := decimal.NewFromInt(order.Quantity).Mul(rel.Ratio).Round(0)
		if !target.IsPositive() {
			return 0, &StrategyRejection{Reason: RejectZeroQuantity, Detail: fmt.Sprintf("%d x %s", order.Quantity, rel.Ratio)}
		}
		return target.IntPart(), nil

	case models.CopyStrategyPercentage:
		if !referencePrice.IsPositive() {
			return 0, &StrategyRejection{Reason: RejectPriceUnavailable, Detail: order.Symbol}
		}
		target := rel.Percentage.Div(hundred).Mul(referenceCapital).Div(referencePrice).Floor()
		if target.LessThan(decimal.NewFromInt(1)) {
			return 0, &StrategyRejection{Reason: RejectZeroQuantity, Detail: fmt.Sprintf("%s%% of %s at %s", rel.Percentage, referenceCapital, referencePrice)}
		}
		return target.IntPart(), nil

	case models.CopyStrategyFixedQuantity:
		if rel.FixedQuantity <= 0 {
			return 0, &StrategyRejection{Reason: RejectZeroQuantity}
		}
		return rel.FixedQuantity, nil
	}

	return 0, &StrategyRejection{Reason: RejectUnknownStrategy, Detail: string(rel.CopyStrategy)}
}
