package usecasees

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"copytrading/internal/repository/postgres"
	"copytrading/models"

	"github.com/sirupsen/logrus"
)

const (
	exchangeNSE      = "NSE"
	exchangeTypeCash = "C"
)

// builtinScripCodes cover common NSE symbols when scrip_codes has no row.
var builtinScripCodes = map[string]int64{
	"RELIANCE":   2885,
	"TCS":        11536,
	"INFY":       408,
	"HDFC":       1333,
	"ICICIBANK":  4963,
	"HDFCBANK":   1363,
	"ITC":        424,
	"SBIN":       3045,
	"BHARTIARTL": 10604,
	"KOTAKBANK":  1922,
}

type scripResolver struct {
	scripRepo postgres.ScripRepo

	logger *logrus.Logger
}

func NewScripResolver(scripRepo postgres.ScripRepo, logger *logrus.Logger) *scripResolver {
	return &scripResolver{
		scripRepo: scripRepo,
		logger:    logger,
	}
}

// Resolve maps a symbol to the brokerage instrument. Unknown symbols yield
// a zero code and the brokerage resolves them by name.
func (r *scripResolver) Resolve(ctx context.Context, symbol string) models.ScripCode {
	symbol = strings.ToUpper(symbol)

	scrip, err := r.scripRepo.GetBySymbol(ctx, symbol)
	if err == nil {
		return *scrip
	}
	if !errors.Is(err, sql.ErrNoRows) {
		r.logger.WithError(err).WithField("symbol", symbol).Warn("scrip lookup failed, using defaults")
	}

	return models.ScripCode{
		Symbol:       symbol,
		ScripCode:    builtinScripCodes[symbol],
		Exchange:     exchangeNSE,
		ExchangeType: exchangeTypeCash,
	}
}
