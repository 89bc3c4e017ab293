package usecasees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"copytrading/internal/repository/postgres"
	"copytrading/internal/repository/redis"
	"copytrading/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var ErrInvalidPrice = errors.New("invalid price")

type priceUseCase struct {
	priceRepo  postgres.PriceRepo
	priceCache redis.PriceCache

	logger *logrus.Logger
}

func NewPriceUseCase(
	priceRepo postgres.PriceRepo,
	priceCache redis.PriceCache,
	logger *logrus.Logger,
) *priceUseCase {
	return &priceUseCase{
		priceRepo:  priceRepo,
		priceCache: priceCache,
		logger:     logger,
	}
}

// GetPrice returns the last observed price of symbol. ok is false when no
// price was ever recorded.
func (u *priceUseCase) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
	symbol = strings.ToUpper(symbol)

	price, ok, err := u.priceCache.Get(ctx, symbol)
	if err != nil {
		u.logger.WithError(err).WithField("symbol", symbol).Warn("price cache read failed")
	}
	if ok {
		return price, true, nil
	}

	last, err := u.priceRepo.GetLast(ctx, symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("last price of %s: %w", symbol, err)
	}

	if err := u.priceCache.Set(ctx, symbol, last.Price); err != nil {
		u.logger.WithError(err).WithField("symbol", symbol).Warn("price cache write failed")
	}

	return last.Price, true, nil
}

func (u *priceUseCase) Record(ctx context.Context, symbol string, price decimal.Decimal) error {
	if symbol == "" || !price.IsPositive() {
		return ErrInvalidPrice
	}
	symbol = strings.ToUpper(symbol)

	if err := u.priceRepo.Store(ctx, &models.Price{Symbol: symbol, Price: price}); err != nil {
		return fmt.Errorf("store price of %s: %w", symbol, err)
	}

	if err := u.priceCache.Set(ctx, symbol, price); err != nil {
		u.logger.WithError(err).WithField("symbol", symbol).Warn("price cache write failed")
	}

	return nil
}
