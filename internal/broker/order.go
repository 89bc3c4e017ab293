package broker

import (
	"fmt"
	"strconv"
	"time"

	"copytrading/internal/controllers"
	"copytrading/models"

	"github.com/shopspring/decimal"
)

const (
	loginUrlPath      = "/auth/login"
	placeOrderUrlPath = "/orders/place"

	productIntraday = "MIS"
	validityDay     = "DAY"

	StatusSubmitted = "SUBMITTED"
)

type PlaceOrderRequest struct {
	AccountRef    string
	Symbol        string
	ScripCode     int64
	Exchange      string
	ExchangeType  string
	Side          models.Side
	Quantity      int64
	Price         decimal.Decimal
	Type          models.OrderType
	RemoteOrderID string
}

type PlaceResult struct {
	BrokerOrderID string
	Status        string
	Message       string
	LatencyMs     float64
}

// orderTypeCodes maps order types to the brokerage's own codes.
var orderTypeCodes = map[models.OrderType]string{
	models.OrderTypeMarket:     "MARKET",
	models.OrderTypeLimit:      "LIMIT",
	models.OrderTypeStop:       "SL",
	models.OrderTypeStopMarket: "SL-M",
}

func (r *PlaceOrderRequest) validate() error {
	if r.AccountRef == "" {
		return fmt.Errorf("missing account ref")
	}
	if !r.Side.Valid() {
		return fmt.Errorf("invalid side %q", r.Side)
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("invalid quantity %d", r.Quantity)
	}
	if _, ok := orderTypeCodes[r.Type]; !ok {
		return fmt.Errorf("invalid order type %q", r.Type)
	}
	if r.Type.Priced() && !r.Price.IsPositive() {
		return fmt.Errorf("%s order without price", r.Type)
	}
	return nil
}

func (r *PlaceOrderRequest) params(now time.Time) map[string]string {
	params := map[string]string{
		"accountId":   r.AccountRef,
		"symbol":      r.Symbol,
		"side":        string(r.Side),
		"quantity":    strconv.FormatInt(r.Quantity, 10),
		"orderType":   orderTypeCodes[r.Type],
		"productType": productIntraday,
		"validity":    validityDay,
		"timestamp":   strconv.FormatInt(now.UnixMilli(), 10),
	}

	if r.ScripCode != 0 {
		params["scripCode"] = strconv.FormatInt(r.ScripCode, 10)
	}
	if r.Exchange != "" {
		params["exchange"] = r.Exchange
	}
	if r.ExchangeType != "" {
		params["exchangeType"] = r.ExchangeType
	}
	if r.RemoteOrderID != "" {
		params["remoteOrderId"] = r.RemoteOrderID
	}
	if r.Type.Priced() {
		params["price"] = r.Price.StringFixed(2)
	}

	return params
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expiresIn"`
	} `json:"data"`
}

type placeOrderResponse struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	ErrorCode controllers.Code `json:"errorCode"`
	Data      struct {
		OrderID controllers.Code `json:"orderId"`
		Status  string           `json:"status"`
		Message string           `json:"message"`
	} `json:"data"`
}
