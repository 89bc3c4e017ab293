package broker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"copytrading/internal/controllers"
	"copytrading/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBrokerage struct {
	logins atomic.Int64
	orders atomic.Int64

	mu       sync.Mutex
	hits     []time.Time
	tokens   []string
	params   []map[string]string
	order     http.HandlerFunc
	loginErr  string
	expiresIn int
}

func newFakeBrokerage(t *testing.T) (*fakeBrokerage, *httptest.Server) {
	f := &fakeBrokerage{}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeBrokerage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits = append(f.hits, time.Now())
	f.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	params := map[string]string{}
	_ = json.Unmarshal(body, &params)

	switch r.URL.Path {
	case loginUrlPath:
		n := f.logins.Add(1)
		f.mu.Lock()
		loginErr := f.loginErr
		expiresIn := f.expiresIn
		f.mu.Unlock()
		if expiresIn == 0 {
			expiresIn = 3600
		}
		if loginErr != "" {
			_, _ = w.Write([]byte(`{"success":false,"message":"` + loginErr + `"}`))
			return
		}
		// keeps concurrent callers waiting on the same login
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"tkn-` + strconv.FormatInt(n, 10) + `","expiresIn":` + strconv.Itoa(expiresIn) + `}}`))
	case placeOrderUrlPath:
		f.orders.Add(1)
		f.mu.Lock()
		f.tokens = append(f.tokens, r.Header.Get("Authorization"))
		f.params = append(f.params, params)
		handler := f.order
		f.mu.Unlock()
		if handler != nil {
			handler(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"orderId":987,"status":"SUBMITTED"}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeBrokerage) setOrderHandler(h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = h
}

func newTestSession(t *testing.T, srv *httptest.Server, interval time.Duration) *Session {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s, err := NewSession(
		controllers.NewClientController(srv.Client(), "sub-key", logger),
		controllers.NewCryptoController("secret"),
		Credentials{UserID: "u1", Password: "p1", APIKey: "k1"},
		Config{BaseURL: srv.URL, MinRequestInterval: interval},
		logger,
	)
	require.NoError(t, err)

	return s
}

func testRequest() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		AccountRef:    "ACC1",
		Symbol:        "TCS",
		ScripCode:     11536,
		Exchange:      "NSE",
		ExchangeType:  "C",
		Side:          models.SideBuy,
		Quantity:      10,
		Price:         decimal.RequireFromString("3500"),
		Type:          models.OrderTypeLimit,
		RemoteOrderID: "CT42-7",
	}
}

func TestPlaceOrder(t *testing.T) {
	f, srv := newFakeBrokerage(t)
	s := newTestSession(t, srv, time.Millisecond)

	res, err := s.PlaceOrder(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "987", res.BrokerOrderID)
	assert.Equal(t, StatusSubmitted, res.Status)
	assert.Positive(t, res.LatencyMs)

	f.mu.Lock()
	defer f.mu.Unlock()

	require.Len(t, f.params, 1)
	p := f.params[0]
	assert.Equal(t, "Bearer tkn-1", f.tokens[0])
	assert.Equal(t, "ACC1", p["accountId"])
	assert.Equal(t, "11536", p["scripCode"])
	assert.Equal(t, "LIMIT", p["orderType"])
	assert.Equal(t, "3500.00", p["price"])
	assert.Equal(t, "CT42-7", p["remoteOrderId"])
	assert.Equal(t, controllers.NewCryptoController("secret").SignParams(p), p["signature"])
}

func TestSingleLoginUnderConcurrency(t *testing.T) {
	f, srv := newFakeBrokerage(t)
	s := newTestSession(t, srv, time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.PlaceOrder(context.Background(), testRequest())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), f.logins.Load())
	assert.Equal(t, int64(1), s.Logins())
	assert.Equal(t, int64(10), f.orders.Load())
}

func TestRefreshWithinMargin(t *testing.T) {
	f, srv := newFakeBrokerage(t)
	s := newTestSession(t, srv, time.Millisecond)

	clock := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	require.NoError(t, s.Warm(context.Background()))
	clock = clock.Add(50 * time.Minute)
	_, err := s.PlaceOrder(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.logins.Load())

	// token expires at +60m, margin is 5m
	clock = clock.Add(6 * time.Minute)
	_, err = s.PlaceOrder(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.logins.Load())

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, "Bearer tkn-2", f.tokens[len(f.tokens)-1])
}

func TestShortLivedToken(t *testing.T) {
	f, srv := newFakeBrokerage(t)
	f.expiresIn = 120
	s := newTestSession(t, srv, time.Millisecond)

	clock := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	// 2m lifetime against a 5m margin, the token is renewed after 1m
	for i := 0; i < 3; i++ {
		_, err := s.PlaceOrder(context.Background(), testRequest())
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), f.logins.Load())

	clock = clock.Add(61 * time.Second)
	_, err := s.PlaceOrder(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.logins.Load())
}

func TestThrottleSpacing(t *testing.T) {
	f, srv := newFakeBrokerage(t)
	interval := 40 * time.Millisecond
	s := newTestSession(t, srv, interval)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.PlaceOrder(context.Background(), testRequest())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	f.mu.Lock()
	defer f.mu.Unlock()

	require.Len(t, f.hits, 5)
	for i := 1; i < len(f.hits); i++ {
		gap := f.hits[i].Sub(f.hits[i-1])
		assert.GreaterOrEqual(t, gap, interval-5*time.Millisecond, "request %d followed after %s", i, gap)
	}
}

func TestPlaceOrderErrors(t *testing.T) {
	t.Run("rejection", func(t *testing.T) {
		f, srv := newFakeBrokerage(t)
		f.setOrderHandler(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":false,"message":"insufficient margin","errorCode":"RMS-12"}`))
		})

		_, err := newTestSession(t, srv, time.Millisecond).PlaceOrder(context.Background(), testRequest())

		var brokerErr *BrokerError
		require.True(t, errors.As(err, &brokerErr))
		assert.Equal(t, "RMS-12", brokerErr.Code)
		assert.Equal(t, "insufficient margin", brokerErr.Message)
	})

	t.Run("http 500", func(t *testing.T) {
		f, srv := newFakeBrokerage(t)
		f.setOrderHandler(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := newTestSession(t, srv, time.Millisecond).PlaceOrder(context.Background(), testRequest())

		var brokerErr *BrokerError
		require.True(t, errors.As(err, &brokerErr))
		assert.Equal(t, http.StatusInternalServerError, brokerErr.StatusCode)
	})

	t.Run("invalid request", func(t *testing.T) {
		f, srv := newFakeBrokerage(t)
		req := testRequest()
		req.Quantity = 0

		_, err := newTestSession(t, srv, time.Millisecond).PlaceOrder(context.Background(), req)

		var brokerErr *BrokerError
		require.True(t, errors.As(err, &brokerErr))
		assert.Equal(t, "INVALID_REQUEST", brokerErr.Code)
		assert.Zero(t, f.logins.Load())
	})

	t.Run("login failure", func(t *testing.T) {
		f, srv := newFakeBrokerage(t)
		f.loginErr = "invalid credentials"

		_, err := newTestSession(t, srv, time.Millisecond).PlaceOrder(context.Background(), testRequest())

		var sessionErr *SessionError
		require.True(t, errors.As(err, &sessionErr))
		assert.Contains(t, err.Error(), "invalid credentials")
		assert.Zero(t, f.orders.Load())
	})

	t.Run("timeout", func(t *testing.T) {
		f, srv := newFakeBrokerage(t)
		f.setOrderHandler(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})
		s := newTestSession(t, srv, time.Millisecond)
		require.NoError(t, s.Warm(context.Background()))

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		_, err := s.PlaceOrder(ctx, testRequest())

		var timeoutErr *TimeoutError
		require.True(t, errors.As(err, &timeoutErr))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("unauthorized drops the token", func(t *testing.T) {
		f, srv := newFakeBrokerage(t)
		var calls atomic.Int64
		f.setOrderHandler(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"success":true,"data":{"orderId":"A-1"}}`))
		})
		s := newTestSession(t, srv, time.Millisecond)

		_, err := s.PlaceOrder(context.Background(), testRequest())
		require.Error(t, err)

		res, err := s.PlaceOrder(context.Background(), testRequest())
		require.NoError(t, err)
		assert.Equal(t, "A-1", res.BrokerOrderID)
		assert.Equal(t, int64(2), f.logins.Load())
	})
}
