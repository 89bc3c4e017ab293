package broker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"copytrading/internal/controllers"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultMinRequestInterval = 100 * time.Millisecond
	DefaultSessionTTL         = 7*time.Hour + 30*time.Minute
	DefaultRefreshMargin      = 5 * time.Minute
	DefaultLoginTimeout       = 30 * time.Second
)

type Credentials struct {
	UserID   string
	Password string
	APIKey   string
}

type Config struct {
	BaseURL            string
	MinRequestInterval time.Duration
	SessionTTL         time.Duration
	RefreshMargin      time.Duration
	LoginTimeout       time.Duration
}

func (c *Config) setDefaults() {
	if c.MinRequestInterval <= 0 {
		c.MinRequestInterval = DefaultMinRequestInterval
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	if c.RefreshMargin <= 0 {
		c.RefreshMargin = DefaultRefreshMargin
	}
	if c.LoginTimeout <= 0 {
		c.LoginTimeout = DefaultLoginTimeout
	}
}

// Session is the single authority for authentication and outbound pacing
// of one brokerage connection. It is safe for concurrent use; every worker
// of every replication run shares the same Session.
type Session struct {
	client  controllers.ClientCtrl
	crypto  controllers.CryptoCtrl
	baseURL *url.URL
	creds   Credentials
	cfg     Config

	mu        sync.RWMutex
	token     string
	refreshAt time.Time
	flight    singleflight.Group
	logins    atomic.Int64

	limiter *rate.Limiter
	now     func() time.Time

	logger *logrus.Logger
}

func NewSession(
	client controllers.ClientCtrl,
	crypto controllers.CryptoCtrl,
	creds Credentials,
	cfg Config,
	logger *logrus.Logger,
) (*Session, error) {
	cfg.setDefaults()

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	return &Session{
		client:  client,
		crypto:  crypto,
		baseURL: baseURL,
		creds:   creds,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.MinRequestInterval), 1),
		now:     time.Now,
		logger:  logger,
	}, nil
}

// Logins returns how many logins the session has performed.
func (s *Session) Logins() int64 {
	return s.logins.Load()
}

// Warm makes sure a fresh token is held, typically ahead of market open.
func (s *Session) Warm(ctx context.Context) error {
	_, err := s.ensureSession(ctx)
	return err
}

func (s *Session) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceResult, error) {
	start := time.Now()

	if err := req.validate(); err != nil {
		return nil, &BrokerError{Message: err.Error(), Code: "INVALID_REQUEST"}
	}

	token, err := s.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	// payload and signature are built outside the pacing gate
	params := req.params(s.now())
	params["signature"] = s.crypto.SignParams(params)

	body, err := json.Marshal(params)
	if err != nil {
		return nil, &BrokerError{Message: "marshal order", Err: err}
	}

	if err := s.throttle(ctx); err != nil {
		return nil, err
	}

	out, err := s.client.Send(ctx, http.MethodPost, s.endpoint(placeOrderUrlPath), body, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		var statusErr *controllers.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
			s.invalidate(token)
		}
		return nil, s.wrapErr(ctx, "place order", err)
	}

	var resp placeOrderResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, &BrokerError{Message: "decode order response", Err: err}
	}

	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "order rejected"
		}
		return nil, &BrokerError{Message: msg, Code: string(resp.ErrorCode)}
	}

	status := resp.Data.Status
	if status == "" {
		status = StatusSubmitted
	}

	latency := time.Since(start)

	s.logger.
		WithField("account", req.AccountRef).
		WithField("symbol", req.Symbol).
		WithField("orderId", resp.Data.OrderID).
		WithField("latencyMs", latency.Milliseconds()).
		Debug("order placed")

	return &PlaceResult{
		BrokerOrderID: string(resp.Data.OrderID),
		Status:        status,
		Message:       resp.Data.Message,
		LatencyMs:     float64(latency.Microseconds()) / 1000,
	}, nil
}

// ensureSession returns a valid token. When the token is missing or about
// to expire exactly one login is in flight; concurrent callers wait for it
// and share its outcome.
func (s *Session) ensureSession(ctx context.Context) (string, error) {
	if token, ok := s.validToken(); ok {
		return token, nil
	}

	ch := s.flight.DoChan("login", func() (interface{}, error) {
		// a caller that saw the stale token may arrive after the refresh
		if token, ok := s.validToken(); ok {
			return token, nil
		}

		loginCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.LoginTimeout)
		defer cancel()

		return s.login(loginCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &TimeoutError{Op: "session"}
		}
		return "", &BrokerError{Message: "session wait cancelled", Err: ctx.Err()}
	}
}

func (s *Session) validToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" || !s.now().Before(s.refreshAt) {
		return "", false
	}

	return s.token, true
}

func (s *Session) invalidate(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == token {
		s.token = ""
		s.refreshAt = time.Time{}
	}
}

func (s *Session) login(ctx context.Context) (string, error) {
	s.logins.Add(1)
	s.logger.Info("authenticating with brokerage")

	now := s.now()
	params := map[string]string{
		"userId":    s.creds.UserID,
		"password":  s.creds.Password,
		"apiKey":    s.creds.APIKey,
		"timestamp": strconv.FormatInt(now.UnixMilli(), 10),
	}
	params["signature"] = s.crypto.SignParams(params)

	body, err := json.Marshal(params)
	if err != nil {
		return "", &SessionError{Err: err}
	}

	if err := s.throttle(ctx); err != nil {
		return "", &SessionError{Err: err}
	}

	out, err := s.client.Send(ctx, http.MethodPost, s.endpoint(loginUrlPath), body, nil)
	if err != nil {
		return "", &SessionError{Err: err}
	}

	var resp loginResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return "", &SessionError{Err: err}
	}

	if !resp.Success || resp.Data.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "unknown error"
		}
		return "", &SessionError{Err: errors.New("login failed: " + msg)}
	}

	ttl := s.cfg.SessionTTL
	if resp.Data.ExpiresIn > 0 {
		ttl = time.Duration(resp.Data.ExpiresIn) * time.Second
	}

	// refreshAt must stay ahead of now for short lived tokens
	margin := s.cfg.RefreshMargin
	if margin >= ttl {
		margin = ttl / 2
		s.logger.
			WithField("ttl", ttl).
			WithField("refreshMargin", s.cfg.RefreshMargin).
			Warn("session lifetime within refresh margin")
	}

	s.mu.Lock()
	s.token = resp.Data.Token
	s.refreshAt = now.Add(ttl - margin)
	s.mu.Unlock()

	s.logger.WithField("expiresAt", now.Add(ttl)).Info("brokerage session established")

	return resp.Data.Token, nil
}

// throttle is the shared pacing gate: calls leave it no closer together
// than MinRequestInterval, whichever goroutine issues them.
func (s *Session) throttle(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		if ctx.Err() == nil || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			// the limiter refuses waits that would outlive the deadline
			return &TimeoutError{Op: "throttle"}
		}
		return &BrokerError{Message: "throttle wait cancelled", Err: err}
	}
	return nil
}

func (s *Session) wrapErr(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Op: op}
	}

	var statusErr *controllers.StatusError
	if errors.As(err, &statusErr) {
		msg := statusErr.Msg
		if msg == "" {
			msg = http.StatusText(statusErr.StatusCode)
		}
		return &BrokerError{Message: msg, Code: string(statusErr.Code), StatusCode: statusErr.StatusCode, Err: err}
	}

	return &BrokerError{Message: op + ": " + err.Error(), Err: err}
}

func (s *Session) endpoint(p string) *url.URL {
	u := *s.baseURL
	u.Path = path.Join(u.Path, p)
	return &u
}
