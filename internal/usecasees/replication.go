package usecasees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"copytrading/internal/broker"
	"copytrading/internal/repository/postgres"
	"copytrading/internal/repository/redis"
	"copytrading/internal/usecasees/structs"
	"copytrading/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxConcurrentOrders = 50
	DefaultOrderTimeout        = 30 * time.Second

	storeTimeout = 5 * time.Second
)

var (
	ErrInvalidMasterOrder = errors.New("not a replicable master order")
	ErrMetricsNotStored   = errors.New("replication metrics not stored")
	ErrClaimFailed        = errors.New("follower orders not claimed")
)

type ReplicationConfig struct {
	MaxConcurrentOrders int
	OrderTimeout        time.Duration
	EnforceRiskLimits   bool
}

func (c *ReplicationConfig) setDefaults() {
	if c.MaxConcurrentOrders <= 0 {
		c.MaxConcurrentOrders = DefaultMaxConcurrentOrders
	}
	if c.OrderTimeout <= 0 {
		c.OrderTimeout = DefaultOrderTimeout
	}
}

type FollowerLister interface {
	ListActiveFollowers(ctx context.Context, masterID int64) ([]models.FollowerRelationship, error)
}

type replicationUseCase struct {
	followers FollowerLister
	scrips    *scripResolver

	orderRepo   postgres.OrderRepo
	metricsRepo postgres.MetricsRepo
	lossRepo    redis.LossRepo

	prices   PriceReader
	placer   OrderPlacer
	notifier Notifier

	metrics *Metrics
	cfg     ReplicationConfig
	now     func() time.Time

	logger *logrus.Logger
}

func NewReplicationUseCase(
	followers FollowerLister,
	scrips *scripResolver,
	orderRepo postgres.OrderRepo,
	metricsRepo postgres.MetricsRepo,
	lossRepo redis.LossRepo,
	prices PriceReader,
	placer OrderPlacer,
	notifier Notifier,
	metrics *Metrics,
	cfg ReplicationConfig,
	logger *logrus.Logger,
) *replicationUseCase {
	cfg.setDefaults()

	return &replicationUseCase{
		followers:   followers,
		scrips:      scrips,
		orderRepo:   orderRepo,
		metricsRepo: metricsRepo,
		lossRepo:    lossRepo,
		prices:      prices,
		placer:      placer,
		notifier:    notifier,
		metrics:     metrics,
		cfg:         cfg,
		now:         time.Now,
		logger:      logger,
	}
}

// RemoteOrderID is the client reference sent with every follower order. It
// is stable for a (master order, follower) pair.
func RemoteOrderID(masterOrderID, followerID int64) string {
	return fmt.Sprintf("CT%d-%d", masterOrderID, followerID)
}

type run struct {
	id       string
	master   *models.Order
	scrip    models.ScripCode
	refPrice decimal.Decimal
	day      time.Time

	// followerID -> claimed order row, read only once dispatch starts
	rows    map[int64]int64
	losses  map[int64]decimal.Decimal
	lossErr error

	log *logrus.Entry
}

type workItem struct {
	rel      models.FollowerRelationship
	quantity int64
}

// Replicate places master on behalf of every active follower and returns
// the aggregate once every follower item is terminal.
func (u *replicationUseCase) Replicate(ctx context.Context, master *models.Order) (*structs.ReplicationResult, error) {
	if master == nil || !master.IsMasterOrder || master.ID == 0 || master.Quantity <= 0 {
		return nil, ErrInvalidMasterOrder
	}

	start := u.now()
	r := &run{
		id:     uuid.NewString(),
		master: master,
		day:    start,
	}
	r.log = u.logger.
		WithField("run", r.id).
		WithField("masterOrderID", master.ID).
		WithField("symbol", master.Symbol)

	u.metrics.runs.Inc()

	followers, err := u.followers.ListActiveFollowers(ctx, master.UserID)
	if err != nil {
		r.log.WithError(err).Error("resolve followers")
		return nil, err
	}

	r.log.WithField("followers", len(followers)).Info("replication started")

	followers, skipped, err := u.claim(ctx, r, followers)
	if err != nil {
		r.log.WithError(err).Error("claim follower orders")
		return nil, fmt.Errorf("%w: %v", ErrClaimFailed, err)
	}

	agg := newAggregator(r.id, master.ID, len(followers), start)
	agg.skip(skipped)

	if len(followers) > 0 {
		u.prepareRun(ctx, r, followers)

		outcomes := make(chan structs.Outcome, len(followers))
		go func() {
			defer close(outcomes)
			u.dispatch(ctx, r, followers, outcomes)
		}()

		for o := range outcomes {
			agg.add(o)
			u.metrics.outcomes.WithLabelValues(o.Status.ToString()).Inc()
		}
	}

	result := agg.finish(u.now())
	u.metrics.runDuration.Observe(result.TotalDurationMs / 1000)

	r.log.
		WithField("success", result.SuccessCount).
		WithField("failed", result.FailedCount).
		WithField("rejected", result.RejectedCount).
		WithField("skipped", result.SkippedCount).
		WithField("avgLatencyMs", result.AvgLatencyMs).
		WithField("durationMs", result.TotalDurationMs).
		Info("replication finished")

	if result.TotalFollowers == 0 && result.SkippedCount > 0 {
		r.log.Warn("master order already replicated")
		return result, nil
	}

	storeErr := u.storeMetrics(ctx, r, agg.metrics())

	u.publish(ctx, r, result, agg.outcomes)

	return result, storeErr
}

// claim takes the (master order, follower) key of every follower before
// any of them reaches the broker. Followers already claimed by an earlier
// run are dropped and counted as skipped.
func (u *replicationUseCase) claim(parent context.Context, r *run, followers []models.FollowerRelationship) ([]models.FollowerRelationship, int, error) {
	if len(followers) == 0 {
		return followers, 0, nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), storeTimeout)
	defer cancel()

	rows, err := u.orderRepo.ClaimFollowerOrders(ctx, r.master, followerIDs(followers))
	if err != nil {
		return nil, 0, err
	}

	claimed := make([]models.FollowerRelationship, 0, len(rows))
	for _, rel := range followers {
		if _, ok := rows[rel.FollowerID]; ok {
			claimed = append(claimed, rel)
			continue
		}
		r.log.WithField("followerID", rel.FollowerID).Warn("follower order already recorded, skipped")
	}

	r.rows = rows

	return claimed, len(followers) - len(claimed), nil
}

func (u *replicationUseCase) storeMetrics(parent context.Context, r *run, m *models.ReplicationMetrics) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), storeTimeout)
	defer cancel()

	err := u.metricsRepo.Store(ctx, m)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, postgres.ErrMetricsExist):
		r.log.Warn("replication metrics already stored")
		return nil
	}

	r.log.WithError(err).Error("store replication metrics")

	return fmt.Errorf("%w: %v", ErrMetricsNotStored, err)
}

func followerIDs(followers []models.FollowerRelationship) []int64 {
	ids := make([]int64, len(followers))
	for i := range followers {
		ids[i] = followers[i].FollowerID
	}
	return ids
}

// prepareRun resolves what every item of the run shares: the instrument,
// the daily losses and the reference price.
func (u *replicationUseCase) prepareRun(ctx context.Context, r *run, followers []models.FollowerRelationship) {
	r.scrip = u.scrips.Resolve(ctx, r.master.Symbol)

	if u.cfg.EnforceRiskLimits {
		r.losses, r.lossErr = u.lossRepo.DailyLosses(ctx, followerIDs(followers), r.day)
		if r.lossErr != nil {
			r.log.WithError(r.lossErr).Error("read daily losses")
		}
	}

	if price, ok := r.master.LimitPrice(); ok {
		r.refPrice = price
		return
	}

	if !u.needsMarketPrice(followers) {
		return
	}

	price, ok, err := u.prices.GetPrice(ctx, r.master.Symbol)
	if err != nil {
		r.log.WithError(err).Warn("reference price unavailable")
		return
	}
	if ok {
		r.refPrice = price
	}
}

func (u *replicationUseCase) needsMarketPrice(followers []models.FollowerRelationship) bool {
	if u.cfg.EnforceRiskLimits {
		return true
	}
	for i := range followers {
		if followers[i].CopyStrategy == models.CopyStrategyPercentage {
			return true
		}
	}
	return false
}

func (u *replicationUseCase) dispatch(ctx context.Context, r *run, followers []models.FollowerRelationship, out chan<- structs.Outcome) {
	var g errgroup.Group
	g.SetLimit(u.cfg.MaxConcurrentOrders)

	var sessionDown atomic.Bool

	for _, rel := range followers {
		rel := rel

		if err := ctx.Err(); err != nil {
			out <- u.record(ctx, r, failedOutcome(rel.FollowerID, 0, structs.ReasonRunCancelled, err.Error()))
			continue
		}

		item, rejected := u.prepare(r, rel)
		if rejected != nil {
			out <- u.record(ctx, r, *rejected)
			continue
		}

		if sessionDown.Load() {
			out <- u.record(ctx, r, failedOutcome(rel.FollowerID, item.quantity, structs.ReasonSessionUnavailable, "brokerage session unavailable"))
			continue
		}

		// blocks while MaxConcurrentOrders items are in flight
		g.Go(func() error {
			out <- u.execute(ctx, r, item, &sessionDown)
			return nil
		})
	}

	_ = g.Wait()
}

// prepare runs the strategy and risk checks of one follower. A non nil
// outcome is terminal and never reaches the broker.
func (u *replicationUseCase) prepare(r *run, rel models.FollowerRelationship) (workItem, *structs.Outcome) {
	quantity, err := CalculateTarget(&rel, r.master, rel.Balance, r.refPrice)
	if err != nil {
		o := rejectedOutcome(rel.FollowerID, 0, err)
		return workItem{}, &o
	}

	if u.cfg.EnforceRiskLimits {
		loss, ok := r.losses[rel.FollowerID]
		if !ok {
			msg := "daily loss unreadable"
			if r.lossErr != nil {
				msg = r.lossErr.Error()
			}
			r.log.WithField("followerID", rel.FollowerID).Error(msg)
			o := failedOutcome(rel.FollowerID, quantity, structs.ReasonRiskDataMissing, msg)
			return workItem{}, &o
		}

		if err := EvaluateRisk(quantity, r.refPrice, &rel, loss); err != nil {
			o := rejectedOutcome(rel.FollowerID, quantity, err)
			return workItem{}, &o
		}
	}

	r.log.
		WithField("followerID", rel.FollowerID).
		WithField("quantity", quantity).
		WithField("status", models.OrderStatusRiskChecked).
		Debug("follower item ready")

	return workItem{rel: rel, quantity: quantity}, nil
}

func (u *replicationUseCase) execute(runCtx context.Context, r *run, item workItem, sessionDown *atomic.Bool) structs.Outcome {
	followerID := item.rel.FollowerID

	if sessionDown.Load() {
		return u.record(runCtx, r, failedOutcome(followerID, item.quantity, structs.ReasonSessionUnavailable, "brokerage session unavailable"))
	}
	if err := runCtx.Err(); err != nil {
		return u.record(runCtx, r, failedOutcome(followerID, item.quantity, structs.ReasonRunCancelled, err.Error()))
	}

	// once dispatched the call outlives run cancellation, the item timeout
	// still bounds it
	ctx, cancel := context.WithTimeout(context.WithoutCancel(runCtx), u.cfg.OrderTimeout)
	defer cancel()

	u.metrics.inFlight.Inc()
	res, err := u.placer.PlaceOrder(ctx, u.request(r, item))
	u.metrics.inFlight.Dec()

	var (
		sessionErr *broker.SessionError
		timeoutErr *broker.TimeoutError
		o          structs.Outcome
	)

	switch {
	case err == nil:
		o = structs.Outcome{
			FollowerID:    followerID,
			Quantity:      item.quantity,
			Status:        brokerStatus(res.Status),
			BrokerOrderID: res.BrokerOrderID,
			Message:       res.Message,
			LatencyMs:     res.LatencyMs,
		}
		u.metrics.brokerLatency.Observe(res.LatencyMs / 1000)
	case errors.As(err, &sessionErr):
		sessionDown.Store(true)
		o = failedOutcome(followerID, item.quantity, structs.ReasonSessionUnavailable, err.Error())
	case errors.As(err, &timeoutErr), errors.Is(ctx.Err(), context.DeadlineExceeded):
		o = failedOutcome(followerID, item.quantity, structs.ReasonTimeout, err.Error())
	default:
		o = failedOutcome(followerID, item.quantity, structs.ReasonBrokerError, err.Error())
	}

	if err != nil {
		r.log.WithError(err).WithField("followerID", followerID).Warn("follower order failed")
	}

	return u.record(ctx, r, o)
}

func (u *replicationUseCase) request(r *run, item workItem) *broker.PlaceOrderRequest {
	price, _ := r.master.LimitPrice()

	return &broker.PlaceOrderRequest{
		AccountRef:    item.rel.BrokerAccountID,
		Symbol:        r.master.Symbol,
		ScripCode:     r.scrip.ScripCode,
		Exchange:      r.scrip.Exchange,
		ExchangeType:  r.scrip.ExchangeType,
		Side:          r.master.Side,
		Quantity:      item.quantity,
		Price:         price,
		Type:          r.master.Type,
		RemoteOrderID: RemoteOrderID(r.master.ID, item.rel.FollowerID),
	}
}

// record moves the claimed follower row to the terminal outcome. The write
// is detached from the caller's context so cancelled runs still finish
// their rows.
func (u *replicationUseCase) record(parent context.Context, r *run, o structs.Outcome) structs.Outcome {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), storeTimeout)
	defer cancel()

	row := &models.Order{
		ID:            r.rows[o.FollowerID],
		UserID:        o.FollowerID,
		MasterOrderID: sql.NullInt64{Int64: r.master.ID, Valid: true},
		Symbol:        r.master.Symbol,
		Side:          r.master.Side,
		Type:          r.master.Type,
		Quantity:      o.Quantity,
		Price:         r.master.Price,
		Status:        o.Status,
	}
	if o.BrokerOrderID != "" {
		row.BrokerOrderID = sql.NullString{String: o.BrokerOrderID, Valid: true}
	}
	if msg := outcomeError(o); msg != "" {
		row.ErrorMessage = sql.NullString{String: msg, Valid: true}
	}
	if o.Status.Succeeded() {
		row.ReplicationLatencyMs = sql.NullInt64{Int64: int64(math.Round(o.LatencyMs)), Valid: true}
	}

	if err := u.orderRepo.CompleteFollowerOrder(ctx, row); err != nil {
		r.log.WithError(err).WithField("followerID", o.FollowerID).Error("store follower order")
	}

	return o
}

func (u *replicationUseCase) publish(parent context.Context, r *run, result *structs.ReplicationResult, outcomes []structs.Outcome) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), storeTimeout)
	defer cancel()

	event := &structs.ReplicationEvent{
		MasterID:      r.master.UserID,
		MasterOrderID: r.master.ID,
		Symbol:        r.master.Symbol,
		Side:          r.master.Side,
		Quantity:      r.master.Quantity,
		Result:        result,
		Outcomes:      outcomes,
	}

	if err := u.notifier.Publish(ctx, event); err != nil {
		r.log.WithError(err).Warn("notify replication result")
	}
}

func brokerStatus(s string) models.OrderStatus {
	switch models.OrderStatus(s) {
	case models.OrderStatusFilled:
		return models.OrderStatusFilled
	case models.OrderStatusPartiallyFilled:
		return models.OrderStatusPartiallyFilled
	}
	return models.OrderStatusSubmitted
}

func failedOutcome(followerID, quantity int64, reason, msg string) structs.Outcome {
	return structs.Outcome{
		FollowerID: followerID,
		Quantity:   quantity,
		Status:     models.OrderStatusFailed,
		Reason:     reason,
		Message:    msg,
	}
}

func rejectedOutcome(followerID, quantity int64, err error) structs.Outcome {
	o := structs.Outcome{
		FollowerID: followerID,
		Quantity:   quantity,
		Status:     models.OrderStatusRejected,
		Message:    err.Error(),
	}

	var (
		strategyErr *StrategyRejection
		riskErr     *RiskRejection
	)
	switch {
	case errors.As(err, &strategyErr):
		o.Reason = strategyErr.Reason
	case errors.As(err, &riskErr):
		o.Reason = riskErr.Reason
	}

	return o
}

func outcomeError(o structs.Outcome) string {
	switch {
	case o.Status.Succeeded():
		return ""
	case o.Reason != "" && o.Message != "":
		return o.Reason + ": " + o.Message
	case o.Reason != "":
		return o.Reason
	}
	return o.Message
}
