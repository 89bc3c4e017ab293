package usecasees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"copytrading/internal/broker"
	"copytrading/internal/repository/postgres"
	pgMocks "copytrading/internal/repository/postgres/mocks"
	redisMocks "copytrading/internal/repository/redis/mocks"
	"copytrading/internal/usecasees/mocks"
	"copytrading/internal/usecasees/structs"
	"copytrading/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeBroker records every call and can fail, block or slow down per
// account.
type fakeBroker struct {
	mu          sync.Mutex
	calls       []broker.PlaceOrderRequest
	inFlight    int
	maxInFlight int

	delay   time.Duration
	fail    map[string]error
	block   map[string]bool
	started chan string
	release chan struct{}
}

func (b *fakeBroker) PlaceOrder(ctx context.Context, req *broker.PlaceOrderRequest) (*broker.PlaceResult, error) {
	b.mu.Lock()
	b.calls = append(b.calls, *req)
	b.inFlight++
	if b.inFlight > b.maxInFlight {
		b.maxInFlight = b.inFlight
	}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.inFlight--
		b.mu.Unlock()
	}()

	if b.started != nil {
		b.started <- req.AccountRef
	}
	if b.release != nil {
		<-b.release
		if ctx.Err() != nil {
			return nil, &broker.BrokerError{Message: "context gone", Err: ctx.Err()}
		}
	}

	if b.block[req.AccountRef] {
		<-ctx.Done()
		return nil, &broker.TimeoutError{Op: "place order"}
	}
	if err := b.fail[req.AccountRef]; err != nil {
		return nil, err
	}
	if b.delay > 0 {
		select {
		case <-time.After(b.delay):
		case <-ctx.Done():
			return nil, &broker.TimeoutError{Op: "place order"}
		}
	}

	return &broker.PlaceResult{
		BrokerOrderID: "B-" + req.RemoteOrderID,
		Status:        broker.StatusSubmitted,
		LatencyMs:     10,
	}, nil
}

func (b *fakeBroker) quantities() map[string]int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]int64, len(b.calls))
	for _, c := range b.calls {
		out[c.AccountRef] = c.Quantity
	}
	return out
}

func (b *fakeBroker) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

type mockGenReplication struct {
	relationshipRepo *pgMocks.RelationshipRepo
	orderRepo        *pgMocks.OrderRepo
	metricsRepo      *pgMocks.MetricsRepo
	scripRepo        *pgMocks.ScripRepo
	lossRepo         *redisMocks.LossRepo
	prices           *mocks.PriceReader
	notifier         *mocks.Notifier

	mu       sync.Mutex
	recorded map[int64]bool
	rows     []models.Order
	metrics  []models.ReplicationMetrics
	events   []*structs.ReplicationEvent

	logger *logrus.Logger
}

func newMockGenReplication(t *testing.T) *mockGenReplication {
	mockGen := &mockGenReplication{
		relationshipRepo: pgMocks.NewRelationshipRepo(t),
		orderRepo:        pgMocks.NewOrderRepo(t),
		metricsRepo:      pgMocks.NewMetricsRepo(t),
		scripRepo:        pgMocks.NewScripRepo(t),
		lossRepo:         redisMocks.NewLossRepo(t),
		prices:           mocks.NewPriceReader(t),
		notifier:         mocks.NewNotifier(t),
	}

	mockGen.initLogger()
	mockGen.orderMocks()
	mockGen.storeMocks()

	return mockGen
}

func (mockGen *mockGenReplication) initLogger() {
	mockGen.logger = logrus.New()
	mockGen.logger.SetLevel(logrus.DebugLevel)
}

// orderMocks claims every follower not marked as recorded, row ids are
// 1000 + followerID.
func (mockGen *mockGenReplication) orderMocks() {
	mockGen.scripRepo.On("GetBySymbol", mock.Anything, "RELIANCE").
		Return(nil, sql.ErrNoRows).Maybe()

	mockGen.orderRepo.On("ClaimFollowerOrders", mock.Anything, mock.AnythingOfType("*models.Order"), mock.Anything).
		Return(func(_ context.Context, _ *models.Order, ids []int64) map[int64]int64 {
			mockGen.mu.Lock()
			defer mockGen.mu.Unlock()

			claimed := make(map[int64]int64, len(ids))
			for _, id := range ids {
				if mockGen.recorded[id] {
					continue
				}
				claimed[id] = 1000 + id
			}
			return claimed
		}, nil).Maybe()

	mockGen.orderRepo.On("CompleteFollowerOrder", mock.Anything, mock.AnythingOfType("*models.Order")).
		Run(func(args mock.Arguments) {
			mockGen.mu.Lock()
			defer mockGen.mu.Unlock()
			mockGen.rows = append(mockGen.rows, *args.Get(1).(*models.Order))
		}).
		Return(nil).Maybe()
}

func (mockGen *mockGenReplication) storeMocks() {

	mockGen.metricsRepo.On("Store", mock.Anything, mock.AnythingOfType("*models.ReplicationMetrics")).
		Run(func(args mock.Arguments) {
			mockGen.mu.Lock()
			defer mockGen.mu.Unlock()
			mockGen.metrics = append(mockGen.metrics, *args.Get(1).(*models.ReplicationMetrics))
		}).
		Return(nil).Once()

	mockGen.notifier.On("Publish", mock.Anything, mock.AnythingOfType("*structs.ReplicationEvent")).
		Run(func(args mock.Arguments) {
			mockGen.mu.Lock()
			defer mockGen.mu.Unlock()
			mockGen.events = append(mockGen.events, args.Get(1).(*structs.ReplicationEvent))
		}).
		Return(nil).Once()
}

func (mockGen *mockGenReplication) followers(masterID int64, rels ...models.FollowerRelationship) {
	mockGen.relationshipRepo.On("ListActiveFollowers", mock.Anything, masterID).
		Return(rels, nil).Once()
}

func (mockGen *mockGenReplication) initReplicationUseCase(placer OrderPlacer, cfg ReplicationConfig) *replicationUseCase {
	return NewReplicationUseCase(
		NewFollowerResolver(mockGen.relationshipRepo, mockGen.logger),
		NewScripResolver(mockGen.scripRepo, mockGen.logger),
		mockGen.orderRepo,
		mockGen.metricsRepo,
		mockGen.lossRepo,
		mockGen.prices,
		placer,
		mockGen.notifier,
		NewMetrics(prometheus.NewRegistry()),
		cfg,
		mockGen.logger,
	)
}

func (mockGen *mockGenReplication) rowsByFollower() map[int64]models.Order {
	mockGen.mu.Lock()
	defer mockGen.mu.Unlock()

	out := make(map[int64]models.Order, len(mockGen.rows))
	for _, r := range mockGen.rows {
		out[r.UserID] = r
	}
	return out
}

func ratioFollower(followerID int64, ratio string) models.FollowerRelationship {
	return models.FollowerRelationship{
		ID:              followerID * 10,
		MasterID:        1,
		FollowerID:      followerID,
		CopyStrategy:    models.CopyStrategyFixedRatio,
		Ratio:           dec(ratio),
		MaxOrderValue:   dec("10000000"),
		MaxDailyLoss:    dec("5000000"),
		IsActive:        true,
		AutoFollow:      true,
		BrokerAccountID: fmt.Sprintf("ACC%d", followerID),
		Balance:         dec("1000000"),
	}
}

func fixedFollower(followerID, qty int64) models.FollowerRelationship {
	rel := ratioFollower(followerID, "1")
	rel.CopyStrategy = models.CopyStrategyFixedQuantity
	rel.FixedQuantity = qty
	return rel
}

func masterOrder() *models.Order {
	return &models.Order{
		ID:            42,
		UserID:        1,
		IsMasterOrder: true,
		Symbol:        "RELIANCE",
		Side:          models.SideBuy,
		Type:          models.OrderTypeMarket,
		Quantity:      100,
		Status:        models.OrderStatusSubmitted,
	}
}

func assertConsistent(t *testing.T, mockGen *mockGenReplication, res *structs.ReplicationResult) {
	t.Helper()

	assert.Equal(t, res.TotalFollowers, res.SuccessCount+res.FailedCount)
	assert.Len(t, res.SucceededFollowerIDs, res.SuccessCount)
	assert.Len(t, res.FailedFollowerIDs, res.FailedCount)

	rows := mockGen.rowsByFollower()
	assert.Len(t, rows, res.TotalFollowers)
	for id, row := range rows {
		assert.True(t, row.Status.Terminal(), "follower %d left in %s", id, row.Status)
		assert.Equal(t, 1000+id, row.ID, "follower %d completed a row it did not claim", id)
		assert.False(t, row.IsMasterOrder)
		assert.Equal(t, int64(42), row.MasterOrderID.Int64)
	}

	require.Len(t, mockGen.metrics, 1)
	m := mockGen.metrics[0]
	assert.Equal(t, res.TotalFollowers, m.TotalFollowers)
	assert.Equal(t, res.SuccessCount, m.SuccessfulReplications)
	assert.Equal(t, res.FailedCount, m.FailedReplications)

	require.Len(t, mockGen.events, 1)
	assert.Equal(t, res, mockGen.events[0].Result)
}

func TestReplicate_ThreeFollowers(t *testing.T) {
	mockGen := newMockGenReplication(t)
	mockGen.followers(1,
		ratioFollower(2, "0.5"),
		ratioFollower(3, "1"),
		ratioFollower(4, "2"),
	)

	b := &fakeBroker{}
	res, err := mockGen.initReplicationUseCase(b, ReplicationConfig{}).Replicate(context.Background(), masterOrder())
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalFollowers)
	assert.Equal(t, 3, res.SuccessCount)
	assert.Equal(t, 0, res.FailedCount)
	assert.Equal(t, []int64{2, 3, 4}, res.SucceededFollowerIDs)
	assert.Empty(t, res.FailedFollowerIDs)
	assert.InDelta(t, 10, res.AvgLatencyMs, 0.001)

	assert.Equal(t, map[string]int64{"ACC2": 50, "ACC3": 100, "ACC4": 200}, b.quantities())

	rows := mockGen.rowsByFollower()
	assert.Equal(t, models.OrderStatusSubmitted, rows[3].Status)
	assert.Equal(t, "B-CT42-3", rows[3].BrokerOrderID.String)
	assert.Equal(t, int64(10), rows[3].ReplicationLatencyMs.Int64)

	for _, c := range b.calls {
		assert.Equal(t, int64(2885), c.ScripCode)
		assert.Equal(t, "NSE", c.Exchange)
	}

	assertConsistent(t, mockGen, res)
}

func TestReplicate_MaxOrderValueRejection(t *testing.T) {
	mockGen := newMockGenReplication(t)

	capped := ratioFollower(4, "2")
	capped.MaxOrderValue = dec("100000")

	mockGen.followers(1, ratioFollower(2, "0.5"), ratioFollower(3, "1"), capped)
	mockGen.prices.On("GetPrice", mock.Anything, "RELIANCE").Return(dec("2500"), true, nil).Once()
	mockGen.lossRepo.On("DailyLosses", mock.Anything, []int64{2, 3, 4}, mock.Anything).
		Return(map[int64]decimal.Decimal{2: decimal.Zero, 3: decimal.Zero, 4: decimal.Zero}, nil).Once()

	b := &fakeBroker{}
	res, err := mockGen.initReplicationUseCase(b, ReplicationConfig{EnforceRiskLimits: true}).Replicate(context.Background(), masterOrder())
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalFollowers)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 1, res.FailedCount)
	assert.Equal(t, 1, res.RejectedCount)
	assert.Equal(t, []int64{4}, res.FailedFollowerIDs)
	assert.Equal(t, 2, b.callCount())

	row := mockGen.rowsByFollower()[4]
	assert.Equal(t, models.OrderStatusRejected, row.Status)
	assert.Equal(t, int64(200), row.Quantity)
	assert.Contains(t, row.ErrorMessage.String, RejectExceedsOrderValue)

	assertConsistent(t, mockGen, res)
}

func TestReplicate_DailyLossAndMissingPrice(t *testing.T) {
	t.Run("daily loss reached", func(t *testing.T) {
		mockGen := newMockGenReplication(t)
		mockGen.followers(1, ratioFollower(2, "1"))
		mockGen.prices.On("GetPrice", mock.Anything, "RELIANCE").Return(dec("2500"), true, nil).Once()
		mockGen.lossRepo.On("DailyLosses", mock.Anything, []int64{2}, mock.Anything).
			Return(map[int64]decimal.Decimal{2: dec("5000000")}, nil).Once()

		b := &fakeBroker{}
		res, err := mockGen.initReplicationUseCase(b, ReplicationConfig{EnforceRiskLimits: true}).Replicate(context.Background(), masterOrder())
		require.NoError(t, err)

		assert.Equal(t, 1, res.RejectedCount)
		assert.Zero(t, b.callCount())
		assert.Contains(t, mockGen.rowsByFollower()[2].ErrorMessage.String, RejectExceedsDailyLoss)
	})

	t.Run("no price with enforcement", func(t *testing.T) {
		mockGen := newMockGenReplication(t)
		mockGen.followers(1, ratioFollower(2, "1"))
		mockGen.prices.On("GetPrice", mock.Anything, "RELIANCE").Return(decimal.Zero, false, nil).Once()
		mockGen.lossRepo.On("DailyLosses", mock.Anything, []int64{2}, mock.Anything).
			Return(map[int64]decimal.Decimal{2: decimal.Zero}, nil).Once()

		b := &fakeBroker{}
		res, err := mockGen.initReplicationUseCase(b, ReplicationConfig{EnforceRiskLimits: true}).Replicate(context.Background(), masterOrder())
		require.NoError(t, err)

		assert.Equal(t, 1, res.RejectedCount)
		assert.Zero(t, b.callCount())
		assert.Contains(t, mockGen.rowsByFollower()[2].ErrorMessage.String, RejectPriceUnavailable)
	})

	t.Run("limit price needs no lookup", func(t *testing.T) {
		mockGen := newMockGenReplication(t)
		rel := ratioFollower(2, "1")
		rel.CopyStrategy = models.CopyStrategyPercentage
		rel.Percentage = dec("10")
		rel.Balance = dec("100000")
		mockGen.followers(1, rel)

		master := masterOrder()
		master.Type = models.OrderTypeLimit
		master.Price = decimal.NewNullDecimal(dec("2400"))

		b := &fakeBroker{}
		res, err := mockGen.initReplicationUseCase(b, ReplicationConfig{}).Replicate(context.Background(), master)
		require.NoError(t, err)

		assert.Equal(t, 1, res.SuccessCount)
		assert.Equal(t, map[string]int64{"ACC2": 4}, b.quantities())
		assert.True(t, dec("2400").Equal(b.calls[0].Price))
	})
}

func TestReplicate_BrokerTimeout(t *testing.T) {
	mockGen := newMockGenReplication(t)
	mockGen.followers(1, ratioFollower(2, "1"), ratioFollower(3, "1"), ratioFollower(4, "1"))

	b := &fakeBroker{block: map[string]bool{"ACC3": true}}

	start := time.Now()
	res, err := mockGen.initReplicationUseCase(b, ReplicationConfig{OrderTimeout: 50 * time.Millisecond}).Replicate(context.Background(), masterOrder())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 1, res.FailedCount)
	assert.Zero(t, res.RejectedCount)
	assert.Equal(t, []int64{3}, res.FailedFollowerIDs)

	row := mockGen.rowsByFollower()[3]
	assert.Equal(t, models.OrderStatusFailed, row.Status)
	assert.Contains(t, row.ErrorMessage.String, structs.ReasonTimeout)

	assertConsistent(t, mockGen, res)
}

func TestReplicate_BrokerRejection(t *testing.T) {
	mockGen := newMockGenReplication(t)
	mockGen.followers(1, ratioFollower(2, "1"), ratioFollower(3, "1"))

	b := &fakeBroker{fail: map[string]error{
		"ACC2": &broker.BrokerError{Message: "insufficient margin", Code: "RMS-1"},
	}}

	res, err := mockGen.initReplicationUseCase(b, ReplicationConfig{}).Replicate(context.Background(), masterOrder())
	require.NoError(t, err)

	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, []int64{2}, res.FailedFollowerIDs)

	row := mockGen.rowsByFollower()[2]
	assert.Equal(t, models.OrderStatusFailed, row.Status)
	assert.Contains(t, row.ErrorMessage.String, "insufficient margin")

	assertConsistent(t, mockGen, res)
}

func TestReplicate_ZeroFollowers(t *testing.T) {
	mockGen := newMockGenReplication(t)
	mockGen.followers(1)

	placer := mocks.NewOrderPlacer(t)

	res, err := mockGen.initReplicationUseCase(placer, ReplicationConfig{}).Replicate(context.Background(), masterOrder())
	require.NoError(t, err)

	assert.Equal(t, 0, res.TotalFollowers)
	assert.Equal(t, 0, res.SuccessCount)
	assert.Equal(t, 0, res.FailedCount)
	assert.Zero(t, res.AvgLatencyMs)
	placer.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)

	assertConsistent(t, mockGen, res)
}

func TestReplicate_ExcludesInactiveAndDuplicates(t *testing.T) {
	mockGen := newMockGenReplication(t)

	inactive := ratioFollower(3, "1")
	inactive.IsActive = false
	manual := ratioFollower(4, "1")
	manual.AutoFollow = false
	self := ratioFollower(1, "1")

	mockGen.followers(1, ratioFollower(2, "1"), inactive, manual, self, ratioFollower(2, "3"))

	b := &fakeBroker{}
	res, err := mockGen.initReplicationUseCase(b, ReplicationConfig{}).Replicate(context.Background(), masterOrder())
	require.NoError(t, err)

	assert.Equal(t, 1, res.TotalFollowers)
	assert.Equal(t, map[string]int64{"ACC2": 100}, b.quantities())

	assertConsistent(t, mockGen, res)
}

func TestReplicate_ConcurrencyBound(t *testing.T) {
	mockGen := newMockGenReplication(t)

	rels := make([]models.FollowerRelationship, 0, 20)
	for i := int64(2); i < 22; i++ {
		rels = append(rels, fixedFollower(i, 1))
	}
	mockGen.followers(1, rels...)

	b := &fakeBroker{delay: 20 * time.Millisecond}
	res, err := mockGen.initReplicationUseCase(b, ReplicationConfig{MaxConcurrentOrders: 3}).Replicate(context.Background(), masterOrder())
	require.NoError(t, err)

	assert.Equal(t, 20, res.SuccessCount)
	assert.Equal(t, 20, b.callCount())
	assert.LessOrEqual(t, b.maxInFlight, 3)
	assert.GreaterOrEqual(t, b.maxInFlight, 2)

	assertConsistent(t, mockGen, res)
}

func TestReplicate_SessionUnavailable(t *testing.T) {
	mockGen := newMockGenReplication(t)
	mockGen.followers(1, ratioFollower(2, "1"), ratioFollower(3, "1"), ratioFollower(4, "1"))

	b := &fakeBroker{fail: map[string]error{
		"ACC2": &broker.SessionError{Err: errors.New("login failed: invalid credentials")},
	}}

	res, err := mockGen.initReplicationUseCase(b, ReplicationConfig{MaxConcurrentOrders: 1}).Replicate(context.Background(), masterOrder())
	require.NoError(t, err)

	assert.Equal(t, 1, b.callCount())
	assert.Equal(t, 0, res.SuccessCount)
	assert.Equal(t, 3, res.FailedCount)

	for id, row := range mockGen.rowsByFollower() {
		assert.Equal(t, models.OrderStatusFailed, row.Status, "follower %d", id)
		assert.Contains(t, row.ErrorMessage.String, structs.ReasonSessionUnavailable)
	}

	assertConsistent(t, mockGen, res)
}

func TestReplicate_Cancellation(t *testing.T) {
	mockGen := newMockGenReplication(t)
	mockGen.followers(1, ratioFollower(2, "1"), ratioFollower(3, "1"), ratioFollower(4, "1"))

	b := &fakeBroker{
		started: make(chan string, 3),
		release: make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		<-b.started
		cancel()
		close(b.release)
	}()

	res, err := mockGen.initReplicationUseCase(b, ReplicationConfig{MaxConcurrentOrders: 1}).Replicate(ctx, masterOrder())
	require.NoError(t, err)

	// the in-flight call finishes, the rest never reaches the broker
	assert.Equal(t, 1, b.callCount())
	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 2, res.FailedCount)

	rows := mockGen.rowsByFollower()
	var cancelled []int64
	for id, row := range rows {
		if row.Status == models.OrderStatusFailed {
			assert.Contains(t, row.ErrorMessage.String, structs.ReasonRunCancelled)
			cancelled = append(cancelled, id)
		}
	}
	sort.Slice(cancelled, func(i, j int) bool { return cancelled[i] < cancelled[j] })
	assert.Equal(t, res.FailedFollowerIDs, cancelled)

	assertConsistent(t, mockGen, res)
}

func TestReplicate_ResolverFailure(t *testing.T) {
	mockGen := &mockGenReplication{
		relationshipRepo: pgMocks.NewRelationshipRepo(t),
		metricsRepo:      pgMocks.NewMetricsRepo(t),
		notifier:         mocks.NewNotifier(t),
	}
	mockGen.initLogger()

	mockGen.relationshipRepo.On("ListActiveFollowers", mock.Anything, int64(1)).
		Return(nil, errors.New("connection refused")).Once()

	_, err := mockGen.initReplicationUseCase(&fakeBroker{}, ReplicationConfig{}).Replicate(context.Background(), masterOrder())
	assert.Error(t, err)
}

func TestReplicate_InvalidMaster(t *testing.T) {
	mockGen := &mockGenReplication{}
	mockGen.initLogger()
	u := mockGen.initReplicationUseCase(&fakeBroker{}, ReplicationConfig{})

	follower := masterOrder()
	follower.IsMasterOrder = false

	_, err := u.Replicate(context.Background(), follower)
	assert.ErrorIs(t, err, ErrInvalidMasterOrder)

	_, err = u.Replicate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidMasterOrder)
}

func TestReplicate_MetricsStoreFailure(t *testing.T) {
	newMockGen := func(t *testing.T, storeErr error) *mockGenReplication {
		mockGen := &mockGenReplication{
			relationshipRepo: pgMocks.NewRelationshipRepo(t),
			orderRepo:        pgMocks.NewOrderRepo(t),
			metricsRepo:      pgMocks.NewMetricsRepo(t),
			scripRepo:        pgMocks.NewScripRepo(t),
			notifier:         mocks.NewNotifier(t),
		}
		mockGen.initLogger()
		mockGen.orderMocks()

		mockGen.followers(1, ratioFollower(2, "1"))
		mockGen.metricsRepo.On("Store", mock.Anything, mock.Anything).Return(storeErr).Once()
		mockGen.notifier.On("Publish", mock.Anything, mock.Anything).Return(errors.New("sink down")).Once()

		return mockGen
	}

	t.Run("store error", func(t *testing.T) {
		mockGen := newMockGen(t, errors.New("disk full"))

		res, err := mockGen.initReplicationUseCase(&fakeBroker{}, ReplicationConfig{}).Replicate(context.Background(), masterOrder())
		assert.ErrorIs(t, err, ErrMetricsNotStored)
		require.NotNil(t, res)
		assert.Equal(t, 1, res.SuccessCount)
	})

	t.Run("already stored", func(t *testing.T) {
		mockGen := newMockGen(t, postgres.ErrMetricsExist)

		res, err := mockGen.initReplicationUseCase(&fakeBroker{}, ReplicationConfig{}).Replicate(context.Background(), masterOrder())
		assert.NoError(t, err)
		assert.Equal(t, 1, res.SuccessCount)
	})
}

func TestReplicate_MetricsAndPublishBudgets(t *testing.T) {
	mockGen := &mockGenReplication{
		relationshipRepo: pgMocks.NewRelationshipRepo(t),
		orderRepo:        pgMocks.NewOrderRepo(t),
		metricsRepo:      pgMocks.NewMetricsRepo(t),
		scripRepo:        pgMocks.NewScripRepo(t),
		notifier:         mocks.NewNotifier(t),
	}
	mockGen.initLogger()
	mockGen.orderMocks()
	mockGen.followers(1, ratioFollower(2, "1"))

	const slowStore = 200 * time.Millisecond

	mockGen.metricsRepo.On("Store", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(slowStore) }).
		Return(nil).Once()

	var publishBudget time.Duration
	mockGen.notifier.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			deadline, ok := args.Get(0).(context.Context).Deadline()
			require.True(t, ok)
			publishBudget = time.Until(deadline)
		}).
		Return(nil).Once()

	_, err := mockGen.initReplicationUseCase(&fakeBroker{}, ReplicationConfig{}).Replicate(context.Background(), masterOrder())
	require.NoError(t, err)

	// a slow metrics insert does not eat into the notify timeout
	assert.Greater(t, publishBudget, storeTimeout-slowStore/2)
}

func TestReplicate_ReplayedRun(t *testing.T) {
	t.Run("recorded followers never reach the broker", func(t *testing.T) {
		mockGen := newMockGenReplication(t)
		mockGen.recorded = map[int64]bool{2: true, 3: true}
		mockGen.followers(1, ratioFollower(2, "1"), ratioFollower(3, "1"), ratioFollower(4, "1"))

		b := &fakeBroker{}
		res, err := mockGen.initReplicationUseCase(b, ReplicationConfig{}).Replicate(context.Background(), masterOrder())
		require.NoError(t, err)

		assert.Equal(t, map[string]int64{"ACC4": 100}, b.quantities())
		assert.Equal(t, 1, res.TotalFollowers)
		assert.Equal(t, 1, res.SuccessCount)
		assert.Equal(t, 2, res.SkippedCount)
		assert.Equal(t, []int64{4}, res.SucceededFollowerIDs)

		rows := mockGen.rowsByFollower()
		assert.NotContains(t, rows, int64(2))
		assert.NotContains(t, rows, int64(3))

		assertConsistent(t, mockGen, res)
	})

	t.Run("fully recorded run stores nothing", func(t *testing.T) {
		mockGen := &mockGenReplication{
			relationshipRepo: pgMocks.NewRelationshipRepo(t),
			orderRepo:        pgMocks.NewOrderRepo(t),
			metricsRepo:      pgMocks.NewMetricsRepo(t),
			scripRepo:        pgMocks.NewScripRepo(t),
			notifier:         mocks.NewNotifier(t),
			recorded:         map[int64]bool{2: true, 3: true},
		}
		mockGen.initLogger()
		mockGen.orderMocks()
		mockGen.followers(1, ratioFollower(2, "1"), ratioFollower(3, "1"))

		placer := mocks.NewOrderPlacer(t)

		res, err := mockGen.initReplicationUseCase(placer, ReplicationConfig{}).Replicate(context.Background(), masterOrder())
		require.NoError(t, err)

		assert.Equal(t, 0, res.TotalFollowers)
		assert.Equal(t, 2, res.SkippedCount)
		assert.Empty(t, mockGen.rowsByFollower())
		placer.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
		mockGen.metricsRepo.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
		mockGen.notifier.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("claim failure places nothing", func(t *testing.T) {
		mockGen := &mockGenReplication{
			relationshipRepo: pgMocks.NewRelationshipRepo(t),
			orderRepo:        pgMocks.NewOrderRepo(t),
			metricsRepo:      pgMocks.NewMetricsRepo(t),
			notifier:         mocks.NewNotifier(t),
		}
		mockGen.initLogger()
		mockGen.followers(1, ratioFollower(2, "1"))
		mockGen.orderRepo.On("ClaimFollowerOrders", mock.Anything, mock.Anything, []int64{2}).
			Return(nil, errors.New("connection reset")).Once()

		placer := mocks.NewOrderPlacer(t)

		_, err := mockGen.initReplicationUseCase(placer, ReplicationConfig{}).Replicate(context.Background(), masterOrder())
		assert.ErrorIs(t, err, ErrClaimFailed)
		placer.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
	})
}

func TestReplicate_DailyLossUnavailable(t *testing.T) {
	t.Run("redis down", func(t *testing.T) {
		mockGen := newMockGenReplication(t)
		mockGen.followers(1, ratioFollower(2, "1"), ratioFollower(3, "1"))
		mockGen.prices.On("GetPrice", mock.Anything, "RELIANCE").Return(dec("2500"), true, nil).Once()
		mockGen.lossRepo.On("DailyLosses", mock.Anything, []int64{2, 3}, mock.Anything).
			Return(nil, errors.New("redis MGET daily_loss: connection refused")).Once()

		b := &fakeBroker{}
		res, err := mockGen.initReplicationUseCase(b, ReplicationConfig{EnforceRiskLimits: true}).Replicate(context.Background(), masterOrder())
		require.NoError(t, err)

		assert.Zero(t, b.callCount())
		assert.Equal(t, 2, res.FailedCount)
		assert.Zero(t, res.RejectedCount)
		for id, row := range mockGen.rowsByFollower() {
			assert.Contains(t, row.ErrorMessage.String, structs.ReasonRiskDataMissing, "follower %d", id)
			assert.Contains(t, row.ErrorMessage.String, "connection refused", "follower %d", id)
		}

		assertConsistent(t, mockGen, res)
	})

	t.Run("unreadable value for one follower", func(t *testing.T) {
		mockGen := newMockGenReplication(t)
		mockGen.followers(1, ratioFollower(2, "1"), ratioFollower(3, "1"))
		mockGen.prices.On("GetPrice", mock.Anything, "RELIANCE").Return(dec("2500"), true, nil).Once()
		mockGen.lossRepo.On("DailyLosses", mock.Anything, []int64{2, 3}, mock.Anything).
			Return(map[int64]decimal.Decimal{2: decimal.Zero}, nil).Once()

		b := &fakeBroker{}
		res, err := mockGen.initReplicationUseCase(b, ReplicationConfig{EnforceRiskLimits: true}).Replicate(context.Background(), masterOrder())
		require.NoError(t, err)

		assert.Equal(t, map[string]int64{"ACC2": 100}, b.quantities())
		assert.Equal(t, []int64{3}, res.FailedFollowerIDs)
		assert.Contains(t, mockGen.rowsByFollower()[3].ErrorMessage.String, structs.ReasonRiskDataMissing)

		assertConsistent(t, mockGen, res)
	})
}
