package usecasees

import (
	"context"
	"errors"
	"sync"

	"copytrading/models"

	"github.com/sirupsen/logrus"
)

const (
	DefaultQueueSize    = 1024
	DefaultQueueWorkers = 4
)

var (
	ErrQueueFull   = errors.New("replication queue is full")
	ErrQueueClosed = errors.New("replication queue is closed")
)

// ReplicationQueue hands committed master orders to a fixed set of
// replication workers.
type ReplicationQueue struct {
	replicator Replicator
	items      chan *models.Order
	workers    int

	mu     sync.RWMutex
	closed bool

	metrics *Metrics
	logger  *logrus.Logger
}

func NewReplicationQueue(replicator Replicator, size, workers int, metrics *Metrics, logger *logrus.Logger) *ReplicationQueue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if workers <= 0 {
		workers = DefaultQueueWorkers
	}

	return &ReplicationQueue{
		replicator: replicator,
		items:      make(chan *models.Order, size),
		workers:    workers,
		metrics:    metrics,
		logger:     logger,
	}
}

// Enqueue never blocks; a saturated queue refuses the order.
func (q *ReplicationQueue) Enqueue(master *models.Order) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.items <- master:
		q.metrics.queueDepth.Inc()
		return nil
	default:
		q.metrics.queueDropped.Inc()
		q.logger.WithField("masterOrderID", master.ID).Error("replication queue full, order not replicated")
		return ErrQueueFull
	}
}

func (q *ReplicationQueue) Len() int {
	return len(q.items)
}

// Run consumes the queue until ctx is done, then drains what was already
// accepted and returns.
func (q *ReplicationQueue) Run(ctx context.Context) error {
	runCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i := 0; i < q.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			q.consume(runCtx, worker)
		}(i)
	}

	<-ctx.Done()

	q.mu.Lock()
	q.closed = true
	close(q.items)
	q.mu.Unlock()

	q.logger.WithField("pending", len(q.items)).Info("replication queue draining")

	wg.Wait()

	return nil
}

func (q *ReplicationQueue) consume(ctx context.Context, worker int) {
	for master := range q.items {
		q.metrics.queueDepth.Dec()

		result, err := q.replicator.Replicate(ctx, master)
		if err != nil {
			q.logger.
				WithError(err).
				WithField("worker", worker).
				WithField("masterOrderID", master.ID).
				Error("replication failed")
		}
		if result != nil {
			q.logger.
				WithField("worker", worker).
				WithField("masterOrderID", master.ID).
				WithField("success", result.SuccessCount).
				WithField("total", result.TotalFollowers).
				Debug("replication done")
		}
	}
}
