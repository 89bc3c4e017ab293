package usecasees

import (
	"sort"
	"time"

	"copytrading/internal/usecasees/structs"
	"copytrading/models"

	"github.com/shopspring/decimal"
)

// aggregator folds the outcome stream of one run into its result. It is
// owned by a single goroutine.
type aggregator struct {
	result     structs.ReplicationResult
	outcomes   []structs.Outcome
	latencySum float64
	start      time.Time
}

func newAggregator(runID string, masterOrderID int64, total int, start time.Time) *aggregator {
	return &aggregator{
		result: structs.ReplicationResult{
			RunID:                runID,
			MasterOrderID:        masterOrderID,
			TotalFollowers:       total,
			SucceededFollowerIDs: []int64{},
			FailedFollowerIDs:    []int64{},
		},
		outcomes: make([]structs.Outcome, 0, total),
		start:    start,
	}
}

func (a *aggregator) add(o structs.Outcome) {
	a.outcomes = append(a.outcomes, o)

	switch {
	case o.Status.Succeeded():
		a.result.SuccessCount++
		a.result.SucceededFollowerIDs = append(a.result.SucceededFollowerIDs, o.FollowerID)
		a.latencySum += o.LatencyMs
	case o.Status == models.OrderStatusRejected:
		a.result.RejectedCount++
		a.result.FailedCount++
		a.result.FailedFollowerIDs = append(a.result.FailedFollowerIDs, o.FollowerID)
	default:
		a.result.FailedCount++
		a.result.FailedFollowerIDs = append(a.result.FailedFollowerIDs, o.FollowerID)
	}
}

// skip counts followers left out because an earlier run already claimed
// them.
func (a *aggregator) skip(n int) {
	a.result.SkippedCount += n
}

func (a *aggregator) finish(end time.Time) *structs.ReplicationResult {
	if a.result.SuccessCount > 0 {
		a.result.AvgLatencyMs = a.latencySum / float64(a.result.SuccessCount)
	}
	a.result.TotalDurationMs = float64(end.Sub(a.start).Microseconds()) / 1000

	sort.Slice(a.result.SucceededFollowerIDs, func(i, j int) bool {
		return a.result.SucceededFollowerIDs[i] < a.result.SucceededFollowerIDs[j]
	})
	sort.Slice(a.result.FailedFollowerIDs, func(i, j int) bool {
		return a.result.FailedFollowerIDs[i] < a.result.FailedFollowerIDs[j]
	})
	sort.Slice(a.outcomes, func(i, j int) bool {
		return a.outcomes[i].FollowerID < a.outcomes[j].FollowerID
	})

	out := a.result
	return &out
}

func (a *aggregator) metrics() *models.ReplicationMetrics {
	return &models.ReplicationMetrics{
		MasterOrderID:          a.result.MasterOrderID,
		TotalFollowers:         a.result.TotalFollowers,
		SuccessfulReplications: a.result.SuccessCount,
		FailedReplications:     a.result.FailedCount,
		AverageLatencyMs:       decimal.NewFromFloat(a.result.AvgLatencyMs).Round(2),
		TotalReplicationTimeMs: decimal.NewFromFloat(a.result.TotalDurationMs).Round(2),
	}
}
