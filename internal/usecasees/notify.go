package usecasees

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"copytrading/internal/controllers"
	"copytrading/internal/usecasees/structs"

	"github.com/sirupsen/logrus"
)

// notifyUseCase fans replication results out to the connected users, the
// operator chat and the event stream. Any sink may be nil.
type notifyUseCase struct {
	pusher    UserPusher
	tgm       controllers.TgmCtrl
	publisher controllers.PublisherCtrl

	logger *logrus.Logger
}

func NewNotifyUseCase(
	pusher UserPusher,
	tgm controllers.TgmCtrl,
	publisher controllers.PublisherCtrl,
	logger *logrus.Logger,
) *notifyUseCase {
	return &notifyUseCase{
		pusher:    pusher,
		tgm:       tgm,
		publisher: publisher,
		logger:    logger,
	}
}

type replicationComplete struct {
	MasterOrderID  int64   `json:"master_order_id"`
	Symbol         string  `json:"symbol"`
	Side           string  `json:"side"`
	Quantity       int64   `json:"quantity"`
	TotalFollowers int     `json:"total_followers"`
	SuccessCount   int     `json:"success_count"`
	FailedCount    int     `json:"failed_count"`
	RejectedCount  int     `json:"rejected_count"`
	AvgLatencyMs   float64 `json:"avg_latency_ms"`
}

type orderReplicated struct {
	MasterOrderID int64  `json:"master_order_id"`
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	Quantity      int64  `json:"quantity"`
	Status        string `json:"status"`
	BrokerOrderID string `json:"broker_order_id,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// Publish delivers event to every sink. Sink failures are joined into the
// returned error; a failing sink never stops the others.
func (u *notifyUseCase) Publish(ctx context.Context, event *structs.ReplicationEvent) error {
	var errs []error

	if u.pusher != nil {
		if err := u.pushReplication(event); err != nil {
			errs = append(errs, err)
		}
	}

	if u.tgm != nil {
		if err := u.tgm.Send(replicationSummary(event)); err != nil {
			errs = append(errs, fmt.Errorf("telegram: %w", err))
		}
	}

	if u.publisher != nil {
		body, err := json.Marshal(event)
		if err != nil {
			errs = append(errs, fmt.Errorf("marshal event: %w", err))
		} else if err := u.publisher.Publish(ctx, []byte(strconv.FormatInt(event.MasterOrderID, 10)), body); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (u *notifyUseCase) pushReplication(event *structs.ReplicationEvent) error {
	res := event.Result

	var errs []error

	if err := u.push(event.MasterID, structs.MessageReplicationComplete, replicationComplete{
		MasterOrderID:  event.MasterOrderID,
		Symbol:         event.Symbol,
		Side:           string(event.Side),
		Quantity:       event.Quantity,
		TotalFollowers: res.TotalFollowers,
		SuccessCount:   res.SuccessCount,
		FailedCount:    res.FailedCount,
		RejectedCount:  res.RejectedCount,
		AvgLatencyMs:   res.AvgLatencyMs,
	}); err != nil {
		errs = append(errs, err)
	}

	for _, o := range event.Outcomes {
		if err := u.push(o.FollowerID, structs.MessageOrderReplicated, orderReplicated{
			MasterOrderID: event.MasterOrderID,
			Symbol:        event.Symbol,
			Side:          string(event.Side),
			Quantity:      o.Quantity,
			Status:        o.Status.ToString(),
			BrokerOrderID: o.BrokerOrderID,
			Reason:        o.Reason,
		}); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (u *notifyUseCase) NotifyOrderUpdate(ctx context.Context, userID int64, update *structs.OrderUpdate) error {
	if u.pusher == nil {
		return nil
	}
	return u.push(userID, structs.MessageOrderUpdate, update)
}

func (u *notifyUseCase) push(userID int64, msgType string, data interface{}) error {
	payload, err := json.Marshal(structs.Message{Type: msgType, Data: data})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msgType, err)
	}

	n, err := u.pusher.Send(userID, payload)
	if err != nil {
		return fmt.Errorf("push %s to user %d: %w", msgType, userID, err)
	}

	u.logger.
		WithField("userID", userID).
		WithField("type", msgType).
		WithField("connections", n).
		Debug("pushed")

	return nil
}

func replicationSummary(event *structs.ReplicationEvent) string {
	res := event.Result

	var b strings.Builder
	fmt.Fprintf(&b, "[ Replication ]\nOrder #%d %s %d %s\n", event.MasterOrderID, event.Side, event.Quantity, event.Symbol)
	fmt.Fprintf(&b, "Followers: %d\nSuccess: %d\nFailed: %d (rejected %d)\n", res.TotalFollowers, res.SuccessCount, res.FailedCount, res.RejectedCount)
	fmt.Fprintf(&b, "Avg latency: %.1f ms\nTotal: %.1f ms", res.AvgLatencyMs, res.TotalDurationMs)

	return b.String()
}
