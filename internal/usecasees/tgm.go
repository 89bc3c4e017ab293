package usecasees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"copytrading/internal/controllers"
	"copytrading/internal/repository/postgres"
	"copytrading/internal/repository/redis"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type QueueLen interface {
	Len() int
}

// tgmUseCase answers operator commands in the configured chat.
type tgmUseCase struct {
	metricsRepo   postgres.MetricsRepo
	lossRepo      redis.LossRepo
	queue         QueueLen
	tgmController controllers.TgmCtrl
	loc           *time.Location
	now           func() time.Time
	logger        *logrus.Logger
}

func NewTgmUseCase(
	metricsRepo postgres.MetricsRepo,
	lossRepo redis.LossRepo,
	queue QueueLen,
	tgmController controllers.TgmCtrl,
	logger *logrus.Logger,
) *tgmUseCase {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		logger.WithField("method", "NewTgmUseCase").Debug(err)
		loc = time.UTC
	}

	return &tgmUseCase{
		metricsRepo:   metricsRepo,
		lossRepo:      lossRepo,
		queue:         queue,
		tgmController: tgmController,
		loc:           loc,
		now:           time.Now,
		logger:        logger,
	}
}

func (u *tgmUseCase) CommandProcessor(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if !u.tgmController.CheckChatID(update.Message.Chat.ID) {
				continue
			}
			u.Handle(ctx, update.Message.Command(), update.Message.CommandArguments())
		}
	}
}

func (u *tgmUseCase) Handle(ctx context.Context, command, args string) {
	var msg string

	switch command {
	case "ping":
		msg = fmt.Sprintf("PONG [ %s ]", u.now().In(u.loc).Format(time.RFC822))
	case "queue":
		msg = fmt.Sprintf("[ Queue ]\npending:\t%d", u.queue.Len())
	case "stat":
		msg = u.statProc(ctx, args)
	case "loss":
		msg = u.lossProc(ctx, args)
	default:
		return
	}

	if err := u.tgmController.Send(msg); err != nil {
		u.logger.
			WithError(err).
			WithField("command", command).
			Error("telegram reply failed")
	}
}

func (u *tgmUseCase) statProc(ctx context.Context, args string) string {
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		return "usage: /stat <master order id>"
	}

	m, err := u.metricsRepo.GetByMasterOrderID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Sprintf("order #%d: no replication yet", id)
	}
	if err != nil {
		u.logger.WithError(err).WithField("masterOrderID", id).Error("load replication metrics")
		return fmt.Sprintf("order #%d: %v", id, err)
	}

	return fmt.Sprintf(
		"[ Replication Stat ]\n"+
			"order:\t#%d\n"+
			"followers:\t%d\n"+
			"success:\t%d\n"+
			"failed:\t%d\n"+
			"rate:\t%.1f%%\n"+
			"avgLatencyMs:\t%s\n",
		m.MasterOrderID,
		m.TotalFollowers,
		m.SuccessfulReplications,
		m.FailedReplications,
		m.SuccessRate(),
		m.AverageLatencyMs.StringFixed(1),
	)
}

// lossProc shows the daily loss of a follower or, given an amount, books it.
// Days follow the clock the replication engine keys losses by.
func (u *tgmUseCase) lossProc(ctx context.Context, args string) string {
	const usage = "usage: /loss <follower id> [amount]"

	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return usage
	}

	followerID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return usage
	}

	day := u.now()
	log := u.logger.WithField("followerID", followerID)

	if len(fields) == 1 {
		losses, err := u.lossRepo.DailyLosses(ctx, []int64{followerID}, day)
		if err != nil {
			log.WithError(err).Error("read daily loss")
			return fmt.Sprintf("follower #%d: %v", followerID, err)
		}

		loss, ok := losses[followerID]
		if !ok {
			return fmt.Sprintf("follower #%d: stored loss unreadable", followerID)
		}

		return fmt.Sprintf("[ Daily Loss ]\nfollower:\t#%d\nloss:\t%s\n", followerID, loss.StringFixed(2))
	}

	amount, err := decimal.NewFromString(fields[1])
	if err != nil || !amount.IsPositive() {
		return usage
	}

	total, err := u.lossRepo.AddLoss(ctx, followerID, day, amount)
	if err != nil {
		log.WithError(err).Error("book daily loss")
		return fmt.Sprintf("follower #%d: %v", followerID, err)
	}

	log.WithField("amount", amount.String()).WithField("total", total.String()).Info("daily loss booked")

	return fmt.Sprintf(
		"[ Daily Loss ]\n"+
			"follower:\t#%d\n"+
			"booked:\t%s\n"+
			"loss:\t%s\n",
		followerID,
		amount.StringFixed(2),
		total.StringFixed(2),
	)
}
