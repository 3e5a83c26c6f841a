package app

import (
	"context"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/paylink-backend/internal/platform/logger"
	"github.com/yungbote/paylink-backend/internal/realtime"
	"github.com/yungbote/paylink-backend/internal/realtime/bus"
	"github.com/yungbote/paylink-backend/internal/services"
)

type Services struct {
	PaymentRequest services.PaymentRequestService
	Settlement     services.SettlementService
	StatusSync     services.StatusSynchronizer
	Notifier       services.PaymentNotifier
	Rail           services.PaymentRail
	Bus            bus.Bus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, hub *realtime.SSEHub) (Services, error) {
	log.Info("Wiring services...")

	var emitter services.SSEEmitter = &services.HubEmitter{Hub: hub}
	var sseBus bus.Bus
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		b, err := bus.NewRedisBus(log)
		if err != nil {
			return Services{}, err
		}
		if err := b.StartForwarder(context.Background(), hub.Broadcast); err != nil {
			return Services{}, err
		}
		sseBus = b
		emitter = &services.RedisEmitter{Bus: b}
	}

	notifier := services.NewPaymentNotifier(emitter)
	requestService := services.NewPaymentRequestService(db, log, reposet.PaymentRequest, reposet.ParticipantStatus, notifier)
	statusSync := services.NewStatusSynchronizer(log, hub, requestService, notifier)
	settlement := services.NewSettlementService(
		db,
		log,
		reposet.PaymentRequest,
		reposet.ParticipantStatus,
		reposet.LedgerEntry,
		statusSync,
		cfg.CommitAttempts,
	)
	rail := services.NewUPIRail(log)

	return Services{
		PaymentRequest: requestService,
		Settlement:     settlement,
		StatusSync:     statusSync,
		Notifier:       notifier,
		Rail:           rail,
		Bus:            sseBus,
	}, nil
}
