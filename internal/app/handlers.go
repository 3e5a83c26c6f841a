package app

import (
	"github.com/yungbote/paylink-backend/internal/handlers"
	"github.com/yungbote/paylink-backend/internal/platform/logger"
	"github.com/yungbote/paylink-backend/internal/realtime"
)

type Handlers struct {
	PaymentRequest *handlers.PaymentRequestHandler
	SSE            *handlers.SSEHandler
}

func wireHandlers(log *logger.Logger, services Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		PaymentRequest: handlers.NewPaymentRequestHandler(services.PaymentRequest, services.Settlement, services.Rail),
		SSE:            handlers.NewSSEHandler(log, hub, services.StatusSync),
	}
}
