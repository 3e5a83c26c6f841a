package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/paylink-backend/internal/domain"
	"github.com/yungbote/paylink-backend/internal/realtime"
)

// PaymentNotifier turns committed domain events into SSE messages on the
// request's channel.
type PaymentNotifier interface {
	RequestCreated(ctx context.Context, req *types.PaymentRequest, snap *Snapshot)
	StatusChanged(ctx context.Context, requestID, participantID uuid.UUID, snap *Snapshot)
	RequestSettled(ctx context.Context, requestID uuid.UUID, snap *Snapshot)
}

type paymentNotifier struct {
	emit SSEEmitter
}

func NewPaymentNotifier(emit SSEEmitter) PaymentNotifier {
	return &paymentNotifier{emit: emit}
}

func (n *paymentNotifier) RequestCreated(ctx context.Context, req *types.PaymentRequest, snap *Snapshot) {
	if n == nil || n.emit == nil || req == nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: req.ID.String(),
		Event:   realtime.SSEEventPaymentRequestCreated,
		Data: map[string]any{
			"request_id": req.ID,
			"snapshot":   snap,
		},
	})
}

func (n *paymentNotifier) StatusChanged(ctx context.Context, requestID, participantID uuid.UUID, snap *Snapshot) {
	if n == nil || n.emit == nil || requestID == uuid.Nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: requestID.String(),
		Event:   realtime.SSEEventParticipantStatusChange,
		Data: map[string]any{
			"request_id":     requestID,
			"participant_id": participantID,
			"snapshot":       snap,
		},
	})
}

func (n *paymentNotifier) RequestSettled(ctx context.Context, requestID uuid.UUID, snap *Snapshot) {
	if n == nil || n.emit == nil || requestID == uuid.Nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: requestID.String(),
		Event:   realtime.SSEEventPaymentRequestSettled,
		Data: map[string]any{
			"request_id": requestID,
			"snapshot":   snap,
		},
	})
}
