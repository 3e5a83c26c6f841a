package realtime

type SSEEvent string

const (
	SSEEventPaymentRequestCreated   SSEEvent = "PaymentRequestCreated"
	SSEEventParticipantStatusChange SSEEvent = "ParticipantStatusChanged"
	SSEEventPaymentRequestSettled   SSEEvent = "PaymentRequestSettled"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}
