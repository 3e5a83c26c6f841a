package services

import (
	"github.com/google/uuid"

	types "github.com/yungbote/paylink-backend/internal/domain"
)

// Snapshot is the full observable state of one payment request. It is
// derived fresh from the store on every call and never cached.
type Snapshot struct {
	Request            *types.PaymentRequest      `json:"request"`
	Participants       []*types.ParticipantStatus `json:"participants"`
	PaidCount          int                        `json:"paid_count"`
	IsFullyPaid        bool                       `json:"is_fully_paid"`
	UnpaidParticipants []uuid.UUID                `json:"unpaid_participants"`
}

func buildSnapshot(req *types.PaymentRequest, rows []*types.ParticipantStatus) *Snapshot {
	return &Snapshot{
		Request:            req,
		Participants:       rows,
		PaidCount:          types.PaidCount(rows),
		IsFullyPaid:        types.IsFullyPaid(rows),
		UnpaidParticipants: types.UnpaidParticipants(rows),
	}
}
