package domain

import (
	"github.com/yungbote/paylink-backend/internal/domain/payments"
)

type PaymentRequest = payments.PaymentRequest
type ParticipantStatus = payments.ParticipantStatus
type LedgerEntry = payments.LedgerEntry

const (
	ParticipantPending   = payments.ParticipantPending
	ParticipantPaid      = payments.ParticipantPaid
	ParticipantCancelled = payments.ParticipantCancelled
	ParticipantFailed    = payments.ParticipantFailed
)

var (
	PaidCount          = payments.PaidCount
	IsFullyPaid        = payments.IsFullyPaid
	UnpaidParticipants = payments.UnpaidParticipants
)
