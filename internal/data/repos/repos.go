package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/paylink-backend/internal/data/repos/payments"
	"github.com/yungbote/paylink-backend/internal/platform/logger"
)

type PaymentRequestRepo = payments.PaymentRequestRepo
type ParticipantStatusRepo = payments.ParticipantStatusRepo
type LedgerEntryRepo = payments.LedgerEntryRepo

func NewPaymentRequestRepo(db *gorm.DB, baseLog *logger.Logger) PaymentRequestRepo {
	return payments.NewPaymentRequestRepo(db, baseLog)
}

func NewParticipantStatusRepo(db *gorm.DB, baseLog *logger.Logger) ParticipantStatusRepo {
	return payments.NewParticipantStatusRepo(db, baseLog)
}

func NewLedgerEntryRepo(db *gorm.DB, baseLog *logger.Logger) LedgerEntryRepo {
	return payments.NewLedgerEntryRepo(db, baseLog)
}
