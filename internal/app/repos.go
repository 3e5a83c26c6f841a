package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/paylink-backend/internal/data/repos"
	"github.com/yungbote/paylink-backend/internal/platform/logger"
)

type Repos struct {
	PaymentRequest    repos.PaymentRequestRepo
	ParticipantStatus repos.ParticipantStatusRepo
	LedgerEntry       repos.LedgerEntryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		PaymentRequest:    repos.NewPaymentRequestRepo(db, log),
		ParticipantStatus: repos.NewParticipantStatusRepo(db, log),
		LedgerEntry:       repos.NewLedgerEntryRepo(db, log),
	}
}
