package payments

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LedgerEntry is the downstream financial record for one confirmed payment.
// Exactly one exists per PAID participant; rows are append-only and never
// updated or deleted.
type LedgerEntry struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"request_id"`
	PayerID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"payer_id"`
	RequesterID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"requester_id"`
	Amount       int64          `gorm:"column:amount;not null" json:"amount"`
	Currency     string         `gorm:"column:currency;not null" json:"currency"`
	Note         string         `gorm:"column:note" json:"note,omitempty"`
	Participants datatypes.JSON `gorm:"column:participants;type:jsonb" json:"participants"`
	CreatedAt    time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (LedgerEntry) TableName() string { return "ledger_entry" }
