package payments

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentRequest is the aggregate root: one party asking one or more
// counterparties for money. Amount, currency, note and the participant set
// are immutable after creation; the row is never hard-deleted (DeletedAt
// doubles as the archival marker).
type PaymentRequest struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RequesterID uuid.UUID      `gorm:"type:uuid;not null;index" json:"requester_id"`
	Amount      int64          `gorm:"column:amount;not null" json:"amount"`
	Currency    string         `gorm:"column:currency;not null" json:"currency"`
	Note        string         `gorm:"column:note" json:"note,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PaymentRequest) TableName() string { return "payment_request" }
