package payments

import (
	"time"

	"github.com/google/uuid"
)

const (
	ParticipantPending   = "PENDING"
	ParticipantPaid      = "PAID"
	ParticipantCancelled = "CANCELLED"
	ParticipantFailed    = "FAILED"
)

// ParticipantStatus is one participant's settlement state on a request.
// Rows are created in PENDING alongside the request and mutated only through
// the settlement coordinator's conditional writes. LedgerEntryID is set iff
// Status is PAID and never changes afterwards.
type ParticipantStatus struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_request_participant,priority:1" json:"request_id"`
	ParticipantID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_request_participant,priority:2" json:"participant_id"`
	Status        string     `gorm:"column:status;not null;index" json:"status"`
	AmountOwed    int64      `gorm:"column:amount_owed;not null" json:"amount_owed"`
	PaidAt        *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`
	LedgerEntryID *uuid.UUID `gorm:"type:uuid;column:ledger_entry_id" json:"ledger_entry_id,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (ParticipantStatus) TableName() string { return "participant_status" }

// PaidCount counts participants whose status is PAID.
func PaidCount(rows []*ParticipantStatus) int {
	n := 0
	for _, r := range rows {
		if r != nil && r.Status == ParticipantPaid {
			n++
		}
	}
	return n
}

// IsFullyPaid reports whether every participant has settled. Derived on every
// call; completion is never stored on the request row.
func IsFullyPaid(rows []*ParticipantStatus) bool {
	if len(rows) == 0 {
		return false
	}
	return PaidCount(rows) == len(rows)
}

// UnpaidParticipants returns the ids of all participants not yet PAID.
func UnpaidParticipants(rows []*ParticipantStatus) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		if r == nil {
			continue
		}
		if r.Status != ParticipantPaid {
			out = append(out, r.ParticipantID)
		}
	}
	return out
}
