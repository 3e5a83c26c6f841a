package services

import (
	"github.com/google/uuid"

	types "github.com/yungbote/paylink-backend/internal/domain"
)

type SettlementDecision int

const (
	// DecisionCommit: the participant has not settled; the atomic commit may
	// proceed.
	DecisionCommit SettlementDecision = iota
	// DecisionAlreadySettled: a ledger entry already exists for this
	// participant; the caller's intent is satisfied and no write may happen.
	DecisionAlreadySettled
)

// DecideSettlement is the idempotency guard. It is the only gate through
// which a ledger entry can be created: the coordinator consults it before
// every commit attempt, against the freshest persisted row it holds.
//
// A PAID row is terminal no matter what else it carries; the bound ledger
// entry id is returned so duplicate confirmations observe the same entry.
func DecideSettlement(row *types.ParticipantStatus) (SettlementDecision, uuid.UUID) {
	if row == nil {
		return DecisionCommit, uuid.Nil
	}
	if row.Status != types.ParticipantPaid {
		return DecisionCommit, uuid.Nil
	}
	if row.LedgerEntryID != nil {
		return DecisionAlreadySettled, *row.LedgerEntryID
	}
	return DecisionAlreadySettled, uuid.Nil
}
