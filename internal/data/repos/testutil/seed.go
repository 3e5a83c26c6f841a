package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/paylink-backend/internal/domain"
	"gorm.io/gorm"
)

// SeedRequest creates a payment request with one PENDING participant row per
// id in participantIDs, each owing amountOwed.
func SeedRequest(tb testing.TB, ctx context.Context, tx *gorm.DB, requesterID uuid.UUID, participantIDs []uuid.UUID, amountOwed int64) *types.PaymentRequest {
	tb.Helper()
	now := time.Now().UTC()
	req := &types.PaymentRequest{
		ID:          uuid.New(),
		RequesterID: requesterID,
		Amount:      amountOwed * int64(len(participantIDs)),
		Currency:    "INR",
		Note:        "seed",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.WithContext(ctx).Create(req).Error; err != nil {
		tb.Fatalf("seed payment request: %v", err)
	}
	for _, pid := range participantIDs {
		row := &types.ParticipantStatus{
			ID:            uuid.New(),
			RequestID:     req.ID,
			ParticipantID: pid,
			Status:        types.ParticipantPending,
			AmountOwed:    amountOwed,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.WithContext(ctx).Create(row).Error; err != nil {
			tb.Fatalf("seed participant status: %v", err)
		}
	}
	return req
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
