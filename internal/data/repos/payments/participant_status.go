package payments

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/paylink-backend/internal/domain"
	"github.com/yungbote/paylink-backend/internal/platform/dbctx"
	"github.com/yungbote/paylink-backend/internal/platform/logger"
)

type ParticipantStatusRepo interface {
	Create(dbc dbctx.Context, rows []*types.ParticipantStatus) ([]*types.ParticipantStatus, error)
	GetByRequestID(dbc dbctx.Context, requestID uuid.UUID) ([]*types.ParticipantStatus, error)
	GetByRequestAndParticipant(dbc dbctx.Context, requestID, participantID uuid.UUID) (*types.ParticipantStatus, error)
	// SetPaid flips the row to PAID and binds the ledger entry, conditioned on
	// the row not already being PAID. Returns false when the guard matched
	// nothing (a concurrent commit won, or the row is missing).
	SetPaid(dbc dbctx.Context, requestID, participantID, ledgerEntryID uuid.UUID, paidAt time.Time) (bool, error)
	// SetStatusUnless writes status conditioned on the current status not being
	// in disallowed. Returns false when no row matched.
	SetStatusUnless(dbc dbctx.Context, requestID, participantID uuid.UUID, disallowed []string, status string) (bool, error)
	CountUnpaidByRequest(dbc dbctx.Context, requestID uuid.UUID) (int64, error)
}

type participantStatusRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewParticipantStatusRepo(db *gorm.DB, baseLog *logger.Logger) ParticipantStatusRepo {
	return &participantStatusRepo{
		db:  db,
		log: baseLog.With("repo", "ParticipantStatusRepo"),
	}
}

func (r *participantStatusRepo) Create(dbc dbctx.Context, rows []*types.ParticipantStatus) ([]*types.ParticipantStatus, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.ParticipantStatus{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *participantStatusRepo) GetByRequestID(dbc dbctx.Context, requestID uuid.UUID) ([]*types.ParticipantStatus, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ParticipantStatus
	if requestID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *participantStatusRepo) GetByRequestAndParticipant(dbc dbctx.Context, requestID, participantID uuid.UUID) (*types.ParticipantStatus, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if requestID == uuid.Nil || participantID == uuid.Nil {
		return nil, nil
	}
	var row types.ParticipantStatus
	err := transaction.WithContext(dbc.Ctx).
		Where("request_id = ? AND participant_id = ?", requestID, participantID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *participantStatusRepo) SetPaid(dbc dbctx.Context, requestID, participantID, ledgerEntryID uuid.UUID, paidAt time.Time) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if requestID == uuid.Nil || participantID == uuid.Nil || ledgerEntryID == uuid.Nil {
		return false, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.ParticipantStatus{}).
		Where("request_id = ? AND participant_id = ? AND status <> ?", requestID, participantID, types.ParticipantPaid).
		Updates(map[string]interface{}{
			"status":          types.ParticipantPaid,
			"paid_at":         paidAt,
			"ledger_entry_id": ledgerEntryID,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *participantStatusRepo) SetStatusUnless(dbc dbctx.Context, requestID, participantID uuid.UUID, disallowed []string, status string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if requestID == uuid.Nil || participantID == uuid.Nil || status == "" {
		return false, nil
	}
	q := transaction.WithContext(dbc.Ctx).
		Model(&types.ParticipantStatus{}).
		Where("request_id = ? AND participant_id = ?", requestID, participantID)
	if len(disallowed) == 1 {
		q = q.Where("status <> ?", disallowed[0])
	} else if len(disallowed) > 1 {
		q = q.Where("status NOT IN ?", disallowed)
	}
	res := q.Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *participantStatusRepo) CountUnpaidByRequest(dbc dbctx.Context, requestID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if requestID == uuid.Nil {
		return 0, nil
	}
	var count int64
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.ParticipantStatus{}).
		Where("request_id = ? AND status <> ?", requestID, types.ParticipantPaid).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
