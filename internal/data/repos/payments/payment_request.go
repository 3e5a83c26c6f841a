package payments

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/paylink-backend/internal/domain"
	"github.com/yungbote/paylink-backend/internal/platform/dbctx"
	"github.com/yungbote/paylink-backend/internal/platform/logger"
)

type PaymentRequestRepo interface {
	Create(dbc dbctx.Context, rows []*types.PaymentRequest) ([]*types.PaymentRequest, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PaymentRequest, error)
	// GetByIDAny also returns archived (soft-deleted) rows.
	GetByIDAny(dbc dbctx.Context, id uuid.UUID) (*types.PaymentRequest, error)
	ListByRequester(dbc dbctx.Context, requesterID uuid.UUID) ([]*types.PaymentRequest, error)
}

type paymentRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaymentRequestRepo(db *gorm.DB, baseLog *logger.Logger) PaymentRequestRepo {
	return &paymentRequestRepo{
		db:  db,
		log: baseLog.With("repo", "PaymentRequestRepo"),
	}
}

func (r *paymentRequestRepo) Create(dbc dbctx.Context, rows []*types.PaymentRequest) ([]*types.PaymentRequest, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.PaymentRequest{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *paymentRequestRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PaymentRequest, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.PaymentRequest
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
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

func (r *paymentRequestRepo) GetByIDAny(dbc dbctx.Context, id uuid.UUID) (*types.PaymentRequest, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.PaymentRequest
	err := transaction.WithContext(dbc.Ctx).
		Unscoped().
		Where("id = ?", id).
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

func (r *paymentRequestRepo) ListByRequester(dbc dbctx.Context, requesterID uuid.UUID) ([]*types.PaymentRequest, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.PaymentRequest
	if requesterID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
