package payments

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/paylink-backend/internal/domain"
	"github.com/yungbote/paylink-backend/internal/platform/dbctx"
	"github.com/yungbote/paylink-backend/internal/platform/logger"
)

// LedgerEntryRepo is write-mostly: entries are append-only financial records.
// No update or delete methods exist on purpose.
type LedgerEntryRepo interface {
	Create(dbc dbctx.Context, rows []*types.LedgerEntry) ([]*types.LedgerEntry, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.LedgerEntry, error)
	ListByRequestID(dbc dbctx.Context, requestID uuid.UUID) ([]*types.LedgerEntry, error)
	CountByRequestAndPayer(dbc dbctx.Context, requestID, payerID uuid.UUID) (int64, error)
}

type ledgerEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLedgerEntryRepo(db *gorm.DB, baseLog *logger.Logger) LedgerEntryRepo {
	return &ledgerEntryRepo{
		db:  db,
		log: baseLog.With("repo", "LedgerEntryRepo"),
	}
}

func (r *ledgerEntryRepo) Create(dbc dbctx.Context, rows []*types.LedgerEntry) ([]*types.LedgerEntry, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.LedgerEntry{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ledgerEntryRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.LedgerEntry, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.LedgerEntry
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ledgerEntryRepo) ListByRequestID(dbc dbctx.Context, requestID uuid.UUID) ([]*types.LedgerEntry, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.LedgerEntry
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

func (r *ledgerEntryRepo) CountByRequestAndPayer(dbc dbctx.Context, requestID, payerID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if requestID == uuid.Nil || payerID == uuid.Nil {
		return 0, nil
	}
	var count int64
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.LedgerEntry{}).
		Where("request_id = ? AND payer_id = ?", requestID, payerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
