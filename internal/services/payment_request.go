package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/paylink-backend/internal/data/repos"
	types "github.com/yungbote/paylink-backend/internal/domain"
	"github.com/yungbote/paylink-backend/internal/platform/apperr"
	"github.com/yungbote/paylink-backend/internal/platform/dbctx"
	"github.com/yungbote/paylink-backend/internal/platform/logger"
)

type ParticipantSplit struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	AmountOwed    int64     `json:"amount_owed"`
}

type CreateRequestInput struct {
	Amount   int64              `json:"amount"`
	Currency string             `json:"currency"`
	Note     string             `json:"note"`
	Splits   []ParticipantSplit `json:"splits"`
}

// PaymentRequestService is the lifecycle orchestrator: creation, fresh
// snapshots and listing. Mutations of participant state belong to the
// settlement coordinator, never here.
type PaymentRequestService interface {
	CreateRequest(ctx context.Context, requesterID uuid.UUID, input CreateRequestInput) (*types.PaymentRequest, error)
	GetSnapshot(ctx context.Context, requestID uuid.UUID) (*Snapshot, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*types.PaymentRequest, error)
}

type paymentRequestService struct {
	db       *gorm.DB
	log      *logger.Logger
	requests repos.PaymentRequestRepo
	statuses repos.ParticipantStatusRepo
	notify   PaymentNotifier
}

func NewPaymentRequestService(
	db *gorm.DB,
	baseLog *logger.Logger,
	requests repos.PaymentRequestRepo,
	statuses repos.ParticipantStatusRepo,
	notify PaymentNotifier,
) PaymentRequestService {
	return &paymentRequestService{
		db:       db,
		log:      baseLog.With("service", "PaymentRequestService"),
		requests: requests,
		statuses: statuses,
		notify:   notify,
	}
}

func (s *paymentRequestService) CreateRequest(ctx context.Context, requesterID uuid.UUID, input CreateRequestInput) (*types.PaymentRequest, error) {
	if err := validateCreateRequest(requesterID, input); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil || s.requests == nil || s.statuses == nil {
		return nil, fmt.Errorf("payment request service not configured")
	}

	now := time.Now().UTC()
	req := &types.PaymentRequest{
		ID:          uuid.New(),
		RequesterID: requesterID,
		Amount:      input.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(input.Currency)),
		Note:        strings.TrimSpace(input.Note),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	rows := make([]*types.ParticipantStatus, 0, len(input.Splits))
	for _, split := range input.Splits {
		rows = append(rows, &types.ParticipantStatus{
			ID:            uuid.New(),
			RequestID:     req.ID,
			ParticipantID: split.ParticipantID,
			Status:        types.ParticipantPending,
			AmountOwed:    split.AmountOwed,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.requests.Create(dbc, []*types.PaymentRequest{req}); err != nil {
			return err
		}
		if _, err := s.statuses.Create(dbc, rows); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create payment request: %v", apperr.ErrStorageUnavailable, err)
	}

	s.log.Info("payment request created",
		"request_id", req.ID.String(),
		"requester_id", requesterID.String(),
		"participants", len(rows),
		"amount", req.Amount,
		"currency", req.Currency,
	)
	if s.notify != nil {
		s.notify.RequestCreated(ctx, req, buildSnapshot(req, rows))
	}
	return req, nil
}

func (s *paymentRequestService) GetSnapshot(ctx context.Context, requestID uuid.UUID) (*Snapshot, error) {
	if s == nil || s.requests == nil || s.statuses == nil {
		return nil, fmt.Errorf("payment request service not configured")
	}
	if requestID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing request id", apperr.ErrInvalidRequest)
	}
	dbc := dbctx.Context{Ctx: ctx}

	req, err := s.requests.GetByID(dbc, requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: read payment request: %v", apperr.ErrStorageUnavailable, err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request %s", apperr.ErrNotFound, requestID)
	}
	rows, err := s.statuses.GetByRequestID(dbc, requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: read participant statuses: %v", apperr.ErrStorageUnavailable, err)
	}
	return buildSnapshot(req, rows), nil
}

func (s *paymentRequestService) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*types.PaymentRequest, error) {
	if s == nil || s.requests == nil {
		return nil, fmt.Errorf("payment request service not configured")
	}
	out, err := s.requests.ListByRequester(dbctx.Context{Ctx: ctx}, requesterID)
	if err != nil {
		return nil, fmt.Errorf("%w: list payment requests: %v", apperr.ErrStorageUnavailable, err)
	}
	return out, nil
}

func validateCreateRequest(requesterID uuid.UUID, input CreateRequestInput) error {
	if requesterID == uuid.Nil {
		return fmt.Errorf("%w: missing requester id", apperr.ErrInvalidRequest)
	}
	if input.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", apperr.ErrInvalidRequest)
	}
	if strings.TrimSpace(input.Currency) == "" {
		return fmt.Errorf("%w: missing currency", apperr.ErrInvalidRequest)
	}
	if len(input.Splits) == 0 {
		return fmt.Errorf("%w: at least one participant split is required", apperr.ErrInvalidRequest)
	}
	seen := make(map[uuid.UUID]bool, len(input.Splits))
	for _, split := range input.Splits {
		if split.ParticipantID == uuid.Nil {
			return fmt.Errorf("%w: missing participant id", apperr.ErrInvalidRequest)
		}
		if split.ParticipantID == requesterID {
			return fmt.Errorf("%w: requester cannot be a participant", apperr.ErrInvalidRequest)
		}
		if split.AmountOwed <= 0 {
			return fmt.Errorf("%w: split amount must be positive for participant %s", apperr.ErrInvalidRequest, split.ParticipantID)
		}
		if seen[split.ParticipantID] {
			return fmt.Errorf("%w: duplicate participant %s", apperr.ErrInvalidRequest, split.ParticipantID)
		}
		seen[split.ParticipantID] = true
	}
	return nil
}
