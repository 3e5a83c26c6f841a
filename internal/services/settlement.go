package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/paylink-backend/internal/data/repos"
	types "github.com/yungbote/paylink-backend/internal/domain"
	"github.com/yungbote/paylink-backend/internal/platform/apperr"
	"github.com/yungbote/paylink-backend/internal/platform/dbctx"
	"github.com/yungbote/paylink-backend/internal/platform/logger"
)

const defaultCommitAttempts = 3

// errLostRace aborts a commit transaction whose conditional status flip
// matched no row: a concurrent commit got there first. The transaction rolls
// back, so the ledger entry created inside it never becomes visible.
var errLostRace = errors.New("settlement commit lost race")

type ConfirmResult struct {
	LedgerEntryID uuid.UUID
	// AlreadyPaid: the guard short-circuited; LedgerEntryID is the entry a
	// previous confirmation created.
	AlreadyPaid bool
	// Completed: this commit flipped the final participant; the request is
	// now fully paid. At most one ConfirmPayment call per request observes
	// this as true.
	Completed bool
}

// TransitionSink receives every committed transition, after commit. The
// status synchronizer implements it.
type TransitionSink interface {
	OnTransition(ctx context.Context, requestID, participantID uuid.UUID, completed bool)
}

// SettlementService drives the per-participant state machine. All writes go
// through conditional updates; a blind overwrite never happens.
type SettlementService interface {
	ConfirmPayment(ctx context.Context, requestID, participantID uuid.UUID) (*ConfirmResult, error)
	ReportRailFailure(ctx context.Context, requestID, participantID uuid.UUID) error
	ReportUserDecline(ctx context.Context, requestID, participantID uuid.UUID) error
}

type settlementService struct {
	db       *gorm.DB
	log      *logger.Logger
	requests repos.PaymentRequestRepo
	statuses repos.ParticipantStatusRepo
	ledger   repos.LedgerEntryRepo
	sink     TransitionSink
	attempts int
}

func NewSettlementService(
	db *gorm.DB,
	baseLog *logger.Logger,
	requests repos.PaymentRequestRepo,
	statuses repos.ParticipantStatusRepo,
	ledger repos.LedgerEntryRepo,
	sink TransitionSink,
	commitAttempts int,
) SettlementService {
	if commitAttempts <= 0 {
		commitAttempts = defaultCommitAttempts
	}
	return &settlementService{
		db:       db,
		log:      baseLog.With("service", "SettlementService"),
		requests: requests,
		statuses: statuses,
		ledger:   ledger,
		sink:     sink,
		attempts: commitAttempts,
	}
}

func (s *settlementService) ConfirmPayment(ctx context.Context, requestID, participantID uuid.UUID) (*ConfirmResult, error) {
	if s == nil || s.db == nil || s.requests == nil || s.statuses == nil || s.ledger == nil {
		return nil, fmt.Errorf("settlement service not configured")
	}
	dbc := dbctx.Context{Ctx: ctx}

	req, err := s.loadRequest(dbc, requestID)
	if err != nil {
		return nil, err
	}

	row, err := s.statuses.GetByRequestAndParticipant(dbc, requestID, participantID)
	if err != nil {
		return nil, fmt.Errorf("%w: read participant status: %v", apperr.ErrStorageUnavailable, err)
	}
	if row == nil {
		return nil, fmt.Errorf("%w: participant %s on request %s", apperr.ErrNotFound, participantID, requestID)
	}

	for attempt := 0; attempt < s.attempts; attempt++ {
		decision, entryID := DecideSettlement(row)
		if decision == DecisionAlreadySettled {
			return &ConfirmResult{LedgerEntryID: entryID, AlreadyPaid: true}, nil
		}

		res, commitErr := s.commitPaid(ctx, req, row)
		if commitErr == nil {
			s.log.Info("payment confirmed",
				"request_id", requestID.String(),
				"participant_id", participantID.String(),
				"ledger_entry_id", res.LedgerEntryID.String(),
				"completed", res.Completed,
			)
			if s.sink != nil {
				s.sink.OnTransition(ctx, requestID, participantID, res.Completed)
			}
			return res, nil
		}
		if !errors.Is(commitErr, errLostRace) {
			return nil, fmt.Errorf("%w: settlement commit: %v", apperr.ErrStorageUnavailable, commitErr)
		}

		// Lost the optimistic race. Re-read: if the winner marked the row
		// PAID our intent is already satisfied; otherwise go around again.
		row, err = s.statuses.GetByRequestAndParticipant(dbc, requestID, participantID)
		if err != nil {
			return nil, fmt.Errorf("%w: re-read participant status: %v", apperr.ErrStorageUnavailable, err)
		}
		if row == nil {
			return nil, fmt.Errorf("%w: participant %s on request %s", apperr.ErrNotFound, participantID, requestID)
		}
	}
	return nil, fmt.Errorf("%w: request %s participant %s", apperr.ErrConflict, requestID, participantID)
}

// commitPaid is the atomic unit: ledger entry creation, status flip and
// cross-link commit together or not at all. Once entered it runs to full
// commit or full rollback.
func (s *settlementService) commitPaid(ctx context.Context, req *types.PaymentRequest, row *types.ParticipantStatus) (*ConfirmResult, error) {
	entryID := uuid.New()
	now := time.Now().UTC()
	var completed bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		all, err := s.statuses.GetByRequestID(dbc, req.ID)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(all))
		for _, p := range all {
			ids = append(ids, p.ParticipantID)
		}
		rawIDs, err := json.Marshal(ids)
		if err != nil {
			return err
		}

		entry := &types.LedgerEntry{
			ID:           entryID,
			RequestID:    req.ID,
			PayerID:      row.ParticipantID,
			RequesterID:  req.RequesterID,
			Amount:       row.AmountOwed,
			Currency:     req.Currency,
			Note:         req.Note,
			Participants: datatypes.JSON(rawIDs),
			CreatedAt:    now,
		}
		if _, err := s.ledger.Create(dbc, []*types.LedgerEntry{entry}); err != nil {
			return err
		}

		flipped, err := s.statuses.SetPaid(dbc, req.ID, row.ParticipantID, entryID, now)
		if err != nil {
			return err
		}
		if !flipped {
			return errLostRace
		}

		// Completion is decided inside the committing transaction: only the
		// transaction that flips the final participant can observe zero
		// unpaid rows, so the settled signal fires exactly once.
		unpaid, err := s.statuses.CountUnpaidByRequest(dbc, req.ID)
		if err != nil {
			return err
		}
		completed = unpaid == 0
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ConfirmResult{LedgerEntryID: entryID, Completed: completed}, nil
}

func (s *settlementService) ReportRailFailure(ctx context.Context, requestID, participantID uuid.UUID) error {
	return s.reportNonTerminal(ctx, requestID, participantID, types.ParticipantFailed)
}

func (s *settlementService) ReportUserDecline(ctx context.Context, requestID, participantID uuid.UUID) error {
	return s.reportNonTerminal(ctx, requestID, participantID, types.ParticipantCancelled)
}

// reportNonTerminal records FAILED or CANCELLED. Both are retryable states
// with no ledger side effects. Repeat calls, and calls racing a confirmation,
// are no-op successes: a PAID row is never downgraded.
func (s *settlementService) reportNonTerminal(ctx context.Context, requestID, participantID uuid.UUID, status string) error {
	if s == nil || s.db == nil || s.statuses == nil {
		return fmt.Errorf("settlement service not configured")
	}
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := s.loadRequest(dbc, requestID); err != nil {
		return err
	}

	changed, err := s.statuses.SetStatusUnless(dbc, requestID, participantID, []string{types.ParticipantPaid}, status)
	if err != nil {
		return fmt.Errorf("%w: write participant status: %v", apperr.ErrStorageUnavailable, err)
	}
	if !changed {
		row, err := s.statuses.GetByRequestAndParticipant(dbc, requestID, participantID)
		if err != nil {
			return fmt.Errorf("%w: read participant status: %v", apperr.ErrStorageUnavailable, err)
		}
		if row == nil {
			return fmt.Errorf("%w: participant %s on request %s", apperr.ErrNotFound, participantID, requestID)
		}
		// Row is PAID; the confirmed payment wins and the report is a no-op.
		return nil
	}

	s.log.Info("participant status reported",
		"request_id", requestID.String(),
		"participant_id", participantID.String(),
		"status", status,
	)
	if s.sink != nil {
		s.sink.OnTransition(ctx, requestID, participantID, false)
	}
	return nil
}

func (s *settlementService) loadRequest(dbc dbctx.Context, requestID uuid.UUID) (*types.PaymentRequest, error) {
	req, err := s.requests.GetByID(dbc, requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: read payment request: %v", apperr.ErrStorageUnavailable, err)
	}
	if req != nil {
		return req, nil
	}
	archived, err := s.requests.GetByIDAny(dbc, requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: read payment request: %v", apperr.ErrStorageUnavailable, err)
	}
	if archived != nil {
		return nil, fmt.Errorf("%w: request %s is archived", apperr.ErrTerminalState, requestID)
	}
	return nil, fmt.Errorf("%w: request %s", apperr.ErrNotFound, requestID)
}
