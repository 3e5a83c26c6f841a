package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/paylink-backend/internal/data/repos"
	"github.com/yungbote/paylink-backend/internal/data/repos/testutil"
	types "github.com/yungbote/paylink-backend/internal/domain"
	"github.com/yungbote/paylink-backend/internal/platform/apperr"
	"github.com/yungbote/paylink-backend/internal/platform/dbctx"
)

// recordingSink captures post-commit transition callbacks.
type recordingSink struct {
	mu          sync.Mutex
	transitions int
	completions int
}

func (s *recordingSink) OnTransition(ctx context.Context, requestID, participantID uuid.UUID, completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transitions++
	if completed {
		s.completions++
	}
}

func (s *recordingSink) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitions, s.completions
}

// failingLedgerRepo refuses every write so the surrounding transaction must
// roll back.
type failingLedgerRepo struct {
	repos.LedgerEntryRepo
}

func (r *failingLedgerRepo) Create(dbc dbctx.Context, rows []*types.LedgerEntry) ([]*types.LedgerEntry, error) {
	return nil, errors.New("ledger write refused")
}

type settlementFixture struct {
	db       *gorm.DB
	requests repos.PaymentRequestRepo
	statuses repos.ParticipantStatusRepo
	ledger   repos.LedgerEntryRepo
	sink     *recordingSink
	svc      SettlementService
}

// The commit path opens its own transactions, so these tests run against the
// shared database and clean their rows up afterwards.
func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	f := &settlementFixture{
		db:       db,
		requests: repos.NewPaymentRequestRepo(db, log),
		statuses: repos.NewParticipantStatusRepo(db, log),
		ledger:   repos.NewLedgerEntryRepo(db, log),
		sink:     &recordingSink{},
	}
	f.svc = NewSettlementService(db, log, f.requests, f.statuses, f.ledger, f.sink, 3)
	return f
}

func (f *settlementFixture) seed(t *testing.T, participantIDs []uuid.UUID, amountOwed int64) *types.PaymentRequest {
	t.Helper()
	req := testutil.SeedRequest(t, context.Background(), f.db, uuid.New(), participantIDs, amountOwed)
	t.Cleanup(func() {
		ctx := context.Background()
		f.db.WithContext(ctx).Where("request_id = ?", req.ID).Delete(&types.LedgerEntry{})
		f.db.WithContext(ctx).Unscoped().Where("request_id = ?", req.ID).Delete(&types.ParticipantStatus{})
		f.db.WithContext(ctx).Unscoped().Where("id = ?", req.ID).Delete(&types.PaymentRequest{})
	})
	return req
}

func TestConfirmPaymentIdempotent(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	req := f.seed(t, []uuid.UUID{alice, bob}, 2500)

	first, err := f.svc.ConfirmPayment(ctx, req.ID, alice)
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if first.AlreadyPaid {
		t.Fatalf("first confirmation must not report AlreadyPaid")
	}
	if first.Completed {
		t.Fatalf("request with an unpaid participant must not complete")
	}

	// Repeat confirmations surface the original ledger entry and write
	// nothing new.
	for i := 0; i < 3; i++ {
		again, err := f.svc.ConfirmPayment(ctx, req.ID, alice)
		if err != nil {
			t.Fatalf("repeat ConfirmPayment: %v", err)
		}
		if !again.AlreadyPaid {
			t.Fatalf("repeat confirmation must report AlreadyPaid")
		}
		if again.LedgerEntryID != first.LedgerEntryID {
			t.Fatalf("repeat confirmation returned entry %s, want %s", again.LedgerEntryID, first.LedgerEntryID)
		}
	}

	dbc := dbctx.Context{Ctx: ctx}
	count, err := f.ledger.CountByRequestAndPayer(dbc, req.ID, alice)
	if err != nil {
		t.Fatalf("CountByRequestAndPayer: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 ledger entry for payer, got %d", count)
	}

	last, err := f.svc.ConfirmPayment(ctx, req.ID, bob)
	if err != nil {
		t.Fatalf("ConfirmPayment bob: %v", err)
	}
	if !last.Completed {
		t.Fatalf("final confirmation must complete the request")
	}

	// After completion the repeat path still short-circuits and the settled
	// signal never fires again.
	again, err := f.svc.ConfirmPayment(ctx, req.ID, bob)
	if err != nil {
		t.Fatalf("repeat ConfirmPayment bob: %v", err)
	}
	if !again.AlreadyPaid || again.Completed {
		t.Fatalf("repeat after completion: got %+v", again)
	}

	transitions, completions := f.sink.counts()
	if transitions != 2 {
		t.Fatalf("expected 2 transitions, got %d", transitions)
	}
	if completions != 1 {
		t.Fatalf("expected completion to fire exactly once, got %d", completions)
	}
}

// Many goroutines confirm the same participant at once; exactly one commit
// wins the conditional flip, every caller succeeds with the same ledger entry
// id, and exactly one entry exists afterwards.
func TestConfirmPaymentConcurrent(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	req := f.seed(t, []uuid.UUID{alice, bob}, 2000)

	const callers = 8
	results := make([]*ConfirmResult, callers)
	errs := make([]error, callers)

	var start sync.WaitGroup
	var done sync.WaitGroup
	start.Add(1)
	for i := 0; i < callers; i++ {
		done.Add(1)
		go func(i int) {
			defer done.Done()
			start.Wait()
			results[i], errs[i] = f.svc.ConfirmPayment(ctx, req.ID, alice)
		}(i)
	}
	start.Done()
	done.Wait()

	var winners int
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if results[i].LedgerEntryID != results[0].LedgerEntryID {
			t.Fatalf("caller %d saw entry %s, caller 0 saw %s", i, results[i].LedgerEntryID, results[0].LedgerEntryID)
		}
		if results[i].Completed {
			t.Fatalf("caller %d observed completion with a participant still unpaid", i)
		}
		if !results[i].AlreadyPaid {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly 1 winning commit, got %d", winners)
	}

	dbc := dbctx.Context{Ctx: ctx}
	count, err := f.ledger.CountByRequestAndPayer(dbc, req.ID, alice)
	if err != nil {
		t.Fatalf("CountByRequestAndPayer: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 ledger entry, got %d", count)
	}
}

func TestConfirmPaymentRollsBackOnLedgerFailure(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	alice := uuid.New()
	req := f.seed(t, []uuid.UUID{alice}, 900)

	broken := NewSettlementService(f.db, log, f.requests, f.statuses, &failingLedgerRepo{}, f.sink, 3)
	if _, err := broken.ConfirmPayment(ctx, req.ID, alice); !errors.Is(err, apperr.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}

	dbc := dbctx.Context{Ctx: ctx}
	row, err := f.statuses.GetByRequestAndParticipant(dbc, req.ID, alice)
	if err != nil {
		t.Fatalf("read row: %v", err)
	}
	if row.Status != types.ParticipantPending {
		t.Fatalf("failed commit must leave status PENDING, got %s", row.Status)
	}
	entries, err := f.ledger.ListByRequestID(dbc, req.ID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("failed commit must leave no ledger entries, got %d", len(entries))
	}

	// The row is still confirmable with a working ledger.
	res, err := f.svc.ConfirmPayment(ctx, req.ID, alice)
	if err != nil {
		t.Fatalf("ConfirmPayment after rollback: %v", err)
	}
	if !res.Completed {
		t.Fatalf("single-participant confirmation must complete")
	}
}

func TestReportsAndRetry(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	req := f.seed(t, []uuid.UUID{alice, bob}, 1200)
	dbc := dbctx.Context{Ctx: ctx}

	if err := f.svc.ReportRailFailure(ctx, req.ID, alice); err != nil {
		t.Fatalf("ReportRailFailure: %v", err)
	}
	row, err := f.statuses.GetByRequestAndParticipant(dbc, req.ID, alice)
	if err != nil {
		t.Fatalf("read row: %v", err)
	}
	if row.Status != types.ParticipantFailed {
		t.Fatalf("expected FAILED, got %s", row.Status)
	}

	// One participant's failure never touches another's row.
	other, err := f.statuses.GetByRequestAndParticipant(dbc, req.ID, bob)
	if err != nil {
		t.Fatalf("read other row: %v", err)
	}
	if other.Status != types.ParticipantPending {
		t.Fatalf("unrelated participant moved to %s", other.Status)
	}

	// FAILED and CANCELLED are retryable.
	if err := f.svc.ReportUserDecline(ctx, req.ID, alice); err != nil {
		t.Fatalf("ReportUserDecline: %v", err)
	}
	res, err := f.svc.ConfirmPayment(ctx, req.ID, alice)
	if err != nil {
		t.Fatalf("ConfirmPayment after failure: %v", err)
	}
	if res.AlreadyPaid {
		t.Fatalf("retry after failure is a fresh commit, not a replay")
	}

	// Reports against a PAID row are no-op successes and never downgrade it.
	if err := f.svc.ReportRailFailure(ctx, req.ID, alice); err != nil {
		t.Fatalf("ReportRailFailure on paid: %v", err)
	}
	if err := f.svc.ReportUserDecline(ctx, req.ID, alice); err != nil {
		t.Fatalf("ReportUserDecline on paid: %v", err)
	}
	row, err = f.statuses.GetByRequestAndParticipant(dbc, req.ID, alice)
	if err != nil {
		t.Fatalf("re-read row: %v", err)
	}
	if row.Status != types.ParticipantPaid {
		t.Fatalf("PAID row was downgraded to %s", row.Status)
	}

	if err := f.svc.ReportRailFailure(ctx, req.ID, uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown participant: expected ErrNotFound, got %v", err)
	}
}

func TestSettlementUnknownAndArchivedRequests(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	if _, err := f.svc.ConfirmPayment(ctx, uuid.New(), uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown request: expected ErrNotFound, got %v", err)
	}

	alice := uuid.New()
	req := f.seed(t, []uuid.UUID{alice}, 500)

	if _, err := f.svc.ConfirmPayment(ctx, req.ID, uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown participant: expected ErrNotFound, got %v", err)
	}

	if err := f.db.WithContext(ctx).Delete(&types.PaymentRequest{}, "id = ?", req.ID).Error; err != nil {
		t.Fatalf("archive request: %v", err)
	}
	if _, err := f.svc.ConfirmPayment(ctx, req.ID, alice); !errors.Is(err, apperr.ErrTerminalState) {
		t.Fatalf("archived request: expected ErrTerminalState, got %v", err)
	}
	if err := f.svc.ReportRailFailure(ctx, req.ID, alice); !errors.Is(err, apperr.ErrTerminalState) {
		t.Fatalf("archived request report: expected ErrTerminalState, got %v", err)
	}
}

// Three friends split a dinner bill; one payment fails and is retried, and
// the requester sees the request settle exactly once.
func TestDinnerSplitScenario(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	diners := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	req := f.seed(t, diners, 1500)
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := f.svc.ConfirmPayment(ctx, req.ID, diners[0]); err != nil {
		t.Fatalf("first diner: %v", err)
	}
	if err := f.svc.ReportRailFailure(ctx, req.ID, diners[1]); err != nil {
		t.Fatalf("second diner failure: %v", err)
	}
	if _, err := f.svc.ConfirmPayment(ctx, req.ID, diners[1]); err != nil {
		t.Fatalf("second diner retry: %v", err)
	}

	unpaid, err := f.statuses.CountUnpaidByRequest(dbc, req.ID)
	if err != nil {
		t.Fatalf("CountUnpaidByRequest: %v", err)
	}
	if unpaid != 1 {
		t.Fatalf("expected 1 unpaid diner, got %d", unpaid)
	}

	res, err := f.svc.ConfirmPayment(ctx, req.ID, diners[2])
	if err != nil {
		t.Fatalf("third diner: %v", err)
	}
	if !res.Completed {
		t.Fatalf("third confirmation must settle the request")
	}

	entries, err := f.ledger.ListByRequestID(dbc, req.ID)
	if err != nil {
		t.Fatalf("ListByRequestID: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 ledger entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Amount != 1500 || e.RequestID != req.ID {
			t.Fatalf("malformed ledger entry %+v", e)
		}
	}

	_, completions := f.sink.counts()
	if completions != 1 {
		t.Fatalf("settled signal must fire exactly once, got %d", completions)
	}
}
