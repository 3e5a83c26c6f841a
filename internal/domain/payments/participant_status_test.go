package payments

import (
	"testing"

	"github.com/google/uuid"
)

func row(id uuid.UUID, status string) *ParticipantStatus {
	return &ParticipantStatus{ID: uuid.New(), ParticipantID: id, Status: status}
}

func TestPaidCountAndFullyPaid(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	if PaidCount(nil) != 0 {
		t.Fatalf("PaidCount(nil) != 0")
	}
	// An empty participant set is never fully paid.
	if IsFullyPaid(nil) {
		t.Fatalf("IsFullyPaid(nil) must be false")
	}

	rows := []*ParticipantStatus{row(a, ParticipantPaid), row(b, ParticipantPending), row(c, ParticipantFailed)}
	if got := PaidCount(rows); got != 1 {
		t.Fatalf("PaidCount: got %d want 1", got)
	}
	if IsFullyPaid(rows) {
		t.Fatalf("IsFullyPaid with pending rows must be false")
	}

	rows = []*ParticipantStatus{row(a, ParticipantPaid), row(b, ParticipantPaid)}
	if !IsFullyPaid(rows) {
		t.Fatalf("IsFullyPaid with all paid must be true")
	}
}

func TestUnpaidParticipants(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	rows := []*ParticipantStatus{
		row(a, ParticipantPaid),
		row(b, ParticipantCancelled),
		row(c, ParticipantFailed),
		nil,
	}

	unpaid := UnpaidParticipants(rows)
	if len(unpaid) != 2 {
		t.Fatalf("expected 2 unpaid, got %d", len(unpaid))
	}
	if unpaid[0] != b || unpaid[1] != c {
		t.Fatalf("unpaid order: got %v", unpaid)
	}
}
