package payments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/paylink-backend/internal/data/repos/testutil"
	"github.com/yungbote/paylink-backend/internal/platform/dbctx"
)

func TestPaymentRequestRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPaymentRequestRepo(db, testutil.Logger(t))

	requesterID := uuid.New()
	first := testutil.SeedRequest(t, ctx, tx, requesterID, []uuid.UUID{uuid.New()}, 1000)
	second := testutil.SeedRequest(t, ctx, tx, requesterID, []uuid.UUID{uuid.New(), uuid.New()}, 750)

	row, err := repo.GetByID(dbc, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if row == nil || row.ID != first.ID {
		t.Fatalf("GetByID: wrong row %+v", row)
	}
	if row.Amount != 1000 || row.Currency != "INR" {
		t.Fatalf("GetByID: unexpected fields %+v", row)
	}

	if row, err := repo.GetByID(dbc, uuid.New()); err != nil || row != nil {
		t.Fatalf("GetByID miss: expected nil,nil got %+v,%v", row, err)
	}
	if row, err := repo.GetByID(dbc, uuid.Nil); err != nil || row != nil {
		t.Fatalf("GetByID nil id: expected nil,nil got %+v,%v", row, err)
	}

	rows, err := repo.ListByRequester(dbc, requesterID)
	if err != nil {
		t.Fatalf("ListByRequester: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListByRequester: expected 2, got %d", len(rows))
	}

	// Archived requests disappear from the scoped reads but stay visible to
	// GetByIDAny.
	if err := tx.WithContext(ctx).Delete(second).Error; err != nil {
		t.Fatalf("archive request: %v", err)
	}
	if row, err := repo.GetByID(dbc, second.ID); err != nil || row != nil {
		t.Fatalf("GetByID archived: expected nil,nil got %+v,%v", row, err)
	}
	row, err = repo.GetByIDAny(dbc, second.ID)
	if err != nil {
		t.Fatalf("GetByIDAny: %v", err)
	}
	if row == nil || !row.DeletedAt.Valid {
		t.Fatalf("GetByIDAny: expected archived row, got %+v", row)
	}

	rows, err = repo.ListByRequester(dbc, requesterID)
	if err != nil {
		t.Fatalf("ListByRequester after archive: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != first.ID {
		t.Fatalf("ListByRequester after archive: expected only %s, got %d rows", first.ID, len(rows))
	}
}
