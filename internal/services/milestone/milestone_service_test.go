package milestone

import (
	"testing"

	"github.com/google/uuid"

	"github.com/aldikurniawan/workhive_be/internal/apperrors"
	"github.com/aldikurniawan/workhive_be/internal/models"
	"github.com/aldikurniawan/workhive_be/internal/testutil"
)

func TestCreateAssignsNextOrderIndex(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	fx := testutil.SeedContract(t, gdb, models.ContractStatusActive)

	m1, err := svc.Create(fx.Contract.ID, fx.Client.ID, CreateInput{Title: "Design", Amount: 200})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if m1.OrderIndex != 1 {
		t.Fatalf("first order index = %d, want 1", m1.OrderIndex)
	}

	m2, err := svc.Create(fx.Contract.ID, fx.Client.ID, CreateInput{Title: "Build", Amount: 300})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if m2.OrderIndex != 2 {
		t.Fatalf("second order index = %d, want 2", m2.OrderIndex)
	}
}

func TestCreateGuards(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	fx := testutil.SeedContract(t, gdb, models.ContractStatusActive)

	if _, err := svc.Create(fx.Contract.ID, fx.Freelancer.ID, CreateInput{Title: "x", Amount: 100}); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Fatalf("create by freelancer: got %v, want forbidden", err)
	}
	if _, err := svc.Create(fx.Contract.ID, fx.Client.ID, CreateInput{Title: "  ", Amount: 100}); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Fatalf("blank title: got %v, want validation", err)
	}
	if _, err := svc.Create(fx.Contract.ID, fx.Client.ID, CreateInput{Title: "x", Amount: 0}); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Fatalf("zero amount: got %v, want validation", err)
	}
	if _, err := svc.Create(uuid.New(), fx.Client.ID, CreateInput{Title: "x", Amount: 100}); !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("unknown contract: got %v, want not found", err)
	}

	gdb.Model(&models.Contract{}).Where("id = ?", fx.Contract.ID).
		Update("status", models.ContractStatusCompleted)
	if _, err := svc.Create(fx.Contract.ID, fx.Client.ID, CreateInput{Title: "x", Amount: 100}); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("create on completed contract: got %v, want invalid state", err)
	}
}

func TestCreateDuplicateOrderIndex(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	fx := testutil.SeedContract(t, gdb, models.ContractStatusActive)

	idx := 3
	if _, err := svc.Create(fx.Contract.ID, fx.Client.ID, CreateInput{Title: "a", Amount: 100, OrderIndex: &idx}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(fx.Contract.ID, fx.Client.ID, CreateInput{Title: "b", Amount: 100, OrderIndex: &idx}); !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("duplicate order index: got %v, want conflict", err)
	}
}

func TestLinearTransitions(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	fx := testutil.SeedContract(t, gdb, models.ContractStatusActive)

	m, err := svc.Create(fx.Contract.ID, fx.Client.ID, CreateInput{Title: "Design", Amount: 200})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// No skipping PENDING -> COMPLETED.
	if _, err := svc.Complete(m.ID, fx.Freelancer.ID); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("complete pending: got %v, want invalid state", err)
	}

	if _, err := svc.Start(m.ID, fx.Client.ID); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Fatalf("start by client: got %v, want forbidden", err)
	}

	started, err := svc.Start(m.ID, fx.Freelancer.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != models.MilestoneStatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS", started.Status)
	}
	if _, err := svc.Start(m.ID, fx.Freelancer.ID); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("double start: got %v, want invalid state", err)
	}

	completed, err := svc.Complete(m.ID, fx.Freelancer.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != models.MilestoneStatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Fatal("completed_at not set")
	}
	if _, err := svc.Complete(m.ID, fx.Freelancer.ID); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("double complete: got %v, want invalid state", err)
	}
}

func TestUpdateOnlyWhilePending(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	fx := testutil.SeedContract(t, gdb, models.ContractStatusActive)

	m, err := svc.Create(fx.Contract.ID, fx.Client.ID, CreateInput{Title: "Design", Amount: 200})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(m.ID, fx.Client.ID, UpdateInput{Title: "Design v2", Amount: 250})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Design v2" || updated.Amount != 250 {
		t.Fatalf("update not applied: %+v", updated)
	}

	if _, err := svc.Update(m.ID, fx.Freelancer.ID, UpdateInput{Title: "x", Amount: 1}); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Fatalf("update by freelancer: got %v, want forbidden", err)
	}

	if _, err := svc.Start(m.ID, fx.Freelancer.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Update(m.ID, fx.Client.ID, UpdateInput{Title: "too late", Amount: 100}); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("update after start: got %v, want invalid state", err)
	}
}

func TestListByContract(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	fx := testutil.SeedContract(t, gdb, models.ContractStatusActive)

	svc.Create(fx.Contract.ID, fx.Client.ID, CreateInput{Title: "a", Amount: 100})
	svc.Create(fx.Contract.ID, fx.Client.ID, CreateInput{Title: "b", Amount: 100})

	list, err := svc.ListByContract(fx.Contract.ID, fx.Freelancer.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].OrderIndex > list[1].OrderIndex {
		t.Fatal("list not ordered by order_index")
	}

	if _, err := svc.ListByContract(fx.Contract.ID, uuid.New()); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Fatalf("list by stranger: got %v, want forbidden", err)
	}
}
